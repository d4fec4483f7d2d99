// Package ledger backs the assignment engine's StoreDirectory and
// OrderLedger contracts with gorm/Postgres.
package ledger

import (
	"errors"

	"gorm.io/gorm"

	"store_vision/internal/assignment"
	"store_vision/internal/models"
)

// Stores reads the store directory.
type Stores struct {
	db *gorm.DB
}

func NewStores(db *gorm.DB) *Stores {
	return &Stores{db: db}
}

// ListActiveStores returns every active store, ascending id so scans
// tie-break deterministically.
func (s *Stores) ListActiveStores() ([]models.Store, error) {
	var stores []models.Store
	if err := s.db.Where("is_active = ?", true).Order("id").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// ListActiveStoresByCity is the single-order candidate query. City
// comparison is exact; matching is case-sensitive.
func (s *Stores) ListActiveStoresByCity(city string) ([]models.Store, error) {
	var stores []models.Store
	if err := s.db.Where("is_active = ? AND city = ?", true, city).Order("id").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// Orders reads and mutates the order ledger.
type Orders struct {
	db *gorm.DB
}

func NewOrders(db *gorm.DB) *Orders {
	return &Orders{db: db}
}

func (o *Orders) ListOrders(f assignment.OrderFilter) ([]models.Order, error) {
	q := o.db.Model(&models.Order{})
	if f.City != nil {
		q = q.Where("city = ?", *f.City)
	}
	if f.Fulfilled != nil {
		q = q.Where("is_fulfilled = ?", *f.Fulfilled)
	}
	if f.AssignedOnly {
		q = q.Where("store_id IS NOT NULL")
	}

	var orders []models.Order
	if err := q.Order("id").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (o *Orders) CreateOrder(order *models.Order) error {
	return o.db.Create(order).Error
}

// UpdateOrderAssignment writes one order's assignment. Sweeps call
// this once per order; each call stands alone, there is no enclosing
// transaction.
func (o *Orders) UpdateOrderAssignment(orderID uint, fulfilled bool, storeID *uint) error {
	res := o.db.Model(&models.Order{}).Where("id = ?", orderID).
		Updates(map[string]interface{}{"is_fulfilled": fulfilled, "store_id": storeID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return assignment.ErrNotFound
	}
	return nil
}

// ClearOrdersByStore bulk-unassigns every order pointing at storeID.
func (o *Orders) ClearOrdersByStore(storeID uint) (int64, error) {
	res := o.db.Model(&models.Order{}).Where("store_id = ?", storeID).
		Updates(map[string]interface{}{"is_fulfilled": false, "store_id": nil})
	return res.RowsAffected, res.Error
}

// IsNotFound reports whether err came back as a missing record, from
// either gorm or the engine's own sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, assignment.ErrNotFound)
}
