package assignment

import "store_vision/internal/models"

// OrderFilter narrows ListOrders. Nil fields are ignored.
type OrderFilter struct {
	City      *string
	Fulfilled *bool
	// AssignedOnly additionally requires a non-null store reference.
	AssignedOnly bool
}

// StoreDirectory is the read side of the store ledger. Implementations
// must return stores in a stable order (ascending id) so that
// nearest-store tie-breaks are deterministic.
type StoreDirectory interface {
	ListActiveStores() ([]models.Store, error)
	ListActiveStoresByCity(city string) ([]models.Store, error)
}

// OrderLedger is the engine's view of order persistence.
type OrderLedger interface {
	ListOrders(f OrderFilter) ([]models.Order, error)
	CreateOrder(o *models.Order) error
	UpdateOrderAssignment(orderID uint, fulfilled bool, storeID *uint) error
	ClearOrdersByStore(storeID uint) (int64, error)
}
