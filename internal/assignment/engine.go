// Package assignment matches orders to stores: a single nearest-store
// pick when an order is placed, and a bulk sweep that re-validates
// every assignment after the store set changes.
package assignment

import (
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"store_vision/internal/geo"
	"store_vision/internal/models"
)

// Summary reports what a reassignment sweep did.
type Summary struct {
	Reassigned int `json:"reassigned"`
	Unassigned int `json:"unassigned"`
}

// Engine holds the ledger handles. It carries no other state; every
// operation re-derives the world from the ledgers.
type Engine struct {
	stores StoreDirectory
	orders OrderLedger

	// Serializes sweeps. Concurrent sweeps would race on per-order
	// updates and leave assignments transiently inconsistent.
	sweepMu sync.Mutex
}

func NewEngine(stores StoreDirectory, orders OrderLedger) *Engine {
	return &Engine{stores: stores, orders: orders}
}

// eligible reports whether the store can fulfill an order at the given
// position. A store with no declared radius matches by city alone; a
// declared radius is a hard cutoff, with distance exactly equal to the
// radius still inside. The same rule is applied everywhere the engine
// checks eligibility.
func eligible(store models.Store, pos geo.Coordinate) (float64, bool) {
	d := geo.DistanceKm(geo.Coordinate{Lat: store.Lat, Lon: store.Lon}, pos)
	if store.DeliveryRadiusKm == nil {
		return d, true
	}
	return d, d <= *store.DeliveryRadiusKm
}

// nearestEligible scans candidates in slice order and returns the
// first store achieving the minimum eligible distance, or nil when no
// candidate is eligible.
func nearestEligible(candidates []models.Store, pos geo.Coordinate) *models.Store {
	var best *models.Store
	minDist := math.Inf(1)

	for i := range candidates {
		d, ok := eligible(candidates[i], pos)
		if ok && d < minDist {
			best = &candidates[i]
			minDist = d
		}
	}
	return best
}

// AssignNewOrder creates an order at (lat, lon) in city, assigned to
// the nearest eligible active store in that city. No eligible store is
// a valid outcome: the order is persisted unfulfilled and the returned
// store is nil.
func (e *Engine) AssignNewOrder(lat, lon float64, city string) (*models.Order, *models.Store, error) {
	if city == "" {
		return nil, nil, fmt.Errorf("%w: city is required", ErrValidation)
	}
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return nil, nil, fmt.Errorf("%w: position must be finite", ErrValidation)
	}

	candidates, err := e.stores.ListActiveStoresByCity(city)
	if err != nil {
		return nil, nil, fmt.Errorf("list stores: %w", err)
	}

	nearest := nearestEligible(candidates, geo.Coordinate{Lat: lat, Lon: lon})

	order := &models.Order{Lat: lat, Lon: lon, City: city}
	if nearest != nil {
		order.IsFulfilled = true
		order.StoreID = &nearest.ID
	}

	if err := e.orders.CreateOrder(order); err != nil {
		return nil, nil, fmt.Errorf("create order: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"city":      city,
		"fulfilled": order.IsFulfilled,
	}).Debug("order placed")

	return order, nearest, nil
}

// ReassignAll re-derives every assignment from the current store set.
// It first clears assignments that are no longer valid (store gone,
// deactivated, wrong city, or out of radius), then tries to place
// every unfulfilled order, including the ones just cleared, with the
// nearest eligible store in its city.
//
// Updates are independent row writes with no surrounding transaction.
// On a persistence error the sweep stops, already-committed updates
// stay, and the returned summary counts only completed work.
func (e *Engine) ReassignAll() (Summary, error) {
	e.sweepMu.Lock()
	defer e.sweepMu.Unlock()

	var summary Summary

	activeStores, err := e.stores.ListActiveStores()
	if err != nil {
		return summary, fmt.Errorf("list stores: %w", err)
	}

	fulfilledTrue := true
	fulfilledFalse := false
	assigned, err := e.orders.ListOrders(OrderFilter{Fulfilled: &fulfilledTrue, AssignedOnly: true})
	if err != nil {
		return summary, fmt.Errorf("list fulfilled orders: %w", err)
	}
	unfulfilled, err := e.orders.ListOrders(OrderFilter{Fulfilled: &fulfilledFalse})
	if err != nil {
		return summary, fmt.Errorf("list unfulfilled orders: %w", err)
	}

	storeByID := make(map[uint]models.Store, len(activeStores))
	for _, s := range activeStores {
		storeByID[s.ID] = s
	}

	// Invalidation pass: drop assignments the current topology no
	// longer supports.
	displaced := make([]models.Order, 0)
	for _, order := range assigned {
		store, ok := storeByID[*order.StoreID]
		valid := false
		if ok && store.City == order.City {
			_, valid = eligible(store, geo.Coordinate{Lat: order.Lat, Lon: order.Lon})
		}
		if valid {
			continue
		}
		if err := e.orders.UpdateOrderAssignment(order.ID, false, nil); err != nil {
			return summary, fmt.Errorf("unassign order %d: %w", order.ID, err)
		}
		summary.Unassigned++
		order.IsFulfilled = false
		order.StoreID = nil
		displaced = append(displaced, order)
	}

	// Reassignment pass over displaced plus previously unfulfilled.
	for _, order := range append(unfulfilled, displaced...) {
		var candidates []models.Store
		for _, s := range activeStores {
			if s.City == order.City {
				candidates = append(candidates, s)
			}
		}
		nearest := nearestEligible(candidates, geo.Coordinate{Lat: order.Lat, Lon: order.Lon})
		if nearest == nil {
			continue
		}
		if err := e.orders.UpdateOrderAssignment(order.ID, true, &nearest.ID); err != nil {
			return summary, fmt.Errorf("reassign order %d: %w", order.ID, err)
		}
		summary.Reassigned++
	}

	logrus.WithFields(logrus.Fields{
		"reassigned": summary.Reassigned,
		"unassigned": summary.Unassigned,
	}).Info("reassignment sweep finished")

	return summary, nil
}

// ClearStore unassigns every order pointing at the given store, used
// when a store is deleted or deactivated. The caller is expected to
// run ReassignAll afterwards so displaced orders can land elsewhere.
func (e *Engine) ClearStore(storeID uint) (int64, error) {
	n, err := e.orders.ClearOrdersByStore(storeID)
	if err != nil {
		return 0, fmt.Errorf("clear orders for store %d: %w", storeID, err)
	}
	return n, nil
}
