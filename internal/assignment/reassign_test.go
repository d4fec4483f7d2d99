package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store_vision/internal/models"
)

func TestReassignAll_Idempotent(t *testing.T) {
	led := newFakeLedger()
	led.addStore(models.Store{Name: "A", City: "Delhi", Lat: 28.61, Lon: 77.20, DeliveryRadiusKm: radius(5), IsActive: true})
	led.addStore(models.Store{Name: "B", City: "Pune", Lat: 18.52, Lon: 73.85, DeliveryRadiusKm: radius(5), IsActive: true})

	eng := NewEngine(led, led)
	_, _, err := eng.AssignNewOrder(28.63, 77.22, "Delhi")
	require.NoError(t, err)
	_, _, err = eng.AssignNewOrder(18.53, 73.86, "Pune")
	require.NoError(t, err)
	_, _, err = eng.AssignNewOrder(28.90, 77.50, "Delhi") // out of range, unfulfilled
	require.NoError(t, err)

	// Make the first sweep do real work: move the Pune store away so
	// its order gets invalidated.
	pune := led.stores[2]
	pune.Lat, pune.Lon = 18.90, 74.20
	led.stores[2] = pune

	first, err := eng.ReassignAll()
	require.NoError(t, err)
	assert.Equal(t, Summary{Unassigned: 1}, first)

	before := snapshot(led)
	second, err := eng.ReassignAll()
	require.NoError(t, err)

	assert.Equal(t, Summary{}, second, "a second sweep with unchanged topology does nothing")
	assert.Equal(t, before, snapshot(led))
}

func TestReassignAll_InvalidatesDeactivatedStore(t *testing.T) {
	led := newFakeLedger()
	s := led.addStore(models.Store{Name: "A", City: "Delhi", Lat: 28.61, Lon: 77.20, DeliveryRadiusKm: radius(5), IsActive: true})

	eng := NewEngine(led, led)
	order, _, err := eng.AssignNewOrder(28.63, 77.22, "Delhi")
	require.NoError(t, err)
	require.True(t, order.IsFulfilled)

	// Deactivate the store out from under its order.
	st := led.stores[s.ID]
	st.IsActive = false
	led.stores[s.ID] = st

	sum, err := eng.ReassignAll()
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Unassigned)
	assert.Equal(t, 0, sum.Reassigned)

	got := led.orders[order.ID]
	assert.False(t, got.IsFulfilled)
	assert.Nil(t, got.StoreID)
}

func TestReassignAll_DisplacedOrderMovesToAnotherStore(t *testing.T) {
	led := newFakeLedger()
	s1 := led.addStore(models.Store{Name: "A", City: "Delhi", Lat: 28.61, Lon: 77.20, DeliveryRadiusKm: radius(5), IsActive: true})
	s2 := led.addStore(models.Store{Name: "B", City: "Delhi", Lat: 28.64, Lon: 77.23, DeliveryRadiusKm: radius(5), IsActive: true})

	eng := NewEngine(led, led)
	order, store, err := eng.AssignNewOrder(28.63, 77.22, "Delhi")
	require.NoError(t, err)
	require.Equal(t, s1.ID, store.ID, "nearest first")

	st := led.stores[s1.ID]
	st.IsActive = false
	led.stores[s1.ID] = st

	sum, err := eng.ReassignAll()
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Unassigned)
	assert.Equal(t, 1, sum.Reassigned)

	got := led.orders[order.ID]
	require.NotNil(t, got.StoreID)
	assert.Equal(t, s2.ID, *got.StoreID)
	assert.True(t, got.IsFulfilled)
	assert.NotEqual(t, s1.ID, *got.StoreID)
}

func TestReassignAll_PicksUpPreviouslyUnfulfilled(t *testing.T) {
	led := newFakeLedger()
	eng := NewEngine(led, led)

	// Placed with no stores around: unfulfilled.
	order, _, err := eng.AssignNewOrder(28.63, 77.22, "Delhi")
	require.NoError(t, err)
	require.False(t, order.IsFulfilled)

	led.addStore(models.Store{Name: "New", City: "Delhi", Lat: 28.61, Lon: 77.20, DeliveryRadiusKm: radius(5), IsActive: true})

	sum, err := eng.ReassignAll()
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Reassigned)
	assert.Equal(t, 0, sum.Unassigned)
	assert.True(t, led.orders[order.ID].IsFulfilled)
}

func TestReassignAll_CityMismatchInvalidates(t *testing.T) {
	led := newFakeLedger()
	s := led.addStore(models.Store{Name: "A", City: "Delhi", Lat: 28.61, Lon: 77.20, DeliveryRadiusKm: radius(5), IsActive: true})

	eng := NewEngine(led, led)
	order, _, err := eng.AssignNewOrder(28.63, 77.22, "Delhi")
	require.NoError(t, err)

	// Store edited into another city; its Delhi order must not stick.
	st := led.stores[s.ID]
	st.City = "Mumbai"
	led.stores[s.ID] = st

	sum, err := eng.ReassignAll()
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Unassigned)
	got := led.orders[order.ID]
	assert.False(t, got.IsFulfilled)
	assert.Nil(t, got.StoreID)
}

func TestReassignAll_ShrunkRadiusInvalidates(t *testing.T) {
	led := newFakeLedger()
	s := led.addStore(models.Store{Name: "A", City: "Delhi", Lat: 28.61, Lon: 77.20, DeliveryRadiusKm: radius(5), IsActive: true})

	eng := NewEngine(led, led)
	order, _, err := eng.AssignNewOrder(28.63, 77.22, "Delhi") // ~2.97 km
	require.NoError(t, err)

	st := led.stores[s.ID]
	st.DeliveryRadiusKm = radius(1)
	led.stores[s.ID] = st

	sum, err := eng.ReassignAll()
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Unassigned)
	assert.Equal(t, 0, sum.Reassigned)
	assert.False(t, led.orders[order.ID].IsFulfilled)
}

func TestReassignAll_NoRadiusStoreRetainsAndReceives(t *testing.T) {
	// A store without a declared radius matches by city alone, both
	// when keeping its orders and when picking up new ones.
	led := newFakeLedger()
	led.addStore(models.Store{Name: "Unbounded", City: "Delhi", Lat: 28.61, Lon: 77.20, IsActive: true})

	eng := NewEngine(led, led)
	order, _, err := eng.AssignNewOrder(28.95, 77.70, "Delhi")
	require.NoError(t, err)
	require.True(t, order.IsFulfilled)

	sum, err := eng.ReassignAll()
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum, "far order is retained, nothing to do")

	// An unfulfilled order also lands on the radius-less store.
	led.orders[order.ID] = models.Order{Model: led.orders[order.ID].Model, Lat: 28.95, Lon: 77.70, City: "Delhi"}
	sum, err = eng.ReassignAll()
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Reassigned)
}

func TestReassignAll_SurfacesPersistenceErrorAfterPartialProgress(t *testing.T) {
	led := newFakeLedger()
	s := led.addStore(models.Store{Name: "A", City: "Delhi", Lat: 28.61, Lon: 77.20, DeliveryRadiusKm: radius(5), IsActive: true})

	eng := NewEngine(led, led)
	_, _, err := eng.AssignNewOrder(28.63, 77.22, "Delhi")
	require.NoError(t, err)

	st := led.stores[s.ID]
	st.IsActive = false
	led.stores[s.ID] = st

	led.failUpdates = true
	sum, err := eng.ReassignAll()

	require.Error(t, err)
	assert.Equal(t, Summary{}, sum, "counts reflect only completed updates")
	assert.Equal(t, 1, led.updateCalls)
}

func TestClearStore(t *testing.T) {
	led := newFakeLedger()
	s := led.addStore(models.Store{Name: "A", City: "Delhi", Lat: 28.61, Lon: 77.20, DeliveryRadiusKm: radius(5), IsActive: true})

	eng := NewEngine(led, led)
	o1, _, err := eng.AssignNewOrder(28.62, 77.21, "Delhi")
	require.NoError(t, err)
	o2, _, err := eng.AssignNewOrder(28.60, 77.19, "Delhi")
	require.NoError(t, err)

	n, err := eng.ClearStore(s.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	for _, id := range []uint{o1.ID, o2.ID} {
		got := led.orders[id]
		assert.False(t, got.IsFulfilled)
		assert.Nil(t, got.StoreID)
	}
}

func snapshot(led *fakeLedger) map[uint]models.Order {
	out := make(map[uint]models.Order, len(led.orders))
	for id, o := range led.orders {
		out[id] = o
	}
	return out
}
