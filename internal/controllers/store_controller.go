package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"

	"store_vision/internal/assignment"
	"store_vision/internal/config"
	"store_vision/internal/ledger"
	"store_vision/internal/models"
)

// newEngine wires the assignment engine over the live database.
func newEngine() *assignment.Engine {
	return assignment.NewEngine(ledger.NewStores(config.DB), ledger.NewOrders(config.DB))
}

type storeInput struct {
	Name              string   `json:"name" binding:"required,min=2,max=100"`
	City              string   `json:"city" binding:"required,min=2,max=100"`
	Lat               float64  `json:"lat" binding:"min=-90,max=90"`
	Lon               float64  `json:"lon" binding:"min=-180,max=180"`
	DeliveryRadiusKm  *float64 `json:"delivery_radius_km" binding:"omitempty,min=0.1,max=50"`
	AvgDailyCustomers *int     `json:"avg_daily_customers" binding:"omitempty,min=0,max=100000"`
}

// CreateStore registers a store for the authenticated owner and runs a
// reassignment sweep so nearby unfulfilled orders can latch onto it.
func CreateStore(c *gin.Context) {
	var input storeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateStore: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ownerID := uint(c.MustGet("user_id").(float64))

	store := models.Store{
		Name:              input.Name,
		City:              input.City,
		Lat:               input.Lat,
		Lon:               input.Lon,
		DeliveryRadiusKm:  input.DeliveryRadiusKm,
		AvgDailyCustomers: input.AvgDailyCustomers,
		IsActive:          true,
		PostedByID:        ownerID,
	}
	if err := config.DB.Create(&store).Error; err != nil {
		logrus.WithError(err).Error("CreateStore: create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create store failed: " + err.Error()})
		return
	}

	summary, err := newEngine().ReassignAll()
	if err != nil {
		logrus.WithError(err).Error("CreateStore: reassignment sweep failed")
	}

	c.JSON(http.StatusCreated, gin.H{"store": store, "reassignment": summary})
}

// ListStores returns stores, optionally filtered by city, newest first.
func ListStores(c *gin.Context) {
	q := config.DB.Order("created_at DESC")
	if city := c.Query("city"); city != "" {
		q = q.Where("city = ?", city)
	}

	var stores []models.Store
	if err := q.Find(&stores).Error; err != nil {
		logrus.WithError(err).Error("ListStores: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stores"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

// ListMyStores returns the authenticated owner's stores.
func ListMyStores(c *gin.Context) {
	ownerID := uint(c.MustGet("user_id").(float64))

	var stores []models.Store
	if err := config.DB.Where("posted_by_id = ?", ownerID).Order("created_at DESC").Find(&stores).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stores"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

// GetStore returns a single store by id.
func GetStore(c *gin.Context) {
	sID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store ID"})
		return
	}

	var store models.Store
	if err := config.DB.First(&store, sID).Error; err != nil {
		if ledger.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"store": store})
}

// StoresGeoJSON exports active stores as a GeoJSON FeatureCollection
// for map rendering.
func StoresGeoJSON(c *gin.Context) {
	stores, err := ledger.NewStores(config.DB).ListActiveStores()
	if err != nil {
		logrus.WithError(err).Error("StoresGeoJSON: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stores"})
		return
	}

	fc := &gjson.FeatureCollection{}
	for _, s := range stores {
		props := map[string]interface{}{
			"id":   s.ID,
			"name": s.Name,
			"city": s.City,
		}
		if s.DeliveryRadiusKm != nil {
			props["delivery_radius_km"] = *s.DeliveryRadiusKm
		}
		fc.Features = append(fc.Features, &gjson.Feature{
			ID:         strconv.FormatUint(uint64(s.ID), 10),
			Geometry:   geom.NewPointFlat(geom.XY, []float64{s.Lon, s.Lat}),
			Properties: props,
		})
	}

	c.JSON(http.StatusOK, fc)
}

// UpdateStore applies a partial update. Deactivating a store clears
// its orders first; any change to the topology triggers a sweep.
func UpdateStore(c *gin.Context) {
	sID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logrus.WithError(err).Warn("UpdateStore: invalid store ID in parameter")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store ID"})
		return
	}

	var existing models.Store
	if err := config.DB.First(&existing, sID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		} else {
			logrus.WithError(err).Error("UpdateStore: database error fetching store")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ownerID := uint(c.MustGet("user_id").(float64))
	if existing.PostedByID != ownerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the store owner can update this store"})
		return
	}

	var input struct {
		Name              *string  `json:"name" binding:"omitempty,min=2,max=100"`
		City              *string  `json:"city" binding:"omitempty,min=2,max=100"`
		Lat               *float64 `json:"lat" binding:"omitempty,min=-90,max=90"`
		Lon               *float64 `json:"lon" binding:"omitempty,min=-180,max=180"`
		DeliveryRadiusKm  *float64 `json:"delivery_radius_km" binding:"omitempty,min=0.1,max=50"`
		AvgDailyCustomers *int     `json:"avg_daily_customers" binding:"omitempty,min=0,max=100000"`
		IsActive          *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("UpdateStore: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deactivated := applyStoreUpdates(&existing, input.Name, input.City, input.Lat, input.Lon,
		input.DeliveryRadiusKm, input.AvgDailyCustomers, input.IsActive)

	eng := newEngine()
	if deactivated {
		if _, err := eng.ClearStore(existing.ID); err != nil {
			logrus.WithError(err).Error("UpdateStore: clearing orders failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
			return
		}
	}

	if err := config.DB.Save(&existing).Error; err != nil {
		logrus.WithError(err).Error("UpdateStore: failed to save updated store")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	summary, err := eng.ReassignAll()
	if err != nil {
		logrus.WithError(err).Error("UpdateStore: reassignment sweep failed")
	}

	c.JSON(http.StatusOK, gin.H{"store": existing, "reassignment": summary})
}

// applyStoreUpdates copies the provided fields onto the store and
// reports whether this update flipped it from active to inactive.
func applyStoreUpdates(store *models.Store, name, city *string, lat, lon, radiusKm *float64,
	avgCustomers *int, isActive *bool) bool {
	if name != nil {
		store.Name = *name
	}
	if city != nil {
		store.City = *city
	}
	if lat != nil {
		store.Lat = *lat
	}
	if lon != nil {
		store.Lon = *lon
	}
	if radiusKm != nil {
		store.DeliveryRadiusKm = radiusKm
	}
	if avgCustomers != nil {
		store.AvgDailyCustomers = avgCustomers
	}

	deactivated := false
	if isActive != nil {
		deactivated = store.IsActive && !*isActive
		store.IsActive = *isActive
	}
	return deactivated
}

// DeleteStore unassigns the store's orders, removes the store, then
// sweeps so displaced orders get a chance at another store.
func DeleteStore(c *gin.Context) {
	sID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store ID"})
		return
	}

	var store models.Store
	if err := config.DB.First(&store, sID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ownerID := uint(c.MustGet("user_id").(float64))
	if store.PostedByID != ownerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the store owner can delete this store"})
		return
	}

	eng := newEngine()
	cleared, err := eng.ClearStore(store.ID)
	if err != nil {
		logrus.WithError(err).Error("DeleteStore: clearing orders failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unassign orders: " + err.Error()})
		return
	}

	if err := config.DB.Delete(&store).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete store: " + err.Error()})
		return
	}

	summary, err := eng.ReassignAll()
	if err != nil {
		logrus.WithError(err).Error("DeleteStore: reassignment sweep failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Store deleted successfully",
		"orders_cleared": cleared,
		"reassignment":   summary,
	})
}
