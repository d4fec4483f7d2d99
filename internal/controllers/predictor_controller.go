package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"

	"store_vision/internal/config"
	"store_vision/internal/geo"
	"store_vision/internal/models"
	"store_vision/internal/suggest"
)

type suggestInput struct {
	City     string  `json:"city" binding:"required"`
	RadiusKm float64 `json:"radius"`
}

// SuggestLocations clusters a city's unfulfilled orders and returns
// the top cluster centroids as candidate store locations.
func SuggestLocations(c *gin.Context) {
	var input suggestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "City is required"})
		return
	}
	if input.RadiusKm <= 0 {
		input.RadiusKm = suggest.DefaultRadiusKm
	}

	var orders []models.Order
	if err := config.DB.Where("city = ? AND is_fulfilled = ?", input.City, false).
		Order("id").Find(&orders).Error; err != nil {
		logrus.WithError(err).Error("SuggestLocations: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	points := make([]suggest.OrderPoint, 0, len(orders))
	for _, o := range orders {
		points = append(points, suggest.OrderPoint{
			ID:       o.ID,
			Position: geo.Coordinate{Lat: o.Lat, Lon: o.Lon},
		})
	}

	result := suggest.SuggestLocations(points, input.RadiusKm)
	if result.NoUnfulfilledOrders {
		c.JSON(http.StatusOK, gin.H{"message": "No unfulfilled orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalUnfulfilledOrders": result.TotalUnfulfilled,
		"suggestions":            result.Suggestions,
		"geojson":                suggestionsGeoJSON(result.Suggestions),
	})
}

// suggestionsGeoJSON renders suggestion centroids as a GeoJSON
// FeatureCollection so the predictor map can plot them directly.
func suggestionsGeoJSON(suggestions []suggest.Suggestion) *gjson.FeatureCollection {
	fc := &gjson.FeatureCollection{}
	for i, s := range suggestions {
		fc.Features = append(fc.Features, &gjson.Feature{
			ID:       fmt.Sprintf("suggestion-%d", i+1),
			Geometry: geom.NewPointFlat(geom.XY, []float64{s.Lon, s.Lat}),
			Properties: map[string]interface{}{
				"covers":     s.Covers,
				"percentage": s.Percentage,
			},
		})
	}
	return fc
}

// ReassignOrders runs a full reassignment sweep and reports what
// moved. Triggered after store topology changes and available for
// manual runs from the dashboard.
func ReassignOrders(c *gin.Context) {
	summary, err := newEngine().ReassignAll()
	if err != nil {
		logrus.WithError(err).Error("ReassignOrders: sweep failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d orders reassigned. %d orders unfulfilled due to being outside delivery range.",
			summary.Reassigned, summary.Unassigned),
		"reassigned": summary.Reassigned,
		"unassigned": summary.Unassigned,
	})
}
