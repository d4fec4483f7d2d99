package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"store_vision/internal/assignment"
	"store_vision/internal/config"
	"store_vision/internal/models"
)

type placeOrderInput struct {
	Lat  *float64 `json:"lat" binding:"required,min=-90,max=90"`
	Lon  *float64 `json:"lon" binding:"required,min=-180,max=180"`
	City string   `json:"city" binding:"required,min=2,max=100"`
}

// PlaceOrder creates an order and assigns it to the nearest eligible
// store in its city. No store in range leaves the order unfulfilled,
// which is a normal outcome, not a failure.
func PlaceOrder(c *gin.Context) {
	var input placeOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, store, err := newEngine().AssignNewOrder(*input.Lat, *input.Lon, input.City)
	if err != nil {
		if assignment.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logrus.WithError(err).Error("PlaceOrder: assignment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var storeName *string
	if store != nil {
		storeName = &store.Name
	}

	c.JSON(http.StatusCreated, gin.H{
		"order":      order,
		"store_name": storeName,
	})
}

// ListOrders returns a city's orders, newest first, with the assigned
// store preloaded.
func ListOrders(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		c.JSON(http.StatusOK, gin.H{"orders": []models.Order{}})
		return
	}

	var orders []models.Order
	if err := config.DB.Preload("Store").Where("city = ?", city).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		logrus.WithError(err).Error("ListOrders: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
