// internal/models/store.go
package models

import (
	"gorm.io/gorm"
)

// Store represents a registered retail outlet. Orders are matched to
// stores by city and delivery radius; inactive stores take part in
// nothing.
type Store struct {
	gorm.Model

	Name string  `json:"name" binding:"required"`
	City string  `json:"city" binding:"required"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`

	// Delivery radius in km. Nil means the store declares no radius
	// and is matched by city alone.
	DeliveryRadiusKm *float64 `json:"delivery_radius_km,omitempty"`

	// Descriptive only, never used by assignment.
	AvgDailyCustomers *int `json:"avg_daily_customers,omitempty"`

	IsActive   bool `json:"is_active" gorm:"default:true"`
	PostedByID uint `json:"posted_by_id" gorm:"index"`

	Orders []Order `gorm:"foreignKey:StoreID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"orders,omitempty"`
}
