// internal/models/order.go
package models

import (
	"gorm.io/gorm"
)

// Order is a geo-located demand point. IsFulfilled is true only while
// StoreID references an active store eligible for this order.
type Order struct {
	gorm.Model

	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	City string  `json:"city" gorm:"index"`

	IsFulfilled bool   `json:"is_fulfilled"`
	StoreID     *uint  `json:"store_id" gorm:"index"`
	Store       *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"`
}
