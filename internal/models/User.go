package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"password"`
	Role     string `json:"role"` // "customer", "owner", "admin"

	// Stores registered by this user (owners only)
	Stores []Store `gorm:"foreignKey:PostedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"stores,omitempty"`
}
