package models

import (
	"time"

	"invoicely/internal/currency"
)

// Product is a catalog entry that product-backed line items point at.
type Product struct {
	ID          string        `gorm:"size:36" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	Description string        `json:"description,omitempty"`
	Price       float64       `gorm:"not null" json:"price"`
	Quantity    int           `gorm:"not null" json:"quantity"`
	Currency    currency.Code `gorm:"size:3;not null;default:'USD'" json:"currency"`
	IsAvailable bool          `gorm:"not null;default:true" json:"isAvailable"`
	CreatedAt   time.Time     `json:"createdAt,omitempty"`
	UpdatedAt   time.Time     `json:"updatedAt,omitempty"`
}
