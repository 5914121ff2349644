package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. Zero values are the defaults of a freshly
// created product.
type Product struct {
	ID           uuid.UUID `json:"_id"`
	UserID       *string   `json:"user,omitempty"`
	Name         string    `json:"name"`
	Image        string    `json:"image"`
	Brand        string    `json:"brand"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	CountInStock int       `json:"countInStock"`
	Rating       float64   `json:"rating"`
	NumReviews   int       `json:"numReviews"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// InStock reports whether the product is displayed as available.
func (p Product) InStock() bool {
	return p.CountInStock > 0
}
