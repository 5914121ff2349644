package http

import (
	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
)

// ProductResponse is a product as the storefront renders it.
type ProductResponse struct {
	model.Product

	InStock bool `json:"inStock"`
}

func newProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		Product: p,
		InStock: p.InStock(),
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type InquiryResponse struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Authenticated bool `json:"authenticated"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
