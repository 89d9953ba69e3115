package dto

import (
	"time"

	"github.com/spec-kit/marketplace/internal/domain"
)

// PricePayload is a price in a request body. Amount is a pointer so an
// omitted amount is a validation failure rather than a silent zero.
type PricePayload struct {
	Amount   *float64 `json:"amount" validate:"required,gte=0"`
	Currency string   `json:"currency" validate:"omitempty,oneof=USD INR"`
}

// CreateProductRequest payload.
type CreateProductRequest struct {
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description"`
	Price       PricePayload `json:"price" validate:"required"`
	Stock       int          `json:"stock" validate:"gte=0"`
	Images      []string     `json:"images" validate:"omitempty,dive,url"`
}

// UpdateProductRequest carries a partial product update.
type UpdateProductRequest struct {
	Title       *string       `json:"title" validate:"omitempty,min=1"`
	Description *string       `json:"description"`
	Price       *PricePayload `json:"price" validate:"omitempty"`
	Stock       *int          `json:"stock" validate:"omitempty,gte=0"`
	Images      []string      `json:"images" validate:"omitempty,dive,url"`
}

// ProductResponse is the public projection of a product.
type ProductResponse struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Price       domain.Price `json:"price"`
	SellerID    string       `json:"seller_id"`
	Images      []string     `json:"images"`
	Stock       int          `json:"stock"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewProductResponse projects a domain product.
func NewProductResponse(product *domain.Product) ProductResponse {
	images := product.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:          product.ID,
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price,
		SellerID:    product.SellerID,
		Images:      images,
		Stock:       product.Stock,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// NewProductResponses projects a list of products.
func NewProductResponses(products []domain.Product) []ProductResponse {
	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, NewProductResponse(&products[i]))
	}
	return items
}
