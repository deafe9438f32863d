package dto

import (
	"time"

	"github.com/mrops-br/products-catalog/internal/domain"
)

// ProductRequest carries the submitted product fields for create and update.
// It is the allow-list: nothing else is ever read from a request.
// Lengths are left to domain.ValidateProduct, which trims before counting.
type ProductRequest struct {
	Name        string `json:"name" required:"true" description:"Product name, 1-255 characters after trimming"`
	Description string `json:"description" required:"true" description:"Product description, 1-255 characters after trimming"`
}

// Fields converts the request into domain input
func (r ProductRequest) Fields() domain.ProductFields {
	return domain.ProductFields{
		Name:        r.Name,
		Description: r.Description,
	}
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []*domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}
