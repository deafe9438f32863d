package domain

import (
	"time"
)

// Product represents the product entity
type Product struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductFields holds the user-editable attributes of a product.
// It is the only input the workflow ever applies to a record.
type ProductFields struct {
	Name        string
	Description string
}

// NewProduct creates a new product from validated fields.
// The ID is left zero; the repository assigns it on Create.
func NewProduct(fields ProductFields) (*Product, error) {
	normalized, err := ValidateProduct(fields)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Product{
		Name:        normalized.Name,
		Description: normalized.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Apply overwrites name and description with already validated fields
func (p *Product) Apply(fields ProductFields) {
	p.Name = fields.Name
	p.Description = fields.Description
	p.UpdatedAt = time.Now().UTC()
}

// Clone returns a copy detached from the receiver
func (p *Product) Clone() *Product {
	c := *p
	return &c
}
