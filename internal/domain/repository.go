package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrForbidden       = errors.New("this action is unauthorized")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ProductRepository defines the contract for product storage.
// Implementations perform no validation and return copies, never shared records.
type ProductRepository interface {
	// Create persists product and sets its ID.
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id int64) (*Product, error)
	// FindAll returns every product in creation order.
	FindAll(ctx context.Context) ([]*Product, error)
	// Update writes name, description and updated_at of an existing product.
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id int64) error
}
