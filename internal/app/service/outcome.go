package service

import "github.com/mrops-br/products-catalog/internal/app/dto"

// ListLocation is where successful mutations send the browser.
const ListLocation = "/product"

const (
	MessageUpdated = "Product updated successfully."
	MessageDeleted = "Product deleted successfully."
)

// ListResult is the outcome of listing products for an authenticated actor.
type ListResult struct {
	Products []*dto.ProductResponse
	// Empty is set when there are no products, so views can show an empty state.
	Empty                bool
	ShowCreateAffordance bool
}

// CreateFormResult feeds the create form.
type CreateFormResult struct {
	Products []*dto.ProductResponse
	Draft    dto.ProductRequest
}

// EditFormResult feeds the edit form.
type EditFormResult struct {
	Product *dto.ProductResponse
}

// Redirect is the success outcome of a mutation.
type Redirect struct {
	Location string
	// Message is an optional one-time confirmation for the next page.
	Message string
}
