package handler

import (
	"fmt"
	"net/http"

	"github.com/mrops-br/products-catalog/internal/app/dto"
	"github.com/mrops-br/products-catalog/internal/infrastructure/http/response"
	"github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi31"
)

type productIDPath struct {
	ID int64 `path:"id" minimum:"1" description:"Product identifier"`
}

type apiOperation struct {
	method    string
	path      string
	summary   string
	request   any
	responses map[int]any
}

var apiOperations = []apiOperation{
	{
		method:  http.MethodGet,
		path:    "/api/products",
		summary: "List all products in creation order",
		responses: map[int]any{
			http.StatusOK: []dto.ProductResponse{},
		},
	},
	{
		method:  http.MethodPost,
		path:    "/api/products",
		summary: "Create a product",
		request: new(dto.ProductRequest),
		responses: map[int]any{
			http.StatusCreated:             new(dto.ProductResponse),
			http.StatusBadRequest:          new(response.ErrorResponse),
			http.StatusUnprocessableEntity: new(response.ErrorResponse),
		},
	},
	{
		method:  http.MethodGet,
		path:    "/api/products/{id}",
		summary: "Get a product",
		request: new(productIDPath),
		responses: map[int]any{
			http.StatusOK:       new(dto.ProductResponse),
			http.StatusNotFound: new(response.ErrorResponse),
		},
	},
}

// BuildOpenAPI generates the OpenAPI 3.1 document of the data-facing routes
func BuildOpenAPI(version string) ([]byte, error) {
	reflector := openapi31.NewReflector()
	reflector.Spec = &openapi31.Spec{Openapi: "3.1.0"}
	reflector.Spec.Info.
		WithTitle("Products Catalog API").
		WithVersion(version).
		WithDescription("Data-facing routes of the products catalog.")

	for _, op := range apiOperations {
		oc, err := reflector.NewOperationContext(op.method, op.path)
		if err != nil {
			return nil, fmt.Errorf("failed to create operation context: %w", err)
		}
		oc.SetSummary(op.summary)
		oc.SetTags("products")

		if op.request != nil {
			oc.AddReqStructure(op.request)
		}
		for status, body := range op.responses {
			oc.AddRespStructure(body, openapi.WithHTTPStatus(status))
		}

		if err := reflector.AddOperation(oc); err != nil {
			return nil, fmt.Errorf("failed to add operation %s %s: %w", op.method, op.path, err)
		}
	}

	return reflector.Spec.MarshalJSON()
}
