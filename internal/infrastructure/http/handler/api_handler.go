package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mrops-br/products-catalog/internal/app/dto"
	"github.com/mrops-br/products-catalog/internal/app/service"
	"github.com/mrops-br/products-catalog/internal/domain"
	"github.com/mrops-br/products-catalog/internal/infrastructure/auth"
	"github.com/mrops-br/products-catalog/internal/infrastructure/http/response"
)

const maxBodyBytes = 1 << 20

var errMalformedBody = errors.New("request body must be a JSON object")

// APIHandler handles the JSON routes under /api
type APIHandler struct {
	service      *service.ProductService
	schema       *RequestSchema
	openAPI      []byte
	requireAdmin bool
	logger       *slog.Logger
}

// NewAPIHandler creates the API handler. When requireAdmin is set, writes
// need an administrator session token.
func NewAPIHandler(service *service.ProductService, requireAdmin bool, logger *slog.Logger) (*APIHandler, error) {
	schema, err := NewRequestSchema(dto.ProductRequest{})
	if err != nil {
		return nil, err
	}

	doc, err := BuildOpenAPI("1.0.0")
	if err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI document: %w", err)
	}

	return &APIHandler{
		service:      service,
		schema:       schema,
		openAPI:      doc,
		requireAdmin: requireAdmin,
		logger:       logger,
	}, nil
}

// CreateProduct handles POST /api/products
func (h *APIHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin {
		actor := auth.ActorFromContext(r.Context())
		if actor == nil {
			response.Error(w, http.StatusUnauthorized, domain.ErrUnauthenticated)
			return
		}
		if !domain.CanManageProducts(actor) {
			response.Error(w, http.StatusForbidden, domain.ErrForbidden)
			return
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(body, &object); err != nil || object == nil {
		if err != nil {
			h.logger.WarnContext(r.Context(), "Failed to decode request body",
				slog.String("error", err.Error()),
			)
		}
		response.Error(w, http.StatusBadRequest, errMalformedBody)
		return
	}

	if err := h.schema.Validate(body); err != nil {
		h.writeError(w, r, err)
		return
	}

	var req dto.ProductRequest
	if err := json.Unmarshal(body, &req); err != nil {
		response.Error(w, http.StatusBadRequest, errMalformedBody)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /api/products/{id}
func (h *APIHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.Error(w, http.StatusNotFound, domain.ErrProductNotFound)
		return
	}

	product, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// ListProducts handles GET /api/products
func (h *APIHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// OpenAPI handles GET /api/openapi.json
func (h *APIHandler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.openAPI)
}

func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(w, verr)
	case errors.Is(err, domain.ErrProductNotFound):
		response.Error(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrForbidden):
		response.Error(w, http.StatusForbidden, err)
	case errors.Is(err, domain.ErrUnauthenticated):
		response.Error(w, http.StatusUnauthorized, err)
	default:
		h.logger.ErrorContext(r.Context(), "API request failed",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, errors.New("internal server error"))
	}
}
