package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/products-catalog/internal/app/dto"
	"github.com/mrops-br/products-catalog/internal/app/service"
	"github.com/mrops-br/products-catalog/internal/domain"
	"github.com/mrops-br/products-catalog/internal/infrastructure/auth"
	"github.com/mrops-br/products-catalog/internal/infrastructure/http/view"
)

// ProductHandler serves the session-authenticated, redirect-based product pages
type ProductHandler struct {
	service  *service.ProductService
	views    *view.Renderer
	loginURL string
	logger   *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, views *view.Renderer, loginURL string, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		views:    views,
		loginURL: loginURL,
		logger:   logger,
	}
}

// Index handles GET /product
func (h *ProductHandler) Index(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.List(r.Context(), auth.ActorFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, view.PageIndex, view.ListPage{
		Products:   res.Products,
		Empty:      res.Empty,
		ShowCreate: res.ShowCreateAffordance,
		Flash:      popFlash(w, r),
	})
}

// Create handles GET /product/create
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.CreateForm(r.Context(), auth.ActorFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, view.PageCreate, view.FormPage{
		Values:   res.Draft,
		Products: res.Products,
	})
}

// Store handles POST /product/store
func (h *ProductHandler) Store(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	req := formRequest(r)

	redirect, err := h.service.Create(r.Context(), actor, req)
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		page := view.FormPage{Values: req, Errors: verr.Messages()}
		if form, ferr := h.service.CreateForm(r.Context(), actor); ferr == nil {
			page.Products = form.Products
		}
		h.render(w, r, http.StatusUnprocessableEntity, view.PageCreate, page)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.redirect(w, r, redirect)
}

// Edit handles GET /product/{id}/edit
func (h *ProductHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		h.fail(w, r, domain.ErrProductNotFound)
		return
	}

	res, err := h.service.EditForm(r.Context(), auth.ActorFromContext(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, view.PageEdit, view.FormPage{
		ID: res.Product.ID,
		Values: dto.ProductRequest{
			Name:        res.Product.Name,
			Description: res.Product.Description,
		},
	})
}

// Update handles PUT and PATCH /product/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		h.fail(w, r, domain.ErrProductNotFound)
		return
	}

	req := formRequest(r)
	redirect, err := h.service.Update(r.Context(), auth.ActorFromContext(r.Context()), id, req)
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		h.render(w, r, http.StatusUnprocessableEntity, view.PageEdit, view.FormPage{
			ID:     id,
			Values: req,
			Errors: verr.Messages(),
		})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.redirect(w, r, redirect)
}

// Destroy handles DELETE /product/{id}
func (h *ProductHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		h.fail(w, r, domain.ErrProductNotFound)
		return
	}

	redirect, err := h.service.Delete(r.Context(), auth.ActorFromContext(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.redirect(w, r, redirect)
}

func (h *ProductHandler) redirect(w http.ResponseWriter, r *http.Request, to *service.Redirect) {
	setFlash(w, to.Message)
	http.Redirect(w, r, to.Location, http.StatusFound)
}

// fail maps workflow errors onto pages
func (h *ProductHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		http.Redirect(w, r, auth.LoginRedirect(h.loginURL, r), http.StatusFound)
	case errors.Is(err, domain.ErrForbidden):
		h.render(w, r, http.StatusForbidden, view.PageError, view.ErrorPage{
			Status:  http.StatusForbidden,
			Title:   "Forbidden",
			Message: "This action is unauthorized.",
		})
	case errors.Is(err, domain.ErrProductNotFound):
		h.render(w, r, http.StatusNotFound, view.PageError, view.ErrorPage{
			Status:  http.StatusNotFound,
			Title:   "Not Found",
			Message: "The requested product does not exist.",
		})
	default:
		h.logger.ErrorContext(r.Context(), "Product page failed",
			slog.String("error", err.Error()),
		)
		h.render(w, r, http.StatusInternalServerError, view.PageError, view.ErrorPage{
			Status:  http.StatusInternalServerError,
			Title:   "Server Error",
			Message: "Something went wrong.",
		})
	}
}

func (h *ProductHandler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := h.views.Render(w, status, page, data); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render page",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// formRequest reads the allow-listed fields from a submitted form
func formRequest(r *http.Request) dto.ProductRequest {
	return dto.ProductRequest{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}
}

// productID parses the {id} URL parameter; only positive integers are ids
func productID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
