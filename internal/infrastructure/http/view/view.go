// Package view renders the server-side HTML pages of the product catalog.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/mrops-br/products-catalog/internal/app/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageIndex  = "index"
	PageCreate = "create"
	PageEdit   = "edit"
	PageError  = "error"
)

// ListPage is the product table
type ListPage struct {
	Products   []*dto.ProductResponse
	Empty      bool
	ShowCreate bool
	Flash      string
}

// FormPage backs both the create and the edit form
type FormPage struct {
	ID       int64
	Values   dto.ProductRequest
	Errors   map[string][]string
	Products []*dto.ProductResponse
}

// ErrorPage is shown for access-denied and not-found outcomes
type ErrorPage struct {
	Status  int
	Title   string
	Message string
}

// Renderer holds one parsed template set per page
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}

	for _, page := range []string{PageIndex, PageCreate, PageEdit, PageError} {
		tmpl, err := template.New(page).ParseFS(templateFS,
			"templates/layout.html",
			"templates/fields.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		r.pages[page] = tmpl
	}

	return r, nil
}

// Render writes page with the given status. The page is rendered into a
// buffer first so a template failure never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
