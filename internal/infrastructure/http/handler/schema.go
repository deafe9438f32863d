package handler

import (
	"fmt"
	"slices"

	"github.com/mrops-br/products-catalog/internal/domain"
	"github.com/swaggest/jsonschema-go"
	"github.com/xeipuuv/gojsonschema"
)

// fieldOrder keeps schema violations in the same order as ValidateProduct
var fieldOrder = map[string]int{"name": 0, "description": 1}

// RequestSchema validates raw JSON bodies against the schema reflected from
// a request type before anything is decoded. It checks presence and types
// only; lengths belong to domain.ValidateProduct.
type RequestSchema struct {
	document []byte
	schema   *gojsonschema.Schema
}

// NewRequestSchema reflects v and compiles the result
func NewRequestSchema(v any) (*RequestSchema, error) {
	reflector := jsonschema.Reflector{}
	s, err := reflector.Reflect(v)
	if err != nil {
		return nil, fmt.Errorf("failed to reflect request schema: %w", err)
	}

	doc, err := s.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request schema: %w", err)
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("gojsonschema.NewSchema: %w", err)
	}

	return &RequestSchema{document: doc, schema: compiled}, nil
}

// Document returns the JSON schema document
func (s *RequestSchema) Document() []byte {
	return s.document
}

// Validate checks body and reports every violation as a *domain.ValidationError
func (s *RequestSchema) Validate(body []byte) error {
	res, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("json schema validate: %w", err)
	}
	if res.Valid() {
		return nil
	}

	type violation struct {
		field string
		code  domain.FieldErrorCode
	}
	var violations []violation
	seen := make(map[string]bool)

	for _, resErr := range res.Errors() {
		field := resErr.Field()
		var code domain.FieldErrorCode

		switch resErr.(type) {
		case *gojsonschema.RequiredError:
			field, _ = resErr.Details()["property"].(string)
			code = domain.CodeMissingField
		default:
			code = domain.CodeInvalidType
		}

		// one message per field is enough for the client
		if seen[field] {
			continue
		}
		seen[field] = true
		violations = append(violations, violation{field: field, code: code})
	}

	slices.SortStableFunc(violations, func(a, b violation) int {
		return rank(a.field) - rank(b.field)
	})

	verr := &domain.ValidationError{}
	for _, v := range violations {
		verr.Add(v.field, v.code)
	}
	return verr
}

func rank(field string) int {
	if r, ok := fieldOrder[field]; ok {
		return r
	}
	return len(fieldOrder)
}
