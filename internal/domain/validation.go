package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxFieldLength is the upper bound, in characters, for name and description.
const MaxFieldLength = 255

// FieldErrorCode classifies a single field violation.
type FieldErrorCode string

const (
	CodeMissingField FieldErrorCode = "missing_field"
	CodeTooLong      FieldErrorCode = "too_long"
	CodeInvalidType  FieldErrorCode = "invalid_type"
)

// FieldError is one violation attached to one input field.
type FieldError struct {
	Field   string
	Code    FieldErrorCode
	Message string
}

// ValidationError carries every field violation found in an input.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Message
	}
	return "validation failed: " + strings.Join(msgs, " ")
}

// Add appends a violation for field.
func (e *ValidationError) Add(field string, code FieldErrorCode) {
	e.Errors = append(e.Errors, FieldError{
		Field:   field,
		Code:    code,
		Message: fieldMessage(field, code),
	})
}

// Messages groups the messages by field name, keeping insertion order per field.
func (e *ValidationError) Messages() map[string][]string {
	out := make(map[string][]string, len(e.Errors))
	for _, fe := range e.Errors {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return out
}

// Has reports whether field has at least one violation.
func (e *ValidationError) Has(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func fieldMessage(field string, code FieldErrorCode) string {
	switch code {
	case CodeMissingField:
		return fmt.Sprintf("The %s field is required.", field)
	case CodeTooLong:
		return fmt.Sprintf("The %s field must not be greater than %d characters.", field, MaxFieldLength)
	case CodeInvalidType:
		return fmt.Sprintf("The %s field must be a string.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

// ValidateProduct checks name and description and returns the trimmed
// fields. Every field is checked; a failure returns a *ValidationError
// listing all violations.
func ValidateProduct(in ProductFields) (ProductFields, error) {
	out := ProductFields{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
	}

	verr := &ValidationError{}
	checkField(verr, "name", out.Name)
	checkField(verr, "description", out.Description)

	if len(verr.Errors) > 0 {
		return ProductFields{}, verr
	}
	return out, nil
}

func checkField(verr *ValidationError, field, value string) {
	if value == "" {
		verr.Add(field, CodeMissingField)
		return
	}
	if utf8.RuneCountInString(value) > MaxFieldLength {
		verr.Add(field, CodeTooLong)
	}
}
