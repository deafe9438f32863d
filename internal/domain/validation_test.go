package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProduct(t *testing.T) {
	long := strings.Repeat("a", MaxFieldLength+1)

	tests := []struct {
		name      string
		in        ProductFields
		wantCodes map[string]FieldErrorCode
	}{
		{
			name: "valid",
			in:   ProductFields{Name: "teto", Description: "asdmnajksdnajsdnasd"},
		},
		{
			name:      "both empty",
			in:        ProductFields{},
			wantCodes: map[string]FieldErrorCode{"name": CodeMissingField, "description": CodeMissingField},
		},
		{
			name:      "whitespace only name",
			in:        ProductFields{Name: "   ", Description: "ok"},
			wantCodes: map[string]FieldErrorCode{"name": CodeMissingField},
		},
		{
			name:      "description too long",
			in:        ProductFields{Name: "ok", Description: long},
			wantCodes: map[string]FieldErrorCode{"description": CodeTooLong},
		},
		{
			name:      "name too long and description missing",
			in:        ProductFields{Name: long},
			wantCodes: map[string]FieldErrorCode{"name": CodeTooLong, "description": CodeMissingField},
		},
		{
			name: "exactly max length",
			in:   ProductFields{Name: strings.Repeat("b", MaxFieldLength), Description: "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ValidateProduct(tt.in)
			if len(tt.wantCodes) == 0 {
				require.NoError(t, err)
				assert.Equal(t, strings.TrimSpace(tt.in.Name), out.Name)
				assert.Equal(t, strings.TrimSpace(tt.in.Description), out.Description)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Errors, len(tt.wantCodes))
			for _, fe := range verr.Errors {
				assert.Equal(t, tt.wantCodes[fe.Field], fe.Code, fe.Field)
			}
		})
	}
}

func TestValidateProduct_CountsCharactersNotBytes(t *testing.T) {
	name := strings.Repeat("é", MaxFieldLength)

	out, err := ValidateProduct(ProductFields{Name: name, Description: "ok"})

	require.NoError(t, err)
	assert.Equal(t, name, out.Name)
}

func TestValidateProduct_TrimsInput(t *testing.T) {
	out, err := ValidateProduct(ProductFields{Name: "  teto ", Description: "\tdesc\n"})

	require.NoError(t, err)
	assert.Equal(t, ProductFields{Name: "teto", Description: "desc"}, out)
}

func TestValidationError_Messages(t *testing.T) {
	_, err := ValidateProduct(ProductFields{Name: "", Description: strings.Repeat("x", 300)})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string][]string{
		"name":        {"The name field is required."},
		"description": {"The description field must not be greater than 255 characters."},
	}, verr.Messages())
	assert.True(t, verr.Has("name"))
	assert.Contains(t, verr.Error(), "The name field is required.")
}

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(ProductFields{Name: " widget ", Description: "blue"})
	require.NoError(t, err)

	assert.Zero(t, p.ID)
	assert.Equal(t, "widget", p.Name)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	_, err = NewProduct(ProductFields{})
	assert.Error(t, err)
}

func TestCanManageProducts(t *testing.T) {
	assert.False(t, CanManageProducts(nil))
	assert.False(t, CanManageProducts(&Actor{Subject: "u1"}))
	assert.True(t, CanManageProducts(&Actor{Subject: "a1", IsAdministrator: true}))
}
