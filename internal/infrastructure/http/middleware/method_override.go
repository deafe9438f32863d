package middleware

import (
	"net/http"
	"strings"
)

// MethodOverrideField is the form field HTML forms use to tunnel PUT, PATCH
// and DELETE through POST.
const MethodOverrideField = "_method"

var overridableMethods = map[string]bool{
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// MethodOverride rewrites form POSTs carrying _method before routing.
// Must be registered on the root router.
func MethodOverride() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && isForm(r) {
				method := strings.ToUpper(r.PostFormValue(MethodOverrideField))
				if overridableMethods[method] {
					r.Method = method
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}
