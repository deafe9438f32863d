package middleware

import (
	"net/http"
	"net/url"
)

var safeMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// SameOrigin rejects state-changing requests sent from another site with
// 403. The browser's Sec-Fetch-Site is trusted when present, otherwise the
// host of Origin (or Referer) must match the request host. Requests carrying
// none of these headers are not from a browser form and pass.
func SameOrigin() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !safeMethods[r.Method] && crossOrigin(r) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func crossOrigin(r *http.Request) bool {
	switch r.Header.Get("Sec-Fetch-Site") {
	case "cross-site", "same-site":
		return true
	case "same-origin", "none":
		return false
	}

	source := r.Header.Get("Origin")
	if source == "" {
		source = r.Header.Get("Referer")
	}
	if source == "" {
		return false
	}

	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		// "null" origins from sandboxed frames land here
		return true
	}
	return u.Host != r.Host
}
