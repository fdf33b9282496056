package middleware

import (
	"net/http"

	"github.com/letterboxhq/letterbox-api/internal/domain"
)

// methodNotAllowedWriter intercepts the mux's native plain-text 405 response
// so it can be replaced with the JSON error shape. Once intercepted, the
// mux's own body writes are swallowed.
type methodNotAllowedWriter struct {
	http.ResponseWriter
	intercepted bool
}

func (w *methodNotAllowedWriter) WriteHeader(status int) {
	if status == http.StatusMethodNotAllowed {
		w.intercepted = true
		domain.NewErrorResponse(domain.ErrMethodNotAllowed, "Method not allowed", "See the Allow header for supported methods.").WriteJSON(w.ResponseWriter, http.StatusMethodNotAllowed)
		return
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *methodNotAllowedWriter) Write(b []byte) (int, error) {
	if w.intercepted {
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}

// MethodNotAllowedJSON rewrites 405 responses the method-pattern mux produces
// for known paths into the standard JSON error format. The Allow header the
// mux sets before answering is preserved.
func MethodNotAllowedJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&methodNotAllowedWriter{ResponseWriter: w}, r)
	})
}
