package middleware

import (
	"net/http"
	"time"
)

const timeoutBody = `{"success":false,"error":{"code":"REQUEST_TIMEOUT","message":"request timed out"}}`

// Timeout cancels the request context after timeout; store calls made with
// that context are abandoned.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return func(next http.Handler) http.Handler {
		timed := http.TimeoutHandler(next, timeout, timeoutBody)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			timed.ServeHTTP(&timeoutContentType{ResponseWriter: w}, r)
		})
	}
}

// timeoutContentType labels the TimeoutHandler body as JSON. A completed
// response has already copied its own headers by the time WriteHeader runs,
// so only the timeout path arrives without a Content-Type.
type timeoutContentType struct {
	http.ResponseWriter
}

func (w *timeoutContentType) WriteHeader(status int) {
	if status == http.StatusServiceUnavailable && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *timeoutContentType) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
