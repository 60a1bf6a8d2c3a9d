package httpx

import (
	"net/http"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// maxRequestIDLen bounds ids taken from the inbound header so a caller
// cannot inflate log lines with an arbitrarily long value.
const maxRequestIDLen = 64

// RequestIDMiddleware tags every request with an id, reusing a reasonable
// inbound X-Request-Id when present and minting a UUID otherwise. The id is
// echoed on the response and stored on the request context.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ContextWithRequestID(r.Context(), id)))
	})
}
