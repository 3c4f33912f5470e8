package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jdelarosa/tallerflow-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID reuses an inbound correlation id when the gateway supplies
// one, otherwise mints a fresh one. The id is echoed back on the
// response and attached to every log line for the request.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, id)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
