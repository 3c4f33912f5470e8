package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jdelarosa/tallerflow-backend/api/responses"
	"github.com/jdelarosa/tallerflow-backend/pkg/enums"
	pkgerrors "github.com/jdelarosa/tallerflow-backend/pkg/errors"
	"github.com/jdelarosa/tallerflow-backend/pkg/logger"
)

// Identity reads the user identity injected by the API gateway and seeds the
// request context with it. The gateway terminates authentication, so a
// missing or malformed identity here is rejected outright.
func Identity(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := strings.TrimSpace(r.Header.Get("X-User-Id"))
			if rawID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity"))
				return
			}

			userID, err := uuid.Parse(rawID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id"))
				return
			}

			role, err := enums.ParseUserRole(strings.TrimSpace(r.Header.Get("X-User-Role")))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid role"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, userID.String())
			ctx = context.WithValue(ctx, ctxRole, role.String())

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    userID.String(),
					"actor_role": role.String(),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route to a single role.
func RequireRole(role enums.UserRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role.String() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
