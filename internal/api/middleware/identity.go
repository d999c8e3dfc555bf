package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/hanbit-app/srs-api/internal/api/shared"
)

// UserIDHeader carries the caller's identity. The API runs behind a
// gateway that authenticates the user and forwards only this header;
// the scheduler itself performs no credential checks.
const UserIDHeader = "X-User-ID"

// IdentityMiddleware extracts the user ID from the request header and
// stores it in the context for handlers. Requests without a valid user
// ID are rejected before reaching any handler.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "User identity header is required")
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			slog.DebugContext(r.Context(), "rejected request with malformed user ID",
				slog.String("header", UserIDHeader))
			shared.RespondWithError(w, r, http.StatusUnauthorized, "User identity header is invalid")
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
