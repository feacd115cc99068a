package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/becbilldesk-api/shared/auth"
)

type contextKey struct{}

// UserIDKey is the request context key holding the authenticated user id.
var UserIDKey = contextKey{}

// RequireSession rejects requests without a valid session cookie and stores
// the session's user id in the request context.
func RequireSession(sessions *auth.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := sessions.UserID(r)
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("session rejected")

				message := "Unauthorized - invalid token"
				if errors.Is(err, auth.ErrNoSession) {
					message = "Unauthorized - no token provided"
				}

				writeUnauthorized(w, message)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the user id stored by RequireSession.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
