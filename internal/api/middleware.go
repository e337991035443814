// Package api implements the momwise REST API using chi.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/momwise/momwise/internal/auth"
)

// AuthMiddleware requires an "Authorization: Bearer <jwt>" header and stores
// the authenticated user id in the request context.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := verifier.UserID(auth.BearerToken(r.Header.Get("Authorization")))
			if err != nil {
				if errors.Is(err, auth.ErrMissingToken) {
					writeJSON(w, http.StatusUnauthorized, errorBody("Unauthorized"))
					return
				}
				slog.Debug("token rejected", slog.String("error", err.Error()))
				writeJSON(w, http.StatusUnauthorized, errorBody("Invalid token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}
