package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"inkwell/internal/httputil"
)

// RequireToken guards the authoring API with a static bearer token. A
// server started without a token refuses authoring requests rather than
// running open.
func RequireToken(token string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				logger.Error("authoring token not configured, rejecting request", "path", r.URL.Path)
				httputil.RespondError(w, http.StatusInternalServerError, "Authoring API token is not configured.")
				return
			}

			auth := r.Header.Get("Authorization")
			bearer, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || bearer == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "Missing bearer token.")
				return
			}

			if subtle.ConstantTimeCompare([]byte(bearer), []byte(token)) != 1 {
				httputil.RespondError(w, http.StatusForbidden, "Invalid bearer token.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
