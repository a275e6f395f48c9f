package token

import (
	"net/http"
	"strings"

	"github.com/Sokol111/exclog/pkg/core/logger"
	"github.com/Sokol111/exclog/pkg/exclog"
	"go.uber.org/zap"
)

// identityMiddleware publishes the subject of a valid bearer access token as the
// request's unauthenticated user id. Requests without a valid token pass unchanged;
// enforcing authentication is left to the handlers.
func identityMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := validator.ValidateToken(raw)
			if err != nil || !claims.IsAccess() {
				logger.Get(r.Context()).Debug("ignoring bearer token", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := ContextWithClaims(r.Context(), claims)
			ctx = exclog.WithUnauthenticatedUserID(ctx, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, raw, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || raw == "" {
		return "", false
	}
	return strings.TrimSpace(raw), true
}
