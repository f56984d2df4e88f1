package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"

	"maplehr/internal/domain/auth"
	"maplehr/internal/transport/http/api"
)

// Auth attaches the caller named by a valid HS256 bearer token. Anonymous requests and
// requests with unusable tokens continue without a user; RequireRole gates the routes
// that need one.
func Auth(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				logger.Debug("bearer token ignored",
					zap.String("requestId", GetRequestID(r.Context())),
					zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			user := auth.UserContext{UserID: claims.UserID, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", false
	}
	return token, true
}

// RequireRole answers 401 for anonymous callers and 403 for callers outside roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())
			user, ok := GetUser(r.Context())
			switch {
			case !ok:
				w.Header().Set("WWW-Authenticate", `Bearer realm="maplehr"`)
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
			case !slices.Contains(roles, user.Role):
				api.Fail(w, http.StatusForbidden, "forbidden", "role "+user.Role+" may not perform this action", requestID)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func WithUser(ctx context.Context, user auth.UserContext) context.Context {
	return context.WithValue(ctx, ctxKeyUser, user)
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.UserContext)
	return user, ok
}
