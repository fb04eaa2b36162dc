package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "crossclass/pkg/domain"
	"crossclass/pkg/requestcontext"
)

// RequireAuth validates a bearer JWT and places the subject's user ID into
// the request context. Claim semantics beyond `sub` (roles, scopes) belong to
// the surrounding identity system, not this service.
func RequireAuth(signingKey string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims := jwt.RegisteredClaims{}
			parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(signingKey), nil
			})
			if err != nil || !parsed.Valid {
				logger.WarnContext(r.Context(), "rejected bearer token", "error", err)
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			subject, err := uuid.Parse(claims.Subject)
			if err != nil {
				http.Error(w, "invalid subject claim", http.StatusUnauthorized)
				return
			}

			ctx := requestcontext.WithUserID(r.Context(), id.UserID(subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
