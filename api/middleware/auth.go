package middleware

import (
	"net/http"
	"strings"

	"github.com/jirasak-dev/stockledger/api/responses"
	"github.com/jirasak-dev/stockledger/internal/guard"
	pkgAuth "github.com/jirasak-dev/stockledger/pkg/auth"
	"github.com/jirasak-dev/stockledger/pkg/config"
	pkgerrors "github.com/jirasak-dev/stockledger/pkg/errors"
	"github.com/jirasak-dev/stockledger/pkg/logger"
)

// Auth validates the bearer token and seeds the request context with the
// acting user and claim bag. A verified token whose claim bag is missing a
// usable Id claim is rejected before any handler runs.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			actingID, ok := guard.ActingUser(claims)
			if !ok {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeInvalidToken, "token is missing a user id"))
				return
			}

			ctx := WithActingUser(r.Context(), actingID, claims)
			if logg != nil {
				ctx = logg.WithUserID(ctx, actingID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
