package middleware

import (
	"net/http"
	"strings"

	"github.com/emekaobi/naijamart-backend/internal/cart"
	"github.com/emekaobi/naijamart-backend/pkg/logger"
)

const cartTokenHeader = "X-Cart-Token"

// CartToken reads the client's cart token from the request header, minting a
// fresh one for first-time visitors, and echoes it back so the storefront can
// persist it. Every request downstream of this middleware has a token.
func CartToken(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(cartTokenHeader))
			if token == "" {
				token = cart.NewToken()
			}

			w.Header().Set(cartTokenHeader, token)

			ctx := WithCartToken(r.Context(), token)
			if logg != nil {
				ctx = logg.WithCartToken(ctx, token)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
