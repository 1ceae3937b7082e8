package middleware

import (
	"net/http"
	"strings"

	"github.com/prasetyowidi/selaras/pkg/auth"
	"github.com/prasetyowidi/selaras/pkg/response"
)

// Auth guards catalog-mutating routes: the request must carry a valid
// Bearer token issued by the login endpoint.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	})
}
