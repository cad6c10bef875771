package middleware

import (
	"net/http"
	"os"
	"strings"

	"staylink/channelsync/internal/db/repositories"

	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware authenticates every API request: either an active
// API key (portal backend) or a signed bearer token (dashboard
// sessions).
func AuthMiddleware(keysRepo *repositories.KeysRepo) func(http.Handler) http.Handler {
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			authHeader := r.Header.Get("Authorization")
			apiKey := r.Header.Get("X-API-Key")

			switch {
			case strings.HasPrefix(authHeader, "Bearer "):
				tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

				token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, jwt.ErrSignatureInvalid
					}
					return jwtSecret, nil
				})
				if err != nil || !token.Valid {
					http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
					return
				}

			case apiKey != "":
				keyRes, err := keysRepo.GetStatus(r.Context(), apiKey)
				if err != nil {
					http.Error(w, "Unauthorized. Invalid API Key", http.StatusUnauthorized)
					return
				}

				if !keyRes.Status {
					http.Error(w, "Unauthorized. Inactive API Key", http.StatusUnauthorized)
					return
				}

			default:
				http.Error(w, "Unauthorized. Missing credentials", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
