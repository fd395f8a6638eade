package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"authservice/internal/pkg/cookies"
	"authservice/internal/pkg/response"
	"authservice/internal/pkg/token"
)

// Authenticate verifies the access token from the accessToken cookie
// and exposes the caller's identity to downstream handlers via the
// user_id and role context keys. Missing, malformed and expired tokens
// are all rejected the same way.
func Authenticate(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cookies.AccessTokenName)
		if err != nil || raw == "" {
			abortUnauthorized(c, "Missing access token")
			return
		}

		claims, err := tokens.VerifyAccessToken(raw)
		if err != nil {
			abortUnauthorized(c, "Invalid access token")
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			abortUnauthorized(c, "Invalid access token")
			return
		}

		c.Set("user_id", userID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	response.Error(c, http.StatusUnauthorized, "UnauthorizedError", message)
	c.Abort()
}
