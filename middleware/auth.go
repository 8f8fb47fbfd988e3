package middleware

import (
	"net/http"
	"strings"

	"github.com/geo-diary/api-go/config"
	"github.com/geo-diary/api-go/utils"
	"github.com/gin-gonic/gin"
)

// TokenVerifier validates a bearer credential and returns the caller
// identity. Satisfied by config.GoogleConfig.
type TokenVerifier interface {
	VerifyIDToken(idToken string) (*config.GoogleUserInfo, error)
}

func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			c.Abort()
			return
		}

		userInfo, err := verifier.VerifyIDToken(bearerToken[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		userClaims := &utils.UserClaims{
			Email:   userInfo.Email,
			Name:    userInfo.Name,
			Picture: userInfo.Picture,
		}

		c.Set(string(utils.UserContextKey), userClaims)

		c.Next()
	}
}
