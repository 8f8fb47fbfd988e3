package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/geo-diary/api-go/middleware"
	"github.com/gin-gonic/gin"
)

type ValidationController struct {
	Verifier middleware.TokenVerifier
}

func NewValidationController(verifier middleware.TokenVerifier) *ValidationController {
	return &ValidationController{Verifier: verifier}
}

// ValidateToken verifies the bearer token with the identity provider
// and reports how long it remains valid.
func (vc *ValidationController) ValidateToken(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization header is missing or does not start with Bearer."})
		return
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if _, err := vc.Verifier.VerifyIDToken(token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token: " + err.Error()})
		return
	}

	claims := jwt.MapClaims{}
	parser := jwt.Parser{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token: " + err.Error()})
		return
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token: missing expiry"})
		return
	}

	timeUntilExpiry := int64(exp)*1000 - time.Now().UnixMilli()
	if timeUntilExpiry <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token: expired"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":             "Token is valid.",
		"timeUntilExpiration": timeUntilExpiry,
	})
}
