package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geo-diary/api-go/config"
	"github.com/geo-diary/api-go/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	userInfo *config.GoogleUserInfo
	err      error
}

func (s *stubVerifier) VerifyIDToken(string) (*config.GoogleUserInfo, error) {
	return s.userInfo, s.err
}

func newAuthTestRouter(verifier TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(verifier))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetUser(c))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("valid token sets claims", func(t *testing.T) {
		verifier := &stubVerifier{userInfo: &config.GoogleUserInfo{
			Email:   "alice@example.com",
			Name:    "Alice",
			Picture: "https://cdn.test/alice.png",
		}}

		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.Use(AuthMiddleware(verifier))

		var claims *utils.UserClaims
		r.GET("/whoami", func(c *gin.Context) {
			claims = utils.GetUser(c)
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer sometoken")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, claims)
		assert.Equal(t, "alice@example.com", claims.Email)
		assert.Equal(t, "Alice", claims.Name)
	})

	t.Run("missing header", func(t *testing.T) {
		r := newAuthTestRouter(&stubVerifier{})
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		r := newAuthTestRouter(&stubVerifier{})
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "justonetoken")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		r := newAuthTestRouter(&stubVerifier{err: errors.New("invalid token")})
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer bad")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
