package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"vaultguard/config"
	"vaultguard/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.AppConfig.JWTSecret = "test-signing-key"
	config.AppConfig.SessionTTLSeconds = 3600

	router := gin.New()
	router.GET("/protected", SessionAuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetString("userID")})
	})
	return router
}

func TestSessionAuthMiddleware_RejectsWithoutValidCookie(t *testing.T) {
	router := newProtectedRouter(t)

	// No cookie at all.
	wMissing := httptest.NewRecorder()
	router.ServeHTTP(wMissing, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, wMissing.Code)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, wMissing.Body.String())

	// A garbage token gets the identical rejection.
	reqBad := httptest.NewRequest(http.MethodGet, "/protected", nil)
	reqBad.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-jwt"})
	wBad := httptest.NewRecorder()
	router.ServeHTTP(wBad, reqBad)
	assert.Equal(t, http.StatusUnauthorized, wBad.Code)
	assert.Equal(t, wMissing.Body.String(), wBad.Body.String())
}

func TestSessionAuthMiddleware_PassesAccountID(t *testing.T) {
	router := newProtectedRouter(t)

	token, err := utils.GenerateSessionToken("account-123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "account-123")
}
