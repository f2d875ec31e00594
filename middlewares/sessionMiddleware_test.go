package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionMiddleware())
	r.GET("/protected", RequireSession(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestSessionMiddlewarePassesThroughWithoutToken(t *testing.T) {
	r := sessionRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// No token means no session; RequireSession is what rejects.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMiddlewareRejectsGarbageToken(t *testing.T) {
	r := sessionRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("token", "not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestSessionMiddlewareRejectsForgedSignature(t *testing.T) {
	r := sessionRouter()

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "mgr1",
		"center":   "Smile Dental",
		"role":     "Supervisor",
	})
	signed, err := forged.SignedString([]byte("attacker-key"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("token", signed)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}
