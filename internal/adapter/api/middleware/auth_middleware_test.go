package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func invoke(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := NewAuthMiddleware(testSecret)
	handler := m.Authenticate(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	return c, handler(c)
}

func TestAuthenticateSetsIdentity(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "farmer-1",
		"role": "farmer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	c, err := invoke(t, "Bearer "+token)

	require.NoError(t, err)
	assert.Equal(t, "farmer-1", c.Get("uid"))
	assert.Equal(t, "farmer", c.Get("role"))
}

func TestAuthenticateMissingHeader(t *testing.T) {
	_, err := invoke(t, "")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthenticateBadFormat(t *testing.T) {
	_, err := invoke(t, "Token abc")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthenticateWrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "farmer-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := invoke(t, "Bearer "+token)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "farmer-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := invoke(t, "Bearer "+token)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestVerifyTokenMissingSubject(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"role": "buyer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	m := NewAuthMiddleware(testSecret)
	_, _, err := m.VerifyToken(token)

	assert.Error(t, err)
}
