package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grocerystore/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func defaultClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":  float64(2),
		"role": "USER",
		"sid":  "sid-1",
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	}
}

func runAuthJWT(authz string) (*httptest.ResponseRecorder, echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := AuthJWT(config.Config{JWTSecret: testSecret})
	err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	return rec, c, err
}

func TestMiddleware_AuthJWT_Unauthorized_NoHeader(t *testing.T) {
	rec, _, err := runAuthJWT("")

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_AuthJWT_Unauthorized_BadScheme(t *testing.T) {
	token := signToken(t, testSecret, defaultClaims())
	rec, _, err := runAuthJWT("Basic " + token)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_AuthJWT_Unauthorized_BadSignature(t *testing.T) {
	token := signToken(t, "other-secret", defaultClaims())
	rec, _, err := runAuthJWT("Bearer " + token)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_AuthJWT_Unauthorized_Expired(t *testing.T) {
	claims := defaultClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	token := signToken(t, testSecret, claims)

	rec, _, err := runAuthJWT("Bearer " + token)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_AuthJWT_Unauthorized_MissingSessionID(t *testing.T) {
	claims := defaultClaims()
	delete(claims, "sid")
	token := signToken(t, testSecret, claims)

	rec, _, err := runAuthJWT("Bearer " + token)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_AuthJWT_Success_SetsContext(t *testing.T) {
	token := signToken(t, testSecret, defaultClaims())
	rec, c, err := runAuthJWT("Bearer " + token)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), c.Get(CtxUserIDKey))
	assert.Equal(t, "USER", c.Get(CtxUserRoleKey))
	assert.Equal(t, "sid-1", c.Get(CtxSessionIDKey))
}

func TestMiddleware_AdminRoleGuard_Forbidden_ForUser(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/products", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(CtxUserRoleKey, "USER")

	err := AdminRoleGuard()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMiddleware_AdminRoleGuard_Unauthorized_NoRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/products", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := AdminRoleGuard()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_AdminRoleGuard_AllowsAdmin(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/products", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(CtxUserRoleKey, "ADMIN")

	err := AdminRoleGuard()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
