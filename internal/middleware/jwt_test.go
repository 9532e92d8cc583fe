package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-reservation/internal/utils"
)

const testSecret = "test-secret"

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen echo.Context
	next := func(c echo.Context) error {
		seen = c
		return c.NoContent(http.StatusOK)
	}
	err := JWTAuth(testSecret)(next)(c)
	require.NoError(t, err)
	return rec, seen
}

func TestJWTAuth(t *testing.T) {
	t.Run("valid token passes identity through", func(t *testing.T) {
		tok, err := utils.NewAccessToken(testSecret, 42, "CUSTOMER", 5)
		require.NoError(t, err)

		rec, seen := runJWT(t, "Bearer "+tok.Token)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		// JSON numeric claims decode as float64.
		assert.EqualValues(t, 42, seen.Get("user_id"))
		assert.Equal(t, "CUSTOMER", seen.Get("role"))
	})

	t.Run("missing header is a 401", func(t *testing.T) {
		rec, seen := runJWT(t, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("wrong secret is a 401", func(t *testing.T) {
		tok, err := utils.NewAccessToken("other-secret", 42, "CUSTOMER", 5)
		require.NoError(t, err)

		rec, seen := runJWT(t, "Bearer "+tok.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("expired token is a 401", func(t *testing.T) {
		tok, err := utils.NewAccessToken(testSecret, 42, "CUSTOMER", -5)
		require.NoError(t, err)

		rec, seen := runJWT(t, "Bearer "+tok.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("garbage token is a 401", func(t *testing.T) {
		rec, seen := runJWT(t, "Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, seen)
	})
}

func TestRequireRole(t *testing.T) {
	call := func(role interface{}, allowed ...string) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
		require.NoError(t, RequireRole(allowed...)(next)(c))
		return rec
	}

	t.Run("allowed role passes", func(t *testing.T) {
		rec := call("ADMIN", "ADMIN")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("any of several roles passes", func(t *testing.T) {
		rec := call("CUSTOMER", "CUSTOMER", "ADMIN")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("disallowed role is a 403", func(t *testing.T) {
		rec := call("CUSTOMER", "ADMIN")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing role is a 403", func(t *testing.T) {
		rec := call(nil, "ADMIN")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("non-string role is a 403", func(t *testing.T) {
		rec := call(7, "ADMIN")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
