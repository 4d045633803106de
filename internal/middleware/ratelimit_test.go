package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRateLimiter(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(rate.Limit(1), 3)
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, rl.Middleware())

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit("1.2.3.4"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit("1.2.3.4"))

	// Budgets are tracked per client IP.
	assert.Equal(t, http.StatusOK, hit("5.6.7.8"))
}
