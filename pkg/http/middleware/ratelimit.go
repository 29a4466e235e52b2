package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Limiter decides whether a client may proceed.
type Limiter interface {
	Allow(key string) bool
}

// RateLimit rejects requests over the per-client budget with 429. Clients
// are keyed by real IP.
func RateLimit(l Limiter, skip ...string) echo.MiddlewareFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := skipped[c.Path()]; ok {
				return next(c)
			}
			if !l.Allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "Too many requests, slow down.",
				})
			}
			return next(c)
		}
	}
}
