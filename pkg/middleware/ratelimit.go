package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

type response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewRateLimiterMiddleware limits each client IP to 10 requests per second
// with a burst of 30. Mutating template endpoints trigger full reconciliation
// passes, so a runaway client is throttled before it can pile those up.
func NewRateLimiterMiddleware() echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(10),
				Burst:     30,
				ExpiresIn: 3 * time.Minute,
			},
		),

		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},

		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, response{
				Code:    http.StatusForbidden,
				Message: "Access forbidden: rate limiter error occurred",
			})
		},

		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, response{
				Code:    http.StatusTooManyRequests,
				Message: "Too many requests: rate limit exceeded, please try again later",
			})
		},
	}

	return middleware.RateLimiterWithConfig(config)
}
