package middleware

import (
	"strconv"
	"time"

	"storehouse/internal/metrics"

	"github.com/labstack/echo/v4"
)

// Metrics records request count, latency and in-flight gauge per route template
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			metrics.RequestInFlight.Inc()
			defer metrics.RequestInFlight.Dec()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.ObserveRequest(c.Request().Method, route, strconv.Itoa(c.Response().Status), start)
			return err
		}
	}
}
