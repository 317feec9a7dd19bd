package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Drainer is the slice of the event publishers the health endpoint pokes:
// hitting /health doubles as the "broker is back, flush the backlog" hook.
type Drainer interface {
	Drain(ctx context.Context) error
	Pending() (int, error)
}

func NewRouter(allowOrigins []string, drainers ...Drainer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	allowCredentials := true
	for _, origin := range allowOrigins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	registerLogging(e)

	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderAuthorization,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderOrigin,
			echo.HeaderXRequestedWith,
		},
		AllowCredentials: allowCredentials,
	}))

	e.GET("/health", func(c echo.Context) error {
		pending := 0
		for _, d := range drainers {
			_ = d.Drain(c.Request().Context())
			if n, err := d.Pending(); err == nil {
				pending += n
			}
		}
		return c.JSON(http.StatusOK, echo.Map{"ok": true, "spooled_events": pending})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return e
}
