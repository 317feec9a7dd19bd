package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gtu-transit/auth-gateway/internal/service"
	"github.com/gtu-transit/auth-gateway/internal/util"
)

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	LoginPassenger(ctx context.Context, email, password string) (*service.LoginResult, error)
	RegisterPassenger(ctx context.Context, name, email, password string) (*service.LoginResult, error)
}

type ResetAPI interface {
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

func RegisterAuth(e *echo.Echo, auth AuthAPI, reset ResetAPI) {
	e.POST("/login", func(c echo.Context) error {
		var req LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("bad request body"))
		}
		result, err := auth.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(http.StatusOK, util.MessageData("Login successful", result))
	})

	e.POST("/login-passenger", func(c echo.Context) error {
		var req LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("bad request body"))
		}
		result, err := auth.LoginPassenger(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(http.StatusOK, util.MessageData("Passenger login successful", result))
	})

	e.POST("/register", func(c echo.Context) error {
		var req RegisterRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("bad request body"))
		}
		result, err := auth.RegisterPassenger(c.Request().Context(), req.Name, req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(http.StatusCreated, util.MessageData("Registration successful", result))
	})

	e.POST("/reset-password-request", func(c echo.Context) error {
		var req PasswordResetRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("bad request body"))
		}
		if err := reset.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(http.StatusOK, util.Message("Password reset request successful"))
	})

	e.POST("/reset-password", func(c echo.Context) error {
		var req PasswordResetConfirmRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("bad request body"))
		}
		if err := reset.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(http.StatusOK, util.Message("Password reset successful"))
	})
}

// writeServiceError maps service sentinels onto HTTP statuses. Sentinel
// messages are safe for clients; anything unexpected gets a generic 500 so
// internal detail only travels over the ops log channel.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrResetTokenInvalid):
		return c.JSON(http.StatusUnauthorized, util.Error(err.Error()))
	case errors.Is(err, service.ErrPrincipalNotFound):
		return c.JSON(http.StatusNotFound, util.Error(err.Error()))
	case errors.Is(err, service.ErrResetPending):
		return c.JSON(http.StatusConflict, util.Error(err.Error()))
	case errors.Is(err, service.ErrDirectoryUnavailable):
		return c.JSON(http.StatusServiceUnavailable, util.Error(err.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("an unexpected error occurred"))
	}
}
