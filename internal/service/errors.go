package service

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrValidation           = errors.New("missing required input")
	ErrPrincipalNotFound    = errors.New("no user or passenger found for email")
	ErrResetPending         = errors.New("a reset token is already pending for this email")
	ErrResetTokenInvalid    = errors.New("token is invalid, expired, or already used")
	ErrDirectoryUnavailable = errors.New("identity directory unavailable")
	ErrInvalidCredentials   = errors.New("invalid email or password")
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
