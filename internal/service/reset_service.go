package service

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gtu-transit/auth-gateway/internal/directory"
	"github.com/gtu-transit/auth-gateway/internal/domain"
	"github.com/gtu-transit/auth-gateway/internal/repository/ports"
	"github.com/gtu-transit/auth-gateway/internal/util"
)

// DirectoryClient is the slice of the directory adapter the services need.
type DirectoryClient interface {
	FindByEmail(ctx context.Context, kind directory.Kind, email string) (*domain.Principal, error)
	LookupPrincipal(ctx context.Context, email string) (*domain.Principal, directory.Kind, error)
	UpdatePassword(ctx context.Context, kind directory.Kind, id int64, newPassword string) error
	RegisterPassenger(ctx context.Context, name, email, password string) (*domain.Principal, error)
}

// OpsLog is the operational log channel; implementations must never fail the
// caller.
type OpsLog interface {
	Log(ctx context.Context, level domain.LogLevel, message string, details map[string]any)
}

type ResetConfig struct {
	ServiceName string
	LinkBaseURL string
	TokenTTL    time.Duration
}

// ResetService orchestrates the password-reset token lifecycle: issuing
// single-use tokens and redeeming them against the owning directory.
type ResetService struct {
	directory DirectoryClient
	tokens    ports.ResetTokenRepository
	events    ports.EventPublisher
	ops       OpsLog
	cfg       ResetConfig
	clock     func() time.Time
}

func NewResetService(dir DirectoryClient, tokens ports.ResetTokenRepository, events ports.EventPublisher, ops OpsLog, cfg ResetConfig) *ResetService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 15 * time.Minute
	}
	return &ResetService{
		directory: dir,
		tokens:    tokens,
		events:    events,
		ops:       ops,
		cfg:       cfg,
		clock:     time.Now,
	}
}

func (s *ResetService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// RequestPasswordReset issues a fresh reset token for the email and emits the
// notification event. The caller sees success once the token is persisted and
// the publish has been attempted; a broker outage only degrades delivery, it
// never fails the request (a failed request here would trip the pending-token
// conflict on retry even though a valid token already exists).
func (s *ResetService) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return ErrValidation
	}

	principal, _, err := s.directory.LookupPrincipal(ctx, email)
	if err != nil {
		return s.mapDirectoryError(ctx, err, email)
	}

	if _, err := s.tokens.FindPendingByEmail(ctx, email); err == nil {
		return ErrResetPending
	} else if !isNotFound(err) {
		return err
	}

	token := util.NewResetTokenValue()
	expiresAt := s.clock().Add(s.cfg.TokenTTL)
	created, err := s.tokens.Create(ctx, token, email, expiresAt)
	if err != nil {
		// The partial unique index closes the window between the pending
		// check above and this insert under concurrent requests.
		if isUniqueViolation(err) {
			return ErrResetPending
		}
		return err
	}

	event := domain.ResetPasswordEvent{
		To:        email,
		Role:      principal.Role,
		ResetLink: s.cfg.LinkBaseURL + "?token=" + url.QueryEscape(token),
	}
	if err := s.events.Publish(ctx, event.Envelope(s.cfg.ServiceName)); err != nil {
		// Token is durable; only the notification is at risk. Alert, don't fail.
		s.ops.Log(ctx, domain.LevelCritical, "Reset notification lost: broker and spool both failed", map[string]any{
			"email": email,
			"error": err.Error(),
		})
	}

	s.ops.Log(ctx, domain.LevelInfo, "Password reset requested", map[string]any{
		"email":     email,
		"tokenId":   created.ID,
		"expiresAt": created.ExpiresAt.UTC().Format(time.RFC3339),
	})
	return nil
}

// ResetPassword redeems a token: it dispatches the new password to whichever
// directory owns the principal, then burns the token. Expired and already
// used tokens collapse into one error so callers cannot probe token state.
func (s *ResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return ErrValidation
	}

	reset, err := s.tokens.FindByToken(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return ErrResetTokenInvalid
		}
		return err
	}
	if !reset.Redeemable(s.clock()) {
		return ErrResetTokenInvalid
	}

	// The token only carries the email, so the owning directory and numeric
	// id have to be resolved again.
	principal, kind, err := s.directory.LookupPrincipal(ctx, reset.Email)
	if err != nil {
		return s.mapDirectoryError(ctx, err, reset.Email)
	}

	if err := s.directory.UpdatePassword(ctx, kind, principal.ID, newPassword); err != nil {
		return s.mapDirectoryError(ctx, err, reset.Email)
	}

	// Marked used only after the remote update succeeded. A crash in between
	// leaves a redeemable token for an already-changed password; accepted as
	// the narrower window since both calls are synchronous.
	if err := s.tokens.MarkUsed(ctx, reset.ID); err != nil {
		s.ops.Log(ctx, domain.LevelCritical, "Password changed but token not burned", map[string]any{
			"tokenId": reset.ID,
			"error":   err.Error(),
		})
		return err
	}

	s.ops.Log(ctx, domain.LevelInfo, "Password reset completed", map[string]any{
		"email": reset.Email,
		"kind":  string(kind),
	})
	return nil
}

func (s *ResetService) mapDirectoryError(ctx context.Context, err error, email string) error {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		return ErrPrincipalNotFound
	case errors.Is(err, directory.ErrUnavailable):
		s.ops.Log(ctx, domain.LevelError, "Directory lookup failed", map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return ErrDirectoryUnavailable
	default:
		return err
	}
}
