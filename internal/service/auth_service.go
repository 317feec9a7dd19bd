package service

import (
	"context"
	"errors"
	"time"

	"github.com/gtu-transit/auth-gateway/internal/directory"
	"github.com/gtu-transit/auth-gateway/internal/domain"
	"github.com/gtu-transit/auth-gateway/internal/util"
)

// AuthService composes directory lookup, hash verification, and token
// issuance. Thin by design; the directories own all credential state.
type AuthService struct {
	directory DirectoryClient
	jwt       *util.JWTManager
	ops       OpsLog
	verify    func(raw, hash string) bool
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	UserID    int64       `json:"user_id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
}

func NewAuthService(dir DirectoryClient, jwt *util.JWTManager, ops OpsLog) *AuthService {
	return &AuthService{
		directory: dir,
		jwt:       jwt,
		ops:       ops,
		verify:    util.VerifyPassword,
	}
}

// Login authenticates against the standard user directory.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	return s.login(ctx, directory.KindUser, email, password)
}

// LoginPassenger authenticates against the passenger directory.
func (s *AuthService) LoginPassenger(ctx context.Context, email, password string) (*LoginResult, error) {
	return s.login(ctx, directory.KindPassenger, email, password)
}

func (s *AuthService) login(ctx context.Context, kind directory.Kind, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrValidation
	}

	principal, err := s.directory.FindByEmail(ctx, kind, email)
	if err != nil {
		// Unknown email and wrong password look identical to the caller.
		if errors.Is(err, directory.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		if errors.Is(err, directory.ErrUnavailable) {
			s.ops.Log(ctx, domain.LevelError, "Login lookup failed", map[string]any{
				"email": email,
				"kind":  string(kind),
				"error": err.Error(),
			})
			return nil, ErrDirectoryUnavailable
		}
		return nil, err
	}

	if !s.verify(password, principal.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(principal)
}

// RegisterPassenger creates a passenger in the remote directory and logs the
// new principal straight in.
func (s *AuthService) RegisterPassenger(ctx context.Context, name, email, password string) (*LoginResult, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrValidation
	}

	principal, err := s.directory.RegisterPassenger(ctx, name, email, password)
	if err != nil {
		if errors.Is(err, directory.ErrUnavailable) {
			return nil, ErrDirectoryUnavailable
		}
		return nil, err
	}

	result, err := s.issue(principal)
	if err != nil {
		return nil, err
	}
	s.ops.Log(ctx, domain.LevelInfo, "Passenger registered", map[string]any{"email": email})
	return result, nil
}

func (s *AuthService) issue(principal *domain.Principal) (*LoginResult, error) {
	token, expiresAt, err := s.jwt.Generate(principal)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    principal.ID,
		Name:      principal.Name,
		Email:     principal.Email,
		Role:      principal.Role,
	}, nil
}
