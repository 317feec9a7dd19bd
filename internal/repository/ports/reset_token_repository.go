package ports

import (
	"context"
	"time"

	"github.com/gtu-transit/auth-gateway/internal/domain"
)

type ResetTokenRepository interface {
	Create(ctx context.Context, token, email string, expiresAt time.Time) (*domain.ResetToken, error)
	FindByToken(ctx context.Context, token string) (*domain.ResetToken, error)
	FindPendingByEmail(ctx context.Context, email string) (*domain.ResetToken, error)
	MarkUsed(ctx context.Context, id int64) error
}
