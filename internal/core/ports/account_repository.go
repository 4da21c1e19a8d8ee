package ports

import (
	"context"
	"time"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByHandle(ctx context.Context, handle string) (*domain.Account, error)
	// FindByVerificationToken matches only tokens whose expiry is after now;
	// an expired token behaves exactly like a non-existent one.
	FindByVerificationToken(ctx context.Context, token string, now time.Time) (*domain.Account, error)
	// FindByResetToken matches only tokens whose expiry is after now.
	FindByResetToken(ctx context.Context, token string, now time.Time) (*domain.Account, error)
	Update(ctx context.Context, a *domain.Account) error
}
