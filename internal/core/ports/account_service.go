package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// Session is an issued session token together with the account it asserts.
type Session struct {
	Token   string
	Account *domain.Account
}

// ProfilePatch enumerates the self-service profile fields. A nil field means
// keep the existing value.
type ProfilePatch struct {
	Bio    *string
	Avatar *string
}

// AccountService implements the account lifecycle: registration, email
// verification, login with lockout, password reset and change.
type AccountService interface {
	Register(ctx context.Context, handle, email, password string) (*domain.Account, error)
	VerifyEmail(ctx context.Context, token string) (*Session, error)
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string, remember bool) (*Session, error)
	// RequestPasswordReset never reveals whether the email exists; the error
	// return covers only infrastructure failures.
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, accountID, current, newPassword string) error
	CurrentAccount(ctx context.Context, accountID string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, accountID string, patch ProfilePatch) (*domain.Account, error)
	// EnsureAdmin creates a pre-verified admin account at bootstrap when no
	// account holds the given email.
	EnsureAdmin(ctx context.Context, handle, email, password string) error
}
