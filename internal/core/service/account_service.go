package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

const (
	verificationTTL = 24 * time.Hour
	resetTTL        = time.Hour
)

// AccountService implements the account lifecycle state machine.
type AccountService struct {
	repo     ports.AccountRepository
	tokens   ports.TokenManager
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, tokens ports.TokenManager, notifier ports.Notifier, log zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, tokens: tokens, notifier: notifier, log: log}
}

// Register creates an unverified account and dispatches a verification mail.
// The mail send is fire-and-forget; registration never fails on it.
func (s *AccountService) Register(ctx context.Context, handle, email, password string) (*domain.Account, error) {
	if !domain.ValidHandle(handle) {
		return nil, fmt.Errorf("%w: handle must be 3-20 characters of letters, digits or underscore", domain.ErrValidation)
	}
	email = domain.NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	if !domain.ValidPassword(password) {
		return nil, fmt.Errorf("%w: password must be at least 6 characters with a letter and a digit", domain.ErrValidation)
	}

	hash, err := s.tokens.HashSecret(password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.IssueOneTimeToken(verificationTTL)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Handle:            handle,
		Email:             email,
		PasswordHash:      hash,
		Avatar:            domain.AvatarForEmail(email),
		IsActive:          true,
		VerificationToken: token,
		VerificationExp:   expiresAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.notifier.SendVerification(created.Email, created.Handle, token)
	s.log.Info().Str("handle", created.Handle).Msg("account registered")

	return created, nil
}

// VerifyEmail consumes a live verification token, flips the verified flag,
// and issues a session for the freshly verified account.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) (*ports.Session, error) {
	account, err := s.repo.FindByVerificationToken(ctx, token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidOrExpiredToken
		}
		return nil, err
	}

	account.EmailVerified = true
	account.ClearVerificationToken()
	account.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}

	sessionToken, err := s.tokens.IssueSession(account.ID, account.Handle, false)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("handle", account.Handle).Msg("email verified")
	return &ports.Session{Token: sessionToken, Account: account}, nil
}

// ResendVerification rotates the verification token and resends the mail.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	account, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if account.EmailVerified {
		return domain.ErrAlreadyVerified
	}

	token, expiresAt, err := s.tokens.IssueOneTimeToken(verificationTTL)
	if err != nil {
		return err
	}

	account.VerificationToken = token
	account.VerificationExp = expiresAt
	account.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, account); err != nil {
		return err
	}

	s.notifier.SendVerification(account.Email, account.Handle, token)
	return nil
}

// Login verifies credentials and issues a session. Unknown email and wrong
// password return the same ErrInvalidCredentials so callers cannot enumerate
// accounts. The lockout check runs before password verification; the
// verified-email check runs only after the password matched.
func (s *AccountService) Login(ctx context.Context, email, password string, remember bool) (*ports.Session, error) {
	now := time.Now().UTC()

	account, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if account.IsLocked(now) {
		return nil, domain.ErrAccountLocked
	}
	if account.IsBanned || !account.IsActive {
		return nil, domain.ErrForbidden
	}

	if !s.tokens.VerifySecret(password, account.PasswordHash) {
		account.FailedLogins++
		if account.FailedLogins >= domain.MaxFailedLogins {
			account.LockedUntil = now.Add(domain.LockoutDuration)
			account.FailedLogins = 0
			s.log.Warn().Str("handle", account.Handle).Time("locked_until", account.LockedUntil).Msg("account locked after repeated failures")
		}
		account.UpdatedAt = now
		if uerr := s.repo.Update(ctx, account); uerr != nil {
			s.log.Error().Err(uerr).Str("handle", account.Handle).Msg("failed to record login failure")
		}
		return nil, domain.ErrInvalidCredentials
	}

	if !account.EmailVerified {
		return nil, domain.ErrEmailNotVerified
	}

	account.FailedLogins = 0
	account.LockedUntil = time.Time{}
	account.LastLoginAt = now
	account.UpdatedAt = now
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}

	token, err := s.tokens.IssueSession(account.ID, account.Handle, remember)
	if err != nil {
		return nil, err
	}

	return &ports.Session{Token: token, Account: account}, nil
}

// RequestPasswordReset issues a 1h reset token and mails it. The caller gets
// a generic success whether or not the email exists.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// Anti-enumeration: pretend success.
			return nil
		}
		return err
	}

	token, expiresAt, err := s.tokens.IssueOneTimeToken(resetTTL)
	if err != nil {
		return err
	}

	account.ResetToken = token
	account.ResetExp = expiresAt
	account.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, account); err != nil {
		return err
	}

	s.notifier.SendPasswordReset(account.Email, account.Handle, token)
	return nil
}

// ResetPassword consumes a live reset token and stores the new password.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if !domain.ValidPassword(newPassword) {
		return fmt.Errorf("%w: password must be at least 6 characters with a letter and a digit", domain.ErrValidation)
	}

	account, err := s.repo.FindByResetToken(ctx, token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrInvalidOrExpiredToken
		}
		return err
	}

	hash, err := s.tokens.HashSecret(newPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	account.PasswordHash = hash
	account.ClearResetToken()
	account.PasswordChangedAt = now
	account.FailedLogins = 0
	account.LockedUntil = time.Time{}
	account.UpdatedAt = now
	if err := s.repo.Update(ctx, account); err != nil {
		return err
	}

	s.notifier.SendPasswordChanged(account.Email, account.Handle)
	s.log.Info().Str("handle", account.Handle).Msg("password reset")
	return nil
}

// ChangePassword rehashes after verifying the current password.
func (s *AccountService) ChangePassword(ctx context.Context, accountID, current, newPassword string) error {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}

	if !s.tokens.VerifySecret(current, account.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	if !domain.ValidPassword(newPassword) {
		return fmt.Errorf("%w: password must be at least 6 characters with a letter and a digit", domain.ErrValidation)
	}

	hash, err := s.tokens.HashSecret(newPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	account.PasswordHash = hash
	account.PasswordChangedAt = now
	account.UpdatedAt = now
	return s.repo.Update(ctx, account)
}

// CurrentAccount resolves a session subject to its account. A missing
// subject is an invalid token, not a 404: the session asserts an identity
// that no longer exists.
func (s *AccountService) CurrentAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return account, nil
}

// UpdateProfile applies a keep-if-absent merge of the self-service profile
// fields. The admin flag is not reachable from here.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, patch ports.ProfilePatch) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if patch.Bio != nil {
		account.Bio = *patch.Bio
	}
	if patch.Avatar != nil {
		account.Avatar = *patch.Avatar
	}
	account.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// EnsureAdmin bootstraps a pre-verified admin account unless the email is
// already registered.
func (s *AccountService) EnsureAdmin(ctx context.Context, handle, email, password string) error {
	email = domain.NormalizeEmail(email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return err
	}

	hash, err := s.tokens.HashSecret(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.repo.Create(ctx, &domain.Account{
		Handle:        handle,
		Email:         email,
		PasswordHash:  hash,
		Avatar:        domain.AvatarForEmail(email),
		IsAdmin:       true,
		IsActive:      true,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("handle", handle).Msg("admin account bootstrapped")
	return nil
}
