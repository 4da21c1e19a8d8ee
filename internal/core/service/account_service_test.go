package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/core/domain"
)

type stubAccountRepo struct {
	accounts map[string]*domain.Account
	nextID   int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	for _, existing := range r.accounts {
		if existing.Email == a.Email || existing.Handle == a.Handle {
			return nil, domain.ErrAccountExists
		}
	}
	copy := cloneAccount(a)
	r.nextID++
	copy.ID = "acc_" + strconv.Itoa(r.nextID)
	r.accounts[copy.ID] = cloneAccount(copy)
	return cloneAccount(copy), nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	if a, ok := r.accounts[id]; ok {
		return cloneAccount(a), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByHandle(_ context.Context, handle string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Handle == handle {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByVerificationToken(_ context.Context, token string, now time.Time) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.VerificationToken == token && a.VerificationExp.After(now) {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByResetToken(_ context.Context, token string, now time.Time) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.ResetToken == token && a.ResetExp.After(now) {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) Update(_ context.Context, a *domain.Account) error {
	if _, ok := r.accounts[a.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	r.accounts[a.ID] = cloneAccount(a)
	return nil
}

// recordingNotifier captures every mail the service dispatches.
type recordingNotifier struct {
	verifications []string // tokens, in send order
	resets        []string
	changed       []string // recipient emails
}

func (n *recordingNotifier) SendVerification(_, _, token string) {
	n.verifications = append(n.verifications, token)
}

func (n *recordingNotifier) SendPasswordReset(_, _, token string) {
	n.resets = append(n.resets, token)
}

func (n *recordingNotifier) SendPasswordChanged(email, _ string) {
	n.changed = append(n.changed, email)
}

func newAccountService(repo *stubAccountRepo, notifier *recordingNotifier) *AccountService {
	tokens := NewTokenService("secret", time.Hour, 30*24*time.Hour, 0)
	return NewAccountService(repo, tokens, notifier, zerolog.Nop())
}

func TestAccountService_RegisterVerifyLogin(t *testing.T) {
	repo := newStubAccountRepo()
	notifier := &recordingNotifier{}
	svc := newAccountService(repo, notifier)
	ctx := context.Background()

	account, err := svc.Register(ctx, "alice", "Alice@Example.com", "pass1234")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if account.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %s", account.Email)
	}
	if account.EmailVerified {
		t.Fatalf("expected account to start unverified")
	}
	if account.PasswordHash == "pass1234" {
		t.Fatalf("expected password to be hashed")
	}
	if len(notifier.verifications) != 1 {
		t.Fatalf("expected 1 verification mail, got %d", len(notifier.verifications))
	}

	// Login before verification fails with the dedicated sentinel.
	if _, err := svc.Login(ctx, "alice@example.com", "pass1234", false); err != domain.ErrEmailNotVerified {
		t.Fatalf("expected ErrEmailNotVerified, got %v", err)
	}

	session, err := svc.VerifyEmail(ctx, notifier.verifications[0])
	if err != nil {
		t.Fatalf("VerifyEmail returned error: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected a session token after verification")
	}
	if !session.Account.EmailVerified {
		t.Fatalf("expected account to be verified")
	}

	// The token is single use.
	if _, err := svc.VerifyEmail(ctx, notifier.verifications[0]); err != domain.ErrInvalidOrExpiredToken {
		t.Fatalf("expected ErrInvalidOrExpiredToken on replay, got %v", err)
	}

	session, err = svc.Login(ctx, "alice@example.com", "pass1234", false)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if session.Account.LastLoginAt.IsZero() {
		t.Fatalf("expected last_login_at to be stamped")
	}
}

func TestAccountService_Register_Validation(t *testing.T) {
	svc := newAccountService(newStubAccountRepo(), &recordingNotifier{})
	ctx := context.Background()

	cases := []struct {
		name, handle, email, password string
	}{
		{"short handle", "ab", "a@example.com", "pass1234"},
		{"bad handle chars", "al ice", "a@example.com", "pass1234"},
		{"bad email", "alice", "not-an-email", "pass1234"},
		{"short password", "alice", "a@example.com", "p1"},
		{"no digit", "alice", "a@example.com", "password"},
		{"no letter", "alice", "a@example.com", "123456"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, tc.handle, tc.email, tc.password); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestAccountService_Register_Duplicate(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAccountService(repo, &recordingNotifier{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "pass1234"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := svc.Register(ctx, "alice2", "alice@example.com", "pass1234"); err != domain.ErrAccountExists {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestAccountService_Login_UnknownEmail(t *testing.T) {
	svc := newAccountService(newStubAccountRepo(), &recordingNotifier{})

	// Unknown email and wrong password are indistinguishable.
	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass1234", false); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountService_Login_Lockout(t *testing.T) {
	repo := newStubAccountRepo()
	notifier := &recordingNotifier{}
	svc := newAccountService(repo, notifier)
	ctx := context.Background()

	account, err := svc.Register(ctx, "bob", "bob@example.com", "pass1234")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := svc.VerifyEmail(ctx, notifier.verifications[0]); err != nil {
		t.Fatalf("VerifyEmail returned error: %v", err)
	}

	for i := 0; i < domain.MaxFailedLogins; i++ {
		if _, err := svc.Login(ctx, "bob@example.com", "wrong", false); err != domain.ErrInvalidCredentials {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	// The fifth failure locks the account; even the right password bounces.
	if _, err := svc.Login(ctx, "bob@example.com", "pass1234", false); err != domain.ErrAccountLocked {
		t.Fatalf("expected ErrAccountLocked, got %v", err)
	}

	stored, _ := repo.FindByID(ctx, account.ID)
	if !stored.IsLocked(time.Now().UTC()) {
		t.Fatalf("expected account to be locked")
	}

	// Once the lock expires the next successful login clears the counters.
	stored.LockedUntil = time.Now().UTC().Add(-time.Minute)
	if err := repo.Update(ctx, stored); err != nil {
		t.Fatalf("update: %v", err)
	}
	session, err := svc.Login(ctx, "bob@example.com", "pass1234", false)
	if err != nil {
		t.Fatalf("expected login after lock expiry, got %v", err)
	}
	if session.Account.FailedLogins != 0 || !session.Account.LockedUntil.IsZero() {
		t.Fatalf("expected lockout state to be cleared, got %+v", session.Account)
	}
}

func TestAccountService_PasswordReset(t *testing.T) {
	repo := newStubAccountRepo()
	notifier := &recordingNotifier{}
	svc := newAccountService(repo, notifier)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "carol", "carol@example.com", "pass1234"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := svc.VerifyEmail(ctx, notifier.verifications[0]); err != nil {
		t.Fatalf("VerifyEmail returned error: %v", err)
	}

	// Unknown email reports success and sends nothing.
	if err := svc.RequestPasswordReset(ctx, "ghost@example.com"); err != nil {
		t.Fatalf("expected silent success for unknown email, got %v", err)
	}
	if len(notifier.resets) != 0 {
		t.Fatalf("expected no reset mail for unknown email")
	}

	if err := svc.RequestPasswordReset(ctx, "carol@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset returned error: %v", err)
	}
	if len(notifier.resets) != 1 {
		t.Fatalf("expected 1 reset mail, got %d", len(notifier.resets))
	}

	token := notifier.resets[0]
	if err := svc.ResetPassword(ctx, token, "newpass9"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
	if len(notifier.changed) != 1 {
		t.Fatalf("expected password-changed mail, got %d", len(notifier.changed))
	}

	// The token is consumed on use.
	if err := svc.ResetPassword(ctx, token, "anotherpass1"); err != domain.ErrInvalidOrExpiredToken {
		t.Fatalf("expected ErrInvalidOrExpiredToken on replay, got %v", err)
	}

	if _, err := svc.Login(ctx, "carol@example.com", "pass1234", false); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected old password to be rejected, got %v", err)
	}
	if _, err := svc.Login(ctx, "carol@example.com", "newpass9", false); err != nil {
		t.Fatalf("expected new password to work, got %v", err)
	}
}

func TestAccountService_ResetPassword_ExpiredToken(t *testing.T) {
	repo := newStubAccountRepo()
	notifier := &recordingNotifier{}
	svc := newAccountService(repo, notifier)
	ctx := context.Background()

	account, err := svc.Register(ctx, "dave", "dave@example.com", "pass1234")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if err := svc.RequestPasswordReset(ctx, "dave@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset returned error: %v", err)
	}

	// Force the token past its expiry; it must behave like a missing one.
	stored, _ := repo.FindByID(ctx, account.ID)
	stored.ResetExp = time.Now().UTC().Add(-time.Minute)
	if err := repo.Update(ctx, stored); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := svc.ResetPassword(ctx, notifier.resets[0], "newpass9"); err != domain.ErrInvalidOrExpiredToken {
		t.Fatalf("expected ErrInvalidOrExpiredToken, got %v", err)
	}
}

func TestAccountService_ChangePassword(t *testing.T) {
	repo := newStubAccountRepo()
	notifier := &recordingNotifier{}
	svc := newAccountService(repo, notifier)
	ctx := context.Background()

	account, err := svc.Register(ctx, "erin", "erin@example.com", "pass1234")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if err := svc.ChangePassword(ctx, account.ID, "wrongpass", "newpass9"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}
	if err := svc.ChangePassword(ctx, account.ID, "pass1234", "weak"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for weak password, got %v", err)
	}
	if err := svc.ChangePassword(ctx, account.ID, "pass1234", "newpass9"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	stored, _ := repo.FindByID(ctx, account.ID)
	if stored.PasswordChangedAt.IsZero() {
		t.Fatalf("expected password_changed_at to be stamped")
	}
}

func TestAccountService_ResendVerification(t *testing.T) {
	repo := newStubAccountRepo()
	notifier := &recordingNotifier{}
	svc := newAccountService(repo, notifier)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "fred", "fred@example.com", "pass1234"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if err := svc.ResendVerification(ctx, "fred@example.com"); err != nil {
		t.Fatalf("ResendVerification returned error: %v", err)
	}
	if len(notifier.verifications) != 2 {
		t.Fatalf("expected 2 verification mails, got %d", len(notifier.verifications))
	}
	if notifier.verifications[0] == notifier.verifications[1] {
		t.Fatalf("expected resend to rotate the token")
	}

	// The original token was replaced; only the latest verifies.
	if _, err := svc.VerifyEmail(ctx, notifier.verifications[0]); err != domain.ErrInvalidOrExpiredToken {
		t.Fatalf("expected old token to be dead, got %v", err)
	}
	if _, err := svc.VerifyEmail(ctx, notifier.verifications[1]); err != nil {
		t.Fatalf("expected latest token to verify, got %v", err)
	}

	if err := svc.ResendVerification(ctx, "fred@example.com"); err != domain.ErrAlreadyVerified {
		t.Fatalf("expected ErrAlreadyVerified, got %v", err)
	}
}

func TestAccountService_CurrentAccount_MissingSubject(t *testing.T) {
	svc := newAccountService(newStubAccountRepo(), &recordingNotifier{})

	if _, err := svc.CurrentAccount(context.Background(), "gone"); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAccountService_EnsureAdmin(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAccountService(repo, &recordingNotifier{})
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "admin", "admin@example.com", "adminpass1"); err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}

	admin, err := repo.FindByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("expected admin account: %v", err)
	}
	if !admin.IsAdmin || !admin.EmailVerified {
		t.Fatalf("expected a verified admin, got %+v", admin)
	}

	// Second call is a no-op, not a duplicate error.
	if err := svc.EnsureAdmin(ctx, "admin", "admin@example.com", "adminpass1"); err != nil {
		t.Fatalf("expected idempotent bootstrap, got %v", err)
	}
}
