package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

const (
	// MaxFailedLogins is the number of consecutive failed login attempts
	// after which an account is locked.
	MaxFailedLogins = 5

	// LockoutDuration is how long an account stays locked after too many
	// failed login attempts.
	LockoutDuration = 2 * time.Hour
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// Account models a registered identity. The password is stored only as a
// bcrypt hash and is never serialized to JSON.
type Account struct {
	ID           string `json:"id" bson:"_id,omitempty"`
	Handle       string `json:"handle" bson:"handle"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"-" bson:"password_hash"`
	Bio          string `json:"bio,omitempty" bson:"bio,omitempty"`
	Avatar       string `json:"avatar,omitempty" bson:"avatar,omitempty"`
	IsAdmin      bool   `json:"is_admin" bson:"is_admin"`
	IsActive     bool   `json:"is_active" bson:"is_active"`
	IsBanned     bool   `json:"-" bson:"is_banned"`
	BanReason    string `json:"-" bson:"ban_reason,omitempty"`

	EmailVerified     bool      `json:"email_verified" bson:"email_verified"`
	VerificationToken string    `json:"-" bson:"verification_token,omitempty"`
	VerificationExp   time.Time `json:"-" bson:"verification_exp,omitempty"`
	ResetToken        string    `json:"-" bson:"reset_token,omitempty"`
	ResetExp          time.Time `json:"-" bson:"reset_exp,omitempty"`

	FailedLogins      int       `json:"-" bson:"failed_logins"`
	LockedUntil       time.Time `json:"-" bson:"locked_until,omitempty"`
	PasswordChangedAt time.Time `json:"-" bson:"password_changed_at,omitempty"`
	LastLoginAt       time.Time `json:"last_login_at,omitempty" bson:"last_login_at,omitempty"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

// IsLocked reports whether the account is locked out at the given instant.
// An account is locked iff locked_until is set and still in the future.
func (a *Account) IsLocked(now time.Time) bool {
	return !a.LockedUntil.IsZero() && a.LockedUntil.After(now)
}

// HasLiveVerificationToken reports whether the verification token is present
// and unexpired. An expired token is treated as absent.
func (a *Account) HasLiveVerificationToken(now time.Time) bool {
	return a.VerificationToken != "" && a.VerificationExp.After(now)
}

// HasLiveResetToken reports whether the reset token is present and unexpired.
func (a *Account) HasLiveResetToken(now time.Time) bool {
	return a.ResetToken != "" && a.ResetExp.After(now)
}

// ClearVerificationToken consumes the verification token so the same value
// can never be replayed.
func (a *Account) ClearVerificationToken() {
	a.VerificationToken = ""
	a.VerificationExp = time.Time{}
}

// ClearResetToken consumes the password-reset token.
func (a *Account) ClearResetToken() {
	a.ResetToken = ""
	a.ResetExp = time.Time{}
}

// ValidHandle reports whether handle is 3–20 characters from [A-Za-z0-9_].
func ValidHandle(handle string) bool {
	return handlePattern.MatchString(handle)
}

// ValidPassword reports whether password is at least 6 characters and
// contains at least one letter and one digit.
func ValidPassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// NormalizeEmail lowercases and trims an email address so uniqueness checks
// and token lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
