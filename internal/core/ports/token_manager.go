package ports

import "time"

// SessionClaims is the decoded content of a verified session token.
type SessionClaims struct {
	AccountID string
	Handle    string
}

// TokenManager owns password hashing and every kind of token the system
// issues: stateless signed sessions and random single-use tokens.
type TokenManager interface {
	HashSecret(plaintext string) (string, error)
	VerifySecret(plaintext, hash string) bool

	// IssueSession signs a session token for the account. remember selects
	// the long TTL tier.
	IssueSession(accountID, handle string, remember bool) (string, error)
	// VerifySession returns the claims embedded in a valid token and
	// domain.ErrInvalidToken on signature mismatch, malformed input, or expiry.
	VerifySession(token string) (*SessionClaims, error)

	// IssueOneTimeToken returns a cryptographically random token and its
	// expiry, ttl from now.
	IssueOneTimeToken(ttl time.Duration) (token string, expiresAt time.Time, err error)
}
