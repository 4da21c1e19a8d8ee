package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

const oneTimeTokenBytes = 32 // 256 bits of entropy

// TokenService implements ports.TokenManager: bcrypt password hashing, HS256
// session tokens, and random single-use tokens.
type TokenService struct {
	jwtSecret   []byte
	sessionTTL  time.Duration
	rememberTTL time.Duration
	bcryptCost  int
}

func NewTokenService(jwtSecret string, sessionTTL, rememberTTL time.Duration, bcryptCost int) *TokenService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	if rememberTTL <= 0 {
		rememberTTL = 30 * 24 * time.Hour
	}
	if bcryptCost < 12 {
		bcryptCost = 12
	}
	return &TokenService{
		jwtSecret:   []byte(jwtSecret),
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
		bcryptCost:  bcryptCost,
	}
}

// HashSecret hashes a plaintext password with bcrypt at the configured cost.
func (s *TokenService) HashSecret(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

// VerifySecret reports whether plaintext matches the stored bcrypt hash.
func (s *TokenService) VerifySecret(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// IssueSession signs a session token embedding the subject id and handle.
func (s *TokenService) IssueSession(accountID, handle string, remember bool) (string, error) {
	ttl := s.sessionTTL
	if remember {
		ttl = s.rememberTTL
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    accountID,
		"handle": handle,
		"iat":    now.Unix(),
		"exp":    now.Add(ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}

// VerifySession validates signature and expiry and returns the embedded
// claims. Every failure mode collapses into domain.ErrInvalidToken.
func (s *TokenService) VerifySession(token string) (*ports.SessionClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	handle, _ := claims["handle"].(string)
	if sub == "" {
		return nil, domain.ErrInvalidToken
	}
	return &ports.SessionClaims{AccountID: sub, Handle: handle}, nil
}

// IssueOneTimeToken returns a hex-encoded 256-bit random token expiring ttl
// from now.
func (s *TokenService) IssueOneTimeToken(ttl time.Duration) (string, time.Time, error) {
	b := make([]byte, oneTimeTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", time.Time{}, fmt.Errorf("one-time token: %w", err)
	}
	return hex.EncodeToString(b), time.Now().UTC().Add(ttl), nil
}
