package domain

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP status
// codes in the central error handler; anything else is treated as internal.
var (
	ErrValidation            = errors.New("validation failed")
	ErrAccountExists         = errors.New("handle or email already taken")
	ErrAccountNotFound       = errors.New("account not found")
	ErrAccountLocked         = errors.New("account temporarily locked")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailNotVerified      = errors.New("email not verified")
	ErrAlreadyVerified       = errors.New("email already verified")
	ErrInvalidToken          = errors.New("invalid token")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrForbidden             = errors.New("access forbidden")

	ErrPostNotFound     = errors.New("post not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryInUse    = errors.New("category still has posts")
	ErrCommentNotFound  = errors.New("comment not found")
)
