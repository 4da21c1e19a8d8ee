package handler

import "time"

// envelope is the response convention for all auth routes:
// {success, message, data?, errors?}. Content routes intentionally return
// bare resources instead; the asymmetry is part of the documented API.
type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

type registerRequest struct {
	Handle   string `json:"handle"   validate:"required,min=3,max=20"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

type verifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"        validate:"required"`
	Password string `json:"new_password" validate:"required,min=6"`
}

type changePasswordRequest struct {
	Current  string `json:"current_password" validate:"required"`
	Password string `json:"new_password"     validate:"required,min=6"`
}

type updateProfileRequest struct {
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}

// profileResponse is the public view of an account. The password hash and
// token fields are never part of it.
type profileResponse struct {
	ID            string    `json:"id"`
	Handle        string    `json:"handle"`
	Email         string    `json:"email"`
	Bio           string    `json:"bio,omitempty"`
	Avatar        string    `json:"avatar,omitempty"`
	IsAdmin       bool      `json:"is_admin"`
	EmailVerified bool      `json:"email_verified"`
	LastLoginAt   time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type sessionResponse struct {
	Token   string          `json:"token"`
	Account profileResponse `json:"account"`
}

type registerResponse struct {
	Account   profileResponse `json:"account"`
	EmailSent bool            `json:"email_sent"`
}
