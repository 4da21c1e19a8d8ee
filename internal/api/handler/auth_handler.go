package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/api/metrics"
	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// AuthHandler handles the account lifecycle routes.
type AuthHandler struct {
	accounts ports.AccountService
}

func NewAuthHandler(accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register creates a new unverified account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "validation failed", Errors: []string{err.Error()}})
	}

	account, err := h.accounts.Register(c.Request().Context(), req.Handle, req.Email, req.Password)
	if err != nil {
		return h.authError(c, err)
	}

	metrics.RegistrationsTotal.Inc()
	// email_sent is reported true unconditionally: delivery is asynchronous
	// and registration never fails on it.
	return c.JSON(http.StatusCreated, envelope{
		Success: true,
		Message: "account created, check your inbox to verify your email",
		Data:    registerResponse{Account: toProfile(account), EmailSent: true},
	})
}

// Login authenticates and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  envelope
// @Failure      401   {object}  envelope
// @Failure      403   {object}  envelope
// @Failure      423   {object}  envelope
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "validation failed", Errors: []string{err.Error()}})
	}

	session, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		case errors.Is(err, domain.ErrEmailNotVerified):
			metrics.LoginsTotal.WithLabelValues("unverified").Inc()
		case errors.Is(err, domain.ErrAccountLocked):
			metrics.LoginsTotal.WithLabelValues("locked").Inc()
		}
		return h.authError(c, err)
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "logged in",
		Data:    sessionResponse{Token: session.Token, Account: toProfile(session.Account)},
	})
}

// VerifyEmail consumes a verification token and returns a session.
//
// @Summary      Verify email address
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyEmailRequest  true  "One-time token"
// @Success      200   {object}  envelope
// @Failure      401   {object}  envelope
// @Router       /api/auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "validation failed", Errors: []string{err.Error()}})
	}

	session, err := h.accounts.VerifyEmail(c.Request().Context(), req.Token)
	if err != nil {
		return h.authError(c, err)
	}

	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "email verified",
		Data:    sessionResponse{Token: session.Token, Account: toProfile(session.Account)},
	})
}

// ResendVerification rotates and resends the verification token.
//
// @Summary      Resend the verification mail
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  envelope
// @Failure      404   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /api/auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "validation failed", Errors: []string{err.Error()}})
	}

	if err := h.accounts.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return h.authError(c, err)
	}

	return c.JSON(http.StatusOK, envelope{Success: true, Message: "verification mail sent"})
}

// ForgotPassword issues a reset token. The response is identical whether or
// not the email exists.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  envelope
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "validation failed", Errors: []string{err.Error()}})
	}

	if err := h.accounts.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return h.authError(c, err)
	}

	return c.JSON(http.StatusOK, envelope{Success: true, Message: "if that email exists, a reset link is on its way"})
}

// ResetPassword consumes a reset token and stores the new password.
//
// @Summary      Reset password with a one-time token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Token and new password"
// @Success      200   {object}  envelope
// @Failure      401   {object}  envelope
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "validation failed", Errors: []string{err.Error()}})
	}

	if err := h.accounts.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return h.authError(c, err)
	}

	return c.JSON(http.StatusOK, envelope{Success: true, Message: "password reset"})
}

// ChangePassword rehashes the password for the logged-in account.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  envelope
// @Failure      401   {object}  envelope
// @Router       /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "validation failed", Errors: []string{err.Error()}})
	}

	accountID, _ := c.Get("account_id").(string)
	if err := h.accounts.ChangePassword(c.Request().Context(), accountID, req.Current, req.Password); err != nil {
		return h.authError(c, err)
	}

	return c.JSON(http.StatusOK, envelope{Success: true, Message: "password changed"})
}

// Me returns the profile of the logged-in account.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      401  {object}  envelope
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	accountID, _ := c.Get("account_id").(string)
	account, err := h.accounts.CurrentAccount(c.Request().Context(), accountID)
	if err != nil {
		return h.authError(c, err)
	}

	return c.JSON(http.StatusOK, envelope{Success: true, Message: "ok", Data: toProfile(account)})
}

// UpdateProfile patches bio/avatar for the logged-in account.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  envelope
// @Failure      401   {object}  envelope
// @Router       /api/auth/profile [patch]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	accountID, _ := c.Get("account_id").(string)
	account, err := h.accounts.UpdateProfile(c.Request().Context(), accountID, ports.ProfilePatch{
		Bio:    req.Bio,
		Avatar: req.Avatar,
	})
	if err != nil {
		return h.authError(c, err)
	}

	return c.JSON(http.StatusOK, envelope{Success: true, Message: "profile updated", Data: toProfile(account)})
}

// authError renders domain errors in the auth envelope instead of delegating
// to the central handler, keeping the envelope shape consistent on this
// route group.
func (h *AuthHandler) authError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, domain.ErrValidation):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrAccountExists):
		status, msg = http.StatusConflict, "handle or email already taken"
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrInvalidToken):
		status, msg = http.StatusUnauthorized, "invalid token"
	case errors.Is(err, domain.ErrInvalidOrExpiredToken):
		status, msg = http.StatusUnauthorized, "invalid or expired token"
	case errors.Is(err, domain.ErrEmailNotVerified):
		status, msg = http.StatusForbidden, "email not verified"
	case errors.Is(err, domain.ErrAlreadyVerified):
		status, msg = http.StatusConflict, "email already verified"
	case errors.Is(err, domain.ErrAccountLocked):
		status, msg = http.StatusLocked, "account temporarily locked, try again later"
	case errors.Is(err, domain.ErrAccountNotFound):
		status, msg = http.StatusNotFound, "account not found"
	case errors.Is(err, domain.ErrForbidden):
		status, msg = http.StatusForbidden, "access forbidden"
	}

	return c.JSON(status, envelope{Success: false, Message: msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: msg})
}

func toProfile(a *domain.Account) profileResponse {
	return profileResponse{
		ID:            a.ID,
		Handle:        a.Handle,
		Email:         a.Email,
		Bio:           a.Bio,
		Avatar:        a.Avatar,
		IsAdmin:       a.IsAdmin,
		EmailVerified: a.EmailVerified,
		LastLoginAt:   a.LastLoginAt,
		CreatedAt:     a.CreatedAt,
	}
}
