package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/core/ports"
)

// Auth validates the bearer session token, resolves the subject to a live
// account, and injects identity into the echo context:
//
//	account_id  string
//	handle      string
//	is_admin    bool
//
// A token whose subject no longer exists is rejected exactly like a forged
// one.
func Auth(tokens ports.TokenManager, accounts ports.AccountRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}
			if err := resolve(c, token, tokens, accounts); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// OptionalAuth resolves identity when a bearer token is present and valid,
// and lets the request through anonymously otherwise. Handlers that serve
// both public and owner views (post visibility) use this.
func OptionalAuth(tokens ports.TokenManager, accounts ports.AccountRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err == nil {
				_ = resolve(c, token, tokens, accounts)
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}

func resolve(c echo.Context, token string, tokens ports.TokenManager, accounts ports.AccountRepository) error {
	claims, err := tokens.VerifySession(token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	account, err := accounts.FindByID(c.Request().Context(), claims.AccountID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	c.Set("account_id", account.ID)
	c.Set("handle", account.Handle)
	c.Set("is_admin", account.IsAdmin)
	return nil
}
