package middleware

// account.go holds the identity helpers shared across middleware. The
// JWTAuth middleware stores the authenticated account address in the
// context; everything downstream reads it through these functions.

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAccount aborts the request with 401 when no authenticated
// account is present in the context. It exists so protected groups can
// be declared defensively even if JWTAuth is accidentally unregistered.
func RequireAccount() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if currentAccount(c) == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			return next(c)
		}
	}
}

// currentAccount returns the authenticated account address, or "" when
// the request is anonymous.
func currentAccount(c echo.Context) string {
	if v := c.Get("account"); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
