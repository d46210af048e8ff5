package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"errors"
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"moviecatalog/internal/repository"
	"moviecatalog/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the authenticated user id and email into the request
// context. The subject claim is re-resolved against the users table on
// every request: a token whose account has meanwhile disappeared is
// rejected with 401, the same status as any other bad credential, so the
// response never leaks whether the account used to exist.
func JWTAuth(secret string, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			u, err := users.GetByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "auth lookup failed"})
			}

			// Handlers read these via c.Get().
			c.Set("user_id", u.ID)
			c.Set("email", u.Email)
			return next(c)
		}
	}
}
