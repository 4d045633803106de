package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"storefront/internal/auth"
	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// currentUserKey is the echo context key holding the resolved *model.User.
const currentUserKey = "currentUser"

// JWT returns bearer-token middleware: missing, malformed, expired, or
// tampered tokens are rejected with 401.
func JWT(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(secret),
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "missing or invalid token",
				Code:  "UNAUTHENTICATED",
			})
		},
	})
}

// LoadUser resolves verified token claims to a stored user and puts it in
// the request context. A token whose identity no longer resolves is
// rejected.
func LoadUser(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "missing or invalid token",
					Code:  "UNAUTHENTICATED",
				})
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "missing or invalid token",
					Code:  "UNAUTHENTICATED",
				})
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "unknown user",
					Code:  "UNAUTHENTICATED",
				})
			}

			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// RequireAdmin rejects requests whose resolved identity is not an admin.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "missing or invalid token",
				Code:  "UNAUTHENTICATED",
			})
		}
		if !user.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
				Error: "admin role required",
				Code:  "FORBIDDEN",
			})
		}
		return next(c)
	}
}

// CurrentUser returns the authenticated user stored by LoadUser, or nil.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(currentUserKey).(*model.User)
	return user
}
