package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tradebridge/marketplace-backend/internal/model"
	"github.com/tradebridge/marketplace-backend/internal/service"
	"github.com/tradebridge/marketplace-backend/internal/token"
)

// AccessTokenCookie is the cookie the browser sends with every request.
const AccessTokenCookie = "access_token"

const principalKey = "principal"

type AuthMiddleware struct {
	secret string
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

// RequireAuth resolves the principal from the access-token cookie once and
// stores it on the request context.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(AccessTokenCookie)
		if err != nil || cookie.Value == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}
		claims, err := token.Validate(cookie.Value, m.secret)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired session"})
		}
		c.Set(principalKey, service.Principal{UserID: claims.UserID, Role: claims.Role})
		return next(c)
	}
}

// RequireRole gates a route to a single role; it must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := GetPrincipal(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			if p.Role != role {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient privileges"})
			}
			return next(c)
		}
	}
}

// GetPrincipal returns the authenticated caller stored by RequireAuth.
func GetPrincipal(c echo.Context) (service.Principal, bool) {
	p, ok := c.Get(principalKey).(service.Principal)
	return p, ok
}
