package jwtmiddleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bazarghat/backend/internal/auth"
)

const bearerPrefix = "Bearer "

type Middleware struct {
	Auth *auth.Service
}

func New(a *auth.Service) *Middleware {
	return &Middleware{Auth: a}
}

// RequireAuth gates every authorization-sensitive route. Missing, malformed
// and stale tokens all surface as the same 401.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		user, err := m.Auth.ResolveUser(c.Request().Context(), strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
		}

		c.Set("user", user)
		return next(c)
	}
}
