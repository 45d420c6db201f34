package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicore/clinicore/internal/platform/apperr"
)

// RequireScope returns middleware that passes when the caller holds at least
// one of the required permission strings. The policy is a logical OR over the
// route's set, never an AND: a route listing "patients:write" and "admin"
// accepts either.
func RequireScope(logger zerolog.Logger, required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := PrincipalFromContext(c.Request().Context())

			for _, want := range required {
				if p.HasScope(want) {
					return next(c)
				}
			}

			logger.Warn().
				Str("subject", p.Subject).
				Strs("granted", p.Scopes).
				Strs("required", required).
				Str("path", c.Request().URL.Path).
				Msg("scope check failed")

			return apperr.Authorization("required scope: %s", strings.Join(required, " or "))
		}
	}
}
