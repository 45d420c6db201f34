package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicore/clinicore/internal/platform/apperr"
)

// Middleware returns echo middleware that authenticates every request
// through the Verifier and threads the caller identity into the request
// context as an immutable Principal. Failures are logged and surface as
// authentication errors at the boundary.
func Middleware(v *Verifier, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return apperr.Authentication("missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return apperr.Authentication("invalid authorization format")
			}

			claims, err := v.Verify(parts[1])
			if err != nil {
				logger.Warn().Err(err).
					Str("path", c.Request().URL.Path).
					Str("remote_ip", c.RealIP()).
					Msg("token verification failed")
				return err
			}

			p := Principal{
				Subject:       claims.Subject,
				SessionID:     claims.SessionID,
				TokenTenantID: claims.TenantID,
				Scopes:        claims.Scopes,
			}
			c.SetRequest(c.Request().WithContext(WithPrincipal(c.Request().Context(), p)))

			return next(c)
		}
	}
}

// DevMiddleware is a permissive middleware for development that injects a
// fixed full-access principal when no credential is presented.
func DevMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := Principal{
				Subject:   "dev-user",
				SessionID: "dev-session",
				Scopes: []string{
					"admin",
					"organizations:read", "organizations:write",
					"branches:read", "branches:write",
					"patients:read", "patients:write",
					"staff:read", "staff:write",
					"appointments:read", "appointments:write",
					"prescriptions:read", "prescriptions:write",
				},
			}
			c.SetRequest(c.Request().WithContext(WithPrincipal(c.Request().Context(), p)))
			return next(c)
		}
	}
}
