package tenant

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinicore/internal/platform/apperr"
	"github.com/clinicore/clinicore/internal/platform/auth"
)

// HeaderOrganizationID carries the tenant that scopes every downstream
// operation. Tenant context is always taken from this header, never inferred
// from the token alone.
const HeaderOrganizationID = "X-Organization-Id"

type contextKey string

const tenantKey contextKey = "org_id"

// Middleware resolves the tenant identifier from the request header and
// threads it through the request context. A request without a valid header
// fails before any handler runs.
//
// When the verified token pins its own tenant and it differs from the header,
// the request is rejected unless the caller holds the admin scope: acting
// across organizations is an explicit privilege.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(HeaderOrganizationID)
			if raw == "" {
				return apperr.TenantMissing("missing %s header", HeaderOrganizationID)
			}

			orgID, err := uuid.Parse(raw)
			if err != nil {
				return apperr.TenantMissing("invalid %s header", HeaderOrganizationID)
			}

			p := auth.PrincipalFromContext(c.Request().Context())
			if p.TokenTenantID != "" && p.TokenTenantID != orgID.String() && !p.HasScope("admin") {
				return apperr.Authorization("token is not valid for organization %s", orgID)
			}

			ctx := context.WithValue(c.Request().Context(), tenantKey, orgID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// FromContext returns the tenant identifier resolved for this request.
// The zero UUID means the request never passed tenant resolution.
func FromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(tenantKey).(uuid.UUID)
	return id
}
