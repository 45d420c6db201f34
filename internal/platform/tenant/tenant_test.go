package tenant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinicore/internal/platform/apperr"
	"github.com/clinicore/clinicore/internal/platform/auth"
)

func serve(t *testing.T, p auth.Principal, header string) (error, uuid.UUID) {
	t.Helper()
	e := echo.New()
	var resolved uuid.UUID
	var handlerErr error

	inject := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := auth.WithPrincipal(c.Request().Context(), p)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
	e.GET("/probe", func(c echo.Context) error {
		resolved = FromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}, inject, Middleware())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		handlerErr = err
		_ = c.NoContent(http.StatusTeapot)
	}

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if header != "" {
		req.Header.Set(HeaderOrganizationID, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return handlerErr, resolved
}

func TestMiddlewareResolvesTenant(t *testing.T) {
	orgID := uuid.New()
	err, resolved := serve(t, auth.Principal{Subject: "u"}, orgID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != orgID {
		t.Errorf("resolved = %s, want %s", resolved, orgID)
	}
}

func TestMiddlewareMissingHeader(t *testing.T) {
	err, _ := serve(t, auth.Principal{Subject: "u"}, "")
	if !apperr.IsKind(err, apperr.KindTenantMissing) {
		t.Fatalf("expected tenant-missing error, got %v", err)
	}
}

func TestMiddlewareInvalidHeader(t *testing.T) {
	err, _ := serve(t, auth.Principal{Subject: "u"}, "not-a-uuid")
	if !apperr.IsKind(err, apperr.KindTenantMissing) {
		t.Fatalf("expected tenant-missing error, got %v", err)
	}
}

func TestMiddlewareTokenTenantMismatch(t *testing.T) {
	headerOrg := uuid.New()
	p := auth.Principal{Subject: "u", TokenTenantID: uuid.NewString()}
	err, _ := serve(t, p, headerOrg.String())
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestMiddlewareAdminMayCrossTenants(t *testing.T) {
	headerOrg := uuid.New()
	p := auth.Principal{Subject: "u", TokenTenantID: uuid.NewString(), Scopes: []string{"admin"}}
	err, resolved := serve(t, p, headerOrg.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != headerOrg {
		t.Errorf("resolved = %s, want %s", resolved, headerOrg)
	}
}

func TestMiddlewareMatchingTokenTenant(t *testing.T) {
	headerOrg := uuid.New()
	p := auth.Principal{Subject: "u", TokenTenantID: headerOrg.String()}
	err, resolved := serve(t, p, headerOrg.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != headerOrg {
		t.Errorf("resolved = %s", resolved)
	}
}

func TestFromContextZeroWithoutResolution(t *testing.T) {
	if got := FromContext(context.Background()); got != uuid.Nil {
		t.Errorf("expected zero uuid, got %s", got)
	}
}
