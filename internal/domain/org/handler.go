package org

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicore/clinicore/internal/platform/apperr"
	"github.com/clinicore/clinicore/internal/platform/auth"
	"github.com/clinicore/clinicore/internal/platform/httpx"
	"github.com/clinicore/clinicore/internal/platform/tenant"
	"github.com/clinicore/clinicore/pkg/pagination"
)

// Handler serves both organization and branch routes.
type Handler struct {
	orgs     *OrganizationService
	branches *BranchService
	logger   zerolog.Logger
}

func NewHandler(orgs *OrganizationService, branches *BranchService, logger zerolog.Logger) *Handler {
	return &Handler{orgs: orgs, branches: branches, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	orgRead := api.Group("", auth.RequireScope(h.logger, "organizations:read", "admin"))
	orgRead.GET("/organizations", h.ListOrganizations)
	orgRead.GET("/organizations/:id", h.GetOrganization)

	orgWrite := api.Group("", auth.RequireScope(h.logger, "organizations:write", "admin"))
	orgWrite.POST("/organizations", h.CreateOrganization)
	orgWrite.PATCH("/organizations/:id", h.UpdateOrganization)
	orgWrite.DELETE("/organizations/:id", h.DeleteOrganization)

	brRead := api.Group("", auth.RequireScope(h.logger, "branches:read", "admin"))
	brRead.GET("/branches", h.ListBranches)
	brRead.GET("/branches/:id", h.GetBranch)

	brWrite := api.Group("", auth.RequireScope(h.logger, "branches:write", "admin"))
	brWrite.POST("/branches", h.CreateBranch)
	brWrite.PATCH("/branches/:id", h.UpdateBranch)
	brWrite.DELETE("/branches/:id", h.DeleteBranch)
}

func (h *Handler) CreateOrganization(c echo.Context) error {
	ctx := c.Request().Context()
	var o Organization
	if err := c.Bind(&o); err != nil {
		return apperr.Validation("invalid request body")
	}
	actor := auth.PrincipalFromContext(ctx).Subject
	if err := h.orgs.Create(ctx, tenant.FromContext(ctx), actor, &o); err != nil {
		return err
	}
	return httpx.Created(c, o)
}

func (h *Handler) GetOrganization(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid organization id")
	}
	o, err := h.orgs.Get(ctx, tenant.FromContext(ctx), id)
	if err != nil {
		return err
	}
	return httpx.OK(c, o)
}

func (h *Handler) ListOrganizations(c echo.Context) error {
	ctx := c.Request().Context()
	pg := pagination.FromContext(c)
	items, total, err := h.orgs.List(ctx, tenant.FromContext(ctx), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return httpx.OK(c, pagination.NewPage(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateOrganization(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid organization id")
	}
	var patch OrganizationPatch
	if err := c.Bind(&patch); err != nil {
		return apperr.Validation("invalid request body")
	}
	actor := auth.PrincipalFromContext(ctx).Subject
	o, err := h.orgs.Update(ctx, tenant.FromContext(ctx), id, actor, patch)
	if err != nil {
		return err
	}
	return httpx.OK(c, o)
}

func (h *Handler) DeleteOrganization(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid organization id")
	}
	actor := auth.PrincipalFromContext(ctx).Subject
	if err := h.orgs.Delete(ctx, tenant.FromContext(ctx), id, actor); err != nil {
		return err
	}
	return httpx.NoContent(c)
}

func (h *Handler) CreateBranch(c echo.Context) error {
	ctx := c.Request().Context()
	var b Branch
	if err := c.Bind(&b); err != nil {
		return apperr.Validation("invalid request body")
	}
	actor := auth.PrincipalFromContext(ctx).Subject
	if err := h.branches.Create(ctx, tenant.FromContext(ctx), actor, &b); err != nil {
		return err
	}
	return httpx.Created(c, b)
}

func (h *Handler) GetBranch(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid branch id")
	}
	b, err := h.branches.Get(ctx, tenant.FromContext(ctx), id)
	if err != nil {
		return err
	}
	return httpx.OK(c, b)
}

func (h *Handler) ListBranches(c echo.Context) error {
	ctx := c.Request().Context()
	pg := pagination.FromContext(c)
	items, total, err := h.branches.List(ctx, tenant.FromContext(ctx), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return httpx.OK(c, pagination.NewPage(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateBranch(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid branch id")
	}
	var patch BranchPatch
	if err := c.Bind(&patch); err != nil {
		return apperr.Validation("invalid request body")
	}
	actor := auth.PrincipalFromContext(ctx).Subject
	b, err := h.branches.Update(ctx, tenant.FromContext(ctx), id, actor, patch)
	if err != nil {
		return err
	}
	return httpx.OK(c, b)
}

func (h *Handler) DeleteBranch(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid branch id")
	}
	actor := auth.PrincipalFromContext(ctx).Subject
	if err := h.branches.Delete(ctx, tenant.FromContext(ctx), id, actor); err != nil {
		return err
	}
	return httpx.NoContent(c)
}
