package patient

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

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireScope(h.logger, "patients:read", "admin"))
	read.GET("/patients", h.List)
	read.GET("/patients/:id", h.Get)

	write := api.Group("", auth.RequireScope(h.logger, "patients:write", "admin"))
	write.POST("/patients", h.Create)
	write.PATCH("/patients/:id", h.Update)
	write.DELETE("/patients/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	var p Patient
	if err := c.Bind(&p); err != nil {
		return apperr.Validation("invalid request body")
	}
	orgID := tenant.FromContext(ctx)
	actor := auth.PrincipalFromContext(ctx).Subject
	if err := h.svc.Create(ctx, orgID, actor, &p); err != nil {
		return err
	}
	return httpx.Created(c, p)
}

func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid patient id")
	}
	p, err := h.svc.Get(ctx, tenant.FromContext(ctx), id)
	if err != nil {
		return err
	}
	return httpx.OK(c, p)
}

func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	pg := pagination.FromContext(c)
	filter := ListFilter{Status: c.QueryParam("status")}
	items, total, err := h.svc.List(ctx, tenant.FromContext(ctx), filter, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return httpx.OK(c, pagination.NewPage(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid patient id")
	}
	var patch Patch
	if err := c.Bind(&patch); err != nil {
		return apperr.Validation("invalid request body")
	}
	actor := auth.PrincipalFromContext(ctx).Subject
	p, err := h.svc.Update(ctx, tenant.FromContext(ctx), id, actor, patch)
	if err != nil {
		return err
	}
	return httpx.OK(c, p)
}

func (h *Handler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid patient id")
	}
	actor := auth.PrincipalFromContext(ctx).Subject
	if err := h.svc.Delete(ctx, tenant.FromContext(ctx), id, actor); err != nil {
		return err
	}
	return httpx.NoContent(c)
}
