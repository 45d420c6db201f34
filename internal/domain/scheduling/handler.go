package scheduling

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
	read := api.Group("", auth.RequireScope(h.logger, "appointments:read", "admin"))
	read.GET("/appointments", h.List)
	read.GET("/appointments/:id", h.Get)

	write := api.Group("", auth.RequireScope(h.logger, "appointments:write", "admin"))
	write.POST("/appointments", h.Create)
	write.PATCH("/appointments/:id", h.Update)
	write.DELETE("/appointments/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return apperr.Validation("invalid request body")
	}
	actor := auth.PrincipalFromContext(ctx).Subject
	if err := h.svc.Create(ctx, tenant.FromContext(ctx), actor, &a); err != nil {
		return err
	}
	return httpx.Created(c, a)
}

func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid appointment id")
	}
	a, err := h.svc.Get(ctx, tenant.FromContext(ctx), id)
	if err != nil {
		return err
	}
	return httpx.OK(c, a)
}

func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	pg := pagination.FromContext(c)

	var filter ListFilter
	filter.Status = c.QueryParam("status")
	if raw := c.QueryParam("patient_id"); raw != "" {
		patientID, err := uuid.Parse(raw)
		if err != nil {
			return apperr.Validation("invalid patient_id filter")
		}
		filter.PatientID = patientID
	}

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
		return apperr.Validation("invalid appointment id")
	}
	var patch Patch
	if err := c.Bind(&patch); err != nil {
		return apperr.Validation("invalid request body")
	}
	actor := auth.PrincipalFromContext(ctx).Subject
	a, err := h.svc.Update(ctx, tenant.FromContext(ctx), id, actor, patch)
	if err != nil {
		return err
	}
	return httpx.OK(c, a)
}

func (h *Handler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid appointment id")
	}
	actor := auth.PrincipalFromContext(ctx).Subject
	if err := h.svc.Delete(ctx, tenant.FromContext(ctx), id, actor); err != nil {
		return err
	}
	return httpx.NoContent(c)
}
