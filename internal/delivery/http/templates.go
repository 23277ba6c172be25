package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"golang-maintenance/internal/dto"
	"golang-maintenance/internal/model"
)

func (h *HttpAPIHandler) SetupTemplates(base *echo.Group) {
	v1 := base.Group("/v1/templates")
	{
		v1.POST("", h.createTemplate)
		v1.GET("", h.listTemplates)
		v1.GET("/:id", h.getTemplate)
		v1.PUT("/:id", h.updateTemplate)
		v1.DELETE("/:id", h.softDeleteTemplate)
		v1.POST("/:id/restore", h.restoreTemplate)
		v1.DELETE("/:id/hard", h.hardDeleteTemplate)
		v1.POST("/:id/duplicate", h.duplicateTemplate)
		v1.POST("/:id/generate", h.generateExecutions)
		v1.POST("/:id/toggle-active", h.toggleTemplateActive)
	}
}

func (h *HttpAPIHandler) createTemplate(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.CreateTemplateRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	template, result, err := h.service.TemplateService.Create(ctx, *req, actorID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Template created", map[string]interface{}{
		"template":  dto.NewTemplateResponse(template),
		"reconcile": result,
	}))
}

func (h *HttpAPIHandler) listTemplates(c echo.Context) error {
	ctx := c.Request().Context()

	param := model.GetTemplateParam{
		IncludeDeleted: c.QueryParam("include_deleted") == "true",
	}
	if raw := c.QueryParam("is_active"); raw != "" {
		active := raw == "true"
		param.IsActive = &active
	}

	// pic_id scopes the listing to one PIC plus their whole subtree.
	var scopeToPIC *uint
	if raw := c.QueryParam("pic_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid pic_id"))
		}
		parsed := uint(id)
		scopeToPIC = &parsed
	}

	templates, err := h.service.TemplateService.List(ctx, param, scopeToPIC)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", dto.NewTemplateListResponse(templates)))
}

func (h *HttpAPIHandler) getTemplate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	template, err := h.service.TemplateService.FindByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", dto.NewTemplateResponse(template)))
}

func (h *HttpAPIHandler) updateTemplate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	req := new(dto.UpdateTemplateRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	template, result, err := h.service.TemplateService.Update(c.Request().Context(), id, *req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Template updated", map[string]interface{}{
		"template":  dto.NewTemplateResponse(template),
		"reconcile": result,
	}))
}

func (h *HttpAPIHandler) softDeleteTemplate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	if err := h.service.TemplateService.SoftDelete(c.Request().Context(), id, actorID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Template deleted", nil))
}

func (h *HttpAPIHandler) restoreTemplate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	if err := h.service.TemplateService.Restore(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Template restored", nil))
}

func (h *HttpAPIHandler) hardDeleteTemplate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	if err := h.service.TemplateService.HardDelete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Template permanently deleted", nil))
}

func (h *HttpAPIHandler) duplicateTemplate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	req := new(dto.DuplicateTemplateRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	clone, result, err := h.service.TemplateService.Duplicate(c.Request().Context(), id, *req, actorID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Template duplicated", map[string]interface{}{
		"template":  dto.NewTemplateResponse(clone),
		"reconcile": result,
	}))
}

func (h *HttpAPIHandler) generateExecutions(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	result, err := h.service.TemplateService.Generate(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Generation complete", result))
}

func (h *HttpAPIHandler) toggleTemplateActive(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	active, err := h.service.TemplateService.ToggleActive(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Template toggled", map[string]bool{"is_active": active}))
}
