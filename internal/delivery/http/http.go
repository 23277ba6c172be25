package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"golang-maintenance/internal/dto"
	"golang-maintenance/internal/service"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api")
	h.SetupTemplates(base)
	h.SetupExecutions(base)
	h.SetupDashboard(base)
	h.SetupReminders(base)
}

// pathID parses the :id path segment.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// actorID reads the optional X-User-ID header identifying who performed the
// action. Authentication lives at the gateway; this service only records
// attribution.
func actorID(c echo.Context) *uint {
	raw := c.Request().Header.Get("X-User-ID")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return nil
	}
	parsed := uint(id)
	return &parsed
}

func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound), errors.Is(err, service.ErrExecutionNotFound):
		return c.JSON(http.StatusNotFound, dto.NewNotFoundResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidScheduleParameters),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrNoHistory):
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
}
