package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-maintenance/internal/dto"
)

func (h *HttpAPIHandler) SetupDashboard(base *echo.Group) {
	v1 := base.Group("/v1/dashboard")
	{
		v1.GET("/summary", h.dashboardSummary)
		v1.GET("/compliance", h.dashboardCompliance)
	}
}

func (h *HttpAPIHandler) dashboardSummary(c echo.Context) error {
	summary, err := h.service.DashboardService.Summary(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", summary))
}

func (h *HttpAPIHandler) dashboardCompliance(c echo.Context) error {
	rows, err := h.service.DashboardService.Compliance(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", rows))
}
