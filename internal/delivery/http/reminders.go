package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-maintenance/internal/dto"
)

func (h *HttpAPIHandler) SetupReminders(base *echo.Group) {
	v1 := base.Group("/v1/reminders")
	{
		v1.POST("/run", h.runReminders)
	}
}

// runReminders triggers a reminder pass outside the cron cadence.
func (h *HttpAPIHandler) runReminders(c echo.Context) error {
	response := dto.NewBaseResponse(http.StatusOK, "Reminder pass finished", nil)
	if err := h.service.ReminderService.Execute(c.Request().Context()); err != nil {
		response.Code = http.StatusInternalServerError
		response.Message = err.Error()
	}
	return c.JSON(response.Code, response)
}
