package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-maintenance/internal/dto"
	"golang-maintenance/pkg/utils"
)

func (h *HttpAPIHandler) SetupExecutions(base *echo.Group) {
	v1 := base.Group("/v1/executions")
	{
		v1.GET("", h.listExecutions)
		v1.GET("/due", h.listDueExecutions)
		v1.GET("/:id", h.getExecution)
		v1.POST("/:id/transition", h.transitionExecution)
		v1.POST("/:id/undo", h.undoExecution)
		v1.GET("/:id/history", h.executionHistory)
		v1.POST("/:id/assign", h.assignExecution)
	}
}

func (h *HttpAPIHandler) listExecutions(c echo.Context) error {
	query := new(dto.ListExecutionsQuery)
	if err := c.Bind(query); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid query parameters"))
	}
	if err := h.validator.Struct(query); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	executions, err := h.service.ExecutionService.List(c.Request().Context(), *query)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", dto.NewExecutionListResponse(executions, utils.TodayWIB())))
}

// listDueExecutions returns still-scheduled work due within the next N days
// (default 7), overdue items included.
func (h *HttpAPIHandler) listDueExecutions(c echo.Context) error {
	days := 7
	if raw := c.QueryParam("days"); raw != "" {
		if err := echo.QueryParamsBinder(c).Int("days", &days).BindError(); err != nil || days < 0 {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid days"))
		}
	}

	today := utils.TodayWIB()
	from := today.AddDate(0, 0, -365)
	to := today.AddDate(0, 0, days)

	executions, err := h.service.ExecutionService.Due(c.Request().Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", dto.NewExecutionListResponse(executions, today)))
}

func (h *HttpAPIHandler) getExecution(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	execution, err := h.service.ExecutionService.FindByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", dto.NewExecutionResponse(execution, utils.TodayWIB())))
}

func (h *HttpAPIHandler) transitionExecution(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	req := new(dto.TransitionRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	execution, err := h.service.ExecutionService.Transition(c.Request().Context(), id, *req, actorID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Status updated", dto.NewExecutionResponse(execution, utils.TodayWIB())))
}

func (h *HttpAPIHandler) undoExecution(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	execution, err := h.service.ExecutionService.UndoLast(c.Request().Context(), id, actorID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Last transition undone", dto.NewExecutionResponse(execution, utils.TodayWIB())))
}

func (h *HttpAPIHandler) executionHistory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	logs, err := h.service.ExecutionService.History(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", dto.NewStatusLogListResponse(logs)))
}

func (h *HttpAPIHandler) assignExecution(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	req := new(dto.AssignRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	execution, err := h.service.ExecutionService.Assign(c.Request().Context(), id, req.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Execution assigned", dto.NewExecutionResponse(execution, utils.TodayWIB())))
}
