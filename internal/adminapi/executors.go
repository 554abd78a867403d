package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/talkincode/voltdesk/internal/executor"
	"github.com/talkincode/voltdesk/internal/webserver"
)

type executorRegisterPayload struct {
	UserID string `json:"user_id" validate:"required,min=1,max=64"`
	Name   string `json:"name" validate:"required,min=1,max=200"`
	Phone  string `json:"phone" validate:"omitempty,max=32"`
}

type executorFlagsPayload struct {
	HasCar          *bool `json:"has_car"`
	HasTools        *bool `json:"has_tools"`
	HasDiploma      *bool `json:"has_diploma"`
	CarVerified     *bool `json:"car_verified"`
	ToolsVerified   *bool `json:"tools_verified"`
	DiplomaVerified *bool `json:"diploma_verified"`
	IsActive        *bool `json:"is_active"`
}

func registerExecutorRoutes() {
	webserver.ApiGET("/executors", listExecutors)
	webserver.ApiGET("/executors/ranks", listExecutorRanks)
	webserver.ApiPOST("/executors", registerExecutor)
	webserver.ApiGET("/executors/:uid", getExecutor)
	webserver.ApiPUT("/executors/:uid/flags", updateExecutorFlags)
}

func listExecutors(c echo.Context) error {
	activeOnly := cast.ToBool(c.QueryParam("active"))
	items, err := GetApp(c).ExecutorService().List(c.Request().Context(), activeOnly)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query executors", err.Error())
	}
	return ok(c, items)
}

func listExecutorRanks(c echo.Context) error {
	return ok(c, executor.Ranks())
}

func registerExecutor(c echo.Context) error {
	var payload executorRegisterPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse executor parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	p, err := GetApp(c).ExecutorService().Register(c.Request().Context(), payload.UserID, payload.Name, payload.Phone)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to register executor", err.Error())
	}
	return ok(c, p)
}

func getExecutor(c echo.Context) error {
	p, err := GetApp(c).ExecutorService().Get(c.Request().Context(), c.Param("uid"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "EXECUTOR_NOT_FOUND", "Executor not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query executor", err.Error())
	}
	return ok(c, p)
}

func updateExecutorFlags(c echo.Context) error {
	p, err := GetApp(c).ExecutorService().Get(c.Request().Context(), c.Param("uid"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "EXECUTOR_NOT_FOUND", "Executor not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query executor", err.Error())
	}

	var payload executorFlagsPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse executor parameters", nil)
	}

	if payload.HasCar != nil {
		p.HasCar = *payload.HasCar
	}
	if payload.HasTools != nil {
		p.HasTools = *payload.HasTools
	}
	if payload.HasDiploma != nil {
		p.HasDiploma = *payload.HasDiploma
	}
	if payload.CarVerified != nil {
		p.CarVerified = *payload.CarVerified
	}
	if payload.ToolsVerified != nil {
		p.ToolsVerified = *payload.ToolsVerified
	}
	if payload.DiplomaVerified != nil {
		p.DiplomaVerified = *payload.DiplomaVerified
	}
	if payload.IsActive != nil {
		p.IsActive = *payload.IsActive
	}

	if err := GetApp(c).ExecutorService().UpdateFlags(c.Request().Context(), p); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update executor", err.Error())
	}
	return ok(c, p)
}
