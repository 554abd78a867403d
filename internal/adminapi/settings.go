package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/voltdesk/internal/domain"
	"github.com/talkincode/voltdesk/internal/webserver"
	"github.com/talkincode/voltdesk/pkg/metrics"
)

func registerSettingsRoutes() {
	webserver.ApiGET("/settings", listSettings)
	webserver.ApiPUT("/settings", saveSettings)
	webserver.ApiGET("/metrics/:name", queryMetric)
}

func listSettings(c echo.Context) error {
	var items []domain.SysConfig
	if err := GetDB(c).Order("sort ASC").Find(&items).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, items)
}

func saveSettings(c echo.Context) error {
	var payload map[string]interface{}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", nil)
	}
	if len(payload) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "No settings provided", nil)
	}
	if err := GetApp(c).SaveSettings(payload); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save settings", err.Error())
	}
	return ok(c, map[string]interface{}{"saved": len(payload)})
}

// queryMetric returns the last 24h of one gauge series for dashboards.
func queryMetric(c echo.Context) error {
	end := time.Now().Unix()
	start := end - 86400
	points, err := metrics.Range(c.Param("name"), start, end)
	if err != nil {
		return fail(c, http.StatusNotFound, "METRIC_NOT_FOUND", "No data for metric", err.Error())
	}
	return ok(c, points)
}
