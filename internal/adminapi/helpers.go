// Package adminapi implements the HTTP handlers for the public storefront
// endpoints and the JWT-protected admin console.
package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/talkincode/voltdesk/internal/app"
	"github.com/talkincode/voltdesk/internal/webserver"
)

// Register wires every route onto the web server. Call after webserver.Init.
func Register() {
	registerAuthRoutes()
	registerCatalogRoutes()
	registerCartRoutes()
	registerPlannerRoutes()
	registerOrderRoutes()
	registerExecutorRoutes()
	registerNotificationRoutes()
	registerSettingsRoutes()
}

// GetApp extracts the application context from the request.
func GetApp(c echo.Context) app.AppContext {
	return webserver.AppCtx(c)
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return webserver.AppCtx(c).DB()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": 0,
		"data": data,
	})
}

func paged(c echo.Context, items interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": 0,
		"data": map[string]interface{}{
			"items":     items,
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	body := map[string]interface{}{
		"code":    1,
		"error":   code,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	return c.JSON(status, body)
}

func handleValidationError(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"Invalid request parameters", map[string]interface{}{"fields": fields})
	}
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request parameters", nil)
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
}

// sessionID resolves the cart session from the X-Session-ID header, falling
// back to the session query parameter.
func sessionID(c echo.Context) string {
	if sid := strings.TrimSpace(c.Request().Header.Get("X-Session-ID")); sid != "" {
		return sid
	}
	return strings.TrimSpace(c.QueryParam("session"))
}
