package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/voltdesk/internal/webserver"
)

func registerNotificationRoutes() {
	webserver.ApiGET("/notifications", listNotifications)
	webserver.ApiGET("/notifications/unread-count", notificationUnreadCount)
	webserver.ApiPUT("/notifications/:id/read", markNotificationRead)
	webserver.ApiPUT("/notifications/read-all", markAllNotificationsRead)
}

func listNotifications(c echo.Context) error {
	list, err := GetApp(c).NotifyService().List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to load notifications", err.Error())
	}
	return ok(c, list)
}

func notificationUnreadCount(c echo.Context) error {
	count, err := GetApp(c).NotifyService().UnreadCount(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to load notifications", err.Error())
	}
	return ok(c, map[string]interface{}{"unread": count})
}

func markNotificationRead(c echo.Context) error {
	if err := GetApp(c).NotifyService().MarkRead(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to update notification", err.Error())
	}
	return ok(c, map[string]interface{}{"id": c.Param("id")})
}

func markAllNotificationsRead(c echo.Context) error {
	if err := GetApp(c).NotifyService().MarkAllRead(c.Request().Context()); err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to update notifications", err.Error())
	}
	return ok(c, map[string]interface{}{"read": true})
}
