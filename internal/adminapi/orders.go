package adminapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/talkincode/voltdesk/internal/order"
	"github.com/talkincode/voltdesk/internal/webserver"
)

type checkoutPayload struct {
	Name    string `json:"name" validate:"omitempty,max=200"`
	Phone   string `json:"phone" validate:"required,min=5,max=32"`
	Email   string `json:"email" validate:"omitempty,email"`
	Date    string `json:"date" validate:"omitempty,max=32"`
	Time    string `json:"time" validate:"omitempty,max=32"`
	Address string `json:"address" validate:"required,min=3,max=500"`
	Notes   string `json:"notes" validate:"omitempty,max=2000"`
}

type statusPayload struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed on-the-way arrived in-progress completed cancelled"`
}

type assignPayload struct {
	ExecutorID   string `json:"executor_id"`
	ExecutorName string `json:"executor_name" validate:"omitempty,max=200"`
}

type paymentPayload struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Method      string  `json:"method" validate:"required,oneof=cash card transfer"`
	Description string  `json:"description" validate:"omitempty,max=500"`
}

type paymentStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=unpaid partially_paid paid refunded"`
}

func registerOrderRoutes() {
	webserver.PubPOST("/checkout", checkout)
	webserver.PubGET("/orders/:uid/status", orderStatusByUID)

	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/stats", orderStats)
	webserver.ApiGET("/orders/export/csv", exportOrdersCSV)
	webserver.ApiGET("/orders/export/excel", exportOrdersExcel)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiGET("/orders/:id/history", getOrderHistory)
	webserver.ApiGET("/orders/:id/phone", getOrderPhone)
	webserver.ApiPUT("/orders/:id/status", updateOrderStatus)
	webserver.ApiPUT("/orders/:id/assign", assignOrderExecutor)
	webserver.ApiPOST("/orders/:id/payments", addOrderPayment)
	webserver.ApiPUT("/orders/:id/payments/:pid", updateOrderPaymentStatus)
}

// currentOperator returns the JWT subject, or "system" outside the admin group.
func currentOperator(c echo.Context) string {
	if token, ok := c.Get("user").(*jwt.Token); ok {
		if claims, ok := token.Claims.(*jwt.RegisteredClaims); ok && claims.Subject != "" {
			return claims.Subject
		}
	}
	return "system"
}

func checkout(c echo.Context) error {
	sid, serr := requireSession(c)
	if sid == "" {
		return serr
	}

	var payload checkoutPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse checkout parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	o, err := GetApp(c).OrderService().Create(c.Request().Context(), sid, order.CheckoutInfo{
		Name:    payload.Name,
		Phone:   payload.Phone,
		Email:   payload.Email,
		Date:    payload.Date,
		Time:    payload.Time,
		Address: payload.Address,
		Notes:   payload.Notes,
	})
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		return fail(c, http.StatusBadRequest, "EMPTY_CART", "Cart is empty", nil)
	case errors.Is(err, order.ErrInvalidCheckout):
		return fail(c, http.StatusBadRequest, "INVALID_CHECKOUT", "Missing or invalid checkout fields", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "ORDER_ERROR", "Failed to create order", err.Error())
	}
	return ok(c, o)
}

// orderStatusByUID is the public tracking endpoint. It exposes only the
// delivery-facing fields.
func orderStatusByUID(c echo.Context) error {
	o, err := GetApp(c).OrderService().GetByUID(c.Request().Context(), c.Param("uid"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}

	return ok(c, map[string]interface{}{
		"uid":              o.UID,
		"status":           o.Status,
		"status_message":   order.StatusMessage(o.UID, o.Status),
		"scheduled_date":   o.ScheduledDate,
		"scheduled_time":   o.ScheduledTime,
		"assigned_to_name": o.AssignedToName,
		"total_amount":     o.TotalAmount,
		"payment_status":   o.PaymentStatus,
		"created_at":       o.CreatedAt,
	})
}

func listOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)
	filter := order.ListFilter{
		Status:     c.QueryParam("status"),
		AssignedTo: c.QueryParam("assigned_to"),
		Keyword:    c.QueryParam("q"),
		Page:       page,
		PageSize:   pageSize,
	}

	items, total, err := GetApp(c).OrderService().List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, items, total, page, pageSize)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	o, err := GetApp(c).OrderService().Get(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}

	return ok(c, map[string]interface{}{
		"order":    o,
		"items":    o.Items(),
		"payments": o.Payments(),
	})
}

func getOrderHistory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	history, err := GetApp(c).OrderService().History(c.Request().Context(), id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order history", err.Error())
	}
	return ok(c, history)
}

// getOrderPhone reveals the customer phone once the departure window opens.
func getOrderPhone(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	phone, err := GetApp(c).OrderService().CustomerPhone(c.Request().Context(), id)
	switch {
	case errors.Is(err, order.ErrPhoneNotRevealable):
		return fail(c, http.StatusForbidden, "PHONE_NOT_AVAILABLE",
			"Customer phone becomes available 20 minutes before arrival", nil)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}
	return ok(c, map[string]interface{}{"phone": phone})
}

func updateOrderStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	var payload statusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	o, err := GetApp(c).OrderService().UpdateStatus(c.Request().Context(), id, payload.Status, currentOperator(c))
	switch {
	case errors.Is(err, order.ErrInvalidTransition):
		return fail(c, http.StatusConflict, "INVALID_TRANSITION", "Status transition not allowed", err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order", err.Error())
	}
	return ok(c, o)
}

func assignOrderExecutor(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	var payload assignPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse assignment parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	name := payload.ExecutorName
	if payload.ExecutorID != "" && name == "" {
		if p, perr := GetApp(c).ExecutorService().Get(c.Request().Context(), payload.ExecutorID); perr == nil {
			name = p.Name
		}
	}

	o, err := GetApp(c).OrderService().AssignExecutor(c.Request().Context(), id, payload.ExecutorID, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to assign executor", err.Error())
	}
	return ok(c, o)
}

func addOrderPayment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	var payload paymentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse payment parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	o, err := GetApp(c).OrderService().AddPayment(c.Request().Context(), id,
		payload.Amount, payload.Method, payload.Description)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to add payment", err.Error())
	}
	return ok(c, o)
}

func updateOrderPaymentStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	var payload paymentStatusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse payment parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	o, err := GetApp(c).OrderService().UpdatePaymentStatus(c.Request().Context(), id, c.Param("pid"), payload.Status)
	switch {
	case errors.Is(err, order.ErrPaymentNotFound):
		return fail(c, http.StatusNotFound, "PAYMENT_NOT_FOUND", "Payment not found", nil)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update payment", err.Error())
	}
	return ok(c, o)
}

func orderStats(c echo.Context) error {
	stats, err := GetApp(c).OrderService().ComputeStats(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute stats", err.Error())
	}
	return ok(c, stats)
}

func exportOrdersCSV(c echo.Context) error {
	filename := fmt.Sprintf("orders-%s.csv", time.Now().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return GetApp(c).OrderService().ExportCSV(c.Request().Context(), c.Response())
}

func exportOrdersExcel(c echo.Context) error {
	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return GetApp(c).OrderService().ExportExcel(c.Request().Context(), c.Response())
}
