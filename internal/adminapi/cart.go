package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/voltdesk/internal/catalog"
	"github.com/talkincode/voltdesk/internal/webserver"
)

type cartAddPayload struct {
	ProductID         string   `json:"product_id" validate:"required"`
	Quantity          int      `json:"quantity" validate:"omitempty,min=1,max=999"`
	Option            string   `json:"option" validate:"omitempty,oneof=install-only full-wiring repair"`
	AdditionalOptions []string `json:"additional_options"`
}

type cartQuantityPayload struct {
	Quantity int `json:"quantity" validate:"min=0,max=999"`
}

type cartOptionPayload struct {
	Option string `json:"option" validate:"required,oneof=install-only full-wiring repair"`
}

type cartTogglePayload struct {
	OptionID string `json:"option_id" validate:"required"`
}

func registerCartRoutes() {
	webserver.PubGET("/cart", getCart)
	webserver.PubPOST("/cart/items", addCartItem)
	webserver.PubPUT("/cart/items/:id/quantity", updateCartQuantity)
	webserver.PubPUT("/cart/items/:id/option", updateCartOption)
	webserver.PubPUT("/cart/items/:id/toggle-option", toggleCartOption)
	webserver.PubDELETE("/cart/items/:id", removeCartItem)
	webserver.PubDELETE("/cart", clearCart)
}

func requireSession(c echo.Context) (string, error) {
	sid := sessionID(c)
	if sid == "" {
		return "", fail(c, http.StatusBadRequest, "MISSING_SESSION", "X-Session-ID header is required", nil)
	}
	return sid, nil
}

func getCart(c echo.Context) error {
	sid, err := requireSession(c)
	if sid == "" {
		return err
	}
	quote, qerr := GetApp(c).CartService().GetQuote(c.Request().Context(), sid)
	if qerr != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to load cart", qerr.Error())
	}
	return ok(c, quote)
}

func addCartItem(c echo.Context) error {
	sid, serr := requireSession(c)
	if sid == "" {
		return serr
	}

	var payload cartAddPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	product, found := catalog.Find(payload.ProductID)
	if !found {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	}

	err := GetApp(c).CartService().Add(c.Request().Context(), sid,
		product, payload.Quantity, payload.Option, payload.AdditionalOptions)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to add cart item", err.Error())
	}
	return getCart(c)
}

func updateCartQuantity(c echo.Context) error {
	sid, serr := requireSession(c)
	if sid == "" {
		return serr
	}

	var payload cartQuantityPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	err := GetApp(c).CartService().UpdateQuantity(c.Request().Context(), sid, c.Param("id"), payload.Quantity)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to update quantity", err.Error())
	}
	return getCart(c)
}

func updateCartOption(c echo.Context) error {
	sid, serr := requireSession(c)
	if sid == "" {
		return serr
	}

	var payload cartOptionPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	err := GetApp(c).CartService().UpdateOption(c.Request().Context(), sid, c.Param("id"), payload.Option)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to update option", err.Error())
	}
	return getCart(c)
}

func toggleCartOption(c echo.Context) error {
	sid, serr := requireSession(c)
	if sid == "" {
		return serr
	}

	var payload cartTogglePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	err := GetApp(c).CartService().ToggleAdditionalOption(c.Request().Context(), sid, c.Param("id"), payload.OptionID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to toggle option", err.Error())
	}
	return getCart(c)
}

func removeCartItem(c echo.Context) error {
	sid, serr := requireSession(c)
	if sid == "" {
		return serr
	}
	err := GetApp(c).CartService().Remove(c.Request().Context(), sid, c.Param("id"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to remove cart item", err.Error())
	}
	return getCart(c)
}

func clearCart(c echo.Context) error {
	sid, serr := requireSession(c)
	if sid == "" {
		return serr
	}
	err := GetApp(c).CartService().Clear(c.Request().Context(), sid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to clear cart", err.Error())
	}
	return ok(c, map[string]interface{}{"cleared": true})
}
