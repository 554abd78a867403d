package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/voltdesk/internal/planner"
	"github.com/talkincode/voltdesk/internal/pricing"
	"github.com/talkincode/voltdesk/internal/webserver"
)

// plannerSelection is one option choice posted by the client.
type plannerSelection struct {
	ContainerID string `json:"container_id" validate:"required"`
	OptionID    string `json:"option_id" validate:"required"`
	Enabled     bool   `json:"enabled"`
	Quantity    int    `json:"quantity" validate:"omitempty,min=1,max=999"`
	Voltage     string `json:"voltage" validate:"omitempty,oneof=220V 380V"`
}

type plannerPayload struct {
	Selections []plannerSelection `json:"selections" validate:"required,dive"`
}

type containerView struct {
	planner.ServiceContainer
	Total float64 `json:"total"`
}

type plannerView struct {
	Containers           []containerView `json:"containers"`
	EstimatedCableMeters int             `json:"estimated_cable_meters"`
	CableCost            float64         `json:"cable_cost"`
	GrandTotal           float64         `json:"grand_total"`
}

func registerPlannerRoutes() {
	webserver.PubGET("/planner/templates", plannerTemplates)
	webserver.PubGET("/planner/state", plannerState)
	webserver.PubPOST("/planner/quote", plannerQuote)
	webserver.PubPOST("/planner/add-to-cart", plannerAddToCart)
}

func plannerViewOf(state *planner.State) plannerView {
	views := make([]containerView, 0, len(state.Containers))
	for _, sc := range state.Containers {
		views = append(views, containerView{
			ServiceContainer: sc,
			Total:            planner.ContainerTotal(sc),
		})
	}
	return plannerView{
		Containers:           views,
		EstimatedCableMeters: state.EstimatedCableMeters(),
		CableCost:            pricing.CableCost(state.EstimatedCableMeters()),
		GrandTotal:           state.GrandTotal(),
	}
}

// applySelections replays client choices onto a fresh template state. The
// voltage switch goes last because it renames the option id.
func applySelections(state *planner.State, selections []plannerSelection) error {
	for _, sel := range selections {
		if sel.Enabled {
			if err := state.ToggleOption(sel.ContainerID, sel.OptionID); err != nil {
				return err
			}
		}
		if sel.Quantity > 0 {
			if err := state.UpdateQuantity(sel.ContainerID, sel.OptionID, sel.Quantity); err != nil {
				return err
			}
		}
		if sel.Voltage != "" {
			if err := state.UpdateVoltage(sel.ContainerID, sel.OptionID, sel.Voltage); err != nil {
				return err
			}
		}
	}
	return nil
}

func plannerTemplates(c echo.Context) error {
	return ok(c, plannerViewOf(planner.NewState()))
}

// plannerState rebuilds the planner selections from the current cart.
func plannerState(c echo.Context) error {
	sid, serr := requireSession(c)
	if sid == "" {
		return serr
	}
	items, err := GetApp(c).CartService().Get(c.Request().Context(), sid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to load cart", err.Error())
	}
	return ok(c, plannerViewOf(planner.LoadFromCart(items)))
}

func bindPlannerPayload(c echo.Context) (*planner.State, error) {
	var payload plannerPayload
	if err := c.Bind(&payload); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse planner parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return nil, handleValidationError(c, err)
	}

	state := planner.NewState()
	if err := applySelections(state, payload.Selections); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_SELECTION", "Unknown container or option", err.Error())
	}
	return state, nil
}

func plannerQuote(c echo.Context) error {
	state, err := bindPlannerPayload(c)
	if state == nil {
		return err
	}
	return ok(c, plannerViewOf(state))
}

func plannerAddToCart(c echo.Context) error {
	sid, serr := requireSession(c)
	if sid == "" {
		return serr
	}
	state, err := bindPlannerPayload(c)
	if state == nil {
		return err
	}
	if err := state.AddToCart(c.Request().Context(), GetApp(c).CartService(), sid); err != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to add planner items to cart", err.Error())
	}

	quote, qerr := GetApp(c).CartService().GetQuote(c.Request().Context(), sid)
	if qerr != nil {
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to load cart", qerr.Error())
	}
	return ok(c, quote)
}
