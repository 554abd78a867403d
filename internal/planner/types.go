// Package planner builds the nested service-container model shown on the
// products page and flattens it into cart line items. Containers are
// rebuilt from templates per request; the cart is the only persisted state.
package planner

// DiscountTier is a quantity-based percentage discount on a single option.
type DiscountTier struct {
	MinQuantity int `json:"min_quantity"`
	Percent     int `json:"percent"`
}

// ServiceOption is one selectable row inside a container.
type ServiceOption struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Price       float64       `json:"price"`
	Quantity    int           `json:"quantity"`
	Enabled     bool          `json:"enabled"`
	Description string        `json:"description,omitempty"`
	Unit        string        `json:"unit,omitempty"`
	Group       string        `json:"group,omitempty"`
	Discount    *DiscountTier `json:"discount,omitempty"`
	// CustomPrice rows are priced on site and never totalled or added to cart.
	CustomPrice bool `json:"custom_price,omitempty"`
	// VoltageOptions maps a voltage label to its price variant.
	VoltageOptions  map[string]float64 `json:"voltage_options,omitempty"`
	SelectedVoltage string             `json:"selected_voltage,omitempty"`
	// NoCable excludes the option from the cable meterage estimate.
	NoCable bool `json:"no_cable,omitempty"`
	// IsInfo rows are display-only; their enabled flag is derived.
	IsInfo bool `json:"is_info,omitempty"`
}

// ServiceContainer groups the options of one product area.
type ServiceContainer struct {
	ProductID          string          `json:"product_id"`
	ProductName        string          `json:"product_name"`
	ProductDescription string          `json:"product_description"`
	Category           string          `json:"category"`
	SectionCategory    string          `json:"section_category"`
	Options            []ServiceOption `json:"options"`
}

// Section categories.
const (
	SectionServices = "services"
	SectionWiring   = "wiring"
)

// Option groups.
const (
	GroupConstruction = "construction"
	GroupPanel        = "panel"
)

// State is the full container tree for one planning session.
type State struct {
	Containers []ServiceContainer `json:"containers"`
}

func (s *State) container(containerID string) *ServiceContainer {
	for i := range s.Containers {
		if s.Containers[i].ProductID == containerID {
			return &s.Containers[i]
		}
	}
	return nil
}

func (c *ServiceContainer) option(optionID string) *ServiceOption {
	for i := range c.Options {
		if c.Options[i].ID == optionID {
			return &c.Options[i]
		}
	}
	return nil
}
