package domain

// Pricing modes for a cart line item.
const (
	ServiceInstallOnly = "install-only"
	ServiceFullWiring  = "full-wiring"
	ServiceRepair      = "repair"
)

// Product categories.
const (
	CategorySwitch     = "switch"
	CategoryOutlet     = "outlet"
	CategoryCable      = "cable"
	CategoryChandelier = "chandelier"
)

// ProductOption is an add-on attached to a catalog product.
type ProductOption struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Product is a catalog entry. Catalog products are immutable; virtual
// products are shallow clones with overridden id/name/price created at
// cart-add time.
type Product struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	ServiceCategory string          `json:"service_category"`
	InstallType     string          `json:"install_type"`
	Slots           int             `json:"slots"`
	PriceInstallOnly float64        `json:"price_install_only"`
	PriceWithWiring  float64        `json:"price_with_wiring"`
	Options         []ProductOption `json:"options,omitempty"`
	// DiscountApplied suppresses the automatic quantity discount when the
	// price was already adjusted (virtual products, derived items).
	DiscountApplied bool `json:"discount_applied,omitempty"`
}

// Option returns the product add-on with the given id.
func (p Product) Option(id string) (ProductOption, bool) {
	for _, o := range p.Options {
		if o.ID == id {
			return o, true
		}
	}
	return ProductOption{}, false
}

// CartItem is one product selection with quantity and pricing mode.
type CartItem struct {
	Product           Product  `json:"product"`
	Quantity          int      `json:"quantity"`
	SelectedOption    string   `json:"selected_option"`
	AdditionalOptions []string `json:"additional_options,omitempty"`
}

// HasAdditionalOption reports whether the item carries the given option id.
func (it CartItem) HasAdditionalOption(id string) bool {
	for _, o := range it.AdditionalOptions {
		if o == id {
			return true
		}
	}
	return false
}

// CartTotals is the material estimate aggregated over a cart.
type CartTotals struct {
	TotalSwitches   int `json:"total_switches"`
	TotalOutlets    int `json:"total_outlets"`
	TotalPoints     int `json:"total_points"`
	EstimatedCable  int `json:"estimated_cable"`
	EstimatedFrames int `json:"estimated_frames"`
}
