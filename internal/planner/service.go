package planner

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/talkincode/voltdesk/internal/cart"
	"github.com/talkincode/voltdesk/internal/catalog"
	"github.com/talkincode/voltdesk/internal/domain"
	"github.com/talkincode/voltdesk/internal/pricing"
)

// CableMetersPerOption converts enabled wiring option quantity to meters.
const CableMetersPerOption = 7

var (
	ErrUnknownContainer = errors.New("planner: unknown container")
	ErrUnknownOption    = errors.New("planner: unknown option")
)

// containerBases maps a container id to the catalog product its virtual
// line items are cloned from.
var containerBases = map[string]string{
	"chandelier-1":  "chandelier-1",
	"sw-install":    "sw-1",
	"out-install":   "out-1",
	WiringComplexID: "out-1",
}

func baseProduct(containerID string) domain.Product {
	if id, ok := containerBases[containerID]; ok {
		return catalog.MustFind(id)
	}
	return catalog.MustFind("chandelier-1")
}

// tierFor returns the quantity discount tier matching the stepped
// percentages used across the cart.
func tierFor(quantity int) *DiscountTier {
	switch {
	case quantity >= 21:
		return &DiscountTier{MinQuantity: 21, Percent: 20}
	case quantity >= 11:
		return &DiscountTier{MinQuantity: 11, Percent: 15}
	case quantity >= 6:
		return &DiscountTier{MinQuantity: 6, Percent: 10}
	default:
		return &DiscountTier{MinQuantity: 3, Percent: 5}
	}
}

// LoadFromCart rebuilds a container tree from persisted cart items by
// reverse-mapping virtual product ids of the form <containerID>-<optionID>.
func LoadFromCart(items []domain.CartItem) *State {
	s := NewState()
	for ci := range s.Containers {
		c := &s.Containers[ci]
		base := baseProduct(c.ProductID)
		for oi := range c.Options {
			opt := &c.Options[oi]
			if opt.IsInfo {
				continue
			}
			if len(opt.VoltageOptions) > 0 {
				for voltage, vid := range meterVariantIDs {
					for _, it := range items {
						if it.Product.ID == c.ProductID+"-"+vid {
							opt.Enabled = true
							opt.Quantity = it.Quantity
							opt.ID = vid
							opt.SelectedVoltage = voltage
							opt.Price = opt.VoltageOptions[voltage]
						}
					}
				}
				continue
			}
			virtualID := c.ProductID + "-" + opt.ID
			for _, it := range items {
				switch {
				case it.Product.ID == virtualID:
					opt.Enabled = true
					opt.Quantity = it.Quantity
				case it.Product.ID == base.ID && it.HasAdditionalOption(opt.ID):
					opt.Enabled = true
					opt.Quantity = it.Quantity
				}
			}
			if opt.Discount != nil {
				opt.Discount = tierFor(opt.Quantity)
			}
		}
		refreshInfoRows(c)
	}
	return s
}

// ToggleOption flips an option's enabled flag and recomputes dependent
// info rows.
func (s *State) ToggleOption(containerID, optionID string) error {
	c := s.container(containerID)
	if c == nil {
		return ErrUnknownContainer
	}
	opt := c.option(optionID)
	if opt == nil {
		return ErrUnknownOption
	}
	if opt.IsInfo {
		return nil
	}
	opt.Enabled = !opt.Enabled
	refreshInfoRows(c)
	return nil
}

// UpdateQuantity sets an option quantity, clamped to a minimum of 1, and
// refreshes its discount tier.
func (s *State) UpdateQuantity(containerID, optionID string, quantity int) error {
	if quantity < 1 {
		return nil
	}
	c := s.container(containerID)
	if c == nil {
		return ErrUnknownContainer
	}
	opt := c.option(optionID)
	if opt == nil {
		return ErrUnknownOption
	}
	opt.Quantity = quantity
	if opt.Discount != nil {
		opt.Discount = tierFor(quantity)
	}
	return nil
}

// UpdateVoltage switches a voltage-variant option to the given label. The
// price and the dispatched option id follow the selection.
func (s *State) UpdateVoltage(containerID, optionID, voltage string) error {
	c := s.container(containerID)
	if c == nil {
		return ErrUnknownContainer
	}
	opt := c.option(optionID)
	if opt == nil {
		return ErrUnknownOption
	}
	price, ok := opt.VoltageOptions[voltage]
	if !ok {
		return errors.Errorf("planner: unknown voltage %s", voltage)
	}
	opt.SelectedVoltage = voltage
	opt.Price = price
	if id, ok := meterVariantIDs[voltage]; ok && isMeterVariant(opt.ID) {
		opt.ID = id
	}
	return nil
}

func isMeterVariant(optionID string) bool {
	for _, id := range meterVariantIDs {
		if id == optionID {
			return true
		}
	}
	return false
}

// refreshInfoRows recomputes derived info-row flags: an info row is
// enabled iff any non-info option in its container is enabled.
func refreshInfoRows(c *ServiceContainer) {
	anyEnabled := false
	for _, opt := range c.Options {
		if !opt.IsInfo && opt.Enabled {
			anyEnabled = true
			break
		}
	}
	for i := range c.Options {
		if c.Options[i].IsInfo {
			c.Options[i].Enabled = anyEnabled
		}
	}
}

// optionTotal applies the option's tier discount when the quantity
// qualifies.
func optionTotal(opt ServiceOption) float64 {
	total := opt.Price * float64(opt.Quantity)
	if opt.Discount != nil && opt.Quantity >= opt.Discount.MinQuantity {
		total = total * (1 - float64(opt.Discount.Percent)/100)
	}
	return total
}

// ContainerTotal sums enabled options of one container, skipping rows
// priced on site.
func ContainerTotal(c ServiceContainer) float64 {
	var total float64
	for _, opt := range c.Options {
		if opt.Enabled && !opt.CustomPrice {
			total += optionTotal(opt)
		}
	}
	return total
}

// EstimatedCableMeters estimates the cable run from enabled wiring options.
func (s *State) EstimatedCableMeters() int {
	var qty int
	for _, c := range s.Containers {
		if c.SectionCategory != SectionWiring {
			continue
		}
		for _, opt := range c.Options {
			if opt.Enabled && !opt.NoCable && !opt.IsInfo {
				qty += opt.Quantity
			}
		}
	}
	return int(math.Ceil(float64(qty) * CableMetersPerOption))
}

// GrandTotal sums all container totals plus the discounted cable cost.
func (s *State) GrandTotal() float64 {
	var total float64
	for _, c := range s.Containers {
		total += ContainerTotal(c)
	}
	return total + pricing.CableCost(s.EstimatedCableMeters())
}

// HasEnabledOptions reports whether anything is selected.
func (s *State) HasEnabledOptions() bool {
	for _, c := range s.Containers {
		for _, opt := range c.Options {
			if opt.Enabled && !opt.IsInfo {
				return true
			}
		}
	}
	return false
}

// AddToCart flattens the selection into cart line items. Order of
// operations: clear the cart, add the auto-cable item when any meters are
// estimated, add one item per enabled option through the dispatch table,
// then the equipment fee when a panel-group option was selected.
func (s *State) AddToCart(ctx context.Context, carts *cart.Service, sessionID string) error {
	if err := carts.Clear(ctx, sessionID); err != nil {
		return errors.Wrap(err, "clear cart")
	}

	if meters := s.EstimatedCableMeters(); meters > 0 {
		base := catalog.MustFind("out-1")
		cable := catalog.Clone(base, catalog.AutoCableID, "Монтаж кабеля", pricing.CableUnitPrice(meters))
		cable.Category = domain.CategoryCable
		cable.Slots = 0
		if err := carts.Add(ctx, sessionID, cable, meters, domain.ServiceFullWiring, nil); err != nil {
			return errors.Wrap(err, "add cable item")
		}
	}

	panelSelected := false
	for _, c := range s.Containers {
		base := baseProduct(c.ProductID)
		for _, opt := range c.Options {
			if !opt.Enabled || opt.IsInfo || opt.CustomPrice {
				continue
			}
			if opt.Group == GroupPanel {
				panelSelected = true
			}

			price := opt.Price
			if opt.Discount != nil && opt.Quantity >= opt.Discount.MinQuantity {
				price = price * (1 - float64(opt.Discount.Percent)/100)
			}

			entry := dispatchFor(opt.ID)
			var err error
			switch entry.Style {
			case addVirtual:
				product := catalog.Clone(base, c.ProductID+"-"+opt.ID, opt.Name, price)
				err = carts.Add(ctx, sessionID, product, opt.Quantity, entry.Mode, nil)
			case addBaseWithOption:
				err = carts.Add(ctx, sessionID, base, opt.Quantity, entry.Mode, []string{opt.ID})
			default:
				err = carts.Add(ctx, sessionID, base, opt.Quantity, entry.Mode, nil)
			}
			if err != nil {
				return errors.Wrapf(err, "add option %s", opt.ID)
			}
		}
	}

	if panelSelected {
		base := catalog.MustFind("out-1")
		fee := catalog.Clone(base, catalog.EquipmentFeeID, "Материалы и оборудование", 0)
		fee.Description = "Стоимость материалов рассчитывается по факту"
		fee.Slots = 0
		if err := carts.Add(ctx, sessionID, fee, 1, domain.ServiceInstallOnly, nil); err != nil {
			return errors.Wrap(err, "add equipment fee")
		}
	}
	return nil
}
