// Package pricing contains the pure price arithmetic for cart line items:
// quantity discounts, cable volume discounts, frame and cable estimates.
// All functions are total; callers clamp negative quantities before calling.
package pricing

import (
	"math"

	"github.com/talkincode/voltdesk/internal/catalog"
	"github.com/talkincode/voltdesk/internal/domain"
)

// Discount returns the quantity discount percent.
// Steps: 3+ -> 5%, 6+ -> 10%, 11+ -> 15%, 21+ -> 20%.
func Discount(quantity int) int {
	switch {
	case quantity >= 21:
		return 20
	case quantity >= 11:
		return 15
	case quantity >= 6:
		return 10
	case quantity >= 3:
		return 5
	default:
		return 0
	}
}

// CableDiscount returns the cable volume discount percent. Boundaries are
// strict: exactly 200 meters stays in the 10% tier.
func CableDiscount(meters int) int {
	switch {
	case meters > 200:
		return 20
	case meters > 100:
		return 10
	case meters > 50:
		return 5
	default:
		return 0
	}
}

// ItemPrice computes the price of one cart line item: base price for the
// selected mode times quantity, reduced by the quantity discount unless the
// product already carries an adjusted price, plus undiscounted add-on option
// prices times quantity.
func ItemPrice(item domain.CartItem) float64 {
	base := item.Product.PriceWithWiring
	if item.SelectedOption == domain.ServiceInstallOnly {
		base = item.Product.PriceInstallOnly
	}

	total := base * float64(item.Quantity)
	if !item.Product.DiscountApplied {
		if d := Discount(item.Quantity); d > 0 {
			total = math.Round(total * (1 - float64(d)/100))
		}
	}

	for _, optID := range item.AdditionalOptions {
		if opt, ok := item.Product.Option(optID); ok {
			total += opt.Price * float64(item.Quantity)
		}
	}
	return total
}

// Amount sums the line item prices of a cart.
func Amount(items []domain.CartItem) float64 {
	var sum float64
	for _, it := range items {
		sum += ItemPrice(it)
	}
	return sum
}

// Frames estimates the number of cover frames needed for the given items.
// Blocks of four or five slots need a double frame.
func Frames(items []domain.CartItem) int {
	total := 0
	for _, it := range items {
		switch it.Product.Slots {
		case 1, 2, 3:
			total += it.Quantity
		case 4, 5:
			total += it.Quantity * 2
		}
	}
	return total
}

// Totals aggregates the material estimate over a cart: switch and outlet
// counts, wiring points, estimated cable meterage and frames.
func Totals(items []domain.CartItem) domain.CartTotals {
	var t domain.CartTotals
	for _, it := range items {
		switch it.Product.Category {
		case domain.CategorySwitch:
			t.TotalSwitches += it.Quantity
		case domain.CategoryOutlet:
			slots := it.Product.Slots
			if slots < 1 {
				slots = 1
			}
			t.TotalOutlets += it.Quantity * slots
		}
	}
	t.TotalPoints = t.TotalSwitches + t.TotalOutlets
	t.EstimatedCable = t.TotalPoints * catalog.CableMetersPerPoint
	t.EstimatedFrames = Frames(items)
	return t
}

// CableCost prices a cable run: meters at the per-meter rate reduced by the
// volume discount, rounded to the nearest unit.
func CableCost(meters int) float64 {
	if meters <= 0 {
		return 0
	}
	cost := float64(meters * catalog.CablePricePerMeter)
	if d := CableDiscount(meters); d > 0 {
		cost = math.Round(cost * (1 - float64(d)/100))
	}
	return cost
}

// CableUnitPrice is the discounted per-meter price for a given run length.
func CableUnitPrice(meters int) float64 {
	price := float64(catalog.CablePricePerMeter)
	if d := CableDiscount(meters); d > 0 {
		price = price * (1 - float64(d)/100)
	}
	return price
}
