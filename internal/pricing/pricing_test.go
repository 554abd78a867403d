package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/talkincode/voltdesk/internal/catalog"
	"github.com/talkincode/voltdesk/internal/domain"
)

func TestDiscountSteps(t *testing.T) {
	cases := map[int]int{
		0: 0, 1: 0, 2: 0,
		3: 5, 5: 5,
		6: 10, 10: 10,
		11: 15, 20: 15,
		21: 20, 100: 20,
	}
	for qty, want := range cases {
		assert.Equal(t, want, Discount(qty), "quantity %d", qty)
	}

	// monotonically non-decreasing
	prev := 0
	for q := 0; q <= 30; q++ {
		d := Discount(q)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
}

func TestCableDiscountStrictBoundaries(t *testing.T) {
	assert.Equal(t, 0, CableDiscount(0))
	assert.Equal(t, 0, CableDiscount(50))
	assert.Equal(t, 5, CableDiscount(51))
	assert.Equal(t, 5, CableDiscount(100))
	assert.Equal(t, 10, CableDiscount(101))
	assert.Equal(t, 10, CableDiscount(200))
	assert.Equal(t, 20, CableDiscount(201))
	assert.Equal(t, 20, CableDiscount(250))
}

func TestItemPrice(t *testing.T) {
	outlet := catalog.MustFind("out-1")

	t.Run("install only without discount", func(t *testing.T) {
		item := domain.CartItem{Product: outlet, Quantity: 2, SelectedOption: domain.ServiceInstallOnly}
		assert.Equal(t, 500.0, ItemPrice(item))
	})

	t.Run("full wiring with quantity discount", func(t *testing.T) {
		item := domain.CartItem{Product: outlet, Quantity: 6, SelectedOption: domain.ServiceFullWiring}
		// 850 * 6 = 5100, minus 10%
		assert.Equal(t, 4590.0, ItemPrice(item))
	})

	t.Run("additional options are never discounted", func(t *testing.T) {
		item := domain.CartItem{
			Product:           outlet,
			Quantity:          6,
			SelectedOption:    domain.ServiceInstallOnly,
			AdditionalOptions: []string{"block-2"},
		}
		// base 250*6=1500 -10% = 1350, plus 1200*6 options
		assert.Equal(t, 1350.0+7200.0, ItemPrice(item))
	})

	t.Run("adjusted price suppresses discount", func(t *testing.T) {
		p := catalog.Clone(outlet, "virt-1", "Блок из 2-х розеток", 1200)
		item := domain.CartItem{Product: p, Quantity: 21, SelectedOption: domain.ServiceFullWiring}
		assert.Equal(t, 1200.0*21, ItemPrice(item))
	})
}

func TestFrames(t *testing.T) {
	outlet := catalog.MustFind("out-1") // slots 1
	visit := catalog.MustFind(catalog.MasterVisitID)

	quad := outlet
	quad.Slots = 4

	items := []domain.CartItem{
		{Product: outlet, Quantity: 3, SelectedOption: domain.ServiceInstallOnly},
		{Product: quad, Quantity: 2, SelectedOption: domain.ServiceFullWiring},
		{Product: visit, Quantity: 1, SelectedOption: domain.ServiceInstallOnly},
	}
	// 3 singles + 2 quads at a double frame each, visit has no slots
	assert.Equal(t, 7, Frames(items))
}

func TestTotals(t *testing.T) {
	sw := catalog.MustFind("sw-1")
	outlet := catalog.MustFind("out-1")
	triple := outlet
	triple.Slots = 3

	items := []domain.CartItem{
		{Product: sw, Quantity: 2, SelectedOption: domain.ServiceInstallOnly},
		{Product: triple, Quantity: 1, SelectedOption: domain.ServiceFullWiring},
	}
	totals := Totals(items)
	assert.Equal(t, 2, totals.TotalSwitches)
	assert.Equal(t, 3, totals.TotalOutlets)
	assert.Equal(t, 5, totals.TotalPoints)
	assert.Equal(t, 5*catalog.CableMetersPerPoint, totals.EstimatedCable)
	assert.Equal(t, 3, totals.EstimatedFrames)
}

func TestTotalsEmptyCart(t *testing.T) {
	totals := Totals(nil)
	assert.Zero(t, totals.TotalPoints)
	assert.Zero(t, totals.EstimatedCable)
}

func TestCableCost(t *testing.T) {
	assert.Equal(t, 0.0, CableCost(0))
	assert.Equal(t, 4000.0, CableCost(40))
	// 200m stays in the 10% tier
	assert.Equal(t, 18000.0, CableCost(200))
	// 250m reaches the 20% tier
	assert.Equal(t, 20000.0, CableCost(250))
}
