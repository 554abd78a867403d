package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/voltdesk/internal/cart"
	"github.com/talkincode/voltdesk/internal/catalog"
	"github.com/talkincode/voltdesk/internal/domain"
)

const sid = "sess-1"

func enable(t *testing.T, s *State, containerID, optionID string, qty int) {
	t.Helper()
	require.NoError(t, s.ToggleOption(containerID, optionID))
	if qty > 1 {
		require.NoError(t, s.UpdateQuantity(containerID, optionID, qty))
	}
}

func itemByID(items []domain.CartItem, id string) (domain.CartItem, bool) {
	for _, it := range items {
		if it.Product.ID == id {
			return it, true
		}
	}
	return domain.CartItem{}, false
}

func TestAddToCartWiringScenario(t *testing.T) {
	ctx := context.Background()
	carts := cart.NewService(cart.NewMemoryStore())
	require.NoError(t, carts.Add(ctx, sid, catalog.MustFind("sw-1"), 1, domain.ServiceInstallOnly, nil))

	s := NewState()
	enable(t, s, WiringComplexID, "add-outlet", 3)
	enable(t, s, WiringComplexID, "breaker-install", 1)

	require.NoError(t, s.AddToCart(ctx, carts, sid))
	items, err := carts.Get(ctx, sid)
	require.NoError(t, err)

	// the earlier switch item is gone, the cart was cleared first
	_, found := itemByID(items, "sw-1")
	assert.False(t, found)

	outlet, found := itemByID(items, "wiring-complex-add-outlet")
	require.True(t, found)
	assert.Equal(t, 3, outlet.Quantity)
	assert.Equal(t, domain.ServiceFullWiring, outlet.SelectedOption)
	// tier discount applied at qty 3: 850 * 0.95
	assert.Equal(t, 807.5, outlet.Product.PriceWithWiring)
	assert.True(t, outlet.Product.DiscountApplied)

	breaker, found := itemByID(items, "wiring-complex-breaker-install")
	require.True(t, found)
	assert.Equal(t, 1, breaker.Quantity)
	assert.Equal(t, domain.ServiceFullWiring, breaker.SelectedOption)

	// breaker is noCable, only the 3 outlets count toward the estimate
	cable, found := itemByID(items, catalog.AutoCableID)
	require.True(t, found)
	assert.Equal(t, 21, cable.Quantity)

	// breaker-install is a panel option, so the fee marker is present
	_, found = itemByID(items, catalog.EquipmentFeeID)
	assert.True(t, found)

	_, found = itemByID(items, catalog.MasterVisitID)
	assert.True(t, found)
}

func TestAddToCartNoPanelNoFee(t *testing.T) {
	ctx := context.Background()
	carts := cart.NewService(cart.NewMemoryStore())

	s := NewState()
	enable(t, s, WiringComplexID, "add-outlet", 2)

	require.NoError(t, s.AddToCart(ctx, carts, sid))
	items, _ := carts.Get(ctx, sid)

	_, found := itemByID(items, catalog.EquipmentFeeID)
	assert.False(t, found)
	cable, found := itemByID(items, catalog.AutoCableID)
	require.True(t, found)
	assert.Equal(t, 14, cable.Quantity)
}

func TestAddToCartNoCableItemWithoutWiring(t *testing.T) {
	ctx := context.Background()
	carts := cart.NewService(cart.NewMemoryStore())

	s := NewState()
	enable(t, s, "chandelier-1", "install", 1)

	require.NoError(t, s.AddToCart(ctx, carts, sid))
	items, _ := carts.Get(ctx, sid)

	_, found := itemByID(items, catalog.AutoCableID)
	assert.False(t, found)
	it, found := itemByID(items, "chandelier-1-install")
	require.True(t, found)
	assert.Equal(t, domain.ServiceInstallOnly, it.SelectedOption)
}

func TestAddToCartBaseWithOption(t *testing.T) {
	ctx := context.Background()
	carts := cart.NewService(cart.NewMemoryStore())

	s := NewState()
	enable(t, s, "chandelier-1", "dismantle", 1)

	require.NoError(t, s.AddToCart(ctx, carts, sid))
	items, _ := carts.Get(ctx, sid)

	it, found := itemByID(items, "chandelier-1")
	require.True(t, found)
	assert.True(t, it.HasAdditionalOption("dismantle"))
}

func TestEquipmentFeeRowDerived(t *testing.T) {
	s := NewState()
	c := s.container(WiringComplexID)
	fee := c.option("equipment-fee")
	assert.False(t, fee.Enabled)

	require.NoError(t, s.ToggleOption(WiringComplexID, "breaker-replace"))
	assert.True(t, c.option("equipment-fee").Enabled)

	require.NoError(t, s.ToggleOption(WiringComplexID, "breaker-replace"))
	assert.False(t, c.option("equipment-fee").Enabled)

	// info rows cannot be toggled directly
	require.NoError(t, s.ToggleOption(WiringComplexID, "equipment-fee"))
	assert.False(t, c.option("equipment-fee").Enabled)
}

func TestContainerTotalDiscountTier(t *testing.T) {
	s := NewState()
	enable(t, s, WiringComplexID, "add-outlet", 6)

	c := s.container(WiringComplexID)
	// tier refreshed to 10% at qty 6
	assert.Equal(t, 850.0*6*0.9, ContainerTotal(*c))
}

func TestGrandTotalIncludesCable(t *testing.T) {
	s := NewState()
	enable(t, s, WiringComplexID, "add-outlet", 2)

	// 2 * 850 + 14m * 100, no cable discount below 51m
	assert.Equal(t, 1700.0+1400.0, s.GrandTotal())
}

func TestUpdateVoltage(t *testing.T) {
	s := NewState()
	c := s.container(WiringComplexID)
	meter := c.option("meter-230v")
	require.NotNil(t, meter)

	require.NoError(t, s.UpdateVoltage(WiringComplexID, "meter-230v", MeterVoltage380))
	meter = c.option("meter-380v")
	require.NotNil(t, meter)
	assert.Equal(t, 3500.0, meter.Price)
	assert.Equal(t, MeterVoltage380, meter.SelectedVoltage)
}

func TestLoadFromCartRoundTrip(t *testing.T) {
	ctx := context.Background()
	carts := cart.NewService(cart.NewMemoryStore())

	s := NewState()
	enable(t, s, WiringComplexID, "add-outlet", 3)
	enable(t, s, WiringComplexID, "block-2", 2)
	require.NoError(t, s.AddToCart(ctx, carts, sid))

	items, _ := carts.Get(ctx, sid)
	restored := LoadFromCart(items)

	c := restored.container(WiringComplexID)
	opt := c.option("add-outlet")
	assert.True(t, opt.Enabled)
	assert.Equal(t, 3, opt.Quantity)
	block := c.option("block-2")
	assert.True(t, block.Enabled)
	assert.Equal(t, 2, block.Quantity)
	// untouched options stay disabled
	assert.False(t, c.option("repair").Enabled)
}

func TestUpdateQuantityMinimumOne(t *testing.T) {
	s := NewState()
	require.NoError(t, s.UpdateQuantity(WiringComplexID, "add-outlet", 0))
	assert.Equal(t, 1, s.container(WiringComplexID).option("add-outlet").Quantity)
}
