package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/voltdesk/internal/catalog"
	"github.com/talkincode/voltdesk/internal/domain"
)

const sid = "sess-1"

func newTestService() *Service {
	return NewService(NewMemoryStore())
}

func findItem(t *testing.T, items []domain.CartItem, productID string) domain.CartItem {
	t.Helper()
	for _, it := range items {
		if it.Product.ID == productID {
			return it
		}
	}
	t.Fatalf("item %s not in cart", productID)
	return domain.CartItem{}
}

func hasItemID(items []domain.CartItem, productID string) bool {
	for _, it := range items {
		if it.Product.ID == productID {
			return true
		}
	}
	return false
}

func TestAddInjectsMasterVisit(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	outlet := catalog.MustFind("out-1")

	require.NoError(t, svc.Add(ctx, sid, outlet, 1, domain.ServiceInstallOnly, nil))

	items, err := svc.Get(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.True(t, hasItemID(items, catalog.MasterVisitID))

	// repeated adds merge quantity and never duplicate the master visit
	require.NoError(t, svc.Add(ctx, sid, outlet, 2, domain.ServiceInstallOnly, nil))
	items, err = svc.Get(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 3, findItem(t, items, "out-1").Quantity)
	assert.Equal(t, 1, findItem(t, items, catalog.MasterVisitID).Quantity)
}

func TestAddMasterVisitAlone(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	require.NoError(t, svc.Add(ctx, sid, catalog.MustFind(catalog.MasterVisitID), 1, domain.ServiceInstallOnly, nil))
	items, err := svc.Get(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func blockProduct(n string) domain.Product {
	base := catalog.MustFind("out-1")
	opt, _ := base.Option(n)
	return catalog.Clone(base, "out-blocks-"+n, opt.Name, opt.Price)
}

func TestInstallBlocksDerivation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	block3 := blockProduct("block-3")
	derivedID := block3.ID + catalog.ElectricalInstallSuffix

	require.NoError(t, svc.Add(ctx, sid, block3, 2, domain.ServiceFullWiring, nil))
	require.NoError(t, svc.ToggleAdditionalOption(ctx, sid, block3.ID, InstallBlocksOptionID))

	items, err := svc.Get(ctx, sid)
	require.NoError(t, err)
	derived := findItem(t, items, derivedID)
	assert.Equal(t, 6, derived.Quantity)
	assert.Equal(t, "Электроустановка", derived.Product.Name)
	assert.Equal(t, float64(catalog.ElectricalInstallUnitPrice), derived.Product.PriceInstallOnly)

	// quantity change propagates through the rule
	require.NoError(t, svc.UpdateQuantity(ctx, sid, block3.ID, 4))
	items, _ = svc.Get(ctx, sid)
	assert.Equal(t, 12, findItem(t, items, derivedID).Quantity)

	// toggling off removes the derived item
	require.NoError(t, svc.ToggleAdditionalOption(ctx, sid, block3.ID, InstallBlocksOptionID))
	items, _ = svc.Get(ctx, sid)
	assert.False(t, hasItemID(items, derivedID))
}

func TestRemoveParentDropsDerived(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	block2 := blockProduct("block-2")
	derivedID := block2.ID + catalog.ElectricalInstallSuffix

	require.NoError(t, svc.Add(ctx, sid, block2, 1, domain.ServiceFullWiring, []string{InstallBlocksOptionID}))
	items, _ := svc.Get(ctx, sid)
	assert.Equal(t, 2, findItem(t, items, derivedID).Quantity)

	require.NoError(t, svc.Remove(ctx, sid, block2.ID))
	items, _ = svc.Get(ctx, sid)
	assert.False(t, hasItemID(items, derivedID))
	// master visit stays until the cart is cleared
	assert.True(t, hasItemID(items, catalog.MasterVisitID))
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	outlet := catalog.MustFind("out-1")

	require.NoError(t, svc.Add(ctx, sid, outlet, 2, domain.ServiceInstallOnly, nil))
	require.NoError(t, svc.UpdateQuantity(ctx, sid, outlet.ID, 0))

	items, _ := svc.Get(ctx, sid)
	assert.False(t, hasItemID(items, outlet.ID))
}

func TestUpdateOption(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	sw := catalog.MustFind("sw-1")

	require.NoError(t, svc.Add(ctx, sid, sw, 1, domain.ServiceInstallOnly, nil))
	require.NoError(t, svc.UpdateOption(ctx, sid, sw.ID, domain.ServiceFullWiring))

	items, _ := svc.Get(ctx, sid)
	assert.Equal(t, domain.ServiceFullWiring, findItem(t, items, sw.ID).SelectedOption)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	require.NoError(t, svc.Add(ctx, sid, catalog.MustFind("out-1"), 1, domain.ServiceInstallOnly, nil))
	require.NoError(t, svc.Clear(ctx, sid))

	items, err := svc.Get(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetQuote(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	outlet := catalog.MustFind("out-1")

	require.NoError(t, svc.Add(ctx, sid, outlet, 2, domain.ServiceInstallOnly, nil))
	quote, err := svc.GetQuote(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, quote.Items, 2)
	assert.Equal(t, 2, quote.Totals.TotalOutlets)
	// 2 outlets install-only at 250 plus the 500 master visit
	assert.Equal(t, 1000.0, quote.Amount)
}

func TestCorruptBlobFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.carts[sid] = []byte("{not json")

	svc := NewService(store)
	items, err := svc.Get(ctx, sid)
	assert.NoError(t, err)
	assert.Empty(t, items)
}
