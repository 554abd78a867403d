package cart

import (
	"strings"

	"github.com/talkincode/voltdesk/internal/catalog"
	"github.com/talkincode/voltdesk/internal/domain"
)

// DerivationRule maintains a dependent line item computed from a parent
// selection. Rules are evaluated after every cart mutation: a parent that
// matches Trigger gets exactly one derived item (updated in place when it
// already exists), and derived items whose parent no longer matches are
// dropped. This replaces ad-hoc id matching scattered over the mutation
// paths with one auditable rule table.
type DerivationRule struct {
	Name string
	// Owns reports whether a product id belongs to this rule's derived items.
	Owns func(productID string) bool
	// Trigger reports whether a parent item produces a derived item.
	Trigger func(item domain.CartItem) bool
	// Derive builds the derived item for a matching parent.
	Derive func(parent domain.CartItem) domain.CartItem
}

// InstallBlocksOptionID toggles the derived electrical-install item.
const InstallBlocksOptionID = "install-blocks"

// installBlocksRule: a block item with the install-blocks option enabled
// carries a derived electrical-install item sized by the outlets per block.
var installBlocksRule = DerivationRule{
	Name: "install-blocks",
	Owns: func(productID string) bool {
		return strings.HasSuffix(productID, catalog.ElectricalInstallSuffix)
	},
	Trigger: func(item domain.CartItem) bool {
		return item.HasAdditionalOption(InstallBlocksOptionID)
	},
	Derive: func(parent domain.CartItem) domain.CartItem {
		product := catalog.Clone(
			parent.Product,
			parent.Product.ID+catalog.ElectricalInstallSuffix,
			"Электроустановка",
			catalog.ElectricalInstallUnitPrice,
		)
		product.Description = "Установка розеток/выключателей"
		return domain.CartItem{
			Product:        product,
			Quantity:       catalog.OutletsPerBlock(parent.Product.ID) * parent.Quantity,
			SelectedOption: domain.ServiceInstallOnly,
		}
	},
}

// DefaultRules returns the standard derivation rule set.
func DefaultRules() []DerivationRule {
	return []DerivationRule{installBlocksRule}
}

// applyRules reconciles derived items against the current parents. Existing
// derived items keep their position; new ones are appended after the parents.
func applyRules(items []domain.CartItem, rules []DerivationRule) []domain.CartItem {
	owned := func(id string) (DerivationRule, bool) {
		for _, r := range rules {
			if r.Owns(id) {
				return r, true
			}
		}
		return DerivationRule{}, false
	}

	wanted := make(map[string]domain.CartItem)
	for _, it := range items {
		if _, isDerived := owned(it.Product.ID); isDerived {
			continue
		}
		for _, r := range rules {
			if r.Trigger(it) {
				d := r.Derive(it)
				wanted[d.Product.ID] = d
			}
		}
	}

	out := make([]domain.CartItem, 0, len(items))
	seen := make(map[string]bool)
	for _, it := range items {
		if _, isDerived := owned(it.Product.ID); isDerived {
			d, ok := wanted[it.Product.ID]
			if !ok {
				continue
			}
			out = append(out, d)
			seen[it.Product.ID] = true
			continue
		}
		out = append(out, it)
	}
	// append new derived items in parent order to keep output deterministic
	for _, it := range items {
		if _, isDerived := owned(it.Product.ID); isDerived {
			continue
		}
		for _, r := range rules {
			if !r.Trigger(it) {
				continue
			}
			d := r.Derive(it)
			if !seen[d.Product.ID] {
				out = append(out, d)
				seen[d.Product.ID] = true
			}
		}
	}
	return out
}
