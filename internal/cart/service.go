package cart

import (
	"context"

	"github.com/pkg/errors"

	"github.com/talkincode/voltdesk/internal/catalog"
	"github.com/talkincode/voltdesk/internal/domain"
	"github.com/talkincode/voltdesk/internal/pricing"
)

// ErrNotFound is returned when a line item does not exist in the cart.
var ErrNotFound = errors.New("cart item not found")

// Service is the single source of truth for the order-in-progress. Every
// mutation loads the session cart from the store, transforms it, runs the
// derivation rules and persists the result.
type Service struct {
	store Store
	rules []DerivationRule
}

func NewService(store Store) *Service {
	return &Service{store: store, rules: DefaultRules()}
}

// Get returns the current cart items for a session.
func (s *Service) Get(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	return s.store.Get(ctx, sessionID)
}

// Quote is a cart snapshot with derived totals.
type Quote struct {
	Items  []domain.CartItem `json:"items"`
	Totals domain.CartTotals `json:"totals"`
	Amount float64           `json:"amount"`
}

// GetQuote returns the cart with its pricing totals.
func (s *Service) GetQuote(ctx context.Context, sessionID string) (*Quote, error) {
	items, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &Quote{
		Items:  items,
		Totals: pricing.Totals(items),
		Amount: pricing.Amount(items),
	}, nil
}

// Add merges a product into the cart. An existing line item for the same
// product id absorbs the quantity; additional options are replaced only when
// provided. Adding any non-master-visit product injects the master-visit item
// when absent.
func (s *Service) Add(ctx context.Context, sessionID string, product domain.Product, quantity int, option string, additionalOptions []string) error {
	if quantity < 1 {
		quantity = 1
	}
	if option == "" {
		option = domain.ServiceInstallOnly
	}

	return s.mutate(ctx, sessionID, func(items []domain.CartItem) []domain.CartItem {
		merged := false
		for i := range items {
			if items[i].Product.ID == product.ID {
				items[i].Quantity += quantity
				if additionalOptions != nil {
					items[i].AdditionalOptions = additionalOptions
				}
				merged = true
				break
			}
		}
		if !merged {
			opts := additionalOptions
			if opts == nil {
				opts = []string{}
			}
			items = append(items, domain.CartItem{
				Product:           product,
				Quantity:          quantity,
				SelectedOption:    option,
				AdditionalOptions: opts,
			})
		}

		if product.ID != catalog.MasterVisitID && !hasItem(items, catalog.MasterVisitID) {
			items = append(items, domain.CartItem{
				Product:           catalog.MustFind(catalog.MasterVisitID),
				Quantity:          1,
				SelectedOption:    domain.ServiceInstallOnly,
				AdditionalOptions: []string{},
			})
		}
		return items
	})
}

// Remove drops a line item. Derived items whose parent disappears are
// cleaned up by the rule pass.
func (s *Service) Remove(ctx context.Context, sessionID, productID string) error {
	return s.mutate(ctx, sessionID, func(items []domain.CartItem) []domain.CartItem {
		out := items[:0]
		for _, it := range items {
			if it.Product.ID != productID {
				out = append(out, it)
			}
		}
		return out
	})
}

// UpdateQuantity sets a line item quantity; zero or less removes the item.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, sessionID, productID)
	}
	return s.mutate(ctx, sessionID, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].Product.ID == productID {
				items[i].Quantity = quantity
			}
		}
		return items
	})
}

// UpdateOption changes the pricing mode of a line item.
func (s *Service) UpdateOption(ctx context.Context, sessionID, productID, option string) error {
	return s.mutate(ctx, sessionID, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].Product.ID == productID {
				items[i].SelectedOption = option
			}
		}
		return items
	})
}

// ToggleAdditionalOption flips membership of an option id on a line item.
// The rule pass creates or removes any dependent derived items.
func (s *Service) ToggleAdditionalOption(ctx context.Context, sessionID, productID, optionID string) error {
	return s.mutate(ctx, sessionID, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].Product.ID != productID {
				continue
			}
			if items[i].HasAdditionalOption(optionID) {
				opts := items[i].AdditionalOptions[:0]
				for _, o := range items[i].AdditionalOptions {
					if o != optionID {
						opts = append(opts, o)
					}
				}
				items[i].AdditionalOptions = opts
			} else {
				items[i].AdditionalOptions = append(items[i].AdditionalOptions, optionID)
			}
		}
		return items
	})
}

// Clear wipes the session cart, master-visit item included.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func (s *Service) mutate(ctx context.Context, sessionID string, fn func([]domain.CartItem) []domain.CartItem) error {
	items, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return errors.Wrap(err, "load cart")
	}
	items = fn(items)
	items = applyRules(items, s.rules)
	if err := s.store.Put(ctx, sessionID, items); err != nil {
		return errors.Wrap(err, "save cart")
	}
	return nil
}

func hasItem(items []domain.CartItem, productID string) bool {
	for _, it := range items {
		if it.Product.ID == productID {
			return true
		}
	}
	return false
}
