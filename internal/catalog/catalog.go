// Package catalog holds the static service catalog: products with their
// add-on options and the planner container templates. Entries are immutable;
// callers clone before overriding anything.
package catalog

import (
	"strings"

	"github.com/talkincode/voltdesk/internal/domain"
)

// MasterVisitID is the sentinel product auto-added to every non-empty cart.
const MasterVisitID = "master-visit"

// ElectricalInstallSuffix is appended to a parent product id to form the
// derived electrical-install line item id.
const ElectricalInstallSuffix = "-electrical-install"

// AutoCableID identifies the auto-computed cable meterage line item.
const AutoCableID = "auto-cable-wiring"

// EquipmentFeeID identifies the equipment fee line item.
const EquipmentFeeID = "equipment-fee"

// ElectricalInstallUnitPrice is the fixed unit price of the derived
// electrical-install item.
const ElectricalInstallUnitPrice = 250

// CableMetersPerPoint converts wiring points to estimated cable meters.
const CableMetersPerPoint = 8

// CablePricePerMeter is the cable installation price before volume discount.
const CablePricePerMeter = 100

var products = []domain.Product{
	{
		ID:               MasterVisitID,
		Type:             "switch-single",
		Name:             "Выезд мастера",
		Description:      "Обязательная услуга при оформлении заявки",
		Category:         domain.CategorySwitch,
		ServiceCategory:  "popular",
		InstallType:      "finish",
		Slots:            0,
		PriceInstallOnly: 500,
		PriceWithWiring:  500,
	},
	{
		ID:               "chandelier-1",
		Type:             "chandelier",
		Name:             "Люстра",
		Description:      "Установка люстры",
		Category:         domain.CategoryChandelier,
		ServiceCategory:  "popular",
		InstallType:      "finish",
		Slots:            0,
		PriceInstallOnly: 1000,
		PriceWithWiring:  1000,
		Options: []domain.ProductOption{
			{ID: "dismantle", Name: "Демонтаж люстры", Price: 500},
			{ID: "assemble", Name: "Сборка люстры", Price: 500},
		},
	},
	{
		ID:               "sw-1",
		Type:             "switch-single",
		Name:             "Установить выключатель",
		Description:      "Установка выключателя",
		Category:         domain.CategorySwitch,
		ServiceCategory:  "popular",
		InstallType:      "finish",
		Slots:            1,
		PriceInstallOnly: 250,
		PriceWithWiring:  1500,
	},
	{
		ID:               "out-1",
		Type:             "outlet-single",
		Name:             "Установить розетку",
		Description:      "Черновые работы со штроблением, сверлением и установкой подрозетника",
		Category:         domain.CategoryOutlet,
		ServiceCategory:  "popular",
		InstallType:      "finish",
		Slots:            1,
		PriceInstallOnly: 250,
		PriceWithWiring:  850,
		Options: []domain.ProductOption{
			{ID: "block-2", Name: "Блок из 2-х розеток", Price: 1200},
			{ID: "block-3", Name: "Блок из 3-х розеток", Price: 2500},
			{ID: "block-4", Name: "Блок из 4-х розеток", Price: 3000},
			{ID: "block-5", Name: "Блок из 5 розеток", Price: 3500},
		},
	},
}

// Products returns the full catalog.
func Products() []domain.Product {
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out
}

// Find returns the catalog product with the given id.
func Find(id string) (domain.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// MustFind returns the catalog product with the given id, panicking on
// unknown ids. Only for static ids wired into the code.
func MustFind(id string) domain.Product {
	p, ok := Find(id)
	if !ok {
		panic("catalog: unknown product " + id)
	}
	return p
}

// Clone builds a virtual product from a base entry with overridden
// id/name/price. The discount flag is set because virtual prices are
// already final.
func Clone(base domain.Product, id, name string, price float64) domain.Product {
	p := base
	p.ID = id
	p.Name = name
	p.Description = name
	p.PriceInstallOnly = price
	p.PriceWithWiring = price
	p.Options = nil
	p.DiscountApplied = true
	return p
}

// OutletsPerBlock infers the outlet count encoded in a block product id.
func OutletsPerBlock(productID string) int {
	switch {
	case strings.Contains(productID, "block-2"):
		return 2
	case strings.Contains(productID, "block-3"):
		return 3
	case strings.Contains(productID, "block-4"):
		return 4
	case strings.Contains(productID, "block-5"):
		return 5
	default:
		return 1
	}
}

// electricalWorkNames lists service names counted as electrical work when
// splitting executor earnings.
var electricalWorkNames = []string{
	"Блок из 5 розеток",
	"Блок из 4-х розеток",
	"Блок из 3-х розеток",
	"Блок из 2-х розеток",
	"Добавить розетку",
	"Установить розетку",
	"Выключатель перенести",
	"Установить выключатель",
	"Перенос газовых детекторов",
	"Перенос газоанализаторов",
	"монтаж кабеля",
}

// IsElectricalWork reports whether a service name is electrical
// installation work (commission differs from product sales).
func IsElectricalWork(serviceName string) bool {
	lower := strings.ToLower(serviceName)
	for _, n := range electricalWorkNames {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
