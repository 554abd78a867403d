package planner

import "github.com/talkincode/voltdesk/internal/domain"

// WiringComplexID is the container carrying the rough-wiring option set.
const WiringComplexID = "wiring-complex"

// MeterVoltage220 and MeterVoltage380 label the meter price variants.
const (
	MeterVoltage220 = "220V"
	MeterVoltage380 = "380V"
)

// meterVariantIDs maps the selected voltage to the option id used in the
// cart dispatch, so a 380V selection lands as its own virtual product.
var meterVariantIDs = map[string]string{
	MeterVoltage220: "meter-230v",
	MeterVoltage380: "meter-380v",
}

var templates = []ServiceContainer{
	{
		ProductID:          "chandelier-1",
		ProductName:        "Установить люстру",
		ProductDescription: "Установка люстры",
		Category:           domain.CategoryChandelier,
		SectionCategory:    SectionServices,
		Options: []ServiceOption{
			{ID: "install", Name: "Установить люстру", Price: 1000, Quantity: 1},
			{ID: "crystal", Name: "Хрустальная люстра", Price: 1500, Quantity: 1},
			{ID: "dismantle", Name: "Демонтаж люстры", Price: 500, Quantity: 1},
			{ID: "assemble", Name: "Сборка люстры", Price: 500, Quantity: 1},
		},
	},
	{
		ProductID:          "sw-install",
		ProductName:        "Установить выключатель",
		ProductDescription: "Монтаж выключателя в готовое место",
		Category:           domain.CategorySwitch,
		SectionCategory:    SectionServices,
		Options: []ServiceOption{
			{ID: "install", Name: "Установить выключатель", Price: 250, Quantity: 1,
				Discount: &DiscountTier{MinQuantity: 3, Percent: 5}},
		},
	},
	{
		ProductID:          "out-install",
		ProductName:        "Установить розетку",
		ProductDescription: "Монтаж розетки в готовое место",
		Category:           domain.CategoryOutlet,
		SectionCategory:    SectionServices,
		Options: []ServiceOption{
			{ID: "install", Name: "Установить розетку", Price: 250, Quantity: 1,
				Discount: &DiscountTier{MinQuantity: 3, Percent: 5}},
		},
	},
	{
		ProductID:          WiringComplexID,
		ProductName:        "Комплексные работы",
		ProductDescription: "Черновой монтаж проводки и электрощитовое оборудование",
		Category:           domain.CategoryOutlet,
		SectionCategory:    SectionWiring,
		Options: []ServiceOption{
			{ID: "add-outlet", Name: "Добавить розетку", Price: 850, Quantity: 1,
				Discount: &DiscountTier{MinQuantity: 3, Percent: 5}},
			{ID: "move-switch", Name: "Выключатель перенести", Price: 1500, Quantity: 1,
				Discount: &DiscountTier{MinQuantity: 3, Percent: 5}},
			{ID: "move-switch-alt", Name: "Выключатель перенести (по готовой штробе)", Price: 1200, Quantity: 1},
			{ID: "block-2", Name: "Блок из 2-х розеток", Price: 1200, Quantity: 1},
			{ID: "block-3", Name: "Блок из 3-х розеток", Price: 2500, Quantity: 1},
			{ID: "block-4", Name: "Блок из 4-х розеток", Price: 3000, Quantity: 1},
			{ID: "block-5", Name: "Блок из 5 розеток", Price: 3500, Quantity: 1},
			{ID: "cable-10m", Name: "Монтаж кабеля, 10 м", Price: 1000, Quantity: 1, Unit: "10 м", NoCable: true},
			{ID: "cable-corrugated", Name: "Монтаж кабеля в гофре, 10 м", Price: 1200, Quantity: 1, Unit: "10 м", NoCable: true},
			{ID: "surface-outlet", Name: "Накладная розетка", Price: 550, Quantity: 1},
			{ID: "gas-sensor", Name: "Перенос газовых детекторов", Price: 1500, Quantity: 1},
			{ID: "repair", Name: "Ремонт проводки", Price: 1000, Quantity: 1},
			{ID: "breaker-install", Name: "Установка автомата", Price: 800, Quantity: 1,
				Group: GroupPanel, NoCable: true},
			{ID: "breaker-replace", Name: "Замена автомата", Price: 600, Quantity: 1,
				Group: GroupPanel, NoCable: true},
			{ID: "meter-230v", Name: "Установка счётчика", Price: 2500, Quantity: 1,
				Group: GroupPanel, NoCable: true,
				VoltageOptions:  map[string]float64{MeterVoltage220: 2500, MeterVoltage380: 3500},
				SelectedVoltage: MeterVoltage220},
			{ID: "box-surface", Name: "Распаечная коробка накладная", Price: 400, Quantity: 1, NoCable: true},
			{ID: "box-flush", Name: "Распаечная коробка скрытая", Price: 700, Quantity: 1, NoCable: true},
			{ID: "equipment-fee", Name: "Материалы и оборудование", Price: 0, Quantity: 1,
				Group: GroupPanel, IsInfo: true, CustomPrice: true,
				Description: "Стоимость материалов рассчитывается по факту"},
		},
	},
}

// NewState returns a fresh container tree built from the templates.
func NewState() *State {
	containers := make([]ServiceContainer, len(templates))
	for i, c := range templates {
		containers[i] = c
		containers[i].Options = make([]ServiceOption, len(c.Options))
		copy(containers[i].Options, c.Options)
	}
	return &State{Containers: containers}
}
