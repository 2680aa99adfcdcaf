package pricing

import (
	"testing"

	"printpos/internal/models"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func tieredItem() *models.Item {
	return &models.Item{
		Name:         "Business Card",
		PricingModel: models.PricingTiered,
		Price:        2000,
		Tiers: models.PriceTiers{
			{MinQty: 10, MaxQty: intPtr(99), Price: 1500},
			{MinQty: 100, MaxQty: intPtr(499), Price: 1000},
			{MinQty: 500, MaxQty: nil, Price: 750},
		},
		MinOrder: 1,
	}
}

func TestTierSelection(t *testing.T) {
	item := tieredItem()

	assert.Equal(t, 1500.0, UnitPrice(item, 10))
	assert.Equal(t, 1500.0, UnitPrice(item, 99))
	assert.Equal(t, 1000.0, UnitPrice(item, 100))
	assert.Equal(t, 750.0, UnitPrice(item, 500))
	assert.Equal(t, 750.0, UnitPrice(item, 100000)) // unbounded top tier
}

func TestTierMissFallsBackToBasePrice(t *testing.T) {
	item := tieredItem()

	// Quantity below every tier's MinQty uses the base price, not tier zero.
	assert.Equal(t, 2000.0, UnitPrice(item, 5))

	// Empty tier list also falls back.
	item.Tiers = nil
	assert.Equal(t, 2000.0, UnitPrice(item, 100))
}

func TestTierWithoutPriceIsSkipped(t *testing.T) {
	item := tieredItem()
	item.Tiers[0].Price = 0

	assert.Equal(t, 2000.0, UnitPrice(item, 50))
}

func TestAreaModelUnitPrice(t *testing.T) {
	item := &models.Item{PricingModel: models.PricingArea, PricePerSqm: 50000}
	assert.Equal(t, 50000.0, UnitPrice(item, 1))

	// PricePerSqm unset falls back to the base price.
	item = &models.Item{PricingModel: models.PricingArea, Price: 40000}
	assert.Equal(t, 40000.0, UnitPrice(item, 1))
}

func TestAreaSubtotalFormula(t *testing.T) {
	item := &models.Item{
		Name:         "Banner",
		PricingModel: models.PricingArea,
		PricePerSqm:  50000,
	}
	line := BuildLine(item, models.LineConfig{
		Quantity: 10,
		Width:    2,
		Height:   1.5,
	})

	assert.Equal(t, 3.0, line.Area)
	assert.Equal(t, 50000.0, line.UnitPrice)
	assert.Equal(t, 1500000.0, line.Subtotal)
}

func TestAreaModelZeroAreaContributesZero(t *testing.T) {
	item := &models.Item{PricingModel: models.PricingArea, PricePerSqm: 50000}

	// Width without height: partial configuration prices to zero, no panic.
	line := BuildLine(item, models.LineConfig{Quantity: 2, Width: 3})
	assert.Equal(t, 0.0, line.Area)
	assert.Equal(t, 0.0, line.Subtotal)
}

func TestDiscountApplied(t *testing.T) {
	item := &models.Item{PricingModel: models.PricingFixed, Price: 100000, MaxDiscount: 30}
	line := BuildLine(item, models.LineConfig{Quantity: 2, DiscountPercent: 20})

	assert.Equal(t, 80000.0, line.UnitPrice)
	assert.Equal(t, 160000.0, line.Subtotal)
}

func TestOverrideForcesDiscountToZero(t *testing.T) {
	item := &models.Item{PricingModel: models.PricingFixed, Price: 100000, MaxDiscount: 30}
	line := BuildLine(item, models.LineConfig{
		Quantity:          1,
		DiscountPercent:   20,
		OverrideUnitPrice: 75000,
	})

	assert.Equal(t, 75000.0, line.UnitPrice)
	assert.Equal(t, 0.0, line.DiscountPercent)
	assert.Equal(t, 75000.0, line.Subtotal)
}

func TestFinishingCost(t *testing.T) {
	item := &models.Item{
		PricingModel: models.PricingArea,
		PricePerSqm:  50000,
		FinishingOptions: models.FinishingOptions{
			{Name: "Laminasi", Price: 5000, PricingType: models.FinishingPerArea},
			{Name: "Mata Ayam", Price: 2000, PricingType: models.FinishingPerUnit},
			{Name: "Desain", Price: 25000, PricingType: models.FinishingFlat},
		},
	}

	// area = 2, qty = 3
	cost := FinishingCost(item, []string{"Laminasi", "Mata Ayam", "Desain"}, 2, 3)
	// 5000*2*3 + 2000*3 + 25000 = 30000 + 6000 + 25000
	assert.Equal(t, 61000.0, cost)
}

func TestFinishingUnknownNameIgnored(t *testing.T) {
	item := &models.Item{
		FinishingOptions: models.FinishingOptions{
			{Name: "Laminasi", Price: 5000, PricingType: models.FinishingPerUnit},
		},
	}
	cost := FinishingCost(item, []string{"Laminasi", "Removed Option"}, 0, 2)
	assert.Equal(t, 10000.0, cost)
}

func TestSubtotalIncludesFinishingAndSetupOnce(t *testing.T) {
	item := &models.Item{
		PricingModel: models.PricingFixed,
		Price:        1000,
		SetupFee:     50000,
		FinishingOptions: models.FinishingOptions{
			{Name: "Cutting", Price: 100, PricingType: models.FinishingPerUnit},
		},
	}
	line := BuildLine(item, models.LineConfig{Quantity: 100, Finishing: []string{"Cutting"}})

	// 1000*100 + 100*100 + 50000; finishing already carries the quantity
	// multiplication, the subtotal must not multiply it again.
	assert.Equal(t, 10000.0, line.FinishingCost)
	assert.Equal(t, 160000.0, line.Subtotal)
}

func TestTieredLineTotal(t *testing.T) {
	line := BuildLine(tieredItem(), models.LineConfig{Quantity: 250})
	assert.Equal(t, 1000.0, line.UnitPrice)
	assert.Equal(t, 250000.0, line.Subtotal)
}
