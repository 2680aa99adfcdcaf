package cart

import (
	"testing"

	"printpos/internal/models"

	"github.com/stretchr/testify/assert"
)

func fixedItem(price float64) *models.Item {
	return &models.Item{Name: "Sticker", PricingModel: models.PricingFixed, Price: price}
}

func TestCartTotalsRecomputeOnMutation(t *testing.T) {
	c := New(true, 0.1)

	c.AddLine(fixedItem(1000), models.LineConfig{LocalID: "a", Quantity: 10})
	c.AddLine(fixedItem(500), models.LineConfig{LocalID: "b", Quantity: 4})

	assert.Equal(t, 12000.0, c.Subtotal())
	assert.Equal(t, 1200.0, c.Tax())
	assert.Equal(t, 13200.0, c.Total())

	assert.True(t, c.RemoveLine("b"))
	assert.Equal(t, 10000.0, c.Subtotal())
	assert.Equal(t, 11000.0, c.Total())
}

func TestCartTaxDisabled(t *testing.T) {
	c := New(false, 0.1)
	c.AddLine(fixedItem(1000), models.LineConfig{LocalID: "a", Quantity: 1})

	assert.Equal(t, 0.0, c.Tax())
	assert.Equal(t, 1000.0, c.Total())
}

func TestCartUpdateLineReprices(t *testing.T) {
	c := New(true, 0.1)
	c.AddLine(fixedItem(1000), models.LineConfig{LocalID: "a", Quantity: 1})

	line, ok := c.UpdateLine("a", models.LineConfig{Quantity: 5})
	assert.True(t, ok)
	assert.Equal(t, 5000.0, line.Subtotal)
	assert.Equal(t, 5000.0, c.Subtotal())

	_, ok = c.UpdateLine("missing", models.LineConfig{Quantity: 1})
	assert.False(t, ok)
}

func TestCartSameItemTwiceWithDifferentConfigs(t *testing.T) {
	c := New(false, 0)
	item := fixedItem(2000)

	c.AddLine(item, models.LineConfig{LocalID: "a", Quantity: 1})
	c.AddLine(item, models.LineConfig{LocalID: "b", Quantity: 3, DiscountPercent: 50})

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2000.0+3000.0, c.Subtotal())
}

func TestCartRemoveUnknownLine(t *testing.T) {
	c := New(false, 0)
	assert.False(t, c.RemoveLine("nope"))
}

func TestCartClear(t *testing.T) {
	c := New(true, 0.11)
	c.AddLine(fixedItem(100), models.LineConfig{LocalID: "a", Quantity: 1})
	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0.0, c.Total())
}
