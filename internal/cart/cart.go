package cart

import (
	"printpos/internal/models"
	"printpos/internal/pricing"
)

// Cart holds an in-progress order draft: an ordered list of configured
// lines keyed by caller-generated local IDs. Multiple lines may reference
// the same catalog item with different configurations. The cart is a
// transient draft; it is discarded or converted into an order on submit.
type Cart struct {
	taxEnabled bool
	taxRate    float64
	lines      []models.ConfiguredLine
	items      map[string]*models.Item // local ID -> item definition, for recompute
}

// New creates an empty cart for a business with the given tax policy.
func New(taxEnabled bool, taxRate float64) *Cart {
	return &Cart{
		taxEnabled: taxEnabled,
		taxRate:    taxRate,
		items:      make(map[string]*models.Item),
	}
}

// AddLine prices the configuration and appends it as a new line.
func (c *Cart) AddLine(item *models.Item, cfg models.LineConfig) models.ConfiguredLine {
	line := pricing.BuildLine(item, cfg)
	c.lines = append(c.lines, line)
	c.items[cfg.LocalID] = item
	return line
}

// UpdateLine reprices an existing line with a new configuration. Returns
// false when the local ID is unknown.
func (c *Cart) UpdateLine(localID string, cfg models.LineConfig) (models.ConfiguredLine, bool) {
	item, ok := c.items[localID]
	if !ok {
		return models.ConfiguredLine{}, false
	}
	cfg.LocalID = localID
	line := pricing.BuildLine(item, cfg)
	for i := range c.lines {
		if c.lines[i].LocalID == localID {
			c.lines[i] = line
			return line, true
		}
	}
	return models.ConfiguredLine{}, false
}

// RemoveLine deletes a line by local ID. Returns false when not found.
func (c *Cart) RemoveLine(localID string) bool {
	for i := range c.lines {
		if c.lines[i].LocalID == localID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			delete(c.items, localID)
			return true
		}
	}
	return false
}

// Lines returns the configured lines in insertion order.
func (c *Cart) Lines() []models.ConfiguredLine {
	return c.lines
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Clear discards every line.
func (c *Cart) Clear() {
	c.lines = nil
	c.items = make(map[string]*models.Item)
}

// Subtotal sums every line's subtotal.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, l := range c.lines {
		sum += l.Subtotal
	}
	return sum
}

// Tax is subtotal times the business tax rate, zero when tax is disabled.
func (c *Cart) Tax() float64 {
	if !c.taxEnabled {
		return 0
	}
	return c.Subtotal() * c.taxRate
}

// Total is subtotal plus tax.
func (c *Cart) Total() float64 {
	return c.Subtotal() + c.Tax()
}

// Totals returns subtotal, tax and total in one pass.
func (c *Cart) Totals() (subtotal, tax, total float64) {
	subtotal = c.Subtotal()
	if c.taxEnabled {
		tax = subtotal * c.taxRate
	}
	return subtotal, tax, subtotal + tax
}
