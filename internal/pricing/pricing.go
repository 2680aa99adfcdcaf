package pricing

import (
	"printpos/internal/models"
)

// Pure price computation for configured line items. Nothing in this package
// raises errors: missing price fields and zero dimensions resolve to
// zero-valued contributions so callers can price partial configurations.

// UnitPrice computes the base unit price for an item at the given quantity,
// before any discount or override.
func UnitPrice(item *models.Item, quantity int) float64 {
	switch item.PricingModel {
	case models.PricingArea:
		if item.PricePerSqm > 0 {
			return item.PricePerSqm
		}
		return item.Price
	case models.PricingTiered:
		return tierPrice(item, quantity)
	default:
		return item.Price
	}
}

// tierPrice scans tiers in order and returns the first whose range contains
// the quantity. A quantity outside every tier falls back to the base price,
// never to tier zero. Tiers without a positive price are skipped so a
// half-authored tier cannot zero out a line.
func tierPrice(item *models.Item, quantity int) float64 {
	for _, t := range item.Tiers {
		if t.Price <= 0 {
			continue
		}
		if quantity < t.MinQty {
			continue
		}
		if t.MaxQty != nil && quantity > *t.MaxQty {
			continue
		}
		return t.Price
	}
	return item.Price
}

// EffectiveUnitPrice applies the discount-XOR-override rule. A positive
// override replaces the base price outright; otherwise the percentage
// discount applies as given. The caller is responsible for clamping the
// discount to [0, item.MaxDiscount] beforehand.
func EffectiveUnitPrice(base, discountPercent, overrideUnitPrice float64) float64 {
	if overrideUnitPrice > 0 {
		return overrideUnitPrice
	}
	return base * (1 - discountPercent/100)
}

// FinishingCost totals the selected finishing options. Names not present in
// the item's options are ignored; the catalog may have changed since the
// selection was made.
func FinishingCost(item *models.Item, selected []string, area float64, quantity int) float64 {
	if len(selected) == 0 {
		return 0
	}
	var total float64
	for _, name := range selected {
		for _, opt := range item.FinishingOptions {
			if opt.Name != name {
				continue
			}
			switch opt.PricingType {
			case models.FinishingPerArea:
				total += opt.Price * area * float64(quantity)
			case models.FinishingFlat:
				total += opt.Price
			default: // per_unit
				total += opt.Price * float64(quantity)
			}
			break
		}
	}
	return total
}

// BuildLine prices a full line configuration against its item definition.
// The returned line carries the config back with discount forced to zero
// when an override is set; the two are mutually exclusive by construction.
func BuildLine(item *models.Item, cfg models.LineConfig) models.ConfiguredLine {
	area := 0.0
	if cfg.Width > 0 && cfg.Height > 0 {
		area = cfg.Width * cfg.Height
	}

	base := UnitPrice(item, cfg.Quantity)
	if cfg.OverrideUnitPrice > 0 {
		cfg.DiscountPercent = 0
	}
	unit := EffectiveUnitPrice(base, cfg.DiscountPercent, cfg.OverrideUnitPrice)

	finishing := FinishingCost(item, cfg.Finishing, area, cfg.Quantity)

	var subtotal float64
	if item.PricingModel == models.PricingArea {
		subtotal = unit*area*float64(cfg.Quantity) + finishing + item.SetupFee
	} else {
		subtotal = unit*float64(cfg.Quantity) + finishing + item.SetupFee
	}

	return models.ConfiguredLine{
		LineConfig:    cfg,
		ItemName:      item.Name,
		Area:          area,
		UnitPrice:     unit,
		FinishingCost: finishing,
		SetupFee:      item.SetupFee,
		Subtotal:      subtotal,
	}
}
