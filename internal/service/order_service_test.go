package service

import (
	"strings"
	"testing"
	"time"

	"printpos/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderNumberFormat(t *testing.T) {
	now := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

	n := newOrderNumber(now)
	parts := strings.Split(n, "-")

	assert.Len(t, parts, 3)
	assert.Equal(t, "INV", parts[0])
	assert.Equal(t, "20240305", parts[1])
	assert.Len(t, parts[2], 6)

	// Random suffix makes consecutive numbers distinct.
	assert.NotEqual(t, n, newOrderNumber(now))
}

func TestClampDiscount(t *testing.T) {
	assert.Equal(t, 0.0, clampDiscount(-5, 30))
	assert.Equal(t, 20.0, clampDiscount(20, 30))
	assert.Equal(t, 30.0, clampDiscount(45, 30))
}

func TestSnapshotLines(t *testing.T) {
	lines := []models.ConfiguredLine{
		{
			LineConfig: models.LineConfig{
				Quantity:  10,
				Width:     2,
				Height:    1.5,
				Material:  "Flexi 280gsm",
				Finishing: []string{"Laminasi", "Mata Ayam"},
			},
			ItemName:      "Banner",
			Area:          3,
			UnitPrice:     50000,
			FinishingCost: 20000,
			SetupFee:      10000,
			Subtotal:      1530000,
		},
	}

	items := snapshotLines(lines)

	assert.Len(t, items, 1)
	it := items[0]
	assert.Equal(t, "Banner", it.Name)
	assert.Equal(t, 10, it.Quantity)
	assert.Equal(t, 3.0, it.Area)
	assert.Equal(t, "Laminasi, Mata Ayam", it.Finishing)
	assert.Equal(t, 1530000.0, it.Subtotal)
}

func TestValidateOrderLines(t *testing.T) {
	// Full validation goes through the store; see the pricing and cart
	// package tests for the computation itself.
	t.Skip("Requires mocked store")
}
