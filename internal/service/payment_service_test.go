package service

import (
	"testing"

	"printpos/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestMethodLabel(t *testing.T) {
	assert.Equal(t, "cash", methodLabel(models.MethodCash))
	assert.Equal(t, "qris", methodLabel(models.MethodQRIS))
	assert.Equal(t, "e-wallet", methodLabel(models.MethodEWallet))

	// Open set: stored verbatim, but collapsed for metrics.
	assert.Equal(t, "other", methodLabel(models.PaymentMethod("store-credit")))
	assert.Equal(t, "other", methodLabel(models.PaymentMethod("")))
}
