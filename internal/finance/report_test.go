package finance

import (
	"testing"
	"time"

	"printpos/internal/models"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 10, 0, 0, 0, time.UTC)
}

func sampleOrders() []models.Order {
	return []models.Order{
		{
			ID: 1, OrderNumber: "INV-20240301-aa11", BranchID: "main",
			Status: models.StatusCompleted,
			Payments: []models.PaymentRecord{
				{ID: 11, Amount: 500000, CreatedAt: day(1)},
				{ID: 12, Amount: 500000, CreatedAt: day(3)},
			},
		},
		{
			ID: 2, OrderNumber: "INV-20240302-bb22", BranchID: "main",
			Status: models.StatusCancelled,
			Payments: []models.PaymentRecord{
				{ID: 13, Amount: 250000, CreatedAt: day(2)},
			},
		},
		{
			ID: 3, OrderNumber: "INV-20240302-cc33", BranchID: "branch-2",
			Status: models.StatusInProgress,
			Payments: []models.PaymentRecord{
				{ID: 14, Amount: 100000, CreatedAt: day(2)},
			},
		},
	}
}

func sampleEntries() []models.FinanceEntry {
	return []models.FinanceEntry{
		{ID: 21, Type: models.EntryExpense, Amount: 300000, Category: "Bahan Baku", BranchID: "main", CreatedAt: day(2)},
		{ID: 22, Type: models.EntryIncome, Amount: 150000, Category: "Lainnya", BranchID: "main", CreatedAt: day(4)},
	}
}

func TestBuildReportMergesAndExcludesCancelled(t *testing.T) {
	r := BuildReport(sampleOrders(), sampleEntries(), Filter{})

	// Order 2 is cancelled: its payment must not appear.
	assert.Len(t, r.Rows, 5)
	for _, row := range r.Rows {
		assert.NotEqual(t, int64(13), row.RefID)
	}

	assert.Equal(t, 1250000.0, r.TotalIncome)
	assert.Equal(t, 300000.0, r.TotalExpense)
	assert.Equal(t, 950000.0, r.NetProfit)
}

func TestPaymentRowsShape(t *testing.T) {
	r := BuildReport(sampleOrders()[:1], nil, Filter{})

	assert.Len(t, r.Rows, 2)
	row := r.Rows[0]
	assert.Equal(t, SourceOrder, row.Source)
	assert.Equal(t, models.EntryIncome, row.Type)
	assert.Equal(t, OrderCategory, row.Category)
	assert.Equal(t, "INV-20240301-aa11", row.Description)
	assert.Equal(t, 500000.0, row.Amount)
	assert.Equal(t, day(1), row.Date)
}

func TestBranchFilter(t *testing.T) {
	r := BuildReport(sampleOrders(), sampleEntries(), Filter{BranchID: "branch-2"})

	assert.Len(t, r.Rows, 1)
	assert.Equal(t, 100000.0, r.TotalIncome)
	assert.Equal(t, 100000.0, r.NetProfit)
}

func TestDateRangeFilterInclusive(t *testing.T) {
	from := day(2)
	to := day(3)
	r := BuildReport(sampleOrders(), sampleEntries(), Filter{From: &from, To: &to})

	// day(2): payment 14 + expense 21; day(3): payment 12. Both ends inclusive.
	assert.Len(t, r.Rows, 3)
	assert.Equal(t, 600000.0, r.TotalIncome)
	assert.Equal(t, 300000.0, r.TotalExpense)
}

func TestIncomeExpenseSubsets(t *testing.T) {
	r := BuildReport(sampleOrders(), sampleEntries(), Filter{})

	assert.Len(t, r.Income(), 4)
	assert.Len(t, r.Expense(), 1)
}

func TestRowsSortedByDate(t *testing.T) {
	r := BuildReport(sampleOrders(), sampleEntries(), Filter{})
	for i := 1; i < len(r.Rows); i++ {
		assert.False(t, r.Rows[i].Date.Before(r.Rows[i-1].Date))
	}
}
