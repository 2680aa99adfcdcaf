package finance

import (
	"sort"
	"time"

	"printpos/internal/models"
)

// OrderCategory is the fixed category assigned to payment-derived rows.
const OrderCategory = "Order"

// RowSource tells a report row's origin apart.
type RowSource string

const (
	SourceOrder  RowSource = "order"
	SourceManual RowSource = "manual"
)

// Row is one line of the unified report. Payment-derived rows are computed
// at report time and never stored.
type Row struct {
	Source      RowSource        `json:"source"`
	RefID       int64            `json:"ref_id"`
	Type        models.EntryType `json:"type"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Amount      float64          `json:"amount"`
	BranchID    string           `json:"branch_id"`
	Date        time.Time        `json:"date"`
}

// Filter narrows the report by branch and inclusive date range. Zero values
// leave the dimension unfiltered.
type Filter struct {
	BranchID string
	From     *time.Time
	To       *time.Time
}

// Report is the filtered row set with its income/expense split.
type Report struct {
	Rows         []Row   `json:"rows"`
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	NetProfit    float64 `json:"net_profit"`
}

// BuildReport merges payment-derived income rows with manual entries into a
// single filtered view. Orders must carry their payments loaded; cancelled
// and expired orders contribute nothing. The function performs no writes.
func BuildReport(orders []models.Order, entries []models.FinanceEntry, f Filter) Report {
	rows := make([]Row, 0, len(entries))

	for _, o := range orders {
		if o.Status == models.StatusCancelled || o.Status == models.StatusExpired {
			continue
		}
		for _, p := range o.Payments {
			rows = appendIfMatch(rows, Row{
				Source:      SourceOrder,
				RefID:       p.ID,
				Type:        models.EntryIncome,
				Category:    OrderCategory,
				Description: o.OrderNumber,
				Amount:      p.Amount,
				BranchID:    o.BranchID,
				Date:        p.CreatedAt,
			}, f)
		}
	}

	for _, e := range entries {
		rows = appendIfMatch(rows, Row{
			Source:      SourceManual,
			RefID:       e.ID,
			Type:        e.Type,
			Category:    e.Category,
			Description: e.Description,
			Amount:      e.Amount,
			BranchID:    e.BranchID,
			Date:        e.CreatedAt,
		}, f)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	r := Report{Rows: rows}
	for _, row := range rows {
		if row.Type == models.EntryIncome {
			r.TotalIncome += row.Amount
		} else {
			r.TotalExpense += row.Amount
		}
	}
	r.NetProfit = r.TotalIncome - r.TotalExpense
	return r
}

// Income returns the income subset of a report's rows.
func (r Report) Income() []Row { return r.subset(models.EntryIncome) }

// Expense returns the expense subset of a report's rows.
func (r Report) Expense() []Row { return r.subset(models.EntryExpense) }

func (r Report) subset(t models.EntryType) []Row {
	out := make([]Row, 0, len(r.Rows))
	for _, row := range r.Rows {
		if row.Type == t {
			out = append(out, row)
		}
	}
	return out
}

func appendIfMatch(rows []Row, row Row, f Filter) []Row {
	if f.BranchID != "" && row.BranchID != f.BranchID {
		return rows
	}
	if f.From != nil && row.Date.Before(*f.From) {
		return rows
	}
	if f.To != nil && row.Date.After(*f.To) {
		return rows
	}
	return append(rows, row)
}
