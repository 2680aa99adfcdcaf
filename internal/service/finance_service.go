package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"printpos/internal/finance"
	"printpos/internal/models"
	"printpos/internal/store"
	"printpos/internal/util"

	"go.uber.org/zap"
)

var (
	ErrInvalidEntry     = errors.New("invalid finance entry")
	ErrEntryNotFound    = errors.New("finance entry not found")
	ErrCategoryNotFound = errors.New("finance category not found or is a default")
)

// FinanceService owns manual bookkeeping and the unified report.
type FinanceService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewFinanceService creates a new finance service
func NewFinanceService(store *store.Store) *FinanceService {
	return &FinanceService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CreateEntry validates and stores a manual income/expense record, making
// sure its category is registered.
func (fs *FinanceService) CreateEntry(ctx context.Context, entry *models.FinanceEntry) error {
	ctx, span := util.StartSpan(ctx, "FinanceService.CreateEntry")
	defer span.End()

	if entry.Amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidEntry)
	}
	if entry.Type != models.EntryIncome && entry.Type != models.EntryExpense {
		return fmt.Errorf("%w: type must be income or expense", ErrInvalidEntry)
	}
	if entry.Category == "" {
		entry.Category = "Lainnya"
	}

	if _, err := fs.store.EnsureFinanceCategory(ctx, entry.Category, entry.Type); err != nil {
		return err
	}

	if err := fs.store.CreateFinanceEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to create finance entry: %w", err)
	}

	fs.logger.Info("Finance entry created",
		zap.Int64("entry_id", entry.ID),
		zap.String("type", string(entry.Type)),
		zap.Float64("amount", entry.Amount))
	return nil
}

// ListEntries lists manual entries with the same filters the report uses.
func (fs *FinanceService) ListEntries(ctx context.Context, branchID string, from, to *time.Time) ([]models.FinanceEntry, error) {
	return fs.store.GetFinanceEntries(ctx, branchID, from, to)
}

// DeleteEntry removes a manual entry explicitly.
func (fs *FinanceService) DeleteEntry(ctx context.Context, id int64) error {
	deleted, err := fs.store.DeleteFinanceEntry(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEntryNotFound
	}
	return nil
}

// Categories lists the category registry.
func (fs *FinanceService) Categories(ctx context.Context) ([]models.FinanceCategory, error) {
	return fs.store.GetFinanceCategories(ctx)
}

// AddCategory registers a custom category. A duplicate name (compared
// case-insensitively per type) returns the existing category.
func (fs *FinanceService) AddCategory(ctx context.Context, name string, entryType models.EntryType) (*models.FinanceCategory, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidEntry)
	}
	if entryType != models.EntryIncome && entryType != models.EntryExpense {
		return nil, fmt.Errorf("%w: type must be income or expense", ErrInvalidEntry)
	}
	return fs.store.EnsureFinanceCategory(ctx, name, entryType)
}

// DeleteCategory removes a custom category; defaults are protected.
func (fs *FinanceService) DeleteCategory(ctx context.Context, id int64) error {
	deleted, err := fs.store.DeleteFinanceCategory(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCategoryNotFound
	}
	return nil
}

// Report builds the unified income/expense view: one row per payment of
// every non-cancelled, non-expired order plus the manual entries, filtered
// by branch and inclusive date range.
func (fs *FinanceService) Report(ctx context.Context, filter finance.Filter) (*finance.Report, error) {
	ctx, span := util.StartSpan(ctx, "FinanceService.Report")
	defer span.End()

	start := time.Now()
	defer func() {
		util.ReportBuildLatency.Observe(time.Since(start).Seconds())
	}()

	orders, err := fs.store.GetReportableOrders(ctx, filter.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for report: %w", err)
	}

	entries, err := fs.store.GetFinanceEntries(ctx, filter.BranchID, filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("failed to load finance entries: %w", err)
	}

	report := finance.BuildReport(orders, entries, filter)
	return &report, nil
}
