package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"printpos/internal/models"
)

// CreateFinanceEntry inserts a manual income/expense record.
func (s *Store) CreateFinanceEntry(ctx context.Context, entry *models.FinanceEntry) error {
	query := `
		INSERT INTO finance_entries (type, amount, description, category, branch_id, created_by, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return s.db.QueryRowxContext(ctx, query,
		entry.Type, entry.Amount, entry.Description, entry.Category,
		entry.BranchID, entry.CreatedBy, entry.Note,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// GetFinanceEntries lists manual entries, optionally filtered by branch and
// inclusive date range.
func (s *Store) GetFinanceEntries(ctx context.Context, branchID string, from, to *time.Time) ([]models.FinanceEntry, error) {
	query := "SELECT * FROM finance_entries WHERE 1=1"
	args := []interface{}{}
	if branchID != "" {
		args = append(args, branchID)
		query += fmt.Sprintf(" AND branch_id = $%d", len(args))
	}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	var entries []models.FinanceEntry
	err := s.db.SelectContext(ctx, &entries, query, args...)
	return entries, err
}

// DeleteFinanceEntry removes a manual entry. Returns false on a miss.
func (s *Store) DeleteFinanceEntry(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM finance_entries WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetFinanceCategories lists the category registry.
func (s *Store) GetFinanceCategories(ctx context.Context) ([]models.FinanceCategory, error) {
	var cats []models.FinanceCategory
	err := s.db.SelectContext(ctx, &cats,
		"SELECT * FROM finance_categories ORDER BY type, name")
	return cats, err
}

// EnsureFinanceCategory inserts a category unless one with the same name
// (case-insensitive) and type already exists; in that case the existing
// category is returned instead of creating a duplicate.
func (s *Store) EnsureFinanceCategory(ctx context.Context, name string, entryType models.EntryType) (*models.FinanceCategory, error) {
	var existing models.FinanceCategory
	err := s.db.GetContext(ctx, &existing,
		"SELECT * FROM finance_categories WHERE LOWER(name) = LOWER($1) AND type = $2",
		name, entryType)
	if err == nil {
		return &existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	cat := models.FinanceCategory{Name: name, Type: entryType}
	err = s.db.QueryRowxContext(ctx, `
		INSERT INTO finance_categories (name, type, is_default)
		VALUES ($1, $2, FALSE)
		RETURNING id, created_at`,
		cat.Name, cat.Type,
	).Scan(&cat.ID, &cat.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert finance category: %w", err)
	}
	return &cat, nil
}

// DeleteFinanceCategory removes a custom category. Default categories
// cannot be deleted; attempts report false.
func (s *Store) DeleteFinanceCategory(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM finance_categories WHERE id = $1 AND NOT is_default", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SeedDefaultCategories inserts the fixed default category set if missing.
func (s *Store) SeedDefaultCategories(ctx context.Context) error {
	defaults := []models.FinanceCategory{
		{Name: "Order", Type: models.EntryIncome},
		{Name: "Lainnya", Type: models.EntryIncome},
		{Name: "Bahan Baku", Type: models.EntryExpense},
		{Name: "Gaji", Type: models.EntryExpense},
		{Name: "Operasional", Type: models.EntryExpense},
		{Name: "Lainnya", Type: models.EntryExpense},
	}

	for _, c := range defaults {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO finance_categories (name, type, is_default)
			SELECT $1, $2, TRUE
			WHERE NOT EXISTS (
				SELECT 1 FROM finance_categories
				WHERE LOWER(name) = LOWER($1) AND type = $2
			)`,
			c.Name, c.Type)
		if err != nil {
			return fmt.Errorf("failed to seed category %s/%s: %w", c.Type, c.Name, err)
		}
	}
	return nil
}
