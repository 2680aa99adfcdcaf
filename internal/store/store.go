package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"printpos/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// CreateItem inserts a catalog item definition
func (s *Store) CreateItem(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (name, category, pricing_model, price, price_per_sqm, tiers,
			unit, area_unit, finishing_options, material_options, min_order,
			setup_fee, max_discount, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query,
		item.Name, item.Category, item.PricingModel, item.Price, item.PricePerSqm,
		item.Tiers, item.Unit, item.AreaUnit, item.FinishingOptions,
		item.MaterialOptions, item.MinOrder, item.SetupFee, item.MaxDiscount,
		item.IsActive,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

// UpdateItem replaces a catalog item definition wholesale
func (s *Store) UpdateItem(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items SET name = $1, category = $2, pricing_model = $3, price = $4,
			price_per_sqm = $5, tiers = $6, unit = $7, area_unit = $8,
			finishing_options = $9, material_options = $10, min_order = $11,
			setup_fee = $12, max_discount = $13, is_active = $14, updated_at = NOW()
		WHERE id = $15`

	_, err := s.db.ExecContext(ctx, query,
		item.Name, item.Category, item.PricingModel, item.Price, item.PricePerSqm,
		item.Tiers, item.Unit, item.AreaUnit, item.FinishingOptions,
		item.MaterialOptions, item.MinOrder, item.SetupFee, item.MaxDiscount,
		item.IsActive, item.ID)
	return err
}

// GetItemByID retrieves a catalog item. Returns (nil, nil) on a miss so
// callers can treat deleted or speculative IDs as not found.
func (s *Store) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	err := s.db.GetContext(ctx, &item, "SELECT * FROM items WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItems retrieves catalog items, optionally only active ones
func (s *Store) GetItems(ctx context.Context, activeOnly bool) ([]models.Item, error) {
	query := "SELECT * FROM items ORDER BY id"
	if activeOnly {
		query = "SELECT * FROM items WHERE is_active ORDER BY id"
	}
	var items []models.Item
	err := s.db.SelectContext(ctx, &items, query)
	return items, err
}

// GetItemsByIDs retrieves multiple catalog items by ID
func (s *Store) GetItemsByIDs(ctx context.Context, ids []int64) ([]models.Item, error) {
	if len(ids) == 0 {
		return []models.Item{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM items WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var items []models.Item
	err = s.db.SelectContext(ctx, &items, query, args...)
	return items, err
}
