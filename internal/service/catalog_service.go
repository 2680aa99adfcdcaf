package service

import (
	"context"
	"errors"
	"fmt"

	"printpos/internal/models"
	"printpos/internal/redisclient"
	"printpos/internal/store"
	"printpos/internal/util"

	"go.uber.org/zap"
)

var ErrInvalidItem = errors.New("invalid item definition")

// CatalogService manages the sellable item definitions. The pricing engine
// only ever reads the snapshots this service hands out.
type CatalogService struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store, redis *redisclient.Client) *CatalogService {
	return &CatalogService{
		store:  store,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// CreateItem validates and stores a new catalog item.
func (cs *CatalogService) CreateItem(ctx context.Context, item *models.Item) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateItem")
	defer span.End()

	if err := validateItem(item); err != nil {
		return err
	}

	if err := cs.store.CreateItem(ctx, item); err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	cs.invalidateCache(ctx)
	cs.logger.Info("Catalog item created",
		zap.Int64("item_id", item.ID),
		zap.String("name", item.Name))
	return nil
}

// UpdateItem validates and replaces an existing catalog item.
func (cs *CatalogService) UpdateItem(ctx context.Context, item *models.Item) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateItem")
	defer span.End()

	if err := validateItem(item); err != nil {
		return err
	}

	existing, err := cs.store.GetItemByID(ctx, item.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrItemNotFound
	}

	if err := cs.store.UpdateItem(ctx, item); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	cs.invalidateCache(ctx)
	return nil
}

// GetItem retrieves one catalog item; (nil, nil) on a miss.
func (cs *CatalogService) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	return cs.store.GetItemByID(ctx, id)
}

// ListActiveItems serves the active catalog, Redis snapshot first.
func (cs *CatalogService) ListActiveItems(ctx context.Context) ([]models.Item, error) {
	if cs.redis != nil {
		cached, err := cs.redis.GetCatalog(ctx)
		if err != nil {
			cs.logger.Warn("Catalog cache read failed, falling back to DB", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	items, err := cs.store.GetItems(ctx, true)
	if err != nil {
		return nil, err
	}

	if cs.redis != nil {
		if err := cs.redis.SetCatalog(ctx, items); err != nil {
			cs.logger.Warn("Catalog cache write failed", zap.Error(err))
		}
	}
	return items, nil
}

func (cs *CatalogService) invalidateCache(ctx context.Context) {
	if cs.redis == nil {
		return
	}
	if err := cs.redis.InvalidateCatalog(ctx); err != nil {
		cs.logger.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}

func validateItem(item *models.Item) error {
	if item.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	switch item.PricingModel {
	case models.PricingFixed, models.PricingArea, models.PricingTiered:
	default:
		return fmt.Errorf("%w: unknown pricing model %q", ErrInvalidItem, item.PricingModel)
	}
	if item.MinOrder < 1 {
		item.MinOrder = 1
	}
	if item.SetupFee < 0 {
		return fmt.Errorf("%w: setup fee cannot be negative", ErrInvalidItem)
	}
	if item.MaxDiscount < 0 || item.MaxDiscount > 100 {
		return fmt.Errorf("%w: max discount must be between 0 and 100", ErrInvalidItem)
	}
	return nil
}
