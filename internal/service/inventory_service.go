package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"freshtrack/api/internal/apperr"
	"freshtrack/api/internal/freshness"
	"freshtrack/api/internal/ids"
	"freshtrack/api/internal/models"
)

// InventoryStore is the per-user inventory contract consumed by the service
// layer. Implementations must partition records by owner so that no call
// ever returns another owner's items.
type InventoryStore interface {
	Insert(ctx context.Context, item models.InventoryItem) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.InventoryItem, error)
	QueryByOwnerAndExpiryRange(ctx context.Context, ownerID string, bounds models.ExpiryBounds) ([]models.InventoryItem, error)
}

type AddItemInput struct {
	OwnerID      string
	Name         string
	ImageRef     string
	PurchaseDate string
}

// NotificationLists are the two name lists returned by the notification
// endpoint. The buckets are disjoint: an item expiring exactly at the
// reference instant counts as spoiling soon, not spoiled.
type NotificationLists struct {
	Spoiled      []string
	SpoilingSoon []string
}

type InventoryService struct {
	store        InventoryStore
	engine       *freshness.Engine
	queryTimeout time.Duration
	log          zerolog.Logger
}

func NewInventoryService(store InventoryStore, engine *freshness.Engine, queryTimeout time.Duration, log zerolog.Logger) *InventoryService {
	return &InventoryService{
		store:        store,
		engine:       engine,
		queryTimeout: queryTimeout,
		log:          log,
	}
}

// AddItem validates the purchase input, computes the expiry once, and
// persists the record under the caller's partition.
func (s *InventoryService) AddItem(ctx context.Context, input AddItemInput) (models.InventoryItem, error) {
	name := freshness.Normalize(input.Name)
	if name == "" || input.PurchaseDate == "" {
		return models.InventoryItem{}, apperr.New(apperr.KindMissingInput, "name and purchaseDate are required")
	}

	purchasedAt, err := s.engine.ParsePurchaseDate(input.PurchaseDate)
	if err != nil {
		return models.InventoryItem{}, apperr.Wrap(apperr.KindInvalidDate, "purchaseDate is not a valid ISO-8601 date", err)
	}

	item := models.InventoryItem{
		ID:          ids.New(),
		OwnerID:     input.OwnerID,
		Name:        name,
		PurchasedAt: purchasedAt,
		ExpiresAt:   s.engine.ComputeExpiry(name, purchasedAt),
		CreatedAt:   time.Now().UTC(),
	}
	if input.ImageRef != "" {
		ref := input.ImageRef
		item.ImageRef = &ref
	}

	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.store.Insert(qctx, item); err != nil {
		return models.InventoryItem{}, apperr.Wrap(apperr.KindStoreFailure, "save inventory item", err)
	}
	return item, nil
}

func (s *InventoryService) ListItems(ctx context.Context, ownerID string) ([]models.InventoryItem, error) {
	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	items, err := s.store.ListByOwner(qctx, ownerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreFailure, "list inventory items", err)
	}
	return items, nil
}

// Notifications partitions the caller's inventory with two expiry-range
// queries against the store: strictly-before-now, and the inclusive
// look-ahead window starting at now.
func (s *InventoryService) Notifications(ctx context.Context, ownerID string, now time.Time) (NotificationLists, error) {
	now = now.In(s.engine.Location())

	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	spoiled, err := s.store.QueryByOwnerAndExpiryRange(qctx, ownerID, models.ExpiryBounds{
		Before: &now,
	})
	if err != nil {
		return NotificationLists{}, apperr.Wrap(apperr.KindStoreFailure, "query spoiled items", err)
	}

	from, until := s.engine.SoonWindow(now)
	soon, err := s.store.QueryByOwnerAndExpiryRange(qctx, ownerID, models.ExpiryBounds{
		From:  &from,
		Until: &until,
	})
	if err != nil {
		return NotificationLists{}, apperr.Wrap(apperr.KindStoreFailure, "query spoiling-soon items", err)
	}

	return NotificationLists{
		Spoiled:      itemNames(spoiled),
		SpoilingSoon: itemNames(soon),
	}, nil
}

// StatusOf annotates one item with its freshness at the reference instant.
func (s *InventoryService) StatusOf(item models.InventoryItem, now time.Time) freshness.Status {
	return s.engine.StatusOf(item, now)
}

func itemNames(items []models.InventoryItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}
