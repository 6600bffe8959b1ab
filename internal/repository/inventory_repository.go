package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"freshtrack/api/internal/models"
)

// InventoryRepository is the Postgres implementation of the inventory store
// contract. Every query carries the owner id so no request can cross user
// partitions.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

func (r *InventoryRepository) Insert(ctx context.Context, item models.InventoryItem) error {
	const query = `
		INSERT INTO inventory_items (
			id, owner_id, name, image_ref, purchased_at, expires_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.OwnerID,
		item.Name,
		item.ImageRef,
		item.PurchasedAt,
		item.ExpiresAt,
	)
	return err
}

func (r *InventoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.InventoryItem, error) {
	const query = `
		SELECT id, owner_id, name, image_ref, purchased_at, expires_at, created_at
		FROM inventory_items
		WHERE owner_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

func (r *InventoryRepository) QueryByOwnerAndExpiryRange(ctx context.Context, ownerID string, bounds models.ExpiryBounds) ([]models.InventoryItem, error) {
	query := `
		SELECT id, owner_id, name, image_ref, purchased_at, expires_at, created_at
		FROM inventory_items
		WHERE owner_id = $1
	`
	args := []any{ownerID}

	if bounds.Before != nil {
		args = append(args, *bounds.Before)
		query += fmt.Sprintf(" AND expires_at < $%d", len(args))
	}
	if bounds.From != nil {
		args = append(args, *bounds.From)
		query += fmt.Sprintf(" AND expires_at >= $%d", len(args))
	}
	if bounds.Until != nil {
		args = append(args, *bounds.Until)
		query += fmt.Sprintf(" AND expires_at <= $%d", len(args))
	}
	query += " ORDER BY expires_at"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows pgx.Rows) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	for rows.Next() {
		var item models.InventoryItem
		if err := rows.Scan(
			&item.ID,
			&item.OwnerID,
			&item.Name,
			&item.ImageRef,
			&item.PurchasedAt,
			&item.ExpiresAt,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
