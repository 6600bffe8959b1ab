package models

import "time"

// InventoryItem is one perishable entry in a user's inventory. ExpiresAt is
// computed once when the item is created and never recomputed, even if the
// shelf-life table changes afterwards.
type InventoryItem struct {
	ID          string
	OwnerID     string
	Name        string
	ImageRef    *string
	PurchasedAt time.Time
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// ExpiryBounds restricts an inventory query on ExpiresAt. Nil bounds are
// unbounded. Before is strict (expiresAt < Before); From and Until are
// inclusive (From <= expiresAt <= Until).
type ExpiryBounds struct {
	Before *time.Time
	From   *time.Time
	Until  *time.Time
}
