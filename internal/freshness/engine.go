package freshness

import (
	"fmt"
	"time"

	"freshtrack/api/internal/models"
)

// Status classifies a single item against a reference instant.
type Status string

const (
	StatusExpired Status = "expired"
	StatusWarning Status = "warning"
	StatusSafe    Status = "safe"
)

// Buckets is the notification view over a user's inventory. Spoiled and
// SpoilingSoon are disjoint: an item expiring exactly now is SpoilingSoon.
type Buckets struct {
	Spoiled      []models.InventoryItem
	SpoilingSoon []models.InventoryItem
}

// Engine computes expiry dates and freshness buckets. All date arithmetic
// happens in a single fixed location so results do not depend on the
// server's local clock settings.
type Engine struct {
	table     *Table
	loc       *time.Location
	lookahead time.Duration
}

func NewEngine(table *Table, timezone string, lookahead time.Duration) (*Engine, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Engine{
		table:     table,
		loc:       loc,
		lookahead: lookahead,
	}, nil
}

func (e *Engine) Location() *time.Location {
	return e.loc
}

// ComputeExpiry adds the item's shelf life to its purchase instant using
// calendar-day addition, which keeps the wall-clock time stable across any
// zone offset transitions.
func (e *Engine) ComputeExpiry(name string, purchasedAt time.Time) time.Time {
	days := e.table.Lookup(name)
	return purchasedAt.In(e.loc).AddDate(0, 0, days)
}

var purchaseDateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParsePurchaseDate accepts ISO-8601 purchase dates: full RFC3339, a naive
// datetime, or a bare date. Naive forms are interpreted in the engine's
// fixed location.
func (e *Engine) ParsePurchaseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(e.loc), nil
	}
	for _, layout := range purchaseDateLayouts {
		if t, err := time.ParseInLocation(layout, value, e.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid purchase date %q", value)
}

// SoonWindow is the inclusive expiry range that counts as "spoiling soon"
// relative to now.
func (e *Engine) SoonWindow(now time.Time) (from, until time.Time) {
	return now, now.Add(e.lookahead)
}

// StatusOf reports the freshness of one item at the reference instant.
func (e *Engine) StatusOf(item models.InventoryItem, now time.Time) Status {
	switch {
	case item.ExpiresAt.Before(now):
		return StatusExpired
	case !item.ExpiresAt.After(now.Add(e.lookahead)):
		return StatusWarning
	default:
		return StatusSafe
	}
}

// Classify partitions items into the two notification buckets in a single
// pass. Comparisons use the stored expiry instant as-is.
func (e *Engine) Classify(items []models.InventoryItem, now time.Time) Buckets {
	var buckets Buckets
	for _, item := range items {
		switch e.StatusOf(item, now) {
		case StatusExpired:
			buckets.Spoiled = append(buckets.Spoiled, item)
		case StatusWarning:
			buckets.SpoilingSoon = append(buckets.SpoilingSoon, item)
		}
	}
	return buckets
}
