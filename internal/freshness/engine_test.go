package freshness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshtrack/api/internal/models"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	table := NewTable(map[string]int{
		"apel":     6,
		"wortel":   7,
		"tomat":    5,
		"pisang":   4,
		"semangka": 1,
	}, 5)
	engine, err := NewEngine(table, "Asia/Jakarta", 48*time.Hour)
	require.NoError(t, err)
	return engine
}

func TestTableLookup(t *testing.T) {
	table := NewTable(map[string]int{"tomat": 5, "Semangka": 1}, 5)

	assert.Equal(t, 5, table.Lookup("tomat"))
	assert.Equal(t, 1, table.Lookup("semangka"))
	assert.Equal(t, 5, table.Lookup("  Tomat  "))
	assert.Equal(t, 5, table.Lookup("durian"))
}

func TestComputeExpiry(t *testing.T) {
	engine := testEngine(t)
	jakarta := engine.Location()

	purchased := time.Date(2024, 1, 1, 0, 0, 0, 0, jakarta)

	expiry := engine.ComputeExpiry("tomat", purchased)
	assert.True(t, expiry.Equal(time.Date(2024, 1, 6, 0, 0, 0, 0, jakarta)))

	expiry = engine.ComputeExpiry("unknown_fruit", purchased)
	assert.True(t, expiry.Equal(time.Date(2024, 1, 6, 0, 0, 0, 0, jakarta)), "unknown names fall back to the default shelf life")

	expiry = engine.ComputeExpiry("semangka", purchased)
	assert.True(t, expiry.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, jakarta)))
}

func TestComputeExpiryKeepsWallClock(t *testing.T) {
	engine := testEngine(t)

	// Purchase expressed in a different zone still lands on the same wall
	// clock time in the engine's fixed zone.
	purchased := time.Date(2023, 12, 31, 17, 0, 0, 0, time.UTC) // midnight Jakarta
	expiry := engine.ComputeExpiry("tomat", purchased)

	assert.Equal(t, 2024, expiry.Year())
	assert.Equal(t, time.January, expiry.Month())
	assert.Equal(t, 5, expiry.Day())
	assert.Equal(t, 0, expiry.Hour())
}

func TestParsePurchaseDate(t *testing.T) {
	engine := testEngine(t)
	jakarta := engine.Location()

	cases := []struct {
		input string
		want  time.Time
	}{
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, jakarta)},
		{"2024-01-01T08:30:00", time.Date(2024, 1, 1, 8, 30, 0, 0, jakarta)},
		{"2024-01-01T08:30:00+07:00", time.Date(2024, 1, 1, 8, 30, 0, 0, jakarta)},
	}
	for _, tc := range cases {
		got, err := engine.ParsePurchaseDate(tc.input)
		require.NoError(t, err, tc.input)
		assert.True(t, got.Equal(tc.want), "%s parsed to %v", tc.input, got)
	}

	for _, bad := range []string{"", "yesterday", "01/02/2024", "2024-13-40"} {
		_, err := engine.ParsePurchaseDate(bad)
		assert.Error(t, err, bad)
	}
}

func itemExpiring(name string, expiresAt time.Time) models.InventoryItem {
	return models.InventoryItem{
		ID:        name,
		OwnerID:   "owner",
		Name:      name,
		ExpiresAt: expiresAt,
	}
}

func TestClassifyBoundaries(t *testing.T) {
	engine := testEngine(t)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, engine.Location())

	items := []models.InventoryItem{
		itemExpiring("spoiled", now.Add(-time.Second)),
		itemExpiring("exactly_now", now),
		itemExpiring("window_edge", now.Add(48*time.Hour)),
		itemExpiring("beyond_window", now.Add(48*time.Hour+time.Second)),
	}

	buckets := engine.Classify(items, now)

	require.Len(t, buckets.Spoiled, 1)
	assert.Equal(t, "spoiled", buckets.Spoiled[0].Name)

	require.Len(t, buckets.SpoilingSoon, 2)
	assert.Equal(t, "exactly_now", buckets.SpoilingSoon[0].Name)
	assert.Equal(t, "window_edge", buckets.SpoilingSoon[1].Name)
}

func TestClassifyBucketsAreDisjoint(t *testing.T) {
	engine := testEngine(t)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, engine.Location())

	var items []models.InventoryItem
	for hours := -100; hours <= 100; hours += 7 {
		items = append(items, itemExpiring("item", now.Add(time.Duration(hours)*time.Hour)))
	}

	buckets := engine.Classify(items, now)

	seen := make(map[time.Time]struct{})
	for _, item := range buckets.Spoiled {
		seen[item.ExpiresAt] = struct{}{}
	}
	for _, item := range buckets.SpoilingSoon {
		_, dup := seen[item.ExpiresAt]
		assert.False(t, dup, "item in both buckets: %v", item.ExpiresAt)
	}
}

func TestFreshItemNeverSpoiled(t *testing.T) {
	engine := testEngine(t)
	jakarta := engine.Location()
	purchased := time.Date(2024, 5, 1, 9, 0, 0, 0, jakarta)

	for _, name := range []string{"apel", "wortel", "tomat", "pisang", "semangka", "anything_else"} {
		item := itemExpiring(name, engine.ComputeExpiry(name, purchased))

		// Any instant strictly before the expiry keeps the item out of the
		// spoiled bucket.
		for _, now := range []time.Time{purchased, item.ExpiresAt.Add(-time.Minute)} {
			buckets := engine.Classify([]models.InventoryItem{item}, now)
			assert.Empty(t, buckets.Spoiled, "%s spoiled at %v", name, now)
		}
	}
}

func TestStatusOf(t *testing.T) {
	engine := testEngine(t)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, engine.Location())

	assert.Equal(t, StatusExpired, engine.StatusOf(itemExpiring("a", now.Add(-time.Hour)), now))
	assert.Equal(t, StatusWarning, engine.StatusOf(itemExpiring("b", now), now))
	assert.Equal(t, StatusWarning, engine.StatusOf(itemExpiring("c", now.Add(24*time.Hour)), now))
	assert.Equal(t, StatusSafe, engine.StatusOf(itemExpiring("d", now.Add(72*time.Hour)), now))
}
