package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 5000, cfg.HTTP.Port)

	assert.Equal(t, "Asia/Jakarta", cfg.Freshness.Timezone)
	assert.Equal(t, 5, cfg.Freshness.DefaultDays)
	assert.Equal(t, 48*time.Hour, cfg.Freshness.Lookahead)
	assert.Equal(t, map[string]int{
		"apel":     6,
		"wortel":   7,
		"tomat":    5,
		"pisang":   4,
		"semangka": 1,
	}, cfg.Freshness.ShelfLife)

	assert.Equal(t, 0.3, cfg.Detection.ConfidenceThreshold)
	assert.Equal(t, 30*time.Second, cfg.Detection.Timeout)
	assert.Equal(t, []string{"apel", "wortel", "tomat", "pisang", "semangka"}, cfg.Detection.Labels)

	assert.Equal(t, "uploads", cfg.Scratch.Dir)
	assert.Equal(t, time.Hour, cfg.Scratch.SweepAge)
	assert.Equal(t, 5*time.Second, cfg.Postgres.QueryTimeout)
}
