package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 4*time.Second, cfg.Wizard.FlagWindow)
	assert.Equal(t, uint64(3), cfg.Price.Retries)
	assert.Equal(t, "zenith.claims", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Redis.URL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ZENITH_ADDR", ":9999")
	t.Setenv("ZENITH_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("ZENITH_FLAG_WINDOW", "1500ms")
	t.Setenv("ZENITH_PRICE_RETRIES", "10")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 1500*time.Millisecond, cfg.Wizard.FlagWindow)
	assert.Equal(t, uint64(3), cfg.Price.Retries, "price retries are capped")
}

func TestFromEnvRejectsMalformed(t *testing.T) {
	t.Setenv("ZENITH_FLAG_WINDOW", "soon")

	_, err := FromEnv()
	assert.Error(t, err)
}
