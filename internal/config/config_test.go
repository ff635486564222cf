package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"LOG_DIR", "LOG_LEVEL", "REDIS_ADDR", "STORE_LOCK_TTL_MINUTES", "KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC", "SERVE_ADDR", "RECEIPT_SECRET", "RECEIPT_SIZE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "", cfg.Log.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Lock.Enabled())
	assert.Equal(t, 30*time.Minute, cfg.Lock.TTL)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "purchase-tracker.orders.recorded", cfg.Kafka.Topic)
	assert.Equal(t, ":8086", cfg.Serve.Addr)
	assert.Equal(t, "", cfg.Receipt.Secret)
	assert.Equal(t, 256, cfg.Receipt.Size)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("STORE_LOCK_TTL_MINUTES", "5")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECEIPT_SIZE", "-4")

	cfg := Load()
	assert.True(t, cfg.Lock.Enabled())
	assert.Equal(t, 5*time.Minute, cfg.Lock.TTL)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 256, cfg.Receipt.Size)
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("STORE_LOCK_TTL_MINUTES", "soon")
	t.Setenv("KAFKA_ENABLED", "perhaps")

	cfg := Load()
	assert.Equal(t, 30*time.Minute, cfg.Lock.TTL)
	assert.False(t, cfg.Kafka.Enabled)
}
