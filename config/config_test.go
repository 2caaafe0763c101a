package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	keys := []string{
		"PORT", "ENV", "DATABASE_URL",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"KAFKA_BROKERS", "KAFKA_TOPIC_PARKING_EVENTS", "KAFKA_CONSUMER_GROUP",
		"JAEGER_ENDPOINT", "SESSION_TTL_HOURS",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "parking-events", cfg.Kafka.TopicParking)
	assert.Equal(t, "parking-service-group", cfg.Kafka.ConsumerGroup)
	assert.Equal(t, 24, cfg.Auth.SessionTTLHours)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SESSION_TTL_HOURS", "48")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 48, cfg.Auth.SessionTTLHours)
}
