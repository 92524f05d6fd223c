package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"fanout": map[string]any{
			"topicId":        "",
			"subscriptionId": "",
		},
		"rabbitmq": map[string]any{
			"maxRedeliveries": 5,
			"deadLetterQueue": "",
		},
		"gateway": map[string]any{
			"pongWait": "60s",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "FANOUT_TOPICID", want: "fanout.topicId"},
		{envKey: "FANOUT_SUBSCRIPTION_ID", want: "fanout.subscription.id"},
		{envKey: "RABBITMQ_MAXREDELIVERIES", want: "rabbitmq.maxRedeliveries"},
		{envKey: "GATEWAY_PONGWAIT", want: "gateway.pongWait"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults_FillsMissingSections(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "notification_queue", cfg.RabbitMQ.Queue)
	assert.Equal(t, "notification_queue.retry", cfg.RabbitMQ.RetryQueue)
	assert.Equal(t, "notification_queue.dlq", cfg.RabbitMQ.DeadLetterQueue)
	assert.Equal(t, 1, cfg.RabbitMQ.Prefetch)
	assert.Equal(t, "presence:user:", cfg.Presence.KeyPrefix)
	assert.Equal(t, 24*time.Hour, cfg.Presence.TTL)
	assert.Equal(t, "/ws/notifications", cfg.Gateway.Path)
	assert.Less(t, cfg.Gateway.PingInterval, cfg.Gateway.PongWait)
	assert.Equal(t, 5*time.Second, cfg.Auth.Timeout)
	assert.Equal(t, 20, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 100, cfg.Pagination.MaxLimit)
	assert.Equal(t, "local", cfg.Fanout.Provider)
}

func TestApplyDefaults_KeepsConfiguredValues(t *testing.T) {
	cfg := &Config{
		RabbitMQ:   &RabbitMQConfig{Queue: "custom", Prefetch: 4},
		Pagination: &PaginationConfig{DefaultLimit: 5, MaxLimit: 50},
	}
	applyDefaults(cfg)

	assert.Equal(t, "custom", cfg.RabbitMQ.Queue)
	assert.Equal(t, "custom.dlq", cfg.RabbitMQ.DeadLetterQueue)
	assert.Equal(t, 4, cfg.RabbitMQ.Prefetch)
	assert.Equal(t, 5, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 50, cfg.Pagination.MaxLimit)
}
