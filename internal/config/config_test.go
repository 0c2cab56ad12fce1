package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, DefaultMainWebhookURL, cfg.RegistrationWebhookURL)
	assert.Equal(t, DefaultMainWebhookURL, cfg.ChatWebhookURL)
	assert.Equal(t, DefaultRelayWebhookURL, cfg.RelayWebhookURL)
	assert.Equal(t, "STUDEMO1", cfg.ChatUniqueID)
	assert.Equal(t, "STUAMIT1", cfg.RelayUniqueID)
	assert.Equal(t, 30*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30, cfg.RateLimitPerMin)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("CHAT_WEBHOOK_URL", "http://localhost:5678/webhook/chat")
	t.Setenv("CHAT_UNIQUE_ID", "STUTEST9")
	t.Setenv("WEBHOOK_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_PER_MIN", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "http://localhost:5678/webhook/chat", cfg.ChatWebhookURL)
	assert.Equal(t, "STUTEST9", cfg.ChatUniqueID)
	assert.Equal(t, 5*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 3, cfg.RateLimitPerMin)
}

func TestLoad_MissingSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_RejectsRelativeWebhookURL(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("RELAY_WEBHOOK_URL", "/webhook/relay")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RELAY_WEBHOOK_URL")
}
