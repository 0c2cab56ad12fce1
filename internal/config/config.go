package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultMainWebhookURL  = "https://aviadigitalmind.app.n8n.cloud/webhook/AI-BUDDY-MAIN"
	DefaultRelayWebhookURL = "https://nclbtaru.app.n8n.cloud/webhook/AI-BUDDY-MAIN"
	DefaultChatUniqueID    = "STUDEMO1"
	DefaultRelayUniqueID   = "STUAMIT1"
)

type Config struct {
	// Server
	Port        string
	Env         string
	FrontendURL string

	// Webhooks
	RegistrationWebhookURL string
	ChatWebhookURL         string
	RelayWebhookURL        string
	ChatUniqueID           string
	RelayUniqueID          string
	WebhookTimeout         time.Duration

	// Chat sessions
	SessionSecret string
	SessionTTL    time.Duration

	// Redis (optional, sessions stay in memory without it)
	RedisURL string

	RateLimitPerMin int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:                   v.GetString("PORT"),
		Env:                    v.GetString("ENV"),
		FrontendURL:            v.GetString("FRONTEND_URL"),
		RegistrationWebhookURL: v.GetString("REGISTRATION_WEBHOOK_URL"),
		ChatWebhookURL:         v.GetString("CHAT_WEBHOOK_URL"),
		RelayWebhookURL:        v.GetString("RELAY_WEBHOOK_URL"),
		ChatUniqueID:           v.GetString("CHAT_UNIQUE_ID"),
		RelayUniqueID:          v.GetString("RELAY_UNIQUE_ID"),
		WebhookTimeout:         v.GetDuration("WEBHOOK_TIMEOUT"),
		SessionSecret:          v.GetString("SESSION_SECRET"),
		SessionTTL:             v.GetDuration("SESSION_TTL"),
		RedisURL:               v.GetString("REDIS_URL"),
		RateLimitPerMin:        v.GetInt("RATE_LIMIT_PER_MIN"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("REGISTRATION_WEBHOOK_URL", DefaultMainWebhookURL)
	v.SetDefault("CHAT_WEBHOOK_URL", DefaultMainWebhookURL)
	v.SetDefault("RELAY_WEBHOOK_URL", DefaultRelayWebhookURL)
	v.SetDefault("CHAT_UNIQUE_ID", DefaultChatUniqueID)
	v.SetDefault("RELAY_UNIQUE_ID", DefaultRelayUniqueID)
	v.SetDefault("WEBHOOK_TIMEOUT", 30*time.Second)
	v.SetDefault("SESSION_TTL", 2*time.Hour)
	v.SetDefault("RATE_LIMIT_PER_MIN", 30)
}

func (c *Config) validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("required environment variable SESSION_SECRET is not set")
	}

	webhooks := map[string]string{
		"REGISTRATION_WEBHOOK_URL": c.RegistrationWebhookURL,
		"CHAT_WEBHOOK_URL":         c.ChatWebhookURL,
		"RELAY_WEBHOOK_URL":        c.RelayWebhookURL,
	}
	for key, raw := range webhooks {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
		}
	}

	if c.WebhookTimeout <= 0 {
		return fmt.Errorf("WEBHOOK_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.RateLimitPerMin <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MIN must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs with production logging.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
