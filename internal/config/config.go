package config

import (
	"errors"
	"fmt"
	"strings"

	commoncfg "github.com/DidierBrusa/tap-talk-api/common/config"

	"github.com/joeshaw/envdecode"
)

// Notification publishing backends.
const (
	NotifyNone  = "none"
	NotifyRedis = "redis"
	NotifyMQTT  = "mqtt"
)

// Config is the tap-talk-api configuration, read from the environment.
type Config struct {
	HTTP struct {
		Addr        string `env:"HTTP_ADDR,default=:3000"`
		CORSOrigins string `env:"CORS_ORIGINS,default=*"`
	}
	// DBEnabled=false serves from the in-memory store; data is lost on exit.
	DBEnabled bool `env:"DB_ENABLED,default=true"`

	Database commoncfg.DatabaseConfig
	Redis    commoncfg.RedisConfig
	MQTT     commoncfg.MQTTConfig
	Notify   struct {
		Backend string `env:"NOTIFY_BACKEND,default=none"`
		Stream  string `env:"NOTIFY_STREAM,default=tap-talk:notificaciones"`
		Topic   string `env:"NOTIFY_TOPIC,default=tap-talk/grupos"`
	}
	Auth struct {
		Enabled        bool   `env:"AUTH_ENABLED,default=false"`
		JWTSecret      string `env:"AUTH_JWT_SECRET"`
		ProviderURL    string `env:"AUTH_PROVIDER_URL"`
		ProviderAPIKey string `env:"AUTH_PROVIDER_API_KEY"`
	}
	Log struct {
		Level  string `env:"LOG_LEVEL,default=info"`
		Format string `env:"LOG_FORMAT,default=json"`
	}
}

// Load decodes the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Notify.Backend {
	case NotifyNone, NotifyRedis, NotifyMQTT:
	default:
		return fmt.Errorf("NOTIFY_BACKEND must be one of none, redis, mqtt (got %q)", c.Notify.Backend)
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" && c.Auth.ProviderURL == "" {
		return errors.New("AUTH_ENABLED requires AUTH_JWT_SECRET or AUTH_PROVIDER_URL")
	}
	return nil
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.HTTP.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
