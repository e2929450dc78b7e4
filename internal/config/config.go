// Package config loads and validates the application configuration.
//
// Values come from environment variables (optionally seeded from a `.env`
// file through godotenv/autoload). Every variable carries the HANDYMAN_
// prefix and uses dots for nesting:
//
//	HANDYMAN_SERVER.PORT=5000       -> Config.Server.Port
//	HANDYMAN_AUTH.PROVIDER_URL=...  -> Config.Auth.ProviderURL
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// EnvPrefix is stripped from every environment variable before it is mapped
// onto the Config struct.
const EnvPrefix = "HANDYMAN_"

const (
	DefaultPort      = "5000"
	DefaultClientURL = "http://localhost:3000"
)

type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port               string          `koanf:"port" validate:"required"`
	ReadTimeout        int             `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int             `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int             `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string        `koanf:"cors_allowed_origins"`
	RateLimit          RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig bounds how many requests a single client IP may send to the
// public auth endpoints within one Window. Counters are kept in Redis.
type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests" validate:"min=1"`
	Window   time.Duration `koanf:"window" validate:"min=1s"`
}

type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig describes the external identity provider (a GoTrue / Supabase
// Auth endpoint) and where password reset links should send the user.
type AuthConfig struct {
	ProviderURL string        `koanf:"provider_url" validate:"required,url"`
	AnonKey     string        `koanf:"anon_key" validate:"required"`
	ClientURL   string        `koanf:"client_url" validate:"required,url"`
	Timeout     time.Duration `koanf:"timeout" validate:"min=1s"`
}

type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key" validate:"required"`
	EmailFrom    string `koanf:"email_from"`
}

// LoadConfig reads the environment, applies defaults and validates the result.
// Any failure is fatal: the process cannot run with a broken configuration.
func LoadConfig() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load initial env variables")
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not unmarshal main config")
	}

	mainConfig.applyDefaults()

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("config validation failed")
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	mainConfig.Observability.ServiceName = "handyman-api"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return mainConfig, nil
}

// applyDefaults fills the values that have a documented default. The plain
// PORT and CLIENT_URL variables are honored for platforms that inject them.
func (c *Config) applyDefaults() {
	if c.Primary.Env == "" {
		c.Primary.Env = "development"
	}

	if c.Server.Port == "" {
		c.Server.Port = firstNonEmpty(os.Getenv("PORT"), DefaultPort)
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if c.Server.RateLimit.Requests == 0 {
		c.Server.RateLimit.Requests = 20
	}
	if c.Server.RateLimit.Window == 0 {
		c.Server.RateLimit.Window = time.Minute
	}

	if c.Auth.ClientURL == "" {
		c.Auth.ClientURL = firstNonEmpty(os.Getenv("CLIENT_URL"), DefaultClientURL)
	}
	c.Auth.ClientURL = strings.TrimRight(c.Auth.ClientURL, "/")
	c.Auth.ProviderURL = strings.TrimRight(c.Auth.ProviderURL, "/")
	if c.Auth.Timeout == 0 {
		c.Auth.Timeout = 10 * time.Second
	}

	if c.Integration.EmailFrom == "" {
		c.Integration.EmailFrom = "Handyman <onboarding@resend.dev>"
	}
}

// ResetPasswordURL is where the identity provider's reset email points to.
func (c *Config) ResetPasswordURL() string {
	return c.Auth.ClientURL + "/reset-password"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
