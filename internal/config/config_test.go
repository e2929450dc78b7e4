package config

import (
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CLIENT_URL", "")

	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Server.Port != DefaultPort {
		t.Fatalf("port = %q, want %q", cfg.Server.Port, DefaultPort)
	}
	if cfg.Auth.ClientURL != DefaultClientURL {
		t.Fatalf("client url = %q, want %q", cfg.Auth.ClientURL, DefaultClientURL)
	}
	if cfg.Auth.Timeout != 10*time.Second {
		t.Fatalf("auth timeout = %v, want 10s", cfg.Auth.Timeout)
	}
	if cfg.Server.RateLimit.Requests != 20 || cfg.Server.RateLimit.Window != time.Minute {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.Server.RateLimit)
	}
	if got := cfg.ResetPasswordURL(); got != "http://localhost:3000/reset-password" {
		t.Fatalf("reset url = %q", got)
	}
}

func TestApplyDefaultsHonorsPlatformVariables(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("CLIENT_URL", "https://handyman.example.com/")

	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Server.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Server.Port)
	}
	if got := cfg.ResetPasswordURL(); got != "https://handyman.example.com/reset-password" {
		t.Fatalf("reset url = %q", got)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	t.Setenv("PORT", "9999")

	cfg := &Config{Server: ServerConfig{Port: "7000"}}
	cfg.applyDefaults()

	if cfg.Server.Port != "7000" {
		t.Fatalf("explicit port overwritten: %q", cfg.Server.Port)
	}
}

func TestObservabilityValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ObservabilityConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *ObservabilityConfig) {}},
		{name: "bad level", mutate: func(c *ObservabilityConfig) { c.Logging.Level = "trace" }, wantErr: true},
		{name: "missing service name", mutate: func(c *ObservabilityConfig) { c.ServiceName = "" }, wantErr: true},
		{name: "negative threshold", mutate: func(c *ObservabilityConfig) { c.Logging.SlowQueryThreshold = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultObservabilityConfig()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetLogLevel(t *testing.T) {
	c := &ObservabilityConfig{Environment: "production"}
	if got := c.GetLogLevel(); got != "info" {
		t.Fatalf("production default = %q, want info", got)
	}

	c.Environment = "development"
	if got := c.GetLogLevel(); got != "debug" {
		t.Fatalf("development default = %q, want debug", got)
	}

	c.Logging.Level = "warn"
	if got := c.GetLogLevel(); got != "warn" {
		t.Fatalf("explicit level = %q, want warn", got)
	}
}

func TestShouldCheck(t *testing.T) {
	c := DefaultObservabilityConfig()
	if !c.ShouldCheck("database") || !c.ShouldCheck("redis") {
		t.Fatal("expected database and redis checks to be enabled")
	}
	if c.ShouldCheck("smtp") {
		t.Fatal("unexpected smtp check")
	}

	c.HealthChecks.Enabled = false
	if c.ShouldCheck("database") {
		t.Fatal("checks should be off when health checks are disabled")
	}
}
