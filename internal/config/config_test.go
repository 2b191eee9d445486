package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PORT", "")
	t.Setenv("PUBLISH_RATE_LIMIT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Expected sqlite driver, got %s", cfg.Database.Driver)
	}
	if cfg.Server.Port != "8000" {
		t.Errorf("Expected port 8000, got %s", cfg.Server.Port)
	}
	if cfg.Webhook.Username != "Website" {
		t.Errorf("Expected webhook username 'Website', got %s", cfg.Webhook.Username)
	}
	if cfg.Publish.RateLimit != 0.5 {
		t.Errorf("Expected rate limit 0.5, got %v", cfg.Publish.RateLimit)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("WEBHOOK_TIMEOUT", "3s")
	t.Setenv("PUBLISH_RATE_LIMIT", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Webhook.Timeout != 3*time.Second {
		t.Errorf("Expected 3s timeout, got %v", cfg.Webhook.Timeout)
	}
	if cfg.Publish.RateLimit != 0 {
		t.Errorf("Expected throttling disabled, got %v", cfg.Publish.RateLimit)
	}
	dsn := cfg.Database.GetDSN()
	if !strings.Contains(dsn, "host=db.internal") {
		t.Errorf("Expected postgres DSN with host, got %s", dsn)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: DriverSQLite, Path: "news.db"},
			Webhook:  WebhookConfig{Timeout: time.Second},
			Publish:  PublishConfig{RateLimit: 1, RateBurst: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid sqlite", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, true},
		{"sqlite without path", func(c *Config) { c.Database.Path = "" }, true},
		{"postgres without host", func(c *Config) {
			c.Database.Driver = DriverPostgres
			c.Database.Name = "news"
		}, true},
		{"negative rate", func(c *Config) { c.Publish.RateLimit = -1 }, true},
		{"rate without burst", func(c *Config) { c.Publish.RateBurst = 0 }, true},
		{"throttling disabled without burst", func(c *Config) {
			c.Publish.RateLimit = 0
			c.Publish.RateBurst = 0
		}, false},
		{"zero webhook timeout", func(c *Config) { c.Webhook.Timeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetDSN_SQLite(t *testing.T) {
	c := DatabaseConfig{Driver: DriverSQLite, Path: "/tmp/news.db", BusyTimeout: 2 * time.Second}
	dsn := c.GetDSN()
	if !strings.HasPrefix(dsn, "file:/tmp/news.db?") {
		t.Errorf("Unexpected DSN prefix: %s", dsn)
	}
	if !strings.Contains(dsn, "busy_timeout(2000)") {
		t.Errorf("Expected busy timeout pragma, got %s", dsn)
	}
}
