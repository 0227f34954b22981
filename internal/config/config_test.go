package config

import (
	"strings"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}

	if cfg.StoreNamespace != "members" {
		t.Errorf("Expected default namespace members, got %s", cfg.StoreNamespace)
	}

	if cfg.RateLimitWindow != time.Minute {
		t.Errorf("Expected default window 1m, got %s", cfg.RateLimitWindow)
	}
}

func TestNew_AllowsMissingWebhookSecret(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("HELIO_WEBHOOK_SECRET", "")

	cfg, err := New()
	if err != nil {
		t.Fatalf("Expected missing secret to be tolerated at startup, got %v", err)
	}

	if cfg.WebhookSecret != "" {
		t.Errorf("Expected empty secret, got %q", cfg.WebhookSecret)
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := &Config{StorageDriver: "dynamo", StoreNamespace: "members", RateLimitMax: 10}

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("Expected validation error")
	}

	if !strings.Contains(err.Error(), "STORAGE_DRIVER") {
		t.Errorf("Expected driver error, got %v", err)
	}
}

func TestValidate_RedisNeedsURL(t *testing.T) {
	cfg := &Config{StorageDriver: DriverRedis, StoreNamespace: "members", RateLimitMax: 10}

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "REDIS_URL") {
		t.Errorf("Expected REDIS_URL error, got %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{StorageDriver: "dynamo", StoreNamespace: "", RateLimitMax: 0}

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("Expected validation errors")
	}

	msg := err.Error()
	for _, want := range []string{"STORAGE_DRIVER", "MEMBERS_NAMESPACE", "RATE_LIMIT_MAX"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected %s in combined error, got %v", want, err)
		}
	}
}
