package config

import (
	"testing"
	"time"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.DSN == "" {
		t.Fatalf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if cfg.Shop.Currency != "INR" || cfg.Shop.FreeShippingThreshold != 500 || cfg.Shop.ShippingFee != 40 {
		t.Fatalf("unexpected shop defaults: %+v", cfg.Shop)
	}
	if cfg.Queue.Enabled || cfg.Queue.Queues["default"] != 1 {
		t.Fatalf("unexpected queue defaults: %+v", cfg.Queue)
	}
	if cfg.Security.LoginRateLimit.MaxAttempts != 5 || cfg.Security.PasswordPolicy.MinLength != 6 {
		t.Fatalf("unexpected security defaults: %+v", cfg.Security)
	}
}

func TestTimeoutsFallBack(t *testing.T) {
	if got := (PersistConfig{}).WriteTimeout(); got != 3*time.Second {
		t.Fatalf("persist fallback want 3s got %s", got)
	}
	if got := (PersistConfig{WriteTimeoutMS: 250}).WriteTimeout(); got != 250*time.Millisecond {
		t.Fatalf("persist timeout want 250ms got %s", got)
	}
	if got := (NotifyConfig{TimeoutMS: -1}).Timeout(); got != 5*time.Second {
		t.Fatalf("notify fallback want 5s got %s", got)
	}
}

func TestLogConfigToLoggerOptions(t *testing.T) {
	opts := LogConfig{Level: "warn", Stdout: true, Filename: "x.log", MaxBackups: 2}.ToLoggerOptions()
	if opts.Level != "warn" || !opts.Stdout || opts.Filename != "x.log" || opts.MaxBackups != 2 {
		t.Fatalf("unexpected logger options: %+v", opts)
	}
}
