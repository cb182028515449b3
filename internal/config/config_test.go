package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envMap(m map[string]string) envLookup {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URI":            "postgres://localhost/fundmart",
		"VENUE_ADDRESS":           "http://venue.local",
		"PRODUCT_SERVICE_ADDRESS": "http://products.local",
		"NOTIFY_ADDRESS":          "http://notify.local",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(nil, envMap(baseEnv()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RunAddress != defaultRunAddress {
		t.Fatalf("unexpected run address: %s", cfg.RunAddress)
	}
	if cfg.OTPTTL != 10*time.Minute {
		t.Fatalf("unexpected otp ttl: %s", cfg.OTPTTL)
	}
	if cfg.AuthStrategy != "hmac" {
		t.Fatalf("unexpected auth strategy: %s", cfg.AuthStrategy)
	}
	if cfg.WorkerPoolSize != defaultWorkerPoolSize {
		t.Fatalf("unexpected worker pool size: %d", cfg.WorkerPoolSize)
	}
}

func TestLoadRequiresDatabaseURI(t *testing.T) {
	env := baseEnv()
	delete(env, "DATABASE_URI")
	if _, err := load(nil, envMap(env)); err == nil {
		t.Fatal("expected error for missing database URI")
	}
}

func TestLoadRequiresVenueAddress(t *testing.T) {
	env := baseEnv()
	delete(env, "VENUE_ADDRESS")
	if _, err := load(nil, envMap(env)); err == nil {
		t.Fatal("expected error for missing venue address")
	}
}

func TestLoadRejectsUnknownAuthStrategy(t *testing.T) {
	env := baseEnv()
	env["AUTH_STRATEGY"] = "basic"
	if _, err := load(nil, envMap(env)); err == nil {
		t.Fatal("expected error for unknown auth strategy")
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	env := baseEnv()
	env["RUN_ADDRESS"] = ":9999"
	cfg, err := load([]string{"-a", ":7777", "-otp-ttl", "5m", "-auth-strategy", "jwt"}, envMap(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RunAddress != ":7777" {
		t.Fatalf("expected flag to win, got %s", cfg.RunAddress)
	}
	if cfg.OTPTTL != 5*time.Minute {
		t.Fatalf("unexpected otp ttl: %s", cfg.OTPTTL)
	}
	if cfg.AuthStrategy != "jwt" {
		t.Fatalf("unexpected auth strategy: %s", cfg.AuthStrategy)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	if _, err := load([]string{"-reconcile-interval", "bogus"}, envMap(baseEnv())); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoadTokenSecretFile(t *testing.T) {
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "secret")
	if err := os.WriteFile(secretPath, []byte("file-secret"), 0o600); err != nil {
		t.Fatalf("write secret file: %v", err)
	}
	env := baseEnv()
	env["TOKEN_SECRET_FILE"] = secretPath
	cfg, err := load(nil, envMap(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TokenSecret != "file-secret" {
		t.Fatalf("unexpected token secret: %q", cfg.TokenSecret)
	}
}

func TestLoadSanitizesNonPositiveValues(t *testing.T) {
	env := baseEnv()
	env["WORKER_POOL_SIZE"] = "-2"
	env["RECONCILE_BATCH_SIZE"] = "0"
	cfg, err := load(nil, envMap(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WorkerPoolSize != defaultWorkerPoolSize {
		t.Fatalf("unexpected worker pool size: %d", cfg.WorkerPoolSize)
	}
	if cfg.MaxReconcileBatch != defaultMaxBatch {
		t.Fatalf("unexpected batch size: %d", cfg.MaxReconcileBatch)
	}
}
