package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("SETU_STORAGE_PASSPHRASE", "test-passphrase")
}

func TestLoad_Success(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Storage.Passphrase != "test-passphrase" {
		t.Errorf("Storage.Passphrase = %q, want %q", cfg.Storage.Passphrase, "test-passphrase")
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("API.Timeout = %v, want %v", cfg.API.Timeout, 10*time.Second)
	}
	if cfg.Retry.MaxAttempts != 4 {
		t.Errorf("Retry.MaxAttempts = %d, want %d", cfg.Retry.MaxAttempts, 4)
	}
	if cfg.Retry.Delay != 5*time.Second {
		t.Errorf("Retry.Delay = %v, want %v", cfg.Retry.Delay, 5*time.Second)
	}
	if len(cfg.Sync.Collections) != 4 {
		t.Errorf("Sync.Collections has %d entries, want 4", len(cfg.Sync.Collections))
	}
}

func TestLoad_MissingPassphrase(t *testing.T) {
	t.Setenv("SETU_STORAGE_PASSPHRASE", "")
	os.Unsetenv("SETU_STORAGE_PASSPHRASE")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing SETU_STORAGE_PASSPHRASE, got nil")
	}
}

func TestLoad_InvalidRetryAttempts(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("SETU_RETRY_ATTEMPTS", "not-a-number")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for invalid SETU_RETRY_ATTEMPTS, got nil")
	}
}

func TestLoad_RetryAttemptsBelowOne(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("SETU_RETRY_ATTEMPTS", "0")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for SETU_RETRY_ATTEMPTS=0, got nil")
	}
}

func TestLoad_CollectionsParsing(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("SYNC_COLLECTIONS", " documents , prescriptions ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := []string{"documents", "prescriptions"}
	if len(cfg.Sync.Collections) != len(want) {
		t.Fatalf("Sync.Collections = %v, want %v", cfg.Sync.Collections, want)
	}
	for i, c := range want {
		if cfg.Sync.Collections[i] != c {
			t.Errorf("Sync.Collections[%d] = %q, want %q", i, cfg.Sync.Collections[i], c)
		}
	}
}
