package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"), "test-passphrase")
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	return store
}

func TestFileStore_SetGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Set(ctx, "accessToken", "abc123"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := store.Get(ctx, "accessToken")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != "abc123" {
		t.Errorf("Get() = %q, want %q", got, "abc123")
	}
}

func TestFileStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Get(ctx, "userId")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestFileStore_Remove(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Set(ctx, "userId", "u1"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Remove(ctx, "userId"); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if _, err := store.Get(ctx, "userId"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Remove() error = %v, want ErrNotFound", err)
	}

	// Removing an absent key is not an error
	if err := store.Remove(ctx, "userId"); err != nil {
		t.Errorf("Remove() of absent key failed: %v", err)
	}
}

func TestFileStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	store.Set(ctx, "accessToken", "abc")
	store.Set(ctx, "userId", "u1")

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}

	for _, key := range []string{"accessToken", "userId"} {
		if _, err := store.Get(ctx, key); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) after Clear() error = %v, want ErrNotFound", key, err)
		}
	}
}

func TestFileStore_ValuesEncryptedAtRest(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewFileStore(path, "test-passphrase")
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}

	if err := store.Set(ctx, "accessToken", "super-secret-token"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read store file: %v", err)
	}
	if strings.Contains(string(raw), "super-secret-token") {
		t.Error("store file contains plaintext value")
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")

	first, err := NewFileStore(path, "test-passphrase")
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	if err := first.Set(ctx, "userId", "u42"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	second, err := NewFileStore(path, "test-passphrase")
	if err != nil {
		t.Fatalf("NewFileStore() reopen failed: %v", err)
	}
	got, err := second.Get(ctx, "userId")
	if err != nil {
		t.Fatalf("Get() after reopen failed: %v", err)
	}
	if got != "u42" {
		t.Errorf("Get() = %q, want %q", got, "u42")
	}
}

func TestNewFileStore_EmptyPassphrase(t *testing.T) {
	_, err := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"), "")
	if err == nil {
		t.Error("NewFileStore() expected error for empty passphrase, got nil")
	}
}
