// Package storage implements the local secure key-value store backing the
// credential store. Values are encrypted at rest; the file is rewritten
// atomically on every mutation.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"setu/internal/infrastructure/crypto"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("key not found")

// FileStore is an encrypted JSON file keyed by string.
type FileStore struct {
	path      string
	encryptor *crypto.Encryptor
	mu        sync.Mutex
}

// NewFileStore creates a store persisting to path, encrypting values with
// a key derived from the passphrase.
func NewFileStore(path, passphrase string) (*FileStore, error) {
	if passphrase == "" {
		return nil, errors.New("storage passphrase is required")
	}

	enc, err := crypto.NewEncryptor(crypto.DeriveKey(passphrase, filepath.Base(path)))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize encryptor: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FileStore{path: path, encryptor: enc}, nil
}

// Get returns the value stored under key, or ErrNotFound.
func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", err
	}

	encrypted, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}

	value, err := s.encryptor.Decrypt(encrypted)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt value for %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any existing value.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}

	encrypted, err := s.encryptor.Encrypt(value)
	if err != nil {
		return fmt.Errorf("failed to encrypt value for %q: %w", key, err)
	}

	values[key] = encrypted
	return s.write(values)
}

// Remove deletes key. Removing an absent key is not an error.
func (s *FileStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}

	delete(values, key)
	return s.write(values)
}

// Clear removes every stored value.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(map[string]string{})
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse store file: %w", err)
	}
	return values, nil
}

// write replaces the store file atomically (temp file + rename) so a crash
// mid-write never leaves a truncated credential file.
func (s *FileStore) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}
