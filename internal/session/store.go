// Package session owns the credential pair (access token + user id) and
// gates every privileged API call on its presence.
package session

import (
	"context"
	"fmt"

	"setu/internal/apierr"
)

// Storage keys. These match what the mobile client has always used, so an
// existing credential file keeps working.
const (
	keyAccessToken = "accessToken"
	keyUserID      = "userId"
)

// Storage is the async key-value collaborator (secure local storage).
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Credentials is the authenticated pair. Both fields are set together or
// the session counts as logged out.
type Credentials struct {
	AccessToken string
	UserID      string
}

// Store reads and writes credentials through Storage. It is the single
// owner of the pair; other components obtain it per operation and never
// cache it beyond that operation's scope.
type Store struct {
	storage Storage
}

// NewStore creates a credential store on top of storage.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Credentials returns the stored pair, or an auth error when either half
// is absent. Stored "undefined"/"null" strings (leftovers from clients
// that serialized missing values) count as absent.
func (s *Store) Credentials(ctx context.Context) (Credentials, error) {
	token, err := s.storage.Get(ctx, keyAccessToken)
	if err != nil || missing(token) {
		return Credentials{}, apierr.Auth("missing credential")
	}

	userID, err := s.storage.Get(ctx, keyUserID)
	if err != nil || missing(userID) {
		return Credentials{}, apierr.Auth("missing credential")
	}

	return Credentials{AccessToken: token, UserID: userID}, nil
}

// SetCredentials stores both halves of the pair. Partial writes surface as
// errors so callers never end up half logged in.
func (s *Store) SetCredentials(ctx context.Context, cred Credentials) error {
	if missing(cred.AccessToken) || missing(cred.UserID) {
		return apierr.Auth("refusing to store incomplete credentials")
	}

	if err := s.storage.Set(ctx, keyAccessToken, cred.AccessToken); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if err := s.storage.Set(ctx, keyUserID, cred.UserID); err != nil {
		return fmt.Errorf("failed to store user id: %w", err)
	}
	return nil
}

// Clear removes both halves. Sign-out is only complete once both removals
// succeed.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.Remove(ctx, keyAccessToken); err != nil {
		return fmt.Errorf("failed to clear access token: %w", err)
	}
	if err := s.storage.Remove(ctx, keyUserID); err != nil {
		return fmt.Errorf("failed to clear user id: %w", err)
	}
	return nil
}

// LoggedIn reports whether a complete credential pair is stored.
func (s *Store) LoggedIn(ctx context.Context) bool {
	_, err := s.Credentials(ctx)
	return err == nil
}

func missing(value string) bool {
	return value == "" || value == "undefined" || value == "null"
}
