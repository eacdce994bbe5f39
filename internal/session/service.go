package session

import (
	"context"
	"fmt"
	"log"

	"setu/internal/infrastructure/setuapi"
)

// AuthAPI is the slice of the API client the login flow needs.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*setuapi.LoginResponse, error)
}

// Service is the single writer of the credential store: login and sign-out
// go through here, everything else only reads.
type Service struct {
	store  *Store
	client AuthAPI
}

// NewService creates the login/sign-out service.
func NewService(store *Store, client AuthAPI) *Service {
	return &Service{store: store, client: client}
}

// LoginResult reports the outcome of a successful login.
type LoginResult struct {
	UserID                string
	IsHealthFormCompleted bool
}

// Login authenticates and stores the issued credential pair. Any existing
// pair is cleared first so a failed login never leaves stale credentials
// behind.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if err := s.store.Clear(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear previous credentials: %w", err)
	}

	resp, err := s.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	cred := Credentials{AccessToken: resp.AccessToken, UserID: resp.UserID}
	if err := s.store.SetCredentials(ctx, cred); err != nil {
		return nil, err
	}

	log.Printf("Session: user %s logged in", resp.UserID)
	return &LoginResult{
		UserID:                resp.UserID,
		IsHealthFormCompleted: resp.IsHealthFormCompleted,
	}, nil
}

// SignOut clears the stored credential pair.
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	log.Println("Session: signed out")
	return nil
}

// Store exposes the underlying credential store for guard composition.
func (s *Service) Store() *Store {
	return s.store
}
