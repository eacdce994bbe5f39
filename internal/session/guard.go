package session

import (
	"context"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"setu/internal/apierr"
)

// Operation is a privileged action executed with a live credential pair.
type Operation func(ctx context.Context, cred Credentials) error

// WithSession is the choke point every privileged API call passes through.
// It reads both credential halves; if either is absent the operation is
// never invoked and an auth error is returned without touching the
// network. A token whose JWT expiry has passed counts as invalid: the
// stored pair is cleared and the caller gets an auth error.
func (s *Store) WithSession(ctx context.Context, op Operation) error {
	cred, err := s.Credentials(ctx)
	if err != nil {
		return err
	}

	if tokenExpired(cred.AccessToken, time.Now()) {
		log.Printf("Session: stored access token expired, clearing credentials")
		if clearErr := s.Clear(ctx); clearErr != nil {
			log.Printf("Session: failed to clear expired credentials: %v", clearErr)
		}
		return apierr.Auth("access token expired")
	}

	return op(ctx, cred)
}

// tokenExpired checks the token's exp claim without verifying the
// signature (verification is the server's job; this only avoids sending
// requests that are guaranteed to bounce). Tokens that don't parse as JWTs
// are passed through untouched.
func tokenExpired(token string, now time.Time) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
