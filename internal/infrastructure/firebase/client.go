// Package firebase delivers reminder notifications to the user's devices
// through Firebase Cloud Messaging.
package firebase

import (
	"context"
	"fmt"
	"log"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"setu/internal/shared/messages"
)

const fcmBatchLimit = 500

// Notifier implements reminder.Notifier over FCM multicast. Tokens that
// FCM reports as unregistered or invalid are pruned from the set so they
// are not retried forever.
type Notifier struct {
	msgClient *messaging.Client

	mu     sync.Mutex
	tokens []string
}

// NewNotifier initializes a Firebase app and returns an FCM-backed
// notifier targeting the given device tokens.
func NewNotifier(ctx context.Context, credentialsFile string, tokens []string) (*Notifier, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("at least one device token is required")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging client: %w", err)
	}

	return &Notifier{msgClient: msgClient, tokens: tokens}, nil
}

// Notify pushes one notification to every registered device token,
// batching into chunks of 500 (Firebase API limit).
func (n *Notifier) Notify(ctx context.Context, msg messages.MessageText) error {
	tokens := n.activeTokens()
	if len(tokens) == 0 {
		return fmt.Errorf("no active device tokens")
	}

	var totalSuccess, totalFailure int
	for _, batch := range chunkTokens(tokens, fcmBatchLimit) {
		mcast := &messaging.MulticastMessage{
			Tokens: batch,
			Notification: &messaging.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
		}

		resp, err := n.msgClient.SendEachForMulticast(ctx, mcast)
		if err != nil {
			return fmt.Errorf("failed to send FCM multicast: %w", err)
		}

		totalSuccess += resp.SuccessCount
		totalFailure += resp.FailureCount
		if resp.FailureCount > 0 {
			n.handleFailures(batch, resp)
		}
	}

	log.Printf("FCM multicast: %d success, %d failure", totalSuccess, totalFailure)
	if totalSuccess == 0 {
		return fmt.Errorf("notification reached no device (%d failures)", totalFailure)
	}
	return nil
}

func (n *Notifier) handleFailures(batch []string, resp *messaging.BatchResponse) {
	for i, sendResp := range resp.Responses {
		if sendResp.Error == nil {
			continue
		}
		if messaging.IsUnregistered(sendResp.Error) || messaging.IsInvalidArgument(sendResp.Error) {
			log.Printf("Invalid FCM token (pruning): %s", batch[i])
			n.pruneToken(batch[i])
		} else {
			log.Printf("FCM send error for token %s: %v", batch[i], sendResp.Error)
		}
	}
}

func (n *Notifier) activeTokens() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.tokens))
	copy(out, n.tokens)
	return out
}

func (n *Notifier) pruneToken(token string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	kept := n.tokens[:0]
	for _, t := range n.tokens {
		if t != token {
			kept = append(kept, t)
		}
	}
	n.tokens = kept
}

func chunkTokens(tokens []string, size int) [][]string {
	var chunks [][]string
	for i := 0; i < len(tokens); i += size {
		end := i + size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, tokens[i:end])
	}
	return chunks
}
