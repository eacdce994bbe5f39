// Package sync reconciles in-memory record collections with the backend.
// Each synchronizer owns one (collection, user) pair; the server is the
// source of truth and every successful fetch replaces the local snapshot
// wholesale.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	stdsync "sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"setu/internal/apierr"
	"setu/internal/connectivity"
	"setu/internal/infrastructure/setuapi"
	"setu/internal/record"
	"setu/internal/retry"
	"setu/internal/session"
)

// ErrOffline is wrapped in a network error when the connectivity probe
// reports no route to the API before a request is even attempted.
var ErrOffline = errors.New("device is offline")

// State is the advisory lifecycle of a synchronizer, mirroring what a UI
// would render. Every operation re-enters Loading and lands in Loaded or
// Failed; it never gates operations.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// API is the slice of the backend client a synchronizer needs.
type API interface {
	List(ctx context.Context, token, path, field, userID string) (json.RawMessage, error)
	Create(ctx context.Context, token, path, field string, payload any) (json.RawMessage, error)
	CreateMultipart(ctx context.Context, token, path, field string, fields map[string]string, file *setuapi.Upload) (json.RawMessage, error)
	Delete(ctx context.Context, token, path, id string) error
}

// Synchronizer holds the ordered in-memory snapshot of one collection and
// the operations that reconcile it with the backend. All privileged calls
// go through the session guard; only reads are retried.
type Synchronizer[T record.Record] struct {
	collection record.Collection
	api        API
	session    *session.Store
	policy     retry.Policy
	probe      connectivity.Probe

	tracer    trace.Tracer
	syncTotal metric.Int64Counter

	mu      stdsync.Mutex
	state   State
	lastErr error
	records []T
}

// New builds a synchronizer for one collection. probe may be nil, in which
// case requests are attempted unconditionally.
func New[T record.Record](collection record.Collection, api API, sess *session.Store, policy retry.Policy, probe connectivity.Probe) *Synchronizer[T] {
	tracer := otel.Tracer("setu/sync")
	meter := otel.Meter("setu/sync")
	syncTotal, err := meter.Int64Counter("sync_operations_total",
		metric.WithDescription("Completed synchronizer operations by collection and outcome"))
	if err != nil {
		log.Printf("Sync: failed to register sync counter: %v", err)
	}

	return &Synchronizer[T]{
		collection: collection,
		api:        api,
		session:    sess,
		policy:     policy,
		probe:      probe,
		tracer:     tracer,
		syncTotal:  syncTotal,
	}
}

// Collection returns the collection this synchronizer reconciles.
func (s *Synchronizer[T]) Collection() record.Collection { return s.collection }

// State reports the advisory lifecycle state.
func (s *Synchronizer[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastErr returns the error of the most recent operation, or nil after a
// success. Cleared whenever an operation completes.
func (s *Synchronizer[T]) LastErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Records returns a copy of the current snapshot in server order.
func (s *Synchronizer[T]) Records() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.records))
	copy(out, s.records)
	return out
}

// List fetches the collection and replaces the snapshot verbatim. The
// fetch is retried on network failures per the policy; on any final
// failure the previous snapshot is kept and the error surfaced.
func (s *Synchronizer[T]) List(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "sync.List",
		trace.WithAttributes(attribute.String("collection", s.collection.Name)))
	defer span.End()

	s.setState(StateLoading)

	var fetched []T
	err := s.guarded(ctx, func(ctx context.Context, cred session.Credentials) error {
		return s.policy.Do(ctx, func(ctx context.Context) error {
			raw, err := s.api.List(ctx, cred.AccessToken, s.collection.Path, s.collection.ListField, cred.UserID)
			if err != nil {
				return err
			}
			fetched = fetched[:0]
			if err := json.Unmarshal(raw, &fetched); err != nil {
				return apierr.Unknown(fmt.Errorf("decode %s list: %w", s.collection.Name, err))
			}
			return nil
		})
	})
	if err != nil {
		return s.fail(ctx, "list", err)
	}

	s.mu.Lock()
	s.records = fetched
	s.state = StateLoaded
	s.lastErr = nil
	s.mu.Unlock()

	s.count(ctx, "list", "ok")
	log.Printf("Sync: %s snapshot replaced, %d records", s.collection.Name, len(fetched))
	return nil
}

// Create posts one new record. The request is fired exactly once — a
// network failure here is ambiguous (the server may or may not have
// persisted the record), so it is surfaced instead of retried and the
// snapshot is left untouched. On success the server's copy of the record
// is appended at the end.
func (s *Synchronizer[T]) Create(ctx context.Context, payload record.Payload) (T, error) {
	ctx, span := s.tracer.Start(ctx, "sync.Create",
		trace.WithAttributes(attribute.String("collection", s.collection.Name)))
	defer span.End()

	s.setState(StateLoading)

	var zero T
	if err := payload.Validate(); err != nil {
		return zero, s.fail(ctx, "create", err)
	}

	var created T
	err := s.guarded(ctx, func(ctx context.Context, cred session.Credentials) error {
		raw, err := s.post(ctx, cred, payload)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &created); err != nil {
			return apierr.Unknown(fmt.Errorf("decode created %s record: %w", s.collection.Name, err))
		}
		return nil
	})
	if err != nil {
		return zero, s.fail(ctx, "create", err)
	}

	s.mu.Lock()
	s.records = append(s.records, created)
	s.state = StateLoaded
	s.lastErr = nil
	s.mu.Unlock()

	s.count(ctx, "create", "ok")
	return created, nil
}

func (s *Synchronizer[T]) post(ctx context.Context, cred session.Credentials, payload record.Payload) (json.RawMessage, error) {
	switch p := payload.(type) {
	case record.MultipartPayload:
		att := p.Attachment()
		fields := p.Fields()
		if fields == nil {
			fields = map[string]string{}
		}
		fields["userId"] = cred.UserID
		return s.api.CreateMultipart(ctx, cred.AccessToken, s.collection.Path, s.collection.CreateField, fields, &setuapi.Upload{
			Field:       "document",
			Name:        att.Name,
			ContentType: att.ContentType,
			Data:        att.Data,
		})
	case record.JSONPayload:
		body := p.Body()
		body["userId"] = cred.UserID
		return s.api.Create(ctx, cred.AccessToken, s.collection.Path, s.collection.CreateField, body)
	default:
		return nil, fmt.Errorf("%w: unsupported payload %T", record.ErrInvalidInput, payload)
	}
}

// Delete removes one record by id, fired exactly once. On success the
// record is filtered out of the snapshot; deleting an id the server no
// longer knows surfaces the backend's HTTP error.
func (s *Synchronizer[T]) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "sync.Delete",
		trace.WithAttributes(attribute.String("collection", s.collection.Name)))
	defer span.End()

	s.setState(StateLoading)

	if id == "" {
		return s.fail(ctx, "delete", fmt.Errorf("%w: record id is required", record.ErrInvalidInput))
	}

	err := s.guarded(ctx, func(ctx context.Context, cred session.Credentials) error {
		return s.api.Delete(ctx, cred.AccessToken, s.collection.Path, id)
	})
	if err != nil {
		return s.fail(ctx, "delete", err)
	}

	s.mu.Lock()
	kept := s.records[:0]
	for _, r := range s.records {
		if r.RecordID() != id {
			kept = append(kept, r)
		}
	}
	s.records = kept
	s.state = StateLoaded
	s.lastErr = nil
	s.mu.Unlock()

	s.count(ctx, "delete", "ok")
	return nil
}

// guarded runs op behind the connectivity probe and the session guard.
func (s *Synchronizer[T]) guarded(ctx context.Context, op session.Operation) error {
	if s.probe != nil && !s.probe.Online(ctx) {
		return apierr.Network(ErrOffline)
	}
	return s.session.WithSession(ctx, op)
}

func (s *Synchronizer[T]) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// fail records the operation's error, moves to Failed and returns err.
func (s *Synchronizer[T]) fail(ctx context.Context, op string, err error) error {
	s.mu.Lock()
	s.state = StateFailed
	s.lastErr = err
	s.mu.Unlock()

	s.count(ctx, op, "error")
	return err
}

func (s *Synchronizer[T]) count(ctx context.Context, op, outcome string) {
	if s.syncTotal == nil {
		return
	}
	s.syncTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("collection", s.collection.Name),
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}
