package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"setu/internal/apierr"
	"setu/internal/infrastructure/setuapi"
	"setu/internal/record"
	"setu/internal/retry"
	"setu/internal/session"
	"setu/internal/shared/messages"
	"setu/internal/sync"
)

type memStorage struct {
	values map[string]string
}

func (m *memStorage) Get(ctx context.Context, key string) (string, error) {
	return m.values[key], nil
}

func (m *memStorage) Set(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memStorage) Remove(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *memStorage) Clear(ctx context.Context) error {
	m.values = map[string]string{}
	return nil
}

type fakeAPI struct {
	listFunc   func(ctx context.Context, token, path, field, userID string) (json.RawMessage, error)
	createFunc func(ctx context.Context, token, path, field string, payload any) (json.RawMessage, error)
}

func (f *fakeAPI) List(ctx context.Context, token, path, field, userID string) (json.RawMessage, error) {
	return f.listFunc(ctx, token, path, field, userID)
}

func (f *fakeAPI) Create(ctx context.Context, token, path, field string, payload any) (json.RawMessage, error) {
	return f.createFunc(ctx, token, path, field, payload)
}

func (f *fakeAPI) CreateMultipart(ctx context.Context, token, path, field string, fields map[string]string, file *setuapi.Upload) (json.RawMessage, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) Delete(ctx context.Context, token, path, id string) error {
	return errors.New("not implemented")
}

func newService(t *testing.T, api *fakeAPI) *Service {
	t.Helper()

	store := session.NewStore(&memStorage{values: map[string]string{
		"accessToken": "token-1",
		"userId":      "user-1",
	}})
	synchronizer := sync.New[record.MedicationReminder](
		record.MedicationReminders, api, store, retry.Policy{MaxAttempts: 4, Delay: 0}, nil)

	catalog, err := messages.Load("")
	if err != nil {
		t.Fatalf("messages.Load() failed: %v", err)
	}
	return NewService(synchronizer, NewRegistry(), catalog)
}

func TestCreateWithTrigger_SchedulesAfterServerConfirms(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{
		createFunc: func(ctx context.Context, token, path, field string, payload any) (json.RawMessage, error) {
			return json.RawMessage(`{"_id": "rem-1", "medicationName": "Atorvastatin", "dosage": "10mg", "nextDose": "2026-03-14T08:30:00Z"}`), nil
		},
	}
	svc := newService(t, api)

	result, err := svc.CreateWithTrigger(ctx, record.CreateMedicationReminderParams{
		MedicationName: "Atorvastatin",
		Dosage:         "10mg",
		NextDose:       time.Date(2026, 3, 14, 8, 30, 0, 0, time.Local),
	})
	if err != nil {
		t.Fatalf("CreateWithTrigger() failed: %v", err)
	}

	if result.Record.RecordID() != "rem-1" {
		t.Errorf("Record.RecordID() = %q", result.Record.RecordID())
	}
	if result.Handle == "" {
		t.Error("Handle is empty, trigger was not registered")
	}
	if result.TriggerErr != nil {
		t.Errorf("TriggerErr = %v, want nil", result.TriggerErr)
	}
	if svc.registry.Len() != 1 {
		t.Errorf("registry holds %d triggers, want exactly 1", svc.registry.Len())
	}

	due := svc.registry.Due(time.Date(2026, 3, 15, 8, 30, 0, 0, time.Local))
	if len(due) != 1 {
		t.Fatalf("Due() at trigger time returned %d, want 1", len(due))
	}
	if !strings.Contains(due[0].Message.Body, "Atorvastatin") {
		t.Errorf("notification body %q does not name the medication", due[0].Message.Body)
	}
}

func TestCreateWithTrigger_CreateFailureSchedulesNothing(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{
		createFunc: func(ctx context.Context, token, path, field string, payload any) (json.RawMessage, error) {
			return nil, apierr.Network(errors.New("connection refused"))
		},
	}
	svc := newService(t, api)

	_, err := svc.CreateWithTrigger(ctx, record.CreateMedicationReminderParams{
		MedicationName: "Atorvastatin",
		Dosage:         "10mg",
		NextDose:       time.Date(2026, 3, 14, 8, 30, 0, 0, time.Local),
	})
	if !apierr.IsNetwork(err) {
		t.Errorf("CreateWithTrigger() error = %v, want network error", err)
	}
	if svc.registry.Len() != 0 {
		t.Errorf("registry holds %d triggers after failed create, want 0", svc.registry.Len())
	}
	if len(svc.sync.Records()) != 0 {
		t.Errorf("snapshot has %d records after failed create, want 0", len(svc.sync.Records()))
	}
}

func TestScheduleAll_ReplacesTriggers(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{
		listFunc: func(ctx context.Context, token, path, field, userID string) (json.RawMessage, error) {
			return json.RawMessage(`[
				{"_id": "rem-1", "medicationName": "Atorvastatin", "dosage": "10mg", "nextDose": "2026-03-14T08:30:00Z"},
				{"_id": "rem-2", "medicationName": "Metformin", "dosage": "500mg", "nextDose": "2026-03-14T20:00:00Z"}
			]`), nil
		},
	}
	svc := newService(t, api)

	if err := svc.sync.List(ctx); err != nil {
		t.Fatalf("List() failed: %v", err)
	}

	if n := svc.ScheduleAll(ctx); n != 2 {
		t.Errorf("ScheduleAll() = %d, want 2", n)
	}
	if svc.registry.Len() != 2 {
		t.Errorf("registry holds %d triggers, want 2", svc.registry.Len())
	}

	// A second pass replaces, never accumulates.
	if n := svc.ScheduleAll(ctx); n != 2 {
		t.Errorf("second ScheduleAll() = %d, want 2", n)
	}
	if svc.registry.Len() != 2 {
		t.Errorf("registry holds %d triggers after second pass, want 2", svc.registry.Len())
	}
}
