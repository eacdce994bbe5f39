package main

import (
	"context"
	"log"

	"setu/internal/connectivity"
	"setu/internal/infrastructure/firebase"
	"setu/internal/infrastructure/setuapi"
	"setu/internal/infrastructure/storage"
	"setu/internal/record"
	"setu/internal/reminder"
	"setu/internal/retry"
	"setu/internal/session"
	"setu/internal/shared/config"
	"setu/internal/shared/messages"
	"setu/internal/sync"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Client *setuapi.Client
	Auth   *session.Service
	Probe  connectivity.Probe

	// Synchronizers for the enabled collections (nil when disabled)
	Documents     *sync.Synchronizer[record.Document]
	Prescriptions *sync.Synchronizer[record.Prescription]
	HealthMetrics *sync.Synchronizer[record.HealthMetric]

	// Medication reminders: synchronizer plus local trigger scheduling
	Reminders *reminder.Service
	Scheduler *reminder.Scheduler
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// Encrypted credential storage
	store, err := storage.NewFileStore(cfg.Storage.Path, cfg.Storage.Passphrase)
	if err != nil {
		return nil, err
	}
	log.Printf("Credential store at %s", cfg.Storage.Path)

	sessions := session.NewStore(store)
	client := setuapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	auth := session.NewService(sessions, client)

	probe, err := connectivity.NewDialProbe(cfg.API.BaseURL)
	if err != nil {
		return nil, err
	}

	policy := retry.Policy{MaxAttempts: cfg.Retry.MaxAttempts, Delay: cfg.Retry.Delay}

	enabled := map[string]bool{}
	for _, name := range cfg.Sync.Collections {
		if _, err := record.ByName(name); err != nil {
			log.Printf("Warning: ignoring unknown sync collection %q", name)
			continue
		}
		enabled[name] = true
	}

	deps := &Dependencies{
		Client: client,
		Auth:   auth,
		Probe:  probe,
	}

	if enabled[record.Documents.Name] {
		deps.Documents = sync.New[record.Document](record.Documents, client, sessions, policy, probe)
	}
	if enabled[record.Prescriptions.Name] {
		deps.Prescriptions = sync.New[record.Prescription](record.Prescriptions, client, sessions, policy, probe)
	}
	if enabled[record.HealthMetrics.Name] {
		deps.HealthMetrics = sync.New[record.HealthMetric](record.HealthMetrics, client, sessions, policy, probe)
	}

	if enabled[record.MedicationReminders.Name] {
		catalog, err := messages.Load(cfg.Firebase.MessagesFile)
		if err != nil {
			log.Printf("Warning: %v, using built-in notification texts", err)
			defaults := messages.Defaults()
			catalog = &defaults
		}

		reminderSync := sync.New[record.MedicationReminder](record.MedicationReminders, client, sessions, policy, probe)
		registry := reminder.NewRegistry()
		deps.Reminders = reminder.NewService(reminderSync, registry, catalog)

		if cfg.Reminders.Enabled {
			notifier, err := buildNotifier(ctx, cfg)
			if err != nil {
				return nil, err
			}
			deps.Scheduler = reminder.NewScheduler(reminder.SchedulerConfig{
				WorkerCount: cfg.Reminders.WorkerCount,
				QueueSize:   cfg.Reminders.QueueSize,
				JobDelay:    cfg.Reminders.JobDelay,
			}, registry, notifier)
		}
	}

	return deps, nil
}

// buildNotifier picks FCM when Firebase is configured, otherwise falls
// back to log-only delivery.
func buildNotifier(ctx context.Context, cfg *config.Config) (reminder.Notifier, error) {
	if cfg.Firebase.CredentialsFile == "" || len(cfg.Firebase.DeviceTokens) == 0 {
		log.Println("Firebase not configured, reminders will be logged only")
		return reminder.LogNotifier{}, nil
	}

	notifier, err := firebase.NewNotifier(ctx, cfg.Firebase.CredentialsFile, cfg.Firebase.DeviceTokens)
	if err != nil {
		return nil, err
	}
	log.Printf("FCM notifier initialized for %d device token(s)", len(cfg.Firebase.DeviceTokens))
	return notifier, nil
}
