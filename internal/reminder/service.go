package reminder

import (
	"context"
	"log"

	"setu/internal/record"
	"setu/internal/shared/messages"
	"setu/internal/sync"
)

// CreateResult is the outcome of creating a medication reminder together
// with its local trigger. TriggerErr is advisory: the record was persisted
// on the server either way.
type CreateResult struct {
	Record     record.MedicationReminder
	Handle     Handle
	TriggerErr error
}

// Service combines the medication-reminder synchronizer with local trigger
// scheduling. Creating a reminder both persists it remotely and registers
// its daily notification.
type Service struct {
	sync     *sync.Synchronizer[record.MedicationReminder]
	registry *Registry
	catalog  *messages.Messages
}

func NewService(synchronizer *sync.Synchronizer[record.MedicationReminder], registry *Registry, catalog *messages.Messages) *Service {
	return &Service{sync: synchronizer, registry: registry, catalog: catalog}
}

// Synchronizer exposes the underlying record synchronizer.
func (s *Service) Synchronizer() *sync.Synchronizer[record.MedicationReminder] { return s.sync }

// CreateWithTrigger persists the reminder and, only after the server
// confirms it, registers its recurring trigger. A trigger failure is
// logged and reported in the result but never rolls back the created
// record; a create failure means no trigger is ever registered.
func (s *Service) CreateWithTrigger(ctx context.Context, params record.CreateMedicationReminderParams) (CreateResult, error) {
	created, err := s.sync.Create(ctx, params)
	if err != nil {
		return CreateResult{}, err
	}

	result := CreateResult{Record: created}

	hour, minute := params.TriggerTime()
	handle, err := s.registry.ScheduleRecurring(
		Trigger{Hour: hour, Minute: minute, Repeats: true},
		s.catalog.MedicationReminder.Format(created.MedicationName),
	)
	if err != nil {
		log.Printf("Reminder: %s created but trigger registration failed: %v", created.RecordID(), err)
		result.TriggerErr = err
		return result, nil
	}

	result.Handle = handle
	log.Printf("Reminder: scheduled %s daily at %02d:%02d", created.MedicationName, hour, minute)
	return result, nil
}

// ScheduleAll registers triggers for every reminder currently in the
// snapshot, replacing whatever was scheduled before. Called after a sync
// pass so server-side reminders ring locally too.
func (s *Service) ScheduleAll(ctx context.Context) int {
	s.registry.CancelAll()

	scheduled := 0
	for _, m := range s.sync.Records() {
		_, err := s.registry.ScheduleRecurring(
			TriggerAt(m.NextDose),
			s.catalog.MedicationReminder.Format(m.MedicationName),
		)
		if err != nil {
			log.Printf("Reminder: failed to schedule %s: %v", m.MedicationName, err)
			continue
		}
		scheduled++
	}
	return scheduled
}

// CancelTrigger removes one scheduled trigger. Deleting the remote record
// is a separate concern; a deleted record's trigger keeps ringing until
// cancelled here.
func (s *Service) CancelTrigger(handle Handle) error {
	return s.registry.Cancel(handle)
}
