package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"setu/internal/shared/messages"
)

// Handle identifies one scheduled reminder for later cancellation.
type Handle string

// Scheduled is a registered reminder together with its notification text.
type Scheduled struct {
	Handle  Handle
	Trigger Trigger
	Message messages.MessageText
}

type entry struct {
	Scheduled
	lastFired string // "2006-01-02 15:04" key of the minute it last fired
}

// Registry holds the currently scheduled reminders. It only bookkeeps;
// the Scheduler's loop asks it which reminders are due each minute.
type Registry struct {
	mu      sync.Mutex
	entries map[Handle]*entry
}

func NewRegistry() *Registry {
	return &Registry{entries: map[Handle]*entry{}}
}

// ScheduleRecurring registers a reminder and returns its handle.
func (r *Registry) ScheduleRecurring(trigger Trigger, msg messages.MessageText) (Handle, error) {
	if err := trigger.validate(); err != nil {
		return "", err
	}

	handle := Handle(uuid.NewString())
	r.mu.Lock()
	r.entries[handle] = &entry{Scheduled: Scheduled{Handle: handle, Trigger: trigger, Message: msg}}
	r.mu.Unlock()

	remindersActive.Add(context.Background(), 1)
	return handle, nil
}

// Cancel removes one scheduled reminder.
func (r *Registry) Cancel(handle Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[handle]; !ok {
		return ErrUnknownReminder
	}
	delete(r.entries, handle)
	remindersActive.Add(context.Background(), -1)
	return nil
}

// CancelAll drops every scheduled reminder.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	dropped := len(r.entries)
	r.entries = map[Handle]*entry{}
	r.mu.Unlock()

	remindersActive.Add(context.Background(), int64(-dropped))
}

// Len reports the number of scheduled reminders.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Due returns the reminders firing in now's minute and marks them fired,
// so a reminder goes off at most once per minute per day even if the loop
// checks the same minute twice.
func (r *Registry) Due(now time.Time) []Scheduled {
	key := now.Format("2006-01-02 15:04")

	r.mu.Lock()
	defer r.mu.Unlock()

	var due []Scheduled
	for _, e := range r.entries {
		if !e.Trigger.matches(now) || e.lastFired == key {
			continue
		}
		e.lastFired = key
		due = append(due, e.Scheduled)
	}
	return due
}
