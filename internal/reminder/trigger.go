// Package reminder schedules recurring local medication notifications.
// Triggers are wall-clock times of day; the scheduler fires each one at
// most once per calendar day.
package reminder

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTrigger  = errors.New("invalid trigger time")
	ErrUnknownReminder = errors.New("unknown reminder handle")
)

// Trigger is the daily firing time for one reminder.
type Trigger struct {
	Hour    int
	Minute  int
	Repeats bool
}

// String returns the time in HH:MM format.
func (t Trigger) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t Trigger) validate() error {
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("%w: hour %d (must be 0-23)", ErrInvalidTrigger, t.Hour)
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("%w: minute %d (must be 0-59)", ErrInvalidTrigger, t.Minute)
	}
	return nil
}

// ParseTrigger parses a repeating trigger from HH:MM.
func ParseTrigger(s string) (Trigger, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return Trigger{}, fmt.Errorf("%w: %q (expected HH:MM)", ErrInvalidTrigger, s)
	}

	t := Trigger{Hour: hour, Minute: minute, Repeats: true}
	if err := t.validate(); err != nil {
		return Trigger{}, err
	}
	return t, nil
}

// TriggerAt derives a repeating trigger from a timestamp's local time of
// day, e.g. a medication's next scheduled dose.
func TriggerAt(at time.Time) Trigger {
	local := at.Local()
	return Trigger{Hour: local.Hour(), Minute: local.Minute(), Repeats: true}
}

// matches reports whether the trigger fires in now's minute.
func (t Trigger) matches(now time.Time) bool {
	return now.Hour() == t.Hour && now.Minute() == t.Minute
}
