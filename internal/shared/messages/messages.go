// Package messages holds user-facing notification text. Defaults are
// compiled in; a JSON file can override them for localization.
package messages

import (
	"encoding/json"
	"fmt"
	"os"
)

type MessageText struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Format fills the body's printf verbs, leaving the title untouched.
func (m MessageText) Format(args ...any) MessageText {
	if len(args) == 0 {
		return m
	}
	return MessageText{Title: m.Title, Body: fmt.Sprintf(m.Body, args...)}
}

type Messages struct {
	MedicationReminder MessageText `json:"medication_reminder"`
	SyncComplete       MessageText `json:"sync_complete"`
}

// Defaults returns the built-in English texts.
func Defaults() Messages {
	return Messages{
		MedicationReminder: MessageText{
			Title: "Medicine Reminder",
			Body:  "Time to take your medicine: %s",
		},
		SyncComplete: MessageText{
			Title: "Sanjeeveni Setu",
			Body:  "Your health records are up to date.",
		},
	}
}

// Load reads the messages JSON file, falling back to the built-in
// defaults when path is empty. Entries absent from the file keep their
// defaults. Each call loads fresh; callers hold onto the catalog.
func Load(path string) (*Messages, error) {
	m := Defaults()
	if path == "" {
		return &m, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages file: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse messages file: %w", err)
	}
	return &m, nil
}
