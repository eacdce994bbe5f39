// Package record defines the remotely-stored domain entities and the
// metadata describing how each collection is addressed on the wire.
package record

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnknownCollection = errors.New("unknown collection")
)

// Record is one remotely-stored item, uniquely identified within its
// collection by a server-assigned id.
type Record interface {
	RecordID() string
}

// Document is an uploaded medical record image.
type Document struct {
	ID          string    `json:"_id"`
	UserID      string    `json:"userId,omitempty"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	DateTime    time.Time `json:"dateTime"`
}

func (d Document) RecordID() string { return d.ID }

// Prescription is an uploaded prescription image with its prescriber.
type Prescription struct {
	ID           string    `json:"_id"`
	UserID       string    `json:"userId,omitempty"`
	Name         string    `json:"name,omitempty"`
	PrescribedBy string    `json:"prescribedBy"`
	URL          string    `json:"url"`
	DateTime     time.Time `json:"dateTime"`
}

func (p Prescription) RecordID() string { return p.ID }

// MedicationReminder is a recurring medication schedule entry.
type MedicationReminder struct {
	ID             string    `json:"_id"`
	UserID         string    `json:"userId,omitempty"`
	MedicationName string    `json:"medicationName"`
	Dosage         string    `json:"dosage"`
	Frequency      string    `json:"frequency"`
	NextDose       time.Time `json:"nextDose"`
}

func (m MedicationReminder) RecordID() string { return m.ID }

// HealthMetric is one measured health value (heart rate, blood pressure,
// cholesterol, ...).
type HealthMetric struct {
	ID       string    `json:"_id"`
	UserID   string    `json:"userId,omitempty"`
	Type     string    `json:"metricType"`
	Value    float64   `json:"value"`
	Unit     string    `json:"unit"`
	DateTime time.Time `json:"dateTime"`
}

func (h HealthMetric) RecordID() string { return h.ID }

// Collection describes how one record collection is addressed: its URL
// path segment, the field wrapping list responses and the field wrapping
// the created record in create responses.
type Collection struct {
	Name        string
	Path        string
	ListField   string
	CreateField string
	Multipart   bool // create goes through the multipart /upload endpoint
}

// The four canonical collections. Path and field names follow the
// backend's historical (and slightly inconsistent) choices, e.g. the
// singular "prescription" path.
var (
	Documents = Collection{
		Name:        "documents",
		Path:        "documents",
		ListField:   "documents",
		CreateField: "newDocument",
		Multipart:   true,
	}
	Prescriptions = Collection{
		Name:        "prescriptions",
		Path:        "prescription",
		ListField:   "prescriptions",
		CreateField: "newPrescription",
		Multipart:   true,
	}
	MedicationReminders = Collection{
		Name:        "medication-reminders",
		Path:        "medication-reminders",
		ListField:   "medicationReminders",
		CreateField: "newMedicationReminder",
	}
	HealthMetrics = Collection{
		Name:        "health-metrics",
		Path:        "health-metrics",
		ListField:   "healthMetrics",
		CreateField: "newHealthMetric",
	}
)

var collections = map[string]Collection{
	Documents.Name:           Documents,
	Prescriptions.Name:       Prescriptions,
	MedicationReminders.Name: MedicationReminders,
	HealthMetrics.Name:       HealthMetrics,
}

// ByName resolves a collection by its logical name.
func ByName(name string) (Collection, error) {
	c, ok := collections[name]
	if !ok {
		return Collection{}, ErrUnknownCollection
	}
	return c, nil
}
