package record

import (
	"fmt"
	"time"
)

// Attachment is a file uploaded alongside a create request.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Payload is a validated create request for one collection.
type Payload interface {
	Validate() error
}

// JSONPayload creates a record through a plain JSON POST.
type JSONPayload interface {
	Payload
	Body() map[string]any
}

// MultipartPayload creates a record through the multipart upload endpoint.
type MultipartPayload interface {
	Payload
	Fields() map[string]string
	Attachment() Attachment
}

// CreateDocumentParams uploads a medical record image.
type CreateDocumentParams struct {
	Description string
	DateTime    time.Time
	File        Attachment
}

func (p CreateDocumentParams) Validate() error {
	if p.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if len(p.File.Data) == 0 {
		return fmt.Errorf("%w: document file is required", ErrInvalidInput)
	}
	return nil
}

func (p CreateDocumentParams) Fields() map[string]string {
	fields := map[string]string{"description": p.Description}
	if !p.DateTime.IsZero() {
		fields["dateTime"] = p.DateTime.Format(time.RFC3339)
	}
	return fields
}

func (p CreateDocumentParams) Attachment() Attachment { return p.File }

// CreatePrescriptionParams uploads a prescription image.
type CreatePrescriptionParams struct {
	Name         string
	PrescribedBy string
	DateTime     time.Time
	File         Attachment
}

func (p CreatePrescriptionParams) Validate() error {
	if p.PrescribedBy == "" {
		return fmt.Errorf("%w: prescribedBy is required", ErrInvalidInput)
	}
	if len(p.File.Data) == 0 {
		return fmt.Errorf("%w: prescription file is required", ErrInvalidInput)
	}
	return nil
}

func (p CreatePrescriptionParams) Fields() map[string]string {
	fields := map[string]string{"prescribedBy": p.PrescribedBy}
	if p.Name != "" {
		fields["name"] = p.Name
	}
	if !p.DateTime.IsZero() {
		fields["dateTime"] = p.DateTime.Format(time.RFC3339)
	}
	return fields
}

func (p CreatePrescriptionParams) Attachment() Attachment { return p.File }

// CreateMedicationReminderParams registers a recurring medication schedule.
type CreateMedicationReminderParams struct {
	MedicationName string
	Dosage         string
	Frequency      string
	NextDose       time.Time
}

func (p CreateMedicationReminderParams) Validate() error {
	if p.MedicationName == "" {
		return fmt.Errorf("%w: medicationName is required", ErrInvalidInput)
	}
	if p.Dosage == "" {
		return fmt.Errorf("%w: dosage is required", ErrInvalidInput)
	}
	if p.NextDose.IsZero() {
		return fmt.Errorf("%w: nextDose is required", ErrInvalidInput)
	}
	return nil
}

func (p CreateMedicationReminderParams) Body() map[string]any {
	body := map[string]any{
		"medicationName": p.MedicationName,
		"dosage":         p.Dosage,
		"nextDose":       p.NextDose.Format(time.RFC3339),
	}
	if p.Frequency != "" {
		body["frequency"] = p.Frequency
	}
	return body
}

// TriggerTime is the local wall-clock time of day the reminder fires at,
// derived from the next scheduled dose.
func (p CreateMedicationReminderParams) TriggerTime() (hour, minute int) {
	local := p.NextDose.Local()
	return local.Hour(), local.Minute()
}

// CreateHealthMetricParams records one measured health value.
type CreateHealthMetricParams struct {
	Type     string
	Value    float64
	Unit     string
	DateTime time.Time
}

func (p CreateHealthMetricParams) Validate() error {
	if p.Type == "" {
		return fmt.Errorf("%w: metricType is required", ErrInvalidInput)
	}
	if p.Unit == "" {
		return fmt.Errorf("%w: unit is required", ErrInvalidInput)
	}
	return nil
}

func (p CreateHealthMetricParams) Body() map[string]any {
	body := map[string]any{
		"metricType": p.Type,
		"value":      p.Value,
		"unit":       p.Unit,
	}
	if !p.DateTime.IsZero() {
		body["dateTime"] = p.DateTime.Format(time.RFC3339)
	}
	return body
}
