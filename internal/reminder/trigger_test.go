package reminder

import (
	"errors"
	"testing"
	"time"
)

func TestParseTrigger(t *testing.T) {
	tests := []struct {
		input   string
		want    Trigger
		wantErr bool
	}{
		{"08:30", Trigger{Hour: 8, Minute: 30, Repeats: true}, false},
		{"00:00", Trigger{Hour: 0, Minute: 0, Repeats: true}, false},
		{"23:59", Trigger{Hour: 23, Minute: 59, Repeats: true}, false},
		{"24:00", Trigger{}, true},
		{"12:60", Trigger{}, true},
		{"-1:30", Trigger{}, true},
		{"morning", Trigger{}, true},
		{"", Trigger{}, true},
	}

	for _, tt := range tests {
		got, err := ParseTrigger(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidTrigger) {
				t.Errorf("ParseTrigger(%q) error = %v, want ErrInvalidTrigger", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTrigger(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTrigger(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestTriggerAt(t *testing.T) {
	at := time.Date(2026, 3, 14, 21, 15, 0, 0, time.Local)
	got := TriggerAt(at)

	want := Trigger{Hour: 21, Minute: 15, Repeats: true}
	if got != want {
		t.Errorf("TriggerAt() = %+v, want %+v", got, want)
	}
}

func TestTriggerString(t *testing.T) {
	if s := (Trigger{Hour: 8, Minute: 5}).String(); s != "08:05" {
		t.Errorf("String() = %q, want 08:05", s)
	}
}
