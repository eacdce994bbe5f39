package apierr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"auth", Auth("missing credential"), KindAuth},
		{"network", Network(errors.New("dial tcp: timeout")), KindNetwork},
		{"http", HTTP(500, "internal"), KindHTTP},
		{"unknown", Unknown(errors.New("boom")), KindUnknown},
		{"plain error", errors.New("plain"), KindUnknown},
		{"wrapped", fmt.Errorf("fetch failed: %w", Network(nil)), KindNetwork},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	if !IsAuth(Auth("x")) {
		t.Error("IsAuth() = false for auth error")
	}
	if !IsNetwork(fmt.Errorf("wrapped: %w", Network(nil))) {
		t.Error("IsNetwork() = false for wrapped network error")
	}
	if IsNetwork(HTTP(404, "not found")) {
		t.Error("IsNetwork() = true for http error")
	}
	if !IsHTTP(HTTP(404, "not found")) {
		t.Error("IsHTTP() = false for http error")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Network(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is() did not find wrapped cause")
	}
}

func TestError_Message(t *testing.T) {
	err := HTTP(422, "invalid payload")
	want := "server error (status 422): invalid payload"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	if HTTP(500, "").Message != "request failed" {
		t.Error("HTTP() with empty message did not apply default")
	}
}
