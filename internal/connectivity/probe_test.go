package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDialProbe_Online(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	probe, err := NewDialProbe(srv.URL)
	if err != nil {
		t.Fatalf("NewDialProbe() failed: %v", err)
	}
	if !probe.Online(context.Background()) {
		t.Error("Online() = false for a listening server")
	}
}

func TestDialProbe_Offline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	probe, err := NewDialProbe(addr)
	if err != nil {
		t.Fatalf("NewDialProbe() failed: %v", err)
	}
	if probe.Online(context.Background()) {
		t.Error("Online() = true for a closed server")
	}
}

func TestNewDialProbe_DefaultPorts(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/api", "example.com:443"},
		{"http://example.com/api", "example.com:80"},
		{"http://example.com:8000/api", "example.com:8000"},
	}

	for _, tt := range tests {
		probe, err := NewDialProbe(tt.url)
		if err != nil {
			t.Fatalf("NewDialProbe(%q) failed: %v", tt.url, err)
		}
		if probe.address != tt.want {
			t.Errorf("NewDialProbe(%q).address = %q, want %q", tt.url, probe.address, tt.want)
		}
	}
}

func TestStaticProbe(t *testing.T) {
	ctx := context.Background()
	if !StaticProbe(true).Online(ctx) {
		t.Error("StaticProbe(true).Online() = false")
	}
	if StaticProbe(false).Online(ctx) {
		t.Error("StaticProbe(false).Online() = true")
	}
}
