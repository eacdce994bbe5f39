// Package connectivity answers "are we online right now" before a sync
// pass bothers hitting the API.
package connectivity

import (
	"context"
	"net"
	"net/url"
	"time"
)

const probeTimeout = 3 * time.Second

// Probe reports current network reachability.
type Probe interface {
	Online(ctx context.Context) bool
}

// DialProbe checks reachability by opening a TCP connection to the API
// host. Cheap enough to run before every sync pass.
type DialProbe struct {
	address string
	dialer  net.Dialer
}

// NewDialProbe builds a probe for the API base URL's host.
func NewDialProbe(baseURL string) (*DialProbe, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	host := u.Hostname()
	port := u.Port()
	if port == "" {
		if u.Scheme == "http" {
			port = "80"
		} else {
			port = "443"
		}
	}

	return &DialProbe{address: net.JoinHostPort(host, port)}, nil
}

// Online dials the API host with a short timeout.
func (p *DialProbe) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// StaticProbe always reports a fixed state. Used in tests and as a
// stand-in when probing is disabled.
type StaticProbe bool

func (p StaticProbe) Online(ctx context.Context) bool { return bool(p) }
