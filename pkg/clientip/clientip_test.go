package clientip

import (
	"net/http/httptest"
	"testing"
)

func TestRealClientIPUsesRemoteAddr(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.7:52100"
	r.Header.Set("X-Forwarded-For", "198.51.100.1")

	if got := RealClientIP(r); got != "203.0.113.7" {
		t.Errorf("RealClientIP = %s, want 203.0.113.7", got)
	}

	r.RemoteAddr = "203.0.113.8"
	if got := RealClientIP(r); got != "203.0.113.8" {
		t.Errorf("RealClientIP without port = %s", got)
	}
}

func TestRealClientIPTrustedProxy(t *testing.T) {
	TrustForwardedFor = true
	defer func() { TrustForwardedFor = false }()

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.2:443"

	r.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	if got := RealClientIP(r); got != "198.51.100.1" {
		t.Errorf("RealClientIP = %s, want 198.51.100.1", got)
	}

	r.Header.Set("X-Forwarded-For", "not-an-ip")
	if got := RealClientIP(r); got != "10.0.0.2" {
		t.Errorf("garbage header should fall back to RemoteAddr, got %s", got)
	}
}
