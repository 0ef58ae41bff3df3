package clientip

import (
	"net"
	"net/http"
	"strings"
)

// TrustForwardedFor makes RealClientIP honour the left-most X-Forwarded-For
// entry. Enable it only behind a proxy that overwrites the header.
var TrustForwardedFor bool

// RealClientIP returns the client IP used for rate limiting and device records.
// By default only r.RemoteAddr is used.
func RealClientIP(r *http.Request) string {
	if TrustForwardedFor {
		if ip := forwardedFor(r.Header.Get("X-Forwarded-For")); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}

func forwardedFor(header string) string {
	first, _, _ := strings.Cut(header, ",")
	first = strings.TrimSpace(first)
	if net.ParseIP(first) == nil {
		return ""
	}
	return first
}
