package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AnshRaj112/fitify-backend/pkg/clientip"
	"golang.org/x/time/rate"
)

// Each coach message is a paid model call, so the send path is limited per
// caller: 1 message every 4s, burst 5. History reads get 30/min, burst 20.
const (
	CoachSendBurst    = 5
	coachHistoryBurst = 20
)

const coachSendLimitedMessage = "You're sending messages too quickly. Please wait a moment."

var (
	coachSendLimiters    = newLimiterSet(rate.Every(4*time.Second), CoachSendBurst)
	coachHistoryLimiters = newLimiterSet(rate.Limit(0.5), coachHistoryBurst)
)

// coachCallerKey prefers the session token so users behind one NAT do not
// share a bucket; anonymous callers are keyed by IP.
func coachCallerKey(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		if tok := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")); tok != "" {
			return "tok:" + tok
		}
	}
	return "ip:" + clientip.RealClientIP(r)
}

// AllowCoachMessage takes one token from the send bucket of a session token.
// WebSocket frames draw from the same bucket as POST /api/coach/messages.
func AllowCoachMessage(token string) (bool, string) {
	if coachSendLimiters.allow("tok:" + token) {
		return true, ""
	}
	return false, coachSendLimitedMessage
}

// CoachRateLimit limits POST /api/coach/messages and GET /api/coach/history.
// Other requests pass through untouched.
func CoachRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			set   *limiterSet
			limit int
			msg   string
		)
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/coach/messages":
			set, limit, msg = coachSendLimiters, CoachSendBurst, coachSendLimitedMessage
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/coach/history"):
			set, limit, msg = coachHistoryLimiters, coachHistoryBurst, "Too many history requests. Please slow down."
		default:
			next.ServeHTTP(w, r)
			return
		}

		limiter := set.get(coachCallerKey(r))
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
		if !limiter.Allow() {
			w.Header().Set("X-RateLimit-Remaining", "0")
			tooManyRequests(w, msg)
			return
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		next.ServeHTTP(w, r)
	})
}
