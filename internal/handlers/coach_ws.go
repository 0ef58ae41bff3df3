package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/AnshRaj112/fitify-backend/internal/middleware"
	"github.com/AnshRaj112/fitify-backend/internal/models"
	"github.com/AnshRaj112/fitify-backend/internal/services"
	"github.com/gorilla/websocket"
)

const (
	coachWSReadLimit   = 16 * 1024
	coachWSIdleTimeout = 90 * time.Second
)

// coachAllowedOrigins is set by InitCoach. CORS does not cover the upgrade
// request, so browser origins are checked here.
var coachAllowedOrigins []string

var coachUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkCoachOrigin,
}

// checkCoachOrigin lets native clients (no Origin header) through; browsers
// must come from an allowed front-end origin.
func checkCoachOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return middleware.OriginAllowed(origin, coachAllowedOrigins)
}

// coachSendAllowance reports whether another message may be sent, and the
// notice to show when it may not.
type coachSendAllowance func() (bool, string)

// CoachClientMessage is a frame sent by the app: "message" or "ping".
type CoachClientMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// CoachServerEvent is a frame sent back: "typing", "reply", "error" or "pong".
type CoachServerEvent struct {
	Type      string               `json:"type"`
	Prompt    *models.CoachMessage `json:"prompt,omitempty"`
	Reply     *models.CoachMessage `json:"reply,omitempty"`
	Error     string               `json:"error,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

// CoachWebSocket streams the coach conversation. The session token comes from
// the Authorization header, or ?token= for browser clients.
func CoachWebSocket(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing session token", http.StatusUnauthorized)
			return
		}
	}

	userID, ok, err := services.ValidateSession(r.Context(), token)
	if err != nil || !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	conn, err := coachUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	serveCoachConn(conn, userID.String(), func() (bool, string) {
		return middleware.AllowCoachMessage(token)
	})
}

// serveCoachConn runs the read loop. Every write happens on this goroutine.
func serveCoachConn(conn *websocket.Conn, userID string, allow coachSendAllowance) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn.SetReadLimit(coachWSReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(coachWSIdleTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(coachWSIdleTimeout))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(coachWSIdleTimeout))

		var msg CoachClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "message":
			if ok, notice := allow(); !ok {
				if err := conn.WriteJSON(CoachServerEvent{Type: "error", Error: notice, Timestamp: time.Now().UTC()}); err != nil {
					return
				}
				continue
			}
			if err := handleCoachSocketMessage(ctx, conn, userID, msg.Text); err != nil {
				return
			}
		case "ping":
			if err := conn.WriteJSON(CoachServerEvent{Type: "pong", Timestamp: time.Now().UTC()}); err != nil {
				return
			}
		}
	}
}

func handleCoachSocketMessage(ctx context.Context, conn *websocket.Conn, userID, text string) error {
	if err := conn.WriteJSON(CoachServerEvent{Type: "typing", Timestamp: time.Now().UTC()}); err != nil {
		return err
	}

	ex, err := services.AskCoach(ctx, activeCoach(), userID, text)
	if ex == nil {
		msg := "failed to process message"
		if err != nil {
			msg = err.Error()
		}
		return conn.WriteJSON(CoachServerEvent{Type: "error", Error: msg, Timestamp: time.Now().UTC()})
	}

	return conn.WriteJSON(CoachServerEvent{
		Type:      "reply",
		Prompt:    &ex.Prompt,
		Reply:     &ex.Reply,
		Timestamp: time.Now().UTC(),
	})
}
