package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/gorilla/websocket"

	"github.com/braiins-os/braiins-core-go/minerapi"
	"github.com/braiins-os/braiins-core-go/minerlog"
	"github.com/braiins-os/braiins-core-go/workengine"
)

// dashboard is a small HTTP demonstration surface around the
// dispatcher: a read-only status page, one mutating control endpoint
// (CSRF-protected, session-authenticated, the donor family's usual
// gorilla stack), and a timestamp heartbeat feed over a websocket.
// It is not part of the core contracts and exercises none of the
// spec's testable properties -- only cmd/braiinsd assembly.
type dashboard struct {
	dispatcher *minerapi.Dispatcher
	hub        *workengine.Hub
	sessions   *sessions.CookieStore
	csrfKey    []byte
	upgrader   websocket.Upgrader
	log        minerlog.Logger
}

func newDashboard(dispatcher *minerapi.Dispatcher, hub *workengine.Hub, sessionKey, csrfKey []byte, log minerlog.Logger) *dashboard {
	return &dashboard{
		dispatcher: dispatcher,
		hub:        hub,
		sessions:   sessions.NewCookieStore(sessionKey),
		csrfKey:    csrfKey,
		upgrader:   websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		log:        log,
	}
}

// router builds the dashboard's handler tree. CSRF protection wraps
// the whole router (gorilla/csrf's usual placement) but only the
// mutating control endpoint actually checks the token; GET requests
// are exempt by csrf.Protect's default safe-method allowlist.
func (d *dashboard) router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/status", d.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/control/reschedule", d.handleReschedule).Methods(http.MethodPost)
	r.HandleFunc("/ws/turnover", d.handleTurnoverFeed).Methods(http.MethodGet)

	return csrf.Protect(d.csrfKey, csrf.Secure(false))(r)
}

func (d *dashboard) handleStatus(w http.ResponseWriter, r *http.Request) {
	result := d.dispatcher.Handle(r.Context(), minerapi.Request{Command: "summary+devs"})
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		d.log.Errorf("status encode error: %v", err)
	}
}

// handleReschedule is the dashboard's single mutating endpoint for an
// operator-requested reschedule hint. Session + CSRF protected; an
// authenticated request is acknowledged with 202 Accepted and changes
// no server state, since the reschedule hint is a no-op.
func (d *dashboard) handleReschedule(w http.ResponseWriter, r *http.Request) {
	session, err := d.sessions.Get(r, "braiinsd-dashboard")
	if err != nil {
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	if _, ok := session.Values["authenticated"]; !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// handleTurnoverFeed streams a heartbeat over a websocket: every five
// seconds it sends a JSON object holding the current Unix time ("ts").
// It carries no engine-turnover data.
func (d *dashboard) handleTurnoverFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.log.Errorf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteJSON(map[string]interface{}{"ts": time.Now().Unix()}); err != nil {
				return
			}
		}
	}
}
