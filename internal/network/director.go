// Package network - director.go
// Director bridge: an out-of-band REST surface for forcing an event
// template into a running session. Meant for content authors testing
// new templates, not for players; regular sessions only ever see
// events the engine selects itself.
package network

import (
	"encoding/json"
	"net/http"

	"github.com/lmedrano/pulso/internal/platform/logger"
)

// EventInjector applies a forced template to a session. The server
// implements this behind its per-session lock.
type EventInjector interface {
	ForceEvent(sessionID, templateID string) error
}

// DirectorBridge handles authoring-tool interactions.
type DirectorBridge struct {
	injector EventInjector
	logger   *logger.Logger
}

// NewDirectorBridge creates a new director interaction handler.
func NewDirectorBridge(injector EventInjector, log *logger.Logger) *DirectorBridge {
	return &DirectorBridge{
		injector: injector,
		logger:   log,
	}
}

// InjectRequest is the payload for forcing an event into a session.
type InjectRequest struct {
	SessionID  string `json:"session_id"`
	TemplateID string `json:"template_id"`
	Reason     string `json:"reason"` // Free-form note for the journal
}

// HandleInject is the endpoint for forced event injection.
// POST /api/director/inject
func (db *DirectorBridge) HandleInject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		db.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req InjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		db.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.SessionID == "" || req.TemplateID == "" {
		db.jsonError(w, "Missing session_id or template_id", http.StatusBadRequest)
		return
	}

	if err := db.injector.ForceEvent(req.SessionID, req.TemplateID); err != nil {
		db.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	db.logger.Event("DIRECTOR_INJECT", req.SessionID, "Forced template "+req.TemplateID+" ("+req.Reason+")")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":      "injected",
		"session_id":  req.SessionID,
		"template_id": req.TemplateID,
	})
}

// RegisterRoutes sets up the director API routes.
func (db *DirectorBridge) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/director/inject", db.HandleInject)
}

// jsonError sends an error response.
func (db *DirectorBridge) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
