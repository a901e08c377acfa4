// Package network - replay.go
// Replay endpoint: JSON export of a session's turn history.
//
// Observers and postmortem tools use this to walk the immutable journal
// of a finished or running session.
package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/lmedrano/pulso/internal/infra/storage"
	"github.com/lmedrano/pulso/internal/journal"
	"github.com/lmedrano/pulso/internal/platform/logger"
)

// ReplayHandler provides the session replay API.
type ReplayHandler struct {
	journal  *journal.Journal
	recapper *storage.Recapper
	logger   *logger.Logger
}

// NewReplayHandler creates a new replay handler. recapper may be nil
// when journal persistence is disabled; replay then serves from memory.
func NewReplayHandler(j *journal.Journal, recapper *storage.Recapper, log *logger.Logger) *ReplayHandler {
	return &ReplayHandler{
		journal:  j,
		recapper: recapper,
		logger:   log,
	}
}

// ReplayResponse is the API response for session replay.
type ReplayResponse struct {
	SessionID   string               `json:"session_id"`
	TotalEvents int                  `json:"total_events"`
	FilteredBy  string               `json:"filtered_by,omitempty"`
	GeneratedAt string               `json:"generated_at"`
	Events      []storage.RecapEvent `json:"events"`
}

// HandleReplay returns the replay timeline for a session.
// GET /api/replay?session_id=XXX&turn=N&since_turn=N
func (rh *ReplayHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		rh.jsonError(w, "Missing session_id", http.StatusBadRequest)
		return
	}

	sinceTurn := 0
	filterDesc := ""
	if s := r.URL.Query().Get("since_turn"); s != "" {
		sinceTurn, _ = strconv.Atoi(s)
		filterDesc = "since turn " + s
	}

	var events []storage.RecapEvent
	if rh.recapper != nil {
		var err error
		events, err = rh.recapper.GenerateRecap(r.Context(), sessionID, sinceTurn)
		if err != nil {
			rh.logger.Error("Replay recap failed: " + err.Error())
			rh.jsonError(w, "Failed to build replay", http.StatusInternalServerError)
			return
		}
	} else {
		events = rh.recapFromMemory(sessionID, sinceTurn)
	}

	if s := r.URL.Query().Get("turn"); s != "" {
		turn, _ := strconv.Atoi(s)
		filtered := events[:0]
		for _, e := range events {
			if e.Turn == turn {
				filtered = append(filtered, e)
			}
		}
		events = filtered
		filterDesc = "turn " + s
	}

	response := ReplayResponse{
		SessionID:   sessionID,
		TotalEvents: len(events),
		FilteredBy:  filterDesc,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      events,
	}

	rh.logger.Event("REPLAY", sessionID, "Entries:"+strconv.Itoa(len(events)))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleStats returns aggregate journal statistics.
// GET /api/replay/stats
func (rh *ReplayHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	all := rh.journal.Replay()

	stats := map[string]int{
		"total_entries":    len(all),
		"advances":         0,
		"endings":          0,
		"sessions_created": 0,
	}

	for _, e := range all {
		switch e.Type {
		case journal.EntryTypeAdvance:
			stats["advances"]++
		case journal.EntryTypeEnding:
			stats["endings"]++
		case journal.EntryTypeSessionCreated:
			stats["sessions_created"]++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"stats":        stats,
	})
}

// RegisterRoutes sets up the replay API routes.
func (rh *ReplayHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/replay", rh.HandleReplay)
	mux.HandleFunc("/api/replay/stats", rh.HandleStats)
}

// recapFromMemory builds the timeline straight from the in-memory
// journal when no persistent repository is wired.
func (rh *ReplayHandler) recapFromMemory(sessionID string, sinceTurn int) []storage.RecapEvent {
	var events []storage.RecapEvent
	for _, e := range rh.journal.BySession(sessionID) {
		if e.Turn < sinceTurn {
			continue
		}
		events = append(events, storage.RecapEvent{
			Timestamp: e.Timestamp.Format("2006-01-02 15:04:05"),
			Turn:      e.Turn,
			EntryType: string(e.Type),
			Summary:   string(e.Type),
			Impact:    "NEUTRAL",
			Narration: e.Narration,
		})
	}
	return events
}

// jsonError sends an error response.
func (rh *ReplayHandler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
