package network

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lmedrano/pulso/internal/journal"
	"github.com/lmedrano/pulso/internal/platform/logger"
)

func seededJournal() *journal.Journal {
	j := journal.New(nil)
	j.Append(journal.Entry{SessionID: "s1", Turn: 1, Type: journal.EntryTypeSessionCreated})
	j.Append(journal.Entry{SessionID: "s1", Turn: 1, Type: journal.EntryTypeAdvance})
	j.Append(journal.Entry{SessionID: "s1", Turn: 2, Type: journal.EntryTypeAdvance})
	j.Append(journal.Entry{SessionID: "s2", Turn: 1, Type: journal.EntryTypeAdvance})
	j.Append(journal.Entry{SessionID: "s1", Turn: 2, Type: journal.EntryTypeEnding})
	return j
}

func TestHandleReplayRequiresSessionID(t *testing.T) {
	rh := NewReplayHandler(seededJournal(), nil, logger.NewLogger())

	rec := httptest.NewRecorder()
	rh.HandleReplay(rec, httptest.NewRequest(http.MethodGet, "/api/replay", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	rh.HandleReplay(rec, httptest.NewRequest(http.MethodPost, "/api/replay?session_id=s1", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandleReplayFromMemoryJournal(t *testing.T) {
	rh := NewReplayHandler(seededJournal(), nil, logger.NewLogger())

	rec := httptest.NewRecorder()
	rh.HandleReplay(rec, httptest.NewRequest(http.MethodGet, "/api/replay?session_id=s1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp ReplayResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID != "s1" || resp.TotalEvents != 4 {
		t.Errorf("resp = %+v, want 4 s1 events", resp)
	}

	// since_turn drops earlier turns, turn narrows to one turn.
	rec = httptest.NewRecorder()
	rh.HandleReplay(rec, httptest.NewRequest(http.MethodGet, "/api/replay?session_id=s1&since_turn=2", nil))
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.TotalEvents != 2 {
		t.Errorf("since_turn=2: %d events, want 2", resp.TotalEvents)
	}

	rec = httptest.NewRecorder()
	rh.HandleReplay(rec, httptest.NewRequest(http.MethodGet, "/api/replay?session_id=s1&turn=1", nil))
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.TotalEvents != 2 || resp.FilteredBy != "turn 1" {
		t.Errorf("turn=1: %+v", resp)
	}
}

func TestHandleStatsCounts(t *testing.T) {
	rh := NewReplayHandler(seededJournal(), nil, logger.NewLogger())

	rec := httptest.NewRecorder()
	rh.HandleStats(rec, httptest.NewRequest(http.MethodGet, "/api/replay/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Stats map[string]int `json:"stats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Stats["advances"] != 3 || resp.Stats["endings"] != 1 || resp.Stats["sessions_created"] != 1 {
		t.Errorf("stats = %+v", resp.Stats)
	}
	if resp.Stats["total_entries"] != 5 {
		t.Errorf("total = %d, want 5", resp.Stats["total_entries"])
	}
}

func TestClientSessionFilter(t *testing.T) {
	c := &Client{}

	msg := []byte(`{"session_id":"s1","type":"ADVANCE"}`)
	if !c.wantsMessage(msg) {
		t.Error("unfiltered client should accept everything")
	}

	c.filterMu.Lock()
	c.sessionFilter = "s1"
	c.filterMu.Unlock()
	if !c.wantsMessage(msg) {
		t.Error("matching session should pass the filter")
	}
	if c.wantsMessage([]byte(`{"session_id":"s2"}`)) {
		t.Error("other sessions should be filtered out")
	}
	if !c.wantsMessage([]byte(`not json`)) {
		t.Error("unparseable broadcasts pass through")
	}
}
