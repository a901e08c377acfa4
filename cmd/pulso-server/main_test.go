package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/lmedrano/pulso/internal/content"
	"github.com/lmedrano/pulso/internal/domain/game"
	"github.com/lmedrano/pulso/internal/domain/pulse"
	"github.com/lmedrano/pulso/internal/engine"
	"github.com/lmedrano/pulso/internal/infra/session"
	"github.com/lmedrano/pulso/internal/journal"
	"github.com/lmedrano/pulso/internal/platform/logger"
	"github.com/lmedrano/pulso/internal/platform/metrics"
)

func newTestServer(t *testing.T) *server {
	t.Helper()
	store := session.NewMemoryStore(time.Hour)
	t.Cleanup(store.Close)

	return &server{
		logger:    logger.NewLogger(),
		metrics:   metrics.Get(),
		engine:    engine.NewEngine(logger.NewLogger()),
		store:     store,
		journal:   journal.New(nil),
		templates: content.TemplateSet{},
		locks:     make(map[string]*sync.Mutex),
	}
}

func seedSession(t *testing.T, s *server, id string) {
	t.Helper()
	city := game.CityState{
		ID:    "test-city",
		Name:  "Test City",
		Pulse: pulse.CityPulse{PolicePresence: 50, PoliticalCover: 50, FederalCooperation: 50, MediaAttention: 50, LegalSupport: 50},
		Neighborhoods: []game.Neighborhood{
			{ID: "n1", Name: "First", Pulse: pulse.NeighborhoodPulse{Trust: 50, CommunityDensity: 50, Solidarity: 50, RumorLevel: 50, CheckpointActivity: 50}},
		},
		CurrentNeighborhoodID: "n1",
	}
	state := game.NewGameState(id, city, pulse.FamilyImpact{Stress: 50, Cohesion: 50},
		pulse.GlobalPulse{EnforcementClimate: 50, PolicyVolatility: 50}, 30)

	err := s.store.Set(context.Background(), &session.Session{
		ID:         id,
		State:      state,
		CreatedAt:  time.Now(),
		LastAccess: time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
}

// Advances swap the session's State pointer while reads serve it out.
// Both sides must hold the per-session lock; run with -race.
func TestConcurrentAdvanceAndGetSession(t *testing.T) {
	s := newTestServer(t)
	seedSession(t, s, "race-test")

	const iterations = 50
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/sessions/race-test/advance", nil)
			s.handleAdvance(w, r, "race-test")
			if w.Code != http.StatusOK {
				t.Errorf("advance %d: status = %d, body %s", i, w.Code, w.Body.String())
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/sessions/race-test", nil)
			s.handleGetSession(w, r, "race-test")
			if w.Code != http.StatusOK {
				t.Errorf("get %d: status = %d, body %s", i, w.Code, w.Body.String())
				return
			}
		}
	}()

	wg.Wait()
}

func TestDeleteSessionSerializedWithAdvance(t *testing.T) {
	s := newTestServer(t)
	seedSession(t, s, "delete-race")

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/sessions/delete-race/advance", nil)
			s.handleAdvance(w, r, "delete-race")
		}
	}()

	go func() {
		defer wg.Done()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/api/sessions/delete-race", nil)
		s.handleDeleteSession(w, r, "delete-race")
		if w.Code != http.StatusNoContent && w.Code != http.StatusNotFound {
			t.Errorf("delete: status = %d", w.Code)
		}
	}()

	wg.Wait()

	if _, err := s.store.Get(context.Background(), "delete-race"); err != session.ErrNotFound {
		t.Errorf("session still present after delete, err = %v", err)
	}
}

func TestJournalPersisterRejectsBadPayload(t *testing.T) {
	a := &journalPersisterAdapter{metrics: metrics.Get(), logger: logger.NewLogger()}

	err := a.Append(journal.Entry{
		ID:      "bad-payload",
		Payload: map[string]interface{}{"ch": make(chan int)},
	})
	if err == nil {
		t.Fatal("expected an error for a non-serializable payload")
	}
}
