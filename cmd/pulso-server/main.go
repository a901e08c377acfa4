// Package main is the entry point for the Pulso simulation server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lmedrano/pulso/internal/content"
	"github.com/lmedrano/pulso/internal/domain/game"
	"github.com/lmedrano/pulso/internal/domain/pulse"
	"github.com/lmedrano/pulso/internal/engine"
	"github.com/lmedrano/pulso/internal/infra/ai"
	"github.com/lmedrano/pulso/internal/infra/session"
	"github.com/lmedrano/pulso/internal/infra/storage"
	"github.com/lmedrano/pulso/internal/journal"
	"github.com/lmedrano/pulso/internal/narrator"
	"github.com/lmedrano/pulso/internal/network"
	"github.com/lmedrano/pulso/internal/platform/config"
	"github.com/lmedrano/pulso/internal/platform/logger"
	"github.com/lmedrano/pulso/internal/platform/metrics"
)

// journalPersisterAdapter translates journal entries to storage records.
type journalPersisterAdapter struct {
	repo    *storage.SQLiteJournalRepository
	metrics *metrics.Collector
	logger  *logger.Logger
}

func (a *journalPersisterAdapter) Append(entry journal.Entry) error {
	var payloadMap map[string]interface{}
	payloadBytes, err := json.Marshal(entry.Payload)
	if err != nil {
		a.logger.Error("Journal payload not serializable for entry " + entry.ID + ": " + err.Error())
		return err
	}
	if err := json.Unmarshal(payloadBytes, &payloadMap); err != nil {
		a.logger.Error("Journal payload not decodable for entry " + entry.ID + ": " + err.Error())
		return err
	}

	record := storage.JournalEntry{
		ID:        entry.ID,
		SessionID: entry.SessionID,
		Timestamp: entry.Timestamp,
		EntryType: string(entry.Type),
		Turn:      entry.Turn,
		Phase:     entry.Phase,
		Payload:   payloadMap,
		Narration: entry.Narration,
	}

	start := time.Now()
	err = a.repo.Append(context.Background(), record)
	a.metrics.RecordJournalWrite(time.Since(start), err)
	return err
}

// server holds everything the HTTP handlers need.
type server struct {
	cfg       *config.Config
	logger    *logger.Logger
	metrics   *metrics.Collector
	engine    *engine.Engine
	store     session.Store
	cityRepo  *storage.SQLiteCityRepository
	journal   *journal.Journal
	templates content.TemplateSet

	// Per-session locks. The engine is stateless; concurrent advances
	// against the same session must be serialized here.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func (s *server) sessionLock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *server) turnContext() engine.TurnContext {
	return engine.TurnContext{
		GlobalEventTemplates:       s.templates.Global,
		CityEventTemplates:         s.templates.City,
		NeighborhoodEventTemplates: s.templates.Neighborhood,
	}
}

func bootstrapCities(ctx context.Context, repo *storage.SQLiteCityRepository, appLogger *logger.Logger) {
	appLogger.Info("Checking DB for existing cities...")
	cities, err := repo.ListCities(ctx)
	if err != nil {
		appLogger.Error("Failed to query DB for cities: " + err.Error())
		return
	}

	if len(cities) > 0 {
		appLogger.Info("Content store already seeded (" + strconv.Itoa(len(cities)) + " cities).")
		return
	}

	appLogger.Info("Database empty. Seeding default city profiles...")
	for _, profile := range content.DefaultCities() {
		if err := repo.UpsertCity(ctx, profile); err != nil {
			appLogger.Error("Failed to seed city " + profile.ID + ": " + err.Error())
		}
	}
}

func main() {
	log.Println("[PULSO-SERVER] Initializing Pulso simulation server...")

	appLogger := logger.NewLogger()
	collector := metrics.Get()

	cfg, err := config.Load()
	if err != nil {
		appLogger.Error("Failed to load configuration: " + err.Error())
		os.Exit(1)
	}

	appLogger.Info("Initializing SQLite database '" + cfg.DBPath + "'...")
	db, err := storage.InitSQLite(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)

	journalRepo := storage.NewSQLiteJournalRepository(db)
	cityRepo := storage.NewSQLiteCityRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bootstrapCities(ctx, cityRepo, appLogger)

	appLogger.Info("Bootstrapping turn journal...")
	turnJournal := journal.New(&journalPersisterAdapter{repo: journalRepo, metrics: collector, logger: appLogger})

	appLogger.Info("Bootstrapping engine...")
	gameEngine := engine.NewEngine(appLogger)

	appLogger.Info("Bootstrapping session store (TTL " + cfg.SessionTTL.String() + ")...")
	if cfg.RedisAddr != "" {
		appLogger.Warn("PULSO_REDIS_ADDR is set but no Redis client is compiled in; using the in-memory store")
	}
	memStore := session.NewMemoryStore(cfg.SessionTTL)
	defer memStore.Close()

	srv := &server{
		cfg:       cfg,
		logger:    appLogger,
		metrics:   collector,
		engine:    gameEngine,
		store:     memStore,
		cityRepo:  cityRepo,
		journal:   turnJournal,
		templates: content.DefaultTemplates(),
		locks:     make(map[string]*sync.Mutex),
	}

	appLogger.Info("Bootstrapping WebSocket hub...")
	hub := network.NewHub(appLogger, collector, cfg.BroadcastBuffer)
	go hub.Run(ctx)
	hub.StartJournalPoller(ctx, turnJournal)

	if cfg.NarratorEnabled() {
		appLogger.Info("Bootstrapping narrator...")
		budgetGate := ai.NewBudgetGate(cfg.LLMBudgetUSD, cfg.LLMBudgetUSD*5)
		var provider ai.LLMProvider
		switch cfg.LLMProvider {
		case "anthropic":
			provider = ai.NewAnthropicProvider(cfg.AnthropicKey, budgetGate)
		default:
			provider = ai.NewOpenAIProvider(cfg.OpenAIKey, budgetGate)
		}
		narrWorker := narrator.NewWorker(turnJournal, provider, journalRepo, appLogger, collector)
		narrWorker.Start(ctx)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/sessions", srv.handleSessions)
	mux.HandleFunc("/api/sessions/", srv.handleSessionByID)
	mux.HandleFunc("/api/cities", srv.handleCities)
	mux.HandleFunc("/api/cities/", srv.handleCityByID)
	mux.HandleFunc("/metrics", metrics.Handler())
	mux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	replayHandler := network.NewReplayHandler(turnJournal, storage.NewRecapper(journalRepo), appLogger)
	replayHandler.RegisterRoutes(mux)

	director := network.NewDirectorBridge(srv, appLogger)
	director.RegisterRoutes(mux)

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger, cfg.ClientSendBuffer)
	})

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	go func() {
		log.Printf("[PULSO-SERVER] HTTP API & WS server listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[PULSO-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[PULSO-SERVER] Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}

// --- Session handlers ---

type createSessionRequest struct {
	CityID   string `json:"city_id"`
	MaxTurns int    `json:"max_turns,omitempty"`
}

type advanceRequest struct {
	ChoiceIDs []string `json:"choice_ids,omitempty"`
}

type sessionResponse struct {
	State    *game.GameState       `json:"state"`
	Result   *engine.TurnResult    `json:"result,omitempty"`
	Unlocked []engine.ChoiceUnlock `json:"unlocked,omitempty"`
}

// handleSessions creates a new session.
// POST /api/sessions
func (s *server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.CityID == "" {
		jsonError(w, "Missing city_id", http.StatusBadRequest)
		return
	}

	profile, err := s.cityRepo.GetCityWithNeighborhoods(r.Context(), req.CityID)
	if err != nil {
		if errors.Is(err, content.ErrCityNotFound) {
			jsonError(w, "Unknown city: "+req.CityID, http.StatusNotFound)
			return
		}
		jsonError(w, "Failed to load city", http.StatusInternalServerError)
		return
	}

	maxTurns := req.MaxTurns
	if maxTurns <= 0 {
		maxTurns = s.cfg.DefaultMaxTurns
	}

	state := game.NewGameState(uuid.NewString(), profile.ToState(), content.DefaultFamily(), content.DefaultGlobal(), maxTurns)

	sess := &session.Session{
		ID:        state.SessionID,
		State:     state,
		CreatedAt: time.Now(),
	}
	if err := s.store.Set(r.Context(), sess); err != nil {
		jsonError(w, "Failed to store session", http.StatusInternalServerError)
		return
	}

	s.journal.Append(journal.Entry{
		SessionID: state.SessionID,
		Turn:      state.Turn,
		Phase:     string(state.Phase),
		Type:      journal.EntryTypeSessionCreated,
		Payload: map[string]interface{}{
			"city":     profile.Name,
			"maxTurns": maxTurns,
		},
	})
	s.metrics.RecordSessionCreated()
	s.logger.Event("SESSION_CREATED", state.SessionID, "City:"+profile.ID)

	writeJSON(w, http.StatusCreated, sessionResponse{State: state})
}

// handleSessionByID routes /api/sessions/{id} and its sub-paths.
func (s *server) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.SplitN(rest, "/", 2)
	id := parts[0]
	if id == "" {
		jsonError(w, "Missing session id", http.StatusBadRequest)
		return
	}

	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		s.handleGetSession(w, r, id)
	case action == "" && r.Method == http.MethodDelete:
		s.handleDeleteSession(w, r, id)
	case action == "advance" && r.Method == http.MethodPost:
		s.handleAdvance(w, r, id)
	case action == "skip" && r.Method == http.MethodPost:
		s.handleSkip(w, r, id)
	default:
		jsonError(w, "Not found", http.StatusNotFound)
	}
}

func (s *server) handleGetSession(w http.ResponseWriter, r *http.Request, id string) {
	// The store hands out the shared session; an advance may swap
	// State under us, so reads hold the same per-session lock.
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		jsonError(w, "Session not found", http.StatusNotFound)
		return
	}

	resp := sessionResponse{State: sess.State}
	if sess.State.CurrentDecision != nil {
		resp.Unlocked = s.engine.UnlockedChoices(sess.State)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleDeleteSession(w http.ResponseWriter, r *http.Request, id string) {
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		jsonError(w, "Session not found", http.StatusNotFound)
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		jsonError(w, "Failed to delete session", http.StatusInternalServerError)
		return
	}

	s.journal.Append(journal.Entry{
		SessionID: id,
		Turn:      sess.State.Turn,
		Phase:     string(sess.State.Phase),
		Type:      journal.EntryTypeSessionDeleted,
	})
	s.metrics.RecordSessionDeleted()
	s.logger.Event("SESSION_DELETED", id, "Turn:"+strconv.Itoa(sess.State.Turn))

	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleAdvance(w http.ResponseWriter, r *http.Request, id string) {
	var req advanceRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		jsonError(w, "Session not found", http.StatusNotFound)
		return
	}

	start := time.Now()
	newState, result, err := s.engine.Advance(sess.State, s.turnContext(), req.ChoiceIDs)
	s.metrics.RecordAdvance(time.Since(start), err)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrInvalidChoice) || errors.Is(err, engine.ErrMissingChoices) || errors.Is(err, engine.ErrNoActiveDecision) {
			status = http.StatusUnprocessableEntity
		}
		jsonError(w, err.Error(), status)
		return
	}

	sess.State = newState
	if err := s.store.Set(r.Context(), sess); err != nil {
		jsonError(w, "Failed to store session", http.StatusInternalServerError)
		return
	}

	s.recordAdvanceEntries(newState, result)

	writeJSON(w, http.StatusOK, sessionResponse{State: newState, Result: result})
}

func (s *server) handleSkip(w http.ResponseWriter, r *http.Request, id string) {
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		jsonError(w, "Session not found", http.StatusNotFound)
		return
	}

	start := time.Now()
	newState, result, err := s.engine.AdvanceToDecision(sess.State, s.turnContext())
	s.metrics.RecordAdvance(time.Since(start), err)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sess.State = newState
	if err := s.store.Set(r.Context(), sess); err != nil {
		jsonError(w, "Failed to store session", http.StatusInternalServerError)
		return
	}

	s.recordAdvanceEntries(newState, result)

	writeJSON(w, http.StatusOK, sessionResponse{State: newState, Result: result})
}

// recordAdvanceEntries appends journal entries for one advance result.
// The summary and setting fields feed the narrator and the replay view.
func (s *server) recordAdvanceEntries(st *game.GameState, result *engine.TurnResult) {
	neighborhoodName := ""
	if n := st.City.CurrentNeighborhood(); n != nil {
		neighborhoodName = n.Name
	}

	eventTitles := make([]string, 0, len(result.NewEvents))
	for _, ev := range result.NewEvents {
		eventTitles = append(eventTitles, ev.Title)
	}

	s.journal.Append(journal.Entry{
		SessionID: st.SessionID,
		Turn:      st.Turn,
		Phase:     string(result.Phase),
		Type:      journal.EntryTypeAdvance,
		Payload: map[string]interface{}{
			"summary":      advanceSummary(st, result),
			"city":         st.City.Name,
			"neighborhood": neighborhoodName,
			"eventTitles":  eventTitles,
			"result":       result,
		},
	})

	if result.Ending != nil {
		s.journal.Append(journal.Entry{
			SessionID: st.SessionID,
			Turn:      st.Turn,
			Phase:     string(result.Phase),
			Type:      journal.EntryTypeEnding,
			Payload: map[string]interface{}{
				"kind":    string(result.Ending.Kind),
				"victory": string(result.Ending.VictoryType),
				"reason":  result.Ending.Reason,
				"summary": endingText(result.Ending),
			},
		})
		s.metrics.RecordSessionEnded()
		s.logger.Event("SESSION_ENDED", st.SessionID, string(result.Ending.Kind))
	}
}

// advanceSummary builds the plain-language line the narrator works from.
func advanceSummary(st *game.GameState, result *engine.TurnResult) string {
	var sb strings.Builder
	sb.WriteString("Week " + strconv.Itoa(st.Turn) + ".")
	for _, ev := range result.NewEvents {
		sb.WriteString(" New development: " + ev.Title + ".")
	}
	for _, ev := range result.ExpiredEvents {
		sb.WriteString(" " + ev.Title + " has run its course.")
	}
	if result.Decision != nil {
		sb.WriteString(" The family faces a decision: " + result.Decision.Title + ".")
	}
	if result.DecisionExpired {
		sb.WriteString(" A chance to act slipped by unanswered.")
	}
	if result.Ending != nil {
		sb.WriteString(" " + endingText(result.Ending))
	}
	return sb.String()
}

// endingText renders a terminal outcome as a sentence for the journal.
func endingText(e *game.Ending) string {
	if e.Kind == game.EndingVictory {
		switch e.VictoryType {
		case game.VictorySanctuary:
			return "The neighborhood closed ranks and became a sanctuary."
		case game.VictoryOutlast:
			return "The surge broke before the family did."
		case game.VictoryTransform:
			return "The city itself turned against the enforcement campaign."
		}
		return "The family found a way through."
	}
	if e.Reason != "" {
		return "The story ends here (" + e.Reason + ")."
	}
	return "The story ends here."
}

// ForceEvent implements network.EventInjector for the director bridge.
// It stages a template onto a session regardless of triggers or weight.
func (s *server) ForceEvent(sessionID, templateID string) error {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	ctx := context.Background()
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return errors.New("session not found: " + sessionID)
	}
	if sess.State.Ended() {
		return errors.New("session already ended")
	}

	tpl, ok := s.findTemplate(templateID)
	if !ok {
		return errors.New("unknown template: " + templateID)
	}

	st := sess.State.Clone()
	applyForcedTemplate(st, tpl)
	sess.State = st
	if err := s.store.Set(ctx, sess); err != nil {
		return err
	}

	s.journal.Append(journal.Entry{
		SessionID: sessionID,
		Turn:      st.Turn,
		Phase:     string(st.Phase),
		Type:      journal.EntryTypeDirectorInject,
		Payload: map[string]interface{}{
			"templateId": tpl.ID,
			"title":      tpl.Title,
		},
	})
	return nil
}

func (s *server) findTemplate(templateID string) (game.EventTemplate, bool) {
	pools := [][]game.EventTemplate{s.templates.Global, s.templates.City, s.templates.Neighborhood}
	for _, pool := range pools {
		for _, tpl := range pool {
			if tpl.ID == templateID {
				return tpl, true
			}
		}
	}
	return game.EventTemplate{}, false
}

// applyForcedTemplate mirrors what the event phase does for a selected
// template, minus trigger and weight checks.
func applyForcedTemplate(st *game.GameState, tpl game.EventTemplate) {
	if tpl.Mode == game.EffectInstant {
		np := &pulse.NeighborhoodPulse{}
		if n := st.City.CurrentNeighborhood(); n != nil {
			np = &n.Pulse
		}
		pulse.Apply(&st.GlobalPulse, &st.City.Pulse, np, &st.Family, tpl.Effects)
	}
	if tpl.Duration > 0 {
		active := game.ActiveEvent{
			TemplateID: tpl.ID,
			Scope:      tpl.Scope,
			Title:      tpl.Title,
			Mode:       tpl.Mode,
			Effects:    tpl.Effects,
			StartTurn:  st.Turn,
			Remaining:  tpl.Duration,
		}
		switch tpl.Scope {
		case game.ScopeGlobal:
			st.ActiveEvents.Global = append(st.ActiveEvents.Global, active)
		case game.ScopeCity:
			st.ActiveEvents.City = append(st.ActiveEvents.City, active)
		default:
			st.ActiveEvents.Neighborhood = append(st.ActiveEvents.Neighborhood, active)
		}
	}
	if tpl.Decision != nil && st.CurrentDecision == nil {
		d := tpl.Decision.Clone()
		d.StagedTurn = st.Turn
		st.CurrentDecision = &d
	}
}

// --- City handlers ---

// handleCities serves the city catalog.
// GET /api/cities lists, PUT /api/cities upserts a profile.
func (s *server) handleCities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cities, err := s.cityRepo.ListCities(r.Context())
		if err != nil {
			jsonError(w, "Failed to list cities", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"cities": cities})
	case http.MethodPut:
		var profile content.CityProfile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			jsonError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if profile.ID == "" || len(profile.Neighborhoods) == 0 {
			jsonError(w, "City needs an id and at least one neighborhood", http.StatusBadRequest)
			return
		}
		if err := s.cityRepo.UpsertCity(r.Context(), profile); err != nil {
			jsonError(w, "Failed to store city", http.StatusInternalServerError)
			return
		}
		s.logger.Event("CITY_UPSERT", "-", profile.ID)
		writeJSON(w, http.StatusOK, map[string]string{"status": "stored", "id": profile.ID})
	default:
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCityByID serves GET/DELETE /api/cities/{id}.
func (s *server) handleCityByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/cities/")
	if id == "" {
		jsonError(w, "Missing city id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		profile, err := s.cityRepo.GetCityWithNeighborhoods(r.Context(), id)
		if err != nil {
			if errors.Is(err, content.ErrCityNotFound) {
				jsonError(w, "Unknown city: "+id, http.StatusNotFound)
				return
			}
			jsonError(w, "Failed to load city", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	case http.MethodDelete:
		if err := s.cityRepo.DeleteCity(r.Context(), id); err != nil {
			if errors.Is(err, content.ErrCityNotFound) {
				jsonError(w, "Unknown city: "+id, http.StatusNotFound)
				return
			}
			jsonError(w, "Failed to delete city", http.StatusInternalServerError)
			return
		}
		s.logger.Event("CITY_DELETE", "-", id)
		w.WriteHeader(http.StatusNoContent)
	default:
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// --- WebSocket ---

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Observer feed is read-only; cross-origin is fine
	},
}

// serveWs handles websocket requests from observers.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger, sendBuffer int) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection")
		return
	}

	client := network.NewClient(hub, conn, sendBuffer)
	client.Register()

	go client.WritePump()
	go client.ReadPump()
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
