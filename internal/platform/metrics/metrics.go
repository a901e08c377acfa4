// Package metrics provides observability for the simulation server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance metrics.
type Collector struct {
	// Advance metrics
	AdvanceCount      int64
	AdvanceLatencySum int64 // nanoseconds
	AdvanceLatencyMax int64
	AdvanceErrors     int64
	LastAdvanceTime   time.Time

	// Session metrics
	SessionsCreated int64
	SessionsDeleted int64
	SessionsEnded   int64

	// Journal metrics
	JournalWrites        int64
	JournalWriteLatSum   int64
	JournalWriteLatMax   int64
	JournalWriteErrors   int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesOut       int64
	WSErrors            int64

	// Narrator (LLM) metrics
	LLMRequests   int64
	LLMTokensUsed int64
	LLMCostUSD    float64
	LLMLatencySum int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordAdvance records one engine advance call.
func (c *Collector) RecordAdvance(latency time.Duration, err error) {
	atomic.AddInt64(&c.AdvanceCount, 1)
	atomic.AddInt64(&c.AdvanceLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.AdvanceLatencyMax) {
		atomic.StoreInt64(&c.AdvanceLatencyMax, int64(latency))
	}
	if err != nil {
		atomic.AddInt64(&c.AdvanceErrors, 1)
	}

	c.mu.Lock()
	c.LastAdvanceTime = time.Now()
	c.mu.Unlock()
}

// RecordSessionCreated records a new session.
func (c *Collector) RecordSessionCreated() {
	atomic.AddInt64(&c.SessionsCreated, 1)
}

// RecordSessionDeleted records an explicit session delete.
func (c *Collector) RecordSessionDeleted() {
	atomic.AddInt64(&c.SessionsDeleted, 1)
}

// RecordSessionEnded records a session reaching a terminal state.
func (c *Collector) RecordSessionEnded() {
	atomic.AddInt64(&c.SessionsEnded, 1)
}

// RecordJournalWrite records a turn-journal write to the database.
func (c *Collector) RecordJournalWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.JournalWrites, 1)
	atomic.AddInt64(&c.JournalWriteLatSum, int64(latency))

	if int64(latency) > atomic.LoadInt64(&c.JournalWriteLatMax) {
		atomic.StoreInt64(&c.JournalWriteLatMax, int64(latency))
	}

	if err != nil {
		atomic.AddInt64(&c.JournalWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records an outbound WebSocket message.
func (c *Collector) RecordWSMessage() {
	atomic.AddInt64(&c.WSMessagesOut, 1)
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// RecordLLMCall records a narrator API call.
func (c *Collector) RecordLLMCall(tokens int, cost float64, latency time.Duration) {
	atomic.AddInt64(&c.LLMRequests, 1)
	atomic.AddInt64(&c.LLMTokensUsed, int64(tokens))
	atomic.AddInt64(&c.LLMLatencySum, int64(latency))

	c.mu.Lock()
	c.LLMCostUSD += cost
	c.mu.Unlock()
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	advanceCount := atomic.LoadInt64(&c.AdvanceCount)
	journalWrites := atomic.LoadInt64(&c.JournalWrites)
	llmRequests := atomic.LoadInt64(&c.LLMRequests)

	// Calculate averages
	var advanceAvg, journalAvg, llmAvg float64
	if advanceCount > 0 {
		advanceAvg = float64(atomic.LoadInt64(&c.AdvanceLatencySum)) / float64(advanceCount) / 1e6 // ms
	}
	if journalWrites > 0 {
		journalAvg = float64(atomic.LoadInt64(&c.JournalWriteLatSum)) / float64(journalWrites) / 1e6
	}
	if llmRequests > 0 {
		llmAvg = float64(atomic.LoadInt64(&c.LLMLatencySum)) / float64(llmRequests) / 1e9 // seconds
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"advance": map[string]interface{}{
			"count":          advanceCount,
			"errors":         atomic.LoadInt64(&c.AdvanceErrors),
			"avg_latency_ms": advanceAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.AdvanceLatencyMax)) / 1e6,
			"last_advance":   c.LastAdvanceTime.Format(time.RFC3339),
		},

		"sessions": map[string]interface{}{
			"created": atomic.LoadInt64(&c.SessionsCreated),
			"deleted": atomic.LoadInt64(&c.SessionsDeleted),
			"ended":   atomic.LoadInt64(&c.SessionsEnded),
		},

		"journal": map[string]interface{}{
			"writes":           journalWrites,
			"avg_write_lat_ms": journalAvg,
			"max_write_lat_ms": float64(atomic.LoadInt64(&c.JournalWriteLatMax)) / 1e6,
			"errors":           atomic.LoadInt64(&c.JournalWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},

		"narrator": map[string]interface{}{
			"requests":        llmRequests,
			"tokens_used":     atomic.LoadInt64(&c.LLMTokensUsed),
			"cost_usd":        c.LLMCostUSD,
			"avg_latency_sec": llmAvg,
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		fmt.Fprintf(w, "# HELP pulso_advance_count Total engine advance calls\n")
		fmt.Fprintf(w, "# TYPE pulso_advance_count counter\n")
		fmt.Fprintf(w, "pulso_advance_count %d\n\n", atomic.LoadInt64(&c.AdvanceCount))

		fmt.Fprintf(w, "# HELP pulso_advance_errors Total failed advance calls\n")
		fmt.Fprintf(w, "# TYPE pulso_advance_errors counter\n")
		fmt.Fprintf(w, "pulso_advance_errors %d\n\n", atomic.LoadInt64(&c.AdvanceErrors))

		fmt.Fprintf(w, "# HELP pulso_advance_latency_max_ms Maximum advance latency\n")
		fmt.Fprintf(w, "# TYPE pulso_advance_latency_max_ms gauge\n")
		fmt.Fprintf(w, "pulso_advance_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.AdvanceLatencyMax))/1e6)

		fmt.Fprintf(w, "# HELP pulso_sessions_created Total sessions created\n")
		fmt.Fprintf(w, "# TYPE pulso_sessions_created counter\n")
		fmt.Fprintf(w, "pulso_sessions_created %d\n\n", atomic.LoadInt64(&c.SessionsCreated))

		fmt.Fprintf(w, "# HELP pulso_sessions_ended Total sessions reaching an ending\n")
		fmt.Fprintf(w, "# TYPE pulso_sessions_ended counter\n")
		fmt.Fprintf(w, "pulso_sessions_ended %d\n\n", atomic.LoadInt64(&c.SessionsEnded))

		fmt.Fprintf(w, "# HELP pulso_journal_writes Total turn-journal writes\n")
		fmt.Fprintf(w, "# TYPE pulso_journal_writes counter\n")
		fmt.Fprintf(w, "pulso_journal_writes %d\n\n", atomic.LoadInt64(&c.JournalWrites))

		fmt.Fprintf(w, "# HELP pulso_journal_write_errors Total turn-journal write errors\n")
		fmt.Fprintf(w, "# TYPE pulso_journal_write_errors counter\n")
		fmt.Fprintf(w, "pulso_journal_write_errors %d\n\n", atomic.LoadInt64(&c.JournalWriteErrors))

		fmt.Fprintf(w, "# HELP pulso_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE pulso_ws_connections gauge\n")
		fmt.Fprintf(w, "pulso_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP pulso_ws_messages_total Total outbound WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE pulso_ws_messages_total counter\n")
		fmt.Fprintf(w, "pulso_ws_messages_total %d\n\n", atomic.LoadInt64(&c.WSMessagesOut))

		fmt.Fprintf(w, "# HELP pulso_llm_requests Total narrator API requests\n")
		fmt.Fprintf(w, "# TYPE pulso_llm_requests counter\n")
		fmt.Fprintf(w, "pulso_llm_requests %d\n\n", atomic.LoadInt64(&c.LLMRequests))

		fmt.Fprintf(w, "# HELP pulso_llm_tokens_used Total tokens consumed\n")
		fmt.Fprintf(w, "# TYPE pulso_llm_tokens_used counter\n")
		fmt.Fprintf(w, "pulso_llm_tokens_used %d\n\n", atomic.LoadInt64(&c.LLMTokensUsed))

		c.mu.RLock()
		fmt.Fprintf(w, "# HELP pulso_llm_cost_usd Total narrator cost in USD\n")
		fmt.Fprintf(w, "# TYPE pulso_llm_cost_usd counter\n")
		fmt.Fprintf(w, "pulso_llm_cost_usd %.4f\n", c.LLMCostUSD)
		c.mu.RUnlock()
	}
}
