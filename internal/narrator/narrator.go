// Package narrator attaches prose to journal entries asynchronously.
// The engine decides everything; the narrator only writes flavor text
// over outcomes already recorded in the journal. If no LLM provider is
// configured the server runs fine without it.
package narrator

import (
	"context"
	"time"

	"github.com/lmedrano/pulso/internal/infra/ai"
	"github.com/lmedrano/pulso/internal/journal"
	"github.com/lmedrano/pulso/internal/platform/logger"
	"github.com/lmedrano/pulso/internal/platform/metrics"
)

// NarrationSink persists narration past the in-memory journal.
type NarrationSink interface {
	SetNarration(ctx context.Context, entryID string, narration string) error
}

// Worker polls the journal for entries without narration and fills
// them in by calling the configured LLM provider.
type Worker struct {
	journal  *journal.Journal
	provider ai.LLMProvider
	sink     NarrationSink
	logger   *logger.Logger
	metrics  *metrics.Collector

	lastProcessed int
}

// NewWorker creates a narration worker. sink may be nil when journal
// persistence is disabled.
func NewWorker(j *journal.Journal, provider ai.LLMProvider, sink NarrationSink, log *logger.Logger, m *metrics.Collector) *Worker {
	return &Worker{
		journal:  j,
		provider: provider,
		sink:     sink,
		logger:   log,
		metrics:  m,
	}
}

// Start begins the polling loop. Returns immediately; the loop runs
// until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	if w.provider == nil || !w.provider.IsAvailable() {
		w.logger.Info("Narrator disabled: no LLM provider configured.")
		return
	}
	w.logger.Info("Narrator started with provider " + w.provider.Name())
	go w.loop(ctx)
}

func (w *Worker) loop(ctx context.Context) {
	poll := time.NewTicker(2 * time.Second)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Narrator stopped.")
			return
		case <-poll.C:
			total := w.journal.Len()
			if total <= w.lastProcessed {
				continue
			}
			for _, entry := range w.journal.Since(w.lastProcessed) {
				w.narrate(ctx, entry)
			}
			w.lastProcessed = total
		}
	}
}

// narrate generates and attaches prose for one entry. Entry types that
// carry no story (session bookkeeping) are skipped.
func (w *Worker) narrate(ctx context.Context, entry journal.Entry) {
	if entry.Type != journal.EntryTypeAdvance && entry.Type != journal.EntryTypeEnding {
		return
	}

	summary := payloadString(entry.Payload, "summary")
	if summary == "" {
		return
	}
	city := payloadString(entry.Payload, "city")
	neighborhood := payloadString(entry.Payload, "neighborhood")

	prompt := ai.BuildNarrationPrompt(city, neighborhood, entry.Turn, summary, payloadStrings(entry.Payload, "eventTitles"))

	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	costBefore := w.provider.GetUsageStats().TotalCostUSD
	resp, err := w.provider.Complete(callCtx, ai.CompletionRequest{
		Messages: []ai.Message{
			{Role: "system", Content: ai.NarratorSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   256,
		Temperature: 0.7,
	})
	if err != nil {
		w.logger.Warn("Narration failed for entry " + entry.ID + ": " + err.Error())
		return
	}
	w.metrics.RecordLLMCall(resp.TotalTokens, w.provider.GetUsageStats().TotalCostUSD-costBefore, resp.Latency)

	w.journal.AttachNarration(entry.ID, resp.Content)
	if w.sink != nil {
		if err := w.sink.SetNarration(ctx, entry.ID, resp.Content); err != nil {
			w.logger.Warn("Failed to persist narration: " + err.Error())
		}
	}
}

// payloadString pulls a string field out of a journal payload, which
// may be a map or anything JSON-shaped.
func payloadString(payload interface{}, key string) string {
	m, ok := payload.(map[string]interface{})
	if !ok {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// payloadStrings pulls a string slice out of a journal payload.
func payloadStrings(payload interface{}, key string) []string {
	m, ok := payload.(map[string]interface{})
	if !ok {
		return nil
	}
	switch v := m[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
