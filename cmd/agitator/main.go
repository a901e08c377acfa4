// Package main - agitator
// Load generator for stress testing the simulation server.
// Drives many concurrent sessions through full turn cycles over HTTP.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"
)

// Config for the agitator
type Config struct {
	ServerURL       string
	NumClients      int
	AdvanceInterval time.Duration
	TestDuration    time.Duration
	CityID          string
}

// Stats tracks performance metrics
type Stats struct {
	SessionsCreated  int64
	AdvancesSent     int64
	DecisionsTaken   int64
	SessionsFinished int64
	Errors           int64
	Latencies        []time.Duration
	EndingsByKind    map[string]int64
	mu               sync.Mutex
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Server base URL")
	numClients := flag.Int("clients", 50, "Number of concurrent sessions")
	interval := flag.Duration("interval", 100*time.Millisecond, "Advance interval per session")
	duration := flag.Duration("duration", 60*time.Second, "Test duration")
	cityID := flag.String("city", "los-angeles", "City profile for the sessions")
	flag.Parse()

	config := Config{
		ServerURL:       *serverURL,
		NumClients:      *numClients,
		AdvanceInterval: *interval,
		TestDuration:    *duration,
		CityID:          *cityID,
	}

	fmt.Println("=========================================")
	fmt.Println("🔥 AGITATOR - Stress Test Tool")
	fmt.Println("=========================================")
	fmt.Printf("Server: %s\n", config.ServerURL)
	fmt.Printf("Sessions: %d\n", config.NumClients)
	fmt.Printf("Interval: %v\n", config.AdvanceInterval)
	fmt.Printf("Duration: %v\n", config.TestDuration)
	fmt.Printf("City: %s\n", config.CityID)
	fmt.Println("=========================================")

	ctx, cancel := context.WithTimeout(context.Background(), config.TestDuration)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Println("\n⚠️ Interrupt received, stopping...")
		cancel()
	}()

	stats := runStressTest(ctx, config)
	printResults(stats, config)
}

func runStressTest(ctx context.Context, config Config) *Stats {
	stats := &Stats{
		Latencies:     make([]time.Duration, 0, 10000),
		EndingsByKind: make(map[string]int64),
	}

	var wg sync.WaitGroup

	fmt.Println("\n🚀 Starting sessions...")

	for i := 0; i < config.NumClients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			runClient(ctx, clientID, config, stats)
		}(i)

		// Stagger client starts to avoid thundering herd
		time.Sleep(10 * time.Millisecond)
	}

	fmt.Printf("✅ All %d session drivers started\n\n", config.NumClients)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				adv := atomic.LoadInt64(&stats.AdvancesSent)
				done := atomic.LoadInt64(&stats.SessionsFinished)
				errs := atomic.LoadInt64(&stats.Errors)
				fmt.Printf("📊 Progress: Advances=%d Finished=%d Errors=%d\n", adv, done, errs)
			}
		}
	}()

	wg.Wait()
	return stats
}

// sessionView is the subset of the server's session response we need.
type sessionView struct {
	State struct {
		SessionID       string `json:"sessionId"`
		Turn            int    `json:"turn"`
		Phase           string `json:"phase"`
		CurrentDecision *struct {
			MultiSelect bool `json:"multiSelect"`
			Choices     []struct {
				ID string `json:"id"`
			} `json:"choices"`
		} `json:"currentDecision"`
		Ending *struct {
			Kind string `json:"kind"`
		} `json:"ending"`
	} `json:"state"`
}

func runClient(ctx context.Context, clientID int, config Config, stats *Stats) {
	httpClient := &http.Client{Timeout: 10 * time.Second}

	view, err := createSession(ctx, httpClient, config)
	if err != nil {
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	atomic.AddInt64(&stats.SessionsCreated, 1)
	sessionID := view.State.SessionID

	ticker := time.NewTicker(config.AdvanceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var choiceIDs []string
			if d := view.State.CurrentDecision; d != nil && view.State.Phase == "decision" && len(d.Choices) > 0 {
				// Sessions sometimes ignore decisions on purpose to
				// exercise the urgency expiry path.
				if rand.Float32() < 0.8 {
					choiceIDs = []string{d.Choices[rand.Intn(len(d.Choices))].ID}
					atomic.AddInt64(&stats.DecisionsTaken, 1)
				}
			}

			start := time.Now()
			next, err := advanceSession(ctx, httpClient, config, sessionID, choiceIDs)
			latency := time.Since(start)

			atomic.AddInt64(&stats.AdvancesSent, 1)
			stats.mu.Lock()
			stats.Latencies = append(stats.Latencies, latency)
			stats.mu.Unlock()

			if err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				continue
			}
			view = next

			if view.State.Ending != nil {
				atomic.AddInt64(&stats.SessionsFinished, 1)
				stats.mu.Lock()
				stats.EndingsByKind[view.State.Ending.Kind]++
				stats.mu.Unlock()

				// Start a fresh session and keep the pressure on.
				fresh, err := createSession(ctx, httpClient, config)
				if err != nil {
					atomic.AddInt64(&stats.Errors, 1)
					return
				}
				atomic.AddInt64(&stats.SessionsCreated, 1)
				view = fresh
				sessionID = view.State.SessionID
			}
		}
	}
}

func createSession(ctx context.Context, client *http.Client, config Config) (*sessionView, error) {
	body, _ := json.Marshal(map[string]interface{}{"city_id": config.CityID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.ServerURL+"/api/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return doSessionRequest(client, req, http.StatusCreated)
}

func advanceSession(ctx context.Context, client *http.Client, config Config, sessionID string, choiceIDs []string) (*sessionView, error) {
	payload := map[string]interface{}{}
	if len(choiceIDs) > 0 {
		payload["choice_ids"] = choiceIDs
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.ServerURL+"/api/sessions/"+sessionID+"/advance", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return doSessionRequest(client, req, http.StatusOK)
}

func doSessionRequest(client *http.Client, req *http.Request, wantStatus int) (*sessionView, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != wantStatus {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}

	var view sessionView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func printResults(stats *Stats, config Config) {
	fmt.Println("\n=========================================")
	fmt.Println("📊 STRESS TEST RESULTS")
	fmt.Println("=========================================")

	created := atomic.LoadInt64(&stats.SessionsCreated)
	advances := atomic.LoadInt64(&stats.AdvancesSent)
	decisions := atomic.LoadInt64(&stats.DecisionsTaken)
	finished := atomic.LoadInt64(&stats.SessionsFinished)
	errs := atomic.LoadInt64(&stats.Errors)

	fmt.Printf("Sessions Created:  %d\n", created)
	fmt.Printf("Advances Sent:     %d\n", advances)
	fmt.Printf("Decisions Taken:   %d\n", decisions)
	fmt.Printf("Sessions Finished: %d\n", finished)
	fmt.Printf("Errors:            %d\n", errs)
	fmt.Printf("Error Rate:        %.2f%%\n", float64(errs)/float64(advances+1)*100)

	throughput := float64(advances) / config.TestDuration.Seconds()
	fmt.Printf("Throughput:        %.2f advances/sec\n", throughput)

	stats.mu.Lock()
	for kind, count := range stats.EndingsByKind {
		fmt.Printf("Endings (%s): %d\n", kind, count)
	}
	stats.mu.Unlock()

	if len(stats.Latencies) > 0 {
		var total time.Duration
		var min, max time.Duration = stats.Latencies[0], stats.Latencies[0]

		for _, l := range stats.Latencies {
			total += l
			if l < min {
				min = l
			}
			if l > max {
				max = l
			}
		}

		avg := total / time.Duration(len(stats.Latencies))

		fmt.Printf("\nLatency:\n")
		fmt.Printf("  Min: %v\n", min)
		fmt.Printf("  Avg: %v\n", avg)
		fmt.Printf("  Max: %v\n", max)
	}

	fmt.Println("\n-----------------------------------------")
	if errs == 0 {
		fmt.Println("✅ TEST PASSED: System handled the load")
	} else if float64(errs)/float64(advances+1) < 0.05 {
		fmt.Println("⚠️ TEST WARNING: Some errors detected")
	} else {
		fmt.Println("❌ TEST FAILED: High error rate")
	}
	fmt.Println("=========================================")

	results := map[string]interface{}{
		"sessions_created":   created,
		"advances_sent":      advances,
		"decisions_taken":    decisions,
		"sessions_finished":  finished,
		"errors":             errs,
		"throughput_per_sec": throughput,
		"config": map[string]interface{}{
			"clients":  config.NumClients,
			"interval": config.AdvanceInterval.String(),
			"duration": config.TestDuration.String(),
			"city":     config.CityID,
		},
	}

	jsonData, _ := json.MarshalIndent(results, "", "  ")
	os.WriteFile("stress_test_results.json", jsonData, 0644)
	fmt.Println("\n📁 Results saved to stress_test_results.json")
}
