package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/easytransfer/backend/internal/auth"
)

// Config holds the load generator settings
var (
	targetURL   string
	concurrency int
	duration    time.Duration
	workload    string
	accountID   int64
)

// Metrics
var (
	totalRequests uint64
	created201    uint64 // Requests created
	claimedOK     uint64 // Claims that returned a request
	claimedEmpty  uint64 // Claims that found nothing pending
	resultsOK     uint64 // Results recorded
	failOther     uint64
)

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API Base URL")
	flag.IntVar(&concurrency, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&duration, "duration", 10*time.Second, "How long to run")
	flag.StringVar(&workload, "workload", "mixed", "Workload: submit | drain | mixed")
	flag.Int64Var(&accountID, "account", 1, "Account id to load against")
}

func main() {
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
	token, err := auth.NewValidator(secret).Issue(accountID, duration+time.Hour)
	if err != nil {
		log.Fatalf("Token signing failed: %v", err)
	}

	log.Printf("Starting Load: %s | Workers: %d | Duration: %s", workload, concurrency, duration)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go worker(&wg, start, token)
	}

	wg.Wait()
	printResults(time.Since(start))
}

func worker(wg *sync.WaitGroup, start time.Time, token string) {
	defer wg.Done()
	client := &http.Client{Timeout: 5 * time.Second}

	for time.Since(start) < duration {
		switch workload {
		case "submit":
			submit(client, token)
		case "drain":
			drain(client, token)
		default:
			// mixed: behave like the bot and the worker at once.
			submit(client, token)
			drain(client, token)
		}
	}
}

// submit creates one request the way the chat bot would.
func submit(client *http.Client, token string) {
	payload := map[string]interface{}{
		"phone_number": fmt.Sprintf("555%07d", rand.Intn(10000000)),
		"amount":       float64(10 * (1 + rand.Intn(10))),
	}
	code, _ := post(client, token, "/requests", payload)
	switch code {
	case 201:
		atomic.AddUint64(&created201, 1)
	default:
		atomic.AddUint64(&failOther, 1)
	}
}

// drain claims the next pending request and reports a result for it,
// mimicking one polling cycle of the external worker.
func drain(client *http.Client, token string) {
	req, _ := http.NewRequest("GET", targetURL+"/requests/next", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		atomic.AddUint64(&failOther, 1)
		return
	}
	atomic.AddUint64(&totalRequests, 1)

	var claim struct {
		RequestID int64  `json:"request_id"`
		Status    string `json:"status"`
	}
	err = json.NewDecoder(resp.Body).Decode(&claim)
	resp.Body.Close()
	if err != nil || resp.StatusCode != 200 {
		atomic.AddUint64(&failOther, 1)
		return
	}
	if claim.Status == "empty" {
		atomic.AddUint64(&claimedEmpty, 1)
		return
	}
	atomic.AddUint64(&claimedOK, 1)

	status := "Success"
	if rand.Float32() < 0.05 {
		status = "Failed"
	}
	code, _ := post(client, token, fmt.Sprintf("/requests/%d/result", claim.RequestID),
		map[string]interface{}{"status": status, "message": "loadgen"})
	if code == 200 {
		atomic.AddUint64(&resultsOK, 1)
	} else {
		atomic.AddUint64(&failOther, 1)
	}
}

func post(client *http.Client, token, path string, payload interface{}) (int, error) {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", targetURL+path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		atomic.AddUint64(&failOther, 1)
		return 0, err
	}
	defer resp.Body.Close()
	atomic.AddUint64(&totalRequests, 1)
	return resp.StatusCode, nil
}

func printResults(d time.Duration) {
	total := atomic.LoadUint64(&totalRequests)

	results := map[string]interface{}{
		"workload":       workload,
		"duration_sec":   d.Seconds(),
		"total_requests": total,
		"throughput_tps": float64(total) / d.Seconds(),
		"created":        atomic.LoadUint64(&created201),
		"claimed":        atomic.LoadUint64(&claimedOK),
		"claimed_empty":  atomic.LoadUint64(&claimedEmpty),
		"results":        atomic.LoadUint64(&resultsOK),
		"errors":         atomic.LoadUint64(&failOther),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)

	filename := fmt.Sprintf("results_%s.json", workload)
	file, _ := os.Create(filename)
	defer file.Close()
	json.NewEncoder(file).Encode(results)
}
