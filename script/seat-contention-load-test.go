package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

// actionRequest is the body of hold and purchase calls
type actionRequest struct {
	UserID string `json:"userId"`
}

// errorResponse is the subset of the API error body the tester reads
type errorResponse struct {
	Code   int    `json:"code"`
	Reason string `json:"reason,omitempty"`
}

// attemptResult captures the outcome of one hold-then-purchase attempt
type attemptResult struct {
	SeatID       string
	UserID       string
	Held         bool
	Purchased    bool
	StatusCode   int
	Reason       string
	ResponseTime time.Duration
	Err          error
}

// testStats aggregates attempt results
type testStats struct {
	mu            sync.Mutex
	attempts      int
	holds         int
	purchases     int
	transportErrs int
	responseTimes []time.Duration
	reasons       map[string]int
	winners       map[string][]string
}

func main() {
	fs := pflag.NewFlagSet("seat-contention", pflag.ExitOnError)
	baseURL := fs.String("url", "http://localhost:8080", "Base URL for the API")
	concertID := fs.String("concert", "load-test", "Concert to provision and contend on")
	seatCount := fs.Int("seats", 10, "Number of seats to provision")
	users := fs.IntP("users", "u", 50, "Number of distinct users racing for seats")
	concurrency := fs.IntP("concurrency", "c", 16, "Number of concurrent workers")
	attempts := fs.IntP("requests", "n", 500, "Total number of hold attempts")
	purchaseRatio := fs.Float64("purchase-ratio", 0.5, "Share of successful holds that go on to purchase")
	delay := fs.Duration("delay", 0, "Delay between attempts per worker")
	_ = fs.Parse(os.Args[1:])

	client := &http.Client{Timeout: 10 * time.Second}

	seatIDs := make([]string, *seatCount)
	for i := range seatIDs {
		seatIDs[i] = fmt.Sprintf("S%03d", i+1)
	}
	if err := provision(client, *baseURL, *concertID, seatIDs); err != nil {
		fmt.Printf("Provisioning failed: %v\n", err)
		os.Exit(1)
	}

	userIDs := make([]string, *users)
	for i := range userIDs {
		userIDs[i] = uuid.NewString()
	}

	fmt.Printf("Contending for %d seats of concert %q with %d users\n", len(seatIDs), *concertID, len(userIDs))
	fmt.Printf("Concurrency: %d workers, %d attempts\n", *concurrency, *attempts)

	stats := &testStats{
		reasons: make(map[string]int),
		winners: make(map[string][]string),
	}

	jobs := make(chan int, *attempts)
	for i := 0; i < *attempts; i++ {
		jobs <- i
	}
	close(jobs)

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				if *delay > 0 {
					time.Sleep(*delay)
				}
				seatID := seatIDs[rand.Intn(len(seatIDs))]
				userID := userIDs[rand.Intn(len(userIDs))]
				stats.record(attempt(client, *baseURL, *concertID, seatID, userID, rand.Float64() < *purchaseRatio))
			}
		}()
	}
	wg.Wait()

	printResults(stats, time.Since(start))
}

func provision(client *http.Client, baseURL, concertID string, seatIDs []string) error {
	body, err := json.Marshal(map[string]any{"seatIds": seatIDs})
	if err != nil {
		return err
	}
	resp, err := client.Post(fmt.Sprintf("%s/concerts/%s/seats", baseURL, concertID), "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 409 means a previous run already provisioned the seats
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func attempt(client *http.Client, baseURL, concertID, seatID, userID string, purchase bool) attemptResult {
	result := attemptResult{SeatID: seatID, UserID: userID}

	start := time.Now()
	status, reason, err := post(client, fmt.Sprintf("%s/concerts/%s/seats/%s/hold", baseURL, concertID, seatID), userID)
	result.ResponseTime = time.Since(start)
	result.StatusCode = status
	result.Reason = reason
	if err != nil {
		result.Err = err
		return result
	}
	if status != http.StatusOK {
		return result
	}
	result.Held = true

	if !purchase {
		return result
	}
	status, reason, err = post(client, fmt.Sprintf("%s/concerts/%s/seats/%s/purchase", baseURL, concertID, seatID), userID)
	result.StatusCode = status
	result.Reason = reason
	result.Err = err
	result.Purchased = err == nil && status == http.StatusOK
	return result
}

func post(client *http.Client, url, userID string) (int, string, error) {
	body, err := json.Marshal(actionRequest{UserID: userID})
	if err != nil {
		return 0, "", err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return resp.StatusCode, "", nil
	}
	var apiErr errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)
	reason := apiErr.Reason
	if reason == "" {
		reason = fmt.Sprintf("http_%d", resp.StatusCode)
	}
	return resp.StatusCode, reason, nil
}

func (s *testStats) record(r attemptResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts++
	s.responseTimes = append(s.responseTimes, r.ResponseTime)
	switch {
	case r.Err != nil:
		s.transportErrs++
	case r.Reason != "":
		s.reasons[r.Reason]++
	}
	if r.Held {
		s.holds++
	}
	if r.Purchased {
		s.purchases++
		s.winners[r.SeatID] = append(s.winners[r.SeatID], r.UserID)
	}
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)*p/100]
}

func printResults(stats *testStats, total time.Duration) {
	sorted := append([]time.Duration(nil), stats.responseTimes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	fmt.Println("\n================= CONTENTION RESULTS =================")
	fmt.Printf("Attempts:          %d\n", stats.attempts)
	fmt.Printf("Successful holds:  %d\n", stats.holds)
	fmt.Printf("Purchases:         %d\n", stats.purchases)
	fmt.Printf("Transport errors:  %d\n", stats.transportErrs)
	fmt.Printf("Total time:        %.2f seconds (%.2f attempts/s)\n", total.Seconds(), float64(stats.attempts)/total.Seconds())

	fmt.Println("\n----------------- HOLD LATENCY -----------------")
	fmt.Printf("P50: %v  P90: %v  P99: %v\n", percentile(sorted, 50), percentile(sorted, 90), percentile(sorted, 99))

	if len(stats.reasons) > 0 {
		fmt.Println("\n----------------- REJECTIONS -----------------")
		for reason, count := range stats.reasons {
			fmt.Printf("%-20s: %d\n", reason, count)
		}
	}

	fmt.Println("\n----------------- OWNERSHIP -----------------")
	doubleSold := 0
	for seatID, owners := range stats.winners {
		if len(owners) > 1 {
			doubleSold++
			fmt.Printf("❌ seat %s purchased %d times: %v\n", seatID, len(owners), owners)
		}
	}
	if doubleSold == 0 {
		fmt.Printf("✅ every purchased seat has exactly one owner (%d seats sold)\n", len(stats.winners))
	} else {
		os.Exit(1)
	}
}
