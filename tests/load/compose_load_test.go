//go:build load
// +build load

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

var (
	addr      = flag.String("addr", "http://localhost:8000", "backend base URL")
	requestID = flag.String("request", "", "composition request id to run (must be loaded)")
	algorithm = flag.String("algorithm", "dijkstra", "composition algorithm")
	requests  = flag.Int("requests", 1000, "Total number of requests")
	workers   = flag.Int("workers", 10, "Number of concurrent workers")
)

type result struct {
	duration time.Duration
	err      error
}

func main() {
	flag.Parse()

	if *requestID == "" {
		log.Fatal("missing -request: pick a request id from GET /requests")
	}

	log.Printf("Starting composition load test")
	log.Printf("Target: %s", *addr)
	log.Printf("Request: %s (%s)", *requestID, *algorithm)
	log.Printf("Requests: %d", *requests)
	log.Printf("Workers: %d", *workers)

	client := &http.Client{Timeout: 90 * time.Second}

	// Fail early when the backend is down or the request id is unknown
	if err := checkTarget(client); err != nil {
		log.Fatalf("Target check failed: %v", err)
	}

	results := runLoadTest(client, *requests, *workers)
	analyzeResults(results)
}

func checkTarget(client *http.Client) error {
	resp, err := client.Get(*addr + "/health")
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health returned %s", resp.Status)
	}

	res := executeRequest(client)
	if res.err != nil {
		return fmt.Errorf("probe composition failed: %w", res.err)
	}
	return nil
}

func runLoadTest(client *http.Client, totalRequests, workers int) []result {
	results := make([]result, 0, totalRequests)
	var mu sync.Mutex

	var completed atomic.Int32
	start := time.Now()

	var wg sync.WaitGroup
	requestsChan := make(chan int, totalRequests)

	for i := 0; i < totalRequests; i++ {
		requestsChan <- i
	}
	close(requestsChan)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for range requestsChan {
				res := executeRequest(client)

				mu.Lock()
				results = append(results, res)
				mu.Unlock()

				count := completed.Add(1)
				if count%100 == 0 {
					elapsed := time.Since(start)
					rps := float64(count) / elapsed.Seconds()
					log.Printf("Progress: %d/%d requests (%.2f req/sec)",
						count, totalRequests, rps)
				}
			}
		}()
	}

	wg.Wait()

	return results
}

func executeRequest(client *http.Client) result {
	payload, _ := json.Marshal(map[string]string{
		"request_id": *requestID,
		"algorithm":  *algorithm,
	})

	start := time.Now()
	resp, err := client.Post(*addr+"/compose", "application/json", bytes.NewReader(payload))
	if err != nil {
		return result{duration: time.Since(start), err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return result{duration: time.Since(start), err: fmt.Errorf("status %s", resp.Status)}
	}
	return result{duration: time.Since(start)}
}

func analyzeResults(results []result) {
	if len(results) == 0 {
		log.Println("No results to analyze")
		return
	}

	var (
		totalDuration time.Duration
		successCount  int
		errorCount    int
		durations     []time.Duration
	)

	for _, r := range results {
		totalDuration += r.duration
		if r.err == nil {
			successCount++
		} else {
			errorCount++
		}
		durations = append(durations, r.duration)
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	total := len(results)
	avgDuration := totalDuration / time.Duration(total)
	p50 := durations[total*50/100]
	p95 := durations[total*95/100]
	p99 := durations[total*99/100]
	maxDuration := durations[total-1]

	fmt.Println("\n========================================")
	fmt.Println("Load Test Results")
	fmt.Println("========================================")
	fmt.Printf("Total Requests:    %d\n", total)
	fmt.Printf("Successful:        %d (%.2f%%)\n", successCount, float64(successCount)/float64(total)*100)
	fmt.Printf("Failed:            %d (%.2f%%)\n", errorCount, float64(errorCount)/float64(total)*100)
	fmt.Println("----------------------------------------")
	fmt.Printf("Average Latency:   %v\n", avgDuration)
	fmt.Printf("P50 Latency:       %v\n", p50)
	fmt.Printf("P95 Latency:       %v\n", p95)
	fmt.Printf("P99 Latency:       %v\n", p99)
	fmt.Printf("Max Latency:       %v\n", maxDuration)
	fmt.Println("========================================")
}
