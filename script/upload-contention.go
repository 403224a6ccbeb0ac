package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/amirhossein-jamali/staff-registry/internal/client"
)

// UploadResult contains metrics for a single upload attempt
type UploadResult struct {
	Worker   int
	Name     string
	Duration time.Duration
	Err      error
}

// ContentionStats contains aggregated results
type ContentionStats struct {
	Attempts  int
	Completed int
	Busy      int
	Failed    int
	Durations []time.Duration
	Errors    map[string]int
	Lock      sync.Mutex
}

func main() {
	concurrency := flag.Int("c", 5, "Number of concurrent uploaders")
	rounds := flag.Int("n", 4, "Uploads per uploader")
	rows := flag.Int("rows", 500, "Rows per generated CSV file")
	chunkSize := flag.Int("chunk", 4096, "Decoded bytes per chunk")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	delayMs := flag.Int("delay", 50, "Delay between uploads in milliseconds")
	ingest := flag.Bool("ingest", false, "Ingest every completed upload")
	flag.Parse()

	c, err := client.New(client.Config{BaseURL: *baseURL, Timeout: 30 * time.Second})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("Contending for the upload slot with %d uploaders, %d uploads each\n", *concurrency, *rounds)
	fmt.Printf("Each file: %d rows in %d-byte chunks\n", *rows, *chunkSize)

	stats := &ContentionStats{Errors: make(map[string]int)}
	results := make(chan UploadResult, *concurrency**rounds)

	var wg sync.WaitGroup
	startTime := time.Now()
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for round := 0; round < *rounds; round++ {
				if *delayMs > 0 {
					time.Sleep(time.Duration(*delayMs) * time.Millisecond)
				}
				results <- upload(c, workerID, round, *rows, *chunkSize, *ingest)
			}
		}(i)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for result := range results {
		stats.Lock.Lock()
		stats.Attempts++
		switch {
		case result.Err == nil:
			stats.Completed++
			stats.Durations = append(stats.Durations, result.Duration)
		case errors.Is(result.Err, client.ErrUploadBusy):
			stats.Busy++
		default:
			stats.Failed++
			stats.Errors[result.Err.Error()]++
		}
		stats.Lock.Unlock()
	}

	printResults(stats, time.Since(startTime))
}

func upload(c *client.Client, worker, round, rows, chunkSize int, ingest bool) UploadResult {
	name := fmt.Sprintf("contention-%d-%d.csv", worker, round)
	content := generateCSV(worker, rows)

	ctx := context.Background()
	start := time.Now()
	stored, err := c.Upload(ctx, name, bytes.NewReader(content), int64(len(content)), &client.UploadOptions{
		ChunkSize: chunkSize,
	})
	if err == nil && ingest {
		_, err = c.Ingest(ctx, stored, time.Time{})
	}

	return UploadResult{Worker: worker, Name: name, Duration: time.Since(start), Err: err}
}

// generateCSV gives every worker its own id and login range so concurrent
// ingests never collide on a login
func generateCSV(worker, rows int) []byte {
	var buf bytes.Buffer
	buf.WriteString("id,login,name,salary\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&buf, "w%d-e%d,w%d-login%d,Worker %d Employee %d,%d.%02d\n",
			worker, i, worker, i, worker, i, 1000+i, i%100)
	}
	return buf.Bytes()
}

func printResults(stats *ContentionStats, total time.Duration) {
	var p50, p90, maxDuration time.Duration
	if len(stats.Durations) > 0 {
		sorted := slices.Clone(stats.Durations)
		slices.Sort(sorted)
		p50 = sorted[len(sorted)*50/100]
		p90 = sorted[len(sorted)*90/100]
		maxDuration = sorted[len(sorted)-1]
	}

	fmt.Println("\n================= CONTENTION RESULTS =================")
	fmt.Printf("Upload attempts:     %d\n", stats.Attempts)
	fmt.Printf("Completed uploads:   %d\n", stats.Completed)
	fmt.Printf("Refused (slot busy): %d\n", stats.Busy)
	fmt.Printf("Failed:              %d\n", stats.Failed)
	fmt.Printf("Total time:          %.2f seconds\n", total.Seconds())

	fmt.Println("\n----------------- UPLOAD TIMES -----------------")
	fmt.Printf("P50:                 %v\n", p50)
	fmt.Printf("P90:                 %v\n", p90)
	fmt.Printf("Max:                 %v\n", maxDuration)

	if stats.Failed > 0 {
		fmt.Println("\n----------------- ERRORS -----------------")
		for msg, count := range stats.Errors {
			fmt.Printf("%-60s: %d\n", msg, count)
		}
	}

	fmt.Println("\n================= CONCLUSION =================")
	if stats.Failed == 0 && stats.Completed > 0 {
		fmt.Println("Uploads were serialized: every attempt either completed or was refused cleanly")
	} else {
		fmt.Println("Some uploads failed for reasons other than a busy slot")
	}
	fmt.Println("================================================")
}
