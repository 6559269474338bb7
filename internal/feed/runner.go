package feed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/floorsight/pkg/logger"
)

// batchResult mirrors the batch summary wire schema.
type batchResult struct {
	TotalReceived      int      `json:"total_received"`
	SuccessfullyStored int      `json:"successfully_stored"`
	DuplicatesSkipped  int      `json:"duplicates_skipped"`
	Errors             []string `json:"errors"`
}

// Run generates observations against the live registries and submits
// them in concurrent batches. With Resend enabled every batch goes up
// twice; the second pass must come back as pure duplicates.
func Run(ctx context.Context, cfg *Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()
	log.Info(ctx, "starting observation feed",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("events", cfg.NumEvents),
		logger.Int("batchSize", cfg.BatchSize),
		logger.Int("workers", cfg.Workers),
		logger.Bool("resend", cfg.Resend),
	)

	c := newClient(cfg.BaseURL, cfg.Timeout)
	if err := c.get(ctx, "/healthz", nil); err != nil {
		return fmt.Errorf("service not reachable: %w", err)
	}

	var workers []worker
	if err := c.get(ctx, "/api/v1/workers", &workers); err != nil {
		return fmt.Errorf("fetch workers: %w", err)
	}
	var stations []workstation
	if err := c.get(ctx, "/api/v1/workstations", &stations); err != nil {
		return fmt.Errorf("fetch workstations: %w", err)
	}
	if len(workers) == 0 || len(stations) == 0 {
		return errors.New("target has no reference data; seed it first")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	obs := generateObservations(rand.New(rand.NewSource(seed)), workers, stations, cfg.NumEvents)
	stats.Generated = len(obs)

	batches := chunk(obs, cfg.BatchSize)
	if cfg.Resend {
		batches = append(batches, batches...)
	}
	stats.Batches = len(batches)

	if err := submitBatches(ctx, c, cfg, batches, stats); err != nil {
		return err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "observation feed finished",
		logger.Int("generated", stats.Generated),
		logger.Int("batches", stats.Batches),
		logger.Int64("stored", stats.Stored),
		logger.Int64("duplicates", stats.Duplicates),
		logger.Int64("rejected", stats.Rejected),
		logger.Int64("failedBatches", stats.Failed),
		logger.Duration("took", stats.Duration),
	)
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d batches failed", stats.Failed, stats.Batches)
	}
	return nil
}

// submitBatches fans the batches out over a bounded worker pool.
func submitBatches(ctx context.Context, c *client, cfg *Config, batches [][]observation, stats *Stats) error {
	jobs := make(chan []observation)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range jobs {
				submitOne(ctx, c, batch, stats)
			}
		}()
	}

	for _, batch := range batches {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- batch:
		}
	}
	close(jobs)
	wg.Wait()
	return nil
}

func submitOne(ctx context.Context, c *client, batch []observation, stats *Stats) {
	var res batchResult
	status, err := c.post(ctx, "/api/v1/events/batch", map[string]any{"events": batch}, &res)
	if err != nil || status != http.StatusOK {
		atomic.AddInt64(&stats.Failed, 1)
		logger.Get().Warn(ctx, "batch submission failed",
			logger.Int("status", status), logger.Error(err))
		return
	}
	atomic.AddInt64(&stats.Stored, int64(res.SuccessfullyStored))
	atomic.AddInt64(&stats.Duplicates, int64(res.DuplicatesSkipped))
	atomic.AddInt64(&stats.Rejected, int64(res.TotalReceived-res.SuccessfullyStored-res.DuplicatesSkipped))
}
