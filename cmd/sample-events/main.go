package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/floorsight/internal/feed"
	"github.com/okian/floorsight/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumEvents  = 2000
	defaultBatchSize  = 200
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numEvents = flag.Int("events", defaultNumEvents, "Number of observations to generate and submit")
		batchSize = flag.Int("batch", defaultBatchSize, "Observations per batch upload")
		workers   = flag.Int("workers", runtime.NumCPU(), "Number of concurrent submitters")
		resend    = flag.Bool("resend", false, "Re-send every batch once to exercise deduplication")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed      = flag.Int64("seed", 0, "Generator seed (0 = time-seeded)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &feed.Config{
		BaseURL:   *baseURL,
		NumEvents: *numEvents,
		BatchSize: *batchSize,
		Workers:   *workers,
		Resend:    *resend,
		Timeout:   *timeout,
		Seed:      *seed,
	}

	if err := feed.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "feed run failed", logger.Error(err))
		os.Exit(1)
	}
}
