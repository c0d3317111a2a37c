package largefiles

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/idelchi/dircat/internal/scan"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// Options configures Find.
type Options struct {
	// Threshold is the minimum size in bytes; 0 reports every file.
	Threshold int64
	// Limit caps the number of reported files (0 = all).
	Limit int
	// KeepGoing skips files that cannot be stat'ed instead of failing the scan.
	KeepGoing bool
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Logger receives warnings about skipped files.
	Logger zerolog.Logger
}

// Find walks every file the scanner yields, stats it, and returns those at or
// above the threshold, largest first.
//
// A file that cannot be stat'ed ends the scan with an error unless
// opt.KeepGoing is set, in which case it is counted and skipped.
// Progress updates are sent to progressHook if provided.
func Find(ctx context.Context, scanner *scan.Scanner, opt Options, progressHook func(files, bytes int64)) (*Report, error) {
	if opt.Threshold < 0 {
		return nil, errors.New("threshold cannot be negative")
	}

	collector := newCollector(opt.Threshold)

	// Child context so the progress reporter stops with the scan.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, collector, progressHook, opt.ProgressInterval)

	start := time.Now()

	err := scanner.Walk(ctx, func(path string, _ fs.DirEntry) error {
		info, err := os.Stat(path)
		if err != nil {
			if !opt.KeepGoing {
				return fmt.Errorf("stat %q: %w", path, err)
			}

			collector.addError()
			opt.Logger.Warn().Err(err).Str("path", path).Msg("skipping file")

			return nil
		}

		collector.add(path, info.Size())

		return nil
	})
	if err != nil {
		return nil, err
	}

	report := collector.finalize(opt.Limit)
	report.Elapsed = time.Since(start)

	return report, nil
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx is done.
//
//nolint:varnamelen // c is idiomatic for collector
func startProgressReporter(ctx context.Context, c *collector, hook func(int64, int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(c.progress())
			case <-ctx.Done():
				return
			}
		}
	}()
}
