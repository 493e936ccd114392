package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/backmassage/wavemill/internal/config"
	"github.com/backmassage/wavemill/internal/display"
	"github.com/backmassage/wavemill/internal/logging"
	"github.com/backmassage/wavemill/internal/naming"
	"github.com/backmassage/wavemill/internal/scan"
)

// lockFileName is the advisory lock taken in the input directory so two
// concurrent runs cannot interleave writes to the same outputs.
const lockFileName = ".wavemill.lock"

// ErrNoFiles reports that the input directory contains no file with a
// recognized extension.
var ErrNoFiles = errors.New("no supported files found")

// ErrInterrupted reports a run that was cancelled before every matched file
// was handed to a worker.
var ErrInterrupted = errors.New("run interrupted")

// Run is the top-level batch entry point: scan, filter, fan the matched
// files out over a bounded worker pool, collect per-job outcomes, and print
// the summary. Scan and lock failures are fatal and returned; per-job
// failures are counted in the returned stats. Cancelling ctx stops handing
// out queued jobs, but jobs already started run to completion; a run that
// left queued jobs behind returns ErrInterrupted.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (RunStats, error) {
	var stats RunStats

	entries, err := scan.List(cfg.InputDir)
	if err != nil {
		return stats, err
	}
	files := scan.Filter(entries, cfg.Extensions)
	stats.Total = len(files)
	if len(files) == 0 {
		return stats, ErrNoFiles
	}

	if !cfg.NoLock {
		lk := flock.New(filepath.Join(cfg.InputDir, lockFileName))
		held, err := lk.TryLock()
		if err != nil {
			return stats, fmt.Errorf("acquire run lock: %w", err)
		}
		if !held {
			return stats, fmt.Errorf("another run is already encoding %s", cfg.InputDir)
		}
		defer func() {
			lk.Unlock()
			os.Remove(lk.Path())
		}()
	}

	log.Info("Found %d files to encode", len(files))

	if cfg.DryRun {
		runDry(cfg, log, files, &stats)
		return stats, nil
	}

	jobs := make(chan string)
	results := make(chan Outcome)

	workers := min(cfg.Workers, len(files))
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for input := range jobs {
				results <- encodeJob(cfg, log, input)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, f := range files {
			if ctx.Err() != nil {
				return
			}
			select {
			case jobs <- f.Path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for o := range results {
		switch {
		case o.Err != nil:
			stats.Failed++
		case o.Skipped:
			stats.Skipped++
		default:
			stats.Encoded++
			stats.TotalInputBytes += o.InBytes
			stats.TotalOutputBytes += o.OutBytes
		}
	}

	fmt.Println(display.Summary(stats.Encoded, stats.Skipped, stats.Failed,
		stats.TotalInputBytes, stats.TotalOutputBytes))
	log.Info("Done: %d encoded, %d skipped, %d failed", stats.Encoded, stats.Skipped, stats.Failed)

	if ctx.Err() != nil && stats.Remaining() > 0 {
		log.Warn("Interrupted: %d queued jobs not started", stats.Remaining())
		return stats, ErrInterrupted
	}
	return stats, nil
}

// runDry previews the batch without touching the encoder or any output file.
func runDry(cfg *config.Config, log *logging.Logger, files []scan.Entry, stats *RunStats) {
	for _, f := range files {
		output, err := naming.OutputPath(f.Path)
		if err != nil {
			log.Error("Malformed input name: %v", err)
			stats.Failed++
			continue
		}
		log.Info("[DRY] Would encode %s -> %s", f.Path, filepath.Base(output))
		stats.Encoded++
	}
}
