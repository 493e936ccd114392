// Command wavemill batch-converts the PCM audio files (WAV-family) in a
// directory into MP3 files, one output per input, using a bounded pool of
// concurrent encode workers.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "wavemill: %v\n", err)
		return exitCode(err)
	}
	return 0
}

// exitCode maps an Execute error to the process exit status: 2 for usage
// errors, 1 for everything else (fatal scan errors, failed jobs, empty
// file list).
func exitCode(err error) int {
	if errors.Is(err, errUsage) {
		return 2
	}
	return 1
}
