package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/backmassage/wavemill/internal/config"
)

func testConfig(dir string) config.Config {
	cfg := config.Default()
	cfg.InputDir = dir
	cfg.ColorMode = config.ColorNever
	return cfg
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	log, _ := newTestLogger(t)
	writeWAV(t, filepath.Join(dir, "a.wav"), 44100, 1, 100)
	if err := os.WriteFile(filepath.Join(dir, "b.txt"), []byte("notes"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(dir)
	stats, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Total != 1 || stats.Encoded != 1 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want 1 total, 1 encoded", stats)
	}

	fi, err := os.Stat(filepath.Join(dir, "a.mp3"))
	if err != nil {
		t.Fatalf("a.mp3 missing: %v", err)
	}
	if fi.Size() == 0 {
		t.Error("a.mp3 is empty")
	}
	b, _ := os.ReadFile(filepath.Join(dir, "b.txt"))
	if string(b) != "notes" {
		t.Error("b.txt was touched")
	}
}

func TestRun_MalformedSiblingDoesNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	log, _ := newTestLogger(t)
	writeWAV(t, filepath.Join(dir, "a.wav"), 44100, 1, 100)
	if err := os.WriteFile(filepath.Join(dir, "c.wav"), []byte("0123456789"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(dir)
	stats, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Encoded != 1 || stats.Failed != 1 {
		t.Errorf("stats = %+v, want 1 encoded and 1 failed", stats)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.mp3")); err != nil {
		t.Error("healthy sibling was not encoded")
	}
	if _, err := os.Stat(filepath.Join(dir, "c.mp3")); !os.IsNotExist(err) {
		t.Error("corrupt input produced an output file")
	}
}

func TestRun_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	log, _ := newTestLogger(t)
	cfg := testConfig(dir)

	_, err := Run(context.Background(), &cfg, log)
	if !errors.Is(err, ErrNoFiles) {
		t.Errorf("got %v, want ErrNoFiles", err)
	}
}

func TestRun_MissingDirectoryIsFatal(t *testing.T) {
	log, _ := newTestLogger(t)
	cfg := testConfig(filepath.Join(t.TempDir(), "nope"))

	_, err := Run(context.Background(), &cfg, log)
	if err == nil || errors.Is(err, ErrNoFiles) {
		t.Errorf("got %v, want a scan error", err)
	}
}

func TestRun_ConcurrentBatch(t *testing.T) {
	dir := t.TempDir()
	log, _ := newTestLogger(t)
	names := []string{"one.wav", "two.wave", "three.pcm", "four.WAV", "five.wav"}
	for _, name := range names {
		writeWAV(t, filepath.Join(dir, name), 44100, 1, 2048)
	}

	cfg := testConfig(dir)
	cfg.Workers = 4
	stats, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Encoded != len(names) {
		t.Fatalf("encoded %d, want %d", stats.Encoded, len(names))
	}
	for _, name := range names {
		out := name[:len(name)-len(filepath.Ext(name))] + ".mp3"
		if frames := decodeFrames(t, filepath.Join(dir, out)); frames < 1500 || frames > 4000 {
			t.Errorf("%s decoded to %d frames, want about 2048", out, frames)
		}
	}
}

func TestRun_DryRun(t *testing.T) {
	dir := t.TempDir()
	log, _ := newTestLogger(t)
	writeWAV(t, filepath.Join(dir, "a.wav"), 44100, 1, 100)

	cfg := testConfig(dir)
	cfg.DryRun = true
	stats, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Encoded != 1 {
		t.Errorf("stats = %+v, want 1 would-encode", stats)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.mp3")); !os.IsNotExist(err) {
		t.Error("dry run wrote an output file")
	}
}

func TestRun_ByteStableReruns(t *testing.T) {
	dir := t.TempDir()
	log, _ := newTestLogger(t)
	writeWAV(t, filepath.Join(dir, "a.wav"), 44100, 1, 4096)
	cfg := testConfig(dir)

	if _, err := Run(context.Background(), &cfg, log); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(filepath.Join(dir, "a.mp3"))
	if err != nil {
		t.Fatal(err)
	}

	// Re-running matches the WAV input again (never the MP3 output) and
	// reproduces identical bytes.
	stats, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Encoded != 1 {
		t.Errorf("rerun stats = %+v, want 1 encoded", stats)
	}
	second, _ := os.ReadFile(filepath.Join(dir, "a.mp3"))
	if string(first) != string(second) {
		t.Error("rerun produced different output bytes")
	}
}

func TestRun_CancelledContextSkipsQueuedJobs(t *testing.T) {
	dir := t.TempDir()
	log, _ := newTestLogger(t)
	for _, name := range []string{"a.wav", "b.wav", "c.wav", "d.wav"} {
		writeWAV(t, filepath.Join(dir, name), 44100, 1, 256)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig(dir)
	cfg.Workers = 1
	stats, err := Run(ctx, &cfg, log)
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("Run: got %v, want ErrInterrupted", err)
	}
	if stats.Remaining() == 0 {
		t.Error("cancelled run still dispatched every job")
	}
}

func TestRun_RemovesLockFile(t *testing.T) {
	dir := t.TempDir()
	log, _ := newTestLogger(t)
	writeWAV(t, filepath.Join(dir, "a.wav"), 44100, 1, 100)

	cfg := testConfig(dir)
	if _, err := Run(context.Background(), &cfg, log); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, lockFileName)); !os.IsNotExist(err) {
		t.Error("lock file left behind in the input directory")
	}
}
