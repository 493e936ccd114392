package pipeline

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/backmassage/wavemill/internal/config"
	"github.com/backmassage/wavemill/internal/logging"
	"github.com/backmassage/wavemill/internal/mp3"
	"github.com/backmassage/wavemill/internal/naming"
	"github.com/backmassage/wavemill/internal/pcm"
)

// blockFrames is the number of sample frames read per encode iteration.
// In mono that is half as many input bytes per read as in stereo.
const blockFrames = 2048

const ioBufSize = 64 << 10

// Outcome is the terminal status of one encode job. Exactly one of the
// success (Err == nil, !Skipped), skipped, and failed states holds.
type Outcome struct {
	Input    string
	Output   string
	Err      error
	Skipped  bool
	InBytes  int64
	OutBytes int64
}

// encodeJob runs the full per-file pipeline for one input and reports its
// outcome. Failures are contained here: a bad file logs a diagnostic and
// returns, it never affects sibling jobs.
func encodeJob(cfg *config.Config, log *logging.Logger, input string) Outcome {
	o := Outcome{Input: input}

	output, err := naming.OutputPath(input)
	if err != nil {
		log.Error("Malformed input name: %v", err)
		o.Err = err
		return o
	}
	o.Output = output

	if cfg.SkipExisting {
		if _, err := os.Stat(output); err == nil {
			log.Warn("Skip (exists): %s", output)
			o.Skipped = true
			return o
		}
	}

	if err := encodeFile(log, input, output); err != nil {
		logEncodeError(log, input, err)
		o.Err = err
		return o
	}

	if fi, err := os.Stat(input); err == nil {
		o.InBytes = fi.Size()
	}
	if fi, err := os.Stat(output); err == nil {
		o.OutBytes = fi.Size()
	}
	log.Success("Finished encoding %s", output)
	return o
}

// logEncodeError emits the classified per-job diagnostic.
func logEncodeError(log *logging.Logger, input string, err error) {
	switch {
	case errors.Is(err, pcm.ErrUnsupportedFormat):
		log.Error("Unsupported audio format: %s", input)
	case errors.Is(err, pcm.ErrUnsupportedDepth):
		log.Error("Unsupported bits per sample: %s", input)
	case errors.Is(err, pcm.ErrCorruptHeader):
		log.Error("Broken header: %s", input)
	default:
		log.Error("Encoding failed: %s: %v", input, err)
	}
}

// encodeFile transcodes one PCM input into output:
// open → validate header → configure encoder → encode loop → flush → close.
// On any error the partial output file is removed; the input stream, output
// stream, and encoder are released on every exit path.
func encodeFile(log *logging.Logger, input, output string) error {
	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()
	br := bufio.NewReaderSize(in, ioBufSize)

	h, err := pcm.ReadHeader(br)
	if err != nil {
		return err
	}
	if err := h.Validate(); err != nil {
		return err
	}
	if h.NumChannels > 2 {
		return fmt.Errorf("unsupported channel count %d", h.NumChannels)
	}
	if h.BitsPerSample == 8 {
		log.Warn("8-bit samples, expanding to 16-bit (expect degraded quality): %s", input)
	}

	frames := h.Frames()
	log.Info("Encoding file to %s (%d declared frames)", output, frames)
	log.Debug("%s: %d Hz, %d channel(s), %d-bit", input, h.SampleRate, h.NumChannels, h.BitsPerSample)

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	done := false
	defer func() {
		if !done {
			out.Close()
			os.Remove(output)
		}
	}()
	bw := bufio.NewWriterSize(out, ioBufSize)

	sess, err := mp3.NewSession(bw, mp3.Options{
		Channels:   int(h.NumChannels),
		SampleRate: int(h.SampleRate),
	})
	if err != nil {
		return fmt.Errorf("configure encoder: %w", err)
	}

	if err := encodeLoop(br, sess, h, frames); err != nil {
		return err
	}
	if err := sess.Flush(); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	done = true
	return nil
}

// encodeLoop streams exactly the declared number of sample frames into the
// session. Trailing bytes beyond the declared data size are never read, so
// extra metadata chunks cannot reach the encoder; end-of-stream before the
// declared count is reported as truncation, not silently tolerated.
func encodeLoop(br io.Reader, sess *mp3.Session, h pcm.Header, frames int64) error {
	bytesPerFrame := int64(h.BitsPerSample) / 8 * int64(h.NumChannels)
	buf := make([]byte, blockFrames*bytesPerFrame)
	samples := make([]int16, 0, blockFrames*int(h.NumChannels))

	var total int64
	for total < frames {
		want := min(int64(blockFrames), frames-total)
		n, rerr := io.ReadFull(br, buf[:want*bytesPerFrame])
		if fr := int64(n) / bytesPerFrame; fr > 0 {
			block := toSamples(samples[:0], buf[:fr*bytesPerFrame], h.BitsPerSample)
			if err := sess.EncodeBlock(block); err != nil {
				return err
			}
			total += fr
		}
		if rerr != nil {
			if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
				break
			}
			return fmt.Errorf("read samples: %w", rerr)
		}
	}
	if total < frames {
		return fmt.Errorf("truncated sample data: %d of %d declared frames", total, frames)
	}
	return nil
}

// toSamples decodes raw little-endian PCM bytes into dst as 16-bit samples,
// expanding 8-bit input on the way.
func toSamples(dst []int16, raw []byte, bits uint16) []int16 {
	if bits == 8 {
		for _, b := range raw {
			dst = append(dst, pcm.Expand8(b))
		}
		return dst
	}
	for i := 0; i+1 < len(raw); i += 2 {
		dst = append(dst, int16(binary.LittleEndian.Uint16(raw[i:])))
	}
	return dst
}
