// Package mp3 wraps the shine MP3 encoder behind a stream-oriented session:
// configure once, feed interleaved 16-bit sample blocks of any size, then
// flush. The wrapper aligns writes to whole MPEG frames so block boundaries
// chosen by the caller never inject padding mid-stream.
package mp3

import (
	"fmt"
	"io"

	shine "github.com/braheezy/shine-mp3/pkg/mp3"
)

// samplesPerFrame is the MPEG Layer III granularity per channel. Chunks
// handed to the encoder are multiples of this; the remainder is held back
// until Flush.
const samplesPerFrame = 1152

// supportedRates are the MPEG-1/MPEG-2 Layer III sample rates.
var supportedRates = map[int]bool{
	8000: true, 11025: true, 12000: true, 16000: true, 22050: true,
	24000: true, 32000: true, 44100: true, 48000: true,
}

// Options configures an encoding session. The bitrate preset is fixed
// (constant bitrate, no VBR); only the stream geometry is configurable.
type Options struct {
	Channels   int // 1 (mono) or 2 (stereo).
	SampleRate int // Input sample rate in Hz; must be an MPEG Layer III rate.
}

// Session is one stateful encoding session writing MP3 data to a single
// output stream. Not safe for concurrent use; each encode job owns its own.
type Session struct {
	enc      *shine.Encoder
	w        io.Writer
	channels int
	pending  []int16
}

// NewSession validates opts and opens an encoding session targeting w.
// Configuration rejection (bad channel count or sample rate) is returned as
// an error so callers can fail one job without affecting siblings.
func NewSession(w io.Writer, opts Options) (*Session, error) {
	if opts.Channels != 1 && opts.Channels != 2 {
		return nil, fmt.Errorf("unsupported channel count %d (want 1 or 2)", opts.Channels)
	}
	if !supportedRates[opts.SampleRate] {
		return nil, fmt.Errorf("unsupported sample rate %d Hz", opts.SampleRate)
	}
	return &Session{
		enc:      shine.NewEncoder(opts.SampleRate, opts.Channels),
		w:        w,
		channels: opts.Channels,
	}, nil
}

// EncodeBlock feeds interleaved samples (len must be a multiple of the
// channel count) into the session. Whole MPEG frames are encoded and written
// immediately; a trailing partial frame is buffered for the next block or
// for Flush. A call that produces no output bytes is valid.
func (s *Session) EncodeBlock(samples []int16) error {
	if len(samples)%s.channels != 0 {
		return fmt.Errorf("sample count %d is not a multiple of %d channels", len(samples), s.channels)
	}
	s.pending = append(s.pending, samples...)

	chunk := samplesPerFrame * s.channels
	n := (len(s.pending) / chunk) * chunk
	if n == 0 {
		return nil
	}
	if err := s.enc.Write(s.w, s.pending[:n]); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	s.pending = append(s.pending[:0], s.pending[n:]...)
	return nil
}

// Flush encodes the buffered partial frame, if any. The encoder pads the
// final frame internally. Call exactly once, after the last EncodeBlock.
func (s *Session) Flush() error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.enc.Write(s.w, s.pending); err != nil {
		return fmt.Errorf("encode flush: %w", err)
	}
	s.pending = nil
	return nil
}
