// Package pcm parses and validates the fixed 44-byte PCM (WAV-family)
// container header.
package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// HeaderSize is the exact on-disk size of a canonical PCM header.
const HeaderSize = 44

// Validation failures are classified so workers can emit a specific
// diagnostic per rejection reason.
var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrUnsupportedDepth  = errors.New("unsupported bits per sample")
	ErrCorruptHeader     = errors.New("corrupt header")
)

// Header is the canonical 44-byte little-endian PCM container header.
// Text fields are raw 4-byte tags without null termination.
type Header struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    int32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

// ReadHeader reads exactly HeaderSize bytes from r into a Header. A short
// read (truncated file) is a parse failure reported as ErrCorruptHeader,
// never silently ignored.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return Header{}, fmt.Errorf("%w: read %d-byte header: %v", ErrCorruptHeader, HeaderSize, err)
	}
	return h, nil
}

// Validate checks the PCM-format invariants and returns a classified error
// on the first violation:
//
//   - AudioFormat must be 1 (linear PCM) → ErrUnsupportedFormat
//   - BitsPerSample must be 8 or 16 → ErrUnsupportedDepth
//   - NumChannels and SampleRate must be positive, BlockAlign non-zero,
//     and the data subchunk tag must literally equal "data" → ErrCorruptHeader
//
// 8-bit input is valid but degraded; callers decide whether to warn.
func (h Header) Validate() error {
	if h.AudioFormat != 1 {
		return fmt.Errorf("%w: audio format code %d", ErrUnsupportedFormat, h.AudioFormat)
	}
	if h.BitsPerSample != 8 && h.BitsPerSample != 16 {
		return fmt.Errorf("%w: %d", ErrUnsupportedDepth, h.BitsPerSample)
	}
	if h.NumChannels == 0 {
		return fmt.Errorf("%w: zero channels", ErrCorruptHeader)
	}
	if h.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrCorruptHeader, h.SampleRate)
	}
	if h.BlockAlign == 0 {
		return fmt.Errorf("%w: zero block align", ErrCorruptHeader)
	}
	if string(h.Subchunk2ID[:]) != "data" {
		return fmt.Errorf("%w: data tag %q", ErrCorruptHeader, h.Subchunk2ID)
	}
	return nil
}

// Frames returns the declared sample-frame count: the data subchunk size
// divided by the frame stride. This is the authoritative stop condition for
// the encode loop; trailing bytes beyond it are never encoded. Only valid
// after Validate (BlockAlign must be non-zero).
func (h Header) Frames() int64 {
	return int64(h.Subchunk2Size) / int64(h.BlockAlign)
}

// Expand8 converts one 8-bit PCM sample to 16-bit. 8-bit WAV samples are
// unsigned with a 128 bias; shifting the re-biased value into the high byte
// preserves the waveform shape at full scale.
func Expand8(b byte) int16 {
	return (int16(b) - 128) << 8
}
