package pipeline

import (
	"github.com/backmassage/wavemill/internal/pcm"
)

// testHeader builds a canonical PCM header for the given geometry.
func testHeader(channels uint16, rate int32, bits uint16, frames uint32) pcm.Header {
	blockAlign := channels * bits / 8
	h := pcm.Header{
		ChunkSize:     36 + frames*uint32(blockAlign),
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   channels,
		SampleRate:    rate,
		ByteRate:      uint32(rate) * uint32(blockAlign),
		BlockAlign:    blockAlign,
		BitsPerSample: bits,
		Subchunk2Size: frames * uint32(blockAlign),
	}
	copy(h.ChunkID[:], "RIFF")
	copy(h.Format[:], "WAVE")
	copy(h.Subchunk1ID[:], "fmt ")
	copy(h.Subchunk2ID[:], "data")
	return h
}
