// Package pcm holds decoded audio as plain float32 sample buffers shared by
// the decoders, the analysis engine and the preview player.
package pcm

import "encoding/binary"

// Buffer is a decoded audio clip: one float32 slice per channel, all the same
// length, at a fixed sample rate. Buffers are treated as read-only once built.
type Buffer struct {
	SampleRate int
	Channels   [][]float32
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int { return len(b.Channels) }

// Len returns the number of samples per channel.
func (b *Buffer) Len() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the clip length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Len()) / float64(b.SampleRate)
}

// Channel returns the samples for channel i.
func (b *Buffer) Channel(i int) []float32 { return b.Channels[i] }

// FromInterleaved16 builds a Buffer from interleaved 16-bit little-endian PCM
// bytes, the format the mp3 decoder produces. A trailing partial frame is
// dropped.
func FromInterleaved16(data []byte, channels, sampleRate int) *Buffer {
	if channels < 1 {
		channels = 1
	}
	frameSize := channels * 2
	frames := len(data) / frameSize

	chans := make([][]float32, channels)
	for ch := range chans {
		chans[ch] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		off := i * frameSize
		for ch := 0; ch < channels; ch++ {
			s := int16(binary.LittleEndian.Uint16(data[off+ch*2:]))
			chans[ch][i] = float32(s) / 32768.0
		}
	}
	return &Buffer{SampleRate: sampleRate, Channels: chans}
}

// Interleave16 converts a Buffer to interleaved stereo 16-bit little-endian
// PCM for playback. Mono input is duplicated to both channels; extra channels
// beyond the first two are ignored.
func Interleave16(b *Buffer) []byte {
	total := b.Len()
	if total == 0 {
		return nil
	}
	left := b.Channels[0]
	right := left
	if b.NumChannels() > 1 {
		right = b.Channels[1]
	}

	out := make([]byte, total*4)
	for i := 0; i < total; i++ {
		binary.LittleEndian.PutUint16(out[i*4:], uint16(clampInt16(left[i])))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(clampInt16(right[i])))
	}
	return out
}

func clampInt16(s float32) int16 {
	if s > 1.0 {
		s = 1.0
	} else if s < -1.0 {
		s = -1.0
	}
	return int16(s * 32767)
}
