package analysis

import "github.com/olivier-w/beatscope/internal/pcm"

// DefaultWaveformPoints is the envelope resolution used when the caller
// passes a non-positive point count.
const DefaultWaveformPoints = 1000

// Waveform reduces a buffer to a fixed-length min/max envelope for drawing:
// the mono signal is split into points equal contiguous spans and each
// span's minimum and maximum sample are recorded. The result is a flat slice
// of 2·points values, (min, max) per span. Spans past the end of a short
// buffer stay (0, 0). This is a rendering aid, independent of the analysis
// pipeline.
func Waveform(buf *pcm.Buffer, points int) []float32 {
	if points <= 0 {
		points = DefaultWaveformPoints
	}
	out := make([]float32, 2*points)
	if buf == nil || buf.NumChannels() == 0 {
		return out
	}

	mono := monoMix(buf)
	total := len(mono)
	for p := 0; p < points; p++ {
		lo := p * total / points
		hi := (p + 1) * total / points
		if hi <= lo {
			continue
		}
		min, max := mono[lo], mono[lo]
		for i := lo + 1; i < hi; i++ {
			if mono[i] < min {
				min = mono[i]
			}
			if mono[i] > max {
				max = mono[i]
			}
		}
		out[2*p] = min
		out[2*p+1] = max
	}
	return out
}
