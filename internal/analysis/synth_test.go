package analysis

import (
	"math"

	"github.com/olivier-w/beatscope/internal/pcm"
)

const testRate = 44100

// monoBuffer wraps samples in a single-channel buffer at the test rate.
func monoBuffer(samples []float32) *pcm.Buffer {
	return &pcm.Buffer{SampleRate: testRate, Channels: [][]float32{samples}}
}

// sineSamples synthesizes a steady sinusoid.
func sineSamples(durSec, freq, amp float64) []float32 {
	n := int(durSec * testRate)
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/testRate))
	}
	return out
}

// burstTrack places fixed-length sine bursts at the given sample offsets in
// an otherwise silent track. Bursts are the percussive "clicks" the beat
// detector should find: a sharp attack and a raised-cosine release over the
// final quarter. A hard cutoff instead of the release smears broadband
// energy across the spectrum at the burst end, which the flux detector reads
// as a second onset.
func burstTrack(totalSamples int, onsets []int, burstLen int, freq float64) []float32 {
	fade := burstLen / 4
	out := make([]float32, totalSamples)
	for _, onset := range onsets {
		for i := 0; i < burstLen && onset+i < totalSamples; i++ {
			v := math.Sin(2 * math.Pi * freq * float64(i) / testRate)
			if tail := i - (burstLen - fade); tail >= 0 {
				v *= 0.5 * (1 + math.Cos(math.Pi*float64(tail)/float64(fade)))
			}
			out[onset+i] = float32(v)
		}
	}
	return out
}

// hopOnsets returns onset sample offsets aligned to the beat detector's hop
// grid, spaced step hops apart, starting at the given hop.
func hopOnsets(startHop, step, count, hopSize int) []int {
	onsets := make([]int, count)
	for i := range onsets {
		onsets[i] = (startHop + i*step) * hopSize
	}
	return onsets
}
