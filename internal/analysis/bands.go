package analysis

import (
	"context"
	"math"

	"github.com/olivier-w/beatscope/internal/dsp"
)

// progress callback cadence, in frames.
const progressEvery = 100

// seriesSet holds the five raw series while they are being built.
type seriesSet struct {
	sub    []float64
	bass   []float64
	mid    []float64
	high   []float64
	energy []float64
}

// bandSeries partitions mono into floor(duration×SeriesRate) non-overlapping
// frames and derives the four band-energy series plus the RMS loudness
// series, each max-normalized to [0,1]. report, when non-nil, receives the
// fraction of frames completed.
func bandSeries(ctx context.Context, mono []float32, sampleRate int, cfg Config, report func(float64)) (*seriesSet, error) {
	frameCount := int(float64(len(mono)) / float64(sampleRate) * float64(cfg.SeriesRate))
	s := &seriesSet{
		sub:    make([]float64, frameCount),
		bass:   make([]float64, frameCount),
		mid:    make([]float64, frameCount),
		high:   make([]float64, frameCount),
		energy: make([]float64, frameCount),
	}
	if frameCount == 0 {
		return s, nil
	}

	fft, err := dsp.NewFFT(cfg.BandFFTSize)
	if err != nil {
		return nil, err
	}
	window := dsp.HannWindow(cfg.BandFFTSize)

	samplesPerFrame := len(mono) / frameCount
	framer := dsp.NewFramer(mono, samplesPerFrame, samplesPerFrame)

	// At very high sample rates a frame can exceed the transform size; the
	// spectral path then sees the truncated frame, like the loudness path.
	rmsLen := samplesPerFrame
	if rmsLen > cfg.BandFFTSize {
		rmsLen = cfg.BandFFTSize
	}

	var bins [4][2]int
	var inRange [4]bool
	for b, r := range cfg.EnergyBands {
		lo, hi, ok := binRange(r, sampleRate, cfg.BandFFTSize)
		bins[b] = [2]int{lo, hi}
		inRange[b] = ok
	}

	frame := make([]float64, cfg.BandFFTSize)
	mags := make([]float64, cfg.BandFFTSize/2)
	series := [4][]float64{s.sub, s.bass, s.mid, s.high}

	for i := 0; i < frameCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		framer.Frame(i, frame)

		// Loudness comes from the raw, unwindowed samples.
		s.energy[i] = clamp1(rms(frame[:rmsLen]) * 3)

		dsp.ApplyWindow(frame, window)
		fft.Magnitudes(frame, mags)

		for b := range bins {
			// A band above Nyquist stays at zero energy.
			if !inRange[b] {
				continue
			}
			lo, hi := bins[b][0], bins[b][1]
			var sum float64
			for k := lo; k <= hi; k++ {
				sum += mags[k] * mags[k]
			}
			mean := sum / float64(hi-lo+1)
			series[b][i] = clamp1(math.Sqrt(mean) * 4)
		}

		if report != nil && i%progressEvery == 0 {
			report(float64(i) / float64(frameCount))
		}
	}

	normalize(s.sub)
	normalize(s.bass)
	normalize(s.mid)
	normalize(s.high)
	normalize(s.energy)
	return s, nil
}

func rms(frame []float64) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, v := range frame {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// normalize rescales a series by its own maximum, leaving an all-zero series
// untouched.
func normalize(s []float64) {
	var max float64
	for _, v := range s {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return
	}
	for i := range s {
		s[i] /= max
	}
}

func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
