package analysis

import (
	"context"
	"sort"

	"github.com/olivier-w/beatscope/internal/dsp"
)

// peakWindow is the half-width, in frames, of the local-mean window used for
// adaptive peak picking; it also margins the signal ends.
const peakWindow = 20

// detectBeats runs spectral-flux onset detection over overlapping frames of
// mono and returns the four beat timelines. report, when non-nil, receives
// the fraction of frames completed.
func detectBeats(ctx context.Context, mono []float32, sampleRate int, cfg Config, report func(float64)) (BeatTimeline, error) {
	fft, err := dsp.NewFFT(cfg.BeatFrameSize)
	if err != nil {
		return BeatTimeline{}, err
	}
	window := dsp.HannWindow(cfg.BeatFrameSize)
	framer := dsp.NewFramer(mono, cfg.BeatFrameSize, cfg.BeatHopSize)
	numFrames := framer.Count()

	bands := [3]FluxBand{cfg.Kick, cfg.Snare, cfg.HiHat}
	var bins [3][2]int
	var inRange [3]bool
	for b, fb := range bands {
		lo, hi, ok := binRange(fb.Range, sampleRate, cfg.BeatFrameSize)
		bins[b] = [2]int{lo, hi}
		inRange[b] = ok
	}

	var flux [3][]float64
	for b := range flux {
		flux[b] = make([]float64, numFrames)
	}

	frame := make([]float64, cfg.BeatFrameSize)
	mags := make([]float64, cfg.BeatFrameSize/2)
	prev := make([]float64, cfg.BeatFrameSize/2)

	for i := 0; i < numFrames; i++ {
		if err := ctx.Err(); err != nil {
			return BeatTimeline{}, err
		}

		framer.Frame(i, frame)
		dsp.ApplyWindow(frame, window)
		fft.Magnitudes(frame, mags)

		// The first frame has no predecessor; its flux stays zero.
		if i > 0 {
			for b := range bins {
				// A band above Nyquist keeps zero flux and yields no beats.
				if !inRange[b] {
					continue
				}
				var sum float64
				for k := bins[b][0]; k <= bins[b][1]; k++ {
					if d := mags[k] - prev[k]; d > 0 {
						sum += d
					}
				}
				flux[b][i] = sum
			}
		}
		copy(prev, mags)

		if report != nil && i%progressEvery == 0 {
			report(float64(i) / float64(numFrames))
		}
	}

	secPerHop := float64(cfg.BeatHopSize) / float64(sampleRate)
	tl := BeatTimeline{
		Kicks:  pickPeaks(flux[0], bands[0].Threshold, secPerHop),
		Snares: pickPeaks(flux[1], bands[1].Threshold, secPerHop),
		HiHats: pickPeaks(flux[2], bands[2].Threshold, secPerHop),
	}
	tl.All = mergeBeats(cfg.MergeWindow, tl.Kicks, tl.Snares, tl.HiHats)
	return tl, nil
}

// pickPeaks finds adaptive-threshold local maxima in a flux signal and
// converts their frame indices to timestamps. A sample is a peak when it
// clears max(threshold, 1.5×local mean over ±peakWindow frames) and is
// strictly greater than both immediate neighbors.
func pickPeaks(flux []float64, threshold, secPerHop float64) []float64 {
	var peaks []float64
	for i := peakWindow; i < len(flux)-peakWindow; i++ {
		var sum float64
		for j := i - peakWindow; j <= i+peakWindow; j++ {
			sum += flux[j]
		}
		mean := sum / float64(2*peakWindow+1)

		floor := threshold
		if adaptive := 1.5 * mean; adaptive > floor {
			floor = adaptive
		}
		if flux[i] > floor && flux[i] > flux[i-1] && flux[i] > flux[i+1] {
			peaks = append(peaks, float64(i)*secPerHop)
		}
	}
	return peaks
}

// mergeBeats concatenates timestamp lists, sorts them, and keeps an entry
// only when it lies more than window seconds after the previously kept one.
func mergeBeats(window float64, lists ...[]float64) []float64 {
	var all []float64
	for _, l := range lists {
		all = append(all, l...)
	}
	if len(all) == 0 {
		return nil
	}
	sort.Float64s(all)

	merged := all[:1]
	for _, t := range all[1:] {
		if t-merged[len(merged)-1] > window {
			merged = append(merged, t)
		}
	}
	return merged
}
