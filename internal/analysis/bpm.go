package analysis

import "math"

// histogram resolution in BPM per bin.
const bpmBinWidth = 0.5

// estimateBPM derives a tempo from the merged beat timeline. Each inter-beat
// interval votes for its implied tempo and for the half and double rates
// (harmonic folding, since the detector may lock onto an octave-related
// rate); the vote histogram is smoothed and the strongest bin wins, lowest
// tempo first on ties. Fewer than 4 beats is too little data to estimate and
// returns the fallback by policy.
func estimateBPM(beats []float64, cfg Config) float64 {
	if len(beats) < 4 {
		return cfg.FallbackBPM
	}

	numBins := int((cfg.MaxBPM-cfg.MinBPM)/bpmBinWidth) + 1
	hist := make([]float64, numBins)

	voted := false
	for i := 1; i < len(beats); i++ {
		interval := beats[i] - beats[i-1]
		if interval <= 0 {
			// Malformed input; timelines from the detector are sorted.
			continue
		}
		tempo := 60 / interval
		for _, cand := range [3]float64{tempo, tempo / 2, tempo * 2} {
			if cand < cfg.MinBPM || cand > cfg.MaxBPM {
				continue
			}
			bin := int((cand - cfg.MinBPM) / bpmBinWidth)
			if bin >= numBins {
				bin = numBins - 1
			}
			hist[bin]++
			voted = true
		}
	}
	if !voted {
		return cfg.FallbackBPM
	}

	// 5-tap smoothing (1,2,3,2,1)/9 over the interior; edge bins stay zero,
	// which also drops the degenerate boundary tempos the folding
	// overweights.
	smoothed := make([]float64, numBins)
	for i := 2; i < numBins-2; i++ {
		smoothed[i] = (hist[i-2] + 2*hist[i-1] + 3*hist[i] + 2*hist[i+1] + hist[i+2]) / 9
	}

	best := 0
	for i, v := range smoothed {
		if v > smoothed[best] {
			best = i
		}
	}
	return math.Round(cfg.MinBPM + float64(best)*bpmBinWidth)
}
