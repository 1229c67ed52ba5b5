// Package analysis turns a decoded audio buffer into a time-indexed feature
// track: frequency-band energy series, an RMS loudness series, detected
// percussive beats, and an estimated tempo. Visualization code samples the
// result at playback time.
package analysis

// BandRange is a frequency range in Hz, inclusive of the bins it maps to.
type BandRange struct {
	LowHz  float64
	HighHz float64
}

// FluxBand is one percussive detection range: the spectral sub-range whose
// flux is tracked and the fixed floor its peaks must clear.
type FluxBand struct {
	Range     BandRange
	Threshold float64
}

// Config carries the engine's tunable parameters. The thresholds and Hz
// ranges are empirical tunings, not load-bearing constants; override them
// per track if the defaults misfire. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// SeriesRate is the output rate of the band/energy series in frames
	// per second of audio.
	SeriesRate int

	// BandFFTSize is the transform size for band-energy frames.
	BandFFTSize int

	// EnergyBands are the sub, bass, mid and high ranges, in that order.
	EnergyBands [4]BandRange

	// BeatFrameSize and BeatHopSize control the overlapping frames of the
	// beat detector. The defaults give 50% overlap.
	BeatFrameSize int
	BeatHopSize   int

	// Kick, Snare and HiHat are the three percussive flux bands.
	Kick  FluxBand
	Snare FluxBand
	HiHat FluxBand

	// MergeWindow is the minimum spacing, in seconds, kept between entries
	// of the merged beat timeline.
	MergeWindow float64

	// MinBPM and MaxBPM bound the tempo histogram; FallbackBPM is returned
	// when too few beats exist to estimate.
	MinBPM      float64
	MaxBPM      float64
	FallbackBPM float64
}

// DefaultConfig returns the reference engine tuning.
func DefaultConfig() Config {
	return Config{
		SeriesRate:  30,
		BandFFTSize: 2048,
		EnergyBands: [4]BandRange{
			{LowHz: 20, HighHz: 60},      // sub
			{LowHz: 60, HighHz: 250},     // bass
			{LowHz: 250, HighHz: 2000},   // mid
			{LowHz: 2000, HighHz: 20000}, // high
		},
		BeatFrameSize: 1024,
		BeatHopSize:   512,
		Kick:          FluxBand{Range: BandRange{40, 120}, Threshold: 0.15},
		Snare:         FluxBand{Range: BandRange{120, 500}, Threshold: 0.12},
		HiHat:         FluxBand{Range: BandRange{5000, 15000}, Threshold: 0.08},
		MergeWindow:   0.05,
		MinBPM:        60,
		MaxBPM:        200,
		FallbackBPM:   120,
	}
}

// binRange maps a Hz range onto inclusive FFT bin indices, bounded to the
// valid bins of an fftSize transform. ok is false when the range lies
// entirely outside the spectrum (above Nyquist at a low sample rate); such a
// band has no bins to measure and must be skipped.
func binRange(r BandRange, sampleRate, fftSize int) (lo, hi int, ok bool) {
	binFreq := float64(sampleRate) / float64(fftSize)
	lo = int(r.LowHz / binFreq)
	hi = int(r.HighHz / binFreq)
	max := fftSize/2 - 1
	if lo > max || hi < 0 {
		return 0, 0, false
	}
	if lo < 0 {
		lo = 0
	}
	if hi > max {
		hi = max
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi, true
}
