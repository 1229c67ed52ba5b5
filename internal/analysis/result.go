package analysis

import "sort"

// BeatTimeline holds the detected percussive events as timestamps in
// seconds. The per-category lists keep near-simultaneous hits from different
// categories; only All is deduplicated, at the configured merge window.
type BeatTimeline struct {
	Kicks  []float64 `json:"kicks"`
	Snares []float64 `json:"snares"`
	HiHats []float64 `json:"hihats"`
	All    []float64 `json:"all"`
}

// FrameSample is one time-slice of the feature series.
type FrameSample struct {
	Sub    float64
	Bass   float64
	Mid    float64
	High   float64
	Energy float64
}

// Result is the complete analysis of one buffer. It is immutable once
// returned and safe to share across goroutines. Automation is an
// extensibility slot for externally attached curves; the engine leaves it
// empty.
type Result struct {
	Duration float64      `json:"duration"`
	BPM      float64      `json:"bpm"`
	Beats    BeatTimeline `json:"beats"`

	Sub    []float64 `json:"sub"`
	Bass   []float64 `json:"bass"`
	Mid    []float64 `json:"mid"`
	High   []float64 `json:"high"`
	Energy []float64 `json:"energy"`

	// SeriesRate is the rate of the five series above, in values per second.
	SeriesRate int `json:"seriesRate"`

	Automation map[string][]float64 `json:"automation"`
}

// SeriesAt samples the five series at playback time t, clamping to the
// series bounds.
func (r *Result) SeriesAt(t float64) FrameSample {
	n := len(r.Energy)
	if n == 0 {
		return FrameSample{}
	}
	i := int(t * float64(r.SeriesRate))
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	return FrameSample{
		Sub:    seriesValue(r.Sub, i),
		Bass:   seriesValue(r.Bass, i),
		Mid:    seriesValue(r.Mid, i),
		High:   seriesValue(r.High, i),
		Energy: seriesValue(r.Energy, i),
	}
}

// BeatNear reports whether any entry of the merged beat timeline lies within
// window seconds of t.
func (r *Result) BeatNear(t, window float64) bool {
	all := r.Beats.All
	if len(all) == 0 {
		return false
	}
	i := sort.SearchFloat64s(all, t)
	if i < len(all) && all[i]-t <= window {
		return true
	}
	if i > 0 && t-all[i-1] <= window {
		return true
	}
	return false
}

func seriesValue(s []float64, i int) float64 {
	if i >= len(s) {
		return 0
	}
	return s[i]
}
