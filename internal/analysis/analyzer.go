package analysis

import (
	"context"
	"fmt"

	"github.com/olivier-w/beatscope/internal/pcm"
)

// ProgressFunc receives fractional completion in [0,1]. It is invoked
// synchronously between frames and must return quickly; values across one
// run are non-decreasing.
type ProgressFunc func(frac float64)

// Analyze runs the full engine over a decoded buffer: mono mixdown, band and
// loudness series, beat detection, tempo estimation. Band analysis owns
// roughly the first half of the progress range and beat detection most of
// the rest. The context is checked at frame boundaries; cancellation aborts
// the whole run with no partial result.
func Analyze(ctx context.Context, buf *pcm.Buffer, cfg Config, progress ProgressFunc) (*Result, error) {
	if buf == nil || buf.NumChannels() == 0 || buf.Len() == 0 {
		return nil, fmt.Errorf("analysis: empty sample buffer")
	}
	if buf.SampleRate <= 0 {
		return nil, fmt.Errorf("analysis: invalid sample rate %d", buf.SampleRate)
	}

	report := func(frac float64) {
		if progress != nil {
			progress(frac)
		}
	}

	mono := monoMix(buf)
	report(0.1)

	series, err := bandSeries(ctx, mono, buf.SampleRate, cfg, func(f float64) {
		report(0.1 + 0.4*f)
	})
	if err != nil {
		return nil, err
	}
	report(0.5)

	beats, err := detectBeats(ctx, mono, buf.SampleRate, cfg, func(f float64) {
		report(0.5 + 0.4*f)
	})
	if err != nil {
		return nil, err
	}
	report(0.9)

	res := &Result{
		Duration:   buf.Duration(),
		BPM:        estimateBPM(beats.All, cfg),
		Beats:      beats,
		Sub:        series.sub,
		Bass:       series.bass,
		Mid:        series.mid,
		High:       series.high,
		Energy:     series.energy,
		SeriesRate: cfg.SeriesRate,
		Automation: map[string][]float64{},
	}
	report(1.0)
	return res, nil
}

// monoMix averages the first two channels into a new buffer; a mono buffer
// passes through without copying.
func monoMix(buf *pcm.Buffer) []float32 {
	if buf.NumChannels() == 1 {
		return buf.Channel(0)
	}
	left, right := buf.Channel(0), buf.Channel(1)
	mono := make([]float32, len(left))
	for i := range mono {
		mono[i] = (left[i] + right[i]) / 2
	}
	return mono
}
