package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/olivier-w/beatscope/internal/pcm"
)

func TestAnalyzeClickTrack(t *testing.T) {
	cfg := DefaultConfig()
	onsets := hopOnsets(43, 43, 5, cfg.BeatHopSize)
	buf := monoBuffer(burstTrack(10*testRate, onsets, 2048, 50))

	res, err := Analyze(context.Background(), buf, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	if res.Duration != 10 {
		t.Errorf("Duration = %g, want 10", res.Duration)
	}
	if res.BPM != 120 {
		t.Errorf("BPM = %g, want 120", res.BPM)
	}
	if len(res.Beats.Kicks) != len(onsets) {
		t.Errorf("detected %d kicks, want %d", len(res.Beats.Kicks), len(onsets))
	}
	if len(res.Beats.All) != len(onsets) {
		t.Errorf("merged timeline has %d entries, want %d", len(res.Beats.All), len(onsets))
	}
	for i, got := range res.Beats.All {
		want := float64(onsets[i]) / testRate
		if math.Abs(got-want) > 0.06 {
			t.Errorf("beat %d at %gs, want %gs", i, got, want)
		}
	}

	wantLen := 300 // 10 s × 30 Hz
	for name, series := range map[string][]float64{
		"sub": res.Sub, "bass": res.Bass, "mid": res.Mid, "high": res.High, "energy": res.Energy,
	} {
		if len(series) != wantLen {
			t.Errorf("%s series length %d, want %d", name, len(series), wantLen)
		}
	}
	if res.SeriesRate != cfg.SeriesRate {
		t.Errorf("SeriesRate = %d, want %d", res.SeriesRate, cfg.SeriesRate)
	}
	if res.Automation == nil {
		t.Error("Automation map is nil")
	}
}

func TestAnalyzeSilence(t *testing.T) {
	buf := monoBuffer(make([]float32, 5*testRate))

	res, err := Analyze(context.Background(), buf, DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if n := len(res.Beats.Kicks) + len(res.Beats.Snares) + len(res.Beats.HiHats) + len(res.Beats.All); n != 0 {
		t.Errorf("silence produced %d beats: %+v", n, res.Beats)
	}
	if res.BPM != 120 {
		t.Errorf("BPM = %g, want fallback 120", res.BPM)
	}
	if len(res.Energy) != 150 {
		t.Errorf("energy series length %d, want 150", len(res.Energy))
	}
	for i, v := range res.Energy {
		if v != 0 {
			t.Fatalf("Energy[%d] = %g on silence, want 0", i, v)
		}
	}
}

func TestAnalyzeReportsProgress(t *testing.T) {
	buf := monoBuffer(sineSamples(5, 440, 0.5))

	var fracs []float64
	_, err := Analyze(context.Background(), buf, DefaultConfig(), func(f float64) {
		fracs = append(fracs, f)
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(fracs) == 0 {
		t.Fatal("expected progress callbacks")
	}
	prev := -1.0
	for _, f := range fracs {
		if f < 0 || f > 1 {
			t.Fatalf("progress %g outside [0,1]", f)
		}
		if f < prev {
			t.Fatalf("progress decreased: %g after %g", f, prev)
		}
		prev = f
	}
	if fracs[len(fracs)-1] != 1 {
		t.Fatalf("final progress = %g, want 1", fracs[len(fracs)-1])
	}
}

func TestAnalyzeCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Analyze(ctx, monoBuffer(sineSamples(2, 440, 0.5)), DefaultConfig(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	cfg := DefaultConfig()
	ctx := context.Background()

	if _, err := Analyze(ctx, nil, cfg, nil); err == nil {
		t.Error("nil buffer: expected error")
	}
	if _, err := Analyze(ctx, &pcm.Buffer{SampleRate: testRate}, cfg, nil); err == nil {
		t.Error("no channels: expected error")
	}
	empty := &pcm.Buffer{SampleRate: testRate, Channels: [][]float32{{}}}
	if _, err := Analyze(ctx, empty, cfg, nil); err == nil {
		t.Error("empty channel: expected error")
	}
	noRate := &pcm.Buffer{Channels: [][]float32{make([]float32, 100)}}
	if _, err := Analyze(ctx, noRate, cfg, nil); err == nil {
		t.Error("zero sample rate: expected error")
	}
}

func TestMonoMixAveragesStereo(t *testing.T) {
	left := sineSamples(1, 440, 0.8)
	right := make([]float32, len(left))
	for i := range right {
		right[i] = -left[i]
	}
	buf := &pcm.Buffer{SampleRate: testRate, Channels: [][]float32{left, right}}

	mono := monoMix(buf)
	if len(mono) != len(left) {
		t.Fatalf("mono length %d, want %d", len(mono), len(left))
	}
	for i, v := range mono {
		if v != 0 {
			t.Fatalf("mono[%d] = %g, want 0 from opposite-phase channels", i, v)
		}
	}
}

func TestMonoMixPassesMonoThrough(t *testing.T) {
	samples := sineSamples(1, 440, 0.5)
	mono := monoMix(monoBuffer(samples))
	if &mono[0] != &samples[0] {
		t.Fatal("mono input should pass through without copying")
	}
}

func TestResultSeriesAt(t *testing.T) {
	res := &Result{
		Energy:     []float64{0.1, 0.2, 0.3},
		Sub:        []float64{1, 2, 3},
		Bass:       []float64{4, 5, 6},
		Mid:        []float64{7, 8, 9},
		High:       []float64{10, 11, 12},
		SeriesRate: 30,
	}

	s := res.SeriesAt(0.05) // mid frame 1 at 30 Hz
	if s.Energy != 0.2 || s.Sub != 2 || s.Bass != 5 || s.Mid != 8 || s.High != 11 {
		t.Fatalf("SeriesAt(0.05) = %+v", s)
	}

	// Out-of-range times clamp to the nearest frame.
	if s := res.SeriesAt(-5); s.Energy != 0.1 {
		t.Fatalf("SeriesAt(-5).Energy = %g, want 0.1", s.Energy)
	}
	if s := res.SeriesAt(100); s.Energy != 0.3 {
		t.Fatalf("SeriesAt(100).Energy = %g, want 0.3", s.Energy)
	}
}

func TestResultBeatNear(t *testing.T) {
	res := &Result{Beats: BeatTimeline{All: []float64{1.0, 2.0, 3.5}}}

	if !res.BeatNear(2.03, 0.05) {
		t.Error("BeatNear(2.03, 0.05) = false, want true")
	}
	if res.BeatNear(2.5, 0.05) {
		t.Error("BeatNear(2.5, 0.05) = true, want false")
	}
	if !res.BeatNear(0.96, 0.05) {
		t.Error("BeatNear(0.96, 0.05) = false, want true")
	}

	empty := &Result{}
	if empty.BeatNear(1, 0.05) {
		t.Error("BeatNear on empty timeline = true, want false")
	}
}
