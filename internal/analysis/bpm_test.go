package analysis

import "testing"

func bpmOf(t *testing.T, beats []float64) float64 {
	t.Helper()
	return estimateBPM(beats, DefaultConfig())
}

func TestEstimateBPMFallbackWithFewBeats(t *testing.T) {
	cases := [][]float64{
		nil,
		{},
		{0.5},
		{0.5, 1.0},
		{0.5, 1.0, 1.5},
	}
	for _, beats := range cases {
		if got := bpmOf(t, beats); got != 120 {
			t.Errorf("estimateBPM(%v) = %g, want fallback 120", beats, got)
		}
	}
}

func TestEstimateBPMSteadyTempo(t *testing.T) {
	// 0.5 s intervals = 120 BPM.
	beats := []float64{0, 0.5, 1.0, 1.5, 2.0, 2.5}
	if got := bpmOf(t, beats); got != 120 {
		t.Fatalf("got %g, want 120", got)
	}
}

func TestEstimateBPMFoldsDoubleTime(t *testing.T) {
	// 0.25 s intervals imply 240 BPM, outside the histogram; the half-rate
	// vote lands on 120.
	beats := []float64{0, 0.25, 0.5, 0.75, 1.0}
	if got := bpmOf(t, beats); got != 120 {
		t.Fatalf("got %g, want 120", got)
	}
}

func TestEstimateBPMFoldsHalfTime(t *testing.T) {
	// 1.2 s intervals imply 50 BPM, below the histogram; the double-rate
	// vote lands on 100.
	beats := []float64{0, 1.2, 2.4, 3.6, 4.8}
	if got := bpmOf(t, beats); got != 100 {
		t.Fatalf("got %g, want 100", got)
	}
}

func TestEstimateBPMTieGoesToLowestTempo(t *testing.T) {
	// Alternating 0.5 s and 0.75 s intervals vote equally for 120, 80 and
	// the 160 double of 80; the lowest tempo wins the tie.
	beats := []float64{0, 0.5, 1.25, 1.75, 2.5}
	if got := bpmOf(t, beats); got != 80 {
		t.Fatalf("got %g, want 80", got)
	}
}

func TestEstimateBPMSkipsNonPositiveIntervals(t *testing.T) {
	// Duplicate timestamps produce zero intervals, which only malformed
	// input can contain; they must not vote.
	beats := []float64{0, 0, 0.5, 0.5, 1.0, 1.5, 2.0}
	if got := bpmOf(t, beats); got != 120 {
		t.Fatalf("got %g, want 120", got)
	}
}

func TestEstimateBPMStaysInRange(t *testing.T) {
	cases := [][]float64{
		{0, 0.1, 0.2, 0.3, 0.4},     // 600 BPM raw
		{0, 3, 6, 9, 12},            // 20 BPM raw
		{0, 0.31, 0.77, 1.02, 1.9},  // irregular
		{0, 0.5, 0.6, 1.4, 1.45, 2}, // irregular
	}
	for _, beats := range cases {
		got := bpmOf(t, beats)
		if got < 60 || got > 200 {
			t.Errorf("estimateBPM(%v) = %g, outside [60,200]", beats, got)
		}
	}
}
