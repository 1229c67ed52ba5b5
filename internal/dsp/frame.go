package dsp

// Framer slices a sample buffer into fixed-size frames at a fixed hop,
// zero-padding where a frame runs past the end of the buffer. A hop equal to
// the size yields non-overlapping frames.
type Framer struct {
	samples []float32
	size    int
	hop     int
}

// NewFramer creates a framer over samples. size and hop must be positive.
func NewFramer(samples []float32, size, hop int) *Framer {
	return &Framer{samples: samples, size: size, hop: hop}
}

// Count returns the number of frames whose start lies inside the buffer.
func (f *Framer) Count() int {
	if len(f.samples) == 0 {
		return 0
	}
	return (len(f.samples) + f.hop - 1) / f.hop
}

// Size returns the frame length in samples.
func (f *Framer) Size() int { return f.size }

// Frame copies frame i into dst, converting to float64. The frame's samples
// fill dst[:size]; any shortfall at the buffer tail and any extra dst
// capacity (transform padding) are zeroed.
func (f *Framer) Frame(i int, dst []float64) {
	start := i * f.hop
	n := f.size
	if n > len(dst) {
		n = len(dst)
	}
	avail := len(f.samples) - start
	if avail < 0 {
		avail = 0
	}
	if n > avail {
		n = avail
	}
	for j := 0; j < n; j++ {
		dst[j] = float64(f.samples[start+j])
	}
	for j := n; j < len(dst); j++ {
		dst[j] = 0
	}
}
