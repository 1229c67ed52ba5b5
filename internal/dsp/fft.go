// Package dsp provides the spectral primitives used by the analysis engine:
// a radix-2 FFT with cached twiddle factors, memoized Hann windows, and a
// frame slicer for windowed analysis.
package dsp

import (
	"fmt"
	"math"
	"sync"
)

// twiddles holds the precomputed rotation factors for one transform size.
// Entries are immutable once published in the cache.
type twiddles struct {
	cos []float64
	sin []float64
}

var twiddleCache = struct {
	sync.RWMutex
	m map[int]*twiddles
}{m: make(map[int]*twiddles)}

// twiddlesFor returns the cached twiddle factors for size n, computing them
// on first request. n must already be validated as a power of two.
func twiddlesFor(n int) *twiddles {
	twiddleCache.RLock()
	tw := twiddleCache.m[n]
	twiddleCache.RUnlock()
	if tw != nil {
		return tw
	}

	twiddleCache.Lock()
	defer twiddleCache.Unlock()
	if tw := twiddleCache.m[n]; tw != nil {
		return tw
	}
	tw = &twiddles{
		cos: make([]float64, n/2),
		sin: make([]float64, n/2),
	}
	for k := 0; k < n/2; k++ {
		angle := -2 * math.Pi * float64(k) / float64(n)
		tw.cos[k] = math.Cos(angle)
		tw.sin[k] = math.Sin(angle)
	}
	twiddleCache.m[n] = tw
	return tw
}

// FFT computes magnitude spectra of real input at a fixed power-of-two size.
// An FFT value owns scratch buffers and is not safe for concurrent use;
// create one per goroutine. The twiddle cache behind it is shared and safe.
type FFT struct {
	n  int
	tw *twiddles
	re []float64
	im []float64
}

// NewFFT creates a transform of the given size. The size must be a power of
// two; anything else is a caller bug and returns an error.
func NewFFT(n int) (*FFT, error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("dsp: fft size %d is not a power of two", n)
	}
	return &FFT{
		n:  n,
		tw: twiddlesFor(n),
		re: make([]float64, n),
		im: make([]float64, n),
	}, nil
}

// Size returns the transform size.
func (f *FFT) Size() int { return f.n }

// Magnitudes transforms frame and writes the first n/2 normalized bin
// magnitudes (sqrt(re²+im²)/n) into dst, allocating it when nil. A frame
// shorter than the transform size is zero-padded; a longer one is truncated.
func (f *FFT) Magnitudes(frame []float64, dst []float64) []float64 {
	n := f.n
	copied := copy(f.re, frame)
	for i := copied; i < n; i++ {
		f.re[i] = 0
	}
	for i := range f.im {
		f.im[i] = 0
	}

	f.transform()

	if dst == nil {
		dst = make([]float64, n/2)
	}
	scale := 1 / float64(n)
	for i := 0; i < n/2 && i < len(dst); i++ {
		dst[i] = math.Sqrt(f.re[i]*f.re[i]+f.im[i]*f.im[i]) * scale
	}
	return dst
}

// transform runs the iterative radix-2 decimation-in-time FFT in place over
// the scratch buffers.
func (f *FFT) transform() {
	re, im := f.re, f.im
	n := f.n

	// Bit-reversal permutation
	j := 0
	for i := 1; i < n; i++ {
		bit := n >> 1
		for j&bit != 0 {
			j ^= bit
			bit >>= 1
		}
		j ^= bit
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	// Butterflies of doubling size; twiddle index k*(n/size) maps the
	// per-stage angle -2πk/size onto the length-n/2 cached tables.
	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		step := n / size
		for i := 0; i < n; i += size {
			for k := 0; k < half; k++ {
				wr := f.tw.cos[k*step]
				wi := f.tw.sin[k*step]
				a := i + k
				b := a + half
				tr := wr*re[b] - wi*im[b]
				ti := wr*im[b] + wi*re[b]
				re[b] = re[a] - tr
				im[b] = im[a] - ti
				re[a] += tr
				im[a] += ti
			}
		}
	}
}
