package dsp

import (
	"math"
	"sync"
)

var windowCache = struct {
	sync.RWMutex
	m map[int][]float64
}{m: make(map[int][]float64)}

// HannWindow returns the cached Hann coefficients 0.5·(1-cos(2πi/(size-1)))
// for the given size. The returned slice is shared and must not be mutated.
func HannWindow(size int) []float64 {
	windowCache.RLock()
	w := windowCache.m[size]
	windowCache.RUnlock()
	if w != nil {
		return w
	}

	windowCache.Lock()
	defer windowCache.Unlock()
	if w := windowCache.m[size]; w != nil {
		return w
	}
	w = make([]float64, size)
	if size > 1 {
		for i := range w {
			w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
		}
	}
	windowCache.m[size] = w
	return w
}

// ApplyWindow multiplies frame by window in place.
func ApplyWindow(frame, window []float64) {
	n := len(frame)
	if len(window) < n {
		n = len(window)
	}
	for i := 0; i < n; i++ {
		frame[i] *= window[i]
	}
}
