package ui

import "github.com/charmbracelet/harmonica"

// springField smooths a set of meter levels with a shared spring, so the
// preview meters ease toward each frame's values instead of jumping.
type springField struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newSpringField(n, fps int, frequency, damping float64) springField {
	return springField{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		pos:    make([]float64, n),
		vel:    make([]float64, n),
	}
}

func (s *springField) step(i int, target float64) float64 {
	p, v := s.spring.Update(s.pos[i], s.vel[i], target)
	if p < 0 {
		p = 0
	}
	s.pos[i] = p
	s.vel[i] = v
	return p
}
