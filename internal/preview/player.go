// Package preview plays a decoded buffer so the analysis result can be
// checked against the audio by ear and eye. It consumes the engine's output;
// the engine never depends on it.
package preview

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/olivier-w/beatscope/internal/pcm"
)

const (
	channelCount  = 2
	bytesPerFrame = channelCount * 2 // 16-bit
)

// countingReader wraps an io.Reader and tracks bytes read, which is the only
// playback position oto exposes indirectly.
type countingReader struct {
	reader io.Reader
	pos    int64
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.mu.Lock()
	cr.pos += int64(n)
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

// Player streams a pcm.Buffer through the system audio output.
type Player struct {
	counter    *countingReader
	otoPlayer  *oto.Player
	sampleRate int
	totalBytes int64
	done       chan struct{}
	mu         sync.Mutex
	paused     bool
	closed     bool
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
	otoRate      int
)

// initOto creates the process-wide oto context. oto allows only one context
// per process, so the first buffer's sample rate wins.
func initOto(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			otoRate = sampleRate
			<-ready
		}
	})
	if otoInitErr == nil && otoRate != sampleRate {
		return nil, fmt.Errorf("audio output already opened at %d Hz, cannot play %d Hz", otoRate, sampleRate)
	}
	return globalOtoCtx, otoInitErr
}

// NewPlayer starts playback of the buffer from the beginning.
func NewPlayer(buf *pcm.Buffer) (*Player, error) {
	if buf.Len() == 0 {
		return nil, fmt.Errorf("preview: empty buffer")
	}

	ctx, err := initOto(buf.SampleRate)
	if err != nil {
		return nil, err
	}

	data := pcm.Interleave16(buf)
	cr := &countingReader{reader: bytes.NewReader(data)}

	p := &Player{
		counter:    cr,
		sampleRate: buf.SampleRate,
		totalBytes: int64(len(data)),
		done:       make(chan struct{}),
	}
	p.otoPlayer = ctx.NewPlayer(cr)
	p.otoPlayer.Play()

	go p.monitor()
	return p, nil
}

// monitor polls until the reader is drained, then signals done.
func (p *Player) monitor() {
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		paused := p.paused
		p.mu.Unlock()

		if !paused && p.counter.Pos() >= p.totalBytes {
			close(p.done)
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// Done returns a channel that closes when playback reaches the end.
func (p *Player) Done() <-chan struct{} { return p.done }

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	secs := float64(p.counter.Pos()) / float64(p.sampleRate*bytesPerFrame)
	return time.Duration(secs * float64(time.Second))
}

// Duration returns the total playback length.
func (p *Player) Duration() time.Duration {
	secs := float64(p.totalBytes) / float64(p.sampleRate*bytesPerFrame)
	return time.Duration(secs * float64(time.Second))
}

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		p.otoPlayer.Play()
	} else {
		p.otoPlayer.Pause()
	}
	p.paused = !p.paused
}

// Paused reports whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Close stops playback and releases the player.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.otoPlayer.Pause()
}
