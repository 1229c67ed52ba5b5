package pcm

import (
	"encoding/binary"
	"testing"
)

func pcm16Bytes(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestFromInterleaved16Scaling(t *testing.T) {
	data := pcm16Bytes(-32768, 16384, 0, -16384)
	buf := FromInterleaved16(data, 2, 44100)

	if buf.NumChannels() != 2 || buf.Len() != 2 {
		t.Fatalf("got %d channels × %d samples, want 2×2", buf.NumChannels(), buf.Len())
	}
	if got := buf.Channel(0)[0]; got != -1.0 {
		t.Errorf("left[0] = %g, want -1", got)
	}
	if got := buf.Channel(1)[0]; got != 0.5 {
		t.Errorf("right[0] = %g, want 0.5", got)
	}
	if got := buf.Channel(0)[1]; got != 0 {
		t.Errorf("left[1] = %g, want 0", got)
	}
	if got := buf.Channel(1)[1]; got != -0.5 {
		t.Errorf("right[1] = %g, want -0.5", got)
	}
}

func TestFromInterleaved16DropsPartialFrame(t *testing.T) {
	data := append(pcm16Bytes(100, 200), 0x12)
	buf := FromInterleaved16(data, 2, 44100)
	if buf.Len() != 1 {
		t.Fatalf("Len = %d, want 1", buf.Len())
	}
}

func TestInterleave16Roundtrip(t *testing.T) {
	buf := &Buffer{
		SampleRate: 44100,
		Channels: [][]float32{
			{0.5, -0.5},
			{1.0, -1.0},
		},
	}
	out := Interleave16(buf)
	if len(out) != 8 {
		t.Fatalf("output length %d, want 8", len(out))
	}

	want := []int16{16383, 32767, -16383, -32767}
	for i, w := range want {
		got := int16(binary.LittleEndian.Uint16(out[i*2:]))
		if got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestInterleave16ClampsOverrange(t *testing.T) {
	buf := &Buffer{
		SampleRate: 44100,
		Channels:   [][]float32{{1.5}, {-2.0}},
	}
	out := Interleave16(buf)

	if got := int16(binary.LittleEndian.Uint16(out)); got != 32767 {
		t.Errorf("left = %d, want 32767", got)
	}
	if got := int16(binary.LittleEndian.Uint16(out[2:])); got != -32767 {
		t.Errorf("right = %d, want -32767", got)
	}
}

func TestInterleave16DuplicatesMono(t *testing.T) {
	buf := &Buffer{SampleRate: 44100, Channels: [][]float32{{0.25}}}
	out := Interleave16(buf)
	if len(out) != 4 {
		t.Fatalf("output length %d, want 4", len(out))
	}
	l := int16(binary.LittleEndian.Uint16(out))
	r := int16(binary.LittleEndian.Uint16(out[2:]))
	if l != r {
		t.Fatalf("left %d != right %d for mono input", l, r)
	}
}

func TestInterleave16EmptyBuffer(t *testing.T) {
	if out := Interleave16(&Buffer{SampleRate: 44100}); out != nil {
		t.Fatalf("got %v, want nil", out)
	}
}

func TestBufferDuration(t *testing.T) {
	buf := &Buffer{SampleRate: 44100, Channels: [][]float32{make([]float32, 22050)}}
	if got := buf.Duration(); got != 0.5 {
		t.Errorf("Duration = %g, want 0.5", got)
	}
	if got := (&Buffer{}).Duration(); got != 0 {
		t.Errorf("empty Duration = %g, want 0", got)
	}
}
