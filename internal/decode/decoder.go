// Package decode turns compressed audio files into pcm.Buffer values for
// analysis. Unlike a streaming playback decoder it reads the whole file up
// front; the engine needs random access to the full signal.
package decode

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"

	"github.com/olivier-w/beatscope/internal/pcm"
)

// File decodes an audio file into a buffer, detecting the format by file
// extension.
func File(path string) (*pcm.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		return readMP3(f)
	case ".wav":
		return readWAV(f)
	case ".flac":
		return readFLAC(f)
	case ".ogg":
		return readOGG(f)
	default:
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
}

// readMP3 decodes an MP3 stream. go-mp3 always produces 16-bit stereo at the
// stream's sample rate.
func readMP3(f *os.File) (*pcm.Buffer, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("reading MP3 PCM: %w", err)
	}
	return pcm.FromInterleaved16(data, 2, dec.SampleRate()), nil
}

func readWAV(f *os.File) (*pcm.Buffer, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	ib, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading WAV PCM: %w", err)
	}

	channels := ib.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("WAV file has no channels")
	}
	bitDepth := ib.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(dec.BitDepth)
	}

	frames := len(ib.Data) / channels
	chans := make([][]float32, channels)
	for ch := range chans {
		chans[ch] = make([]float32, frames)
	}

	scale := float32(int64(1) << (bitDepth - 1))
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			v := ib.Data[i*channels+ch]
			if bitDepth == 8 {
				// 8-bit WAV is unsigned
				chans[ch][i] = float32(v-128) / 128
				continue
			}
			chans[ch][i] = float32(v) / scale
		}
	}
	return &pcm.Buffer{SampleRate: ib.Format.SampleRate, Channels: chans}, nil
}

func readFLAC(f *os.File) (*pcm.Buffer, error) {
	stream, err := flac.New(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	scale := float32(int64(1) << (info.BitsPerSample - 1))

	chans := make([][]float32, channels)
	for ch := range chans {
		chans[ch] = make([]float32, 0, info.NSamples)
	}

	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading FLAC frame: %w", err)
		}
		for ch := 0; ch < channels && ch < len(frame.Subframes); ch++ {
			for _, s := range frame.Subframes[ch].Samples {
				chans[ch] = append(chans[ch], float32(s)/scale)
			}
		}
	}
	return &pcm.Buffer{SampleRate: int(info.SampleRate), Channels: chans}, nil
}

func readOGG(f *os.File) (*pcm.Buffer, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}

	channels := reader.Channels()
	chans := make([][]float32, channels)
	for ch := range chans {
		chans[ch] = make([]float32, 0, reader.Length())
	}

	buf := make([]float32, 4096*channels)
	for {
		n, err := reader.Read(buf)
		for i := 0; i+channels <= n; i += channels {
			for ch := 0; ch < channels; ch++ {
				chans[ch] = append(chans[ch], buf[i+ch])
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading OGG samples: %w", err)
		}
	}
	return &pcm.Buffer{SampleRate: reader.SampleRate(), Channels: chans}, nil
}
