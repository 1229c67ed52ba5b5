package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/beatscope/internal/analysis"
	"github.com/olivier-w/beatscope/internal/decode"
	"github.com/olivier-w/beatscope/internal/pcm"
	"github.com/olivier-w/beatscope/internal/preview"
	"github.com/olivier-w/beatscope/internal/store"
	"github.com/olivier-w/beatscope/internal/ui"
	"github.com/olivier-w/beatscope/internal/util"
)

func main() {
	var (
		outPath   = flag.String("o", "", "write the analysis record to this JSON file")
		waveformN = flag.Int("waveform", 0, "include an n-point min/max envelope in the record")
		cached    = flag.Bool("cached", false, "reuse a cached record next to the track when present, writing one otherwise")
		doPreview = flag.Bool("preview", false, "play the track with live beat markers and band meters after analysis")
		quiet     = flag.Bool("quiet", false, "plain-text progress instead of the TUI")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: beatscope [flags] <audio file>\n\nAnalyzes an mp3/wav/flac/ogg file into band energies, beats and BPM.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *outPath, *waveformN, *cached, *doPreview, *quiet); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path, outPath string, waveformN int, cached, doPreview, quiet bool) error {
	meta := decode.ReadMetadata(path)
	cfg := analysis.DefaultConfig()

	var rec *store.Record
	if cached {
		if loaded, err := store.Load(store.PathFor(path)); err == nil {
			rec = loaded
		}
	}

	var buf *pcm.Buffer
	if rec == nil || doPreview {
		decoded, err := decode.File(path)
		if err != nil {
			return err
		}
		buf = decoded
	}

	if rec == nil {
		var res *analysis.Result
		var err error
		if quiet {
			res, err = analyzePlain(buf, cfg)
		} else {
			res, err = analyzeTUI(meta, buf, cfg)
		}
		if err != nil {
			return err
		}

		rec = &store.Record{Source: path, Result: res}
		if waveformN > 0 {
			rec.Waveform = analysis.Waveform(buf, waveformN)
		}
		if cached {
			if err := store.Save(store.PathFor(path), rec); err != nil {
				return err
			}
		}
	}

	printSummary(meta, rec.Result)

	if outPath != "" {
		if err := store.Save(outPath, rec); err != nil {
			return err
		}
	}

	if doPreview {
		return runPreview(meta, buf, rec.Result)
	}
	return nil
}

func analyzeTUI(meta decode.Metadata, buf *pcm.Buffer, cfg analysis.Config) (*analysis.Result, error) {
	model := ui.NewAnalyze(meta, buf, cfg)
	p := tea.NewProgram(model)
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	am, ok := finalModel.(ui.AnalyzeModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type from analysis screen")
	}
	return am.Result()
}

func analyzePlain(buf *pcm.Buffer, cfg analysis.Config) (*analysis.Result, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := analysis.Analyze(ctx, buf, cfg, func(frac float64) {
		fmt.Fprintf(os.Stderr, "\ranalyzing %3.0f%%", frac*100)
	})
	fmt.Fprintln(os.Stderr)
	return res, err
}

func printSummary(meta decode.Metadata, res *analysis.Result) {
	title := meta.Title
	if meta.Artist != "" {
		title = meta.Artist + " - " + title
	}
	fmt.Println(title)
	fmt.Printf("  duration  %s\n", util.FormatSeconds(res.Duration))
	fmt.Printf("  tempo     %.0f BPM\n", res.BPM)
	fmt.Printf("  beats     %d (%d kicks, %d snares, %d hihats)\n",
		len(res.Beats.All), len(res.Beats.Kicks), len(res.Beats.Snares), len(res.Beats.HiHats))
	fmt.Printf("  peak band %s\n", peakBand(res))
}

// peakBand names the band series with the highest average level.
func peakBand(res *analysis.Result) string {
	names := [4]string{"sub", "bass", "mid", "high"}
	series := [4][]float64{res.Sub, res.Bass, res.Mid, res.High}

	best, bestAvg := 0, -1.0
	for i, s := range series {
		if len(s) == 0 {
			continue
		}
		var sum float64
		for _, v := range s {
			sum += v
		}
		if avg := sum / float64(len(s)); avg > bestAvg {
			best, bestAvg = i, avg
		}
	}
	return names[best]
}

func runPreview(meta decode.Metadata, buf *pcm.Buffer, res *analysis.Result) error {
	player, err := preview.NewPlayer(buf)
	if err != nil {
		return err
	}
	defer player.Close()

	model := ui.NewPreview(meta, player, res)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
