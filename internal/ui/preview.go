package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/beatscope/internal/analysis"
	"github.com/olivier-w/beatscope/internal/decode"
	"github.com/olivier-w/beatscope/internal/preview"
	"github.com/olivier-w/beatscope/internal/util"
)

const (
	previewFPS = 30
	// beatFlashWindow is how close (seconds) the playhead must be to a
	// detected beat for the beat indicator to light up.
	beatFlashWindow = 0.05
)

var meterNames = [5]string{"sub ", "bass", "mid ", "high", "vol "}

type previewTickMsg time.Time

// PreviewModel plays the track and renders the analysis result in sync:
// spring-smoothed band/loudness meters and a beat flash driven by the merged
// timeline.
type PreviewModel struct {
	meta     decode.Metadata
	player   *preview.Player
	res      *analysis.Result
	meters   springField
	levels   [5]float64
	onBeat   bool
	width    int
	quitting bool
}

// NewPreview creates the preview screen over a started player.
func NewPreview(meta decode.Metadata, player *preview.Player, res *analysis.Result) PreviewModel {
	return PreviewModel{
		meta:   meta,
		player: player,
		res:    res,
		meters: newSpringField(5, previewFPS, 10.0, 0.6),
		width:  80,
	}
}

func (m PreviewModel) Init() tea.Cmd {
	return m.tick()
}

func (m PreviewModel) tick() tea.Cmd {
	return tea.Tick(time.Second/previewFPS, func(t time.Time) tea.Msg {
		return previewTickMsg(t)
	})
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case isQuit(msg):
			m.quitting = true
			m.player.Close()
			return m, tea.Quit
		case msg.String() == " ":
			m.player.TogglePause()
			return m, nil
		}

	case previewTickMsg:
		select {
		case <-m.player.Done():
			m.quitting = true
			return m, tea.Quit
		default:
		}

		t := m.player.Position().Seconds()
		s := m.res.SeriesAt(t)
		targets := [5]float64{s.Sub, s.Bass, s.Mid, s.High, s.Energy}
		for i, target := range targets {
			m.levels[i] = m.meters.step(i, target)
		}
		m.onBeat = m.res.BeatNear(t, beatFlashWindow)
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}

	return m, nil
}

func (m PreviewModel) View() string {
	if m.quitting {
		return ""
	}

	barWidth := m.width - 12
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 48 {
		barWidth = 48
	}

	var sb strings.Builder
	sb.WriteString("\n  " + headerStyle.Render("beatscope") + "\n\n")
	sb.WriteString("  " + titleStyle.Render(m.meta.Title))
	if m.meta.Artist != "" {
		sb.WriteString("  " + artistStyle.Render(m.meta.Artist))
	}
	sb.WriteString("\n")

	pos := util.FormatDuration(m.player.Position())
	dur := util.FormatDuration(m.player.Duration())
	status := fmt.Sprintf("%s / %s  ·  %.0f BPM", pos, dur, m.res.BPM)
	if m.player.Paused() {
		status += "  ·  paused"
	}
	sb.WriteString("  " + timeStyle.Render(status))
	if m.onBeat {
		sb.WriteString("  " + beatStyle.Render("●"))
	}
	sb.WriteString("\n\n")

	for i, name := range meterNames {
		sb.WriteString("  " + statusStyle.Render(name) + " " + renderMeter(m.levels[i], barWidth) + "\n")
	}

	sb.WriteString("\n  " + helpStyle.Render("space pause  q quit") + "\n")
	return sb.String()
}

// renderMeter draws a level bar with green/yellow/red zones.
func renderMeter(level float64, width int) string {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	filled := int(level * float64(width))

	var sb strings.Builder
	for i := 0; i < width; i++ {
		ch := "─"
		if i < filled {
			ch = "█"
		}
		switch {
		case i < width*6/10:
			sb.WriteString(meterLowStyle.Render(ch))
		case i < width*8/10:
			sb.WriteString(meterMidStyle.Render(ch))
		default:
			sb.WriteString(meterHighStyle.Render(ch))
		}
	}
	return sb.String()
}
