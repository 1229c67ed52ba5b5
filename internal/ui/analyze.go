// Package ui holds the Bubbletea models for the analysis progress screen and
// the playback preview.
package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/beatscope/internal/analysis"
	"github.com/olivier-w/beatscope/internal/decode"
	"github.com/olivier-w/beatscope/internal/pcm"
)

// analyzeProgressMsg carries a progress fraction from the engine callback.
type analyzeProgressMsg float64

// analyzeDoneMsg signals the analysis goroutine finished.
type analyzeDoneMsg struct {
	result *analysis.Result
	err    error
}

// AnalyzeModel runs the engine in the background and renders its progress.
type AnalyzeModel struct {
	meta     decode.Metadata
	buf      *pcm.Buffer
	cfg      analysis.Config
	spinner  spinner.Model
	progress progress.Model
	percent  float64
	progCh   chan float64
	ctx      context.Context
	cancel   context.CancelFunc
	result   *analysis.Result
	err      error
	width    int
	quitting bool
}

// NewAnalyze creates the analysis screen for a decoded buffer.
func NewAnalyze(meta decode.Metadata, buf *pcm.Buffer, cfg analysis.Config) AnalyzeModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	p := progress.New(
		progress.WithScaledGradient("#FF8C00", "#FF5F1F"),
		progress.WithoutPercentage(),
	)

	ctx, cancel := context.WithCancel(context.Background())

	return AnalyzeModel{
		meta:     meta,
		buf:      buf,
		cfg:      cfg,
		spinner:  s,
		progress: p,
		progCh:   make(chan float64, 64),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Result returns the analysis outcome after the program finishes.
func (m AnalyzeModel) Result() (*analysis.Result, error) {
	if m.result == nil && m.err == nil {
		return nil, fmt.Errorf("analysis was cancelled")
	}
	return m.result, m.err
}

func (m AnalyzeModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.startAnalysis(),
		m.waitForProgress(),
	)
}

func (m AnalyzeModel) startAnalysis() tea.Cmd {
	ctx := m.ctx
	progCh := m.progCh
	buf, cfg := m.buf, m.cfg
	return func() tea.Msg {
		res, err := analysis.Analyze(ctx, buf, cfg, func(frac float64) {
			// Never block the engine on a slow terminal.
			select {
			case progCh <- frac:
			default:
			}
		})
		close(progCh)
		return analyzeDoneMsg{result: res, err: err}
	}
}

func (m AnalyzeModel) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		frac, ok := <-m.progCh
		if !ok {
			return nil
		}
		return analyzeProgressMsg(frac)
	}
}

func (m AnalyzeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isQuit(msg) {
			m.cancel()
			// The done message arrives with the context error and quits.
			return m, nil
		}

	case analyzeProgressMsg:
		if float64(msg) > m.percent {
			m.percent = float64(msg)
		}
		return m, m.waitForProgress()

	case analyzeDoneMsg:
		// Analysis finished on its own; release the context too.
		m.cancel()
		m.result = msg.result
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 8
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
		return m, nil
	}

	return m, nil
}

func (m AnalyzeModel) phase() string {
	switch {
	case m.percent < 0.5:
		return "Analyzing spectrum..."
	case m.percent < 0.9:
		return "Detecting beats..."
	default:
		return "Estimating tempo..."
	}
}

func (m AnalyzeModel) View() string {
	if m.quitting {
		return ""
	}

	lines := "\n"
	lines += "  " + headerStyle.Render("beatscope") + "\n\n"
	lines += "  " + titleStyle.Render(m.meta.Title)
	if m.meta.Artist != "" {
		lines += "  " + artistStyle.Render(m.meta.Artist)
	}
	lines += "\n\n"
	lines += "  " + m.spinner.View() + " " + statusStyle.Render(m.phase()) + "\n"
	lines += "  " + m.progress.ViewAs(m.percent) + fmt.Sprintf("  %.0f%%", m.percent*100) + "\n\n"
	lines += "  " + helpStyle.Render("q cancel") + "\n"
	return lines
}
