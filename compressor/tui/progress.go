// Package tui renders a live progress bar for a running batch.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"imageCompressor/compressor/models"
)

const defaultBarWidth = 48

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// ProgressMsg carries a progress snapshot from the batch goroutine.
type ProgressMsg models.BatchProgress

// DoneMsg ends the program once the batch has returned.
type DoneMsg struct{}

// ProgressModel is the Bubble Tea model for a running batch.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View.
type ProgressModel struct {
	bar       progress.Model
	progress  models.BatchProgress
	canceling bool
	done      bool
	onCancel  func()
	now       func() time.Time
}

// NewProgressModel builds the model. onCancel is called once when the
// user asks to stop; the batch keeps running until its current item ends.
func NewProgressModel(total int, onCancel func()) ProgressModel {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = defaultBarWidth

	return ProgressModel{
		bar:      bar,
		progress: models.BatchProgress{Total: total},
		onCancel: onCancel,
		now:      time.Now,
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProgressMsg:
		m.progress = models.BatchProgress(msg)
		return m, nil

	case DoneMsg:
		m.done = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.bar.Width = min(defaultBarWidth, max(10, msg.Width-4))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.canceling {
				m.canceling = true
				if m.onCancel != nil {
					m.onCancel()
				}
			}
		}
		return m, nil
	}

	return m, nil
}

func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Compressing images"))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(fraction(m.progress)))
	b.WriteString("\n")

	status := Status(m.progress, m.now())
	switch {
	case m.done:
		status += " · done"
	case m.canceling:
		status += " · canceling after current image"
	default:
		status += " · q to cancel"
	}
	b.WriteString(mutedStyle.Render(status))
	b.WriteString("\n")

	return b.String()
}

// Status renders "done/total (pct%)" followed by the ETA when one is known.
func Status(p models.BatchProgress, now time.Time) string {
	s := fmt.Sprintf("%d/%d (%d%%)", p.Completed, p.Total, p.Percent())
	if eta := FormatETA(p, now); eta != "" {
		s += " · " + eta
	}
	return s
}

// FormatETA returns "{n}s left", or "" until an estimate exists.
func FormatETA(p models.BatchProgress, now time.Time) string {
	eta, ok := p.ETA(now)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%ds left", int(eta.Seconds()))
}

func fraction(p models.BatchProgress) float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}
