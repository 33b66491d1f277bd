package report

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/diskaudit/internal/scan"
	"github.com/lakshaymaurya-felt/diskaudit/internal/ui"
)

// ─── Messages ────────────────────────────────────────────────────────────────

// EventMsg carries one scan progress event into the model.
type EventMsg scan.Event

// scanDoneMsg ends the program once the scan has returned.
type scanDoneMsg struct{ err error }

// ─── Model ───────────────────────────────────────────────────────────────────

// ProgressModel shows a spinner with the running task while a scan is in
// flight. ctrl+c asks the scan to stop; the model keeps spinning until the
// in-flight task returns.
type ProgressModel struct {
	spinner  spinner.Model
	root     string
	cancel   context.CancelFunc
	task     string
	done     int
	total    int
	stopping bool
	finished bool
}

// NewProgressModel creates the spinner model for a scan of root.
func NewProgressModel(root string, cancel context.CancelFunc) ProgressModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(ui.ColorPrimary)),
	)
	return ProgressModel{spinner: s, root: root, cancel: cancel}
}

func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && !m.stopping {
			m.stopping = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case EventMsg:
		switch msg.Kind {
		case scan.EventTaskStarted:
			m.task = msg.Task
			m.total = msg.Total
		case scan.EventTaskFinished:
			m.done = msg.Done
			m.total = msg.Total
		}
		return m, nil

	case scanDoneMsg:
		m.finished = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ProgressModel) View() string {
	if m.finished {
		return ""
	}

	status := fmt.Sprintf("Scanning %s", m.root)
	if m.stopping {
		status = "Stopping after the current task"
	}

	line := m.spinner.View() + " " + lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render(status)
	if m.total > 0 {
		line += ui.MutedStyle.Render(fmt.Sprintf("  [%d/%d]", m.done, m.total))
	}
	if m.task != "" && !m.stopping {
		line += " " + ui.MutedStyle.Render(m.task)
	}
	return line + "\n"
}

// ─── Runner ──────────────────────────────────────────────────────────────────

// ScanFunc runs a scan, reporting progress through the given callback.
type ScanFunc func(ctx context.Context, progress scan.ProgressFunc) (scan.Snapshot, error)

// RunWithSpinner runs fn while drawing a spinner on out. The spinner is
// cleared before returning, and fn never outlives the call.
func RunWithSpinner(ctx context.Context, out io.Writer, root string, fn ScanFunc) (scan.Snapshot, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewProgressModel(root, cancel), tea.WithOutput(out))

	type result struct {
		snap scan.Snapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		snap, err := fn(ctx, func(ev scan.Event) { p.Send(EventMsg(ev)) })
		done <- result{snap: snap, err: err}
		p.Send(scanDoneMsg{err: err})
	}()

	_, runErr := p.Run()
	// No-op when the scan already returned; otherwise the display quit
	// early and the scan must stop too.
	cancel()
	res := <-done

	if res.err != nil {
		return scan.Snapshot{}, res.err
	}
	if runErr != nil {
		return scan.Snapshot{}, fmt.Errorf("progress display: %w", runErr)
	}
	return res.snap, nil
}
