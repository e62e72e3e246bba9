package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/azqeurio/sd-to-c-sort/internal/app"
	"github.com/azqeurio/sd-to-c-sort/internal/config"
	"github.com/azqeurio/sd-to-c-sort/internal/domain"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseScanning Phase = iota
	PhaseExecuting
	PhaseAsk
	PhaseDone
	PhaseError
)

// Messages for the TUI
type (
	ScanProgressMsg struct {
		Current int
		Total   int
	}
	TransferProgressMsg struct {
		Current int
		Total   int
		File    string
	}
	// AskMsg carries a collision prompt and the channel the answer goes
	// back on. One prompt is shown at a time.
	AskMsg struct {
		Prompt app.CollisionPrompt
		Resp   chan app.Decision
	}
	DoneMsg struct {
		Summary domain.RunSummary
	}
	ErrorMsg struct {
		Err error
	}
	tickMsg time.Time
)

// Model is the main TUI model
type Model struct {
	config  config.Config
	cancel  func()
	Phase   Phase
	Summary domain.RunSummary

	spinner      spinner.Model
	progress     progress.Model
	scanCurrent  int
	scanTotal    int
	copyProgress int
	copyTotal    int
	currentFile  string

	ask      *AskMsg
	Err      error
	Quitting bool
	width    int
}

// NewModel creates a new TUI model. cancel is invoked when the user quits
// mid-run so the pipeline stops scheduling further files.
func NewModel(cfg config.Config, cancel func()) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:   cfg,
		cancel:   cancel,
		Phase:    PhaseScanning,
		spinner:  s,
		progress: p,
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case ScanProgressMsg:
		m.scanCurrent = msg.Current
		m.scanTotal = msg.Total
		return m, nil

	case TransferProgressMsg:
		if m.Phase == PhaseScanning {
			m.Phase = PhaseExecuting
		}
		m.copyProgress = msg.Current
		m.copyTotal = msg.Total
		m.currentFile = msg.File
		return m, nil

	case AskMsg:
		ask := msg
		m.ask = &ask
		m.Phase = PhaseAsk
		return m, nil

	case DoneMsg:
		m.Phase = PhaseDone
		m.Summary = msg.Summary
		return m, nil

	case ErrorMsg:
		m.Phase = PhaseError
		m.Err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if m.Phase == PhaseScanning || m.Phase == PhaseExecuting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		if m.Phase == PhaseExecuting {
			var cmds []tea.Cmd
			if m.copyTotal > 0 {
				cmds = append(cmds, m.progress.SetPercent(float64(m.copyProgress)/float64(m.copyTotal)))
			}
			cmds = append(cmds, tickCmd(), m.spinner.Tick)
			return m, tea.Batch(cmds...)
		}
		return m, tickCmd()
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Phase == PhaseAsk && m.ask != nil {
		switch msg.String() {
		case "r":
			return m.answer(app.Decision{Action: app.DecisionRename})
		case "s":
			return m.answer(app.Decision{Action: app.DecisionSkip})
		case "R":
			return m.answer(app.Decision{Action: app.DecisionRename, ApplyToAll: true})
		case "S":
			return m.answer(app.Decision{Action: app.DecisionSkip, ApplyToAll: true})
		case "c":
			return m.answer(app.Decision{Action: app.DecisionStop})
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if m.cancel != nil {
			m.cancel()
		}
		m.Quitting = true
		return m, tea.Quit
	case "enter":
		if m.Phase == PhaseDone || m.Phase == PhaseError {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) answer(decision app.Decision) (tea.Model, tea.Cmd) {
	m.ask.Resp <- decision
	m.ask = nil
	m.Phase = PhaseExecuting
	return m, nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseScanning:
		b.WriteString(m.renderScanning())
	case PhaseExecuting:
		b.WriteString(m.renderExecution())
	case PhaseAsk:
		b.WriteString(m.renderExecution())
		b.WriteString("\n")
		b.WriteString(m.renderAskPrompt())
	case PhaseDone:
		b.WriteString(m.renderSummary())
	case PhaseError:
		b.WriteString(m.renderError())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("📷 sdsort")
	subtitle := subtitleStyle.Render("Sort your card, keep your folders")

	mode := string(m.config.Mode)
	if m.config.DryRun {
		mode += " (dry run)"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		dimStyle.Render(fmt.Sprintf("%s Source: %s", iconFolder, shortenPath(m.config.SourceDir))),
		dimStyle.Render(fmt.Sprintf("%s Dest:   %s", iconFolder, shortenPath(m.config.DestRoot))),
		dimStyle.Render(fmt.Sprintf("%s Group by %s, duplicates: %s, %s", iconArrow, m.config.GroupBy, m.config.Policy, mode)),
	)
}

func (m Model) renderScanning() string {
	if m.scanTotal > 0 {
		percent := float64(m.scanCurrent) / float64(m.scanTotal)
		progressBar := m.progress.ViewAs(percent)

		countStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)

		return fmt.Sprintf("%s Reading photo metadata...\n\n  %s\n  %s %s",
			m.spinner.View(),
			progressBar,
			countStyle.Render(fmt.Sprintf("%d/%d", m.scanCurrent, m.scanTotal)),
			dimStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
		)
	}
	return fmt.Sprintf("%s Reading photo metadata...", m.spinner.View())
}

func (m Model) renderExecution() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Organizing Files"))
	b.WriteString("\n\n")

	percent := 0.0
	if m.copyTotal > 0 {
		percent = float64(m.copyProgress) / float64(m.copyTotal)
	}

	b.WriteString(fmt.Sprintf("  %s Transferring...\n\n", m.spinner.View()))
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(percent)))

	countStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	b.WriteString(fmt.Sprintf("  %s %s\n",
		countStyle.Render(fmt.Sprintf("%d/%d files", m.copyProgress, m.copyTotal)),
		dimStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))

	if m.currentFile != "" {
		b.WriteString(fmt.Sprintf("\n  %s %s\n", iconArrow, fileNameStyle.Render(m.currentFile)))
	}

	return b.String()
}

func (m Model) renderAskPrompt() string {
	prompt := promptStyle.Render(fmt.Sprintf("%s Destination already occupied:", iconWarn))
	dest := fileNameStyle.Render("  " + m.ask.Prompt.DestPath)
	options := dimStyle.Render("  [r] rename  [s] skip  [R] rename all  [S] skip all  [c] cancel run")

	return lipgloss.JoinVertical(lipgloss.Left, prompt, dest, "", options)
}

func (m Model) renderSummary() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Run Complete"))
	b.WriteString("\n\n")

	if m.Summary.Failed == 0 {
		b.WriteString(fmt.Sprintf("  %s %s\n\n", successStyle.Render(iconSuccess), successStyle.Render("All files processed.")))
	} else {
		b.WriteString(fmt.Sprintf("  %s %s\n\n", warningStyle.Render(iconWarn), warningStyle.Render("Finished with failures.")))
	}

	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Placed:"), statValueStyle.Render(fmt.Sprintf("%d", m.Summary.Placed))))
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Renamed:"), statValueStyle.Render(fmt.Sprintf("%d", m.Summary.Renamed))))
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Skipped:"), dimStyle.Render(fmt.Sprintf("%s %d", iconSkipped, m.Summary.Skipped))))
	if m.Summary.Failed > 0 {
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Failed:"), errorStyle.Render(fmt.Sprintf("%s %d", iconError, m.Summary.Failed))))
	}
	if m.Summary.NotRemoved > 0 {
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Not removed:"), warningStyle.Render(fmt.Sprintf("%s %d", iconWarn, m.Summary.NotRemoved))))
	}
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Elapsed:"), dimStyle.Render(m.Summary.Elapsed.Round(time.Millisecond).String())))

	if len(m.Summary.Issues) > 0 {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(fmt.Sprintf("%s Skipped or failed (%d)", iconWarn, len(m.Summary.Issues))))
		b.WriteString("\n\n")
		for i, issue := range m.Summary.Issues {
			if i >= 10 {
				b.WriteString(fmt.Sprintf("  ... and %d more\n", len(m.Summary.Issues)-10))
				break
			}
			b.WriteString(fmt.Sprintf("  %s %s: %s\n", iconSkipped, fileNameStyle.Render(issue.Source.Name), dimStyle.Render(issue.Detail)))
		}
	}

	if m.config.DryRun {
		b.WriteString("\n")
		b.WriteString(highlightBoxStyle.Render("🔍 Dry Run - No files were written"))
	}

	return b.String()
}

func (m Model) renderError() string {
	icon := errorStyle.Render(iconError)
	msg := errorStyle.Render(fmt.Sprintf("Error: %s", m.Err.Error()))

	return highlightBoxStyle.
		BorderForeground(errorColor).
		Render(fmt.Sprintf("%s %s", icon, msg))
}

func (m Model) renderHelp() string {
	var help string
	switch m.Phase {
	case PhaseScanning, PhaseExecuting:
		help = "Press q to stop after the current file"
	case PhaseAsk:
		help = "r/s rename or skip this file • R/S apply to all • c cancel run"
	case PhaseDone:
		help = "Press Enter to exit"
	case PhaseError:
		help = "Press Enter or q to exit"
	}
	return helpStyle.Render(help)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// shortenPath replaces the home directory prefix with ~ for display
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
