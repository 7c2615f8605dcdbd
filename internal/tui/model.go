package tui

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fibseq/internal/cli"
	apperrors "github.com/agbru/fibseq/internal/errors"
	"github.com/agbru/fibseq/internal/format"
	"github.com/agbru/fibseq/internal/metrics"
	"github.com/agbru/fibseq/internal/orchestration"
	"github.com/agbru/fibseq/internal/plan"
)

// PollInterval is how often the dashboard drains the task stream.
const PollInterval = 100 * time.Millisecond

// Layout constants.
const (
	headerHeight   = 1
	progressHeight = 1
	metricsHeight  = 1
	footerHeight   = 1
	panelBorders   = 2
	minListHeight  = 3
	historySize    = 32
	progressWidth  = 30
)

// Config describes the task the dashboard runs and re-runs.
type Config struct {
	Plan    plan.Plan
	Header  string
	Verbose bool
	Version string
	// Options are applied to the orchestrator; Run adds its own state hook.
	Options []orchestration.Option
}

// Model is the root bubbletea model.
type Model struct {
	header  HeaderModel
	metrics MetricsModel
	help    help.Model
	keymap  KeyMap
	history *History

	orch      *orchestration.Orchestrator
	cfg       Config
	parentCtx context.Context
	ctx       context.Context
	cancel    context.CancelFunc
	stream    *orchestration.Stream

	values   []string
	offset   int
	percent  uint8
	finished bool

	width  int
	height int
}

// NewModel creates the model and starts the first task.
func NewModel(parentCtx context.Context, orch *orchestration.Orchestrator, cfg Config) Model {
	m := Model{
		header:    NewHeaderModel(cfg.Version),
		help:      help.New(),
		keymap:    DefaultKeyMap(),
		history:   NewHistory(historySize),
		orch:      orch,
		cfg:       cfg,
		parentCtx: parentCtx,
	}
	m.start()
	return m
}

// start launches a new task, abandoning any previous stream.
func (m *Model) start() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.stream != nil {
		m.stream.Detach()
	}
	m.ctx, m.cancel = context.WithCancel(m.parentCtx)
	m.stream = m.orch.Start(m.ctx, m.cfg.Plan)

	m.values = nil
	m.offset = 0
	m.percent = 0
	m.finished = false
	m.history.Reset()
	m.header.Reset()
	m.metrics.Reset()
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), watchContextCmd(m.parentCtx))
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		m.metrics.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.clampOffset()
		return m, nil

	case TickMsg:
		m.poll()
		m.metrics.UpdateMemory(metrics.ReadMemory())
		return m, tickCmd()

	case StateMsg:
		if msg.TaskID == m.stream.ID() && !m.finished {
			m.header.SetState(msg.State.String())
		}
		return m, nil

	case ContextCancelledMsg:
		m.stop()
		return m, tea.Quit
	}
	return m, nil
}

// poll drains every event currently buffered in the stream.
func (m *Model) poll() {
	for {
		e, ok := m.stream.TryRecv()
		if !ok {
			return
		}
		m.apply(e)
	}
}

// apply updates the display for one event. Progress clears the list; the
// Result replaces it and scrolls back to the first value.
func (m *Model) apply(e orchestration.Event) {
	m.metrics.Observe()
	switch e.Kind {
	case orchestration.EventProgress:
		m.values = nil
		m.offset = 0
		m.percent = e.Percent
		m.history.Push(e.Percent)
	case orchestration.EventResult:
		m.values = formatValues(e.Values, m.cfg.Verbose)
		m.offset = 0
		m.percent = 100
		m.finished = true
		m.header.SetState(orchestration.StateCompleted.String())
		m.header.SetDone()
	}
	m.metrics.SetValues(len(m.values))
}

func formatValues(values []*big.Int, verbose bool) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i], _ = cli.FormatValue(v, verbose)
	}
	return out
}

func (m *Model) stop() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.stream != nil {
		m.stream.Detach()
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.stop()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Rerun):
		m.start()
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		m.offset--
	case key.Matches(msg, m.keymap.Down):
		m.offset++
	case key.Matches(msg, m.keymap.PageUp):
		m.offset -= m.listHeight()
	case key.Matches(msg, m.keymap.PageDown):
		m.offset += m.listHeight()
	}
	m.clampOffset()
	return m, nil
}

// listHeight is the number of value rows that fit in the panel.
func (m Model) listHeight() int {
	h := m.height - headerHeight - progressHeight - metricsHeight - footerHeight - panelBorders
	return max(h, minListHeight)
}

func (m *Model) clampOffset() {
	limit := max(len(m.values)-m.listHeight(), 0)
	m.offset = min(max(m.offset, 0), limit)
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	bar := progressStyle.Render(format.ProgressBar(float64(m.percent)/100, progressWidth))
	progressLine := fmt.Sprintf(" %s %3d%% %s", bar, m.percent, dimStyle.Render(m.history.Sparkline()))
	if m.cfg.Header != "" {
		progressLine += "  " + dimStyle.Render(m.cfg.Header)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		progressLine,
		m.renderList(),
		m.metrics.View(),
		" "+m.help.View(m.keymap),
	)
}

func (m Model) renderList() string {
	rows := m.listHeight()
	var b strings.Builder
	switch {
	case !m.finished:
		b.WriteString(dimStyle.Render("working..."))
	case len(m.values) == 0:
		b.WriteString(dimStyle.Render("no values matched"))
	default:
		width := len(fmt.Sprint(len(m.values)))
		end := min(m.offset+rows, len(m.values))
		for i := m.offset; i < end; i++ {
			if i > m.offset {
				b.WriteByte('\n')
			}
			b.WriteString(indexStyle.Render(fmt.Sprintf("%*d", width, i)))
			b.WriteString("  ")
			b.WriteString(valueStyle.Render(m.values[i]))
		}
	}
	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(rows).
		Render(b.String())
}

// Run starts the dashboard and blocks until the user quits or ctx ends.
func Run(ctx context.Context, cfg Config) int {
	// Rebuild styles from the theme chosen by the application.
	initTUIStyles()

	ref := &programRef{}
	opts := append(append([]orchestration.Option(nil), cfg.Options...), orchestration.WithStateHook(ref.stateHook))
	model := NewModel(ctx, orchestration.New(opts...), cfg)

	p := tea.NewProgram(model, tea.WithAltScreen())
	ref.SetProgram(p)

	finalModel, err := p.Run()
	model.stop()
	if m, ok := finalModel.(Model); ok {
		m.stop()
	}
	switch {
	case err != nil:
		return apperrors.ExitErrorGeneric
	case ctx.Err() != nil:
		return apperrors.ExitCode(ctx.Err())
	default:
		return apperrors.ExitSuccess
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(PollInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
