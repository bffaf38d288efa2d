package monitor

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"lithosguard/internal/config"
	"lithosguard/internal/physics"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a feed line for the viewport.
type logMsg struct{ line string }

// commandMsg carries rendered command records.
type commandMsg struct{ lines []string }

// frameMsg carries the latest frame.
type frameMsg struct{ Frame }

// adminMsg reports admin UI status.
type adminMsg struct{ active bool }

const (
	maxLogLines         = 1000
	maxSectionHeightPct = 0.25
)

// TUIWriter renders frames using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.MonitorConfig) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

func feedLine(f Frame) string {
	fc := statusColor(f.SectorStatus)
	return fmt.Sprintf("%s[%s]%s %sP=%.2fkPa%s %sD=%.3fmm%s %sAE=%.3fg%s %sFoS=%.3f%s %sTTF=%.1fh%s",
		colorGray, f.Timestamp.Format(timestampLayout), colorReset,
		colorCyan, f.Point.PorePressureKPa, colorReset,
		colorMagenta, f.Point.DisplacementMM, colorReset,
		colorYellow, f.Point.AcousticEmission, colorReset,
		fc, f.Evaluation.FactorOfSafety, colorReset,
		colorBlue, f.Evaluation.TimeToFailureHours, colorReset,
	)
}

// WriteFrame implements FrameWriter.
func (w *TUIWriter) WriteFrame(f Frame) error {
	w.program.Send(logMsg{line: feedLine(f)})
	w.program.Send(frameMsg{f})
	return nil
}

// WriteFrames outputs multiple frames.
func (w *TUIWriter) WriteFrames(frames []Frame) error {
	for _, f := range frames {
		_ = w.WriteFrame(f)
	}
	return nil
}

// WriteCommands implements CommandWriter.
func (w *TUIWriter) WriteCommands(rows []CommandRecord) error {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.Line
	}
	w.program.Send(commandMsg{lines: lines})
	return nil
}

// SetAdminStatus updates the admin UI indicator.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	cfg          *config.MonitorConfig
	table        table.Model
	vp           viewport.Model
	cmdVP        viewport.Model
	logs         []string
	cmdLogs      []string
	last         Frame
	haveFrame    bool
	admin        bool
	wrap         bool
	autoscroll   bool
	help         bool
	header       string
	headerHeight int
	height       int
}

func newTUIModel(cfg *config.MonitorConfig) tuiModel {
	if cfg == nil {
		cfg = config.Default()
	}
	cols := []table.Column{
		{Title: "Config", Width: 20},
		{Title: "Value", Width: 14},
		{Title: "Config", Width: 20},
		{Title: "Value", Width: 14},
	}
	rows := []table.Row{
		{"Site", cfg.Site.Name, "Data Source", cfg.Monitor.DataSource},
		{"Cohesion (kPa)", fmt.Sprintf("%.1f", cfg.Physics.CohesionKPa), "Friction (deg)", fmt.Sprintf("%.1f", cfg.Physics.FrictionAngleDeg)},
		{"Normal Stress (kPa)", fmt.Sprintf("%.1f", cfg.Physics.NormalStressKPa), "Critical FoS", fmt.Sprintf("%.2f", cfg.Physics.CriticalFoS)},
		{"Playback Speed", fmt.Sprintf("%d", cfg.Monitor.PlaybackSpeed), "Buffer", fmt.Sprintf("%d", cfg.Monitor.BufferSize)},
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	return tuiModel{
		cfg:        cfg,
		table:      t,
		vp:         viewport.New(0, 0),
		cmdVP:      viewport.New(0, 0),
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.cmdVP.Width = msg.Width
		m.height = msg.Height
		m.header = m.table.View()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewport()
		m.refreshCommands()
	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			m.refreshCommands()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
				m.cmdVP.GotoBottom()
			}
			return m, nil
		case "h", "?":
			m.help = true
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				return m, cmd
			}
		}
		return m, nil
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case commandMsg:
		m.cmdLogs = append(m.cmdLogs, msg.lines...)
		if len(m.cmdLogs) > maxLogLines {
			m.cmdLogs = m.cmdLogs[len(m.cmdLogs)-maxLogLines:]
		}
		m.updateViewportHeight()
		m.refreshCommands()
		m.refreshViewport()
	case frameMsg:
		m.last = msg.Frame
		m.haveFrame = true
	case adminMsg:
		m.admin = msg.active
	}
	return m, nil
}

func (m tuiModel) maxSectionLines() int {
	h := int(float64(m.height) * maxSectionHeightPct)
	if h < 1 {
		h = 1
	}
	return h
}

func (m *tuiModel) updateViewportHeight() {
	cmdLines := len(m.cmdLogs)
	if cmdLines == 0 {
		cmdLines = 1
	}
	if limit := m.maxSectionLines(); cmdLines > limit {
		cmdLines = limit
	}
	m.cmdVP.Height = cmdLines
	bannerHeight := lipgloss.Height(m.renderBanner())
	bottomHeight := lipgloss.Height(m.renderBottom())
	h := m.height - m.headerHeight - bannerHeight - bottomHeight - (1 + m.cmdVP.Height) - 4
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
		m.cmdVP.GotoBottom()
	}
}

func (m *tuiModel) wrapLines(lines []string, width int) string {
	if !m.wrap || width <= 0 {
		return strings.Join(lines, "\n")
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = wordwrap.String(l, width)
	}
	return strings.Join(out, "\n")
}

func (m *tuiModel) refreshViewport() {
	m.vp.SetContent(m.wrapLines(m.logs, m.vp.Width))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshCommands() {
	content := "[Monitoring... No commands sent yet]"
	if len(m.cmdLogs) > 0 {
		content = m.wrapLines(m.cmdLogs, m.cmdVP.Width)
	}
	m.cmdVP.SetContent(content)
	if m.autoscroll {
		m.cmdVP.GotoBottom()
	}
}

var (
	sectorStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true)
	sectorColor = map[physics.Status]lipgloss.Color{
		physics.StatusStable:   lipgloss.Color("10"),
		physics.StatusWarning:  lipgloss.Color("11"),
		physics.StatusCritical: lipgloss.Color("9"),
	}
)

func (m tuiModel) renderBanner() string {
	if !m.haveFrame {
		return "RISK -- | awaiting telemetry"
	}
	riskColor := lipgloss.Color("10")
	risk := "SAFE"
	if m.last.Evaluation.IsCritical {
		riskColor = lipgloss.Color("9")
		risk = "CRITICAL"
	}
	riskText := lipgloss.NewStyle().Foreground(riskColor).Bold(true).Render(risk)
	var cells []string
	for _, s := range physics.Sectors(m.last.Evaluation.FactorOfSafety) {
		label := fmt.Sprintf("%s %.2f", strings.TrimPrefix(s.Name, "Sector "), s.FactorOfSafety)
		cells = append(cells, sectorStyle.Foreground(sectorColor[s.Status]).Render(label))
	}
	line := fmt.Sprintf("RISK %s | FoS %.3f | TTF %.1fh | ML %s (%.2f) | %d/%d",
		riskText, m.last.Evaluation.FactorOfSafety, m.last.Evaluation.TimeToFailureHours,
		m.last.Evaluation.RiskLabel, m.last.Evaluation.RiskProbability, m.last.Index, m.last.Total)
	return line + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func indicator(on bool) string {
	c := lipgloss.Color("9")
	if on {
		c = lipgloss.Color("10")
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

func (m tuiModel) renderBottom() string {
	alarm := m.haveFrame && m.last.Alarm.Triggered
	return fmt.Sprintf("Siren %s | Admin UI %s | Wrap %s | Scroll %s | Help %s",
		indicator(alarm), indicator(m.admin), indicator(m.wrap), indicator(m.autoscroll), indicator(m.help))
}

func (m tuiModel) renderHelp() string {
	return strings.Join([]string{
		"Keys:",
		"  q        quit",
		"  w        toggle wrap",
		"  s        toggle autoscroll",
		"  j/k      scroll when autoscroll is off",
		"  h/?      toggle help",
	}, "\n")
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.vp.Width)
	return strings.Join([]string{
		m.header,
		m.renderBanner(),
		divider,
		m.vp.View(),
		divider,
		"Outbound Command Log:",
		m.cmdVP.View(),
		divider,
		m.renderBottom(),
	}, "\n")
}
