package main

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"keytick/clipboard"
	"keytick/log"
	"keytick/source"
)

type frameMsg time.Time
type noticeMsg struct{ Text string }

type tuiModel struct {
	display    *tuiDisplay
	term       *source.Terminal
	sourceName string
	tickRate   int

	width, height int
	snap          Snapshot
	notice        string
	noticeAt      time.Time
}

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	helpBold    = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1)
	downStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Padding(0, 1)
	edgeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

const noticeTTL = 3 * time.Second

// tuiDisplay keeps the latest snapshot for the TUI to pick up on its own
// frame clock, so a slow terminal never stalls the tick loop.
type tuiDisplay struct {
	latest atomic.Pointer[Snapshot]
}

func (d *tuiDisplay) Snapshot(s Snapshot) {
	d.latest.Store(&s)
}

func (d *tuiDisplay) Notice(text string) {
	tuiSend(noticeMsg{Text: text})
}

func NewTUIProgram(d *tuiDisplay, term *source.Terminal, sourceName string, tickRate int) *tea.Program {
	m := tuiModel{display: d, term: term, sourceName: sourceName, tickRate: tickRate}
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if term != nil {
		opts = append(opts, tea.WithMouseAllMotion(), tea.WithReportFocus())
	}
	return tea.NewProgram(m, opts...)
}

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		go p.Send(msg)
	}
}

func tuiFrame() tea.Cmd {
	return tea.Tick(60*time.Millisecond, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiFrame()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+y":
			if err := clipboard.Copy(m.snap.String()); err != nil {
				log.Warnf("clipboard copy: %v", err)
				m.setNotice("copy failed: " + err.Error())
			} else {
				m.setNotice("[✓ copied]")
			}
			return m, nil
		}
		if m.term != nil {
			m.term.Feed(msg)
		}

	case tea.MouseMsg, tea.BlurMsg:
		if m.term != nil {
			m.term.Feed(msg)
		}

	case frameMsg:
		if s := m.display.latest.Load(); s != nil {
			m.snap = *s
		}
		if m.notice != "" && time.Since(m.noticeAt) > noticeTTL {
			m.notice = ""
		}
		return m, tuiFrame()

	case noticeMsg:
		m.setNotice(msg.Text)
	}
	return m, nil
}

func (m *tuiModel) setNotice(text string) {
	m.notice = text
	m.noticeAt = time.Now()
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var lines []string
	lines = append(lines, titleStyle.Render("keytick "+version))
	lines = append(lines, statusStyle.Render(fmt.Sprintf("[%s | %d tps | tick %d]", m.sourceName, m.tickRate, m.snap.Tick)))
	lines = append(lines, "")

	if len(m.snap.Keys) == 0 {
		lines = append(lines, dimStyle.Render("No keys bound (use -keys)"))
	} else {
		lines = append(lines, renderKeyTable(m.snap))
	}

	lines = append(lines, "")
	if m.snap.X < 0 {
		lines = append(lines, dimStyle.Render("pointer: none"))
	} else {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("pointer: %d, %d", m.snap.X, m.snap.Y)))
	}

	lines = append(lines, "")
	help := helpBold.Render("ctrl+y") + helpStyle.Render(" copy  ") +
		helpBold.Render("ctrl+c") + helpStyle.Render(" quit")
	lines = append(lines, help)
	if m.notice != "" {
		lines = append(lines, noticeStyle.Render(m.notice))
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func renderKeyTable(s Snapshot) string {
	rows := make([][]string, len(s.Keys))
	for i, k := range s.Keys {
		rows[i] = []string{
			k.Name,
			mark(k.Down),
			mark(k.Pressed),
			mark(k.Released),
			strconv.Itoa(k.Presses),
			strconv.Itoa(k.Releases),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("KEY", "DOWN", "PRESSED", "RELEASED", "+", "-").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(s.Keys) {
				return cellStyle
			}
			k := s.Keys[row]
			switch {
			case col == 1 && k.Down:
				return downStyle
			case (col == 2 && k.Pressed) || (col == 3 && k.Released):
				return edgeStyle
			}
			return cellStyle
		})
	return t.Render()
}

func mark(b bool) string {
	if b {
		return "●"
	}
	return "·"
}
