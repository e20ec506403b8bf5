package queueview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"groupcmd/internal/unit"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// unitsMsg replaces the units shown by the browser.
type unitsMsg struct{ units []unit.Unit }

// Source returns the current units in a stable order.
type Source func() []unit.Unit

// Viewer runs the queue browser and feeds it unit snapshots.
type Viewer struct {
	program teaProgram
	done    chan struct{}
}

// NewViewer starts a bubbletea program browsing the units src returns.
func NewViewer(src Source) *Viewer {
	v := &Viewer{done: make(chan struct{})}
	p := tea.NewProgram(newModel(src), tea.WithAltScreen())
	v.program = p
	go func() {
		_, _ = p.Run()
		close(v.done)
	}()
	return v
}

// Refresh pushes a new snapshot to the browser.
func (v *Viewer) Refresh(units []unit.Unit) {
	v.program.Send(unitsMsg{units: units})
}

// Wait blocks until the browser exits.
func (v *Viewer) Wait() {
	if v.done != nil {
		<-v.done
	}
}

// Close stops the browser.
func (v *Viewer) Close() error {
	if v.program != nil {
		v.program.Send(tea.Quit())
	}
	v.Wait()
	return nil
}

type model struct {
	src    Source
	table  table.Model
	vp     viewport.Model
	units  []unit.Unit
	wrap   bool
	width  int
	height int
}

func newModel(src Source) model {
	cols := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Name", Width: 14},
		{Title: "Profile", Width: 9},
		{Title: "Position", Width: 22},
		{Title: "Speed", Width: 11},
		{Title: "Queue", Width: 6},
	}
	t := table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(8))
	m := model{src: src, table: t, vp: viewport.New(0, 0)}
	if src != nil {
		m.setUnits(src())
	}
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m *model) setUnits(units []unit.Unit) {
	m.units = units
	rows := make([]table.Row, len(units))
	for i, u := range units {
		rows[i] = table.Row{
			strconv.Itoa(u.ID),
			u.Name,
			u.Profile.String(),
			fmt.Sprintf("%.0f,%.0f,%.0f", u.Pos.X, u.Pos.Y, u.Pos.Z),
			fmt.Sprintf("%.1f/%.1f", u.WantedMaxSpeed, u.MaxSpeed),
			strconv.Itoa(len(u.Queue)),
		}
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
	m.refreshQueue()
}

// selected returns the unit under the table cursor.
func (m model) selected() (unit.Unit, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.units) {
		return unit.Unit{}, false
	}
	return m.units[c], true
}

func (m *model) refreshQueue() {
	u, ok := m.selected()
	if !ok {
		m.vp.SetContent(mutedStyle.Render("no units"))
		return
	}
	m.vp.SetContent(RenderQueue(u, m.vp.Width, m.wrap))
	m.vp.GotoTop()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		h := msg.Height - lipgloss.Height(m.table.View()) - 3
		if h < 1 {
			h = 1
		}
		m.vp.Height = h
		m.refreshQueue()
		return m, nil
	case unitsMsg:
		m.setUnits(msg.units)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshQueue()
			return m, nil
		case "r":
			if m.src != nil {
				m.setUnits(m.src())
			}
			return m, nil
		case "pgdown", "pgup":
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
		before := m.table.Cursor()
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		if m.table.Cursor() != before {
			m.refreshQueue()
		}
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	divider := strings.Repeat("─", max(m.width, 1))
	help := mutedStyle.Render("↑/↓ select • pgup/pgdn scroll • w wrap • r refresh • q quit")
	return strings.Join([]string{m.table.View(), divider, m.vp.View(), help}, "\n")
}
