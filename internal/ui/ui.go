// Package ui is the interactive terminal frontend: a scrollback pane
// for console output, an input line, and a live view of both stacks.
// Input lines go to the console device's input vector; in assembler
// mode they are assembled as Uxntal and loaded as a fresh ROM.
package ui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zboralski/tarsier/internal/asm"
	"github.com/zboralski/tarsier/internal/config"
	"github.com/zboralski/tarsier/internal/devices/console"
	"github.com/zboralski/tarsier/internal/emu"
	"github.com/zboralski/tarsier/internal/ui/colorize"
)

var (
	outputBox = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(colorize.IDABorder)).
			Padding(0, 1)
	stackBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorize.IDAString)).
			Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorize.IDAComment))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorize.IDAAddress))
)

// Model is the bubbletea model for the emulator TUI.
type Model struct {
	e   *emu.Emulator
	out *bytes.Buffer

	vp      viewport.Model
	ti      textinput.Model
	status  string
	asmMode bool // assembler mode toggle
	ready   bool
}

// New builds the TUI around a fresh emulator frame. A non-nil ROM is
// loaded before the first frame renders.
func New(cfg config.Config, romBytes []byte) *Model {
	out := &bytes.Buffer{}
	m := &Model{out: out}

	m.e = emu.New(
		emu.WithStepLimit(cfg.Steps),
		emu.WithConsole(console.WithCallback(func(b byte, stderr bool) {
			out.WriteByte(b)
		})),
	)

	ti := textinput.New()
	ti.Placeholder = "console input"
	ti.Prompt = "> "
	ti.Focus()
	m.ti = ti

	m.status = "ready"
	if romBytes != nil {
		if err := m.e.Load(romBytes); err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("loaded %d byte rom", len(romBytes))
		}
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := msg.Height - 10
		if h < 4 {
			h = 4
		}
		if !m.ready {
			m.vp = viewport.New(msg.Width-4, h)
			m.ready = true
		} else {
			m.vp.Width = msg.Width - 4
			m.vp.Height = h
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.asmMode = !m.asmMode
			if m.asmMode {
				m.ti.Placeholder = "uxntal source"
				m.status = "assembler mode"
			} else {
				m.ti.Placeholder = "console input"
				m.status = "console mode"
			}
			return m, nil
		case tea.KeyEnter:
			m.submit(m.ti.Value())
			m.ti.Reset()
			m.refresh()
			return m, nil
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	cmds = append(cmds, cmd)
	m.vp, cmd = m.vp.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) submit(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if m.asmMode {
		romBytes, err := asm.Assemble(line)
		if err != nil {
			m.status = err.Error()
			return
		}
		if err := m.e.Load(romBytes); err != nil {
			m.status = err.Error()
			return
		}
		m.status = fmt.Sprintf("assembled %d bytes", len(romBytes))
		return
	}
	m.e.Console().InputLine(line)
	m.status = fmt.Sprintf("sent %d bytes", len(line)+1)
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.vp.SetContent(m.out.String())
	m.vp.GotoBottom()
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "starting..."
	}
	header := colorize.Header("▶ tarsier") + " " +
		colorize.Detail("─ uxn console emulator")

	machine := m.e.Machine()
	stacks := stackBox.Render(machine.String())

	help := helpStyle.Render("enter send · tab asm/console · esc quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		outputBox.Render(m.vp.View()),
		m.ti.View(),
		stacks,
		statusStyle.Render(m.status),
		help,
	)
}

// Run starts the TUI event loop.
func Run(cfg config.Config, romBytes []byte) error {
	_, err := tea.NewProgram(New(cfg, romBytes), tea.WithAltScreen()).Run()
	return err
}
