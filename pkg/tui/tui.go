// Package tui provides a terminal user interface for browsing projects
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/dspforge/dspforge/pkg/preset"
	"github.com/dspforge/dspforge/pkg/project"
)

var (
	// Primary colors - amber console scheme
	amber      = lipgloss.Color("#FFB000")
	paleYellow = lipgloss.Color("#FFE28A")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(amber).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(amber).
			Bold(true).
			PaddingLeft(2)

	detailStyle = lipgloss.NewStyle().
			Foreground(paleYellow).
			PaddingLeft(4)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(amber).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateLoading
	StateBrowse
	StateError
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
}

var menuItems = []MenuItem{
	{Title: "Open Project", Description: "Browse a saved project's groups and samples"},
	{Title: "Exit", Description: "Exit the application"},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	proj         *project.Project
	rows         []row
	rowIndex     int
	err          error
	width        int
	height       int
	log          zerolog.Logger
}

// row is one line in the browse list, either a group header or a sample.
type row struct {
	group  *preset.Group
	sample *preset.Sample
}

// projectLoadedMsg signals load completion
type projectLoadedMsg struct {
	proj *project.Project
	err  error
}

// New creates a new TUI model
func New(log zerolog.Logger) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".dsproj", ".json"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(amber)

	return Model{
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
		log:        log,
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle file picker state first - it needs to receive all messages
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateLoading
			return m, tea.Batch(m.spinner.Tick, m.loadProject())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.Height = msg.Height - 10
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateBrowse:
			return m.updateBrowse(msg)
		case StateError:
			return m.updateError(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case projectLoadedMsg:
		if msg.err != nil {
			m.state = StateError
			m.err = msg.err
			return m, nil
		}
		m.proj = msg.proj
		m.rows = buildRows(msg.proj)
		m.rowIndex = 0
		m.state = StateBrowse
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		if m.menuIndex == len(menuItems)-1 {
			return m, tea.Quit
		}
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.rowIndex > 0 {
			m.rowIndex--
		}
	case "down", "j":
		if m.rowIndex < len(m.rows)-1 {
			m.rowIndex++
		}
	case "esc":
		m.state = StateMenu
		m.proj = nil
		m.rows = nil
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateError(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) loadProject() tea.Cmd {
	path := m.selectedFile
	log := m.log
	return func() tea.Msg {
		p, err := project.Load(path, log)
		return projectLoadedMsg{proj: p, err: err}
	}
}

// buildRows flattens the document into group headers followed by their
// samples, with ungrouped samples at the end.
func buildRows(p *project.Project) []row {
	var rows []row
	for _, g := range p.Doc.Preset.Groups {
		rows = append(rows, row{group: g})
		for _, s := range g.Samples {
			rows = append(rows, row{sample: s})
		}
	}
	var loose []row
	for _, s := range p.Doc.Samples() {
		if p.Doc.GroupOf(s) == nil {
			loose = append(loose, row{sample: s})
		}
	}
	if len(loose) > 0 {
		rows = append(rows, row{group: &preset.Group{Name: "(ungrouped)"}})
		rows = append(rows, loose...)
	}
	return rows
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateLoading:
		s.WriteString(m.viewLoading())
	case StateBrowse:
		s.WriteString(m.viewBrowse())
	case StateError:
		s.WriteString(m.viewError())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" MAIN MENU "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(detailStyle.Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT PROJECT FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewLoading() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" LOADING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Loading %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))

	return boxStyle.Render(s.String())
}

func (m Model) viewBrowse() string {
	var s strings.Builder

	name := m.proj.Doc.Preset.Name
	if name == "" {
		name = filepath.Base(m.selectedFile)
	}
	s.WriteString(titleStyle.Render(fmt.Sprintf(" %s ", strings.ToUpper(name))))
	s.WriteString("\n\n")

	if len(m.rows) == 0 {
		s.WriteString(menuStyle.Render("  (empty project)"))
		s.WriteString("\n")
	}

	for i, r := range m.rows {
		line := ""
		if r.group != nil {
			line = fmt.Sprintf("%s  [%s, %d samples]", r.group.Name, r.group.SeqMode, len(r.group.Samples))
		} else {
			line = fmt.Sprintf("  %s  root %s  keys %s-%s",
				r.sample.FileName(),
				preset.FormatNote(r.sample.RootNote),
				preset.FormatNote(r.sample.LowNote),
				preset.FormatNote(r.sample.HighNote))
		}
		if i == m.rowIndex {
			s.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			s.WriteString(menuStyle.Render("  " + line))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return boxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" ERROR "))
	s.WriteString("\n\n")
	s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Failed to open project: %s", m.err.Error())))
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
   ____  ____  ____  _____ ___  ____   ____ _____
  |  _ \/ ___||  _ \|  ___/ _ \|  _ \ / ___| ____|
  | | | \___ \| |_) | |_ | | | | |_) | |  _|  _|
  | |_| |___) |  __/|  _|| |_| |  _ <| |_| | |___
  |____/|____/|_|   |_|   \___/|_| \_\\____|_____|
`
	return lipgloss.NewStyle().Foreground(amber).Render(logo)
}

// Run starts the TUI application
func Run(log zerolog.Logger) error {
	p := tea.NewProgram(New(log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
