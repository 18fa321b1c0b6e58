// Package tui is a terminal version of the drink picker dialog: one checkbox
// per preference, a generate action and a result view with retry.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/temcen/teapick/internal/services"
	"github.com/temcen/teapick/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	drinkStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F2C94C"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EB5757"))
)

type screen int

const (
	screenChoose screen = iota
	screenResult
)

type resultMsg struct {
	rec *models.Recommendation
}

type errMsg struct {
	err error
}

// Model is the bubbletea model of the picker.
type Model struct {
	service services.RecommendationServiceInterface
	vocab   []models.TagInfo
	checked map[models.Tag]bool

	cursor    int
	screen    screen
	requested models.TagSet
	result    *models.Recommendation
	err       error
}

func New(service services.RecommendationServiceInterface) Model {
	return Model{
		service: service,
		vocab:   service.Vocabulary(),
		checked: make(map[models.Tag]bool),
		screen:  screenChoose,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// generateRow and quitRow follow the checkbox rows.
func (m Model) generateRow() int { return len(m.vocab) }
func (m Model) quitRow() int { return len(m.vocab) + 1 }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenResult {
			return m.updateResult(msg)
		}
		return m.updateChoose(msg)

	case resultMsg:
		m.result = msg.rec
		m.err = nil
		m.screen = screenResult
		return m, nil

	case errMsg:
		m.err = msg.err
		m.result = nil
		m.screen = screenResult
		return m, nil
	}

	return m, nil
}

func (m Model) updateChoose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.quitRow() {
			m.cursor++
		}
	case " ", "x":
		m.toggle()
	case "g":
		return m.generate()
	case "enter":
		switch m.cursor {
		case m.generateRow():
			return m.generate()
		case m.quitRow():
			return m, tea.Quit
		default:
			m.toggle()
		}
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r", "enter":
		return m, recommend(m.service, m.requested)
	case "b", "esc":
		m.screen = screenChoose
	}
	return m, nil
}

func (m *Model) toggle() {
	if m.cursor >= len(m.vocab) {
		return
	}
	tag := m.vocab[m.cursor].Tag
	m.checked[tag] = !m.checked[tag]
}

// generate captures the current checkbox state so retry reuses it verbatim.
func (m Model) generate() (tea.Model, tea.Cmd) {
	req := &models.PreferenceRequest{Preferences: make(map[string]bool, len(m.checked))}
	for tag, on := range m.checked {
		req.Preferences[string(tag)] = on
	}
	m.requested = req.Tags()
	return m, recommend(m.service, m.requested)
}

func recommend(service services.RecommendationServiceInterface, requested models.TagSet) tea.Cmd {
	return func() tea.Msg {
		rec, err := service.RecommendTags(context.Background(), requested)
		if err != nil {
			return errMsg{err: err}
		}
		return resultMsg{rec: rec}
	}
}

func (m Model) View() string {
	if m.screen == screenResult {
		return m.viewResult()
	}
	return m.viewChoose()
}

func (m Model) viewChoose() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("What would you like to drink?"))
	b.WriteString("\n\n")

	for i, info := range m.vocab {
		box := "[ ]"
		if m.checked[info.Tag] {
			box = "[x]"
		}
		b.WriteString(m.row(i, fmt.Sprintf("%s %s", box, info.Label)))
	}
	b.WriteString("\n")
	b.WriteString(m.row(m.generateRow(), "Generate"))
	b.WriteString(m.row(m.quitRow(), "Quit"))
	b.WriteString(noteStyle.Render("\nspace: toggle  enter: select  g: generate  q: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) row(i int, text string) string {
	if i == m.cursor {
		return cursorStyle.Render("> "+text) + "\n"
	}
	return "  " + text + "\n"
}

func (m Model) viewResult() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Your drink"))
	b.WriteString("\n\n")

	switch {
	case m.err != nil && errors.Is(m.err, services.ErrEmptyCatalog):
		b.WriteString(errorStyle.Render("No drinks are configured."))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.result != nil:
		b.WriteString(drinkStyle.Render(m.result.Name))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Distance: %s\n", m.result.DistanceLabel))
		b.WriteString(fmt.Sprintf("%s\n", m.result.Note))
		b.WriteString(fmt.Sprintf("Attributes: %s\n", strings.Join(m.result.Attributes, ", ")))
	}

	b.WriteString(noteStyle.Render("\nr: retry  b: back  q: quit"))
	b.WriteString("\n")
	return b.String()
}
