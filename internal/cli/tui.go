package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/survey"
)

// Form styles
var (
	formLabelStyle   = lipgloss.NewStyle().Foreground(colorGray)
	formFocusedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	formBoxStyle     = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1).
				Width(60)
	formActiveBoxStyle = formBoxStyle.BorderForeground(colorCyan)
	listDimStyle       = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// CollectModel - Interactive response form
// =============================================================================

const (
	fieldQuestion = iota
	fieldText
)

// CollectModel is the bubbletea model for entering a survey response.
type CollectModel struct {
	Question  string
	Text      string
	Focus     int
	Submitted bool
	Cancelled bool
	Err       string
}

// NewCollectModel creates a form. A preset question starts the cursor in the
// response field.
func NewCollectModel(question string) CollectModel {
	m := CollectModel{Question: question}
	if question != "" {
		m.Focus = fieldText
	}
	return m
}

func (m CollectModel) Init() tea.Cmd {
	return nil
}

func (m CollectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Cancelled = true
		return m, tea.Quit
	case tea.KeyCtrlS, tea.KeyCtrlD:
		if err := errors.ValidateResponseText(strings.TrimSpace(m.Text)); err != nil {
			m.Err = errors.UserMessage(err)
			return m, nil
		}
		if err := errors.ValidateQuestion(strings.TrimSpace(m.Question)); err != nil {
			m.Err = errors.UserMessage(err)
			return m, nil
		}
		m.Submitted = true
		return m, tea.Quit
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		m.Focus = 1 - m.Focus
	case tea.KeyEnter:
		if m.Focus == fieldQuestion {
			m.Focus = fieldText
		} else {
			m.Text += "\n"
		}
	case tea.KeyBackspace:
		m.edit(func(s string) string {
			_, size := utf8.DecodeLastRuneInString(s)
			return s[:len(s)-size]
		})
	case tea.KeySpace:
		m.edit(func(s string) string { return s + " " })
	case tea.KeyRunes:
		m.edit(func(s string) string { return s + string(key.Runes) })
	}
	m.Err = ""
	return m, nil
}

// edit applies fn to the focused field.
func (m *CollectModel) edit(fn func(string) string) {
	if m.Focus == fieldQuestion {
		m.Question = fn(m.Question)
		return
	}
	m.Text = fn(m.Text)
}

func (m CollectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("New Survey Response"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("tab switch field  ctrl+s save  esc cancel"))
	b.WriteString("\n\n")

	b.WriteString(m.field("Question (optional)", m.Question, fieldQuestion))
	b.WriteString("\n")
	b.WriteString(m.field("Your response", m.Text, fieldText))
	b.WriteString("\n")

	count := fmt.Sprintf("%d/%d characters", utf8.RuneCountInString(m.Text), errors.MaxResponseRunes)
	b.WriteString(listDimStyle.Render("  " + count))
	if m.Err != "" {
		b.WriteString("\n")
		b.WriteString(styleIconError.Render(iconError) + " " + m.Err)
	}
	b.WriteString("\n")

	return b.String()
}

func (m CollectModel) field(label, value string, field int) string {
	labelStyle, box := formLabelStyle, formBoxStyle
	if m.Focus == field {
		labelStyle, box = formFocusedStyle, formActiveBoxStyle
		value += "▌"
	}
	return labelStyle.Render(label) + "\n" + box.Render(value) + "\n"
}

// =============================================================================
// Responses Table
// =============================================================================

// responsesTable renders responses as a lipgloss table, newest last. Long
// bodies are cut to width runes.
func responsesTable(responses []survey.Response, width int) string {
	rows := make([][]string, 0, len(responses))
	for i, r := range responses {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			r.CreatedAt.Format("2006-01-02 15:04"),
			truncate(r.Question, 30),
			truncate(strings.Join(strings.Fields(r.Text), " "), width),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Submitted", "Question", "Response").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0, 1:
				return base.Foreground(colorDim)
			case 2:
				return base.Foreground(colorGray)
			}
			return base.Foreground(colorWhite)
		})

	return t.Render()
}

// truncate cuts s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
