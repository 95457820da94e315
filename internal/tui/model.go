package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zhouzirui/exonizer/internal/model/form"
	"github.com/zhouzirui/exonizer/internal/model/humanize"
	humanizeService "github.com/zhouzirui/exonizer/internal/service/humanize"
)

// resultMsg delivers the outcome of the in-flight request.
type resultMsg struct {
	result humanize.Result
}

// Model is the terminal rendition of the form.
type Model struct {
	ctx       context.Context
	humanizer humanizeService.Humanizer
	copyText  func(string) error

	state    form.State
	alert    string
	textarea textarea.Model
	spinner  spinner.Model
	width    int
}

// Option customizes a Model.
type Option func(*Model)

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

// New builds the model. ctx bounds the outbound requests to the program's
// lifetime.
func New(ctx context.Context, h humanizeService.Humanizer, opts ...Option) Model {
	ta := textarea.New()
	ta.Placeholder = "Paste your AI-generated text here..."
	ta.Focus()
	// The form enforces the limit itself so over-long pastes are dropped whole.
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(8)
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	m := Model{
		ctx:       ctx,
		humanizer: h,
		copyText:  clipboard.WriteAll,
		textarea:  ta,
		spinner:   sp,
		width:     80,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// State returns the current form state.
func (m Model) State() form.State {
	return m.state
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles one event.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		// A pending alert blocks until dismissed.
		if m.alert != "" {
			m.alert = ""
			return m, nil
		}

		switch msg.Type {
		case tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlS:
			return m.submit()
		case tea.KeyCtrlY:
			_ = m.copyText(m.state.Copy())
			return m, nil
		}
		return m.updateInput(msg)

	case resultMsg:
		m.state.Resolve(msg.result)
		m.alert = m.state.TakeAlert()
		return m, nil

	case spinner.TickMsg:
		if !m.state.IsLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 8 {
			m.textarea.SetWidth(msg.Width - 4)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// updateInput feeds a keystroke to the text box and reverts it when the form
// rejects the resulting text.
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	row, col := m.cursor()

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)

	if candidate := m.textarea.Value(); candidate != m.state.InputText {
		if !m.state.Input(candidate) {
			m.textarea.SetValue(m.state.InputText)
			m.setCursor(row, col)
		}
	}
	return m, cmd
}

// cursor returns the logical row and column of the text box cursor.
func (m Model) cursor() (row, col int) {
	info := m.textarea.LineInfo()
	return m.textarea.Line(), info.StartColumn + info.ColumnOffset
}

// setCursor moves the cursor back to a position saved by cursor. SetValue
// leaves it at the end of the text.
func (m *Model) setCursor(row, col int) {
	m.textarea.MoveToBegin()
	for i := 0; m.textarea.Line() < row && i <= len(m.state.InputText); i++ {
		m.textarea.CursorDown()
	}
	m.textarea.SetCursor(col)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text, err := m.state.BeginSubmit()
	if err != nil {
		return m, nil
	}

	ctx, h := m.ctx, m.humanizer
	request := func() tea.Msg {
		return resultMsg{result: h.Humanize(ctx, text)}
	}
	return m, tea.Batch(m.spinner.Tick, request)
}

// View renders the form.
func (m Model) View() string {
	view := m.state.View()
	var b strings.Builder

	b.WriteString(TitleStyle.Render("⚡ Exonizer"))
	b.WriteString("\n")

	counter := CounterStyle
	if view.Remaining <= form.NearLimitThreshold {
		counter = CounterNearStyle
	}
	b.WriteString(LabelStyle.Render("AI Generated Text") + "  " +
		counter.Render(fmt.Sprintf("%d characters remaining", view.Remaining)))
	b.WriteString("\n")

	ta := m.textarea
	if view.AtLimit {
		ta.FocusedStyle.Base = ta.FocusedStyle.Base.BorderForeground(ErrorColor)
	}
	b.WriteString(ta.View())
	b.WriteString("\n")

	if view.NearLimit {
		b.WriteString(WarnBannerStyle.Render("Approaching character limit") + "\n")
	}
	if view.AtLimit {
		b.WriteString(ErrorBannerStyle.Render("Character limit reached") + "\n")
	}
	if m.state.HasError {
		b.WriteString(ErrorBannerStyle.Render("Something went wrong, please try again later.") + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.state.IsLoading:
		b.WriteString(ButtonStyle.Render(m.spinner.View()))
	case view.CanSubmit:
		b.WriteString(ButtonStyle.Render("Humanize Text"))
	default:
		b.WriteString(ButtonDisabledStyle.Render("Humanize Text"))
	}
	b.WriteString("\n")

	if m.state.OutputText != "" {
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render("Humanized Text") + "  " +
			CounterStyle.Render(fmt.Sprintf("%d characters", view.OutputLength)))
		b.WriteString("\n")
		width := m.width - 4
		if width < 20 {
			width = 20
		}
		b.WriteString(OutputStyle.Width(width).Render(m.state.OutputText))
		b.WriteString("\n")
	}

	if m.alert != "" {
		b.WriteString("\n")
		b.WriteString(AlertStyle.Render(m.alert + "\n\npress any key"))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("ctrl+s humanize • ctrl+y copy • esc quit"))
	return b.String()
}
