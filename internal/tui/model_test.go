package tui

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/exonizer/internal/model/form"
	"github.com/zhouzirui/exonizer/internal/model/humanize"
)

type fixedHumanizer struct {
	result humanize.Result
	calls  int
}

func (f *fixedHumanizer) Humanize(_ context.Context, _ string) humanize.Result {
	f.calls++
	return f.result
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updated.(Model)
}

func press(t *testing.T, m Model, key tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(tea.KeyMsg{Type: key})
	return updated.(Model), cmd
}

func resolve(t *testing.T, m Model, result humanize.Result) Model {
	t.Helper()
	updated, _ := m.Update(resultMsg{result: result})
	return updated.(Model)
}

func TestTypingUpdatesState(t *testing.T) {
	m := New(context.Background(), &fixedHumanizer{})
	m = typeText(t, m, "Hello world")

	assert.Equal(t, "Hello world", m.State().InputText)
	assert.Contains(t, m.View(), "239 characters remaining")
}

func TestTypingPastLimitIsDropped(t *testing.T) {
	m := New(context.Background(), &fixedHumanizer{})
	full := strings.Repeat("a", form.CharacterLimit)
	m = typeText(t, m, full)
	require.Equal(t, full, m.State().InputText)

	m = typeText(t, m, "b")
	assert.Equal(t, full, m.State().InputText)
	assert.Equal(t, full, m.textarea.Value())
	assert.Contains(t, m.View(), "Character limit reached")
}

func TestRejectedKeystrokeKeepsCursor(t *testing.T) {
	m := New(context.Background(), &fixedHumanizer{})
	full := strings.Repeat("a", form.CharacterLimit)
	m = typeText(t, m, full)

	for i := 0; i < 3; i++ {
		m, _ = press(t, m, tea.KeyLeft)
	}
	_, before := m.cursor()
	require.Equal(t, form.CharacterLimit-3, before)

	m = typeText(t, m, "b")
	assert.Equal(t, full, m.textarea.Value())

	row, col := m.cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, before, col)
}

func TestRejectedKeystrokeKeepsCursorOnLaterLine(t *testing.T) {
	m := New(context.Background(), &fixedHumanizer{})
	full := strings.Repeat("a", 100) + "\n" + strings.Repeat("c", form.CharacterLimit-101)
	m.textarea.SetValue(full)
	require.True(t, m.state.Input(full))

	m.textarea.MoveToBegin()
	for i := 0; m.textarea.Line() < 1 && i < 10; i++ {
		m.textarea.CursorDown()
	}
	require.Equal(t, 1, m.textarea.Line())
	m.textarea.SetCursor(5)

	m = typeText(t, m, "b")
	assert.Equal(t, full, m.textarea.Value())

	row, col := m.cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 5, col)
}

func TestSubmitWithEmptyInputDoesNothing(t *testing.T) {
	h := &fixedHumanizer{}
	m := New(context.Background(), h)

	m, cmd := press(t, m, tea.KeyCtrlS)
	assert.Nil(t, cmd)
	assert.False(t, m.State().IsLoading)
	assert.Equal(t, 0, h.calls)
}

func TestSubmitSuccessAndCopy(t *testing.T) {
	var clip string
	h := &fixedHumanizer{result: humanize.Succeeded("Hi there")}
	m := New(context.Background(), h, WithClipboard(func(s string) error {
		clip = s
		return nil
	}))
	m = typeText(t, m, "Hello world")

	m, cmd := press(t, m, tea.KeyCtrlS)
	require.NotNil(t, cmd)
	assert.True(t, m.State().IsLoading)

	// A second submit while loading is ignored.
	_, again := press(t, m, tea.KeyCtrlS)
	assert.Nil(t, again)

	m = resolve(t, m, humanize.Succeeded("Hi there"))
	assert.False(t, m.State().IsLoading)
	assert.Equal(t, "Hi there", m.State().OutputText)
	assert.Contains(t, m.View(), "8 characters")

	m, _ = press(t, m, tea.KeyCtrlY)
	assert.Equal(t, "Hi there", clip)
}

func TestSubmitHTTPErrorShowsBanner(t *testing.T) {
	m := New(context.Background(), &fixedHumanizer{})
	m = typeText(t, m, "Hello world")
	m, _ = press(t, m, tea.KeyCtrlS)

	m = resolve(t, m, humanize.Failed(http.StatusInternalServerError))
	assert.True(t, m.State().HasError)
	assert.False(t, m.State().IsLoading)
	assert.Contains(t, m.View(), "Something went wrong")
}

func TestTransportErrorAlertIsDismissedByAnyKey(t *testing.T) {
	m := New(context.Background(), &fixedHumanizer{})
	m = typeText(t, m, "Hello world")
	m, _ = press(t, m, tea.KeyCtrlS)

	m = resolve(t, m, humanize.Unreachable(errors.New("connection refused")))
	assert.False(t, m.State().HasError)
	assert.Contains(t, m.View(), form.TransportAlertMessage)

	m = typeText(t, m, "x")
	assert.NotContains(t, m.View(), form.TransportAlertMessage)
	assert.Equal(t, "Hello world", m.State().InputText)
}
