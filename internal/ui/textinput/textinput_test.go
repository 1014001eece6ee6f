package textinput

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testContext = "test-ctx"

func newTestInput(title, initialText string, context any) *Model {
	m := New()
	m.Start(title, initialText, context, 80, 24)
	return &m
}

func typeKeys(t *testing.T, m *Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

func pressEnter(t *testing.T, m *Model) ResultMsg {
	t.Helper()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	result, ok := msg.(ResultMsg)
	require.True(t, ok, "expected ResultMsg, got %T", msg)
	return result
}

func pressEscape(t *testing.T, m *Model) ResultMsg {
	t.Helper()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	require.NotNil(t, cmd)
	msg := cmd()
	result, ok := msg.(ResultMsg)
	require.True(t, ok, "expected ResultMsg, got %T", msg)
	return result
}

func TestTextInput_TypeCharacters(t *testing.T) {
	m := newTestInput("Name", "", nil)

	typeKeys(t, m, "h", "e", "l", "l", "o")
	result := pressEnter(t, m)

	assert.Equal(t, "hello", result.Text)
	assert.False(t, result.Canceled)
}

func TestTextInput_InitialText(t *testing.T) {
	m := newTestInput("Edit", "initial", nil)

	result := pressEnter(t, m)

	assert.Equal(t, "initial", result.Text)
}

func TestTextInput_AppendToInitialText(t *testing.T) {
	m := newTestInput("Edit", "hello", nil)

	typeKeys(t, m, " ", "w", "o", "r", "l", "d")
	result := pressEnter(t, m)

	assert.Equal(t, "hello world", result.Text)
}

func TestTextInput_Backspace(t *testing.T) {
	m := newTestInput("Edit", "hello", nil)

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	result := pressEnter(t, m)

	assert.Equal(t, "hel", result.Text)
}

func TestTextInput_BackspaceOnEmpty(t *testing.T) {
	m := newTestInput("Name", "", nil)

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	result := pressEnter(t, m)

	assert.Empty(t, result.Text)
}

func TestTextInput_Cancel(t *testing.T) {
	m := newTestInput("Name", "typed", testContext)

	result := pressEscape(t, m)

	assert.True(t, result.Canceled)
	assert.Equal(t, testContext, result.Context)
}

func TestTextInput_ContextPassthrough(t *testing.T) {
	m := newTestInput("Title", "", testContext)

	typeKeys(t, m, "x")
	result := pressEnter(t, m)

	assert.Equal(t, testContext, result.Context)
}

func TestTextInput_View(t *testing.T) {
	m := newTestInput("Enter Name", "", nil)

	view := m.View()
	assert.Contains(t, view, "Enter Name")
	assert.Contains(t, view, ">")
	assert.Contains(t, view, "Enter: confirm")
}

func TestTextInput_ViewShowsText(t *testing.T) {
	m := newTestInput("Name", "", nil)

	typeKeys(t, m, "t", "e", "s", "t")

	assert.Contains(t, m.View(), "test")
}

func TestTextInput_ViewShowsInitialText(t *testing.T) {
	m := newTestInput("Edit", "preset", nil)

	assert.Contains(t, m.View(), "preset")
}

func TestTextInput_EmptyViewWhenNoSize(t *testing.T) {
	m := New()
	m.Start("Title", "", nil, 0, 0)

	assert.Empty(t, m.View())
}

func TestTextInput_Reset(t *testing.T) {
	m := New()
	m.Start("Title", "text", "context", 80, 24)

	m.Reset()

	assert.NotContains(t, m.View(), "Title")
}

func TestTextInput_IgnoresControlCharacters(t *testing.T) {
	m := newTestInput("Name", "", nil)

	typeKeys(t, m, "a")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeKeys(t, m, "b")
	result := pressEnter(t, m)

	assert.Equal(t, "ab", result.Text)
}
