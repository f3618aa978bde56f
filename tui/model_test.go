package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/douglasmakey/chatting-with-docs/rag"
)

type stubAsker struct {
	answer *rag.Answer
	err    error
}

func (s *stubAsker) Ask(_ context.Context, _, _ string) (*rag.Answer, error) {
	return s.answer, s.err
}

func TestEnterSubmitsQuestion(t *testing.T) {
	asker := &stubAsker{answer: &rag.Answer{
		Text:    "badgers eat roots",
		Sources: []rag.Source{{Path: "docs/badgers.txt", Page: 2, Score: 0.91}},
	}}
	m := New(asker, "docs")
	m.input.SetValue("what do badgers eat?")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model := updated.(Model)
	require.NotNil(t, cmd)
	assert.True(t, model.waiting)
	require.Len(t, model.history, 1)
	assert.Equal(t, "what do badgers eat?", model.history[0].question)

	// Deliver the async answer.
	updated, _ = model.Update(cmd())
	model = updated.(Model)
	assert.False(t, model.waiting)

	rendered := model.renderHistory()
	assert.Contains(t, rendered, "badgers eat roots")
	assert.Contains(t, rendered, "docs/badgers.txt")
	assert.Contains(t, rendered, "p.2")
}

func TestEnterIgnoredWhileWaiting(t *testing.T) {
	m := New(&stubAsker{}, "docs")
	m.waiting = true
	m.input.SetValue("another question")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model := updated.(Model)
	assert.Nil(t, cmd)
	assert.Empty(t, model.history)
}

func TestAnswerErrorShownInHistory(t *testing.T) {
	asker := &stubAsker{err: assert.AnError}
	m := New(asker, "docs")
	m.input.SetValue("hello?")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model := updated.(Model)
	require.NotNil(t, cmd)

	updated, _ = model.Update(cmd())
	model = updated.(Model)
	assert.Contains(t, model.renderHistory(), "Error:")
}

func TestCtrlCQuits(t *testing.T) {
	m := New(&stubAsker{}, "docs")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
