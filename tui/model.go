// Copyright 2025 The chatting-with-docs authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tui is the interactive chat interface over a collection.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/douglasmakey/chatting-with-docs/rag"
)

// Asker is the TUI-facing subset of the retrieval QA service.
type Asker interface {
	Ask(ctx context.Context, collection, question string) (*rag.Answer, error)
}

// exchange is one question with its answer, once it arrives.
type exchange struct {
	question string
	answer   *rag.Answer
	err      error
}

type answerMsg struct {
	answer *rag.Answer
	err    error
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	service    Asker
	collection string
	input      textinput.Model
	viewport   viewport.Model
	history    []exchange
	waiting    bool
	ready      bool
}

// New creates a chat model bound to one collection.
func New(service Asker, collection string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, collection: collection, input: ti, viewport: vp}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ih := inputBoxStyle.GetFrameSize()
		_, hh := historyBoxStyle.GetFrameSize()
		reserved := 2 + ih + hh // header + status
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderHistory())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			question := strings.TrimSpace(m.input.Value())
			if question != "" && !m.waiting {
				m.history = append(m.history, exchange{question: question})
				m.waiting = true
				m.input.Reset()
				m.viewport.SetContent(m.renderHistory())
				m.viewport.GotoBottom()
				return m, m.ask(question)
			}
		case "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "down":
			m.viewport.ScrollDown(1)
			return m, nil
		}

	case answerMsg:
		m.waiting = false
		if len(m.history) > 0 {
			last := &m.history[len(m.history)-1]
			last.answer = msg.answer
			last.err = msg.err
		}
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs the question asynchronously so the UI stays responsive.
func (m Model) ask(question string) tea.Cmd {
	service, collection := m.service, m.collection
	return func() tea.Msg {
		answer, err := service.Ask(context.Background(), collection, question)
		return answerMsg{answer: answer, err: err}
	}
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Chatting with docs · " + m.collection)
	history := historyBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.statusLine())
	return header + "\n" + history + "\n" + input + "\n" + status
}

func (m Model) statusLine() string {
	if m.waiting {
		return "Thinking..."
	}
	return "Enter to ask, up/down to scroll, ctrl+c to quit."
}

func (m Model) renderHistory() string {
	if len(m.history) == 0 {
		return "Ask a question about this collection."
	}

	var b strings.Builder
	for i, ex := range m.history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + ex.question))
		b.WriteString("\n")
		switch {
		case ex.err != nil:
			b.WriteString(errorStyle.Render("Error: " + ex.err.Error()))
		case ex.answer == nil:
			b.WriteString("...")
		default:
			b.WriteString(ex.answer.Text)
			if len(ex.answer.Sources) > 0 {
				b.WriteString("\n")
				b.WriteString(sourceStyle.Render(renderSources(ex.answer.Sources)))
			}
		}
	}
	return b.String()
}

func renderSources(sources []rag.Source) string {
	lines := make([]string, 0, len(sources)+1)
	lines = append(lines, "Sources:")
	for _, s := range sources {
		line := fmt.Sprintf("  - %s (score %.3f)", s.Path, s.Score)
		if s.Page > 0 {
			line = fmt.Sprintf("  - %s p.%d (score %.3f)", s.Path, s.Page, s.Score)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	historyBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	questionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sourceStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)
