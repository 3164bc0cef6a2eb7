// Package tui provides the interactive chat interface for ragpipe.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
)

// ErrMissingRagService is returned when the app is built without a rag service.
var ErrMissingRagService = errors.New("tui: rag service is required")

// exchange is one completed question and answer pair in the transcript.
type exchange struct {
	question string
	answer   string
	chunks   int
	failed   bool
}

// answerReceived carries a completed query response into the update loop.
type answerReceived struct {
	question string
	resp     *domain.RagResponse
}

// answerFailed carries a failed query into the update loop.
type answerFailed struct {
	question string
	err      error
}

// App is the chat application model following the Elm architecture.
// It owns one conversation session; prior queries within the window are
// fed back into each new query as history.
type App struct {
	rag        driving.RagService
	window     *domain.ConversationWindow
	collection string
	ctx        context.Context

	input    textinput.Model
	viewport viewport.Model

	transcript []exchange
	waiting    bool
	status     string
	width      int
	height     int
	ready      bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a chat application for one conversation session.
// windowSize is the number of prior user turns kept as history; a
// non-positive value falls back to the default.
func NewApp(rag driving.RagService, collection string, windowSize int) (*App, error) {
	if rag == nil {
		return nil, ErrMissingRagService
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.CharLimit = 0
	ti.Focus()

	return &App{
		rag:        rag,
		window:     domain.NewConversationWindow(windowSize),
		collection: collection,
		ctx:        context.Background(),
		input:      ti,
		viewport:   viewport.New(0, 0),
		status:     "Ready. Type to ask.",
	}, nil
}

// WithContext sets the context used for query calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init initialises the model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key, window and query-completion events.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.resize()
		a.viewport.SetContent(a.renderTranscript())
		a.viewport.GotoBottom()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case answerReceived:
		a.waiting = false
		a.transcript = append(a.transcript, exchange{
			question: msg.question,
			answer:   msg.resp.Text,
			chunks:   len(msg.resp.Retrieval.Chunks),
		})
		a.status = fmt.Sprintf("Answered with %d context chunks (%s)", len(msg.resp.Retrieval.Chunks), msg.resp.Model)
		a.viewport.SetContent(a.renderTranscript())
		a.viewport.GotoBottom()
		return a, nil

	case answerFailed:
		a.waiting = false
		a.transcript = append(a.transcript, exchange{
			question: msg.question,
			answer:   msg.err.Error(),
			failed:   true,
		})
		a.status = "Query failed. Ask again or press Ctrl+C to quit."
		a.viewport.SetContent(a.renderTranscript())
		a.viewport.GotoBottom()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		return a, tea.Quit
	case tea.KeyEnter:
		question := strings.TrimSpace(a.input.Value())
		if question == "" || a.waiting {
			return a, nil
		}
		a.input.SetValue("")
		a.waiting = true
		a.status = "Thinking..."
		cmd := a.ask(question)
		return a, cmd
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	default:
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// ask snapshots the conversation history, records the new turn, and runs
// the query asynchronously. The snapshot is taken before recording so the
// current question is not its own history.
func (a *App) ask(question string) tea.Cmd {
	prior := a.window.Snapshot()
	a.window.AppendText(question)

	ctx := a.ctx
	rag := a.rag
	req := domain.QueryRequest{
		Query:          question,
		CollectionName: a.collection,
		PriorTurns:     prior,
	}

	return func() tea.Msg {
		resp, err := rag.Query(ctx, req)
		if err != nil {
			return answerFailed{question: question, err: err}
		}
		return answerReceived{question: question, resp: resp}
	}
}

func (a *App) resize() {
	_, frameH := transcriptStyle.GetFrameSize()
	_, inputH := inputBoxStyle.GetFrameSize()
	reserved := 2 + inputH + frameH + 1 // header, input box, transcript frame, status
	vh := a.height - reserved
	if vh < 3 {
		vh = 3
	}
	vw := a.width - 4
	if vw < 20 {
		vw = 20
	}
	a.viewport.Width = vw
	a.viewport.Height = vh
}

// View renders the chat layout.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	header := titleStyle.Render("ragpipe chat")
	if a.collection != "" {
		header += mutedStyle.Render("  [" + a.collection + "]")
	}
	transcript := transcriptStyle.Width(a.viewport.Width + 2).Render(a.viewport.View())
	input := inputBoxStyle.Width(a.viewport.Width + 2).Render(a.input.View())
	status := statusStyle.Render(a.status)

	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (a *App) renderTranscript() string {
	if len(a.transcript) == 0 {
		return mutedStyle.Render("No questions yet.")
	}

	var b strings.Builder
	for i, ex := range a.transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + ex.question))
		b.WriteString("\n")
		if ex.failed {
			b.WriteString(errorStyle.Render("Error: " + ex.answer))
			continue
		}
		b.WriteString(ex.answer)
		if ex.chunks == 0 {
			b.WriteString("\n")
			b.WriteString(mutedStyle.Render("(no matching context was found)"))
		}
	}
	return b.String()
}
