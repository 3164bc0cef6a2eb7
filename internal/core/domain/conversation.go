package domain

import "time"

// DefaultConversationWindow is the default number of prior user turns kept.
const DefaultConversationWindow = 4

// ConversationTurn is one prior user query in a session.
// Only user turns are retained; assistant output is not fed back as history.
type ConversationTurn struct {
	// Text is the user query text.
	Text string

	// At is when the turn was appended.
	At time.Time
}

// ConversationWindow holds a bounded FIFO of the most recent user turns for
// one query session. It is owned by exactly one session and must not be
// shared across concurrent sessions, so it carries no locking.
type ConversationWindow struct {
	capacity int
	turns    []ConversationTurn
}

// NewConversationWindow creates a window keeping at most capacity turns.
// A non-positive capacity falls back to DefaultConversationWindow.
func NewConversationWindow(capacity int) *ConversationWindow {
	if capacity <= 0 {
		capacity = DefaultConversationWindow
	}
	return &ConversationWindow{capacity: capacity}
}

// Append records a user turn, evicting the oldest once capacity is exceeded.
func (w *ConversationWindow) Append(turn ConversationTurn) {
	w.turns = append(w.turns, turn)
	if len(w.turns) > w.capacity {
		w.turns = w.turns[len(w.turns)-w.capacity:]
	}
}

// AppendText records a user turn with the current time.
func (w *ConversationWindow) AppendText(text string) {
	w.Append(ConversationTurn{Text: text, At: time.Now()})
}

// Snapshot returns a copy of the retained turns in chronological order.
func (w *ConversationWindow) Snapshot() []ConversationTurn {
	out := make([]ConversationTurn, len(w.turns))
	copy(out, w.turns)
	return out
}

// Len returns the number of retained turns.
func (w *ConversationWindow) Len() int {
	return len(w.turns)
}

// Capacity returns the maximum number of retained turns.
func (w *ConversationWindow) Capacity() int {
	return w.capacity
}
