// Package chat holds the conversation state of one chat session and the
// contract for turning a prompt into a provider call.
package chat

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/clawinfra/parley/internal/interfaces"
)

// Session owns an ordered transcript and the model used for the next
// request. A Session is used by one REPL or one one-shot command and is
// discarded at exit.
type Session struct {
	id       string
	provider interfaces.Provider

	// turn serialises Ask: the append, call, append sequence must never
	// interleave with another turn.
	turn sync.Mutex

	mu       sync.Mutex
	model    string
	messages []interfaces.ChatMessage
}

// NewSession creates a session that sends requests to provider using model
func NewSession(provider interfaces.Provider, model string) *Session {
	return &Session{
		id:       uuid.NewString(),
		provider: provider,
		model:    model,
	}
}

// ID returns the session's unique id
func (s *Session) ID() string { return s.id }

// Provider returns the provider backing this session
func (s *Session) Provider() interfaces.Provider { return s.provider }

// SetModel replaces the model used by subsequent Ask calls. The name is
// not validated and a request already in flight keeps its model.
func (s *Session) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
}

// Model returns the current model identifier
func (s *Session) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// History returns a copy of the transcript
func (s *Session) History() []interfaces.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// ClearHistory empties the transcript. The model is unchanged.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Ask appends prompt as a user message, sends the whole transcript to the
// provider and appends the reply as an assistant message.
//
// Provider errors are returned as-is. The user message is kept when the
// provider fails, so the transcript shows the unanswered question.
func (s *Session) Ask(ctx context.Context, prompt string) (string, error) {
	s.turn.Lock()
	defer s.turn.Unlock()

	s.mu.Lock()
	s.messages = append(s.messages, interfaces.ChatMessage{
		Role:    interfaces.RoleUser,
		Content: prompt,
	})
	req := interfaces.ChatRequest{
		Model:    s.model,
		Messages: s.snapshot(),
	}
	s.mu.Unlock()

	resp, err := s.provider.Chat(ctx, req)
	if err != nil {
		return "", err
	}

	var text string
	if resp != nil {
		text = resp.Text
	}

	s.mu.Lock()
	s.messages = append(s.messages, interfaces.ChatMessage{
		Role:    interfaces.RoleAssistant,
		Content: text,
	})
	s.mu.Unlock()

	return text, nil
}

// snapshot copies the transcript; s.mu must be held
func (s *Session) snapshot() []interfaces.ChatMessage {
	out := make([]interfaces.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}
