// Package interfaces defines the message types and the provider contract
// shared by the chat session, the REPL and the provider implementations.
package interfaces

// Role identifies the author of a ChatMessage.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the input to a provider. Messages always carries the full
// transcript; providers never receive deltas.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse is the output from a provider.
type ChatResponse struct {
	Text string `json:"text"`
}

// LastUserMessage returns the content of the most recent user message in
// msgs, or "" when there is none.
func LastUserMessage(msgs []ChatMessage) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}
