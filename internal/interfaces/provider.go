package interfaces

import "context"

// Provider is the interface for chat backends.
// Implementations include the echo and mock providers in internal/models.
type Provider interface {
	// Name returns the provider identifier (e.g., "echo", "mock").
	Name() string

	// Chat sends a chat request and returns the response. A nil response
	// with a nil error is read as an empty reply.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
