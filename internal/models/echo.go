package models

import (
	"context"
	"fmt"

	"github.com/clawinfra/parley/internal/config"
	"github.com/clawinfra/parley/internal/interfaces"
)

// EchoProvider answers every request by repeating the latest user message
type EchoProvider struct{}

// NewEchoProvider is the Factory for "echo:" model ids
func NewEchoProvider(_ string, _ config.ProviderConfig) (interfaces.Provider, error) {
	return &EchoProvider{}, nil
}

func (p *EchoProvider) Name() string { return "echo" }

func (p *EchoProvider) Chat(ctx context.Context, req interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &interfaces.ChatResponse{
		Text: fmt.Sprintf("Echo (model=%s): %s", req.Model, interfaces.LastUserMessage(req.Messages)),
	}, nil
}
