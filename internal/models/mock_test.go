package models

import (
	"context"
	"strings"
	"testing"

	"github.com/clawinfra/parley/internal/config"
	"github.com/clawinfra/parley/internal/interfaces"
)

func askMock(t *testing.T, p interfaces.Provider, prompt string) string {
	t.Helper()
	resp, err := p.Chat(context.Background(), interfaces.ChatRequest{
		Model:    "mock:default",
		Messages: []interfaces.ChatMessage{{Role: interfaces.RoleUser, Content: prompt}},
	})
	if err != nil {
		t.Fatalf("Chat(%q): %v", prompt, err)
	}
	return resp.Text
}

func TestMockProviderKeywords(t *testing.T) {
	tests := []struct {
		prompt string
		expect string
	}{
		{"", emptyPromptReply},
		{"   ", emptyPromptReply},
		{"Hello there", greetingReply},
		{"hey", greetingReply},
		{"How are you today?", howAreYouReply},
		{"please fix my lint errors", fixReply},
		{"there is a BUG", fixReply},
		{"show me an example", functionExampleReply},
		{"example of an http server", serverExampleReply},
	}

	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			p, _ := NewMockProvider("mock:default", config.ProviderConfig{})
			if got := askMock(t, p, tt.prompt); got != tt.expect {
				t.Errorf("prompt %q:\n got: %q\nwant: %q", tt.prompt, got, tt.expect)
			}
		})
	}
}

func TestMockProviderGreetingNeedsWordBoundary(t *testing.T) {
	p, _ := NewMockProvider("mock:default", config.ProviderConfig{})
	if got := askMock(t, p, "history of go"); got == greetingReply {
		t.Error("'history' should not be read as a greeting")
	}
}

func TestMockProviderRotationIsPerInstance(t *testing.T) {
	a, _ := NewMockProvider("mock:default", config.ProviderConfig{})
	b, _ := NewMockProvider("mock:default", config.ProviderConfig{})

	first := askMock(t, a, "tell me something")
	second := askMock(t, a, "tell me something")
	if first == second {
		t.Errorf("expected rotation on the same instance, got %q twice", first)
	}
	if first != defaultReplies[1] || second != defaultReplies[2] {
		t.Errorf("unexpected rotation: %q, %q", first, second)
	}

	// A fresh instance starts its own rotation
	if got := askMock(t, b, "tell me something"); got != first {
		t.Errorf("second instance should start at %q, got %q", first, got)
	}
}

func TestMockProviderUsesLatestUserMessage(t *testing.T) {
	p, _ := NewMockProvider("mock:default", config.ProviderConfig{})
	resp, err := p.Chat(context.Background(), interfaces.ChatRequest{
		Model: "mock:default",
		Messages: []interfaces.ChatMessage{
			{Role: interfaces.RoleUser, Content: "hello"},
			{Role: interfaces.RoleAssistant, Content: greetingReply},
			{Role: interfaces.RoleUser, Content: "I hit an error"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(resp.Text, "Happy to help fix it!") {
		t.Errorf("expected fix reply, got %q", resp.Text)
	}
}
