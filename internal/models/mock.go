package models

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/clawinfra/parley/internal/config"
	"github.com/clawinfra/parley/internal/interfaces"
)

// MockProvider returns canned replies picked by keywords in the latest user
// message. Prompts that match nothing rotate through defaultReplies using a
// counter owned by the instance.
type MockProvider struct {
	mu      sync.Mutex
	counter int
}

// NewMockProvider is the Factory for "mock:" model ids
func NewMockProvider(_ string, _ config.ProviderConfig) (interfaces.Provider, error) {
	return &MockProvider{}, nil
}

const emptyPromptReply = "Hi! Ask me anything about code, tools, or ideas."

var (
	greetingRe  = regexp.MustCompile(`^(hi|hello|hey|howdy)\b`)
	howAreYouRe = regexp.MustCompile(`how are you|how's it going`)
	fixRe       = regexp.MustCompile(`fix|error|lint|bug`)
	exampleRe   = regexp.MustCompile(`example|show|how to|how do`)
	serverRe    = regexp.MustCompile(`http|server`)
)

var defaultReplies = []string{
	"Interesting question! I can help with code or commands. Can you describe the task in more detail?",
	"I'm here to help! Do you need a code example, architecture advice, or something else?",
	"Let's work through it. Tell me more about what needs to be done?",
}

const greetingReply = "Hello! 👋 How can I help?"

const howAreYouReply = "Doing great! Ready to help with code, tools, or ideas. What are you working on?"

const fixReply = `Happy to help fix it! Here's what I recommend:

1. Isolate the problem first
2. Check the logs and the stack trace
3. Apply the smallest fix that works
4. Add a test so it doesn't regress

If you share the code or the error text, I can be more specific.`

const serverExampleReply = "Here's a minimal HTTP server in Go:\n\n" +
	"```go\n" +
	"package main\n" +
	"\n" +
	"import (\n" +
	"\t\"fmt\"\n" +
	"\t\"net/http\"\n" +
	")\n" +
	"\n" +
	"func main() {\n" +
	"\thttp.HandleFunc(\"/\", func(w http.ResponseWriter, r *http.Request) {\n" +
	"\t\tfmt.Fprintln(w, \"Hello from parley!\")\n" +
	"\t})\n" +
	"\thttp.ListenAndServe(\":3000\", nil)\n" +
	"}\n" +
	"```\n" +
	"\n" +
	"Run it with: `go run server.go`"

const functionExampleReply = "Here's a simple Go function:\n\n" +
	"```go\n" +
	"func greet(name string) string {\n" +
	"\treturn fmt.Sprintf(\"Hello, %s!\", name)\n" +
	"}\n" +
	"```\n" +
	"\n" +
	"What exactly are you interested in?"

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) Chat(ctx context.Context, req interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(interfaces.LastUserMessage(req.Messages)))
	if q == "" {
		return &interfaces.ChatResponse{Text: emptyPromptReply}, nil
	}

	p.mu.Lock()
	p.counter++
	n := p.counter
	p.mu.Unlock()

	return &interfaces.ChatResponse{Text: mockReply(q, n)}, nil
}

func mockReply(q string, n int) string {
	switch {
	case greetingRe.MatchString(q):
		return greetingReply
	case howAreYouRe.MatchString(q):
		return howAreYouReply
	case fixRe.MatchString(q):
		return fixReply
	case exampleRe.MatchString(q):
		if serverRe.MatchString(q) {
			return serverExampleReply
		}
		return functionExampleReply
	default:
		return defaultReplies[n%len(defaultReplies)]
	}
}
