package driven

import "context"

// LLMService provides language model completion for answer synthesis.
//
// Implementations may include:
//   - OpenAI (gpt-4o, gpt-4o-mini)
//   - Azure OpenAI or any compatible chat-completions API
//   - Ollama (local models)
//
// Calls are blocking and network-bound with no internally-defined timeout
// beyond the transport's; callers impose timeouts via the context.
type LLMService interface {
	// Chat conducts a conversation and returns the assistant's reply.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test
	// request. Used at startup to verify connectivity.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
