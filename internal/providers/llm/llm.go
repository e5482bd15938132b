package llm

import "context"

// Request is a single chat-completion call. When JSONMode is set the provider
// asks the model for a strict JSON object response.
type Request struct {
	System      string
	User        string
	JSONMode    bool
	Temperature float32
	MaxTokens   int
}

// Provider is the chat-completion collaborator shared by moderation, intent
// classification, grading, explanation and quiz generation.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
	Close() error
}
