package provider

import "context"

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the conversation.
type Message struct {
	Role    string
	Content string
}

// Request carries the full conversation state for one model call.
type Request struct {
	System    string
	Messages  []Message
	MaxTokens int
}

// Provider is the interface that all model services must implement
type Provider interface {
	// Complete returns the model's next reply for the conversation
	Complete(ctx context.Context, req *Request) (string, error)

	// Name returns the provider name
	Name() string
}
