package models

// Chat roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one element of the conversation sent to a provider.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StreamResponse carries one streamed chunk from a chat provider.
// Exactly one terminal value is sent: either Done=true or a non-nil Err.
type StreamResponse struct {
	Content string
	Done    bool
	Err     error
}

// Usage reports token consumption for a completed request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// AIError is the error envelope returned by provider HTTP APIs.
type AIError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
