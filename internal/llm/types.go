package llm

import "encoding/json"

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest contains the parameters for an LLM completion request.
// Schema, when set, is a JSON schema the response must follow; providers with
// native structured output enforce it, the rest receive it as an instruction.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
	Schema      json.RawMessage
	SchemaName  string
}

// CompletionResponse contains the result of an LLM completion request.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// structured reports whether the request asks for JSON output of any kind.
func (r CompletionRequest) structured() bool {
	return r.JSONMode || len(r.Schema) > 0
}

func (r CompletionRequest) schemaName() string {
	if r.SchemaName != "" {
		return r.SchemaName
	}
	return "response"
}
