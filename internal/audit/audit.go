package audit

import (
	"time"

	"github.com/philipobrien-sdm/StratOS/internal/events"
)

// Entry is a single audit trail record of a session state change.
type Entry struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      events.Type `json:"type"`
	Version   int         `json:"version,omitempty"`
	Subject   string      `json:"subject,omitempty"`
	Summary   string      `json:"summary,omitempty"`
}

// Call is one request made to the model provider.
type Call struct {
	ID           string        `json:"id"`
	Timestamp    time.Time     `json:"timestamp"`
	Operation    string        `json:"operation"`
	Provider     string        `json:"provider"`
	Model        string        `json:"model"`
	InputTokens  int           `json:"inputTokens"`
	OutputTokens int           `json:"outputTokens"`
	CostUSD      float64       `json:"costUsd"`
	DurationMS   int64   `json:"durationMs"`
	Error        string        `json:"error,omitempty"`
}

// Usage totals the provider calls of a session.
type Usage struct {
	Calls        int                       `json:"calls"`
	Failed       int                       `json:"failed"`
	InputTokens  int                       `json:"inputTokens"`
	OutputTokens int                       `json:"outputTokens"`
	CostUSD      float64                   `json:"costUsd"`
	ByOperation  map[string]OperationUsage `json:"byOperation"`
}

// OperationUsage is the per-operation slice of Usage.
type OperationUsage struct {
	Calls        int     `json:"calls"`
	InputTokens  int     `json:"inputTokens"`
	OutputTokens int     `json:"outputTokens"`
	CostUSD      float64 `json:"costUsd"`
}
