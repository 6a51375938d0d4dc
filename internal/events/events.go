// Package events carries session state-change notifications to their sinks:
// the websocket hub and the audit trail.
package events

import (
	"context"
	"time"
)

// Type names a state change.
type Type string

const (
	VersionCreated    Type = "version_created"
	AnalysisFailed    Type = "analysis_failed"
	VersionLoaded     Type = "version_loaded"
	InputsChanged     Type = "inputs_changed"
	InputsReplaced    Type = "inputs_replaced"
	RecordsImported   Type = "records_imported"
	MitigationAdopted Type = "mitigation_adopted"
	StrategyAdopted   Type = "strategy_adopted"
	ActionPlanReady   Type = "action_plan_ready"
	ActionPlanFailed  Type = "action_plan_failed"
)

// Event describes one state change. Version is the 1-based number of the
// version involved, or 0 when none is.
type Event struct {
	Type    Type      `json:"type"`
	Version int       `json:"version,omitempty"`
	Subject string    `json:"subject,omitempty"`
	Summary string    `json:"summary,omitempty"`
	At      time.Time `json:"at"`
}

// Sink receives events. Implementations must not block for long.
type Sink interface {
	Notify(ctx context.Context, e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e Event)

func (f SinkFunc) Notify(ctx context.Context, e Event) { f(ctx, e) }

// Fanout delivers each event to every non-nil sink in order.
type Fanout []Sink

func (f Fanout) Notify(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	for _, s := range f {
		if s != nil {
			s.Notify(ctx, e)
		}
	}
}
