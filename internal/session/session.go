// Package session owns the state of one planning session: the editable
// snapshot, the version history and the last action plan.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/philipobrien-sdm/StratOS/internal/adoption"
	"github.com/philipobrien-sdm/StratOS/internal/analysis"
	"github.com/philipobrien-sdm/StratOS/internal/events"
	"github.com/philipobrien-sdm/StratOS/internal/history"
	"github.com/philipobrien-sdm/StratOS/internal/project"
)

// Reasoner is the external reasoning capability. *reasoner.Client implements it.
type Reasoner interface {
	RequestAnalysis(ctx context.Context, in *project.Inputs, prev *analysis.Result) (*analysis.Result, error)
	RequestExtraction(ctx context.Context, category string, text string) (*analysis.Extraction, error)
	RequestActionPlan(ctx context.Context, target string, res *analysis.Result, in *project.Inputs) (*analysis.ActionPlan, error)
}

// Options configure a Session.
type Options struct {
	// SchemaVersion is stamped on every version; empty uses history.DefaultSchemaVersion.
	SchemaVersion string
	// Sink receives state-change events. May be nil.
	Sink events.Sink
	// Inputs seeds the working copy; nil starts empty.
	Inputs *project.Inputs
}

// Session is safe for concurrent use. Reasoning calls run without holding
// the lock; the working copy is only written once a reply has been validated.
type Session struct {
	reasoner Reasoner
	history  *history.Store
	sink     events.Sink

	mu     sync.Mutex
	inputs *project.Inputs
	plan   *analysis.ActionPlan
	// planVersion is the version number the plan was generated from.
	planVersion int
}

// New creates a session over r.
func New(r Reasoner, opts Options) *Session {
	in := project.New()
	if opts.Inputs != nil {
		in = opts.Inputs.Clone()
	}
	sink := opts.Sink
	if sink == nil {
		sink = events.Fanout(nil)
	}
	return &Session{
		reasoner: r,
		history:  history.NewStore(opts.SchemaVersion),
		sink:     sink,
		inputs:   in,
	}
}

func (s *Session) notify(ctx context.Context, e events.Event) {
	s.sink.Notify(ctx, e)
}

// Inputs returns a copy of the working snapshot.
func (s *Session) Inputs() *project.Inputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputs.Clone()
}

// ReplaceInputs swaps the whole working snapshot for a copy of in. A
// snapshot with missing or duplicate identities is rejected and the working
// copy is left as it was.
func (s *Session) ReplaceInputs(ctx context.Context, in *project.Inputs) error {
	if err := in.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.inputs = in.Clone()
	s.mu.Unlock()
	s.notify(ctx, events.Event{Type: events.InputsReplaced})
	return nil
}

// LoadSample replaces the working snapshot with the sample project.
func (s *Session) LoadSample(ctx context.Context) *project.Inputs {
	sample := project.Sample()
	s.mu.Lock()
	s.inputs = sample.Clone()
	s.mu.Unlock()
	s.notify(ctx, events.Event{Type: events.InputsReplaced, Subject: "sample", Summary: sample.Organization})
	return sample
}

// Edit applies fn to the working snapshot under the session lock. fn must
// only touch the records it means to change.
func (s *Session) Edit(ctx context.Context, subject string, fn func(in *project.Inputs) error) error {
	s.mu.Lock()
	err := fn(s.inputs)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(ctx, events.Event{Type: events.InputsChanged, Subject: subject})
	return nil
}

// SetOrganization sets the organization name.
func (s *Session) SetOrganization(ctx context.Context, name string) error {
	return s.Edit(ctx, "organization", func(in *project.Inputs) error {
		in.Organization = name
		return nil
	})
}

// AddRecord appends a blank record to list and returns it.
func (s *Session) AddRecord(ctx context.Context, list project.List) (any, error) {
	var rec any
	err := s.Edit(ctx, string(list), func(in *project.Inputs) error {
		switch list {
		case project.ListGoals:
			rec = in.AddGoal()
		case project.ListStakeholders:
			rec = in.AddStakeholder()
		case project.ListDeliverables:
			rec = in.AddDeliverable()
		case project.ListRisks:
			rec = in.AddRisk()
		default:
			return fmt.Errorf("unknown record list %q", list)
		}
		return nil
	})
	return rec, err
}

// RemoveRecord deletes the record id from list.
func (s *Session) RemoveRecord(ctx context.Context, list project.List, id string) error {
	return s.Edit(ctx, string(list)+"/"+id, func(in *project.Inputs) error {
		return in.Remove(list, id)
	})
}

// RunAnalysis requests an analysis of a copy of the working snapshot, with
// the current version's analysis as context, and appends the result as a new
// version. On any failure, including cancellation, history and snapshot are
// left as they were.
func (s *Session) RunAnalysis(ctx context.Context) (history.Version, error) {
	s.mu.Lock()
	snapshot := s.inputs.Clone()
	s.mu.Unlock()
	prev := s.history.CurrentAnalysis()

	res, err := s.reasoner.RequestAnalysis(ctx, snapshot, prev)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.notify(ctx, events.Event{Type: events.AnalysisFailed, Summary: err.Error()})
		return history.Version{}, err
	}

	idx := s.history.Append(snapshot, res)
	v, err := s.history.Get(idx)
	if err != nil {
		return history.Version{}, err
	}
	s.notify(ctx, events.Event{Type: events.VersionCreated, Version: v.Number, Summary: summarize(res)})
	return v, nil
}

// LoadVersion makes version index current and replaces the working snapshot
// with a copy of its inputs.
func (s *Session) LoadVersion(ctx context.Context, index int) (*project.Inputs, error) {
	s.mu.Lock()
	in, err := s.history.Load(index)
	if err == nil {
		s.inputs = in.Clone()
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.notify(ctx, events.Event{Type: events.VersionLoaded, Version: index + 1})
	return in, nil
}

// AdoptMitigation logs mitigation against risk in the working snapshot,
// creating the risk when it is not tracked yet.
func (s *Session) AdoptMitigation(ctx context.Context, risk project.KnownRisk, mitigation string) adoption.Outcome {
	s.mu.Lock()
	out := adoption.AdoptMitigation(s.inputs, risk, mitigation)
	s.mu.Unlock()
	s.notify(ctx, events.Event{Type: events.MitigationAdopted, Version: s.currentNumber(), Subject: out.RecordID, Summary: mitigation})
	return out
}

// AdoptSuggestedMitigation looks riskID up in the current analysis and adopts
// mitigation against it.
func (s *Session) AdoptSuggestedMitigation(ctx context.Context, riskID, mitigation string) (adoption.Outcome, error) {
	res := s.history.CurrentAnalysis()
	if res == nil {
		return adoption.Outcome{}, history.ErrEmptyHistory
	}
	er, ok := res.Risk(riskID)
	if !ok {
		s.mu.Lock()
		tracked := s.inputs.FindRisk(riskID) >= 0
		s.mu.Unlock()
		if !tracked {
			return adoption.Outcome{}, fmt.Errorf("risk %q: %w", riskID, project.ErrRecordNotFound)
		}
		er.ID = riskID
	}
	return s.AdoptMitigation(ctx, er.KnownRisk, mitigation), nil
}

// AdoptStrategy logs strategy against a stakeholder. Unknown ids change nothing.
func (s *Session) AdoptStrategy(ctx context.Context, stakeholderID, strategy string) adoption.Outcome {
	s.mu.Lock()
	out := adoption.AdoptStrategy(s.inputs, stakeholderID, strategy)
	s.mu.Unlock()
	if out.Applied {
		s.notify(ctx, events.Event{Type: events.StrategyAdopted, Version: s.currentNumber(), Subject: stakeholderID, Summary: strategy})
	}
	return out
}

// ImportText extracts records of category from text and appends them to the
// working snapshot with fresh identities. It returns the new identities.
func (s *Session) ImportText(ctx context.Context, category, text string) ([]string, error) {
	ex, err := s.reasoner.RequestExtraction(ctx, category, text)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	ids := adoption.MergeExtraction(s.inputs, ex)
	s.mu.Unlock()
	s.notify(ctx, events.Event{Type: events.RecordsImported, Subject: string(ex.Category), Summary: fmt.Sprintf("%d records", len(ids))})
	return ids, nil
}

// GenerateActionPlan asks for a plan reaching target from the current
// analysis. Without a current version it fails with analysis.ErrPrecondition.
func (s *Session) GenerateActionPlan(ctx context.Context, target string) (*analysis.ActionPlan, error) {
	target = strings.TrimSpace(target)
	base, ok := s.history.Current()
	if !ok || base.Analysis == nil {
		return nil, analysis.ErrPrecondition
	}
	res := base.Analysis
	s.mu.Lock()
	snapshot := s.inputs.Clone()
	s.mu.Unlock()

	plan, err := s.reasoner.RequestActionPlan(ctx, target, res, snapshot)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.notify(ctx, events.Event{Type: events.ActionPlanFailed, Subject: target, Summary: err.Error()})
		return nil, err
	}

	s.mu.Lock()
	s.plan = plan
	s.planVersion = base.Number
	s.mu.Unlock()
	s.notify(ctx, events.Event{Type: events.ActionPlanReady, Version: base.Number, Subject: target})
	return plan, nil
}

// ActionPlan returns the last generated plan, or nil once the current
// version is no longer the one the plan was built from.
func (s *Session) ActionPlan() *analysis.ActionPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plan == nil || s.planVersion != s.currentNumber() {
		return nil
	}
	return s.plan
}

// Versions summarizes the history.
func (s *Session) Versions() []history.Summary { return s.history.List() }

// Version returns the version at index.
func (s *Session) Version(index int) (history.Version, error) { return s.history.Get(index) }

// CurrentVersion returns the current version or history.ErrEmptyHistory.
func (s *Session) CurrentVersion() (history.Version, error) {
	v, ok := s.history.Current()
	if !ok {
		return history.Version{}, history.ErrEmptyHistory
	}
	return v, nil
}

// CurrentIndex returns the current history index, or -1.
func (s *Session) CurrentIndex() int { return s.history.CurrentIndex() }

// HistoryLen returns the number of versions.
func (s *Session) HistoryLen() int { return s.history.Len() }

// Diff returns a unified diff between the inputs of versions a and b.
func (s *Session) Diff(a, b int) (string, error) {
	va, err := s.history.Get(a)
	if err != nil {
		return "", err
	}
	vb, err := s.history.Get(b)
	if err != nil {
		return "", err
	}
	return history.Diff(va, vb)
}

func (s *Session) currentNumber() int {
	return s.history.CurrentIndex() + 1
}

func summarize(res *analysis.Result) string {
	return fmt.Sprintf("%d scenarios, %d risks, %d deltas", len(res.Scenarios), len(res.ExpandedRisks), len(res.Deltas))
}
