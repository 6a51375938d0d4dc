// Package adoption folds generated suggestions back into the editable
// snapshot. Every function touches only the record it targets; callers that
// share a snapshot between goroutines must serialize access.
package adoption

import (
	"strings"

	"github.com/philipobrien-sdm/StratOS/internal/analysis"
	"github.com/philipobrien-sdm/StratOS/internal/project"
)

// Outcome reports what an adoption did.
type Outcome struct {
	// RecordID is the risk or stakeholder the text was logged against.
	RecordID string `json:"recordId"`
	// Created is true when a new risk was added to hold the mitigation.
	Created bool `json:"created"`
	// Applied is false when nothing changed (unknown stakeholder).
	Applied bool `json:"applied"`
}

// AdoptMitigation appends mitigation to the log of the risk matching
// target.ID. When no such risk exists, a new risk is created from target
// with a one-line log. Its identity is target.ID unless that is empty or
// already used by any record, in which case a fresh one is generated.
// Likelihood and impact of a created risk are clamped to their ranges.
func AdoptMitigation(in *project.Inputs, target project.KnownRisk, mitigation string) Outcome {
	mitigation = strings.TrimSpace(mitigation)
	if i := in.FindRisk(target.ID); i >= 0 {
		r := &in.KnownRisks[i]
		r.CurrentMitigations = r.CurrentMitigations.Append(mitigation)
		return Outcome{RecordID: r.ID, Applied: true}
	}

	id := target.ID
	if id == "" || in.HasID(id) {
		id = in.FreshID()
	}
	in.KnownRisks = append(in.KnownRisks, project.KnownRisk{
		ID:                 id,
		Description:        target.Description,
		Likelihood:         project.ClampLikelihood(target.Likelihood),
		Impact:             project.ClampImpact(target.Impact),
		Category:           target.Category,
		CurrentMitigations: project.Log{mitigation},
	})
	return Outcome{RecordID: id, Created: true, Applied: true}
}

// AdoptStrategy appends strategy to the engagement log of the stakeholder
// with stakeholderID. An unknown id leaves the snapshot unchanged.
func AdoptStrategy(in *project.Inputs, stakeholderID, strategy string) Outcome {
	i := in.FindStakeholder(stakeholderID)
	if i < 0 {
		return Outcome{RecordID: stakeholderID}
	}
	s := &in.Stakeholders[i]
	s.EngagementStrategy = s.EngagementStrategy.Append(strings.TrimSpace(strategy))
	return Outcome{RecordID: s.ID, Applied: true}
}

// MergeExtraction appends the drafts of ex to the matching list, giving each
// a fresh identity, and returns the new identities in order. Missing
// enumerations take the same defaults as a blank record.
func MergeExtraction(in *project.Inputs, ex *analysis.Extraction) []string {
	if ex == nil {
		return nil
	}
	ids := make([]string, 0, ex.Len())
	switch ex.Category {
	case analysis.CategoryGoals:
		for _, d := range ex.Goals {
			g := project.Goal{ID: in.FreshID(), Description: d.Description, Type: d.Type, SuccessCriteria: d.SuccessCriteria}
			if g.Type == "" {
				g.Type = project.GoalPrimary
			}
			in.Goals = append(in.Goals, g)
			ids = append(ids, g.ID)
		}
	case analysis.CategoryStakeholders:
		for _, d := range ex.Stakeholders {
			s := project.Stakeholder{
				ID:          in.FreshID(),
				Name:        d.Name,
				Role:        d.Role,
				Influence:   orLevel(d.Influence),
				Interest:    orLevel(d.Interest),
				BaseSupport: d.BaseSupport,
			}
			if s.BaseSupport == "" {
				s.BaseSupport = project.SupportNeutral
			}
			in.Stakeholders = append(in.Stakeholders, s)
			ids = append(ids, s.ID)
		}
	case analysis.CategoryDeliverables:
		for _, d := range ex.Deliverables {
			del := project.Deliverable{ID: in.FreshID(), Name: d.Name, DueDate: d.DueDate, Dependencies: d.Dependencies}
			in.Deliverables = append(in.Deliverables, del)
			ids = append(ids, del.ID)
		}
	case analysis.CategoryRisks:
		for _, d := range ex.Risks {
			r := project.KnownRisk{
				ID:          in.FreshID(),
				Description: d.Description,
				Likelihood:  d.Likelihood,
				Impact:      d.Impact,
				Category:    d.Category,
			}
			if r.Category == "" {
				r.Category = "Operational"
			}
			in.KnownRisks = append(in.KnownRisks, r)
			ids = append(ids, r.ID)
		}
	}
	return ids
}

func orLevel(l project.Level) project.Level {
	if l == "" {
		return project.LevelLow
	}
	return l
}
