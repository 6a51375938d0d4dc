package project

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrRecordNotFound is returned when an edit targets an identity that is not in the list.
var ErrRecordNotFound = errors.New("record not found")

// List names one of the four record lists of a snapshot.
type List string

const (
	ListGoals        List = "goals"
	ListStakeholders List = "stakeholders"
	ListDeliverables List = "deliverables"
	ListRisks        List = "risks"
)

// ParseList validates a list name.
func ParseList(s string) (List, error) {
	switch l := List(s); l {
	case ListGoals, ListStakeholders, ListDeliverables, ListRisks:
		return l, nil
	}
	return "", fmt.Errorf("unknown record list %q", s)
}

// NewID returns a fresh record identity.
func NewID() string {
	return uuid.New().String()
}

// FreshID returns a new identity guaranteed not to collide with any record in in.
func (in *Inputs) FreshID() string {
	for {
		id := NewID()
		if !in.HasID(id) {
			return id
		}
	}
}

// AddGoal appends a blank primary goal and returns it.
func (in *Inputs) AddGoal() Goal {
	g := Goal{ID: in.FreshID(), Type: GoalPrimary}
	in.Goals = append(in.Goals, g)
	return g
}

// AddStakeholder appends a blank low-influence, low-interest, neutral stakeholder.
func (in *Inputs) AddStakeholder() Stakeholder {
	s := Stakeholder{ID: in.FreshID(), Influence: LevelLow, Interest: LevelLow, BaseSupport: SupportNeutral}
	in.Stakeholders = append(in.Stakeholders, s)
	return s
}

// AddDeliverable appends a blank deliverable.
func (in *Inputs) AddDeliverable() Deliverable {
	d := Deliverable{ID: in.FreshID()}
	in.Deliverables = append(in.Deliverables, d)
	return d
}

// AddRisk appends a blank operational risk at mid likelihood and impact.
func (in *Inputs) AddRisk() KnownRisk {
	r := KnownRisk{ID: in.FreshID(), Likelihood: 0.5, Impact: 5, Category: "Operational"}
	in.KnownRisks = append(in.KnownRisks, r)
	return r
}

// UpdateGoal replaces the goal with g.ID, leaving every other record untouched.
func (in *Inputs) UpdateGoal(g Goal) error {
	for i := range in.Goals {
		if in.Goals[i].ID == g.ID {
			in.Goals[i] = g
			return nil
		}
	}
	return fmt.Errorf("goal %s: %w", g.ID, ErrRecordNotFound)
}

// UpdateStakeholder replaces the stakeholder with s.ID.
func (in *Inputs) UpdateStakeholder(s Stakeholder) error {
	if i := in.FindStakeholder(s.ID); i >= 0 {
		in.Stakeholders[i] = s
		return nil
	}
	return fmt.Errorf("stakeholder %s: %w", s.ID, ErrRecordNotFound)
}

// UpdateDeliverable replaces the deliverable with d.ID.
func (in *Inputs) UpdateDeliverable(d Deliverable) error {
	for i := range in.Deliverables {
		if in.Deliverables[i].ID == d.ID {
			in.Deliverables[i] = d
			return nil
		}
	}
	return fmt.Errorf("deliverable %s: %w", d.ID, ErrRecordNotFound)
}

// UpdateRisk replaces the risk with r.ID.
func (in *Inputs) UpdateRisk(r KnownRisk) error {
	if i := in.FindRisk(r.ID); i >= 0 {
		in.KnownRisks[i] = r
		return nil
	}
	return fmt.Errorf("risk %s: %w", r.ID, ErrRecordNotFound)
}

// Remove deletes the record with id from list, preserving the order of the rest.
func (in *Inputs) Remove(list List, id string) error {
	var found bool
	switch list {
	case ListGoals:
		in.Goals, found = removeByID(in.Goals, id, func(g Goal) string { return g.ID })
	case ListStakeholders:
		in.Stakeholders, found = removeByID(in.Stakeholders, id, func(s Stakeholder) string { return s.ID })
	case ListDeliverables:
		in.Deliverables, found = removeByID(in.Deliverables, id, func(d Deliverable) string { return d.ID })
	case ListRisks:
		in.KnownRisks, found = removeByID(in.KnownRisks, id, func(r KnownRisk) string { return r.ID })
	default:
		return fmt.Errorf("unknown record list %q", list)
	}
	if !found {
		return fmt.Errorf("%s %s: %w", list, id, ErrRecordNotFound)
	}
	return nil
}

func removeByID[T any](items []T, id string, key func(T) string) ([]T, bool) {
	out := make([]T, 0, len(items))
	found := false
	for _, it := range items {
		if key(it) == id {
			found = true
			continue
		}
		out = append(out, it)
	}
	return out, found
}
