package project

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInputs is matched by every error Validate returns.
var ErrInvalidInputs = errors.New("invalid inputs")

// ValidationError is one identity problem found in a snapshot.
type ValidationError struct {
	List    List
	Index   int
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s[%d]: %s", e.List, e.Index, e.Message)
}

// ValidationErrors aggregates every problem found by Validate.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return "invalid inputs: " + strings.Join(parts, "; ")
}

func (errs ValidationErrors) Is(target error) bool { return target == ErrInvalidInputs }

// Validate checks that every record has a non-empty identity that is unique
// within its own list.
func (in *Inputs) Validate() error {
	var errs ValidationErrors
	check := func(list List, ids []string) {
		seen := make(map[string]int, len(ids))
		for i, id := range ids {
			if strings.TrimSpace(id) == "" {
				errs = append(errs, ValidationError{List: list, Index: i, Message: "id is required"})
				continue
			}
			if first, dup := seen[id]; dup {
				errs = append(errs, ValidationError{List: list, Index: i, Message: fmt.Sprintf("id %q already used by %s[%d]", id, list, first)})
				continue
			}
			seen[id] = i
		}
	}

	check(ListGoals, recordIDs(in.Goals, func(g Goal) string { return g.ID }))
	check(ListStakeholders, recordIDs(in.Stakeholders, func(s Stakeholder) string { return s.ID }))
	check(ListDeliverables, recordIDs(in.Deliverables, func(d Deliverable) string { return d.ID }))
	check(ListRisks, recordIDs(in.KnownRisks, func(r KnownRisk) string { return r.ID }))

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func recordIDs[T any](items []T, key func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = key(item)
	}
	return out
}
