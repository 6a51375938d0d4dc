package analysis

import (
	"fmt"

	"github.com/philipobrien-sdm/StratOS/internal/project"
)

// Category is the record list a free-text extraction targets.
type Category string

const (
	CategoryGoals        Category = "Goals"
	CategoryStakeholders Category = "Stakeholders"
	CategoryDeliverables Category = "Deliverables"
	CategoryRisks        Category = "Risks"
)

// Categories lists every valid extraction category.
var Categories = []Category{CategoryGoals, CategoryStakeholders, CategoryDeliverables, CategoryRisks}

// RiskCategories are the categories the extractor may assign to a risk.
var RiskCategories = []string{"Operational", "Financial", "Strategic", "Reputational"}

// ParseCategory validates a category tag.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// key is the top-level JSON property the extraction response nests its records under.
func (c Category) key() string {
	switch c {
	case CategoryGoals:
		return "goals"
	case CategoryStakeholders:
		return "stakeholders"
	case CategoryDeliverables:
		return "deliverables"
	case CategoryRisks:
		return "risks"
	}
	return ""
}

// Label is the human wording used in prompts.
func (c Category) Label() string {
	if c == CategoryRisks {
		return "Known Risks"
	}
	return string(c)
}

// Drafts lack identity; the merge step assigns one.

type GoalDraft struct {
	Description     string           `json:"description"`
	Type            project.GoalType `json:"type"`
	SuccessCriteria string           `json:"successCriteria"`
}

type StakeholderDraft struct {
	Name        string          `json:"name"`
	Role        string          `json:"role"`
	Influence   project.Level   `json:"influence"`
	Interest    project.Level   `json:"interest"`
	BaseSupport project.Support `json:"baseSupport"`
}

type DeliverableDraft struct {
	Name         string `json:"name"`
	DueDate      string `json:"dueDate"`
	Dependencies string `json:"dependencies"`
}

type RiskDraft struct {
	Description string         `json:"description"`
	Likelihood  float64        `json:"likelihood"`
	Impact      project.Impact `json:"impact"`
	Category    string         `json:"category"`
}

// Extraction is the tagged result of a free-text extraction: exactly the
// slice matching Category is populated.
type Extraction struct {
	Category     Category           `json:"category"`
	Goals        []GoalDraft        `json:"goals,omitempty"`
	Stakeholders []StakeholderDraft `json:"stakeholders,omitempty"`
	Deliverables []DeliverableDraft `json:"deliverables,omitempty"`
	Risks        []RiskDraft        `json:"risks,omitempty"`
}

// Len returns the number of drafts held.
func (e *Extraction) Len() int {
	switch e.Category {
	case CategoryGoals:
		return len(e.Goals)
	case CategoryStakeholders:
		return len(e.Stakeholders)
	case CategoryDeliverables:
		return len(e.Deliverables)
	case CategoryRisks:
		return len(e.Risks)
	}
	return 0
}
