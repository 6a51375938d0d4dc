package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/philipobrien-sdm/StratOS/internal/project"
)

// requiredResultFields must be present (and not null) in every analysis payload.
var requiredResultFields = []string{"scenarios", "expandedRisks", "stakeholderStrategies", "decisionGates", "deltas"}

var requiredPlanFields = []string{"steps", "cumulativeCost"}

// DecodeResult parses a raw model payload into a Result. Unknown fields are
// ignored; missing required lists yield ErrMalformedResponse.
func DecodeResult(content string) (*Result, error) {
	raw, err := decodeObject(content, requiredResultFields...)
	if err != nil {
		return nil, err
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if res.Deltas == nil {
		res.Deltas = []string{}
	}
	return &res, nil
}

// DecodeActionPlan parses a raw model payload into an ActionPlan.
// targetOutcome falls back to target when the model leaves it out.
func DecodeActionPlan(content, target string) (*ActionPlan, error) {
	raw, err := decodeObject(content, requiredPlanFields...)
	if err != nil {
		return nil, err
	}
	var plan ActionPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if plan.TargetOutcome == "" {
		plan.TargetOutcome = target
	}
	if plan.NewRisks == nil {
		plan.NewRisks = []string{}
	}
	return &plan, nil
}

// DecodeExtraction parses a raw extraction payload for the given category.
// Stakeholders without an interest default to Low.
func DecodeExtraction(category Category, content string) (*Extraction, error) {
	key := category.key()
	if key == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	raw, err := decodeObject(content, key)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	ex := &Extraction{Category: category}
	var target any
	switch category {
	case CategoryGoals:
		target = &ex.Goals
	case CategoryStakeholders:
		target = &ex.Stakeholders
	case CategoryDeliverables:
		target = &ex.Deliverables
	case CategoryRisks:
		target = &ex.Risks
	}
	if err := json.Unmarshal(fields[key], target); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, key, err)
	}
	for i := range ex.Stakeholders {
		if ex.Stakeholders[i].Interest == "" {
			ex.Stakeholders[i].Interest = project.LevelLow
		}
	}
	return ex, nil
}

// decodeObject trims the payload to its outermost JSON object and checks the
// required top-level keys. Models sometimes wrap JSON in markdown fences.
func decodeObject(content string, required ...string) ([]byte, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyResponse
	}
	jsonStr := content
	if idx := strings.Index(jsonStr, "{"); idx >= 0 {
		jsonStr = jsonStr[idx:]
	}
	if idx := strings.LastIndex(jsonStr, "}"); idx >= 0 {
		jsonStr = jsonStr[:idx+1]
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: payload is null", ErrMalformedResponse)
	}

	var missing []string
	for _, name := range required {
		v, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", ErrMalformedResponse, strings.Join(missing, ", "))
	}
	return []byte(jsonStr), nil
}
