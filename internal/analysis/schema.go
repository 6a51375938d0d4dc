package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Response schemas handed to providers that support structured output.
// They describe the wire shape only; decoding still validates required fields.

const stringArray = `{"type": "array", "items": {"type": "string"}}`

var scenarioSchema = `{
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "type": {"type": "string", "enum": ["Best Reasonable Case", "Probable Case", "Reasonable Worst Case"]},
    "narrative": {"type": "string"},
    "probability": {"type": "number", "description": "Percentage 0-100"},
    "impactLevel": {"type": "number", "description": "1-10 scale"},
    "effortToAchieve": {"type": "number", "description": "1-10 scale"},
    "fragilityMarkers": ` + stringArray + `
  },
  "required": ["title", "type", "narrative", "probability", "fragilityMarkers"]
}`

var mitigationSchema = `{
  "type": "object",
  "properties": {
    "riskId": {"type": "string"},
    "action": {"type": "string"},
    "effortCost": {"type": "number"},
    "effectiveness": {"type": "number"},
    "residualRisk": {"type": "number"}
  }
}`

var expandedRiskSchema = `{
  "type": "object",
  "properties": {
    "id": {"type": "string"},
    "description": {"type": "string"},
    "likelihood": {"type": "number"},
    "impact": {"type": "number"},
    "category": {"type": "string"},
    "isAIGenerated": {"type": "boolean"},
    "contagionEffects": ` + stringArray + `,
    "cluster": {"type": "string"},
    "mitigations": {"type": "array", "items": ` + mitigationSchema + `}
  },
  "required": ["id", "description", "likelihood", "impact", "isAIGenerated"]
}`

var stakeholderStrategySchema = `{
  "type": "object",
  "properties": {
    "stakeholderId": {"type": "string"},
    "predictedBehaviour": {"type": "string"},
    "leveragePoints": ` + stringArray + `,
    "communicationCadence": {"type": "string"}
  }
}`

var decisionGateSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "purpose": {"type": "string"},
    "entryCriteria": ` + stringArray + `,
    "exitCriteria": ` + stringArray + `,
    "failureConditions": ` + stringArray + `
  }
}`

// ResultSchema is the JSON schema of an analysis Result.
var ResultSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "scenarios": {"type": "array", "items": ` + scenarioSchema + `},
    "expandedRisks": {"type": "array", "items": ` + expandedRiskSchema + `},
    "stakeholderStrategies": {"type": "array", "items": ` + stakeholderStrategySchema + `},
    "decisionGates": {"type": "array", "items": ` + decisionGateSchema + `},
    "deltas": {"type": "array", "items": {"type": "string"}, "description": "Explicit list of what changed compared to previous context or new analysis insights."},
    "executiveSummary": {"type": "string"}
  },
  "required": ["scenarios", "expandedRisks", "stakeholderStrategies", "decisionGates", "deltas"]
}`)

// ActionPlanSchema is the JSON schema of an ActionPlan.
var ActionPlanSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "targetOutcome": {"type": "string"},
    "steps": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "order": {"type": "number"},
          "action": {"type": "string"},
          "owner": {"type": "string"}
        }
      }
    },
    "cumulativeCost": {"type": "number"},
    "residualProbabilityOfFailure": {"type": "number"},
    "newRisks": ` + stringArray + `
  },
  "required": ["steps", "cumulativeCost"]
}`)

var goalDraftSchema = `{
  "type": "object",
  "properties": {
    "description": {"type": "string"},
    "type": {"type": "string", "enum": ["Primary", "Secondary"]},
    "successCriteria": {"type": "string"}
  },
  "required": ["description", "type", "successCriteria"]
}`

var stakeholderDraftSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "role": {"type": "string"},
    "influence": {"type": "string", "enum": ["Low", "High"]},
    "interest": {"type": "string", "enum": ["Low", "High"]},
    "baseSupport": {"type": "string", "enum": ["Supporter", "Neutral", "Detractor"]}
  },
  "required": ["name", "role", "influence", "baseSupport"]
}`

var deliverableDraftSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "dueDate": {"type": "string", "description": "YYYY-MM-DD format"},
    "dependencies": {"type": "string"}
  },
  "required": ["name", "dueDate", "dependencies"]
}`

var riskDraftSchema = `{
  "type": "object",
  "properties": {
    "description": {"type": "string"},
    "likelihood": {"type": "number", "description": "0 to 1"},
    "impact": {"type": "number", "description": "1 to 10"},
    "category": {"type": "string", "enum": ["` + strings.Join(RiskCategories, `", "`) + `"]}
  },
  "required": ["description", "likelihood", "impact", "category"]
}`

// ExtractionSchema returns the JSON schema for the given category's extraction payload.
func ExtractionSchema(c Category) (json.RawMessage, error) {
	var item string
	switch c {
	case CategoryGoals:
		item = goalDraftSchema
	case CategoryStakeholders:
		item = stakeholderDraftSchema
	case CategoryDeliverables:
		item = deliverableDraftSchema
	case CategoryRisks:
		item = riskDraftSchema
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, c)
	}
	return json.RawMessage(fmt.Sprintf(`{
  "type": "object",
  "properties": {
    %q: {"type": "array", "items": %s}
  },
  "required": [%q]
}`, c.key(), item, c.key())), nil
}
