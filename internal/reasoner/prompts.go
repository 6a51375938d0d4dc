package reasoner

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/philipobrien-sdm/StratOS/internal/analysis"
	"github.com/philipobrien-sdm/StratOS/internal/llm"
	"github.com/philipobrien-sdm/StratOS/internal/project"
)

const analysisSystemPrompt = `You are a rigid strategic planning engine. Output strict JSON only. Be critical, realistic, and highly specific about risks.`

const analysisPromptTemplate = `You are StratOS, an advanced strategic risk engine.
Analyze the following Project State.

If a Previous Analysis is provided, compare the new inputs against it to calculate Deltas (changes in likelihood, stakeholder sentiment, new or retired risks). On a first run, use deltas to list the most important initial insights.

Task:
1. Expand on known risks (identify gaps, contagion). Keep the ids of known risks; mark risks you add with isAIGenerated=true and give them new ids.
2. Generate 3 specific scenarios (Best Reasonable Case, Probable Case, Reasonable Worst Case).
3. Engineer mitigations for the top risks.
4. Define stakeholder strategies based on their attributes, referencing stakeholders by id.
5. Define Decision Gates.

Organization/Context: %s
Current Inputs: %s
Previous Analysis (for reference/delta): %s`

const planPromptTemplate = `Based on the current project state, generate a concrete Action Plan to achieve the target outcome: %q.

Context:
Organization: %s
Risks: %s
Scenarios: %s
Goals: %s`

const extractionPromptTemplate = `Extract structured data from the following text for the category: %s.
Text: %q

Current Date: %s (Use this to calculate relative dates like 'next friday').

Return a valid JSON object matching the schema.`

// planRiskContext is how many expanded risks the action plan prompt carries.
const planRiskContext = 5

func buildAnalysisMessages(in *project.Inputs, prev *analysis.Result) ([]llm.Message, error) {
	inputs, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encoding inputs: %w", err)
	}
	previous := "None (First run)"
	if prev != nil {
		b, err := json.Marshal(prev)
		if err != nil {
			return nil, fmt.Errorf("encoding previous analysis: %w", err)
		}
		previous = string(b)
	}
	return []llm.Message{
		{Role: llm.RoleSystem, Content: analysisSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(analysisPromptTemplate, in.Organization, inputs, previous)},
	}, nil
}

func buildPlanMessages(target string, res *analysis.Result, in *project.Inputs) ([]llm.Message, error) {
	risks := res.ExpandedRisks
	if len(risks) > planRiskContext {
		risks = risks[:planRiskContext]
	}
	riskJSON, err := json.Marshal(risks)
	if err != nil {
		return nil, fmt.Errorf("encoding risks: %w", err)
	}
	scenarioJSON, err := json.Marshal(res.Scenarios)
	if err != nil {
		return nil, fmt.Errorf("encoding scenarios: %w", err)
	}
	goalJSON, err := json.Marshal(in.Goals)
	if err != nil {
		return nil, fmt.Errorf("encoding goals: %w", err)
	}
	return []llm.Message{
		{Role: llm.RoleUser, Content: fmt.Sprintf(planPromptTemplate, target, in.Organization, riskJSON, scenarioJSON, goalJSON)},
	}, nil
}

func buildExtractionMessages(c analysis.Category, text string, now time.Time) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleUser, Content: fmt.Sprintf(extractionPromptTemplate, c.Label(), text, now.Format("2006-01-02"))},
	}
}
