package analysis

import "github.com/philipobrien-sdm/StratOS/internal/project"

// ScenarioType tags a scenario as best, probable or worst case.
type ScenarioType string

const (
	ScenarioBestCase     ScenarioType = "Best Reasonable Case"
	ScenarioProbableCase ScenarioType = "Probable Case"
	ScenarioWorstCase    ScenarioType = "Reasonable Worst Case"
)

// Scenario is one projected outcome of the project.
type Scenario struct {
	Title            string       `json:"title"`
	Type             ScenarioType `json:"type"`
	Narrative        string       `json:"narrative"`
	Probability      float64      `json:"probability"`     // 0-100
	ImpactLevel      float64      `json:"impactLevel"`     // 1-10
	EffortToAchieve  float64      `json:"effortToAchieve"` // 1-10
	FragilityMarkers []string     `json:"fragilityMarkers"`
}

// Mitigation is a suggested countermeasure for one risk.
type Mitigation struct {
	RiskID        string  `json:"riskId"`
	Action        string  `json:"action"`
	EffortCost    float64 `json:"effortCost"`
	Effectiveness float64 `json:"effectiveness"`
	ResidualRisk  float64 `json:"residualRisk"` // residual likelihood, 0-1
}

// ExpandedRisk is a known or model-discovered risk with its suggested mitigations.
type ExpandedRisk struct {
	project.KnownRisk
	IsAIGenerated    bool         `json:"isAIGenerated"`
	ContagionEffects []string     `json:"contagionEffects,omitempty"`
	Cluster          string       `json:"cluster,omitempty"`
	Mitigations      []Mitigation `json:"mitigations,omitempty"`
}

// StakeholderStrategy is the predicted behaviour of, and the plan for, one stakeholder.
type StakeholderStrategy struct {
	StakeholderID        string   `json:"stakeholderId"`
	PredictedBehaviour   string   `json:"predictedBehaviour"`
	LeveragePoints       []string `json:"leveragePoints"`
	CommunicationCadence string   `json:"communicationCadence"`
}

// DecisionGate is a named checkpoint with its entry, exit and failure criteria.
type DecisionGate struct {
	Name              string   `json:"name"`
	Purpose           string   `json:"purpose"`
	EntryCriteria     []string `json:"entryCriteria"`
	ExitCriteria      []string `json:"exitCriteria"`
	FailureConditions []string `json:"failureConditions"`
}

// Result is the structured analysis bound to one project version.
type Result struct {
	Scenarios             []Scenario            `json:"scenarios"`
	ExpandedRisks         []ExpandedRisk        `json:"expandedRisks"`
	StakeholderStrategies []StakeholderStrategy `json:"stakeholderStrategies"`
	DecisionGates         []DecisionGate        `json:"decisionGates"`
	Deltas                []string              `json:"deltas"`
	ExecutiveSummary      string                `json:"executiveSummary"`
}

// PlanStep is one ordered action of an action plan.
type PlanStep struct {
	Order  int    `json:"order"`
	Action string `json:"action"`
	Owner  string `json:"owner"`
}

// ActionPlan is the transient result of targeting an outcome. It is never versioned.
type ActionPlan struct {
	TargetOutcome                string     `json:"targetOutcome"`
	Steps                        []PlanStep `json:"steps"`
	CumulativeCost               float64    `json:"cumulativeCost"`
	ResidualProbabilityOfFailure float64    `json:"residualProbabilityOfFailure"`
	NewRisks                     []string   `json:"newRisks"`
}

// Clone returns a deep copy of r.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := &Result{
		ExecutiveSummary:      r.ExecutiveSummary,
		Deltas:                cloneStrings(r.Deltas),
		Scenarios:             make([]Scenario, len(r.Scenarios)),
		ExpandedRisks:         make([]ExpandedRisk, len(r.ExpandedRisks)),
		StakeholderStrategies: make([]StakeholderStrategy, len(r.StakeholderStrategies)),
		DecisionGates:         make([]DecisionGate, len(r.DecisionGates)),
	}
	for i, s := range r.Scenarios {
		s.FragilityMarkers = cloneStrings(s.FragilityMarkers)
		out.Scenarios[i] = s
	}
	for i, er := range r.ExpandedRisks {
		er.CurrentMitigations = er.CurrentMitigations.Clone()
		er.ContagionEffects = cloneStrings(er.ContagionEffects)
		if er.Mitigations != nil {
			er.Mitigations = append([]Mitigation{}, er.Mitigations...)
		}
		out.ExpandedRisks[i] = er
	}
	for i, ss := range r.StakeholderStrategies {
		ss.LeveragePoints = cloneStrings(ss.LeveragePoints)
		out.StakeholderStrategies[i] = ss
	}
	for i, g := range r.DecisionGates {
		g.EntryCriteria = cloneStrings(g.EntryCriteria)
		g.ExitCriteria = cloneStrings(g.ExitCriteria)
		g.FailureConditions = cloneStrings(g.FailureConditions)
		out.DecisionGates[i] = g
	}
	return out
}

// Risk returns the expanded risk with the given id.
func (r *Result) Risk(id string) (ExpandedRisk, bool) {
	if r == nil || id == "" {
		return ExpandedRisk{}, false
	}
	for _, er := range r.ExpandedRisks {
		if er.ID == id {
			return er, true
		}
	}
	return ExpandedRisk{}, false
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}
