package project

// GoalType distinguishes primary goals from supporting ones.
type GoalType string

const (
	GoalPrimary   GoalType = "Primary"
	GoalSecondary GoalType = "Secondary"
)

// Level is a two-step Low/High rating used for stakeholder influence and interest.
type Level string

const (
	LevelLow  Level = "Low"
	LevelHigh Level = "High"
)

// Support is a stakeholder's baseline stance toward the project.
type Support string

const (
	SupportSupporter Support = "Supporter"
	SupportNeutral   Support = "Neutral"
	SupportDetractor Support = "Detractor"
)

// Goal is a project objective.
type Goal struct {
	ID              string   `json:"id" yaml:"id"`
	Description     string   `json:"description" yaml:"description"`
	Type            GoalType `json:"type" yaml:"type"`
	SuccessCriteria string   `json:"successCriteria" yaml:"success_criteria"`
}

// Stakeholder is a person or group with a stake in the outcome.
type Stakeholder struct {
	ID                 string  `json:"id" yaml:"id"`
	Name               string  `json:"name" yaml:"name"`
	Role               string  `json:"role" yaml:"role"`
	Influence          Level   `json:"influence" yaml:"influence"`
	Interest           Level   `json:"interest" yaml:"interest"`
	BaseSupport        Support `json:"baseSupport" yaml:"base_support"`
	EngagementStrategy Log     `json:"engagementStrategy,omitempty" yaml:"engagement_strategy,omitempty"`
}

// Deliverable is a dated output of the project. Dependencies are free text
// and are not checked against other deliverables.
type Deliverable struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	DueDate      string `json:"dueDate" yaml:"due_date"`
	Dependencies string `json:"dependencies" yaml:"dependencies"`
}

// KnownRisk is a risk the user is tracking.
// Likelihood is expected in [0,1] and Impact in [1,10]; neither is enforced.
type KnownRisk struct {
	ID                 string  `json:"id" yaml:"id"`
	Description        string  `json:"description" yaml:"description"`
	Likelihood         float64 `json:"likelihood" yaml:"likelihood"`
	Impact             Impact  `json:"impact" yaml:"impact"`
	Category           string  `json:"category" yaml:"category"`
	CurrentMitigations Log     `json:"currentMitigations,omitempty" yaml:"current_mitigations,omitempty"`
}

// Inputs is the user-editable project definition. A session holds exactly
// one working copy; history holds deep copies of it.
type Inputs struct {
	Organization string        `json:"organization" yaml:"organization"`
	Goals        []Goal        `json:"goals" yaml:"goals"`
	Stakeholders []Stakeholder `json:"stakeholders" yaml:"stakeholders"`
	Deliverables []Deliverable `json:"deliverables" yaml:"deliverables"`
	KnownRisks   []KnownRisk   `json:"knownRisks" yaml:"known_risks"`
}

// New returns an empty snapshot with non-nil lists so it serializes as [] rather than null.
func New() *Inputs {
	return &Inputs{
		Goals:        []Goal{},
		Stakeholders: []Stakeholder{},
		Deliverables: []Deliverable{},
		KnownRisks:   []KnownRisk{},
	}
}

// Clone returns a deep copy of in. Mutating the copy never affects in.
func (in *Inputs) Clone() *Inputs {
	if in == nil {
		return New()
	}
	out := &Inputs{
		Organization: in.Organization,
		Goals:        append([]Goal{}, in.Goals...),
		Deliverables: append([]Deliverable{}, in.Deliverables...),
		Stakeholders: make([]Stakeholder, len(in.Stakeholders)),
		KnownRisks:   make([]KnownRisk, len(in.KnownRisks)),
	}
	for i, s := range in.Stakeholders {
		s.EngagementStrategy = s.EngagementStrategy.Clone()
		out.Stakeholders[i] = s
	}
	for i, r := range in.KnownRisks {
		r.CurrentMitigations = r.CurrentMitigations.Clone()
		out.KnownRisks[i] = r
	}
	return out
}

// FindRisk returns the index of the risk with the given id, or -1.
// An empty id never matches.
func (in *Inputs) FindRisk(id string) int {
	if id == "" {
		return -1
	}
	for i, r := range in.KnownRisks {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// FindStakeholder returns the index of the stakeholder with the given id, or -1.
func (in *Inputs) FindStakeholder(id string) int {
	if id == "" {
		return -1
	}
	for i, s := range in.Stakeholders {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// HasID reports whether any record in any list carries id.
func (in *Inputs) HasID(id string) bool {
	for _, g := range in.Goals {
		if g.ID == id {
			return true
		}
	}
	for _, s := range in.Stakeholders {
		if s.ID == id {
			return true
		}
	}
	for _, d := range in.Deliverables {
		if d.ID == id {
			return true
		}
	}
	for _, r := range in.KnownRisks {
		if r.ID == id {
			return true
		}
	}
	return false
}
