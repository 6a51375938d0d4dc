package adoption

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/philipobrien-sdm/StratOS/internal/analysis"
	"github.com/philipobrien-sdm/StratOS/internal/project"
)

func steelRisk() project.KnownRisk {
	return project.KnownRisk{ID: "r1", Description: "Steel price volatility causing budget overrun >15%", Likelihood: 0.7, Impact: 8, Category: "Financial"}
}

func TestAdoptMitigationAppendsBullets(t *testing.T) {
	in := project.New()
	in.KnownRisks = append(in.KnownRisks, steelRisk())

	AdoptMitigation(in, steelRisk(), "Hedge steel futures")
	if got := in.KnownRisks[0].CurrentMitigations.String(); got != "• Hedge steel futures" {
		t.Errorf("after first adoption = %q", got)
	}

	AdoptMitigation(in, steelRisk(), "Lock supplier contract")
	want := "• Hedge steel futures\n• Lock supplier contract"
	if got := in.KnownRisks[0].CurrentMitigations.String(); got != want {
		t.Errorf("after second adoption = %q, want %q", got, want)
	}

	b, _ := json.Marshal(in.KnownRisks[0])
	var wire map[string]any
	json.Unmarshal(b, &wire)
	if wire["currentMitigations"] != want {
		t.Errorf("wire form = %v", wire["currentMitigations"])
	}
}

func TestAdoptMitigationOnExistingRiskTouchesOnlyThatRisk(t *testing.T) {
	in := project.Sample()
	in.KnownRisks[1].CurrentMitigations = project.Log{"Early consultation", "Legal review"}
	before := in.Clone()

	out := AdoptMitigation(in, project.KnownRisk{ID: "r2"}, "Publish environmental statement")
	if out.Created || !out.Applied || out.RecordID != "r2" {
		t.Errorf("outcome = %+v", out)
	}

	got := in.KnownRisks[1].CurrentMitigations
	want := project.Log{"Early consultation", "Legal review", "• Publish environmental statement"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("log = %v, want %v", got, want)
	}
	if len(in.KnownRisks) != len(before.KnownRisks) {
		t.Fatal("risk count changed")
	}
	for _, i := range []int{0, 2} {
		if !reflect.DeepEqual(in.KnownRisks[i], before.KnownRisks[i]) {
			t.Errorf("risk %d changed", i)
		}
	}
	in.KnownRisks[1] = before.KnownRisks[1]
	if !reflect.DeepEqual(in, before) {
		t.Error("records outside the target risk changed")
	}
}

func TestAdoptMitigationCreatesUnknownRisk(t *testing.T) {
	in := project.Sample()
	suggested := project.KnownRisk{ID: "ai-7", Description: "Labour shortage", Likelihood: 1.3, Impact: 14, Category: "Operational"}

	out := AdoptMitigation(in, suggested, "Pre-book contractors")
	if !out.Created || out.RecordID != "ai-7" {
		t.Fatalf("outcome = %+v", out)
	}
	if len(in.KnownRisks) != 4 {
		t.Fatalf("risks = %d, want 4", len(in.KnownRisks))
	}
	r := in.KnownRisks[3]
	if r.Description != "Labour shortage" || r.Category != "Operational" {
		t.Errorf("created risk = %+v", r)
	}
	if r.Likelihood != 1 || r.Impact != 10 {
		t.Errorf("out-of-range values not clamped: %v, %v", r.Likelihood, r.Impact)
	}
	if !reflect.DeepEqual(r.CurrentMitigations, project.Log{"• Pre-book contractors"}) {
		t.Errorf("log = %v", r.CurrentMitigations)
	}
}

func TestAdoptMitigationAssignsFreshIdentity(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"empty id", ""},
		{"collides with a goal", "g1"},
		{"collides with a stakeholder", "s2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := project.Sample()
			out := AdoptMitigation(in, project.KnownRisk{ID: tt.id, Description: "x", Likelihood: 0.2, Impact: 3}, "m")
			if !out.Created {
				t.Fatal("expected a new risk")
			}
			if out.RecordID == "" || out.RecordID == tt.id {
				t.Errorf("identity = %q", out.RecordID)
			}
			count := 0
			for _, r := range in.KnownRisks {
				if r.ID == out.RecordID {
					count++
				}
			}
			if count != 1 || in.FindStakeholder(out.RecordID) >= 0 {
				t.Errorf("identity %q is not unique", out.RecordID)
			}
		})
	}
}

func TestAdoptMitigationKeepsTypedLines(t *testing.T) {
	var r project.KnownRisk
	typed := `{"id":"r1","description":"Steel price volatility","likelihood":0.7,"impact":8,"currentMitigations":"Fixed price contract for 40% of steel\n- weekly review"}`
	if err := json.Unmarshal([]byte(typed), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	in := project.New()
	in.KnownRisks = append(in.KnownRisks, r)

	AdoptMitigation(in, steelRisk(), "Hedge steel futures")
	want := "Fixed price contract for 40% of steel\n- weekly review\n• Hedge steel futures"
	if got := in.KnownRisks[0].CurrentMitigations.String(); got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
}

func TestAdoptMitigationMultilineTextIsOneEntry(t *testing.T) {
	in := project.New()
	in.KnownRisks = append(in.KnownRisks, steelRisk())
	AdoptMitigation(in, steelRisk(), "Step one\nStep two")

	data, _ := json.Marshal(in.KnownRisks[0])
	var back project.KnownRisk
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(back.CurrentMitigations) != 1 || back.CurrentMitigations.String() != "• Step one Step two" {
		t.Errorf("log = %q", back.CurrentMitigations)
	}
}

func TestAdoptMitigationRepeatedTextAppendsTwice(t *testing.T) {
	in := project.Sample()
	AdoptMitigation(in, project.KnownRisk{ID: "r3"}, "Raise cofferdam")
	AdoptMitigation(in, project.KnownRisk{ID: "r3"}, "Raise cofferdam")
	if n := len(in.KnownRisks[2].CurrentMitigations); n != 2 {
		t.Errorf("entries = %d, want 2", n)
	}
}

func TestAdoptStrategy(t *testing.T) {
	in := project.Sample()
	out := AdoptStrategy(in, "s3", "Monthly ecology briefings")
	if !out.Applied {
		t.Fatal("strategy not applied")
	}
	AdoptStrategy(in, "s3", "Fund wetland offset")
	if got := in.Stakeholders[2].EngagementStrategy.String(); got != "• Monthly ecology briefings\n• Fund wetland offset" {
		t.Errorf("log = %q", got)
	}
}

func TestAdoptStrategyUnknownStakeholderIsNoOp(t *testing.T) {
	snapshots := []*project.Inputs{project.New(), project.Sample()}
	withLogs := project.Sample()
	withLogs.Stakeholders[0].EngagementStrategy = project.Log{"a"}
	snapshots = append(snapshots, withLogs)

	for _, in := range snapshots {
		for _, id := range []string{"", "missing", "r1", "g1"} {
			before := in.Clone()
			out := AdoptStrategy(in, id, "Anything")
			if out.Applied {
				t.Errorf("AdoptStrategy(%q) reported applied", id)
			}
			if !reflect.DeepEqual(in, before) {
				t.Errorf("AdoptStrategy(%q) changed the snapshot", id)
			}
		}
	}
}

func TestMergeExtraction(t *testing.T) {
	in := project.Sample()
	ex := &analysis.Extraction{
		Category: analysis.CategoryStakeholders,
		Stakeholders: []analysis.StakeholderDraft{
			{Name: "Port Authority", Role: "Regulator", Influence: project.LevelHigh},
			{Name: "Residents", Role: "Community", Interest: project.LevelHigh, BaseSupport: project.SupportDetractor},
		},
	}
	ids := MergeExtraction(in, ex)
	if len(ids) != 2 || ids[0] == ids[1] {
		t.Fatalf("ids = %v", ids)
	}
	if len(in.Stakeholders) != 6 {
		t.Fatalf("stakeholders = %d", len(in.Stakeholders))
	}
	port := in.Stakeholders[4]
	if port.ID != ids[0] || port.Interest != project.LevelLow || port.BaseSupport != project.SupportNeutral {
		t.Errorf("defaults not applied: %+v", port)
	}
	if res := in.Stakeholders[5]; res.Influence != project.LevelLow || res.BaseSupport != project.SupportDetractor {
		t.Errorf("second draft = %+v", res)
	}
	for _, id := range ids {
		if project.Sample().HasID(id) {
			t.Errorf("merged id %q collides with an existing record", id)
		}
	}
}

func TestMergeExtractionOtherLists(t *testing.T) {
	in := project.New()
	MergeExtraction(in, &analysis.Extraction{Category: analysis.CategoryGoals, Goals: []analysis.GoalDraft{{Description: "Cut travel time"}}})
	MergeExtraction(in, &analysis.Extraction{Category: analysis.CategoryDeliverables, Deliverables: []analysis.DeliverableDraft{{Name: "Survey", DueDate: "2026-01-10"}}})
	MergeExtraction(in, &analysis.Extraction{Category: analysis.CategoryRisks, Risks: []analysis.RiskDraft{{Description: "Flood", Likelihood: 0.2, Impact: 9}}})

	if len(in.Goals) != 1 || in.Goals[0].Type != project.GoalPrimary {
		t.Errorf("goals = %+v", in.Goals)
	}
	if len(in.Deliverables) != 1 || in.Deliverables[0].DueDate != "2026-01-10" {
		t.Errorf("deliverables = %+v", in.Deliverables)
	}
	if len(in.KnownRisks) != 1 || in.KnownRisks[0].Category != "Operational" || in.KnownRisks[0].Impact != 9 {
		t.Errorf("risks = %+v", in.KnownRisks)
	}
	if MergeExtraction(in, nil) != nil {
		t.Error("nil extraction should merge nothing")
	}
}
