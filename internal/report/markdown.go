// Package report renders a project version as Markdown and HTML.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/philipobrien-sdm/StratOS/internal/analysis"
	"github.com/philipobrien-sdm/StratOS/internal/history"
	"github.com/philipobrien-sdm/StratOS/internal/project"
)

// Options adds optional sections to a report.
type Options struct {
	// Changes is a unified diff of the inputs against PreviousNumber.
	Changes        string
	PreviousNumber int
	// Plan is the last action plan, if one should be included.
	Plan *analysis.ActionPlan
}

// Title returns the report heading for v.
func Title(v history.Version) string {
	org := "Untitled project"
	if v.Inputs != nil && strings.TrimSpace(v.Inputs.Organization) != "" {
		org = v.Inputs.Organization
	}
	return fmt.Sprintf("%s: strategy report v%d", org, v.Number)
}

// Markdown renders v and its analysis.
func Markdown(v history.Version, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", Title(v))
	fmt.Fprintf(&b, "_Generated %s, schema %s._\n\n", v.Timestamp.UTC().Format("2006-01-02 15:04 MST"), v.SchemaVersion)

	res := v.Analysis
	if res == nil {
		b.WriteString("No analysis is bound to this version.\n")
		return b.String()
	}

	if res.ExecutiveSummary != "" {
		b.WriteString("## Executive summary\n\n")
		b.WriteString(strings.TrimSpace(res.ExecutiveSummary))
		b.WriteString("\n\n")
	}

	if len(res.Deltas) > 0 {
		b.WriteString("## What changed\n\n")
		writeList(&b, res.Deltas)
	}

	if len(res.Scenarios) > 0 {
		b.WriteString("## Scenarios\n\n")
		for _, s := range res.Scenarios {
			title := string(s.Type)
			if s.Title != "" {
				title = fmt.Sprintf("%s (%s)", s.Title, s.Type)
			}
			fmt.Fprintf(&b, "### %s\n\n", title)
			fmt.Fprintf(&b, "Probability %.0f%% · impact %.0f/10 · effort %.0f/10\n\n", s.Probability, s.ImpactLevel, s.EffortToAchieve)
			if s.Narrative != "" {
				b.WriteString(strings.TrimSpace(s.Narrative))
				b.WriteString("\n\n")
			}
			if len(s.FragilityMarkers) > 0 {
				b.WriteString("Fragility markers:\n\n")
				writeList(&b, s.FragilityMarkers)
			}
		}
	}

	if len(res.ExpandedRisks) > 0 {
		b.WriteString("## Risks\n\n")
		b.WriteString("| Risk | Category | Likelihood | Impact | Exposure | Source |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, r := range byExposure(res.ExpandedRisks) {
			source := "known"
			if r.IsAIGenerated {
				source = "discovered"
			}
			fmt.Fprintf(&b, "| %s | %s | %.2f | %d | %.1f | %s |\n",
				cell(r.Description), cell(r.Category), r.Likelihood, r.Impact, exposure(r.KnownRisk), source)
		}
		b.WriteString("\n")

		for _, r := range res.ExpandedRisks {
			if len(r.Mitigations) == 0 && len(r.ContagionEffects) == 0 {
				continue
			}
			fmt.Fprintf(&b, "### %s\n\n", strings.TrimSpace(r.Description))
			if r.Cluster != "" {
				fmt.Fprintf(&b, "Cluster: %s\n\n", r.Cluster)
			}
			if len(r.ContagionEffects) > 0 {
				b.WriteString("Contagion effects:\n\n")
				writeList(&b, r.ContagionEffects)
			}
			if len(r.Mitigations) > 0 {
				b.WriteString("| Mitigation | Effort | Effectiveness | Residual likelihood |\n")
				b.WriteString("|---|---|---|---|\n")
				for _, m := range r.Mitigations {
					fmt.Fprintf(&b, "| %s | %.0f | %.0f | %.2f |\n", cell(m.Action), m.EffortCost, m.Effectiveness, m.ResidualRisk)
				}
				b.WriteString("\n")
			}
		}
	}

	if len(res.StakeholderStrategies) > 0 {
		b.WriteString("## Stakeholder strategies\n\n")
		for _, s := range res.StakeholderStrategies {
			fmt.Fprintf(&b, "### %s\n\n", stakeholderName(v.Inputs, s.StakeholderID))
			if s.PredictedBehaviour != "" {
				b.WriteString(strings.TrimSpace(s.PredictedBehaviour))
				b.WriteString("\n\n")
			}
			if s.CommunicationCadence != "" {
				fmt.Fprintf(&b, "Cadence: %s\n\n", s.CommunicationCadence)
			}
			if len(s.LeveragePoints) > 0 {
				b.WriteString("Leverage points:\n\n")
				writeList(&b, s.LeveragePoints)
			}
		}
	}

	if len(res.DecisionGates) > 0 {
		b.WriteString("## Decision gates\n\n")
		for i, g := range res.DecisionGates {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, g.Name)
			if g.Purpose != "" {
				b.WriteString(strings.TrimSpace(g.Purpose))
				b.WriteString("\n\n")
			}
			writeCriteria(&b, "Entry criteria", g.EntryCriteria)
			writeCriteria(&b, "Exit criteria", g.ExitCriteria)
			writeCriteria(&b, "Failure conditions", g.FailureConditions)
		}
	}

	if p := opts.Plan; p != nil {
		fmt.Fprintf(&b, "## Action plan: %s\n\n", p.TargetOutcome)
		for _, s := range p.Steps {
			owner := ""
			if s.Owner != "" {
				owner = fmt.Sprintf(" (%s)", s.Owner)
			}
			fmt.Fprintf(&b, "%d. %s%s\n", s.Order, strings.TrimSpace(s.Action), owner)
		}
		fmt.Fprintf(&b, "\nCumulative cost %.0f, residual probability of failure %.0f%%.\n\n", p.CumulativeCost, p.ResidualProbabilityOfFailure*100)
		if len(p.NewRisks) > 0 {
			b.WriteString("New risks introduced:\n\n")
			writeList(&b, p.NewRisks)
		}
	}

	if strings.TrimSpace(opts.Changes) != "" {
		fmt.Fprintf(&b, "## Input changes since v%d\n\n", opts.PreviousNumber)
		b.WriteString("```diff\n")
		b.WriteString(strings.TrimRight(opts.Changes, "\n"))
		b.WriteString("\n```\n")
	}

	return b.String()
}

func writeList(b *strings.Builder, items []string) {
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", strings.TrimSpace(it))
	}
	b.WriteString("\n")
}

func writeCriteria(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n\n", label)
	writeList(b, items)
}

// cell makes s safe inside a Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func exposure(r project.KnownRisk) float64 {
	return project.ClampLikelihood(r.Likelihood) * float64(project.ClampImpact(r.Impact))
}

// byExposure orders risks by likelihood x impact, highest first.
func byExposure(risks []analysis.ExpandedRisk) []analysis.ExpandedRisk {
	out := append([]analysis.ExpandedRisk{}, risks...)
	sort.SliceStable(out, func(i, j int) bool {
		return exposure(out[i].KnownRisk) > exposure(out[j].KnownRisk)
	})
	return out
}

func stakeholderName(in *project.Inputs, id string) string {
	if in != nil {
		if i := in.FindStakeholder(id); i >= 0 {
			s := in.Stakeholders[i]
			if s.Role != "" {
				return fmt.Sprintf("%s (%s)", s.Name, s.Role)
			}
			return s.Name
		}
	}
	if id == "" {
		return "Unnamed stakeholder"
	}
	return id
}

// Source is what Compose needs from a session.
type Source interface {
	Diff(a, b int) (string, error)
	CurrentIndex() int
	ActionPlan() *analysis.ActionPlan
}

// Compose renders v as Markdown with the input changes since the previous
// version and, when v is current, the last action plan.
func Compose(src Source, v history.Version) (string, error) {
	var opts Options
	if v.Number > 1 {
		changes, err := src.Diff(v.Number-2, v.Number-1)
		if err != nil {
			return "", err
		}
		opts.Changes = changes
		opts.PreviousNumber = v.Number - 1
	}
	if v.Number == src.CurrentIndex()+1 {
		opts.Plan = src.ActionPlan()
	}
	return Markdown(v, opts), nil
}
