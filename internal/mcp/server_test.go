package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/philipobrien-sdm/StratOS/internal/analysis"
	"github.com/philipobrien-sdm/StratOS/internal/project"
	"github.com/philipobrien-sdm/StratOS/internal/session"
)

type mockReasoner struct {
	err error
}

func (m *mockReasoner) RequestAnalysis(ctx context.Context, in *project.Inputs, prev *analysis.Result) (*analysis.Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &analysis.Result{
		ExecutiveSummary: "Bridge is viable if the judicial review is headed off.",
		ExpandedRisks: []analysis.ExpandedRisk{
			{KnownRisk: project.KnownRisk{ID: "r2", Description: "Judicial review", Likelihood: 0.6, Impact: 9}},
		},
	}, nil
}

func (m *mockReasoner) RequestExtraction(ctx context.Context, category, text string) (*analysis.Extraction, error) {
	if _, err := analysis.ParseCategory(category); err != nil {
		return nil, err
	}
	return &analysis.Extraction{
		Category: analysis.CategoryGoals,
		Goals:    []analysis.GoalDraft{{Description: "Cut journey times"}},
	}, nil
}

func (m *mockReasoner) RequestActionPlan(ctx context.Context, target string, res *analysis.Result, in *project.Inputs) (*analysis.ActionPlan, error) {
	return &analysis.ActionPlan{TargetOutcome: target, Steps: []analysis.PlanStep{{Order: 1, Action: "Brief the mayor"}}}, nil
}

func newTestServer() (*Server, *session.Session) {
	sess := session.New(&mockReasoner{}, session.Options{})
	return NewServer(sess), sess
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// extractText gets the text content from a CallToolResult.
func extractText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestToolDefinitions(t *testing.T) {
	tools := []mcp.Tool{
		getInputsTool, loadSampleTool, importTextTool, runAnalysisTool, listVersionsTool,
		loadVersionTool, adoptMitigationTool, adoptStrategyTool, generateActionPlanTool, getReportTool,
	}
	seen := map[string]bool{}
	for _, tool := range tools {
		if tool.Name == "" || tool.Description == "" {
			t.Errorf("tool %q is missing a name or description", tool.Name)
		}
		if seen[tool.Name] {
			t.Errorf("duplicate tool %q", tool.Name)
		}
		seen[tool.Name] = true
	}
}

func TestNewServer(t *testing.T) {
	srv, sess := newTestServer()
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.session != sess {
		t.Error("session not set correctly")
	}
}

func TestAnalysisWorkflow(t *testing.T) {
	srv, sess := newTestServer()
	ctx := context.Background()

	result, err := srv.handleListVersions(ctx, call(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(extractText(result), "No versions") {
		t.Errorf("list on empty history = %q", extractText(result))
	}

	result, _ = srv.handleLoadSample(ctx, call(nil))
	if !strings.Contains(extractText(result), "Rivertown Town Council") {
		t.Errorf("load_sample = %q", extractText(result))
	}

	result, _ = srv.handleRunAnalysis(ctx, call(nil))
	if result.IsError {
		t.Fatalf("run_analysis: %s", extractText(result))
	}
	if !strings.Contains(extractText(result), "judicial review is headed off") {
		t.Errorf("run_analysis text = %q", extractText(result))
	}
	srv.handleRunAnalysis(ctx, call(nil))

	result, _ = srv.handleListVersions(ctx, call(nil))
	text := extractText(result)
	if !strings.Contains(text, "  v1") || !strings.Contains(text, "* v2") {
		t.Errorf("list_versions = %q", text)
	}

	result, _ = srv.handleLoadVersion(ctx, call(map[string]any{"version": float64(1)}))
	if result.IsError {
		t.Fatalf("load_version: %s", extractText(result))
	}
	if sess.CurrentIndex() != 0 {
		t.Errorf("current index = %d", sess.CurrentIndex())
	}

	result, _ = srv.handleLoadVersion(ctx, call(map[string]any{"version": float64(9)}))
	if !result.IsError {
		t.Error("expected error for unknown version")
	}

	result, _ = srv.handleGetReport(ctx, call(map[string]any{"version": float64(2)}))
	if !strings.Contains(extractText(result), "strategy report v2") {
		t.Errorf("get_report = %q", extractText(result))
	}
}

func TestAnalysisFailureIsToolError(t *testing.T) {
	sess := session.New(&mockReasoner{err: analysis.ErrMalformedResponse}, session.Options{})
	srv := NewServer(sess)

	result, err := srv.handleRunAnalysis(context.Background(), call(nil))
	if err != nil {
		t.Fatalf("protocol error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error")
	}
	if sess.HistoryLen() != 0 {
		t.Errorf("history length = %d", sess.HistoryLen())
	}
}

func TestAdoptTools(t *testing.T) {
	srv, sess := newTestServer()
	ctx := context.Background()

	result, _ := srv.handleAdoptMitigation(ctx, call(map[string]any{"risk_id": "r2", "mitigation": "Early consultation"}))
	if !result.IsError {
		t.Error("expected error adopting a suggestion before any analysis")
	}

	srv.handleLoadSample(ctx, call(nil))
	srv.handleRunAnalysis(ctx, call(nil))

	result, _ = srv.handleAdoptMitigation(ctx, call(map[string]any{"risk_id": "r2", "mitigation": "Early consultation"}))
	if result.IsError {
		t.Fatalf("adopt_mitigation: %s", extractText(result))
	}
	if got := sess.Inputs().KnownRisks[1].CurrentMitigations.Entries(); len(got) != 1 || got[0] != "Early consultation" {
		t.Errorf("r2 mitigations = %v", got)
	}

	result, _ = srv.handleAdoptMitigation(ctx, call(map[string]any{
		"description": "Contractor insolvency",
		"likelihood":  float64(0.2),
		"impact":      float64(7),
		"mitigation":  "Parent company guarantee",
	}))
	if result.IsError {
		t.Fatalf("adopt new risk: %s", extractText(result))
	}
	risks := sess.Inputs().KnownRisks
	last := risks[len(risks)-1]
	if last.Description != "Contractor insolvency" || last.Impact != 7 || last.ID == "" {
		t.Errorf("new risk = %+v", last)
	}

	result, _ = srv.handleAdoptStrategy(ctx, call(map[string]any{"stakeholder_id": "s1", "strategy": "Weekly newsletter"}))
	if result.IsError {
		t.Fatalf("adopt_strategy: %s", extractText(result))
	}
	result, _ = srv.handleAdoptStrategy(ctx, call(map[string]any{"stakeholder_id": "nobody", "strategy": "x"}))
	if !result.IsError {
		t.Error("expected error for unknown stakeholder")
	}
}

func TestImportAndPlanTools(t *testing.T) {
	srv, sess := newTestServer()
	ctx := context.Background()

	result, _ := srv.handleImportText(ctx, call(map[string]any{"category": "Goals", "text": "We must cut journey times."}))
	if result.IsError {
		t.Fatalf("import_text: %s", extractText(result))
	}
	if got := sess.Inputs().Goals; len(got) != 1 || got[0].Description != "Cut journey times" {
		t.Errorf("goals = %+v", got)
	}

	result, _ = srv.handleImportText(ctx, call(map[string]any{"category": "Budgets", "text": "x"}))
	if !result.IsError {
		t.Error("expected error for invalid category")
	}

	result, _ = srv.handleGenerateActionPlan(ctx, call(map[string]any{"target": "Open on time"}))
	if !result.IsError {
		t.Error("expected error planning without an analysis")
	}

	srv.handleRunAnalysis(ctx, call(nil))
	result, _ = srv.handleGenerateActionPlan(ctx, call(map[string]any{"target": "Open on time"}))
	if result.IsError {
		t.Fatalf("generate_action_plan: %s", extractText(result))
	}
	if !strings.Contains(extractText(result), "Brief the mayor") {
		t.Errorf("plan = %q", extractText(result))
	}

	result, _ = srv.handleGetInputs(ctx, call(nil))
	if !strings.Contains(extractText(result), "Cut journey times") {
		t.Errorf("get_inputs = %q", extractText(result))
	}
}
