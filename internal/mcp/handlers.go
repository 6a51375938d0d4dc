package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/philipobrien-sdm/StratOS/internal/history"
	"github.com/philipobrien-sdm/StratOS/internal/project"
	"github.com/philipobrien-sdm/StratOS/internal/report"
)

func (s *Server) handleGetInputs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.session.Inputs())
}

func (s *Server) handleLoadSample(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := s.session.LoadSample(ctx)
	return mcp.NewToolResultText(fmt.Sprintf(
		"Loaded sample project %q: %d goals, %d stakeholders, %d deliverables, %d risks.",
		in.Organization, len(in.Goals), len(in.Stakeholders), len(in.Deliverables), len(in.KnownRisks),
	)), nil
}

func (s *Server) handleImportText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := request.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: category"), nil
	}
	text, err := request.RequireString("text")
	if err != nil || strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}

	ids, err := s.session.ImportText(ctx, category, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("import failed: %v", err)), nil
	}
	if len(ids) == 0 {
		return mcp.NewToolResultText("No records found in the text."), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Imported %d %s: %s", len(ids), strings.ToLower(category), strings.Join(ids, ", "))), nil
}

func (s *Server) handleRunAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := s.session.RunAnalysis(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return mcp.NewToolResultText(report.Markdown(v, report.Options{})), nil
}

func (s *Server) handleListVersions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	versions := s.session.Versions()
	if len(versions) == 0 {
		return mcp.NewToolResultText("No versions yet. Use run_analysis to create one."), nil
	}

	var sb strings.Builder
	for _, v := range versions {
		marker := " "
		if v.Current {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s v%d  %s  schema %s\n", marker, v.Number, v.Timestamp.Format("2006-01-02 15:04:05"), v.SchemaVersion)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleLoadVersion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := request.RequireInt("version")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: version"), nil
	}
	in, err := s.session.LoadVersion(ctx, n-1)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Version %d is current; inputs for %q restored.", n, in.Organization)), nil
}

func (s *Server) handleAdoptMitigation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mitigation, err := request.RequireString("mitigation")
	if err != nil || strings.TrimSpace(mitigation) == "" {
		return mcp.NewToolResultError("missing required parameter: mitigation"), nil
	}
	riskID := request.GetString("risk_id", "")
	description := request.GetString("description", "")

	if description == "" {
		if riskID == "" {
			return mcp.NewToolResultError("either risk_id or description is required"), nil
		}
		out, err := s.session.AdoptSuggestedMitigation(ctx, riskID, mitigation)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("adopt failed: %v", err)), nil
		}
		return jsonResult(out)
	}

	risk := project.KnownRisk{
		ID:          riskID,
		Description: description,
		Likelihood:  request.GetFloat("likelihood", 0.5),
		Impact:      project.Impact(request.GetInt("impact", 5)),
		Category:    request.GetString("risk_category", "Operational"),
	}
	return jsonResult(s.session.AdoptMitigation(ctx, risk, mitigation))
}

func (s *Server) handleAdoptStrategy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("stakeholder_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: stakeholder_id"), nil
	}
	strategy, err := request.RequireString("strategy")
	if err != nil || strings.TrimSpace(strategy) == "" {
		return mcp.NewToolResultError("missing required parameter: strategy"), nil
	}

	out := s.session.AdoptStrategy(ctx, id, strategy)
	if !out.Applied {
		return mcp.NewToolResultError(fmt.Sprintf("no stakeholder with id %q", id)), nil
	}
	return jsonResult(out)
}

func (s *Server) handleGenerateActionPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := request.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: target"), nil
	}
	plan, err := s.session.GenerateActionPlan(ctx, target)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("action plan failed: %v", err)), nil
	}
	return jsonResult(plan)
}

func (s *Server) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		v   history.Version
		err error
	)
	if n := request.GetInt("version", 0); n > 0 {
		v, err = s.session.Version(n - 1)
	} else {
		v, err = s.session.CurrentVersion()
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no report available: %v", err)), nil
	}

	md, err := report.Compose(s.session, v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rendering report: %v", err)), nil
	}
	return mcp.NewToolResultText(md), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
