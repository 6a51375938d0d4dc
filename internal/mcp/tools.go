package mcp

import "github.com/mark3labs/mcp-go/mcp"

var getInputsTool = mcp.NewTool("get_inputs",
	mcp.WithDescription("Get the current project inputs: organization, goals, stakeholders, deliverables and known risks."),
)

var loadSampleTool = mcp.NewTool("load_sample",
	mcp.WithDescription("Replace the current project inputs with the bundled sample project (a town bridge scheme)."),
)

var importTextTool = mcp.NewTool("import_text",
	mcp.WithDescription("Extract records of one category from unstructured text (minutes, emails, briefs) and append them to the project inputs."),
	mcp.WithString("category",
		mcp.Required(),
		mcp.Description("Which list to extract records for"),
		mcp.Enum("Goals", "Stakeholders", "Deliverables", "Risks"),
	),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Source text to extract from"),
	),
)

var runAnalysisTool = mcp.NewTool("run_analysis",
	mcp.WithDescription("Analyze the current project inputs: scenarios, expanded risks, stakeholder strategies and decision gates. Creates a new version."),
)

var listVersionsTool = mcp.NewTool("list_versions",
	mcp.WithDescription("List analyzed versions with their numbers and timestamps. The current version is marked."),
)

var loadVersionTool = mcp.NewTool("load_version",
	mcp.WithDescription("Make an earlier version current and restore its inputs for editing."),
	mcp.WithNumber("version",
		mcp.Required(),
		mcp.Description("Version number, starting at 1"),
	),
)

// adoptMitigationTool accepts either a risk_id from the current analysis or
// a full risk description for a risk that is not tracked yet.
var adoptMitigationTool = mcp.NewTool("adopt_mitigation",
	mcp.WithDescription("Adopt a mitigation against a risk. The risk is added to the inputs if it is not tracked yet."),
	mcp.WithString("mitigation",
		mcp.Required(),
		mcp.Description("The mitigation action to log"),
	),
	mcp.WithString("risk_id",
		mcp.Description("Identity of a risk in the inputs or the current analysis"),
	),
	mcp.WithString("description",
		mcp.Description("Risk description, when adopting against a new risk"),
	),
	mcp.WithNumber("likelihood",
		mcp.Description("Likelihood of a new risk, 0 to 1"),
	),
	mcp.WithNumber("impact",
		mcp.Description("Impact of a new risk, 1 to 10"),
	),
	mcp.WithString("risk_category",
		mcp.Description("Category of a new risk"),
	),
)

var adoptStrategyTool = mcp.NewTool("adopt_strategy",
	mcp.WithDescription("Log an engagement strategy against a stakeholder."),
	mcp.WithString("stakeholder_id",
		mcp.Required(),
		mcp.Description("Identity of the stakeholder"),
	),
	mcp.WithString("strategy",
		mcp.Required(),
		mcp.Description("The engagement strategy to log"),
	),
)

var generateActionPlanTool = mcp.NewTool("generate_action_plan",
	mcp.WithDescription("Generate an ordered action plan toward a target outcome, based on the current analysis."),
	mcp.WithString("target",
		mcp.Required(),
		mcp.Description("The outcome to plan for"),
	),
)

var getReportTool = mcp.NewTool("get_report",
	mcp.WithDescription("Get the strategy report for a version as Markdown."),
	mcp.WithNumber("version",
		mcp.Description("Version number, starting at 1 (default: current)"),
	),
)
