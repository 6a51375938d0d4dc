package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/philipobrien-sdm/StratOS/internal/session"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes one planning session as tools.
type Server struct {
	session *session.Session
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server over sess.
func NewServer(sess *session.Session) *Server {
	s := &Server{session: sess}

	s.mcp = server.NewMCPServer(
		"stratos",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(getInputsTool, s.handleGetInputs)
	s.mcp.AddTool(loadSampleTool, s.handleLoadSample)
	s.mcp.AddTool(importTextTool, s.handleImportText)
	s.mcp.AddTool(runAnalysisTool, s.handleRunAnalysis)
	s.mcp.AddTool(listVersionsTool, s.handleListVersions)
	s.mcp.AddTool(loadVersionTool, s.handleLoadVersion)
	s.mcp.AddTool(adoptMitigationTool, s.handleAdoptMitigation)
	s.mcp.AddTool(adoptStrategyTool, s.handleAdoptStrategy)
	s.mcp.AddTool(generateActionPlanTool, s.handleGenerateActionPlan)
	s.mcp.AddTool(getReportTool, s.handleGetReport)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
