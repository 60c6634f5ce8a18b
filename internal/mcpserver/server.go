// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Vitalis scoring and evaluation tools via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/vitalis/internal/api"
	"github.com/starford/vitalis/internal/models"
)

// Server wraps the MCP server with Vitalis tools.
type Server struct {
	mcp *server.MCPServer
	svc *api.Service
}

// New creates a new MCP server with all Vitalis tools registered.
func New(svc *api.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Vitalis",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("score_note",
		mcp.WithDescription("Score one Markdown note against the ten-point quality rubric. "+
			"Content should follow the canonical note format (YAML frontmatter, purpose "+
			"statement, metadata lines, [[wikilinks]]). Read the rubric first via the "+
			"get_rubric_contract tool or the vitalis://rubric resource."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown note content to score")),
	), s.scoreNote)

	s.mcp.AddTool(mcp.NewTool("evaluate_extraction",
		mcp.WithDescription("Evaluate extracted notes against a scenario's ground truth. "+
			"Returns precision/recall/F1 for duplicate detection plus consolidation, "+
			"tag-reuse, and connection metrics."),
		mcp.WithString("scenario", mcp.Required(), mcp.Description("Scenario ground truth as a JSON object")),
		mcp.WithString("notes", mcp.Required(), mcp.Description("Extracted notes as a JSON array")),
	), s.evaluateExtraction)

	s.mcp.AddTool(mcp.NewTool("get_rubric_contract",
		mcp.WithDescription("Returns the canonical quality rubric and note format contract. "+
			"Call this before authoring notes meant to score well."),
	), s.getRubricContract)

	s.mcp.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List recent evaluation runs with their headline metrics."),
		mcp.WithString("limit", mcp.Description("Optional max number of runs (default 20)")),
	), s.listRuns)

	// Resource: rubric contract.
	s.mcp.AddResource(
		mcp.NewResource("vitalis://rubric", "Quality Rubric Contract",
			mcp.WithResourceDescription("The ten-point note quality rubric and the note format it scores."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRubricResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) scoreNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	evaluation, err := s.svc.Score(ctx, []byte(content))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(evaluation, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) evaluateExtraction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scenarioJSON, err := req.RequireString("scenario")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notesJSON, err := req.RequireString("notes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var scenario models.TestScenario
	if err := json.Unmarshal([]byte(scenarioJSON), &scenario); err != nil {
		return mcp.NewToolResultError("invalid scenario JSON: " + err.Error()), nil
	}
	var notes []models.ExtractedNoteResult
	if err := json.Unmarshal([]byte(notesJSON), &notes); err != nil {
		return mcp.NewToolResultError("invalid notes JSON: " + err.Error()), nil
	}

	metrics := s.svc.Evaluate(ctx, scenario, notes, models.Timing{})
	out, _ := json.MarshalIndent(metrics, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listRuns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 0
	if raw, err := req.RequireString("limit"); err == nil {
		limit, _ = strconv.Atoi(raw)
	}
	runs, err := s.svc.Runs(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(runs) == 0 {
		return mcp.NewToolResultText("no runs recorded"), nil
	}
	out, _ := json.MarshalIndent(runs, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getRubricContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RubricContract), nil
}

func (s *Server) readRubricResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "vitalis://rubric",
			MIMEType: "text/markdown",
			Text:     RubricContract,
		},
	}, nil
}
