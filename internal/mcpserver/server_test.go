package mcpserver

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/vitalis/internal/api"
	"github.com/starford/vitalis/internal/history"
	"github.com/starford/vitalis/internal/rubric"
)

func testServer(t *testing.T) (*Server, history.Store) {
	t.Helper()

	db, err := history.Open(filepath.Join(t.TempDir(), "mcp-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	svc, err := api.NewService(rubric.DefaultConfig(), db, nil)
	if err != nil {
		t.Fatal(err)
	}
	return New(svc), db
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we invoke
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "score_note":
		result, err = srv.scoreNote(ctx, req)
	case "evaluate_extraction":
		result, err = srv.evaluateExtraction(ctx, req)
	case "get_rubric_contract":
		result, err = srv.getRubricContract(ctx, req)
	case "list_runs":
		result, err = srv.listRuns(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestScoreNote(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "score_note", map[string]any{
		"content": "---\ntitle: Spaced Repetition\n---\nI am keeping this because I want to improve recall.\n",
	})
	if r.IsError {
		t.Fatalf("score error: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, `"total"`) || !strings.Contains(text, `"breakdown"`) {
		t.Errorf("score output = %q", text)
	}
}

func TestScoreNote_MissingContent(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "score_note", map[string]any{})
	if !r.IsError {
		t.Error("expected error for missing content")
	}
}

func TestEvaluateExtraction(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "evaluate_extraction", map[string]any{
		"scenario": `{"name":"basic","existing_notes":[{"title":"Resilience Patterns"}],"expected_consolidations":[{"note_title":"Retry Pattern","merge_into":"Resilience Patterns"}]}`,
		"notes":    `[{"title":"Retry Pattern","content":"backoff","consolidated_with":"Resilience Patterns"}]`,
	})
	if r.IsError {
		t.Fatalf("evaluate error: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, `"f1": 1`) {
		t.Errorf("expected perfect f1 in %q", text)
	}
}

func TestEvaluateExtraction_InvalidJSON(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "evaluate_extraction", map[string]any{
		"scenario": "{not json",
		"notes":    "[]",
	})
	if !r.IsError {
		t.Error("expected error for invalid scenario JSON")
	}
}

func TestGetRubricContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_rubric_contract", map[string]any{})
	text := resultText(r)
	if !strings.Contains(text, "Quality Rubric") || !strings.Contains(text, "connectivity") {
		t.Errorf("contract = %q", text)
	}
}

func TestListRuns(t *testing.T) {
	srv, db := testServer(t)

	r := callTool(t, srv, "list_runs", map[string]any{})
	if got := resultText(r); got != "no runs recorded" {
		t.Errorf("empty list = %q", got)
	}

	if err := db.Insert(history.RunRow{RunID: "run-1", CreatedAt: time.Now(), BestStrategy: "two-pass"}); err != nil {
		t.Fatal(err)
	}

	r = callTool(t, srv, "list_runs", map[string]any{})
	if !strings.Contains(resultText(r), "two-pass") {
		t.Errorf("list = %q", resultText(r))
	}
}
