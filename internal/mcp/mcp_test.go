package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deixis/relay/internal/config"
	"github.com/deixis/relay/internal/report"
	"github.com/deixis/relay/internal/runner"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setup creates a full relay MCP server + client over in-memory transports.
func setup(t *testing.T, workspace string, cfg *config.Config) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	if cfg == nil {
		cfg = &config.Config{}
	}

	l := &runner.Launcher{
		Timeout:   cfg.Timeout(),
		MaxOutput: cfg.MaxOutputBytes(),
	}
	store := report.NewLRUStore(5)

	server := NewServer(cfg, l, store, t.TempDir(), workspace)

	ct, st := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}

	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Wait()
	})

	return cs
}

// stubScript writes a shell script to run in place of the bundled script.
func stubScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stub.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return res
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("result has no text content")
	return ""
}

func TestRunTool_Success(t *testing.T) {
	cfg := &config.Config{
		Interpreter: []string{"sh"},
		Script:      stubScript(t, `echo OK`),
	}
	cs := setup(t, t.TempDir(), cfg)

	res := callTool(t, cs, "relay_run", nil)
	if res.IsError {
		t.Fatalf("IsError = true: %s", textOf(t, res))
	}
	text := textOf(t, res)
	if !strings.Contains(text, "script executed successfully") {
		t.Errorf("text = %q, want success message", text)
	}
	if !strings.Contains(text, "Run: ") {
		t.Errorf("text = %q, want a run ID for drill-down", text)
	}

	// Stdout is retrievable afterwards.
	last := callTool(t, cs, "relay_last_run", nil)
	lastText := textOf(t, last)
	if !strings.Contains(lastText, "Status: ok") || !strings.Contains(lastText, "OK") {
		t.Errorf("last run = %q, want status ok with captured stdout", lastText)
	}
}

func TestRunTool_ScriptFails(t *testing.T) {
	cfg := &config.Config{
		Interpreter: []string{"sh"},
		Script:      stubScript(t, `echo "Traceback..." >&2; exit 1`),
	}
	cs := setup(t, t.TempDir(), cfg)

	res := callTool(t, cs, "relay_run", nil)
	if !res.IsError {
		t.Fatal("IsError = false, want error result")
	}
	text := textOf(t, res)
	if !strings.Contains(text, "exit") || !strings.Contains(text, "1") {
		t.Errorf("text = %q, want the exit code named", text)
	}
	if strings.Contains(text, "Traceback") {
		t.Errorf("text = %q, stderr must stay out of the notification", text)
	}

	last := callTool(t, cs, "relay_last_run", nil)
	if lastText := textOf(t, last); !strings.Contains(lastText, "Traceback...") {
		t.Errorf("last run = %q, want captured stderr", lastText)
	}
}

func TestRunTool_LoadByRunID(t *testing.T) {
	cfg := &config.Config{
		Interpreter: []string{"sh"},
		Script:      stubScript(t, `echo from-run-one`),
	}
	cs := setup(t, t.TempDir(), cfg)

	res := callTool(t, cs, "relay_run", nil)
	text := textOf(t, res)

	idx := strings.Index(text, "Run: ")
	if idx < 0 {
		t.Fatalf("text = %q, no run ID", text)
	}
	runID := strings.TrimSpace(text[idx+len("Run: "):])

	last := callTool(t, cs, "relay_last_run", map[string]any{"run_id": runID})
	if lastText := textOf(t, last); !strings.Contains(lastText, "from-run-one") {
		t.Errorf("last run = %q, want output of run %s", lastText, runID)
	}
}

func TestRunTool_NoFolderOpen(t *testing.T) {
	cs := setup(t, "", &config.Config{Interpreter: []string{"sh"}})

	res := callTool(t, cs, "relay_run", nil)
	if !res.IsError {
		t.Fatal("IsError = false, want error result")
	}
	if text := textOf(t, res); !strings.Contains(text, "no folder open") {
		t.Errorf("text = %q, want 'no folder open'", text)
	}
}

func TestRunTool_MissingScript(t *testing.T) {
	cfg := &config.Config{
		Interpreter: []string{"sh"},
		Script:      "/nonexistent/analyse.py",
	}
	cs := setup(t, t.TempDir(), cfg)

	res := callTool(t, cs, "relay_run", nil)
	if !res.IsError {
		t.Fatal("IsError = false, want error result")
	}
	if text := textOf(t, res); !strings.Contains(text, "error:") {
		t.Errorf("text = %q, want an error summary", text)
	}
}

func TestLastRunTool_Empty(t *testing.T) {
	cs := setup(t, t.TempDir(), nil)

	res := callTool(t, cs, "relay_last_run", nil)
	if !res.IsError {
		t.Fatal("IsError = false, want error when nothing has run")
	}
}

func TestWorkspaceTool(t *testing.T) {
	workspace := t.TempDir()
	cfg := &config.Config{
		Interpreter: []string{"sh"},
		Script:      stubScript(t, `true`),
	}
	cs := setup(t, workspace, cfg)

	res := callTool(t, cs, "relay_workspace", nil)
	if res.IsError {
		t.Fatalf("IsError = true: %s", textOf(t, res))
	}
	text := textOf(t, res)
	if !strings.Contains(text, workspace) {
		t.Errorf("text = %q, want the workspace folder listed", text)
	}
	if !strings.Contains(text, "Interpreter: sh") {
		t.Errorf("text = %q, want the configured interpreter", text)
	}
	if !strings.Contains(text, "Timeout: none") {
		t.Errorf("text = %q, want no timeout by default", text)
	}
}
