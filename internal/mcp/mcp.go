// Package mcp provides the relay MCP server: the host-facing command
// registration, workspace root tracking, and notification plumbing.
package mcp

import (
	"context"
	_ "embed"
	"net/url"
	"time"

	"github.com/deixis/relay"
	"github.com/deixis/relay/internal/config"
	"github.com/deixis/relay/internal/report"
	"github.com/deixis/relay/internal/runner"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	cfg        *config.Config
	launcher   *runner.Launcher
	store      report.Store
	installDir string

	// folders is the workspace folder snapshot, in host order. Seeded
	// from the server's working directory and replaced by the client's
	// roots during session initialization.
	folders []string
}

// NewServer creates an MCP server with all relay tools registered.
// installDir is the directory holding the bundled script tree; workspace
// seeds the folder list for hosts that never send roots.
func NewServer(cfg *config.Config, l *runner.Launcher, store report.Store, installDir, workspace string) *mcp.Server {
	h := &handler{
		cfg:        cfg,
		launcher:   l,
		store:      store,
		installDir: installDir,
	}
	if workspace != "" {
		h.folders = []string{workspace}
	}

	opts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools:   &mcp.ToolCapabilities{ListChanged: false},
			Logging: &mcp.LoggingCapabilities{},
		},
		InitializedHandler: func(ctx context.Context, req *mcp.InitializedRequest) {
			h.updateWorkspaceFromRoots(ctx, req.Session)
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "relay", Version: relay.Version}, opts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "relay_run",
		Description: `Run the bundled analysis script against the active workspace folder.

Launches the script with the workspace path as its only argument and reports
a single summary result. Script output goes to the diagnostic log and is
stored for drill-down via relay_last_run.`,
	}, h.runHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "relay_workspace",
		Description: `Summarise the relay environment: workspace folders, resolved script
path, and interpreter availability.`,
	}, h.workspaceHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "relay_last_run",
		Description: `Show the full captured output of a recorded script run.

Pass the run_id from a relay_run result, or omit it for the most recent run.
Records are kept in memory for the current session only.`,
	}, h.lastRunHandler)

	return s
}

// updateWorkspaceFromRoots queries the client for MCP roots and replaces
// the folder snapshot if any file roots are returned. This is called
// during session initialization, before any tool calls.
func (h *handler) updateWorkspaceFromRoots(ctx context.Context, session *mcp.ServerSession) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	roots, err := session.ListRoots(ctx, &mcp.ListRootsParams{})
	if err != nil {
		return
	}

	var folders []string
	for _, root := range roots.Roots {
		u, err := url.Parse(root.URI)
		if err != nil || u.Scheme != "file" {
			continue
		}
		folders = append(folders, u.Path)
	}
	if len(folders) == 0 {
		return
	}
	h.folders = folders

	// The first folder carries the configuration, like everything else.
	cfg, err := config.Load(folders[0])
	if err != nil {
		return
	}
	h.cfg = cfg
	h.launcher.Timeout = cfg.Timeout()
	h.launcher.MaxOutput = cfg.MaxOutputBytes()
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
