package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deixis/relay/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type lastRunParams struct {
	RunID string `json:"run_id,omitempty" jsonschema:"Run identifier from a relay_run result. Defaults to the most recent run."`
}

func (h *handler) lastRunHandler(ctx context.Context, req *mcp.CallToolRequest, params lastRunParams) (*mcp.CallToolResult, any, error) {
	var (
		rec *report.Record
		err error
	)
	if params.RunID != "" {
		rec, err = h.store.Load(params.RunID)
	} else {
		rec, err = h.store.Latest()
	}
	if err != nil {
		return errorResult(fmt.Sprintf("error: %v", err))
	}

	return textResult(formatRecord(rec))
}

func formatRecord(rec *report.Record) string {
	var b strings.Builder

	if rec.Failed() {
		fmt.Fprintf(&b, "Status: FAIL (exit code %d)\n", rec.ExitCode)
	} else {
		fmt.Fprintln(&b, "Status: ok")
	}
	fmt.Fprintf(&b, "Run: %s\n", rec.ID)
	fmt.Fprintf(&b, "Workspace: %s\n", rec.Workspace)
	fmt.Fprintf(&b, "Script: %s\n", rec.Script)
	fmt.Fprintf(&b, "Started: %s\n", rec.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Duration: %s\n", rec.Duration.Round(time.Millisecond))
	if rec.Truncated {
		fmt.Fprintln(&b, "Output was truncated at the capture limit.")
	}

	if out := strings.TrimSpace(rec.Stdout); out != "" {
		fmt.Fprintf(&b, "\nStdout:\n%s\n", out)
	}
	if errOut := strings.TrimSpace(rec.Stderr); errOut != "" {
		fmt.Fprintf(&b, "\nStderr:\n%s\n", errOut)
	}

	return b.String()
}
