package mcp

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/deixis/relay/internal/invoke"
	"github.com/deixis/relay/internal/report"
	"github.com/deixis/relay/internal/script"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type runParams struct{}

func (h *handler) runHandler(ctx context.Context, req *mcp.CallToolRequest, _ runParams) (*mcp.CallToolResult, any, error) {
	folders := h.folders
	logger := &sessionLogger{ctx: ctx, session: req.Session}

	inv := &invoke.Invocation{
		Launcher: h.launcher,
		Log:      logger,
	}

	// Script and interpreter resolution needs a workspace; if none is
	// open, Run reports that before either is consulted.
	if len(folders) > 0 {
		path, err := script.Locate(h.installDir, folders[0], h.cfg.Script)
		if err != nil {
			logger.Log(invoke.LevelError, err.Error())
			return errorResult(fmt.Sprintf("error: %v", err))
		}
		inv.Script = path
		inv.Interpreter = script.ResolveInterpreter(h.cfg.Interpreter)
	}

	started := time.Now()
	out := inv.Run(ctx, invoke.Workspace{Folders: folders})

	if out.Result != nil {
		rec := &report.Record{
			ID:        out.Result.RunID,
			Workspace: folders[0],
			Script:    inv.Script,
			ExitCode:  out.Result.ExitCode,
			Stdout:    string(out.Result.Stdout),
			Stderr:    string(out.Result.Stderr),
			Truncated: out.Result.Truncated,
			StartedAt: started,
			Duration:  out.Result.Duration,
		}
		if err := h.store.Save(rec); err != nil {
			log.Printf("saving run record: %v", err)
		}
	}

	text := out.Message
	if out.Result != nil {
		text += fmt.Sprintf("\nRun: %s", out.Result.RunID)
	}
	if out.Err {
		return errorResult(text)
	}
	return textResult(text)
}

// sessionLogger forwards diagnostic lines to the client as MCP logging
// notifications, and mirrors them to stderr for hosts that surface the
// server's standard error in a debug console.
type sessionLogger struct {
	ctx     context.Context
	session *mcp.ServerSession
}

func (l *sessionLogger) Log(level invoke.Level, line string) {
	log.Printf("%s: %s", level, line)
	if l.session == nil {
		return
	}
	_ = l.session.Log(l.ctx, &mcp.LoggingMessageParams{
		Level:  mcp.LoggingLevel(level),
		Logger: "relay",
		Data:   line,
	})
}
