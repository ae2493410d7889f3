// Package invoke implements the run-script command: pick the active
// workspace folder, launch the analysis script against it, and reduce
// the subprocess output to a single user-facing outcome.
package invoke

import (
	"context"
	"fmt"
	"strings"

	"github.com/deixis/relay/internal/runner"
)

// Workspace is a read-only snapshot of the host's open folders, in host
// order. It is captured at invocation time so the handler never reads
// ambient host state.
type Workspace struct {
	Folders []string
}

// Level classifies diagnostic log lines.
type Level string

// Diagnostic log levels.
const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Logger receives diagnostic log lines for the host's debug output
// channel. Lines are informational; they never affect the outcome.
type Logger interface {
	Log(level Level, line string)
}

// Launcher starts a subprocess and captures its output.
// Implemented by runner.Launcher.
type Launcher interface {
	Launch(ctx context.Context, argv []string, dir string) (*runner.Result, error)
}

// Outcome is the single notification produced by an invocation.
type Outcome struct {
	Err     bool           // error notification rather than info
	Message string         // short human-readable summary
	Result  *runner.Result // nil when no process ran
}

// Invocation holds the resolved context for one command invocation.
// It is created at handler entry and discarded when the handler returns.
type Invocation struct {
	Script      string   // absolute path of the script to run
	Interpreter []string // interpreter argv prefix
	Launcher    Launcher
	Log         Logger
}

// Run executes the command against the given workspace snapshot and
// returns exactly one outcome. It launches at most one subprocess and
// never retries; all failures are terminal to this invocation.
func (inv *Invocation) Run(ctx context.Context, ws Workspace) *Outcome {
	if len(ws.Folders) == 0 {
		return &Outcome{Err: true, Message: "error: no folder open"}
	}
	// First folder wins; multi-root workspaces are not disambiguated.
	folder := ws.Folders[0]

	if len(inv.Interpreter) == 0 {
		return &Outcome{Err: true, Message: "error: no python interpreter found on PATH"}
	}

	// Script path and workspace path stay separate argv entries so paths
	// with spaces or shell metacharacters pass through untouched.
	argv := append(append([]string{}, inv.Interpreter...), inv.Script, folder)

	inv.Log.Log(LevelInfo, fmt.Sprintf("running %s %s", inv.Script, folder))

	res, err := inv.Launcher.Launch(ctx, argv, "")
	if err != nil {
		inv.Log.Log(LevelError, err.Error())
		return &Outcome{Err: true, Message: fmt.Sprintf("error: failed to launch script: %v", err)}
	}

	stderr := strings.TrimSpace(string(res.Stderr))

	if res.ExitCode != 0 {
		// Full stderr stays in the log; the notification names only the
		// exit code so the popup stays readable.
		if stderr != "" {
			inv.Log.Log(LevelError, stderr)
		}
		return &Outcome{
			Err:     true,
			Message: fmt.Sprintf("error: script exited with code %d", res.ExitCode),
			Result:  res,
		}
	}

	if stderr != "" {
		// Some tools write non-fatal diagnostics to stderr on success.
		inv.Log.Log(LevelWarning, stderr)
	}
	if stdout := strings.TrimSpace(string(res.Stdout)); stdout != "" {
		inv.Log.Log(LevelInfo, stdout)
	}
	if res.Truncated {
		inv.Log.Log(LevelWarning, "script output exceeded the capture limit and was truncated")
	}

	return &Outcome{Message: "script executed successfully", Result: res}
}
