package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/deixis/relay/internal/script"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type workspaceParams struct{}

func (h *handler) workspaceHandler(ctx context.Context, req *mcp.CallToolRequest, _ workspaceParams) (*mcp.CallToolResult, any, error) {
	var b strings.Builder

	if len(h.folders) == 0 {
		fmt.Fprintln(&b, "Workspace: none (no folder open)")
	} else {
		fmt.Fprintf(&b, "Workspace folders (%d, first is active):\n", len(h.folders))
		for i, f := range h.folders {
			marker := " "
			if i == 0 {
				marker = "*"
			}
			fmt.Fprintf(&b, "  %s %s\n", marker, f)
		}
	}
	fmt.Fprintln(&b)

	workspace := ""
	if len(h.folders) > 0 {
		workspace = h.folders[0]
	}
	if path, err := script.Locate(h.installDir, workspace, h.cfg.Script); err == nil {
		fmt.Fprintf(&b, "Script: %s\n", path)
	} else {
		fmt.Fprintf(&b, "Script: unavailable (%v)\n", err)
	}

	if argv := script.ResolveInterpreter(h.cfg.Interpreter); argv != nil {
		fmt.Fprintf(&b, "Interpreter: %s\n", strings.Join(argv, " "))
	} else {
		fmt.Fprintln(&b, "Interpreter: none found on PATH")
	}

	if t := h.cfg.Timeout(); t > 0 {
		fmt.Fprintf(&b, "Timeout: %s\n", t)
	} else {
		fmt.Fprintln(&b, "Timeout: none")
	}
	fmt.Fprintf(&b, "Output cap: %d bytes\n", h.cfg.MaxOutputBytes())

	return textResult(b.String())
}
