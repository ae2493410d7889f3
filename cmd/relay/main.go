// Command relay launches the bundled workspace analysis script.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/deixis/relay"
	"github.com/deixis/relay/internal/config"
	"github.com/deixis/relay/internal/invoke"
	relaymcp "github.com/deixis/relay/internal/mcp"
	"github.com/deixis/relay/internal/report"
	"github.com/deixis/relay/internal/runner"
	"github.com/deixis/relay/internal/script"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("relay: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "mcp":
		err = mcpMain(args)
	case "run":
		err = runMain(args)
	case "version":
		fmt.Println(relay.Version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "relay: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: relay <command> [flags] [dir]

Commands:
  run         Run the analysis script against a workspace folder
  mcp         Start the MCP server (workspace folders come from the host)
  version     Print the version
  help        Show this help

Use "relay <command> -h" for command-specific flags.`)
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	instructions := fs.Bool("instructions", false, "print host instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(relaymcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}

	cfg, err := config.Load(workspace)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	installDir, err := script.InstallDir()
	if err != nil {
		return fmt.Errorf("locating install directory: %w", err)
	}

	l := &runner.Launcher{
		Timeout:   cfg.Timeout(),
		MaxOutput: cfg.MaxOutputBytes(),
	}
	store := report.NewLRUStore(8)

	server := relaymcp.NewServer(cfg, l, store, installDir, workspace)

	if *httpAddr != "" {
		return serveHTTP(ctx, server, *httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// --- run ---

func runMain(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	workspace := fs.Arg(0)
	if workspace == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("determining workspace: %w", err)
		}
		workspace = cwd
	}
	workspace, err := filepath.Abs(workspace)
	if err != nil {
		return fmt.Errorf("resolving workspace: %w", err)
	}

	cfg, err := config.Load(workspace)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	installDir, err := script.InstallDir()
	if err != nil {
		return fmt.Errorf("locating install directory: %w", err)
	}

	path, err := script.Locate(installDir, workspace, cfg.Script)
	if err != nil {
		return err
	}

	inv := &invoke.Invocation{
		Script:      path,
		Interpreter: script.ResolveInterpreter(cfg.Interpreter),
		Launcher: &runner.Launcher{
			Timeout:   cfg.Timeout(),
			MaxOutput: cfg.MaxOutputBytes(),
		},
		Log: consoleLogger{},
	}

	out := inv.Run(ctx, invoke.Workspace{Folders: []string{workspace}})

	if out.Err {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, out.Message)
		os.Exit(1)
	}
	color.New(color.FgGreen).Fprintln(os.Stderr, out.Message)
	return nil
}

// consoleLogger writes diagnostic lines to stderr, coloured by level.
type consoleLogger struct{}

var (
	warnColour = color.New(color.FgYellow)
	errColour  = color.New(color.FgRed)
)

func (consoleLogger) Log(level invoke.Level, line string) {
	switch level {
	case invoke.LevelWarning:
		warnColour.Fprintf(os.Stderr, "warning: %s\n", line)
	case invoke.LevelError:
		errColour.Fprintln(os.Stderr, line)
	default:
		fmt.Fprintln(os.Stderr, line)
	}
}
