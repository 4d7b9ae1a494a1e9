package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/progman/internal/apps"
	"github.com/1broseidon/progman/internal/daemon"
	"github.com/1broseidon/progman/internal/desktop"
	"github.com/1broseidon/progman/internal/mcp"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: progman mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'progman mcp <command> --help' for command-specific options.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	fs := newFlagSet("serve", "Usage: progman mcp serve [--standalone] [--config PATH]\n\n"+
		"Start the MCP server on stdio. Tools drive the running daemon over IPC;\n"+
		"with --standalone they drive a private in-process desktop instead.")
	standalone := fs.Bool("standalone", false, "Serve an in-process desktop instead of connecting to the daemon")
	path := fs.StringP("config", "c", "", "Config file path (default: ~/.config/progman/config.yaml)")
	if code := parseFlags(fs, args, 0); code >= 0 {
		return code
	}

	res, err := loadConfig(*path)
	if err != nil {
		return fail(fmt.Errorf("failed to load config: %w", err))
	}
	// stdout carries the protocol, so logs only go to stderr and the log file.
	logger, err := newLogger(res.Config.Logging)
	if err != nil {
		return fail(err)
	}
	defer logger.Close()

	var d mcp.Desktop
	if *standalone {
		reg, err := apps.Load(res.Config.Catalog.Path)
		if err != nil {
			return fail(fmt.Errorf("failed to load app catalog: %w", err))
		}
		store := desktop.NewStore(reg, daemon.DesktopOptions(res.Config.Desktop))
		d = mcp.NewLocalDesktop(store, reg)
	} else {
		d = newClient()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcp.NewServer(d, logger.Logger).Run(ctx); err != nil && ctx.Err() == nil {
		return fail(fmt.Errorf("MCP server error: %w", err))
	}
	return 0
}
