package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/1broseidon/progman/internal/ipc"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches a subcommand and returns the process exit code: 0 on
// success, 1 when the command failed, 2 on a usage error.
func run(args []string) int {
	if len(args) < 1 {
		printMainUsage(stdout)
		return 0
	}

	switch args[0] {
	case "daemon":
		return runDaemon(args[1:])
	case "status":
		return runStatus(args[1:])
	case "launch":
		return runLaunch(args[1:])
	case "close":
		return runWindowCommand("close", args[1:], (*ipc.Client).Close)
	case "close-all":
		return runCountCommand("close-all", args[1:], (*ipc.Client).CloseAll)
	case "minimize":
		return runWindowCommand("minimize", args[1:], (*ipc.Client).Minimize)
	case "maximize":
		return runWindowCommand("maximize", args[1:], (*ipc.Client).Maximize)
	case "restore":
		return runWindowCommand("restore", args[1:], (*ipc.Client).Restore)
	case "focus":
		return runWindowCommand("focus", args[1:], (*ipc.Client).Focus)
	case "move":
		return runMove(args[1:])
	case "resize":
		return runResize(args[1:])
	case "drag":
		return runDrag(args[1:])
	case "resize-edge":
		return runResizeEdge(args[1:])
	case "title":
		return runTitle(args[1:])
	case "cascade":
		return runCountCommand("cascade", args[1:], (*ipc.Client).Cascade)
	case "tile":
		return runCountCommand("tile", args[1:], (*ipc.Client).Tile)
	case "list", "ls":
		return runList(args[1:])
	case "window":
		return runGetWindow(args[1:])
	case "apps":
		return runApps(args[1:])
	case "reload":
		return runReload(args[1:])
	case "top":
		return runTop(args[1:])
	case "config":
		return runConfig(args[1:])
	case "mcp":
		return runMCP(args[1:])
	case "help", "-h", "--help":
		printMainUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printMainUsage(stderr)
		return 2
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: progman <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the progman daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  reload              Reload the application catalog")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  launch <app>        Launch an application window")
	fmt.Fprintln(w, "  close <window>      Close a window")
	fmt.Fprintln(w, "  close-all           Close every window")
	fmt.Fprintln(w, "  minimize <window>   Minimize a window")
	fmt.Fprintln(w, "  maximize <window>   Maximize (or restore a maximized) window")
	fmt.Fprintln(w, "  restore <window>    Restore a minimized or maximized window")
	fmt.Fprintln(w, "  focus <window>      Bring a window to the front")
	fmt.Fprintln(w, "  move <window> X Y   Move a window")
	fmt.Fprintln(w, "  resize <window> W H Resize a window")
	fmt.Fprintln(w, "  drag <window>       Replay a title-bar drag gesture")
	fmt.Fprintln(w, "  resize-edge <window> Replay an edge resize gesture")
	fmt.Fprintln(w, "  title <window> T    Set a window title")
	fmt.Fprintln(w, "  cascade             Cascade visible windows")
	fmt.Fprintln(w, "  tile                Tile visible windows")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  list                List windows")
	fmt.Fprintln(w, "  window <window>     Show one window")
	fmt.Fprintln(w, "  apps                List launchable applications")
	fmt.Fprintln(w, "  top                 Interactive window dashboard")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'progman <command> --help' for command-specific options.")
}

// newFlagSet returns a flag set that reports errors to stderr and prints
// usage on --help.
func newFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		if fs.HasFlags() {
			fmt.Fprintln(stderr, "")
			fmt.Fprintln(stderr, "Options:")
			fs.PrintDefaults()
		}
	}
	return fs
}

// parseFlags parses args and checks the positional count. It returns -1 to
// continue, or the exit code to return.
func parseFlags(fs *flag.FlagSet, args []string, positional int) int {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != positional {
		fmt.Fprintf(stderr, "%s: expected %d argument(s), got %d\n", fs.Name(), positional, fs.NArg())
		fs.Usage()
		return 2
	}
	return -1
}

func fail(err error) int {
	fmt.Fprintln(stderr, err)
	return 1
}
