package main

import (
	"fmt"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/1broseidon/progman/internal/geometry"
	"github.com/1broseidon/progman/internal/ipc"
	"github.com/1broseidon/progman/internal/tui"
)

// newClient is replaced in tests.
var newClient = ipc.NewClient

func runStatus(args []string) int {
	fs := newFlagSet("status", "Usage: progman status [--json]\n\nShow daemon status via IPC.")
	out := addOutputFlags(fs)
	if code := parseFlags(fs, args, 0); code >= 0 {
		return code
	}

	status, err := newClient().Status()
	if err != nil {
		return fail(err)
	}
	if out.wantJSON() {
		if err := printJSON(status); err != nil {
			return fail(err)
		}
		return 0
	}
	fmt.Fprintf(stdout, "daemon_running: %v\n", status.DaemonRunning)
	fmt.Fprintf(stdout, "session_id:     %s\n", status.SessionID)
	fmt.Fprintf(stdout, "desktop:        %dx%d\n", status.Desktop.Width, status.Desktop.Height)
	fmt.Fprintf(stdout, "windows:        %d\n", status.WindowCount)
	fmt.Fprintf(stdout, "active:         %s\n", status.ActiveID)
	fmt.Fprintf(stdout, "apps:           %d\n", status.AppCount)
	fmt.Fprintf(stdout, "uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runLaunch(args []string) int {
	fs := newFlagSet("launch", "Usage: progman launch <app> [--title T] [--x X --y Y] [--width W --height H]\n\nLaunch an application into a new active window.")
	out := addOutputFlags(fs)
	title := fs.String("title", "", "Window title (default: the application title)")
	x := fs.Int("x", 0, "Left edge (requires --y)")
	y := fs.Int("y", 0, "Top edge (requires --x)")
	width := fs.Int("width", 0, "Width (requires --height)")
	height := fs.Int("height", 0, "Height (requires --width)")
	if code := parseFlags(fs, args, 1); code >= 0 {
		return code
	}

	p := ipc.LaunchPayload{AppID: fs.Arg(0), Title: *title}
	if fs.Changed("x") != fs.Changed("y") {
		fmt.Fprintln(stderr, "launch: --x and --y must be given together")
		return 2
	}
	if fs.Changed("x") {
		p.Position = &geometry.Point{X: *x, Y: *y}
	}
	if fs.Changed("width") != fs.Changed("height") {
		fmt.Fprintln(stderr, "launch: --width and --height must be given together")
		return 2
	}
	if fs.Changed("width") {
		p.Size = &geometry.Size{Width: *width, Height: *height}
	}

	data, err := newClient().Launch(p)
	if err != nil {
		return fail(err)
	}
	if out.wantJSON() {
		if err := printJSON(data); err != nil {
			return fail(err)
		}
		return 0
	}
	printWindow(data.Window)
	return 0
}

// reportChanged prints the outcome of a single-window command. A window that
// does not exist is an error; a command that did not apply is not.
func reportChanged(out outputFlags, id string, data *ipc.ChangedData) int {
	if out.wantJSON() {
		if err := printJSON(data); err != nil {
			return fail(err)
		}
	}
	if !data.Changed && data.Window == nil {
		fmt.Fprintf(stderr, "window %q not found\n", id)
		return 1
	}
	if out.wantJSON() {
		return 0
	}
	if data.Window == nil {
		fmt.Fprintf(stdout, "%s closed\n", id)
		return 0
	}
	if !data.Changed {
		fmt.Fprintf(stderr, "%s unchanged\n", id)
	}
	printWindow(*data.Window)
	return 0
}

func runWindowCommand(name string, args []string, op func(*ipc.Client, string) (*ipc.ChangedData, error)) int {
	fs := newFlagSet(name, fmt.Sprintf("Usage: progman %s <window>", name))
	out := addOutputFlags(fs)
	if code := parseFlags(fs, args, 1); code >= 0 {
		return code
	}

	id := fs.Arg(0)
	data, err := op(newClient(), id)
	if err != nil {
		return fail(err)
	}
	return reportChanged(out, id, data)
}

func runCountCommand(name string, args []string, op func(*ipc.Client) (int, error)) int {
	fs := newFlagSet(name, fmt.Sprintf("Usage: progman %s", name))
	out := addOutputFlags(fs)
	if code := parseFlags(fs, args, 0); code >= 0 {
		return code
	}

	n, err := op(newClient())
	if err != nil {
		return fail(err)
	}
	if out.wantJSON() {
		if err := printJSON(ipc.CountData{Count: n}); err != nil {
			return fail(err)
		}
		return 0
	}
	fmt.Fprintf(stdout, "%s: %d window(s)\n", name, n)
	return 0
}

// parseInts converts positional arguments to ints, naming the first bad one.
func parseInts(names []string, values []string) ([]int, error) {
	out := make([]int, len(values))
	for i, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: must be an integer", names[i], v)
		}
		out[i] = n
	}
	return out, nil
}

func runMove(args []string) int {
	fs := newFlagSet("move", "Usage: progman move <window> <x> <y>\n\nUse -- before negative coordinates.")
	out := addOutputFlags(fs)
	if code := parseFlags(fs, args, 3); code >= 0 {
		return code
	}
	v, err := parseInts([]string{"x", "y"}, fs.Args()[1:])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	id := fs.Arg(0)
	data, err := newClient().Move(id, v[0], v[1])
	if err != nil {
		return fail(err)
	}
	return reportChanged(out, id, data)
}

func runResize(args []string) int {
	fs := newFlagSet("resize", "Usage: progman resize <window> <width> <height>\n\nSizes below the application minimum are raised to it.")
	out := addOutputFlags(fs)
	if code := parseFlags(fs, args, 3); code >= 0 {
		return code
	}
	v, err := parseInts([]string{"width", "height"}, fs.Args()[1:])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	id := fs.Arg(0)
	data, err := newClient().Resize(id, v[0], v[1])
	if err != nil {
		return fail(err)
	}
	return reportChanged(out, id, data)
}

// pointFlag reads an "X,Y" int slice flag.
func pointFlag(name string, v []int) (geometry.Point, error) {
	if len(v) != 2 {
		return geometry.Point{}, fmt.Errorf("--%s must be X,Y", name)
	}
	return geometry.Point{X: v[0], Y: v[1]}, nil
}

func gestureFlags(fs *flag.FlagSet) (from, to *[]int) {
	from = fs.IntSlice("from", nil, "Pointer position at pointer-down, as X,Y")
	to = fs.IntSlice("to", nil, "Pointer position at pointer-up, as X,Y")
	return from, to
}

func gesturePoints(from, to []int) (geometry.Point, geometry.Point, error) {
	f, err := pointFlag("from", from)
	if err != nil {
		return geometry.Point{}, geometry.Point{}, err
	}
	t, err := pointFlag("to", to)
	if err != nil {
		return geometry.Point{}, geometry.Point{}, err
	}
	return f, t, nil
}

func runDrag(args []string) int {
	fs := newFlagSet("drag", "Usage: progman drag <window> --from X,Y --to X,Y\n\nMove a window by its title bar as a pointer would.")
	out := addOutputFlags(fs)
	from, to := gestureFlags(fs)
	if code := parseFlags(fs, args, 1); code >= 0 {
		return code
	}
	f, t, err := gesturePoints(*from, *to)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	id := fs.Arg(0)
	data, err := newClient().Drag(id, f, t)
	if err != nil {
		return fail(err)
	}
	return reportChanged(out, id, data)
}

func runResizeEdge(args []string) int {
	fs := newFlagSet("resize-edge", "Usage: progman resize-edge <window> --handle H --from X,Y --to X,Y\n\nResize a window from an edge or corner (n, s, e, w, ne, nw, se, sw).")
	out := addOutputFlags(fs)
	handle := fs.String("handle", "se", "Edge or corner being dragged")
	from, to := gestureFlags(fs)
	if code := parseFlags(fs, args, 1); code >= 0 {
		return code
	}
	h, err := geometry.ParseHandle(*handle)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	f, t, err := gesturePoints(*from, *to)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	id := fs.Arg(0)
	data, err := newClient().ResizeEdge(id, h, f, t)
	if err != nil {
		return fail(err)
	}
	return reportChanged(out, id, data)
}

func runTitle(args []string) int {
	fs := newFlagSet("title", "Usage: progman title <window> <title>")
	out := addOutputFlags(fs)
	if code := parseFlags(fs, args, 2); code >= 0 {
		return code
	}

	id := fs.Arg(0)
	data, err := newClient().SetTitle(id, fs.Arg(1))
	if err != nil {
		return fail(err)
	}
	return reportChanged(out, id, data)
}

func runList(args []string) int {
	fs := newFlagSet("list", "Usage: progman list [--json]\n\nList every window, minimized ones included, in stacking-agnostic launch order.")
	out := addOutputFlags(fs)
	if code := parseFlags(fs, args, 0); code >= 0 {
		return code
	}

	snap, err := newClient().List()
	if err != nil {
		return fail(err)
	}
	if out.wantJSON() {
		if err := printJSON(snap); err != nil {
			return fail(err)
		}
		return 0
	}
	printWindows(snap)
	return 0
}

func runGetWindow(args []string) int {
	fs := newFlagSet("window", "Usage: progman window <window>")
	out := addOutputFlags(fs)
	if code := parseFlags(fs, args, 1); code >= 0 {
		return code
	}

	w, err := newClient().GetWindow(fs.Arg(0))
	if err != nil {
		return fail(err)
	}
	if out.wantJSON() {
		if err := printJSON(w); err != nil {
			return fail(err)
		}
		return 0
	}
	printWindow(*w)
	return 0
}

func runApps(args []string) int {
	fs := newFlagSet("apps", "Usage: progman apps [--json]")
	out := addOutputFlags(fs)
	if code := parseFlags(fs, args, 0); code >= 0 {
		return code
	}

	data, err := newClient().ListApps()
	if err != nil {
		return fail(err)
	}
	if out.wantJSON() {
		if err := printJSON(data); err != nil {
			return fail(err)
		}
		return 0
	}
	printApps(data.Apps)
	return 0
}

func runReload(args []string) int {
	fs := newFlagSet("reload", "Usage: progman reload\n\nAsk the daemon to re-read its application catalog.")
	if code := parseFlags(fs, args, 0); code >= 0 {
		return code
	}

	n, err := newClient().Reload()
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "catalog reloaded: %d app(s)\n", n)
	return 0
}

func runTop(args []string) int {
	fs := newFlagSet("top", "Usage: progman top\n\nInteractive dashboard: live window list, desktop minimap and app launcher.")
	if code := parseFlags(fs, args, 0); code >= 0 {
		return code
	}

	if err := tui.Run(newClient()); err != nil {
		return fail(err)
	}
	return 0
}
