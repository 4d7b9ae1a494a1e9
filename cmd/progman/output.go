package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/1broseidon/progman/internal/apps"
	"github.com/1broseidon/progman/internal/desktop"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	// isTerminal reports whether stdout is an interactive terminal.
	isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
)

// outputFlags selects between a table for people and JSON for scripts. The
// default follows whether stdout is a terminal.
type outputFlags struct {
	json  *bool
	table *bool
}

func addOutputFlags(fs *flag.FlagSet) outputFlags {
	return outputFlags{
		json:  fs.Bool("json", false, "Print JSON (default when stdout is not a terminal)"),
		table: fs.Bool("table", false, "Print a table (default on a terminal)"),
	}
}

func (o outputFlags) wantJSON() bool {
	switch {
	case *o.json:
		return true
	case *o.table:
		return false
	default:
		return !isTerminal()
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func printWindows(snap *desktop.Snapshot) {
	t := newTable("ID", "APP", "TITLE", "STATE", "X", "Y", "WIDTH", "HEIGHT", "Z", "ACTIVE")
	for _, w := range snap.Windows {
		active := ""
		if w.Active {
			active = "*"
		}
		t.Row(w.ID, w.AppID, w.Title, w.State.String(),
			strconv.Itoa(w.Position.X), strconv.Itoa(w.Position.Y),
			strconv.Itoa(w.Size.Width), strconv.Itoa(w.Size.Height),
			strconv.Itoa(w.ZOrder), active)
	}
	fmt.Fprintln(stdout, t.Render())
}

func printWindow(w desktop.Window) {
	printWindows(&desktop.Snapshot{Windows: []desktop.Window{w}})
}

func printApps(list []apps.Descriptor) {
	t := newTable("ID", "TITLE", "EXE", "SIZE", "MIN", "RESIZABLE", "MENUS")
	for _, d := range list {
		t.Row(d.ID, d.Title, d.ExeName,
			fmt.Sprintf("%dx%d", d.DefaultSize.Width, d.DefaultSize.Height),
			fmt.Sprintf("%dx%d", d.MinSize.Width, d.MinSize.Height),
			strconv.FormatBool(d.Resizable),
			strconv.Itoa(len(d.Menus)))
	}
	fmt.Fprintln(stdout, t.Render())
}
