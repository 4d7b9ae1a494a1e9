// Package tui is an interactive terminal dashboard for a running desktop: a
// live window list with a minimap, and an application launcher.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/progman/internal/desktop"
	"github.com/1broseidon/progman/internal/ipc"
)

// Client is the subset of desktop commands the dashboard drives.
// *ipc.Client satisfies it.
type Client interface {
	List() (*desktop.Snapshot, error)
	ListApps() (*ipc.AppsData, error)
	Launch(p ipc.LaunchPayload) (*ipc.LaunchData, error)
	Close(id string) (*ipc.ChangedData, error)
	Minimize(id string) (*ipc.ChangedData, error)
	Maximize(id string) (*ipc.ChangedData, error)
	Restore(id string) (*ipc.ChangedData, error)
	Focus(id string) (*ipc.ChangedData, error)
	Cascade() (int, error)
	Tile() (int, error)
}

var _ Client = (*ipc.Client)(nil)

// Run starts the dashboard and blocks until the user quits.
func Run(c Client) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("top requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(c), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
