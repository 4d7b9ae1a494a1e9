package mcp

import (
	"github.com/1broseidon/progman/internal/apps"
	"github.com/1broseidon/progman/internal/desktop"
	"github.com/1broseidon/progman/internal/ipc"
)

// Desktop is the window-manager surface the tools drive. *ipc.Client
// satisfies it against a running daemon; NewLocalDesktop serves an
// in-process store.
type Desktop interface {
	Launch(p ipc.LaunchPayload) (*ipc.LaunchData, error)
	Close(id string) (*ipc.ChangedData, error)
	Minimize(id string) (*ipc.ChangedData, error)
	Maximize(id string) (*ipc.ChangedData, error)
	Restore(id string) (*ipc.ChangedData, error)
	Focus(id string) (*ipc.ChangedData, error)
	Move(id string, x, y int) (*ipc.ChangedData, error)
	Resize(id string, width, height int) (*ipc.ChangedData, error)
	Cascade() (int, error)
	Tile() (int, error)
	List() (*desktop.Snapshot, error)
	ListApps() (*ipc.AppsData, error)
}

var _ Desktop = (*ipc.Client)(nil)

type localDesktop struct {
	store   *desktop.Store
	catalog *apps.Registry
}

// NewLocalDesktop adapts an in-process store, for running the MCP server
// without a daemon.
func NewLocalDesktop(store *desktop.Store, catalog *apps.Registry) Desktop {
	return &localDesktop{store: store, catalog: catalog}
}

func (d *localDesktop) changed(id string, ok bool) (*ipc.ChangedData, error) {
	data := &ipc.ChangedData{Changed: ok}
	if w, found := d.store.Window(id); found {
		data.Window = &w
	}
	return data, nil
}

func (d *localDesktop) Launch(p ipc.LaunchPayload) (*ipc.LaunchData, error) {
	id, err := d.store.Launch(p.AppID, desktop.LaunchOptions{Title: p.Title, Position: p.Position, Size: p.Size})
	if err != nil {
		return nil, err
	}
	w, _ := d.store.Window(id)
	return &ipc.LaunchData{WindowID: id, Window: w}, nil
}

func (d *localDesktop) Close(id string) (*ipc.ChangedData, error) {
	return d.changed(id, d.store.Close(id))
}

func (d *localDesktop) Minimize(id string) (*ipc.ChangedData, error) {
	return d.changed(id, d.store.Minimize(id))
}

func (d *localDesktop) Maximize(id string) (*ipc.ChangedData, error) {
	return d.changed(id, d.store.Maximize(id))
}

func (d *localDesktop) Restore(id string) (*ipc.ChangedData, error) {
	return d.changed(id, d.store.Restore(id))
}

func (d *localDesktop) Focus(id string) (*ipc.ChangedData, error) {
	return d.changed(id, d.store.Focus(id))
}

func (d *localDesktop) Move(id string, x, y int) (*ipc.ChangedData, error) {
	return d.changed(id, d.store.Move(id, x, y))
}

func (d *localDesktop) Resize(id string, width, height int) (*ipc.ChangedData, error) {
	return d.changed(id, d.store.Resize(id, width, height))
}

func (d *localDesktop) Cascade() (int, error) { return d.store.Cascade(), nil }

func (d *localDesktop) Tile() (int, error) { return d.store.Tile(), nil }

func (d *localDesktop) List() (*desktop.Snapshot, error) {
	snap := d.store.Snapshot()
	return &snap, nil
}

func (d *localDesktop) ListApps() (*ipc.AppsData, error) {
	return &ipc.AppsData{Apps: d.catalog.List()}, nil
}
