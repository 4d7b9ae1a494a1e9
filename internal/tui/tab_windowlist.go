package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/progman/internal/desktop"
	"github.com/1broseidon/progman/internal/ipc"
)

// windowItem implements list.Item for the window list.
type windowItem struct {
	w desktop.Window
}

func (i windowItem) Title() string {
	prefix := "  "
	if i.w.Active {
		prefix = "* "
	}
	return prefix + i.w.ID + "  " + i.w.Title
}

func (i windowItem) Description() string {
	return fmt.Sprintf("  %s %d×%d at (%d,%d) z%d",
		i.w.State, i.w.Size.Width, i.w.Size.Height, i.w.Position.X, i.w.Position.Y, i.w.ZOrder)
}

func (i windowItem) FilterValue() string { return i.w.ID }

// WindowsTab lists every window next to a minimap of the desktop.
type WindowsTab struct {
	list   list.Model
	client Client
	snap   *desktop.Snapshot

	width  int
	height int
	ready  bool
}

// NewWindowsTab creates a WindowsTab sub-model.
func NewWindowsTab(c Client) WindowsTab {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Windows"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return WindowsTab{list: l, client: c}
}

// SetSnapshot replaces the listed windows, keeping the selection on the same
// window when it still exists.
func (wt *WindowsTab) SetSnapshot(snap *desktop.Snapshot) {
	selected := wt.selectedID()
	wt.snap = snap

	items := make([]list.Item, 0, len(snap.Windows))
	index := 0
	for i, w := range snap.Windows {
		items = append(items, windowItem{w: w})
		if w.ID == selected {
			index = i
		}
	}
	wt.list.SetItems(items)
	if len(items) > 0 {
		wt.list.Select(index)
	}
}

func (wt WindowsTab) selectedID() string {
	item, ok := wt.list.SelectedItem().(windowItem)
	if !ok {
		return ""
	}
	return item.w.ID
}

// Init implements tea.Model.
func (wt WindowsTab) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (wt WindowsTab) Update(msg tea.Msg) (WindowsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		wt.width = msg.Width
		wt.height = msg.Height
		wt.list.SetSize(wt.sidebarWidth(), wt.height)
		wt.ready = true
		return wt, nil

	case tea.KeyMsg:
		id := wt.selectedID()
		switch msg.String() {
		case "enter", "f":
			return wt, windowAction("focus", id, wt.client.Focus)
		case "m":
			return wt, windowAction("minimize", id, wt.client.Minimize)
		case "x":
			return wt, windowAction("maximize", id, wt.client.Maximize)
		case "r":
			return wt, windowAction("restore", id, wt.client.Restore)
		case "c":
			return wt, windowAction("close", id, wt.client.Close)
		case "C":
			return wt, layoutAction("cascade", wt.client.Cascade)
		case "T":
			return wt, layoutAction("tile", wt.client.Tile)
		}
	}

	var cmd tea.Cmd
	wt.list, cmd = wt.list.Update(msg)
	return wt, cmd
}

func windowAction(name, id string, op func(string) (*ipc.ChangedData, error)) tea.Cmd {
	if id == "" {
		return nil
	}
	return func() tea.Msg {
		data, err := op(id)
		switch {
		case err != nil:
			return statusMsg{text: fmt.Sprintf("error: %v", err)}
		case !data.Changed:
			return statusMsg{text: fmt.Sprintf("%s: %s unchanged", name, id)}
		default:
			return statusMsg{text: fmt.Sprintf("%s: %s", name, id)}
		}
	}
}

func layoutAction(name string, op func() (int, error)) tea.Cmd {
	return func() tea.Msg {
		n, err := op()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("error: %v", err)}
		}
		return statusMsg{text: fmt.Sprintf("%s: %d window(s)", name, n)}
	}
}

func (wt WindowsTab) sidebarWidth() int {
	// Sidebar takes ~40% of width, min 24, max 48
	sw := wt.width * 40 / 100
	if sw < 24 {
		sw = 24
	}
	if sw > 48 {
		sw = 48
	}
	return sw
}

// View implements tea.Model.
func (wt WindowsTab) View() string {
	if !wt.ready || wt.width == 0 || wt.height == 0 {
		return ""
	}

	sidebarWidth := wt.sidebarWidth()
	sidebar := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(wt.height).
		Render(wt.list.View())

	mapWidth := wt.width - sidebarWidth - 3
	if mapWidth < 10 {
		mapWidth = 10
	}
	mapHeight := wt.height - 2
	if mapHeight < 3 {
		mapHeight = 3
	}
	summary := dimStyle.Render(" " + summarizeDesktop(wt.snap))
	minimap := lipgloss.NewStyle().
		Foreground(lipgloss.Color("247")).
		Render(strings.Join(renderMinimap(wt.snap, mapWidth, mapHeight), "\n"))
	right := lipgloss.JoinVertical(lipgloss.Left, summary, "", minimap)

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.TrimSuffix(strings.Repeat("│\n", wt.height), "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep+" ", right)
}
