package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/progman/internal/apps"
	"github.com/1broseidon/progman/internal/ipc"
)

// appItem implements list.Item for the launcher.
type appItem struct {
	d apps.Descriptor
}

func (i appItem) Title() string { return i.d.Title }

func (i appItem) Description() string {
	return fmt.Sprintf("%s  %s  %d×%d", i.d.ID, i.d.ExeName, i.d.DefaultSize.Width, i.d.DefaultSize.Height)
}

func (i appItem) FilterValue() string { return i.d.ID }

// launchForm holds the values bound to the launch-with-title form. It lives
// behind a pointer so the bindings survive copies of the tab.
type launchForm struct {
	form  *huh.Form
	appID string
	title string
}

// AppsTab lists launchable applications.
type AppsTab struct {
	list   list.Model
	client Client
	launch *launchForm

	width  int
	height int
}

// NewAppsTab creates an AppsTab sub-model.
func NewAppsTab(c Client) AppsTab {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Applications"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	return AppsTab{list: l, client: c}
}

// SetApps replaces the listed applications.
func (at *AppsTab) SetApps(descs []apps.Descriptor) {
	items := make([]list.Item, 0, len(descs))
	for _, d := range descs {
		items = append(items, appItem{d: d})
	}
	at.list.SetItems(items)
}

// Capturing reports whether the launch form owns keyboard input.
func (at AppsTab) Capturing() bool {
	return at.launch != nil || at.list.SettingFilter()
}

func (at AppsTab) selected() (apps.Descriptor, bool) {
	item, ok := at.list.SelectedItem().(appItem)
	if !ok {
		return apps.Descriptor{}, false
	}
	return item.d, true
}

// Init implements tea.Model.
func (at AppsTab) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (at AppsTab) Update(msg tea.Msg) (AppsTab, tea.Cmd) {
	if at.launch != nil {
		return at.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		at.width = msg.Width
		at.height = msg.Height
		at.list.SetSize(at.width, at.height)
		return at, nil

	case tea.KeyMsg:
		if at.list.SettingFilter() {
			break
		}
		switch msg.String() {
		case "enter":
			d, ok := at.selected()
			if !ok {
				return at, nil
			}
			return at, launchApp(at.client, d.ID, "")
		case "t":
			d, ok := at.selected()
			if !ok {
				return at, nil
			}
			at.startForm(d)
			return at, at.launch.form.Init()
		}
	}

	var cmd tea.Cmd
	at.list, cmd = at.list.Update(msg)
	return at, cmd
}

func (at *AppsTab) startForm(d apps.Descriptor) {
	lf := &launchForm{appID: d.ID, title: d.Title}

	w := at.width - 4
	if w < 40 {
		w = 40
	}
	lf.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Launch " + d.Title).
				Description("Window title").
				Value(&lf.title),
		),
	).WithWidth(w).WithShowHelp(true)

	at.launch = lf
}

func (at AppsTab) updateForm(msg tea.Msg) (AppsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			at.launch = nil
			return at, nil
		}
	case tea.WindowSizeMsg:
		at.width = msg.Width
		at.height = msg.Height
		at.list.SetSize(at.width, at.height)
	}

	form, cmd := at.launch.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		at.launch.form = f
	}

	switch at.launch.form.State {
	case huh.StateCompleted:
		lf := at.launch
		at.launch = nil
		return at, launchApp(at.client, lf.appID, lf.title)
	case huh.StateAborted:
		at.launch = nil
		return at, nil
	}
	return at, cmd
}

func launchApp(c Client, appID, title string) tea.Cmd {
	return func() tea.Msg {
		data, err := c.Launch(ipc.LaunchPayload{AppID: appID, Title: title})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("error: %v", err)}
		}
		return statusMsg{text: "launched " + data.WindowID}
	}
}

// View implements tea.Model.
func (at AppsTab) View() string {
	if at.width == 0 || at.height == 0 {
		return ""
	}
	if at.launch != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(at.launch.form.View())
	}
	return at.list.View()
}
