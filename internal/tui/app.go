package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/progman/internal/apps"
	"github.com/1broseidon/progman/internal/desktop"
)

const (
	refreshInterval = time.Second
	statusTimeout   = 3 * time.Second
)

// desktopMsg carries a freshly fetched snapshot.
type desktopMsg struct {
	snap *desktop.Snapshot
	err  error
}

// appsMsg carries the application catalog.
type appsMsg struct {
	apps []apps.Descriptor
	err  error
}

// tickMsg triggers a periodic refresh.
type tickMsg time.Time

// statusMsg is sent after a desktop command completes.
type statusMsg struct {
	text string
}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

// model is the root bubbletea model for the dashboard.
type model struct {
	client Client

	activeTab Tab
	windows   WindowsTab
	apps      AppsTab

	snap       *desktop.Snapshot
	connected  bool
	statusText string

	width  int
	height int
}

func newModel(c Client) model {
	return model{
		client:    c,
		activeTab: TabWindows,
		windows:   NewWindowsTab(c),
		apps:      NewAppsTab(c),
	}
}

func fetchDesktop(c Client) tea.Cmd {
	return func() tea.Msg {
		snap, err := c.List()
		return desktopMsg{snap: snap, err: err}
	}
}

func fetchApps(c Client) tea.Cmd {
	return func() tea.Msg {
		data, err := c.ListApps()
		if err != nil {
			return appsMsg{err: err}
		}
		return appsMsg{apps: data.Apps}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(fetchDesktop(m.client), fetchApps(m.client), tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		subMsg := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
		m.windows, _ = m.windows.Update(subMsg)
		m.apps, _ = m.apps.Update(subMsg)
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchDesktop(m.client), tick())

	case desktopMsg:
		if msg.err != nil {
			m.connected = false
			return m, nil
		}
		m.connected = true
		m.snap = msg.snap
		m.windows.SetSnapshot(msg.snap)
		return m, nil

	case appsMsg:
		if msg.err == nil {
			m.apps.SetApps(msg.apps)
		}
		return m, nil

	case statusMsg:
		m.statusText = msg.text
		return m, tea.Batch(
			fetchDesktop(m.client),
			tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{} }),
		)

	case clearStatusMsg:
		m.statusText = ""
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// The launch form consumes every other key.
		if m.activeTab == TabApps && m.apps.Capturing() {
			var cmd tea.Cmd
			m.apps, cmd = m.apps.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabWindows
			return m, nil
		case "2":
			m.activeTab = TabApps
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case TabWindows:
		m.windows, cmd = m.windows.Update(msg)
	case TabApps:
		m.apps, cmd = m.apps.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var content string
	switch m.activeTab {
	case TabWindows:
		content = m.windows.View()
	case TabApps:
		content = m.apps.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderStatusBar(m.snap, m.connected, m.width),
		renderTabBar(m.activeTab, m.width),
		content,
		renderHelpBar(m.activeTab, m.statusText, m.width),
	)
}
