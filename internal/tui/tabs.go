package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/progman/internal/desktop"
)

// Tab identifies a dashboard tab.
type Tab int

const (
	TabWindows Tab = iota
	TabApps
	tabCount // sentinel for iteration
)

func (t Tab) String() string {
	switch t {
	case TabWindows:
		return "Windows"
	case TabApps:
		return "Apps"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// renderTabBar renders the tab bar with the given active tab and width.
func renderTabBar(active Tab, width int) string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d:%s", int(i)+1, i)
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(row)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

// renderStatusBar shows the daemon connection and a desktop summary.
func renderStatusBar(snap *desktop.Snapshot, connected bool, width int) string {
	var status string
	if connected && snap != nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{
			dot + " daemon connected",
			fmt.Sprintf("desktop:%dx%d", snap.Desktop.Width, snap.Desktop.Height),
			fmt.Sprintf("windows:%d", len(snap.Windows)),
		}
		if snap.ActiveID != "" {
			parts = append(parts, "active:"+snap.ActiveID)
		}
		status = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		status = dot + " daemon not running"
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(status)
}

// renderHelpBar renders the bottom line: the last action result on the left,
// key bindings for the active tab on the right.
func renderHelpBar(active Tab, statusText string, width int) string {
	var keys string
	switch active {
	case TabWindows:
		keys = "enter/f:focus  m:min  x:max  r:restore  c:close  C:cascade  T:tile"
	case TabApps:
		keys = "enter:launch  t:launch with title"
	}
	keys += "  tab:switch  q:quit"

	left := statusStyle.Render(statusText)
	right := dimStyle.Render(keys)
	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
