package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/stackwm/internal/wm"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	shownTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("238")).
			Underline(true).
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

	focusedRowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	selectedRowStyle = lipgloss.NewStyle().Background(lipgloss.Color("237"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// renderTabBar renders one tab per workspace. The active workspace is
// highlighted; the one being inspected is underlined.
func renderTabBar(workspaces []wm.WorkspaceSnapshot, shown, width int) string {
	var tabs []string
	for i, ws := range workspaces {
		label := fmt.Sprintf("%d:%s", i+1, ws.Name)
		if n := len(ws.Windows); n > 0 {
			label += fmt.Sprintf(" (%d)", n)
		}
		switch {
		case ws.Active:
			tabs = append(tabs, activeTabStyle.Render(label))
		case i == shown:
			tabs = append(tabs, shownTabStyle.Render(label))
		default:
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

func renderStatusBar(connected bool, uptime time.Duration, snap wm.Snapshot, width int) string {
	var status string
	if connected {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{
			dot + " daemon connected",
			"up " + uptime.String(),
			fmt.Sprintf("area %dx%d+%d+%d", snap.Area.Width, snap.Area.Height, snap.Area.X, snap.Area.Y),
		}
		if snap.Drag.Phase != "" && snap.Drag.Phase != "idle" {
			parts = append(parts, fmt.Sprintf("drag:%s #%d", snap.Drag.Phase, snap.Drag.Target))
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

func renderHelpBar(help string, width int) string {
	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(help)
}

// renderWindowTable lists a workspace's windows in tiling order.
func renderWindowTable(ws wm.WorkspaceSnapshot, cursor, width int) string {
	header := fmt.Sprintf("%-4s %-10s %-20s %-14s %-18s %s", "SLOT", "ID", "CLASS", "STATE", "GEOMETRY", "TITLE")
	lines := []string{dimStyle.Render(fmt.Sprintf("%s  layout:%s  master:%d%%", ws.Name, ws.Layout, ws.MasterRatio)), dimStyle.Render(header)}
	if len(ws.Windows) == 0 {
		lines = append(lines, dimStyle.Render("  no windows"))
	}
	for i, w := range ws.Windows {
		g := w.Geometry
		line := fmt.Sprintf("%-4d 0x%-8x %-20s %-14s %-18s %s",
			i+1, uint32(w.ID), truncate(w.Class, 20), windowState(w),
			fmt.Sprintf("%dx%d+%d+%d", g.Width, g.Height, g.X, g.Y), w.Title)
		line = truncate(line, max(width-2, 10))
		if w.Focused {
			line = focusedRowStyle.Render(line)
		}
		if i == cursor {
			line = selectedRowStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func windowState(w wm.WindowSnapshot) string {
	var flags []string
	if !w.Mapped {
		flags = append(flags, "hidden")
	}
	if w.Floating {
		flags = append(flags, "float")
	}
	if w.Fixed {
		flags = append(flags, "fixed")
	}
	if w.Focused {
		flags = append(flags, "focus")
	}
	if len(flags) == 0 {
		return "tiled"
	}
	return strings.Join(flags, ",")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
