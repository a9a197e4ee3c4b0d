package palette

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/stackwm/internal/ipc"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/wm"
)

// Daemon is the part of the IPC client the switcher needs.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	RunCommand(command string) error
	FocusWindow(id platform.WindowID) error
}

// Items builds the menu for a snapshot: every workspace's windows under a
// header, followed by workspace and layout commands.
func Items(snap wm.Snapshot) []Item {
	var items []Item
	for _, ws := range snap.Workspaces {
		if len(ws.Windows) == 0 {
			continue
		}
		items = append(items, Item{
			Label:    fmt.Sprintf("%d: %s (%s)", ws.Index+1, ws.Name, ws.Layout),
			IsHeader: true,
		})
		for _, w := range ws.Windows {
			items = append(items, Item{
				Label:    windowLabel(w),
				Icon:     strings.ToLower(w.Class),
				Window:   w.ID,
				IsActive: w.Focused,
			})
		}
	}

	items = append(items, Item{Label: "Commands", IsHeader: true})
	for _, ws := range snap.Workspaces {
		if ws.Active {
			continue
		}
		items = append(items, Item{
			Label:   fmt.Sprintf("Go to workspace %d: %s", ws.Index+1, ws.Name),
			Command: fmt.Sprintf("workspace %d", ws.Index+1),
		})
	}
	items = append(items,
		Item{Label: "Cycle layout", Command: "layout cycle"},
		Item{Label: "Toggle floating", Command: "toggle_floating"},
		Item{Label: "Make focused window master", Command: "swap master"},
		Item{Label: "Close focused window", Command: "close"},
	)
	return items
}

func windowLabel(w wm.WindowSnapshot) string {
	title := w.Title
	if title == "" {
		title = fmt.Sprintf("0x%x", uint32(w.ID))
	}
	label := title
	if w.Class != "" {
		label = w.Class + ": " + title
	}
	if w.Floating {
		label += " [floating]"
	}
	return label
}

// Run shows the menu and applies the choice. Closing the launcher without
// a choice is not an error.
func Run(d Daemon, backend Backend) error {
	status, err := d.GetStatus()
	if err != nil {
		return err
	}

	item, err := backend.Show("stackwm", Items(status.State))
	if errors.Is(err, ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}

	if item.Window != 0 {
		return d.FocusWindow(item.Window)
	}
	return d.RunCommand(item.Command)
}
