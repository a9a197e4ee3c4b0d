package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

type launcherKind int

const (
	kindRofi launcherKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

// launcher drives a dmenu-compatible program over stdin/stdout.
type launcher struct {
	command string
	kind    launcherKind
	// byIndex launchers print the chosen row number instead of its text.
	byIndex bool
	markup  bool
}

func newLauncher(name string) (*launcher, bool) {
	switch name {
	case "rofi":
		return &launcher{command: "rofi", kind: kindRofi, byIndex: true, markup: true}, true
	case "fuzzel":
		return &launcher{command: "fuzzel", kind: kindFuzzel, byIndex: true}, true
	case "wofi":
		return &launcher{command: "wofi", kind: kindWofi, markup: true}, true
	case "dmenu":
		return &launcher{command: "dmenu", kind: kindDmenu}, true
	}
	return nil, false
}

func (l *launcher) Show(prompt string, items []Item) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}

	rows := l.labels(items)
	input, selected := l.formatInput(items, rows)

	cmd := exec.Command(l.command, l.buildArgs(prompt, items, selected)...)
	cmd.Stdin = strings.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Item{}, fmt.Errorf("%s failed: %s", l.command, msg)
		}
		return Item{}, fmt.Errorf("%s failed: %w", l.command, err)
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}

	item, err := l.parseSelection(selection, items, rows)
	if err != nil {
		return Item{}, err
	}
	if !item.Selectable() {
		return Item{}, ErrCancelled
	}
	return item, nil
}

func (l *launcher) buildArgs(prompt string, items []Item, selected int) []string {
	var args []string
	switch l.kind {
	case kindRofi:
		args = []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		var active []string
		for i, item := range items {
			if item.IsActive && item.Selectable() {
				active = append(active, strconv.Itoa(i))
			}
		}
		if len(active) > 0 {
			args = append(args, "-a", strings.Join(active, ","))
		}
		if selected >= 0 {
			args = append(args, "-selected-row", strconv.Itoa(selected))
		}
	case kindFuzzel:
		args = []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case kindWofi:
		args = []string{"--dmenu", "--allow-markup", "--allow-images"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case kindDmenu:
		args = []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}
	return args
}

// labels returns the visible text of every row. Launchers that answer
// with the row text get duplicate labels numbered so each row stays
// distinguishable.
func (l *launcher) labels(items []Item) []string {
	rows := make([]string, len(items))
	seen := make(map[string]int)
	for i, item := range items {
		label := sanitizeLabel(item.Label)
		if !l.byIndex && !item.IsHeader && label != "" {
			if n := seen[label]; n > 0 {
				label = fmt.Sprintf("%s (%d)", label, n+1)
			}
			seen[sanitizeLabel(item.Label)]++
		}
		rows[i] = label
	}
	return rows
}

// formatInput renders the launcher's stdin and picks the row to
// preselect: the first active selectable row, else the first selectable.
func (l *launcher) formatInput(items []Item, rows []string) (string, int) {
	lines := make([]string, len(items))
	first, firstActive := -1, -1
	for i, item := range items {
		lines[i] = l.formatItem(item, rows[i])
		if !item.Selectable() {
			continue
		}
		if first < 0 {
			first = i
		}
		if item.IsActive && firstActive < 0 {
			firstActive = i
		}
	}
	if firstActive >= 0 {
		return strings.Join(lines, "\n"), firstActive
	}
	return strings.Join(lines, "\n"), first
}

func (l *launcher) formatItem(item Item, label string) string {
	display := label
	if l.markup {
		display = html.EscapeString(display)
		if item.IsHeader {
			display = "<b>" + display + "</b>"
		}
	}
	if l.kind != kindRofi {
		return display
	}

	// rofi row options: one NUL, then key\x1fvalue pairs joined by \x1f.
	var attrs []string
	if !item.Selectable() {
		attrs = append(attrs, "nonselectable", "true")
	}
	if item.Icon != "" {
		attrs = append(attrs, "icon", sanitizeRofiField(item.Icon))
	}
	if len(attrs) == 0 {
		return display
	}
	return display + "\x00" + strings.Join(attrs, "\x1f")
}

func (l *launcher) parseSelection(selection string, items []Item, rows []string) (Item, error) {
	if l.byIndex {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for i, row := range rows {
		if row == selection {
			return items[i], nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeRofiField(value string) string {
	value = strings.ReplaceAll(value, "\x00", " ")
	value = strings.ReplaceAll(value, "\x1f", " ")
	return sanitizeLabel(value)
}

// isCancelExit matches the exit codes launchers use for "nothing chosen"
// (1) and Ctrl+C (130).
func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
