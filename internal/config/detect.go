package config

import "os/exec"

// DetectedTerminal is a terminal emulator found on PATH.
type DetectedTerminal struct {
	Name string
	Path string
}

// knownTerminals is in preference order.
var knownTerminals = []string{
	"x-terminal-emulator",
	"alacritty",
	"kitty",
	"wezterm",
	"foot",
	"urxvt",
	"st",
	"xterm",
}

const fallbackTerminal = "xterm"

// DetectTerminals scans PATH for known terminal emulators, in preference
// order.
func DetectTerminals() []DetectedTerminal {
	detected := make([]DetectedTerminal, 0, len(knownTerminals))
	for _, name := range knownTerminals {
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}
		detected = append(detected, DetectedTerminal{Name: name, Path: path})
	}
	return detected
}

// DefaultTerminal returns the preferred installed terminal, or xterm when
// none is found.
func DefaultTerminal() string {
	if found := DetectTerminals(); len(found) > 0 {
		return found[0].Name
	}
	return fallbackTerminal
}
