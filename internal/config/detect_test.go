package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDetectTerminals_PreferenceOrder(t *testing.T) {
	dir := t.TempDir()
	xtermPath := writeFakeBinary(t, dir, "xterm")
	kittyPath := writeFakeBinary(t, dir, "kitty")
	t.Setenv("PATH", dir)

	got := DetectTerminals()
	if len(got) != 2 {
		t.Fatalf("expected 2 detected terminals, got %d", len(got))
	}
	if got[0].Name != "kitty" || got[0].Path != kittyPath {
		t.Fatalf("expected kitty first, got %#v", got[0])
	}
	if got[1].Name != "xterm" || got[1].Path != xtermPath {
		t.Fatalf("expected xterm second, got %#v", got[1])
	}
	if DefaultTerminal() != "kitty" {
		t.Fatalf("expected default terminal kitty, got %q", DefaultTerminal())
	}
}

func TestDefaultTerminal_FallsBackToXterm(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if got := DetectTerminals(); len(got) != 0 {
		t.Fatalf("expected no terminals, got %#v", got)
	}
	if DefaultTerminal() != "xterm" {
		t.Fatalf("expected xterm fallback, got %q", DefaultTerminal())
	}
}

func TestDefaultConfig_SpawnsDetectedTerminal(t *testing.T) {
	dir := t.TempDir()
	writeFakeBinary(t, dir, "alacritty")
	t.Setenv("PATH", dir)

	cfg := DefaultConfig()
	if got := cfg.Keybindings["$mod-Return"]; got != "spawn alacritty" {
		t.Fatalf("expected spawn alacritty, got %q", got)
	}
}

func writeFakeBinary(t *testing.T, dir, name string) string {
	t.Helper()

	filename := name
	script := "#!/bin/sh\nexit 0\n"
	if runtime.GOOS == "windows" {
		filename += ".bat"
		script = "@echo off\r\nexit /B 0\r\n"
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	return path
}
