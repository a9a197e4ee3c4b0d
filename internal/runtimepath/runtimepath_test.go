package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallsBackWithoutXDG(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := fmt.Sprintf("/tmp/stackwm-runtime-%d", os.Getuid())
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestSocketPathFor(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)
	t.Setenv(SocketEnv, "")

	tests := []struct {
		display string
		want    string
	}{
		{"", "stackwm.sock"},
		{":0", "stackwm-0.sock"},
		{":1.0", "stackwm-1.sock"},
		{"remote:12", "stackwm-12.sock"},
		{"wayland-0", "stackwm.sock"},
		{":x", "stackwm.sock"},
	}
	for _, tt := range tests {
		got, err := SocketPathFor(tt.display)
		if err != nil {
			t.Fatalf("SocketPathFor(%q) error: %v", tt.display, err)
		}
		if want := filepath.Join(td, tt.want); got != want {
			t.Fatalf("SocketPathFor(%q) = %q, want %q", tt.display, got, want)
		}
	}
}

func TestSocketPath_UsesDisplayAndEnvOverride(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)
	t.Setenv(SocketEnv, "")
	t.Setenv("DISPLAY", ":3")

	got, err := SocketPath()
	if err != nil || got != filepath.Join(td, "stackwm-3.sock") {
		t.Fatalf("SocketPath() = %q (%v)", got, err)
	}

	override := filepath.Join(t.TempDir(), "custom.sock")
	t.Setenv(SocketEnv, override)
	if got, _ := SocketPath(); got != override {
		t.Fatalf("SocketPath() = %q, want %q", got, override)
	}
}
