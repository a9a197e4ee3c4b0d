package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/stackwm/internal/config"
	"github.com/1broseidon/stackwm/internal/ipc"
	"github.com/1broseidon/stackwm/internal/wm"
)

func TestPrintStatus(t *testing.T) {
	status := &ipc.StatusData{
		UptimeSeconds: 42,
		DaemonRunning: true,
		State: wm.Snapshot{
			Active: 1,
			Workspaces: []wm.WorkspaceSnapshot{
				{Index: 0, Name: "1", Layout: "tiled", MasterRatio: 50},
				{
					Index: 1, Name: "web", Layout: "free", MasterRatio: 60, Active: true,
					Windows: []wm.WindowSnapshot{
						{ID: 0x400001, Class: "Firefox", Title: "docs", Mapped: true, Focused: true, Floating: true},
						{ID: 0x400002, Class: "XTerm", Title: "shell"},
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	printStatus(&buf, status)
	out := buf.String()

	for _, want := range []string{
		"uptime_seconds: 42",
		"  1 1          tiled ratio=50 windows=0",
		"* 2 web        free  ratio=60 windows=2",
		"0x0400001 Firefox        docs [focused,floating]",
		"0x0400002 XTerm          shell [unmapped]",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceDefault, Name: "border_width"}, "default:border_width"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceFile, File: "/tmp/a.yaml"}, "file:/tmp/a.yaml"},
		{config.Source{Kind: config.SourceFile, File: "/tmp/a.yaml", Line: 3, Column: 5}, "file:/tmp/a.yaml:3:5"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Fatalf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for name, want := range tests {
		if got := logLevel(name); got != want {
			t.Fatalf("logLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestPadding(t *testing.T) {
	p := padding(config.Margins{Top: 1, Bottom: 2, Left: 3, Right: 4})
	if p.Top != 1 || p.Bottom != 2 || p.Left != 3 || p.Right != 4 {
		t.Fatalf("unexpected padding %+v", p)
	}
}
