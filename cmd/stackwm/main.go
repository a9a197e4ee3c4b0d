package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/1broseidon/stackwm/internal/ipc"
	"github.com/1broseidon/stackwm/internal/palette"
	"github.com/1broseidon/stackwm/internal/tui"
	"github.com/1broseidon/stackwm/internal/wm"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "cmd":
		os.Exit(runCommand(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "top":
		os.Exit(runTop(os.Args[2:]))
	case "menu":
		os.Exit(runMenu(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: stackwm <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the window manager (foreground)")
	fmt.Fprintln(w, "  status              Show workspaces and windows")
	fmt.Fprintln(w, "  cmd <command>       Run a window manager command, e.g. 'swap master'")
	fmt.Fprintln(w, "  top                 Live workspace viewer")
	fmt.Fprintln(w, "  menu                Window switcher and command menu (rofi/dmenu)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'stackwm <command> --help' for command-specific options.")
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print the raw state as JSON (default when stdout is not a terminal)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stackwm status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show workspaces and windows via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *asJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	printStatus(os.Stdout, status)
	return 0
}

// printStatus writes one line per workspace followed by its windows in
// stack order, master first.
func printStatus(w io.Writer, status *ipc.StatusData) {
	fmt.Fprintf(w, "daemon_running: %v\n", status.DaemonRunning)
	fmt.Fprintf(w, "uptime_seconds: %d\n", status.UptimeSeconds)

	state := status.State
	for _, ws := range state.Workspaces {
		marker := " "
		if ws.Active {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %d %-10s %-5s ratio=%d windows=%d\n",
			marker, ws.Index+1, ws.Name, ws.Layout, ws.MasterRatio, len(ws.Windows))
		for _, win := range ws.Windows {
			fmt.Fprintf(w, "    0x%07x %-14s %s%s\n", uint32(win.ID), win.Class, win.Title, windowFlags(win))
		}
	}
}

func windowFlags(win wm.WindowSnapshot) string {
	var flags []string
	if win.Focused {
		flags = append(flags, "focused")
	}
	if win.Floating {
		flags = append(flags, "floating")
	}
	if win.Fixed {
		flags = append(flags, "fixed")
	}
	if !win.Mapped {
		flags = append(flags, "unmapped")
	}
	if len(flags) == 0 {
		return ""
	}
	return " [" + strings.Join(flags, ",") + "]"
}

func runCommand(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: stackwm cmd <command> [args]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  focus next|prev|master")
		fmt.Fprintln(os.Stderr, "  swap next|prev|master")
		fmt.Fprintln(os.Stderr, "  toggle_floating")
		fmt.Fprintln(os.Stderr, "  master_ratio +N|-N")
		fmt.Fprintln(os.Stderr, "  workspace N")
		fmt.Fprintln(os.Stderr, "  move_to_workspace N")
		fmt.Fprintln(os.Stderr, "  layout tiled|free|cycle")
		fmt.Fprintln(os.Stderr, "  close")
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	line := strings.Join(args, " ")
	cmd, err := wm.ParseCommand(line)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if cmd.Verb == wm.VerbSpawn || cmd.Verb == wm.VerbQuit {
		fmt.Fprintf(os.Stderr, "%s is only available as a keybinding\n", cmd.Verb)
		return 2
	}

	client := ipc.NewClient()
	if err := client.RunCommand(cmd.String()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runTop(args []string) int {
	fs := flag.NewFlagSet("top", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stackwm top")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Live view of workspaces and windows.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  1-9, Tab  Show a workspace")
		fmt.Fprintln(os.Stderr, "  j/k       Select a window")
		fmt.Fprintln(os.Stderr, "  Enter     Focus the selected window")
		fmt.Fprintln(os.Stderr, "  g         Switch to the shown workspace")
		fmt.Fprintln(os.Stderr, "  r         Refresh now")
		fmt.Fprintln(os.Stderr, "  q, Esc    Quit")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if err := tui.Run(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMenu(args []string) int {
	fs := flag.NewFlagSet("menu", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	launcher := fs.String("launcher", "auto", "Launcher to use: auto, rofi, fuzzel, wofi, dmenu")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stackwm menu [--launcher NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Pick a window to focus or a command to run. Bind it with e.g.")
		fmt.Fprintln(os.Stderr, "  keybindings: {\"$mod-p\": \"spawn stackwm menu\"}")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	backend, err := palette.NewBackend(*launcher)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := palette.Run(ipc.NewClient(), backend); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
