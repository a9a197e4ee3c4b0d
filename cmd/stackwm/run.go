package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/1broseidon/stackwm/internal/api"
	"github.com/1broseidon/stackwm/internal/config"
	"github.com/1broseidon/stackwm/internal/daemon"
	"github.com/1broseidon/stackwm/internal/hotkeys"
	"github.com/1broseidon/stackwm/internal/ipc"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/runtimepath"
	"github.com/1broseidon/stackwm/internal/tiling"
	"github.com/1broseidon/stackwm/internal/wm"
	"github.com/1broseidon/stackwm/internal/x11"
)

const shutdownTimeout = 3 * time.Second

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", configPathUsage)
	display := fs.String("display", "", "X display to manage (overrides config and $DISPLAY)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stackwm run [--config PATH] [--display :N]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the window manager in the foreground.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	cfg := res.Config
	if *display != "" {
		cfg.Display = *display
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	if err := serve(cfg, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// logLevel maps a validated log_level value to a slog level.
func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func padding(m config.Margins) tiling.Padding {
	return tiling.Padding{Top: m.Top, Bottom: m.Bottom, Left: m.Left, Right: m.Right}
}

func serve(cfg *config.Config, logger *slog.Logger) error {
	// Spawned programs and the IPC socket name follow the managed display.
	if cfg.Display != "" {
		os.Setenv("DISPLAY", cfg.Display)
	}

	conn, err := x11.NewConnection(cfg.Display)
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	var closeOnce sync.Once
	closeConn := func() { closeOnce.Do(conn.Close) }
	defer closeConn()

	if err := conn.BecomeManager(); err != nil {
		return err
	}
	if err := conn.AnnounceManager("stackwm"); err != nil {
		log.Printf("Warning: failed to announce manager: %v", err)
	}

	pad := padding(cfg.ScreenPadding)
	tilingArea := func() (platform.Rect, error) {
		mon, err := conn.TilingArea()
		if err != nil {
			return platform.Rect{}, err
		}
		return tiling.ApplyPadding(platform.Rect{X: mon.X, Y: mon.Y, Width: mon.Width, Height: mon.Height}, pad), nil
	}
	area, err := tilingArea()
	if err != nil {
		return fmt.Errorf("failed to compute tiling area: %w", err)
	}

	normal, focus := cfg.Colors()
	backend := platform.NewLinuxBackend(conn, platform.BorderColors{Normal: normal, Focus: focus})

	loop := daemon.NewLoop(logger)
	mgr := wm.New(backend, area, wm.Options{
		Workspaces:      cfg.WorkspaceDefaults(),
		BorderWidth:     cfg.BorderWidth,
		FocusFollowsNew: cfg.FocusFollowsNew,
		WarpPointer:     cfg.WarpPointer,
		Logger:          logger,
		Observer:        loop.Broadcast,
	})
	loop.Bind(mgr)
	go loop.Run(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Unmapped windows on hidden workspaces are mapped back before the
	// loop stops. Closing the connection wakes the blocked event loop.
	go func() {
		<-ctx.Done()
		log.Println("Shutting down stackwm...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := loop.Do(sctx, func(m *wm.Manager) error {
			m.Shutdown()
			return nil
		})
		if err != nil && !errors.Is(err, daemon.ErrStopped) {
			log.Printf("Warning: shutdown step failed: %v", err)
		}
		loop.Stop()
		conn.Quit()
		closeConn()
	}()

	if err := loop.Submit(func(m *wm.Manager) { m.Publish() }); err != nil {
		return err
	}

	sink := daemon.NewSink(loop, conn, tilingArea, logger)
	conn.Listen(sink)

	handler := hotkeys.NewHandler(conn, loop, hotkeys.Options{OnQuit: stop})
	if err := handler.Register(cfg.ResolvedKeybindings()); err != nil {
		log.Printf("Warning: some keybindings were not registered: %v", err)
	}
	handler.RegisterDrags(cfg.ButtonBinding(cfg.MoveButton), cfg.ButtonBinding(cfg.ResizeButton))

	if n := adoptExisting(conn, sink); n > 0 {
		log.Printf("Adopting %d mapped window(s)", n)
	}

	if cfg.ReconcileIntervalSeconds > 0 {
		reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
			Interval: time.Duration(cfg.ReconcileIntervalSeconds) * time.Second,
			Logger:   logger,
		}, loop, topLevelLister(conn))
		go reconciler.Run(ctx)
	}

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		stop()
		<-loop.Done()
		return err
	}
	ipcServer := ipc.NewServer(socketPath, loop)
	if err := ipcServer.Start(); err != nil {
		stop()
		<-loop.Done()
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer ipcServer.Stop()

	if cfg.API.ListenAddr != "" {
		apiServer := api.NewServer(loop, cfg.API.ListenAddr)
		if err := apiServer.Start(); err != nil {
			stop()
			<-loop.Done()
			return fmt.Errorf("failed to start HTTP API: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := apiServer.Shutdown(sctx); err != nil {
				log.Printf("Warning: HTTP API shutdown: %v", err)
			}
		}()
	}

	log.Println("Entering event loop...")
	conn.EventLoop()
	stop()
	<-loop.Done()
	return nil
}

// adoptExisting manages the windows that were already mapped when the
// manager started.
func adoptExisting(conn *x11.Connection, sink *daemon.Sink) int {
	windows, err := conn.TopLevelWindows()
	if err != nil {
		log.Printf("Warning: failed to list existing windows: %v", err)
		return 0
	}
	n := 0
	for _, id := range windows {
		if !conn.IsViewable(id) {
			continue
		}
		sink.Adopt(id)
		n++
	}
	return n
}

func topLevelLister(conn *x11.Connection) daemon.WindowLister {
	return func() ([]platform.WindowID, error) {
		windows, err := conn.TopLevelWindows()
		if err != nil {
			return nil, err
		}
		ids := make([]platform.WindowID, len(windows))
		for i, id := range windows {
			ids[i] = platform.WindowID(id)
		}
		return ids, nil
	}
}
