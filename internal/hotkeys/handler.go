package hotkeys

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/1broseidon/stackwm/internal/daemon"
	"github.com/1broseidon/stackwm/internal/drag"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/wm"
	"github.com/1broseidon/stackwm/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// pressTimeout bounds how long the X goroutine waits for the loop to
// accept a drag.
const pressTimeout = time.Second

// Options configures a Handler.
type Options struct {
	// OnQuit runs when a quit binding fires.
	OnQuit func()
	// Spawn starts a program. Defaults to a detached exec.
	Spawn func(argv []string) error
}

// Handler manages global keyboard shortcuts and modifier+button drags.
type Handler struct {
	xu   *xgbutil.XUtil
	conn *x11.Connection
	root xproto.Window
	loop *daemon.Loop

	spawn func(argv []string) error
	quit  func()
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(conn *x11.Connection, loop *daemon.Loop, opts Options) *Handler {
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(conn.XUtil)
	})

	h := &Handler{
		xu:    conn.XUtil,
		conn:  conn,
		root:  conn.Root,
		loop:  loop,
		spawn: opts.Spawn,
		quit:  opts.OnQuit,
	}
	if h.spawn == nil {
		h.spawn = spawnDetached
	}
	if h.quit == nil {
		h.quit = loop.Stop
	}
	return h
}

// Register binds every key sequence to its command. A binding that fails
// to parse or grab is logged and skipped; the first such error is returned
// once all bindings have been tried.
func (h *Handler) Register(bindings map[string]string) error {
	keys := make([]string, 0, len(bindings))
	for key := range bindings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var firstErr error
	for _, key := range keys {
		cmd, err := wm.ParseCommand(bindings[key])
		if err == nil {
			err = h.RegisterFunc(key, func() { h.Trigger(cmd) })
		}
		if err != nil {
			log.Printf("Warning: failed to bind %s: %v", key, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("bind %s: %w", key, err)
			}
		}
	}
	return firstErr
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// Trigger runs a bound command. spawn and quit are handled here; everything
// else is queued on the loop.
func (h *Handler) Trigger(cmd wm.Command) {
	switch cmd.Verb {
	case wm.VerbSpawn:
		if err := h.spawn(cmd.Argv); err != nil {
			log.Printf("Spawn failed: %v", err)
		}
	case wm.VerbQuit:
		log.Println("Quit requested")
		h.quit()
	default:
		err := h.loop.Submit(func(m *wm.Manager) {
			if err := m.Dispatch(cmd); err != nil {
				log.Printf("Command %q: %v", cmd, err)
			}
		})
		if err != nil {
			log.Printf("Command %q dropped: %v", cmd, err)
		}
	}
}

// RegisterDrags grabs the move and resize button bindings (for example
// "Mod4-1") on the root window.
func (h *Handler) RegisterDrags(moveBinding, resizeBinding string) {
	mousebind.Drag(h.xu, h.root, h.root, moveBinding, true,
		h.dragBegin(wm.ButtonMove), h.dragStep, h.dragEnd)
	mousebind.Drag(h.xu, h.root, h.root, resizeBinding, true,
		h.dragBegin(wm.ButtonResize), h.dragStep, h.dragEnd)
}

func (h *Handler) dragBegin(button wm.Button) xgbutil.MouseDragBeginFun {
	return func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) (bool, xproto.Cursor) {
		child, err := h.conn.WindowUnderPointer()
		if err != nil || child == xproto.WindowNone {
			return false, 0
		}
		return h.press(platform.WindowID(child), button, drag.Point{X: rootX, Y: rootY}), 0
	}
}

// press asks the manager to start a drag and waits for its answer, since
// the pointer grab depends on it.
func (h *Handler) press(id platform.WindowID, button wm.Button, at drag.Point) bool {
	ctx, cancel := context.WithTimeout(context.Background(), pressTimeout)
	defer cancel()

	started := false
	err := h.loop.Do(ctx, func(m *wm.Manager) error {
		started = m.OnPointerPress(id, button, at)
		return nil
	})
	if err != nil {
		log.Printf("Warning: drag start for window %d: %v", id, err)
		return false
	}
	return started
}

func (h *Handler) dragStep(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
	at := drag.Point{X: rootX, Y: rootY}
	h.submit(func(m *wm.Manager) { m.OnPointerMotion(at) })
}

func (h *Handler) dragEnd(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
	at := drag.Point{X: rootX, Y: rootY}
	h.submit(func(m *wm.Manager) { m.OnPointerRelease(at) })
}

func (h *Handler) submit(step daemon.Step) {
	if err := h.loop.Submit(step); err != nil {
		log.Printf("Warning: pointer event dropped: %v", err)
	}
}

// spawnDetached starts argv in its own session so it outlives the
// manager, and reaps it in the background.
func spawnDetached(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("nothing to spawn")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", argv[0], err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
