package workspace

import (
	"fmt"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/tiling"
)

const noSlot = -1

// slot is one arena cell of the window list. Cells are linked by index so
// unlinking never needs to know anything beyond the window's own slot.
type slot struct {
	win  *Window
	prev int
	next int
}

// Workspace is one virtual desktop: an ordered window list, a focus
// reference and the layout settings used to tile it.
//
// List order is the tiling order and the navigation order. New windows are
// attached at the head.
type Workspace struct {
	Index       int
	Name        string
	Layout      tiling.Kind
	MasterRatio int

	slots []slot
	free  []int
	first int
	last  int
	count int
	focus *Window
}

// New creates an empty workspace.
func New(index int, name string, layout tiling.Kind, masterRatio int) *Workspace {
	if name == "" {
		name = fmt.Sprintf("%d", index+1)
	}
	if layout == "" {
		layout = tiling.KindTiled
	}
	return &Workspace{
		Index:       index,
		Name:        name,
		Layout:      layout,
		MasterRatio: tiling.ClampRatio(masterRatio),
		first:       noSlot,
		last:        noSlot,
	}
}

// Policy returns the layout policy currently selected for the workspace.
func (ws *Workspace) Policy() tiling.Policy {
	return tiling.PolicyFor(ws.Layout, ws.MasterRatio)
}

// Len returns the number of attached windows.
func (ws *Workspace) Len() int {
	return ws.count
}

// Attach inserts w at the head of the list. A window still attached
// elsewhere is detached from its old workspace first, so it is never a
// member of two lists. Attach does not focus or map the window.
func (ws *Workspace) Attach(w *Window) {
	if w.ws != nil {
		Detach(w)
	}

	idx := ws.alloc()
	ws.slots[idx] = slot{win: w, prev: noSlot, next: ws.first}
	if ws.first != noSlot {
		ws.slots[ws.first].prev = idx
	} else {
		ws.last = idx
	}
	ws.first = idx
	ws.count++

	w.ws = ws
	w.slot = idx
}

// Detach unlinks w from whichever workspace holds it. It reports false
// for a window that is not attached. Focus is left untouched: if w was
// focused the caller must reassign it.
func Detach(w *Window) bool {
	ws := w.ws
	if ws == nil || w.slot == noSlot || w.slot >= len(ws.slots) || ws.slots[w.slot].win != w {
		return false
	}

	idx := w.slot
	s := ws.slots[idx]
	if s.prev != noSlot {
		ws.slots[s.prev].next = s.next
	} else {
		ws.first = s.next
	}
	if s.next != noSlot {
		ws.slots[s.next].prev = s.prev
	} else {
		ws.last = s.prev
	}

	ws.slots[idx] = slot{prev: noSlot, next: noSlot}
	ws.free = append(ws.free, idx)
	ws.count--

	w.ws = nil
	w.slot = noSlot
	return true
}

func (ws *Workspace) alloc() int {
	if n := len(ws.free); n > 0 {
		idx := ws.free[n-1]
		ws.free = ws.free[:n-1]
		return idx
	}
	ws.slots = append(ws.slots, slot{prev: noSlot, next: noSlot})
	return len(ws.slots) - 1
}

// First returns the head of the list, or nil when empty.
func (ws *Workspace) First() *Window {
	if ws.first == noSlot {
		return nil
	}
	return ws.slots[ws.first].win
}

// Last returns the tail of the list, or nil when empty.
func (ws *Workspace) Last() *Window {
	if ws.last == noSlot {
		return nil
	}
	return ws.slots[ws.last].win
}

// Next returns the window after w in list order, or nil at the tail.
func (ws *Workspace) Next(w *Window) *Window {
	if !ws.Contains(w) {
		return nil
	}
	if n := ws.slots[w.slot].next; n != noSlot {
		return ws.slots[n].win
	}
	return nil
}

// Prev returns the window before w in list order, or nil at the head.
func (ws *Workspace) Prev(w *Window) *Window {
	if !ws.Contains(w) {
		return nil
	}
	if p := ws.slots[w.slot].prev; p != noSlot {
		return ws.slots[p].win
	}
	return nil
}

// Contains reports whether w is attached to this workspace.
func (ws *Workspace) Contains(w *Window) bool {
	return w != nil && w.ws == ws
}

// Windows returns the attached windows in list order.
func (ws *Workspace) Windows() []*Window {
	out := make([]*Window, 0, ws.count)
	for i := ws.first; i != noSlot; i = ws.slots[i].next {
		out = append(out, ws.slots[i].win)
	}
	return out
}

// Tileable returns the mapped, non-floating windows in list order.
func (ws *Workspace) Tileable() []*Window {
	var out []*Window
	for i := ws.first; i != noSlot; i = ws.slots[i].next {
		if w := ws.slots[i].win; w.Tileable() {
			out = append(out, w)
		}
	}
	return out
}

// Find returns the attached window with the given id.
func (ws *Workspace) Find(id platform.WindowID) *Window {
	for i := ws.first; i != noSlot; i = ws.slots[i].next {
		if w := ws.slots[i].win; w.ID == id {
			return w
		}
	}
	return nil
}

// Focus returns the focused window, or nil.
func (ws *Workspace) Focus() *Window {
	return ws.focus
}

// SetFocus makes w the focused window. Passing nil clears focus. A window
// that is not attached here is rejected.
func (ws *Workspace) SetFocus(w *Window) bool {
	if w != nil && !ws.Contains(w) {
		return false
	}
	ws.focus = w
	return true
}

// SwapContents exchanges the list positions of a and b by swapping the
// window payloads of their slots. The slots themselves stay linked where
// they are. Focus follows the window, not the slot.
func (ws *Workspace) SwapContents(a, b *Window) bool {
	if a == b || !ws.Contains(a) || !ws.Contains(b) {
		return false
	}
	ws.slots[a.slot].win, ws.slots[b.slot].win = b, a
	a.slot, b.slot = b.slot, a.slot
	return true
}

// Validate checks the list links, the endpoints and the back-references.
func (ws *Workspace) Validate() error {
	seen := 0
	prev := noSlot
	for i := ws.first; i != noSlot; i = ws.slots[i].next {
		if seen > len(ws.slots) {
			return fmt.Errorf("workspace %d: cycle in window list", ws.Index)
		}
		s := ws.slots[i]
		if s.win == nil {
			return fmt.Errorf("workspace %d: linked slot %d is empty", ws.Index, i)
		}
		if s.prev != prev {
			return fmt.Errorf("workspace %d: slot %d prev=%d, want %d", ws.Index, i, s.prev, prev)
		}
		if s.win.ws != ws || s.win.slot != i {
			return fmt.Errorf("workspace %d: window %d back-reference mismatch", ws.Index, s.win.ID)
		}
		prev = i
		seen++
	}
	if ws.last != prev {
		return fmt.Errorf("workspace %d: last=%d, want %d", ws.Index, ws.last, prev)
	}
	if seen != ws.count {
		return fmt.Errorf("workspace %d: count=%d, linked=%d", ws.Index, ws.count, seen)
	}
	if (ws.first == noSlot) != (ws.last == noSlot) {
		return fmt.Errorf("workspace %d: only one endpoint set", ws.Index)
	}
	if ws.focus != nil && !ws.Contains(ws.focus) {
		return fmt.Errorf("workspace %d: focus %d is not attached", ws.Index, ws.focus.ID)
	}
	return nil
}
