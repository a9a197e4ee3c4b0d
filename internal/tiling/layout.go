package tiling

import (
	"fmt"
	"strings"

	"github.com/1broseidon/stackwm/internal/platform"
)

// Kind names a layout policy.
type Kind string

const (
	KindTiled Kind = "tiled"
	KindFree  Kind = "free"
)

// Kinds lists the layout policies in cycle order.
var Kinds = []Kind{KindTiled, KindFree}

const (
	MinMasterRatio     = 1
	MaxMasterRatio     = 99
	DefaultMasterRatio = 55
)

// ParseKind converts a user-supplied layout name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindTiled, "tile", "master-stack", "master_stack":
		return KindTiled, nil
	case KindFree, "float", "floating":
		return KindFree, nil
	default:
		return "", fmt.Errorf("unknown layout %q (want %q or %q)", s, KindTiled, KindFree)
	}
}

// Next returns the policy following k in Kinds, wrapping around.
func (k Kind) Next() Kind {
	for i, kind := range Kinds {
		if kind == k {
			return Kinds[(i+1)%len(Kinds)]
		}
	}
	return Kinds[0]
}

// Policy computes outer rectangles for the n eligible windows of a
// workspace, in workspace order. A nil result means the policy leaves
// geometry alone.
type Policy interface {
	Kind() Kind
	Arrange(area platform.Rect, n int) []platform.Rect
}

// Tiled is the master-stack policy.
type Tiled struct {
	MasterRatio int
}

func (Tiled) Kind() Kind { return KindTiled }

func (t Tiled) Arrange(area platform.Rect, n int) []platform.Rect {
	return MasterStack(area, n, t.MasterRatio)
}

// Free never assigns geometry; windows move only by direct manipulation.
type Free struct{}

func (Free) Kind() Kind { return KindFree }

func (Free) Arrange(platform.Rect, int) []platform.Rect { return nil }

// PolicyFor builds the policy for a kind. Unknown kinds fall back to Tiled.
func PolicyFor(kind Kind, masterRatio int) Policy {
	if kind == KindFree {
		return Free{}
	}
	return Tiled{MasterRatio: ClampRatio(masterRatio)}
}

// ClampRatio bounds a master ratio to [MinMasterRatio, MaxMasterRatio].
func ClampRatio(ratio int) int {
	return min(MaxMasterRatio, max(MinMasterRatio, ratio))
}

// MasterStack splits area into a master column of ratio percent width and
// a stack column whose windows share the height evenly. The last stack
// window absorbs the rounding remainder so the column is filled exactly.
func MasterStack(area platform.Rect, n, ratio int) []platform.Rect {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []platform.Rect{area}
	}

	masterWidth := area.Width * ClampRatio(ratio) / 100
	stackCount := n - 1
	stackHeight := area.Height / stackCount

	positions := make([]platform.Rect, n)
	positions[0] = platform.Rect{
		X:      area.X,
		Y:      area.Y,
		Width:  masterWidth,
		Height: area.Height,
	}

	for i := 0; i < stackCount; i++ {
		h := stackHeight
		if i == stackCount-1 {
			h = area.Height - stackHeight*(stackCount-1)
		}
		positions[i+1] = platform.Rect{
			X:      area.X + masterWidth,
			Y:      area.Y + i*stackHeight,
			Width:  area.Width - masterWidth,
			Height: h,
		}
	}

	return positions
}

// Inner converts an allotted outer rectangle to the drawn content size by
// removing the border on both sides. Sizes never drop below 1.
func Inner(outer platform.Rect, border int) platform.Rect {
	inner := outer
	inner.Width = max(1, outer.Width-2*border)
	inner.Height = max(1, outer.Height-2*border)
	return inner
}

// Padding is a per-edge inset applied to the screen area before tiling.
type Padding struct {
	Top, Bottom, Left, Right int
}

// ApplyPadding shrinks the screen area by p. Sizes never drop below 1.
func ApplyPadding(area platform.Rect, p Padding) platform.Rect {
	return platform.Rect{
		X:      area.X + p.Left,
		Y:      area.Y + p.Top,
		Width:  max(1, area.Width-p.Left-p.Right),
		Height: max(1, area.Height-p.Top-p.Bottom),
	}
}
