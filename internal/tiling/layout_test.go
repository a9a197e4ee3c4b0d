package tiling

import (
	"testing"

	"github.com/1broseidon/stackwm/internal/platform"
)

func TestMasterStack_ThreeWindows(t *testing.T) {
	area := platform.Rect{X: 0, Y: 0, Width: 1000, Height: 800}

	got := MasterStack(area, 3, 55)
	want := []platform.Rect{
		{X: 0, Y: 0, Width: 550, Height: 800},
		{X: 550, Y: 0, Width: 450, Height: 400},
		{X: 550, Y: 400, Width: 450, Height: 400},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d rects, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rect %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestMasterStack_SingleWindowGetsFullArea(t *testing.T) {
	area := platform.Rect{X: 10, Y: 20, Width: 300, Height: 200}

	got := MasterStack(area, 1, 55)
	if len(got) != 1 || got[0] != area {
		t.Fatalf("expected full area %+v, got %+v", area, got)
	}
}

func TestMasterStack_EmptyIsNoop(t *testing.T) {
	if got := MasterStack(platform.Rect{Width: 100, Height: 100}, 0, 50); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestMasterStack_StackFillsColumnExactly(t *testing.T) {
	area := platform.Rect{X: 5, Y: 7, Width: 1001, Height: 799}

	for n := 2; n <= 9; n++ {
		for _, ratio := range []int{1, 33, 50, 55, 99} {
			got := MasterStack(area, n, ratio)

			master := got[0]
			if master.Width != area.Width*ratio/100 {
				t.Fatalf("n=%d ratio=%d: master width %d", n, ratio, master.Width)
			}
			if master.Height != area.Height || master.X != area.X || master.Y != area.Y {
				t.Fatalf("n=%d ratio=%d: master %+v not anchored full height", n, ratio, master)
			}

			y := area.Y
			for i, r := range got[1:] {
				if r.Y != y {
					t.Fatalf("n=%d ratio=%d: stack %d starts at %d, want %d", n, ratio, i, r.Y, y)
				}
				if r.X != area.X+master.Width || r.X+r.Width != area.X+area.Width {
					t.Fatalf("n=%d ratio=%d: stack %d spans x %d..%d", n, ratio, i, r.X, r.X+r.Width)
				}
				y += r.Height
			}
			if y != area.Y+area.Height {
				t.Fatalf("n=%d ratio=%d: stack ends at %d, want %d", n, ratio, y, area.Y+area.Height)
			}
		}
	}
}

func TestMasterStack_LastWindowAbsorbsRemainder(t *testing.T) {
	got := MasterStack(platform.Rect{Width: 100, Height: 100}, 4, 50)
	if got[1].Height != 33 || got[2].Height != 33 || got[3].Height != 34 {
		t.Fatalf("expected stack heights 33,33,34, got %d,%d,%d", got[1].Height, got[2].Height, got[3].Height)
	}
}

func TestMasterStack_Idempotent(t *testing.T) {
	area := platform.Rect{Width: 1280, Height: 720}
	first := MasterStack(area, 5, 60)
	second := MasterStack(area, 5, 60)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("rect %d differs between passes: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestPolicyFor(t *testing.T) {
	if p := PolicyFor(KindFree, 55); p.Kind() != KindFree || p.Arrange(platform.Rect{Width: 10, Height: 10}, 3) != nil {
		t.Fatalf("free policy should never assign geometry")
	}
	p := PolicyFor(KindTiled, 150)
	tiled, ok := p.(Tiled)
	if !ok {
		t.Fatalf("expected Tiled, got %T", p)
	}
	if tiled.MasterRatio != MaxMasterRatio {
		t.Fatalf("expected ratio clamped to %d, got %d", MaxMasterRatio, tiled.MasterRatio)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "tiled", want: KindTiled},
		{in: " Floating ", want: KindFree},
		{in: "master-stack", want: KindTiled},
		{in: "spiral", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseKind(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseKind(%q): unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKindNextCycles(t *testing.T) {
	if KindTiled.Next() != KindFree || KindFree.Next() != KindTiled {
		t.Fatalf("unexpected cycle order")
	}
}

func TestInnerSubtractsBorder(t *testing.T) {
	got := Inner(platform.Rect{X: 550, Y: 0, Width: 450, Height: 400}, 2)
	want := platform.Rect{X: 550, Y: 0, Width: 446, Height: 396}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if tiny := Inner(platform.Rect{Width: 3, Height: 3}, 5); tiny.Width != 1 || tiny.Height != 1 {
		t.Fatalf("expected 1x1 minimum, got %dx%d", tiny.Width, tiny.Height)
	}
}

func TestApplyPadding(t *testing.T) {
	area := platform.Rect{X: 0, Y: 0, Width: 1000, Height: 800}
	got := ApplyPadding(area, Padding{Top: 20, Bottom: 10, Left: 5, Right: 15})
	want := platform.Rect{X: 5, Y: 20, Width: 980, Height: 770}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if same := ApplyPadding(area, Padding{}); same != area {
		t.Fatalf("expected zero padding to be a no-op, got %+v", same)
	}
}

func TestApplyPadding_ClampsToMinimumSize(t *testing.T) {
	adjusted := ApplyPadding(platform.Rect{Width: 10, Height: 10}, Padding{Top: 8, Bottom: 8, Left: 8, Right: 8})
	if adjusted.Width != 1 || adjusted.Height != 1 {
		t.Fatalf("expected 1x1, got %dx%d", adjusted.Width, adjusted.Height)
	}
}
