package tui

import (
	"fmt"
	"strings"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/wm"
)

// renderMinimap draws a workspace's mapped windows scaled into a
// width x height character canvas. Tiles are labelled with their 1-based
// slot; floating windows are drawn after tiles and labelled with "f".
func renderMinimap(ws wm.WorkspaceSnapshot, area platform.Rect, width, height int) []string {
	if width < 5 || height < 3 || area.Empty() {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for pass := 0; pass < 2; pass++ {
		for slot, w := range ws.Windows {
			if !w.Mapped || w.Floating != (pass == 1) {
				continue
			}
			label := fmt.Sprintf("%d", slot+1)
			if w.Floating {
				label = "f"
			}
			r := w.Geometry
			r.X -= area.X
			r.Y -= area.Y
			drawTile(canvas, r, label, area.Width, area.Height, width, height)
		}
	}

	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawTile(canvas [][]rune, rect platform.Rect, label string, areaW, areaH, canvasW, canvasH int) {
	x1 := rect.X * canvasW / areaW
	y1 := rect.Y * canvasH / areaH
	x2 := (rect.X + rect.Width) * canvasW / areaW
	y2 := (rect.Y + rect.Height) * canvasH / areaH

	// Keep the outer frame intact.
	x1 = max(x1, 1)
	y1 = max(y1, 1)
	x2 = min(x2, canvasW-2)
	y2 = min(y2, canvasH-2)

	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	for y := y1 + 1; y < y2; y++ {
		for x := x1 + 1; x < x2; x++ {
			canvas[y][x] = ' '
		}
	}

	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 {
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = r
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}

	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	lines := make([]string, max(height, 0))
	empty := strings.Repeat(" ", max(width, 0))
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
