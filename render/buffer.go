package render

import "github.com/mattn/go-runewidth"

// RenderBuffer is a full-screen cell compositor
// Row-major cells, written by the list and bars each frame, then flushed to a screen or ANSI writer
type RenderBuffer struct {
	cells  []Cell
	width  int
	height int
	bg     RGB
}

// NewRenderBuffer creates a buffer with the specified dimensions, cleared to bg
func NewRenderBuffer(width, height int, bg RGB) *RenderBuffer {
	b := &RenderBuffer{bg: bg}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *RenderBuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Clear resets all cells to blank background using exponential copy
func (b *RenderBuffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = Cell{Rune: ' ', Bg: b.bg}
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// Bounds returns buffer dimensions
func (b *RenderBuffer) Bounds() (int, int) {
	return b.width, b.height
}

// Cells exposes the backing row-major slice
func (b *RenderBuffer) Cells() []Cell {
	return b.cells
}

func (b *RenderBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Get returns the cell at x, y, zero Cell when out of bounds
func (b *RenderBuffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return Cell{}
	}
	return b.cells[y*b.width+x]
}

// Set overwrites a cell
func (b *RenderBuffer) Set(x, y int, c Cell) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = c
}

// SetWithBg writes a cell with explicit fg and bg colors (opaque replace)
func (b *RenderBuffer) SetWithBg(x, y int, r rune, fg, bg RGB, attrs Attr) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = Cell{Rune: r, Fg: fg, Bg: bg, Attrs: attrs}
}

// SetFgOnly writes rune, foreground, and attrs while preserving existing background
func (b *RenderBuffer) SetFgOnly(x, y int, r rune, fg RGB, attrs Attr) {
	if !b.inBounds(x, y) {
		return
	}
	dst := &b.cells[y*b.width+x]
	dst.Rune = r
	dst.Fg = fg
	dst.Attrs = attrs
}

// Darken blends both colors of a cell toward black by alpha
func (b *RenderBuffer) Darken(x, y int, alpha float64) {
	if !b.inBounds(x, y) {
		return
	}
	dst := &b.cells[y*b.width+x]
	dst.Fg = dst.Fg.Blend(RGBBlack, alpha)
	dst.Bg = dst.Bg.Blend(RGBBlack, alpha)
}

// Fill paints a rect with blank cells of bg
func (b *RenderBuffer) Fill(r Rect, bg RGB) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			b.SetWithBg(x, y, ' ', RGBBlack, bg, AttrNone)
		}
	}
}

// Text writes s starting at x, y, clipped to maxW columns, keeping existing backgrounds
// Wide runes occupy two columns, the second holding a zero rune
// Returns columns written
func (b *RenderBuffer) Text(x, y, maxW int, s string, fg RGB, attrs Attr) int {
	col := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > maxW {
			break
		}
		b.SetFgOnly(x+col, y, r, fg, attrs)
		if w == 2 {
			b.SetFgOnly(x+col+1, y, 0, fg, attrs)
		}
		col += w
	}
	return col
}
