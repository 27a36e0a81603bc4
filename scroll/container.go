// Package scroll models a vertically scrolled column of variable-height items.
//
// Every motion passes through an optional pre-scroll hook before it is
// applied, with the edge flags computed from the position the motion starts
// from. The hook may consume part of the motion; whatever remains moves the
// content.
package scroll

import (
	"math"

	"github.com/lixenwraith/parallax/parallax"
	"github.com/lixenwraith/parallax/parameter"
)

// PreScrollHook observes a motion before the container applies it and returns the consumed part
// deltaY is in virtual pixels, positive when content moves down (toward the start of the list)
type PreScrollHook func(deltaY float64, vp parallax.Viewport) (consumed float64)

// Span locates one item inside the viewport
type Span struct {
	Index int // item index
	ViewY int // first visible row, relative to viewport top
	ViewH int // visible rows
	Skip  int // rows of the item clipped above the viewport
}

// Container tracks row offset over a sequence of item heights
type Container struct {
	offset    int
	viewportH int
	heights   []int
	tops      []int // prefix sums, tops[i] = content row of item i
	contentH  int

	rowPixels float64
	hook      PreScrollHook
}

// NewContainer creates an empty container
// rowPixels <= 0 selects parameter.ScrollRowPixels
func NewContainer(rowPixels float64, hook PreScrollHook) *Container {
	if rowPixels <= 0 || math.IsNaN(rowPixels) || math.IsInf(rowPixels, 0) {
		rowPixels = parameter.ScrollRowPixels
	}
	return &Container{rowPixels: rowPixels, hook: hook}
}

// SetItems replaces item heights and re-clamps the offset
func (c *Container) SetItems(heights []int) {
	c.heights = append(c.heights[:0], heights...)
	c.tops = c.tops[:0]
	c.contentH = 0
	for _, h := range c.heights {
		c.tops = append(c.tops, c.contentH)
		if h > 0 {
			c.contentH += h
		}
	}
	c.clamp()
}

// SetViewport updates visible height and re-clamps the offset
func (c *Container) SetViewport(h int) {
	if h < 0 {
		h = 0
	}
	c.viewportH = h
	c.clamp()
}

// Offset returns the row offset from the top of the content
func (c *Container) Offset() int {
	return c.offset
}

// ContentHeight returns total rows of all items
func (c *Container) ContentHeight() int {
	return c.contentH
}

// ViewportHeight returns visible rows
func (c *Container) ViewportHeight() int {
	return c.viewportH
}

// Len returns item count
func (c *Container) Len() int {
	return len(c.heights)
}

// MaxOffset returns maximum valid scroll offset
func (c *Container) MaxOffset() int {
	maxOffset := c.contentH - c.viewportH
	if maxOffset < 0 {
		return 0
	}
	return maxOffset
}

// Viewport reports the edge flags for the current position
// FirstVisible: item 0 is first and not scrolled into; LastVisible: the last item's bottom is inside the viewport
// An empty container reports both edges
func (c *Container) Viewport() parallax.Viewport {
	n := len(c.heights)
	if n == 0 {
		return parallax.Viewport{FirstVisible: true, LastVisible: true}
	}
	lastBottom := c.tops[n-1] + max(c.heights[n-1], 0)
	return parallax.Viewport{
		FirstVisible: c.offset == 0,
		LastVisible:  lastBottom <= c.offset+c.viewportH,
	}
}

// ScrollBy moves content by rows (positive advances toward the end) and returns the rows actually moved
func (c *Container) ScrollBy(rows int) int {
	if rows == 0 {
		return 0
	}
	deltaY := -float64(rows) * c.rowPixels
	if c.hook != nil {
		consumed := c.hook(deltaY, c.Viewport())
		deltaY -= consumed
	}
	move := int(math.Round(-deltaY / c.rowPixels))

	before := c.offset
	c.offset += move
	c.clamp()
	return c.offset - before
}

// ScrollTo moves to an absolute row offset through ScrollBy so the hook observes the jump
func (c *Container) ScrollTo(pos int) int {
	return c.ScrollBy(pos - c.offset)
}

// PageUp scrolls up by half the viewport
func (c *Container) PageUp() int {
	return c.ScrollBy(-PageDelta(c.viewportH))
}

// PageDown scrolls down by half the viewport
func (c *Container) PageDown() int {
	return c.ScrollBy(PageDelta(c.viewportH))
}

// Home scrolls to the top
func (c *Container) Home() int {
	return c.ScrollTo(0)
}

// End scrolls to the bottom
func (c *Container) End() int {
	return c.ScrollTo(c.MaxOffset())
}

// Visible returns the items intersecting the viewport in order
func (c *Container) Visible() []Span {
	var spans []Span
	for i, top := range c.tops {
		h := c.heights[i]
		if h <= 0 {
			continue
		}
		if top >= c.offset+c.viewportH {
			break
		}
		viewY, viewH, skip, ok := c.clip(top, h)
		if !ok {
			continue
		}
		spans = append(spans, Span{Index: i, ViewY: viewY, ViewH: viewH, Skip: skip})
	}
	return spans
}

// Percent returns scroll position as 0-100
func (c *Container) Percent() int {
	maxOffset := c.MaxOffset()
	if maxOffset == 0 {
		return 0
	}
	return min(max(c.offset*100/maxOffset, 0), 100)
}

// clip maps content rows [y, y+h) to viewport coordinates
func (c *Container) clip(y, h int) (viewY, viewH, skip int, visible bool) {
	if y+h <= c.offset || y >= c.offset+c.viewportH {
		return 0, 0, 0, false
	}

	viewY = y - c.offset
	viewH = h
	if viewY < 0 {
		skip = -viewY
		viewH += viewY
		viewY = 0
	}
	if viewY+viewH > c.viewportH {
		viewH = c.viewportH - viewY
	}
	return viewY, viewH, skip, viewH > 0
}

func (c *Container) clamp() {
	c.offset = min(max(c.offset, 0), c.MaxOffset())
}

// PageDelta returns recommended page scroll amount
func PageDelta(visible int) int {
	return max(visible/2, 1)
}
