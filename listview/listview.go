package listview

import (
	"github.com/lixenwraith/parallax/imageload"
	"github.com/lixenwraith/parallax/location"
	"github.com/lixenwraith/parallax/render"
	"github.com/lixenwraith/parallax/scroll"
)

// ListView is a finite, ordered list of cards realized on demand
// A row is composed the first time it is drawn or requested and recomposed
// when the offset it was composed at differs from the current one
type ListView struct {
	r      *Renderer
	locs   []location.Location
	offset func() float64

	rows     []*cachedRow
	composed int // total compositions, for cache diagnostics
}

type cachedRow struct {
	view RowView
	gen  int
}

// RenderList binds locs to a list view reading the live offset through offset
func (r *Renderer) RenderList(locs []location.Location, offset func() float64) *ListView {
	cp := make([]location.Location, len(locs))
	copy(cp, locs)
	return &ListView{
		r:      r,
		locs:   cp,
		offset: offset,
		rows:   make([]*cachedRow, len(cp)),
	}
}

// Len returns the number of rows
func (lv *ListView) Len() int {
	return len(lv.locs)
}

// Heights returns per-row item heights for a scroll container
func (lv *ListView) Heights() []int {
	h := lv.r.ItemHeight()
	out := make([]int, len(lv.locs))
	for i := range out {
		out[i] = h
	}
	return out
}

// Composed returns how many row compositions have happened
func (lv *ListView) Composed() int {
	return lv.composed
}

// Invalidate drops every realized row so the next access recomposes it
func (lv *ListView) Invalidate() {
	clear(lv.rows)
}

// Row returns row i at the current offset
func (lv *ListView) Row(i int) RowView {
	offset := lv.offset()
	if c := lv.rows[i]; c != nil && c.gen == lv.r.gen && c.view.Bias == lv.r.biasFor(offset) && !lv.imageChanged(&c.view) {
		return c.view
	}

	row := lv.r.RenderRow(lv.locs[i], offset)
	lv.rows[i] = &cachedRow{view: row, gen: lv.r.gen}
	lv.composed++
	return row
}

// Rows realizes and returns every row in order
func (lv *ListView) Rows() []RowView {
	out := make([]RowView, len(lv.locs))
	for i := range out {
		out[i] = lv.Row(i)
	}
	return out
}

// Draw paints the rows visible in sc into area of buf
func (lv *ListView) Draw(buf *render.RenderBuffer, area render.Rect, sc *scroll.Container) {
	buf.Fill(area, lv.r.opts.Surface)
	padX, padY := lv.r.opts.PaddingX, lv.r.opts.PaddingY

	for _, span := range sc.Visible() {
		if span.Index >= len(lv.locs) {
			break
		}
		row := lv.Row(span.Index)
		for l := span.Skip; l < span.Skip+span.ViewH; l++ {
			cy := l - padY
			if cy < 0 || cy >= row.Height {
				continue
			}
			y := area.Y + span.ViewY + l - span.Skip
			for x := 0; x < row.Width && padX+x < area.W; x++ {
				buf.Set(area.X+padX+x, y, row.At(x, cy))
			}
		}
	}
}

func (lv *ListView) imageChanged(row *RowView) bool {
	if row.State == imageload.StateReady {
		return false
	}
	return lv.r.images.Get(row.Location.ImageURL).State != row.State
}

// Snapshot draws every row, top to bottom, into a buffer sized to the whole list
func (lv *ListView) Snapshot() *render.RenderBuffer {
	heights := lv.Heights()
	total := 0
	for _, h := range heights {
		total += h
	}

	sc := scroll.NewContainer(0, nil)
	sc.SetViewport(total)
	sc.SetItems(heights)

	buf := render.NewRenderBuffer(lv.r.opts.Width, total, lv.r.opts.Surface)
	lv.Draw(buf, render.Rect{W: lv.r.opts.Width, H: total}, sc)
	return buf
}
