package render

// Rect is a rectangular area in buffer coordinates
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rect has no cells
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Sub returns a nested rect relative to r, clipped to r
func (r Rect) Sub(x, y, w, h int) Rect {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > r.W {
		w = r.W - x
	}
	if y+h > r.H {
		h = r.H - y
	}
	return Rect{X: r.X + x, Y: r.Y + y, W: max(w, 0), H: max(h, 0)}
}
