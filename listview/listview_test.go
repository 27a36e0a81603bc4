package listview

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/lixenwraith/parallax/imageload"
	"github.com/lixenwraith/parallax/location"
	"github.com/lixenwraith/parallax/picture"
	"github.com/lixenwraith/parallax/render"
	"github.com/lixenwraith/parallax/scroll"
)

type fakeImages map[string]imageload.Result

func (f fakeImages) Get(url string) imageload.Result {
	if r, ok := f[url]; ok {
		return r
	}
	return imageload.Result{State: imageload.StatePending}
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

// 40 columns with 4 padding gives 32x9 cards, a 32x40 image converts to 32x20 cells
func testRenderer(src ImageSource) *Renderer {
	return NewRenderer(src, Options{Width: 40, PaddingX: 4, PaddingY: 1, Mode: picture.ModeQuadrant})
}

func readyAll(img *image.RGBA) fakeImages {
	f := fakeImages{}
	for _, loc := range location.Defaults() {
		f[loc.ImageURL] = imageload.Result{State: imageload.StateReady, Image: img}
	}
	return f
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -3 && d <= 3
}

func TestCardSize(t *testing.T) {
	r := testRenderer(fakeImages{})
	if w, h := r.CardSize(); w != 32 || h != 9 {
		t.Errorf("CardSize() = %d,%d, want 32,9", w, h)
	}
	if got := r.ItemHeight(); got != 11 {
		t.Errorf("ItemHeight() = %d, want 11", got)
	}

	r.SetWidth(6)
	if _, h := r.CardSize(); h < 4 {
		t.Errorf("narrow card height = %d, want >= 4", h)
	}
}

func TestRenderListCompleteness(t *testing.T) {
	locs := location.Defaults()
	r := testRenderer(fakeImages{})
	lv := r.RenderList(locs, func() float64 { return 0 })

	if lv.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", lv.Len())
	}
	rows := lv.Rows()
	if len(rows) != len(locs) {
		t.Fatalf("Rows() = %d rows, want %d", len(rows), len(locs))
	}
	for i, row := range rows {
		if row.Location.Name != locs[i].Name || row.Location.Place != locs[i].Place {
			t.Errorf("row %d = %q/%q, want %q/%q", i, row.Location.Name, row.Location.Place, locs[i].Name, locs[i].Place)
		}
		if row.Bias != 0 {
			t.Errorf("row %d bias = %v at offset 0", i, row.Bias)
		}
	}
}

func TestRenderRowAlignment(t *testing.T) {
	img := solidImage(32, 40, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	r := testRenderer(readyAll(img))
	loc := location.Defaults()[0]

	tests := []struct {
		name     string
		offset   float64
		wantBias float64
		wantTop  int
	}{
		{"top aligned", -1500, -1, 0},
		{"centered", 0, 0, -5},
		{"bottom aligned", 1500, 1, -11},
		{"half way", 750, 0.5, -8},
		{"beyond bound", 3000, 1, -11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := r.RenderRow(loc, tt.offset)
			if row.State != imageload.StateReady {
				t.Fatalf("state = %v, want ready", row.State)
			}
			if row.Bias != tt.wantBias {
				t.Errorf("bias = %v, want %v", row.Bias, tt.wantBias)
			}
			if row.ImageTop != tt.wantTop {
				t.Errorf("ImageTop = %d, want %d", row.ImageTop, tt.wantTop)
			}
		})
	}
}

func TestRenderRowCaptionAndGradient(t *testing.T) {
	img := solidImage(32, 40, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	r := testRenderer(readyAll(img))
	loc := location.Defaults()[1]
	row := r.RenderRow(loc, 0)
	w, h := row.Width, row.Height

	// name two rows above the bottom margin, place right below
	for i, want := range []rune("Gardens By The Bay") {
		c := row.At(2+i, h-3)
		if c.Rune != want || c.Fg != render.RGBWhite || c.Attrs&render.AttrBold == 0 {
			t.Fatalf("name cell %d = %+v, want bold white %q", i, c, want)
		}
	}
	for i, want := range []rune("Singapore") {
		c := row.At(2+i, h-2)
		if c.Rune != want || c.Fg != render.RGBWhite || c.Attrs != render.AttrNone {
			t.Fatalf("place cell %d = %+v, want plain white %q", i, c, want)
		}
	}

	top := row.At(w/2, 0).Bg
	if !near(top.R, 255) {
		t.Errorf("top row bg = %v, want undarkened", top)
	}
	bottom := row.At(w/2, h-1).Bg
	if !near(bottom.R, 76) {
		t.Errorf("bottom row bg = %v, want darkened by 0.7", bottom)
	}

	for _, c := range [][2]int{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}} {
		if got := row.At(c[0], c[1]).Bg; got != render.RGBSurface {
			t.Errorf("corner %v bg = %v, want surface", c, got)
		}
	}
}

func TestRenderRowPlaceholder(t *testing.T) {
	loc := location.Defaults()[2]
	tests := []struct {
		name      string
		result    imageload.Result
		wantGlyph bool
	}{
		{"pending", imageload.Result{State: imageload.StatePending}, true},
		{"failed", imageload.Result{State: imageload.StateFailed, Err: errors.New("404")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRenderer(fakeImages{loc.ImageURL: tt.result})
			row := r.RenderRow(loc, 0)
			if row.State != tt.result.State {
				t.Errorf("state = %v, want %v", row.State, tt.result.State)
			}
			if got := row.At(row.Width/2, 0).Bg; got != render.RGBPlaceholder {
				t.Errorf("top bg = %v, want placeholder", got)
			}
			glyph := row.At(row.Width/2, row.Height/2).Rune == '·'
			if glyph != tt.wantGlyph {
				t.Errorf("loading glyph shown = %v, want %v", glyph, tt.wantGlyph)
			}
			if got := row.At(2, row.Height-3).Rune; got != 'M' {
				t.Errorf("caption missing on placeholder, got %q", got)
			}
		})
	}
}

func TestRenderRowTruncatesCaption(t *testing.T) {
	loc := location.Location{Name: "A Very Long Destination Name Indeed", Place: "Somewhere", ImageURL: "x"}
	r := NewRenderer(fakeImages{}, Options{Width: 20, PaddingX: 2})
	row := r.RenderRow(loc, 0)

	maxW := row.Width - 4
	last := row.At(2+maxW-1, row.Height-3).Rune
	if last != '…' {
		t.Errorf("truncated name ends with %q, want ellipsis", last)
	}
	if got := row.At(2+maxW, row.Height-3).Rune; got == 'I' {
		t.Error("name overflows the caption margin")
	}
}

func TestListViewLazyRows(t *testing.T) {
	offset := 0.0
	src := fakeImages{}
	r := testRenderer(src)
	lv := r.RenderList(location.Defaults(), func() float64 { return offset })

	if lv.Composed() != 0 {
		t.Fatalf("rows composed before access: %d", lv.Composed())
	}

	lv.Row(3)
	lv.Row(3)
	if lv.Composed() != 1 {
		t.Errorf("repeat access composed %d times, want 1", lv.Composed())
	}

	offset = 120
	if got := lv.Row(3); got.Bias != 0.08 {
		t.Errorf("bias after offset change = %v, want 0.08", got.Bias)
	}
	if lv.Composed() != 2 {
		t.Errorf("offset change composed %d, want 2", lv.Composed())
	}

	lv.Invalidate()
	lv.Row(3)
	if lv.Composed() != 3 {
		t.Errorf("Invalidate composed %d, want 3", lv.Composed())
	}

	url := location.Defaults()[3].ImageURL
	src[url] = imageload.Result{State: imageload.StateReady, Image: solidImage(32, 40, color.RGBA{A: 255})}
	if got := lv.Row(3); got.State != imageload.StateReady {
		t.Errorf("row did not pick up ready image, state %v", got.State)
	}

	r.SetMode(picture.ModeBackground)
	lv.Row(3)
	if lv.Composed() != 5 {
		t.Errorf("mode change composed %d, want 5", lv.Composed())
	}
}

func TestListViewDraw(t *testing.T) {
	r := testRenderer(fakeImages{})
	lv := r.RenderList(location.Defaults(), func() float64 { return 0 })

	sc := scroll.NewContainer(0, nil)
	sc.SetViewport(15)
	sc.SetItems(lv.Heights())

	buf := render.NewRenderBuffer(40, 15, render.RGBBlack)
	area := render.Rect{W: 40, H: 15}
	lv.Draw(buf, area, sc)

	if got := buf.Get(10, 0).Bg; got != render.RGBSurface {
		t.Errorf("padding row bg = %v, want surface", got)
	}
	if got := buf.Get(2, 5).Bg; got != render.RGBSurface {
		t.Errorf("side padding bg = %v, want surface", got)
	}
	row := lv.Row(0)
	if got, want := buf.Get(5, 1), row.At(1, 0); got != want {
		t.Errorf("card cell = %+v, want %+v", got, want)
	}
	if got, want := buf.Get(4+2, 1+row.Height-3).Rune, 'M'; got != want {
		t.Errorf("caption cell = %q, want %q", got, want)
	}

	sc.ScrollBy(3)
	lv.Draw(buf, area, sc)
	if got, want := buf.Get(5, 0), row.At(1, 2); got != want {
		t.Errorf("scrolled card cell = %+v, want %+v", got, want)
	}

	// second item starts at content row 11
	second := lv.Row(1)
	if got, want := buf.Get(5, 11-3+1), second.At(1, 0); got != want {
		t.Errorf("second card cell = %+v, want %+v", got, want)
	}
}

func TestListViewSnapshot(t *testing.T) {
	r := testRenderer(fakeImages{})
	lv := r.RenderList(location.Defaults(), func() float64 { return 0 })

	buf := lv.Snapshot()
	w, h := buf.Bounds()
	if w != 40 || h != 7*11 {
		t.Fatalf("snapshot = %dx%d, want 40x77", w, h)
	}

	// caption of the last card
	last := lv.Row(6)
	y := 6*11 + 1 + last.Height - 2
	if got := buf.Get(4+2, y).Rune; got != 'E' {
		t.Errorf("last place starts with %q, want 'E' (Egypt)", got)
	}
}
