// Package listview composes location cards and draws the visible ones.
//
// A card is the location photo scaled to the card width and anchored
// vertically by the parallax bias, darkened by a vertical gradient, with the
// name and place captioned at its bottom-left corner.
package listview

import (
	"math"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/parallax/imageload"
	"github.com/lixenwraith/parallax/location"
	"github.com/lixenwraith/parallax/parallax"
	"github.com/lixenwraith/parallax/parameter"
	"github.com/lixenwraith/parallax/picture"
	"github.com/lixenwraith/parallax/render"
)

// ImageSource is the non-blocking image lookup the renderer reads from
type ImageSource interface {
	Get(url string) imageload.Result
}

// Options configures a Renderer, zero values select parameter defaults
type Options struct {
	Width     int // total list width in columns, padding included
	MaxOffset float64
	Mode      picture.Mode
	PaddingX  int
	PaddingY  int
	Surface   render.RGB // color behind cards, shown in card corners
}

// RowView is one composed card
type RowView struct {
	Location location.Location
	Bias     float64
	Width    int // card columns
	Height   int // card rows
	Cells    []render.Cell
	ImageTop int // card row of the image's top edge, negative when clipped above
	State    imageload.State
}

// At returns the card cell at column x, row y
func (r *RowView) At(x, y int) render.Cell {
	return r.Cells[y*r.Width+x]
}

type picKey struct {
	url   string
	width int
	mode  picture.Mode
}

// Renderer composes cards, caching converted pictures per url and card width
type Renderer struct {
	opts   Options
	images ImageSource
	pics   map[picKey]*picture.Picture
	gen    int // bumped on every layout change
}

// NewRenderer creates a renderer reading images from src
func NewRenderer(src ImageSource, opts Options) *Renderer {
	if !(opts.MaxOffset > 0) || math.IsInf(opts.MaxOffset, 0) {
		opts.MaxOffset = parameter.ParallaxMaxOffset
	}
	if opts.PaddingX < 0 {
		opts.PaddingX = 0
	}
	if opts.PaddingY < 0 {
		opts.PaddingY = 0
	}
	if opts.Surface == (render.RGB{}) {
		opts.Surface = render.RGBSurface
	}
	return &Renderer{
		opts:   opts,
		images: src,
		pics:   make(map[picKey]*picture.Picture),
	}
}

// Options returns the layout in use
func (r *Renderer) Options() Options {
	return r.opts
}

// SetWidth changes the list width, cached pictures for other widths are dropped
func (r *Renderer) SetWidth(width int) {
	if width == r.opts.Width {
		return
	}
	r.opts.Width = width
	r.pics = make(map[picKey]*picture.Picture)
	r.gen++
}

// SetMode switches the picture conversion mode
func (r *Renderer) SetMode(mode picture.Mode) {
	if mode == r.opts.Mode {
		return
	}
	r.opts.Mode = mode
	r.pics = make(map[picKey]*picture.Picture)
	r.gen++
}

// CardSize returns card columns and rows for the current width
func (r *Renderer) CardSize() (w, h int) {
	w = max(r.opts.Width-2*r.opts.PaddingX, 1)
	h = int(math.Round(float64(w) / parameter.CardAspectRatio * parameter.CellAspect))
	return w, max(h, parameter.MinCardHeight)
}

// ItemHeight returns rows per list item, the card plus its vertical padding
func (r *Renderer) ItemHeight() int {
	_, h := r.CardSize()
	return h + 2*r.opts.PaddingY
}

// RenderRow composes the card for loc at the given parallax offset
func (r *Renderer) RenderRow(loc location.Location, offset float64) RowView {
	w, h := r.CardSize()
	bias := r.biasFor(offset)

	card := render.NewRenderBuffer(w, h, render.RGBPlaceholder)
	row := RowView{Location: loc, Bias: bias, Width: w, Height: h}

	res := r.images.Get(loc.ImageURL)
	row.State = res.State
	switch res.State {
	case imageload.StateReady:
		pic := r.picture(loc.ImageURL, res, w)
		row.ImageTop = parallax.AlignOffset(h-pic.Height, bias)
		for y := 0; y < h; y++ {
			sy := y - row.ImageTop
			if sy < 0 || sy >= pic.Height {
				continue
			}
			for x := 0; x < min(w, pic.Width); x++ {
				card.Set(x, y, pic.At(x, sy))
			}
		}
	case imageload.StatePending:
		card.SetFgOnly(w/2, h/2, parameter.LoadingGlyph, render.RGBHint, render.AttrNone)
	}

	applyGradient(card, w, h)
	drawCaption(card, loc, w, h)

	// Rounded corners
	for _, c := range [4][2]int{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}} {
		card.SetWithBg(c[0], c[1], ' ', render.RGBBlack, r.opts.Surface, render.AttrNone)
	}

	row.Cells = card.Cells()
	return row
}

func (r *Renderer) biasFor(offset float64) float64 {
	return parallax.Bias(offset, r.opts.MaxOffset)
}

func (r *Renderer) picture(url string, res imageload.Result, width int) *picture.Picture {
	key := picKey{url: url, width: width, mode: r.opts.Mode}
	if pic, ok := r.pics[key]; ok {
		return pic
	}
	pic := picture.Convert(res.Image, width, r.opts.Mode)
	r.pics[key] = pic
	return pic
}

// applyGradient darkens rows linearly from transparent at the top to GradientMaxAlpha at the bottom
func applyGradient(card *render.RenderBuffer, w, h int) {
	if h < 2 {
		return
	}
	for y := 0; y < h; y++ {
		alpha := parameter.GradientMaxAlpha * float64(y) / float64(h-1)
		for x := 0; x < w; x++ {
			card.Darken(x, y, alpha)
		}
	}
}

func drawCaption(card *render.RenderBuffer, loc location.Location, w, h int) {
	maxW := w - 2*parameter.CaptionMarginX
	if maxW <= 0 {
		return
	}
	placeY := h - 1 - parameter.CaptionMarginBottom
	nameY := placeY - 1
	if nameY < 0 {
		return
	}
	card.Text(parameter.CaptionMarginX, nameY, maxW, runewidth.Truncate(loc.Name, maxW, "…"), render.RGBWhite, render.AttrBold)
	card.Text(parameter.CaptionMarginX, placeY, maxW, runewidth.Truncate(loc.Place, maxW, "…"), render.RGBWhite, render.AttrNone)
}
