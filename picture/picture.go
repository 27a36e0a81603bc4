// Package picture converts decoded images into terminal cells.
//
// An image is scaled to fill a target column count, keeping its aspect ratio
// (terminal cells are treated as twice as tall as wide). Quadrant mode packs a
// 2x2 pixel block into one cell using Unicode quadrant glyphs with a
// foreground and a background color; background mode paints one pixel per cell.
package picture

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"

	"github.com/lixenwraith/parallax/parameter"
	"github.com/lixenwraith/parallax/render"
)

// QuadrantChars maps 4-bit patterns to Unicode quadrant characters
// Bit order: 0=UL, 1=UR, 2=LL, 3=LR (1 = foreground)
var QuadrantChars = [16]rune{
	' ', // 0000 - empty
	'▘', // 0001 - upper-left
	'▝', // 0010 - upper-right
	'▀', // 0011 - upper half
	'▖', // 0100 - lower-left
	'▌', // 0101 - left half
	'▞', // 0110 - anti-diagonal
	'▛', // 0111 - UL + UR + LL
	'▗', // 1000 - lower-right
	'▚', // 1001 - diagonal
	'▐', // 1010 - right half
	'▜', // 1011 - UL + UR + LR
	'▄', // 1100 - lower half
	'▙', // 1101 - UL + LL + LR
	'▟', // 1110 - UR + LL + LR
	'█', // 1111 - full block
}

// Mode determines the rendering approach
type Mode int

const (
	ModeQuadrant Mode = iota
	ModeBackground
)

// ParseMode resolves a -mode flag value
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "quadrant", "q":
		return ModeQuadrant, nil
	case "bg", "background":
		return ModeBackground, nil
	default:
		return 0, fmt.Errorf("unknown render mode %q (use quadrant or bg)", s)
	}
}

// String returns the flag spelling of the mode
func (m Mode) String() string {
	if m == ModeBackground {
		return "bg"
	}
	return "quadrant"
}

// Picture is an image converted to a grid of cells
type Picture struct {
	Cells  []render.Cell
	Width  int
	Height int
}

// At returns the cell at column x, row y
func (p *Picture) At(x, y int) render.Cell {
	return p.Cells[y*p.Width+x]
}

// FitHeight returns the rows an srcW x srcH image occupies when scaled to width columns
func FitHeight(srcW, srcH, width int) int {
	if srcW <= 0 || srcH <= 0 || width <= 0 {
		return 0
	}
	return max(int(float64(width)*float64(srcH)/float64(srcW)*parameter.CellAspect+0.5), 1)
}

// Convert scales img to fill width columns and converts it to cells
func Convert(img image.Image, width int, mode Mode) *Picture {
	bounds := img.Bounds()
	outH := FitHeight(bounds.Dx(), bounds.Dy(), width)
	if outH == 0 {
		return &Picture{}
	}

	// Effective pixel grid per cell
	sub := 1
	if mode == ModeQuadrant {
		sub = 2
	}
	grid := image.NewRGBA(image.Rect(0, 0, width*sub, outH*sub))
	draw.ApproxBiLinear.Scale(grid, grid.Bounds(), img, bounds, draw.Src, nil)

	cells := make([]render.Cell, width*outH)
	switch mode {
	case ModeBackground:
		convertBackground(grid, cells, width, outH)
	default:
		convertQuadrant(grid, cells, width, outH)
	}

	return &Picture{Cells: cells, Width: width, Height: outH}
}

// convertBackground renders using background colors only, one grid pixel per cell
func convertBackground(grid *image.RGBA, cells []render.Cell, outW, outH int) {
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			rgb := pixel(grid, x, y)
			cells[y*outW+x] = render.Cell{Rune: ' ', Fg: rgb, Bg: rgb}
		}
	}
}

// convertQuadrant renders using quadrant characters with fg/bg colors (2x effective resolution)
func convertQuadrant(grid *image.RGBA, cells []render.Cell, outW, outH int) {
	// Sample positions: [0]=UL, [1]=UR, [2]=LL, [3]=LR
	offsets := [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			var pixels [4]render.RGB
			for i, off := range offsets {
				pixels[i] = pixel(grid, x*2+off[0], y*2+off[1])
			}
			char, fg, bg := findBestQuadrant(pixels)
			cells[y*outW+x] = render.Cell{Rune: char, Fg: fg, Bg: bg}
		}
	}
}

func pixel(grid *image.RGBA, x, y int) render.RGB {
	i := grid.PixOffset(x, y)
	return colorToRGB(color.RGBA{R: grid.Pix[i], G: grid.Pix[i+1], B: grid.Pix[i+2], A: grid.Pix[i+3]})
}

// findBestQuadrant finds the optimal quadrant character and fg/bg colors for 4 pixels
// Exhaustive search over all 16 patterns to minimize color error
func findBestQuadrant(pixels [4]render.RGB) (rune, render.RGB, render.RGB) {
	bestError := int(^uint(0) >> 1)
	bestPattern := 0
	var bestFg, bestBg render.RGB

	for pattern := 0; pattern < 16; pattern++ {
		fg, bg, err := computePatternColors(pixels, pattern)
		if err < bestError {
			bestError = err
			bestPattern = pattern
			bestFg = fg
			bestBg = bg
		}
	}

	// Uniform block: keep fg equal to bg so text drawn over it inherits a sensible color
	if bestPattern == 0 {
		bestFg = bestBg
	}
	return QuadrantChars[bestPattern], bestFg, bestBg
}

// computePatternColors returns the average color of each group and the total squared error
func computePatternColors(pixels [4]render.RGB, pattern int) (fg, bg render.RGB, totalError int) {
	var fgR, fgG, fgB, fgCount int
	var bgR, bgG, bgB, bgCount int

	for i := 0; i < 4; i++ {
		if pattern&(1<<i) != 0 {
			fgR += int(pixels[i].R)
			fgG += int(pixels[i].G)
			fgB += int(pixels[i].B)
			fgCount++
		} else {
			bgR += int(pixels[i].R)
			bgG += int(pixels[i].G)
			bgB += int(pixels[i].B)
			bgCount++
		}
	}

	if fgCount > 0 {
		fg = render.RGB{R: uint8(fgR / fgCount), G: uint8(fgG / fgCount), B: uint8(fgB / fgCount)}
	}
	if bgCount > 0 {
		bg = render.RGB{R: uint8(bgR / bgCount), G: uint8(bgG / bgCount), B: uint8(bgB / bgCount)}
	}

	for i := 0; i < 4; i++ {
		target := bg
		if pattern&(1<<i) != 0 {
			target = fg
		}
		totalError += colorDistanceSq(pixels[i], target)
	}

	return fg, bg, totalError
}

// colorDistanceSq computes squared Euclidean distance in RGB space
func colorDistanceSq(a, b render.RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// colorToRGB converts any color.Color to render.RGB, undoing alpha premultiplication
func colorToRGB(c color.Color) render.RGB {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return render.RGBBlack
	}
	return render.RGB{
		R: uint8((r * 0xff) / a),
		G: uint8((g * 0xff) / a),
		B: uint8((b * 0xff) / a),
	}
}
