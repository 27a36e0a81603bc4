package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

// String returns the flag spelling of the mode
func (m ColorMode) String() string {
	if m == ColorModeTrueColor {
		return "truecolor"
	}
	return "256"
}

// ParseColorMode resolves a -color flag value, "auto" and "" detect from the environment
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return DetectColorMode(), nil
	case "truecolor", "true", "24bit":
		return ColorModeTrueColor, nil
	case "256", "8bit":
		return ColorMode256, nil
	default:
		return 0, fmt.Errorf("unknown color mode %q (use auto, truecolor or 256)", s)
	}
}

// DetectColorMode determines terminal color capability from environment
func DetectColorMode() ColorMode {
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorModeTrueColor
	}

	for _, env := range []string{"KITTY_WINDOW_ID", "KONSOLE_VERSION", "ITERM_SESSION_ID", "ALACRITTY_WINDOW_ID", "WEZTERM_PANE"} {
		if os.Getenv(env) != "" {
			return ColorModeTrueColor
		}
	}

	termLower := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(termLower, "truecolor") ||
		strings.Contains(termLower, "24bit") ||
		strings.Contains(termLower, "direct") {
		return ColorModeTrueColor
	}

	return ColorMode256
}

// xterm256 is the palette tcell matches RGB colors against
var xterm256 = func() []tcell.Color {
	p := make([]tcell.Color, 256)
	for i := range p {
		p[i] = tcell.PaletteColor(i)
	}
	return p
}()

// RGBTo256 returns the nearest xterm-256 palette index
func RGBTo256(c RGB) uint8 {
	found := tcell.FindColor(RGBToTcell(c), xterm256)
	return uint8(found - tcell.ColorValid)
}

// WriteANSI outputs the buffer as SGR escape sequences, one line per row
func (b *RenderBuffer) WriteANSI(out io.Writer, mode ColorMode) error {
	w := bufio.NewWriter(out)

	var last Cell
	lastValid := false

	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			cell := b.cells[y*b.width+x]
			if cell.Rune == 0 {
				// Trailing half of a wide rune
				if x > 0 && b.cells[y*b.width+x-1].Rune != 0 {
					continue
				}
				cell.Rune = ' '
			}

			if !lastValid || cell.Fg != last.Fg || cell.Bg != last.Bg || cell.Attrs != last.Attrs {
				w.WriteString("\x1b[0")
				if cell.Attrs&AttrBold != 0 {
					w.WriteString(";1")
				}
				if cell.Attrs&AttrDim != 0 {
					w.WriteString(";2")
				}
				if cell.Attrs&AttrItalic != 0 {
					w.WriteString(";3")
				}
				if mode == ColorMode256 {
					fmt.Fprintf(w, ";38;5;%d;48;5;%d", RGBTo256(cell.Fg), RGBTo256(cell.Bg))
				} else {
					fmt.Fprintf(w, ";38;2;%d;%d;%d", cell.Fg.R, cell.Fg.G, cell.Fg.B)
					fmt.Fprintf(w, ";48;2;%d;%d;%d", cell.Bg.R, cell.Bg.G, cell.Bg.B)
				}
				w.WriteByte('m')
				last = cell
				lastValid = true
			}
			w.WriteRune(cell.Rune)
		}
		w.WriteString("\x1b[0m\n")
		lastValid = false
	}

	return w.Flush()
}
