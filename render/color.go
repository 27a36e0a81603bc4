package render

// RGB stores explicit 8-bit color channels, decoupled from tcell
type RGB struct {
	R, G, B uint8
}

// Predefined colors
var (
	RGBBlack = RGB{0, 0, 0}
	RGBWhite = RGB{255, 255, 255}

	// RGBSurface is the dark blue behind the card list
	RGBSurface = RGB{18, 32, 47}

	// RGBTitleBar is the surface color lifted for the title bar
	RGBTitleBar = RGB{32, 48, 66}

	// RGBPlaceholder fills a card whose image is not available
	RGBPlaceholder = RGB{52, 64, 80}

	// RGBHint colors secondary text in the bars
	RGBHint = RGB{140, 160, 180}
)

// Blend performs alpha blending: result = src*alpha + dst*(1-alpha)
func (dst RGB) Blend(src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return dst
	}
	if alpha >= 1 {
		return src
	}
	inv := 1.0 - alpha
	return RGB{
		R: uint8(float64(src.R)*alpha + float64(dst.R)*inv),
		G: uint8(float64(src.G)*alpha + float64(dst.G)*inv),
		B: uint8(float64(src.B)*alpha + float64(dst.B)*inv),
	}
}
