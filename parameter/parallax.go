package parameter

// Parallax offset tracking
const (
	// ParallaxSpeed scales each scroll delta before it is accumulated into the offset
	ParallaxSpeed = 0.8

	// ParallaxMaxOffset bounds the accumulated offset to [-ParallaxMaxOffset, ParallaxMaxOffset]
	// Also the divisor that maps the offset into an image alignment bias
	ParallaxMaxOffset = 1500.0

	// ScrollRowPixels is the number of virtual pixels one terminal row of scroll reports
	// Terminal rows are coarse, the tracker works in the pixel scale the offset bounds assume
	ScrollRowPixels = 32.0
)

// Scroll input steps, in terminal rows
const (
	// WheelStepRows is the scroll amount of one mouse wheel notch
	WheelStepRows = 3

	// KeyStepRows is the scroll amount of a single line motion (j/k, arrows)
	KeyStepRows = 1
)
