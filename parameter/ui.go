package parameter

import "time"

// Layout & Margins
const (
	// TitleBarHeight is the top bar holding the screen title
	TitleBarHeight = 1

	// StatusBarHeight is the bottom bar holding offset readout and key help
	StatusBarHeight = 1

	// CardPaddingX is the horizontal gap between screen edge and card
	CardPaddingX = 4

	// CardPaddingY is the vertical gap above and below each card
	CardPaddingY = 1

	// CardAspectRatio is card width over card height, in pixels
	CardAspectRatio = 1.8

	// CellAspect compensates for terminal cells being about twice as tall as wide
	CellAspect = 0.5

	// MinCardHeight keeps captions readable on narrow terminals
	MinCardHeight = 4

	// CaptionMarginX is the left inset of the name/place caption inside a card
	CaptionMarginX = 2

	// CaptionMarginBottom is the number of rows between the place line and the card bottom
	CaptionMarginBottom = 1
)

// Gradient overlay
const (
	// GradientMaxAlpha is the black overlay opacity at the card bottom, 0 at the top
	GradientMaxAlpha = 0.7
)

// Text
const (
	// TitleText is shown in the title bar
	TitleText = "Parallax Scrolling Demo"

	// LoadingGlyph is drawn in the middle of a card whose image is pending
	LoadingGlyph = '·'
)

// Frame pacing
const (
	// FrameInterval caps redraw frequency when many events arrive at once (~60 FPS)
	FrameInterval = 16 * time.Millisecond
)
