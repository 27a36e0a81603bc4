package render

// Attr is a bitmask of text attributes
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic

	AttrNone Attr = 0
)

// Cell is one terminal character with colors
// Rune 0 renders as a space
type Cell struct {
	Rune  rune
	Fg    RGB
	Bg    RGB
	Attrs Attr
}
