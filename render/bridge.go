package render

import "github.com/gdamore/tcell/v2"

// RGBToTcell converts RGB to tcell.Color
func RGBToTcell(rgb RGB) tcell.Color {
	return tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B))
}

// CellStyle builds the tcell style of a cell
func CellStyle(c Cell) tcell.Style {
	st := tcell.StyleDefault.Foreground(RGBToTcell(c.Fg)).Background(RGBToTcell(c.Bg))
	if c.Attrs&AttrBold != 0 {
		st = st.Bold(true)
	}
	if c.Attrs&AttrDim != 0 {
		st = st.Dim(true)
	}
	if c.Attrs&AttrItalic != 0 {
		st = st.Italic(true)
	}
	return st
}

// FlushToScreen copies the buffer into a tcell screen and shows it
// tcell downgrades RGB to the terminal palette when truecolor is unavailable
func (b *RenderBuffer) FlushToScreen(s tcell.Screen) {
	for y := 0; y < b.height; y++ {
		row := b.cells[y*b.width : (y+1)*b.width]
		for x, c := range row {
			if c.Rune == 0 {
				// Trailing half of a wide rune, tcell draws it with the leading cell
				if x > 0 && row[x-1].Rune != 0 {
					continue
				}
				c.Rune = ' '
			}
			s.SetContent(x, y, c.Rune, nil, CellStyle(c))
		}
	}
	s.Show()
}
