package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

var (
	styleDefault = tcell.StyleDefault
	styleHeader  = tcell.StyleDefault.Bold(true)
	styleCursor  = tcell.StyleDefault.Reverse(true)
	styleGap     = tcell.StyleDefault.Dim(true)
	styleOffList = tcell.StyleDefault.Dim(true).Italic(true)
)

// draw renders render space top to bottom: one row per built slot,
// a shaded run of rows for each animating gap.
func (d *Demo) draw() {
	s := d.screen
	s.Clear()
	w, h := s.Size()

	header := fmt.Sprintf("glide: %d items, %d slots", len(d.items), d.engine.RenderCount())
	if d.reorder != nil {
		header += "  [reordering]"
	}
	putText(s, 0, 0, w, header, styleHeader)
	putText(s, 0, 1, w,
		"a append  i insert  d delete  c change  m move  s shuffle  space reorder  q quit",
		styleGap)

	row := 2
	for idx := 0; idx < d.engine.RenderCount() && row < h; idx++ {
		if content, ok := d.engine.BuildSlot(idx); ok {
			style := styleDefault
			if _, live := d.engine.RenderIndexToItemIndex(idx); !live {
				style = styleOffList
			}
			if idx == d.cursor {
				style = styleCursor
			}
			putText(s, 0, row, w, fmt.Sprintf("%3d %v", idx, content), style)
			row++
			continue
		}
		// Gap slot: its extent decides how many rows it occupies right
		// now.
		rows := 1
		if ext, ok := d.engine.SlotExtent(idx); ok {
			rows = int(math.Round(float64(ext)))
		}
		for i := 0; i < rows && row < h; i++ {
			putText(s, 0, row, w, "  ~", styleGap)
			row++
		}
		if idx == d.cursor && rows == 0 && row < h {
			putText(s, 0, row, w, "  ~", styleCursor)
			row++
		}
	}
	s.Show()
}

// putText writes text at (x, y), truncated to maxWidth terminal cells.
// Widths are counted per grapheme cluster, so double-width and combined
// characters stay aligned.
func putText(s tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := g.Width()
		if w == 0 {
			continue
		}
		if x+w > maxWidth {
			return
		}
		runes := g.Runes()
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
}
