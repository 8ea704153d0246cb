package tiling

import (
	"fmt"
	"math"

	"tilepress/pkg/geom"
)

// PrintArea is a platform-reported printable region of a physical sheet, in
// mm from the sheet's top-left corner. Printers report this themselves and it
// is usually smaller and off-center compared to the nominal margin inset;
// deriving the clip from it prevents hardware margin clipping.
type PrintArea struct {
	XMm, YMm          float64
	WidthMm, HeightMm float64
}

// Layout resolves the three rectangles for one tile. It is the single
// geometry function shared by the preview thumbnailer, the live overlay, the
// PDF and image exporters, and the print path; screen, paper, and exported
// file therefore can never disagree about tile content.
//
// Edge tiles are truncated to the true document boundary, never padded —
// consumers fill the rest of the page canvas with background instead.
func Layout(g *PageGrid, row, col int) (TileCell, error) {
	if row < 0 || row >= g.Rows || col < 0 || col >= g.Columns {
		return TileCell{}, fmt.Errorf("tile (%d,%d) outside %dx%d grid", row, col, g.Rows, g.Columns)
	}

	originX := float64(col) * g.StepX
	originY := float64(row) * g.StepY

	src := geom.Rect{
		Left:   originX,
		Top:    originY,
		Width:  math.Min(g.Printable.Width, g.Document.Width-originX),
		Height: math.Min(g.Printable.Height, g.Document.Height-originY),
	}

	marginLeftPx := g.Spec.MarginLeftMm / g.Scale
	marginTopPx := g.Spec.MarginTopMm / g.Scale

	dest := geom.Rect{
		Left:   marginLeftPx,
		Top:    marginTopPx,
		Width:  src.Width,
		Height: src.Height,
	}

	printable := dest.Intersect(geom.Rect{
		Left:   marginLeftPx,
		Top:    marginTopPx,
		Width:  g.Printable.Width,
		Height: g.Printable.Height,
	})

	return TileCell{
		Row:           row,
		Col:           col,
		SourceRect:    src,
		DestRect:      dest,
		PrintableRect: printable,
	}, nil
}

// LayoutForPrintArea resolves a tile like Layout but clips PrintableRect to a
// hardware-reported print area instead of the nominal margin inset. The print
// pipeline must use this variant; PDF and image export fall back to the
// PageSpec margins since there is no hardware involved.
func LayoutForPrintArea(g *PageGrid, row, col int, area PrintArea) (TileCell, error) {
	cell, err := Layout(g, row, col)
	if err != nil {
		return TileCell{}, err
	}
	hw := geom.Rect{
		Left:   area.XMm / g.Scale,
		Top:    area.YMm / g.Scale,
		Width:  area.WidthMm / g.Scale,
		Height: area.HeightMm / g.Scale,
	}
	cell.PrintableRect = cell.DestRect.Intersect(hw)
	return cell, nil
}
