// Package tiling turns a scaled document into a printable page grid. The
// planner and the per-tile layout resolver are pure functions: identical
// inputs always yield identical grids, and every consumer (preview, overlay,
// print, export) derives tile geometry from the same computation.
package tiling

import (
	"errors"
	"fmt"
	"math"

	"tilepress/pkg/geom"
	"tilepress/pkg/scale"
)

// ErrDocumentUnavailable is returned when grid computation is requested
// without a usable document.
var ErrDocumentUnavailable = errors.New("no document available")

// TileCell is one page-sized region of the scaled document. All rectangles
// are in pixels: SourceRect in document space, DestRect and PrintableRect in
// the page canvas space of the output sheet.
type TileCell struct {
	Row, Col int

	// SourceRect is the region of the document this tile shows, including
	// the gutter overlap with its neighbors, clamped to document bounds.
	SourceRect geom.Rect

	// DestRect is where that content lands on the page canvas, offset past
	// the left/top margins.
	DestRect geom.Rect

	// PrintableRect is DestRect restricted to the margin inset. It is the
	// hard clip boundary for anything put on paper.
	PrintableRect geom.Rect
}

// PageGrid is the derived, read-only tiling of a document. It is recomputed
// wholesale whenever the scale reference, page spec, or document size
// changes; it is never patched incrementally.
type PageGrid struct {
	Columns int
	Rows    int

	// Document is the source pixel size the grid was computed for.
	Document geom.Size

	// Scale is the mm-per-pixel factor the grid was computed with.
	Scale float64

	// Spec is the page spec the grid was computed with.
	Spec PageSpec

	// Page and Printable are the full page and margin-inset sizes expressed
	// in scaled-document pixels.
	Page      geom.Size
	Printable geom.Size

	// GutterPx is the gutter in scaled-document pixels, StepX/StepY the
	// distance between adjacent tile origins.
	GutterPx float64
	StepX    float64
	StepY    float64

	// Tiles holds every cell in row-major order.
	Tiles []TileCell
}

// ComputeGrid derives the page grid for a document of the given pixel size at
// the given scale factor (mm per pixel). Tile size is defined in
// scaled-document pixel space; spec.DPI plays no part here.
//
// The grid is built eagerly, row-major, through the same Layout resolver the
// renderers use.
func ComputeGrid(doc geom.Size, factor float64, spec PageSpec) (*PageGrid, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	// Callers may hand us a factor directly, so re-validate rather than
	// trusting the scale calculator ran first.
	if factor <= 0 {
		return nil, fmt.Errorf("%w: got %g", scale.ErrInvalidScale, factor)
	}
	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, fmt.Errorf("%w: document size %gx%g px", ErrDocumentUnavailable, doc.Width, doc.Height)
	}

	g := &PageGrid{
		Document: doc,
		Scale:    factor,
		Spec:     spec,
		Page: geom.Size{
			Width:  spec.WidthMm / factor,
			Height: spec.HeightMm / factor,
		},
		Printable: geom.Size{
			Width:  spec.PrintableWidthMm() / factor,
			Height: spec.PrintableHeightMm() / factor,
		},
		GutterPx: spec.GutterMm / factor,
	}

	// Adjacent tiles share a gutter-wide strip, so each tile after the
	// first starts a gutter early. With no gutter the tiles are contiguous.
	g.StepX = g.Printable.Width
	g.StepY = g.Printable.Height
	if spec.GutterMm > 0 {
		g.StepX -= g.GutterPx
		g.StepY -= g.GutterPx
	}

	g.Columns = int(math.Ceil(doc.Width / g.StepX))
	g.Rows = int(math.Ceil(doc.Height / g.StepY))

	g.Tiles = make([]TileCell, 0, g.Columns*g.Rows)
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Columns; col++ {
			cell, err := Layout(g, row, col)
			if err != nil {
				return nil, err
			}
			g.Tiles = append(g.Tiles, cell)
		}
	}
	return g, nil
}

// Tile returns the cell at (row, col).
func (g *PageGrid) Tile(row, col int) (TileCell, error) {
	if row < 0 || row >= g.Rows || col < 0 || col >= g.Columns {
		return TileCell{}, fmt.Errorf("tile (%d,%d) outside %dx%d grid", row, col, g.Rows, g.Columns)
	}
	return g.Tiles[row*g.Columns+col], nil
}
