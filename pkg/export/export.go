// Package export renders a computed page grid to files: a multi-page PDF or
// one PNG per tile. Both paths place content through the same tile layout
// resolver the on-screen preview uses, so paper and screen never disagree.
package export

import (
	"fmt"
	"image"
	"strings"

	"tilepress/pkg/geom"
	"tilepress/pkg/tiling"
)

// Document is the decoded drawing an exporter reads from. Format decoding is
// a collaborator's job; exporters only need the pixel dimensions and the
// raster.
type Document interface {
	Size() geom.Size
	Image() image.Image
}

// ImageDocument adapts a decoded image.Image to the Document interface.
type ImageDocument struct {
	Img image.Image
}

func (d ImageDocument) Size() geom.Size {
	b := d.Img.Bounds()
	return geom.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
}

func (d ImageDocument) Image() image.Image { return d.Img }

// ProgressFunc is called after each finished tile with the number of tiles
// done so far and the total.
type ProgressFunc func(done, total int)

// Options controls optional export content.
type Options struct {
	// AssemblyMap prepends a metadata page describing tile adjacency.
	AssemblyMap bool

	// GutterLines draws the printable-area boundary on each tile.
	GutterLines bool

	// CropMarks draws trim marks at the printable-area corners.
	CropMarks bool

	// Progress, when non-nil, receives per-tile progress.
	Progress ProgressFunc
}

// Error reports a failed or cancelled export. Tiles are written strictly in
// row-major order and a cancelled export never leaves a partial tile, so
// Completed tells the user exactly which sheets are already usable.
type Error struct {
	// Completed holds the (row, col) indices of tiles fully written before
	// the failure.
	Completed [][2]int
	Err       error
}

func (e *Error) Error() string {
	if len(e.Completed) == 0 {
		return fmt.Sprintf("export failed before any tile completed: %v", e.Err)
	}
	parts := make([]string, len(e.Completed))
	for i, rc := range e.Completed {
		parts[i] = fmt.Sprintf("(%d,%d)", rc[0], rc[1])
	}
	return fmt.Sprintf("export aborted after %d tile(s) %s: %v", len(e.Completed), strings.Join(parts, " "), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// snapshot copies the layout inputs by value at export entry. A concurrent
// recalibration in the UI replaces the grid wholesale, so holding our own
// copies of the spec and factor keeps one export internally consistent.
type snapshot struct {
	grid   *tiling.PageGrid
	spec   tiling.PageSpec
	factor float64
}

func snapshotGrid(grid *tiling.PageGrid) snapshot {
	return snapshot{grid: grid, spec: grid.Spec, factor: grid.Scale}
}

// validate rejects unusable export inputs before any file is touched.
func validate(doc Document, grid *tiling.PageGrid) error {
	if doc == nil || doc.Image() == nil {
		return tiling.ErrDocumentUnavailable
	}
	sz := doc.Size()
	if sz.Width <= 0 || sz.Height <= 0 {
		return fmt.Errorf("%w: document size %gx%g px", tiling.ErrDocumentUnavailable, sz.Width, sz.Height)
	}
	if grid == nil || len(grid.Tiles) == 0 {
		return fmt.Errorf("%w: empty page grid", tiling.ErrDocumentUnavailable)
	}
	return nil
}
