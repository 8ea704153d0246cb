package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/go-pdf/fpdf"

	"tilepress/pkg/tiling"
)

// WritePDF exports the grid as a multi-page PDF, one page per tile in
// row-major order, optionally preceded by an assembly-map page.
//
// Cancellation is cooperative and checked only between tiles; a cancelled
// export never leaves a partially rendered tile in the output. The page spec
// and scale factor are snapshotted at entry.
func WritePDF(ctx context.Context, doc Document, grid *tiling.PageGrid, w io.Writer, opts Options) error {
	if err := validate(doc, grid); err != nil {
		return err
	}
	snap := snapshotGrid(grid)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		SizeStr:        "Custom",
		Size:           fpdf.SizeType{Wd: snap.spec.WidthMm, Ht: snap.spec.HeightMm},
	})
	pdf.SetFont("Helvetica", "", 9)

	if opts.AssemblyMap {
		writeAssemblyPage(pdf, snap)
	}

	img := doc.Image()
	total := len(snap.grid.Tiles)
	var done [][2]int

	for _, cell := range snap.grid.Tiles {
		if err := ctx.Err(); err != nil {
			return &Error{Completed: done, Err: err}
		}

		pdf.AddPage()
		if err := placeTile(pdf, snap, cell, img); err != nil {
			return &Error{Completed: done, Err: err}
		}
		drawTileDecorations(pdf, snap, cell, opts)
		writeTileLabel(pdf, snap, cell, total)
		if err := pdf.Error(); err != nil {
			return &Error{Completed: done, Err: err}
		}

		done = append(done, [2]int{cell.Row, cell.Col})
		if opts.Progress != nil {
			opts.Progress(len(done), total)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

// placeTile renders the tile's source region at the page DPI and places it
// past the margins. Positions convert from scaled-document pixels to mm via
// the snapshotted factor, so the printed size is physically exact.
func placeTile(pdf *fpdf.Fpdf, snap snapshot, cell tiling.TileCell, img image.Image) error {
	content := renderTileContent(img, snap.grid, cell)

	var buf bytes.Buffer
	if err := png.Encode(&buf, content); err != nil {
		return fmt.Errorf("encoding tile (%d,%d): %w", cell.Row, cell.Col, err)
	}

	name := fmt.Sprintf("tile_r%d_c%d", cell.Row, cell.Col)
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, &buf)
	pdf.ImageOptions(name,
		cell.DestRect.Left*snap.factor,
		cell.DestRect.Top*snap.factor,
		cell.DestRect.Width*snap.factor,
		cell.DestRect.Height*snap.factor,
		false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}

// drawTileDecorations adds the printable-area outline and crop marks. Both
// derive from the tile's PrintableRect, the same clip boundary the preview
// overlay shows.
func drawTileDecorations(pdf *fpdf.Fpdf, snap snapshot, cell tiling.TileCell, opts Options) {
	pr := cell.PrintableRect
	left := pr.Left * snap.factor
	top := pr.Top * snap.factor
	right := pr.Right() * snap.factor
	bottom := pr.Bottom() * snap.factor

	if opts.GutterLines {
		pdf.SetLineWidth(0.1)
		pdf.SetDrawColor(0, 100, 255)
		pdf.SetDashPattern([]float64{1, 1}, 0)
		pdf.Rect(left, top, right-left, bottom-top, "D")
		pdf.SetDashPattern([]float64{}, 0)
	}

	if opts.CropMarks {
		const mark = 5.0 // mm
		pdf.SetLineWidth(0.1)
		pdf.SetDrawColor(40, 40, 40)
		for _, c := range [][2]float64{{left, top}, {right, top}, {left, bottom}, {right, bottom}} {
			pdf.Line(c[0]-mark, c[1], c[0]+mark, c[1])
			pdf.Line(c[0], c[1]-mark, c[0], c[1]+mark)
		}
	}
}

// writeTileLabel puts the tile's grid position in the top margin so printed
// sheets can be sorted by hand.
func writeTileLabel(pdf *fpdf.Fpdf, snap snapshot, cell tiling.TileCell, total int) {
	n := cell.Row*snap.grid.Columns + cell.Col + 1
	label := fmt.Sprintf("Tile %d/%d  -  row %d, col %d", n, total, cell.Row+1, cell.Col+1)
	pdf.SetTextColor(120, 120, 120)
	pdf.Text(snap.spec.MarginLeftMm, snap.spec.MarginTopMm-1, label)
}
