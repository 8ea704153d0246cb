package export

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"tilepress/pkg/tiling"
)

// WritePNGs exports one PNG per tile into dir, named <stem>_r<row>_c<col>.png
// with 1-based indices. Each file is a full page canvas at the spec DPI with
// the tile content placed past the margins.
//
// Tiles are written row-major. On failure or cancellation the remaining
// tiles are skipped and the returned error lists the tiles already on disk;
// a partially written file is removed first.
func WritePNGs(ctx context.Context, doc Document, grid *tiling.PageGrid, dir, stem string, opts Options) ([]string, error) {
	if err := validate(doc, grid); err != nil {
		return nil, err
	}
	snap := snapshotGrid(grid)
	img := doc.Image()
	total := len(snap.grid.Tiles)

	var written []string
	var done [][2]int

	for _, cell := range snap.grid.Tiles {
		if err := ctx.Err(); err != nil {
			return written, &Error{Completed: done, Err: err}
		}

		page := renderTilePage(img, snap.grid, cell, opts)
		path := filepath.Join(dir, fmt.Sprintf("%s_r%d_c%d.png", stem, cell.Row+1, cell.Col+1))
		if err := writePNGFile(path, page); err != nil {
			return written, &Error{Completed: done, Err: err}
		}

		written = append(written, path)
		done = append(done, [2]int{cell.Row, cell.Col})
		if opts.Progress != nil {
			opts.Progress(len(done), total)
		}
	}

	if opts.AssemblyMap {
		path := filepath.Join(dir, stem+"_map.pdf")
		if err := writeAssemblyPDF(path, snap); err != nil {
			return written, &Error{Completed: done, Err: err}
		}
		written = append(written, path)
	}
	return written, nil
}

// writePNGFile encodes img to path. A file that fails mid-encode is removed
// so the caller never reports a truncated tile as complete.
func writePNGFile(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// writeAssemblyPDF writes the assembly map as a standalone single-page PDF,
// used by the PNG export path where there is no multi-page container to
// prepend it to.
func writeAssemblyPDF(path string, snap snapshot) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		SizeStr:        "Custom",
		Size:           fpdf.SizeType{Wd: snap.spec.WidthMm, Ht: snap.spec.HeightMm},
	})
	pdf.SetFont("Helvetica", "", 9)
	writeAssemblyPage(pdf, snap)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing assembly map: %w", err)
	}
	return nil
}
