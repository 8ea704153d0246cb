package export

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"tilepress/pkg/tiling"
	"tilepress/pkg/units"
)

// rasterPx converts a scaled-document pixel length to output raster pixels:
// document px -> mm via the scale factor, mm -> raster px via the DPI.
func rasterPx(docPx float64, factor float64, dpi int) int {
	return int(math.Round(units.MMToPixels(docPx*factor, dpi)))
}

// renderTileContent rasterizes the tile's source region at the page DPI.
// Only the document content is rendered; page background and margins are the
// caller's concern.
func renderTileContent(src image.Image, g *tiling.PageGrid, cell tiling.TileCell) *image.RGBA {
	sr := cell.SourceRect
	bounds := src.Bounds()
	srcRect := image.Rect(
		bounds.Min.X+int(math.Round(sr.Left)),
		bounds.Min.Y+int(math.Round(sr.Top)),
		bounds.Min.X+int(math.Round(sr.Right())),
		bounds.Min.Y+int(math.Round(sr.Bottom())),
	).Intersect(bounds)

	w := rasterPx(sr.Width, g.Scale, g.Spec.DPI)
	h := rasterPx(sr.Height, g.Scale, g.Spec.DPI)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, srcRect, xdraw.Src, nil)
	return dst
}

// renderTilePage rasterizes a full page canvas for one tile: white sheet at
// the page's physical size, content placed past the margins, optional gutter
// outline and crop marks.
func renderTilePage(src image.Image, g *tiling.PageGrid, cell tiling.TileCell, opts Options) *image.RGBA {
	pageW := int(math.Round(units.MMToPixels(g.Spec.WidthMm, g.Spec.DPI)))
	pageH := int(math.Round(units.MMToPixels(g.Spec.HeightMm, g.Spec.DPI)))
	page := image.NewRGBA(image.Rect(0, 0, pageW, pageH))
	fill(page, color.RGBA{255, 255, 255, 255})

	content := renderTileContent(src, g, cell)
	dx := rasterPx(cell.DestRect.Left, g.Scale, g.Spec.DPI)
	dy := rasterPx(cell.DestRect.Top, g.Scale, g.Spec.DPI)
	target := content.Bounds().Add(image.Pt(dx, dy))
	xdraw.Draw(page, target, content, image.Point{}, xdraw.Over)

	printable := image.Rect(
		rasterPx(cell.PrintableRect.Left, g.Scale, g.Spec.DPI),
		rasterPx(cell.PrintableRect.Top, g.Scale, g.Spec.DPI),
		rasterPx(cell.PrintableRect.Right(), g.Scale, g.Spec.DPI),
		rasterPx(cell.PrintableRect.Bottom(), g.Scale, g.Spec.DPI),
	)
	if opts.GutterLines {
		outline(page, printable, color.RGBA{0, 100, 255, 255})
	}
	if opts.CropMarks {
		cropMarks(page, printable, color.RGBA{40, 40, 40, 255}, int(math.Round(units.MMToPixels(5, g.Spec.DPI))))
	}
	return page
}

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func hline(img *image.RGBA, x0, x1, y int, c color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		if (image.Point{x, y}).In(img.Bounds()) {
			img.SetRGBA(x, y, c)
		}
	}
}

func vline(img *image.RGBA, x, y0, y1 int, c color.RGBA) {
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		if (image.Point{x, y}).In(img.Bounds()) {
			img.SetRGBA(x, y, c)
		}
	}
}

func outline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	hline(img, r.Min.X, r.Max.X, r.Min.Y, c)
	hline(img, r.Min.X, r.Max.X, r.Max.Y, c)
	vline(img, r.Min.X, r.Min.Y, r.Max.Y, c)
	vline(img, r.Max.X, r.Min.Y, r.Max.Y, c)
}

// cropMarks draws short trim ticks extending from each printable corner.
func cropMarks(img *image.RGBA, r image.Rectangle, c color.RGBA, length int) {
	corners := []image.Point{
		{r.Min.X, r.Min.Y}, {r.Max.X, r.Min.Y},
		{r.Min.X, r.Max.Y}, {r.Max.X, r.Max.Y},
	}
	for _, p := range corners {
		hline(img, p.X-length, p.X+length, p.Y, c)
		vline(img, p.X, p.Y-length, p.Y+length, c)
	}
}
