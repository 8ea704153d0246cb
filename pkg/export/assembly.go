package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tilepress/pkg/geom"
	"tilepress/pkg/scale"
	"tilepress/pkg/tiling"
)

// TileRef is the per-tile metadata published on the assembly map.
type TileRef struct {
	Row, Col   int
	SourceRect geom.Rect
}

// AssemblySummary carries everything needed to reconstruct tile adjacency by
// hand, without the software that produced the export.
type AssemblySummary struct {
	TotalTiles   int
	Columns      int
	Rows         int
	PageWidthMm  float64
	PageHeightMm float64
	GutterMm     float64
	ScaleFactor  float64
	Ratio        string
	DocumentPx   geom.Size
	Tiles        []TileRef
}

// Summarize extracts the assembly metadata from a computed grid.
func Summarize(g *tiling.PageGrid) AssemblySummary {
	s := AssemblySummary{
		TotalTiles:   len(g.Tiles),
		Columns:      g.Columns,
		Rows:         g.Rows,
		PageWidthMm:  g.Spec.WidthMm,
		PageHeightMm: g.Spec.HeightMm,
		GutterMm:     g.Spec.GutterMm,
		ScaleFactor:  g.Scale,
		Ratio:        scale.FormatRatio(g.Scale),
		DocumentPx:   g.Document,
		Tiles:        make([]TileRef, 0, len(g.Tiles)),
	}
	for _, cell := range g.Tiles {
		s.Tiles = append(s.Tiles, TileRef{Row: cell.Row, Col: cell.Col, SourceRect: cell.SourceRect})
	}
	return s
}

// writeAssemblyPage renders the assembly map as the first page of a PDF:
// document and tiling facts, a plan-view miniature with tile positions, and
// the per-tile source table.
func writeAssemblyPage(pdf *fpdf.Fpdf, snap snapshot) {
	sum := Summarize(snap.grid)
	pr := message.NewPrinter(language.English)

	pdf.AddPage()
	marginL := snap.spec.MarginLeftMm
	y := snap.spec.MarginTopMm + 4

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(marginL, y, "Tile Assembly Map")
	y += 8

	pdf.SetFont("Helvetica", "", 9)
	facts := []string{
		pr.Sprintf("Total tiles: %d  (%d columns x %d rows)", sum.TotalTiles, sum.Columns, sum.Rows),
		pr.Sprintf("Document: %d x %d px", int(sum.DocumentPx.Width), int(sum.DocumentPx.Height)),
		fmt.Sprintf("Page: %g x %g mm", sum.PageWidthMm, sum.PageHeightMm),
		fmt.Sprintf("Gutter: %g mm overlap between adjacent tiles", sum.GutterMm),
		fmt.Sprintf("Scale: %s  (%.6f mm/px)", sum.Ratio, sum.ScaleFactor),
	}
	for _, f := range facts {
		pdf.Text(marginL, y, f)
		y += 5
	}
	y += 3

	y = drawPlanView(pdf, snap, sum, y)
	writeTileTable(pdf, snap, sum, y)
}

// drawPlanView draws a miniature of the document with every tile's page
// outline and its row/col label, scaled to fit the printable width.
func drawPlanView(pdf *fpdf.Fpdf, snap snapshot, sum AssemblySummary, y float64) float64 {
	availW := snap.spec.PrintableWidthMm()
	availH := snap.spec.PrintableHeightMm() * 0.4

	fit := availW / sum.DocumentPx.Width
	if h := availH / sum.DocumentPx.Height; h < fit {
		fit = h
	}
	originX := snap.spec.MarginLeftMm
	originY := y

	pdf.SetLineWidth(0.3)
	pdf.SetDrawColor(0, 0, 0)
	pdf.Rect(originX, originY, sum.DocumentPx.Width*fit, sum.DocumentPx.Height*fit, "D")

	pdf.SetLineWidth(0.1)
	pdf.SetDrawColor(200, 60, 60)
	pdf.SetFont("Helvetica", "", 6)
	for _, t := range sum.Tiles {
		r := t.SourceRect
		pdf.Rect(originX+r.Left*fit, originY+r.Top*fit, r.Width*fit, r.Height*fit, "D")
		pdf.Text(originX+r.Left*fit+1, originY+r.Top*fit+3, fmt.Sprintf("R%dC%d", t.Row+1, t.Col+1))
	}
	return originY + sum.DocumentPx.Height*fit + 8
}

// writeTileTable lists each tile with its document source region, breaking
// onto continuation pages as needed.
func writeTileTable(pdf *fpdf.Fpdf, snap snapshot, sum AssemblySummary, y float64) {
	bottom := snap.spec.HeightMm - snap.spec.MarginBottomMm
	marginL := snap.spec.MarginLeftMm

	pdf.SetFont("Helvetica", "B", 8)
	pdf.Text(marginL, y, "tile      row  col      source origin (px)      source size (px)")
	y += 4

	pdf.SetFont("Helvetica", "", 8)
	for i, t := range sum.Tiles {
		if y > bottom {
			pdf.AddPage()
			y = snap.spec.MarginTopMm + 4
		}
		r := t.SourceRect
		pdf.Text(marginL, y, fmt.Sprintf("%4d      %3d  %3d      %8.0f,%8.0f      %7.0f x %-7.0f",
			i+1, t.Row+1, t.Col+1, r.Left, r.Top, r.Width, r.Height))
		y += 4
	}
}
