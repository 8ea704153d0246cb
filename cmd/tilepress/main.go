// Command tilepress scales a technical drawing to real-world measurements
// and tiles it onto printable pages.
//
// Typical use: calibrate against a known distance and export a PDF.
//
//	tilepress --p1 120,80 --p2 860,80 --distance 5000 --unit mm \
//	    --page A4 --gutter 10 --assembly-map plan.png
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"
	_ "go.uber.org/automaxprocs"

	"tilepress/pkg/export"
	"tilepress/pkg/geom"
	"tilepress/pkg/measure"
	"tilepress/pkg/project"
	"tilepress/pkg/scale"
	"tilepress/pkg/tiling"
	"tilepress/pkg/units"
)

var errUsage = errors.New("usage: tilepress [options] <drawing.png|drawing.jpg>")

type options struct {
	output      string
	format      string
	projectPath string
	saveProject string

	pageName    string
	pageWidth   float64
	pageHeight  float64
	orientation string
	margin      float64
	marginSet   [4]float64 // left, right, top, bottom; -1 means unset
	gutter      float64
	dpi         int

	p1, p2   string
	distance float64
	unit     string
	ratio    string

	assemblyMap bool
	gutterLines bool
	cropMarks   bool
	dryRun      bool
}

func main() {
	var o options
	flag.StringVar(&o.output, "output", "", "Output file (pdf) or directory (png)")
	flag.StringVar(&o.format, "format", "pdf", "Output format (pdf, png)")
	flag.StringVar(&o.projectPath, "project", "", "Load calibration and page defaults from a project file")
	flag.StringVar(&o.saveProject, "save-project", "", "Write the effective calibration and page settings to a project file")
	flag.StringVar(&o.pageName, "page", "", "Named page size (A4, A3, A5, Letter, Legal, Tabloid)")
	flag.Float64Var(&o.pageWidth, "page-width", 0, "Custom page width in mm")
	flag.Float64Var(&o.pageHeight, "page-height", 0, "Custom page height in mm")
	flag.StringVar(&o.orientation, "orientation", "", "Page orientation (portrait, landscape)")
	flag.Float64Var(&o.margin, "margin", -1, "Margin on all edges in mm")
	flag.Float64Var(&o.marginSet[0], "margin-left", -1, "Left margin in mm")
	flag.Float64Var(&o.marginSet[1], "margin-right", -1, "Right margin in mm")
	flag.Float64Var(&o.marginSet[2], "margin-top", -1, "Top margin in mm")
	flag.Float64Var(&o.marginSet[3], "margin-bottom", -1, "Bottom margin in mm")
	flag.Float64Var(&o.gutter, "gutter", -1, "Gutter overlap between adjacent tiles in mm")
	flag.IntVar(&o.dpi, "dpi", 0, "Raster resolution for exported pages")
	flag.StringVar(&o.p1, "p1", "", "First reference point as x,y in document pixels")
	flag.StringVar(&o.p2, "p2", "", "Second reference point as x,y in document pixels")
	flag.Float64Var(&o.distance, "distance", 0, "Real-world distance between the reference points")
	flag.StringVar(&o.unit, "unit", "mm", "Unit of --distance (mm, inch)")
	flag.StringVar(&o.ratio, "ratio", "", "Scale ratio entered directly, e.g. 1:50")
	flag.BoolVar(&o.assemblyMap, "assembly-map", false, "Include an assembly map page")
	flag.BoolVar(&o.gutterLines, "gutter-lines", false, "Draw the printable-area boundary on each tile")
	flag.BoolVar(&o.cropMarks, "crop-marks", false, "Draw crop marks at printable-area corners")
	flag.BoolVar(&o.dryRun, "dry-run", false, "Print the grid summary without exporting")
	flag.Parse()

	if err := run(o, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(o options, args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	input := args[0]

	var proj *project.Project
	if o.projectPath != "" {
		p, err := project.Load(o.projectPath)
		if err != nil {
			return err
		}
		proj = p
	} else {
		proj = project.New()
	}

	spec, err := resolvePageSpec(o, proj.Page)
	if err != nil {
		return err
	}

	factor, ref, err := resolveScale(o, proj)
	if err != nil {
		return err
	}

	doc, err := loadDocument(input)
	if err != nil {
		return err
	}

	grid, err := tiling.ComputeGrid(doc.Size(), factor, spec)
	if err != nil {
		return err
	}

	if o.saveProject != "" {
		proj.Document = input
		proj.Page = spec
		proj.Scale = ref
		if err := proj.Save(o.saveProject); err != nil {
			return err
		}
		fmt.Printf("Saved project to %s\n", o.saveProject)
	}

	if o.dryRun {
		printSummary(grid, proj.Measurements, factor)
		return nil
	}

	// Interrupt finishes the current tile, then stops cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := export.Options{
		AssemblyMap: o.assemblyMap,
		GutterLines: o.gutterLines,
		CropMarks:   o.cropMarks,
		Progress: func(done, total int) {
			fmt.Printf("\rTile %d/%d", done, total)
			if done == total {
				fmt.Println()
			}
		},
	}

	switch o.format {
	case "pdf":
		out := o.output
		if out == "" {
			out = strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf"
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WritePDF(ctx, doc, grid, f, opts); err != nil {
			fmt.Println()
			return err
		}
		fmt.Printf("Exported %d tiles to %s\n", len(grid.Tiles), out)
	case "png":
		dir := o.output
		if dir == "" {
			dir = "."
		}
		stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		paths, err := export.WritePNGs(ctx, doc, grid, dir, stem, opts)
		if err != nil {
			fmt.Println()
			return err
		}
		fmt.Printf("Exported %d files to %s\n", len(paths), dir)
	default:
		return fmt.Errorf("unknown format %q (want pdf or png)", o.format)
	}
	return nil
}

// resolvePageSpec layers CLI flags over the project (or built-in) page
// defaults. The spec is validated once here so bad input fails before any
// document work.
func resolvePageSpec(o options, base tiling.PageSpec) (tiling.PageSpec, error) {
	spec := base
	if o.pageName != "" {
		w, h, err := tiling.PageSizeMm(o.pageName)
		if err != nil {
			return tiling.PageSpec{}, err
		}
		spec.WidthMm, spec.HeightMm = w, h
	}
	if o.pageWidth > 0 {
		spec.WidthMm = o.pageWidth
	}
	if o.pageHeight > 0 {
		spec.HeightMm = o.pageHeight
	}
	switch o.orientation {
	case "":
	case "landscape":
		spec = spec.Landscape()
	case "portrait":
		spec = spec.Portrait()
	default:
		return tiling.PageSpec{}, fmt.Errorf("unknown orientation %q", o.orientation)
	}
	if o.margin >= 0 {
		spec.MarginLeftMm = o.margin
		spec.MarginRightMm = o.margin
		spec.MarginTopMm = o.margin
		spec.MarginBottomMm = o.margin
	}
	if o.marginSet[0] >= 0 {
		spec.MarginLeftMm = o.marginSet[0]
	}
	if o.marginSet[1] >= 0 {
		spec.MarginRightMm = o.marginSet[1]
	}
	if o.marginSet[2] >= 0 {
		spec.MarginTopMm = o.marginSet[2]
	}
	if o.marginSet[3] >= 0 {
		spec.MarginBottomMm = o.marginSet[3]
	}
	if o.gutter >= 0 {
		spec.GutterMm = o.gutter
	}
	if o.dpi > 0 {
		spec.DPI = o.dpi
	}
	return spec, spec.Validate()
}

// resolveScale picks the scale source in priority order: explicit ratio,
// reference points, then the project calibration.
func resolveScale(o options, proj *project.Project) (float64, *scale.Reference, error) {
	if o.ratio != "" {
		f, err := scale.ParseRatio(o.ratio)
		if err != nil {
			return 0, nil, err
		}
		// A direct ratio carries no point calibration to persist.
		return f, nil, nil
	}
	if o.p1 != "" || o.p2 != "" {
		p1, err := parsePoint(o.p1)
		if err != nil {
			return 0, nil, fmt.Errorf("--p1: %w", err)
		}
		p2, err := parsePoint(o.p2)
		if err != nil {
			return 0, nil, fmt.Errorf("--p2: %w", err)
		}
		ref, err := scale.NewReference(p1, p2, o.distance, units.Unit(o.unit))
		if err != nil {
			return 0, nil, err
		}
		return ref.Factor, &ref, nil
	}
	if proj.Scale != nil {
		return proj.Scale.Factor, proj.Scale, nil
	}
	return 0, nil, errors.New("no scale given: use --ratio, or --p1/--p2/--distance, or a calibrated --project")
}

func parsePoint(s string) (geom.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geom.Point{}, fmt.Errorf("want x,y got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("want x,y got %q", s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("want x,y got %q", s)
	}
	return geom.Point{X: x, Y: y}, nil
}

func loadDocument(path string) (export.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tiling.ErrDocumentUnavailable, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return export.ImageDocument{Img: img}, nil
}

// printSummary reports what an export would produce: the grid, the scale,
// and every stored measurement recomputed at the current calibration.
func printSummary(g *tiling.PageGrid, measurements []measure.Measurement, factor float64) {
	sum := export.Summarize(g)
	fmt.Printf("Scale:    %s (%.6f mm/px)\n", sum.Ratio, sum.ScaleFactor)
	fmt.Printf("Document: %.0f x %.0f px = %.0f x %.0f mm\n",
		sum.DocumentPx.Width, sum.DocumentPx.Height,
		sum.DocumentPx.Width*factor, sum.DocumentPx.Height*factor)
	fmt.Printf("Page:     %g x %g mm, gutter %g mm\n", sum.PageWidthMm, sum.PageHeightMm, sum.GutterMm)
	fmt.Printf("Tiles:    %d (%d columns x %d rows)\n", sum.TotalTiles, sum.Columns, sum.Rows)
	for _, m := range measurements {
		d, err := measure.Distance(m, factor)
		if err != nil {
			continue
		}
		label := m.Label
		if label == "" {
			label = m.ID
		}
		fmt.Printf("Measure:  %s = %.2f %s\n", label, d, m.Unit)
	}
}
