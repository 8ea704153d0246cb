package tiling

import (
	"errors"
	"fmt"
)

// Sentinel errors for page specifications.
var (
	ErrInvalidPageSpec = errors.New("invalid page spec")
	ErrUnknownPageSize = errors.New("unknown page size")
)

// PageSpec describes one output page in physical units. Margins are per-edge
// so asymmetric printer-calibration insets can be expressed. A PageSpec is
// immutable for the duration of one grid computation.
type PageSpec struct {
	WidthMm  float64
	HeightMm float64

	// DPI governs only the raster resolution of exported or printed pages.
	// It never influences tile geometry.
	DPI int

	MarginLeftMm   float64
	MarginRightMm  float64
	MarginTopMm    float64
	MarginBottomMm float64

	// GutterMm is the physical overlap shared by adjacent tiles, used for
	// trim and alignment during assembly.
	GutterMm float64
}

// Named page sizes in mm, portrait orientation.
var pageSizes = map[string][2]float64{
	"A4":      {210, 297},
	"A3":      {297, 420},
	"A5":      {148, 210},
	"Letter":  {215.9, 279.4},
	"Legal":   {215.9, 355.6},
	"Tabloid": {279.4, 431.8},
}

// PageSizeMm returns the dimensions of a named page size.
func PageSizeMm(name string) (width, height float64, err error) {
	s, ok := pageSizes[name]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownPageSize, name)
	}
	return s[0], s[1], nil
}

// DefaultPageSpec returns an A4 portrait page at 300 DPI with 10 mm margins
// and a 10 mm gutter.
func DefaultPageSpec() PageSpec {
	return PageSpec{
		WidthMm:        210,
		HeightMm:       297,
		DPI:            300,
		MarginLeftMm:   10,
		MarginRightMm:  10,
		MarginTopMm:    10,
		MarginBottomMm: 10,
		GutterMm:       10,
	}
}

// Landscape returns the spec with width and height arranged so width ≥
// height. Margins are per-edge and keep their meaning relative to the sheet,
// so they are not swapped.
func (s PageSpec) Landscape() PageSpec {
	if s.WidthMm < s.HeightMm {
		s.WidthMm, s.HeightMm = s.HeightMm, s.WidthMm
	}
	return s
}

// Portrait returns the spec with height ≥ width.
func (s PageSpec) Portrait() PageSpec {
	if s.HeightMm < s.WidthMm {
		s.WidthMm, s.HeightMm = s.HeightMm, s.WidthMm
	}
	return s
}

// PrintableWidthMm returns the page width inside the left and right margins.
func (s PageSpec) PrintableWidthMm() float64 {
	return s.WidthMm - s.MarginLeftMm - s.MarginRightMm
}

// PrintableHeightMm returns the page height inside the top and bottom margins.
func (s PageSpec) PrintableHeightMm() float64 {
	return s.HeightMm - s.MarginTopMm - s.MarginBottomMm
}

// Validate checks the spec eagerly. A spec whose margins meet or exceed a
// page dimension, or with a negative gutter or non-positive DPI, is rejected
// rather than silently producing a degenerate grid.
func (s PageSpec) Validate() error {
	if s.WidthMm <= 0 || s.HeightMm <= 0 {
		return fmt.Errorf("%w: page %gx%g mm", ErrInvalidPageSpec, s.WidthMm, s.HeightMm)
	}
	if s.MarginLeftMm < 0 || s.MarginRightMm < 0 || s.MarginTopMm < 0 || s.MarginBottomMm < 0 {
		return fmt.Errorf("%w: negative margin", ErrInvalidPageSpec)
	}
	if s.PrintableWidthMm() <= 0 {
		return fmt.Errorf("%w: margins %g+%g mm leave no printable width on a %g mm page",
			ErrInvalidPageSpec, s.MarginLeftMm, s.MarginRightMm, s.WidthMm)
	}
	if s.PrintableHeightMm() <= 0 {
		return fmt.Errorf("%w: margins %g+%g mm leave no printable height on a %g mm page",
			ErrInvalidPageSpec, s.MarginTopMm, s.MarginBottomMm, s.HeightMm)
	}
	if s.GutterMm < 0 {
		return fmt.Errorf("%w: negative gutter %g mm", ErrInvalidPageSpec, s.GutterMm)
	}
	if s.GutterMm > 0 && s.GutterMm >= s.PrintableWidthMm() {
		return fmt.Errorf("%w: gutter %g mm swallows the %g mm printable width",
			ErrInvalidPageSpec, s.GutterMm, s.PrintableWidthMm())
	}
	if s.GutterMm > 0 && s.GutterMm >= s.PrintableHeightMm() {
		return fmt.Errorf("%w: gutter %g mm swallows the %g mm printable height",
			ErrInvalidPageSpec, s.GutterMm, s.PrintableHeightMm())
	}
	if s.DPI <= 0 {
		return fmt.Errorf("%w: DPI %d", ErrInvalidPageSpec, s.DPI)
	}
	return nil
}
