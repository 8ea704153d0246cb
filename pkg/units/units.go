// Package units converts between the physical units the layout engine
// understands. All internal layout math runs in millimeters; everything else
// is converted at the boundary.
package units

import (
	"errors"
	"fmt"
)

// Unit is a physical length unit accepted from user input.
type Unit string

const (
	Millimeter Unit = "mm"
	Inch       Unit = "inch"
)

// MMPerInch is the exact definition of the international inch.
const MMPerInch = 25.4

// ErrInvalidUnit is returned for units outside {mm, inch}.
var ErrInvalidUnit = errors.New("invalid unit")

// factorToMM returns the multiplier that brings a value in u to millimeters.
func factorToMM(u Unit) (float64, error) {
	switch u {
	case Millimeter:
		return 1.0, nil
	case Inch:
		return MMPerInch, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, u)
}

// Convert converts value from one unit to another. The value is converted to
// millimeters first, then to the target unit.
func Convert(value float64, from, to Unit) (float64, error) {
	ff, err := factorToMM(from)
	if err != nil {
		return 0, err
	}
	tf, err := factorToMM(to)
	if err != nil {
		return 0, err
	}
	return value * ff / tf, nil
}

// ToMM converts value in the given unit to millimeters.
func ToMM(value float64, from Unit) (float64, error) {
	f, err := factorToMM(from)
	if err != nil {
		return 0, err
	}
	return value * f, nil
}

// Valid reports whether u is a supported unit.
func Valid(u Unit) bool {
	_, err := factorToMM(u)
	return err == nil
}

// MMToPixels converts a physical length to output raster pixels at the given
// DPI. This is used only when sizing exported rasters; tile geometry is
// defined in scaled-document pixel space and never depends on DPI.
func MMToPixels(mm float64, dpi int) float64 {
	return mm / MMPerInch * float64(dpi)
}

// PixelsToMM converts output raster pixels at the given DPI back to
// millimeters.
func PixelsToMM(px float64, dpi int) float64 {
	return px / float64(dpi) * MMPerInch
}
