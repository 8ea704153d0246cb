// Package scale derives the document scale factor from a user-measured
// reference distance and offers the inverse calculations used by the
// standalone ratio planner. The scale factor is always millimeters per
// document pixel; it is the single canonical unit for all downstream layout.
package scale

import (
	"errors"
	"fmt"

	"tilepress/pkg/geom"
	"tilepress/pkg/units"
)

// Sentinel errors for scale calculations.
var (
	ErrDegenerateSelection = errors.New("reference points are too close together")
	ErrInvalidDistance     = errors.New("real-world distance must be positive")
	ErrInvalidScale        = errors.New("scale factor must be positive")
)

// MinPixelDistance is the smallest pixel separation accepted between the two
// reference points. Below this the selection is degenerate and no meaningful
// scale can be derived.
const MinPixelDistance = 1e-6

// Reference is a completed scale calibration: two picked points on the
// document and the real-world distance between them. It is replaced wholesale
// on recalibration, never mutated.
type Reference struct {
	P1, P2   geom.Point
	Distance float64
	Unit     units.Unit

	// Factor is the derived scale in mm per pixel, stored at full precision.
	Factor float64
}

// NewReference validates the picked points and distance and derives the scale
// factor.
func NewReference(p1, p2 geom.Point, distance float64, unit units.Unit) (Reference, error) {
	f, err := Compute(p1, p2, distance, unit)
	if err != nil {
		return Reference{}, err
	}
	return Reference{P1: p1, P2: p2, Distance: distance, Unit: unit, Factor: f}, nil
}

// Compute derives the scale factor (mm per pixel) from two reference points
// and the known real-world distance between them. The distance is converted
// to millimeters before dividing so mm and inch calibrations of the same
// physical measurement agree.
func Compute(p1, p2 geom.Point, distance float64, unit units.Unit) (float64, error) {
	px := geom.Distance(p1, p2)
	if px < MinPixelDistance {
		return 0, fmt.Errorf("%w: %g px", ErrDegenerateSelection, px)
	}
	if distance <= 0 {
		return 0, fmt.Errorf("%w: got %g", ErrInvalidDistance, distance)
	}
	mm, err := units.ToMM(distance, unit)
	if err != nil {
		return 0, err
	}
	return mm / px, nil
}

// Inverse returns the real-world distance in millimeters spanned by a pixel
// distance at the given scale factor.
func Inverse(factor, pixelDistance float64) (float64, error) {
	if factor <= 0 {
		return 0, fmt.Errorf("%w: got %g", ErrInvalidScale, factor)
	}
	return pixelDistance * factor, nil
}

// RequiredPixelDistance returns the pixel distance that represents the given
// real-world distance (mm) at the given scale factor. Used by the ratio
// planner to answer "how long must this measure on the document".
func RequiredPixelDistance(factor, distanceMM float64) (float64, error) {
	if factor <= 0 {
		return 0, fmt.Errorf("%w: got %g", ErrInvalidScale, factor)
	}
	if distanceMM <= 0 {
		return 0, fmt.Errorf("%w: got %g", ErrInvalidDistance, distanceMM)
	}
	return distanceMM / factor, nil
}
