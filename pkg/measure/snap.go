package measure

import (
	"math"

	"tilepress/pkg/geom"
)

// SnapStrategy may replace a raw picked point with a nearby candidate before
// it is committed to a measurement. Strategies are replaceable, not
// hard-wired: the model calls whatever is installed via SetSnap.
type SnapStrategy interface {
	Snap(p geom.Point, existing []Measurement) geom.Point
}

// NoSnap returns every point unchanged.
type NoSnap struct{}

func (NoSnap) Snap(p geom.Point, _ []Measurement) geom.Point { return p }

// EndpointSnap pulls a point onto the nearest existing measurement endpoint
// within Radius pixels, so chained measurements meet exactly.
type EndpointSnap struct {
	Radius float64
}

func (s EndpointSnap) Snap(p geom.Point, existing []Measurement) geom.Point {
	best := p
	bestDist := s.Radius
	for _, m := range existing {
		for _, cand := range []geom.Point{m.Start, m.End} {
			if d := geom.Distance(p, cand); d <= bestDist {
				best = cand
				bestDist = d
			}
		}
	}
	return best
}

// GridSnap rounds a point to the nearest multiple of Pitch pixels.
type GridSnap struct {
	Pitch float64
}

func (s GridSnap) Snap(p geom.Point, _ []Measurement) geom.Point {
	if s.Pitch <= 0 {
		return p
	}
	return geom.Point{
		X: math.Round(p.X/s.Pitch) * s.Pitch,
		Y: math.Round(p.Y/s.Pitch) * s.Pitch,
	}
}
