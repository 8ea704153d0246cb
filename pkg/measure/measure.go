// Package measure keeps the user-defined measurement overlays. Measurements
// store raw pixel endpoints only; the physical distance is recomputed from
// the current scale factor on every read, so recalibrating the document
// retroactively corrects every reported distance.
package measure

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"tilepress/pkg/geom"
	"tilepress/pkg/scale"
	"tilepress/pkg/units"
)

// Sentinel errors for measurement operations.
var (
	ErrUnknownMeasurement = errors.New("unknown measurement")
	ErrUnknownEndpoint    = errors.New("endpoint must be \"start\" or \"end\"")
)

// Endpoint names the two ends of a measurement.
type Endpoint string

const (
	Start Endpoint = "start"
	End   Endpoint = "end"
)

// Measurement is a single user-drawn distance overlay.
type Measurement struct {
	ID    string     `yaml:"id"`
	Start geom.Point `yaml:"start"`
	End   geom.Point `yaml:"end"`
	Unit  units.Unit `yaml:"unit"`
	Label string     `yaml:"label,omitempty"`

	// Selected and Dragging are view-local interaction state and are not
	// persisted.
	Selected bool `yaml:"-"`
	Dragging bool `yaml:"-"`
}

// Model is the ordered collection of measurements for one document.
type Model struct {
	measurements []Measurement
	snap         SnapStrategy
}

// NewModel returns an empty model with no snapping.
func NewModel() *Model {
	return &Model{snap: NoSnap{}}
}

// SetSnap replaces the snap strategy. A nil strategy disables snapping.
func (m *Model) SetSnap(s SnapStrategy) {
	if s == nil {
		s = NoSnap{}
	}
	m.snap = s
}

// Add creates a measurement between two points and returns its id. Both
// endpoints go through the snap strategy before they are committed.
func (m *Model) Add(start, end geom.Point, unit units.Unit) (string, error) {
	if !units.Valid(unit) {
		return "", fmt.Errorf("%w: %q", units.ErrInvalidUnit, unit)
	}
	mm := Measurement{
		ID:    uuid.New().String(),
		Start: m.snap.Snap(start, m.measurements),
		End:   m.snap.Snap(end, m.measurements),
		Unit:  unit,
	}
	m.measurements = append(m.measurements, mm)
	return mm.ID, nil
}

// UpdateEndpoint moves one endpoint of an existing measurement. The new point
// goes through the snap strategy first.
func (m *Model) UpdateEndpoint(id string, which Endpoint, p geom.Point) error {
	idx := m.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownMeasurement, id)
	}
	p = m.snap.Snap(p, m.measurements)
	switch which {
	case Start:
		m.measurements[idx].Start = p
	case End:
		m.measurements[idx].End = p
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEndpoint, which)
	}
	return nil
}

// Remove deletes a measurement by id.
func (m *Model) Remove(id string) error {
	idx := m.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownMeasurement, id)
	}
	m.measurements = append(m.measurements[:idx], m.measurements[idx+1:]...)
	return nil
}

// List returns the measurements in creation order. The slice is a copy;
// mutating it does not touch the model.
func (m *Model) List() []Measurement {
	out := make([]Measurement, len(m.measurements))
	copy(out, m.measurements)
	return out
}

// Replace swaps in a persisted measurement list wholesale, e.g. when loading
// a project.
func (m *Model) Replace(ms []Measurement) {
	m.measurements = make([]Measurement, len(ms))
	copy(m.measurements, ms)
}

// Distance returns the physical length of a measurement at the given scale
// factor (mm per pixel), converted to the measurement's display unit. The
// value is never cached.
func Distance(mm Measurement, factor float64) (float64, error) {
	if factor <= 0 {
		return 0, fmt.Errorf("%w: got %g", scale.ErrInvalidScale, factor)
	}
	distMM := geom.Distance(mm.Start, mm.End) * factor
	return units.Convert(distMM, units.Millimeter, mm.Unit)
}

func (m *Model) index(id string) int {
	for i := range m.measurements {
		if m.measurements[i].ID == id {
			return i
		}
	}
	return -1
}
