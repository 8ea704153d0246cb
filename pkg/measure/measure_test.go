package measure

import (
	"errors"
	"math"
	"testing"

	"tilepress/pkg/geom"
	"tilepress/pkg/units"
)

func TestAddListRemove(t *testing.T) {
	m := NewModel()

	id1, err := m.Add(geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0}, units.Millimeter)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	id2, err := m.Add(geom.Point{X: 10, Y: 10}, geom.Point{X: 10, Y: 60}, units.Inch)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if id1 == id2 {
		t.Fatal("Add() returned duplicate ids")
	}

	list := m.List()
	if len(list) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(list))
	}
	if list[0].ID != id1 || list[1].ID != id2 {
		t.Error("List() not in creation order")
	}

	if err := m.Remove(id1); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if got := m.List(); len(got) != 1 || got[0].ID != id2 {
		t.Errorf("after Remove: %d measurements, first %q", len(got), got[0].ID)
	}
	if err := m.Remove("nope"); !errors.Is(err, ErrUnknownMeasurement) {
		t.Errorf("Remove(unknown) error = %v, want ErrUnknownMeasurement", err)
	}
}

func TestAddInvalidUnit(t *testing.T) {
	m := NewModel()
	if _, err := m.Add(geom.Point{}, geom.Point{X: 1}, "parsec"); !errors.Is(err, units.ErrInvalidUnit) {
		t.Errorf("error = %v, want ErrInvalidUnit", err)
	}
}

func TestUpdateEndpoint(t *testing.T) {
	m := NewModel()
	id, _ := m.Add(geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0}, units.Millimeter)

	if err := m.UpdateEndpoint(id, End, geom.Point{X: 200, Y: 0}); err != nil {
		t.Fatalf("UpdateEndpoint() error = %v", err)
	}
	if got := m.List()[0].End; got.X != 200 {
		t.Errorf("End.X = %g, want 200", got.X)
	}

	if err := m.UpdateEndpoint(id, "middle", geom.Point{}); !errors.Is(err, ErrUnknownEndpoint) {
		t.Errorf("error = %v, want ErrUnknownEndpoint", err)
	}
	if err := m.UpdateEndpoint("nope", Start, geom.Point{}); !errors.Is(err, ErrUnknownMeasurement) {
		t.Errorf("error = %v, want ErrUnknownMeasurement", err)
	}
}

func TestDistanceTracksRecalibration(t *testing.T) {
	// A 100 px span at 50 mm/px reads 5000 mm; after recalibrating to
	// 25 mm/px the untouched measurement reads 2500 mm.
	m := NewModel()
	id, _ := m.Add(geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0}, units.Millimeter)
	stored := m.List()[0]
	if stored.ID != id {
		t.Fatalf("stored id %q != %q", stored.ID, id)
	}

	d, err := Distance(stored, 50)
	if err != nil {
		t.Fatalf("Distance() error = %v", err)
	}
	if math.Abs(d-5000) > 1e-9 {
		t.Errorf("Distance at 50 mm/px = %v, want 5000", d)
	}

	d, err = Distance(stored, 25)
	if err != nil {
		t.Fatalf("Distance() error = %v", err)
	}
	if math.Abs(d-2500) > 1e-9 {
		t.Errorf("Distance at 25 mm/px = %v, want 2500", d)
	}
}

func TestDistanceDisplayUnit(t *testing.T) {
	mm := Measurement{Start: geom.Point{}, End: geom.Point{X: 100}, Unit: units.Inch}
	d, err := Distance(mm, 25.4)
	if err != nil {
		t.Fatalf("Distance() error = %v", err)
	}
	// 100 px * 25.4 mm/px = 2540 mm = 100 inch.
	if math.Abs(d-100) > 1e-9 {
		t.Errorf("Distance = %v inch, want 100", d)
	}
}

func TestEndpointSnap(t *testing.T) {
	m := NewModel()
	m.SetSnap(EndpointSnap{Radius: 5})

	m.Add(geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0}, units.Millimeter)
	// A second measurement starting near (100,0) snaps onto it exactly.
	m.Add(geom.Point{X: 102, Y: 3}, geom.Point{X: 200, Y: 0}, units.Millimeter)

	got := m.List()[1].Start
	if got.X != 100 || got.Y != 0 {
		t.Errorf("snapped start = %+v, want (100,0)", got)
	}

	// Points outside the radius stay raw.
	m.Add(geom.Point{X: 120, Y: 30}, geom.Point{X: 300, Y: 0}, units.Millimeter)
	if got := m.List()[2].Start; got.X != 120 || got.Y != 30 {
		t.Errorf("far point moved to %+v", got)
	}
}

func TestGridSnap(t *testing.T) {
	m := NewModel()
	m.SetSnap(GridSnap{Pitch: 10})
	m.Add(geom.Point{X: 13, Y: 27}, geom.Point{X: 96, Y: 4}, units.Millimeter)
	got := m.List()[0]
	if got.Start != (geom.Point{X: 10, Y: 30}) || got.End != (geom.Point{X: 100, Y: 0}) {
		t.Errorf("grid snapped to %+v / %+v", got.Start, got.End)
	}
}

func TestReplaceAndListCopy(t *testing.T) {
	m := NewModel()
	m.Replace([]Measurement{{ID: "a", End: geom.Point{X: 1}, Unit: units.Millimeter}})
	list := m.List()
	list[0].ID = "mutated"
	if m.List()[0].ID != "a" {
		t.Error("List() returned a live reference to internal state")
	}
}
