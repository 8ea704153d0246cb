package main

import (
	"errors"
	"math"
	"testing"

	"tilepress/pkg/project"
	"tilepress/pkg/scale"
	"tilepress/pkg/tiling"
)

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("120,80.5")
	if err != nil {
		t.Fatalf("parsePoint() error = %v", err)
	}
	if p.X != 120 || p.Y != 80.5 {
		t.Errorf("parsePoint() = %+v, want (120, 80.5)", p)
	}

	for _, bad := range []string{"", "12", "1,2,3", "a,b"} {
		if _, err := parsePoint(bad); err == nil {
			t.Errorf("parsePoint(%q) succeeded, want error", bad)
		}
	}
}

func TestResolvePageSpec(t *testing.T) {
	base := tiling.DefaultPageSpec()

	t.Run("named page with overrides", func(t *testing.T) {
		o := options{pageName: "A3", margin: 5, gutter: 0, dpi: 150,
			marginSet: [4]float64{-1, 15, -1, -1}}
		spec, err := resolvePageSpec(o, base)
		if err != nil {
			t.Fatalf("resolvePageSpec() error = %v", err)
		}
		if spec.WidthMm != 297 || spec.HeightMm != 420 {
			t.Errorf("page = %gx%g, want 297x420", spec.WidthMm, spec.HeightMm)
		}
		if spec.MarginLeftMm != 5 || spec.MarginRightMm != 15 {
			t.Errorf("margins L/R = %g/%g, want 5/15", spec.MarginLeftMm, spec.MarginRightMm)
		}
		if spec.GutterMm != 0 || spec.DPI != 150 {
			t.Errorf("gutter/dpi = %g/%d, want 0/150", spec.GutterMm, spec.DPI)
		}
	})

	t.Run("unset flags keep defaults", func(t *testing.T) {
		o := options{margin: -1, gutter: -1, marginSet: [4]float64{-1, -1, -1, -1}}
		spec, err := resolvePageSpec(o, base)
		if err != nil {
			t.Fatalf("resolvePageSpec() error = %v", err)
		}
		if spec != base {
			t.Errorf("spec changed without flags: %+v", spec)
		}
	})

	t.Run("landscape", func(t *testing.T) {
		o := options{orientation: "landscape", margin: -1, gutter: -1,
			marginSet: [4]float64{-1, -1, -1, -1}}
		spec, err := resolvePageSpec(o, base)
		if err != nil {
			t.Fatalf("resolvePageSpec() error = %v", err)
		}
		if spec.WidthMm != 297 || spec.HeightMm != 210 {
			t.Errorf("page = %gx%g, want 297x210", spec.WidthMm, spec.HeightMm)
		}
	})

	t.Run("invalid margins rejected", func(t *testing.T) {
		o := options{margin: 200, gutter: -1, marginSet: [4]float64{-1, -1, -1, -1}}
		if _, err := resolvePageSpec(o, base); !errors.Is(err, tiling.ErrInvalidPageSpec) {
			t.Errorf("error = %v, want ErrInvalidPageSpec", err)
		}
	})

	t.Run("unknown page name", func(t *testing.T) {
		o := options{pageName: "B5"}
		if _, err := resolvePageSpec(o, base); !errors.Is(err, tiling.ErrUnknownPageSize) {
			t.Errorf("error = %v, want ErrUnknownPageSize", err)
		}
	})
}

func TestResolveScale(t *testing.T) {
	t.Run("direct ratio", func(t *testing.T) {
		f, ref, err := resolveScale(options{ratio: "1:50"}, project.New())
		if err != nil {
			t.Fatalf("resolveScale() error = %v", err)
		}
		if math.Abs(f-50) > 1e-9 {
			t.Errorf("factor = %v, want 50", f)
		}
		if ref != nil {
			t.Error("direct ratio produced a point calibration")
		}
	})

	t.Run("reference points", func(t *testing.T) {
		o := options{p1: "0,0", p2: "100,0", distance: 5000, unit: "mm"}
		f, ref, err := resolveScale(o, project.New())
		if err != nil {
			t.Fatalf("resolveScale() error = %v", err)
		}
		if math.Abs(f-50) > 1e-9 {
			t.Errorf("factor = %v, want 50", f)
		}
		if ref == nil || ref.Factor != f {
			t.Errorf("reference = %+v, want stored calibration with factor %v", ref, f)
		}
	})

	t.Run("coincident points fail before any grid work", func(t *testing.T) {
		o := options{p1: "5,5", p2: "5,5", distance: 100, unit: "mm"}
		_, _, err := resolveScale(o, project.New())
		if !errors.Is(err, scale.ErrDegenerateSelection) {
			t.Errorf("error = %v, want ErrDegenerateSelection", err)
		}
	})

	t.Run("project calibration fallback", func(t *testing.T) {
		p := project.New()
		ref := scale.Reference{Factor: 25}
		p.Scale = &ref
		f, got, err := resolveScale(options{}, p)
		if err != nil {
			t.Fatalf("resolveScale() error = %v", err)
		}
		if f != 25 || got != &ref {
			t.Errorf("factor = %v, ref = %p, want 25 from project", f, got)
		}
	})

	t.Run("no source", func(t *testing.T) {
		if _, _, err := resolveScale(options{}, project.New()); err == nil {
			t.Error("resolveScale with no inputs succeeded, want error")
		}
	})
}
