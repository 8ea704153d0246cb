package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"tilepress/pkg/geom"
	"tilepress/pkg/measure"
	"tilepress/pkg/scale"
	"tilepress/pkg/units"
)

func TestRoundTrip(t *testing.T) {
	ref, err := scale.NewReference(geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 0}, 5000, units.Millimeter)
	if err != nil {
		t.Fatalf("NewReference() error = %v", err)
	}

	p := New()
	p.Document = "garage-plan.png"
	p.Scale = &ref
	p.Page.GutterMm = 5
	p.Measurements = []measure.Measurement{
		{ID: "m1", Start: geom.Point{X: 1, Y: 2}, End: geom.Point{X: 3, Y: 4}, Unit: units.Millimeter, Label: "wall"},
	}

	path := filepath.Join(t.TempDir(), "plan.tileproj")
	if err := p.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	ignore := cmpopts.IgnoreFields(measure.Measurement{}, "Selected", "Dragging")
	if d := cmp.Diff(p, got, ignore); d != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", d)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.tileproj"))
	if !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("error = %v, want ErrProjectNotFound", err)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.tileproj")
	content := "version: 1\npage:\n  widthmm: 210\n  heightmm: 297\n  dpi: 300\nbogus: true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrProjectParse) {
		t.Errorf("error = %v, want ErrProjectParse", err)
	}
}

func TestLoadValidatesPageSpec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad-page.tileproj")
	// Margins wider than the page must be rejected at load time, not when
	// the grid is eventually computed.
	content := "version: 1\npage:\n  widthmm: 100\n  heightmm: 100\n  dpi: 300\n  marginleftmm: 60\n  marginrightmm: 60\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrProjectParse) {
		t.Errorf("error = %v, want ErrProjectParse", err)
	}
}

func TestNewDefaults(t *testing.T) {
	p := New()
	if p.Version != Version {
		t.Errorf("Version = %d, want %d", p.Version, Version)
	}
	if err := p.Page.Validate(); err != nil {
		t.Errorf("default page spec invalid: %v", err)
	}
	if p.Scale != nil {
		t.Error("new project has a scale calibration")
	}
}
