package units

import (
	"errors"
	"math"
	"testing"
)

func TestConvert(t *testing.T) {
	cases := []struct {
		name     string
		value    float64
		from, to Unit
		want     float64
	}{
		{"mm to mm", 42, Millimeter, Millimeter, 42},
		{"inch to mm", 1, Inch, Millimeter, 25.4},
		{"mm to inch", 25.4, Millimeter, Inch, 1},
		{"inch to inch", 3.5, Inch, Inch, 3.5},
		{"fractional inch to mm", 0.5, Inch, Millimeter, 12.7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Convert(tc.value, tc.from, tc.to)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Convert(%v, %s, %s) = %v, want %v", tc.value, tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestConvertInvalidUnit(t *testing.T) {
	if _, err := Convert(1, "furlong", Millimeter); !errors.Is(err, ErrInvalidUnit) {
		t.Errorf("error = %v, want ErrInvalidUnit", err)
	}
	if _, err := Convert(1, Millimeter, "pt"); !errors.Is(err, ErrInvalidUnit) {
		t.Errorf("error = %v, want ErrInvalidUnit", err)
	}
}

func TestDPIHelpersRoundTrip(t *testing.T) {
	// One inch of paper at 300 DPI is 300 raster pixels.
	if got := MMToPixels(25.4, 300); math.Abs(got-300) > 1e-9 {
		t.Errorf("MMToPixels(25.4, 300) = %v, want 300", got)
	}
	mm := 123.456
	back := PixelsToMM(MMToPixels(mm, 300), 300)
	if math.Abs(back-mm) > 1e-9 {
		t.Errorf("round trip = %v, want %v", back, mm)
	}
}
