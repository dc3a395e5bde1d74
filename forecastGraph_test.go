package main

import "testing"

func TestRenderForecastGraph(t *testing.T) {
	days := []ForecastDay{
		{Date: "2026-08-29", MinC: 11, MaxC: 21, Samples: 24},
		{Date: "2026-08-30", MinC: 12, MaxC: 19, Samples: 24},
		{Date: "2026-08-31", MinC: 9, MaxC: 17, Samples: 24},
	}
	img, err := renderForecastGraph(days, 300, 100)
	if err != nil {
		t.Fatalf("renderForecastGraph: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 300 || b.Dy() != 100 {
		t.Fatalf("graph size %dx%d, want 300x100", b.Dx(), b.Dy())
	}

	// At least one bar pixel must be opaque.
	opaque := false
	for y := 0; y < 100 && !opaque; y++ {
		for x := 0; x < 300; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				opaque = true
				break
			}
		}
	}
	if !opaque {
		t.Fatal("graph rasterized to a fully transparent image")
	}
}

func TestRenderForecastGraphFlatTemperatures(t *testing.T) {
	days := []ForecastDay{
		{Date: "2026-08-29", MinC: 15, MaxC: 15, Samples: 24},
		{Date: "2026-08-30", MinC: 15, MaxC: 15, Samples: 24},
	}
	if _, err := renderForecastGraph(days, 300, 100); err != nil {
		t.Fatalf("flat forecast should still graph: %v", err)
	}
}

func TestRenderForecastGraphEmpty(t *testing.T) {
	if _, err := renderForecastGraph(nil, 300, 100); err == nil {
		t.Fatal("empty forecast should error")
	}
}
