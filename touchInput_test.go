package main

import "testing"

func baseTransform() TouchTransform {
	return TouchTransform{
		RawMin: 0,
		RawMax: 4095,
		Width:  320,
		Height: 172,
	}
}

func TestTransformOutputAlwaysInBounds(t *testing.T) {
	flags := []TouchTransform{
		{},
		{SwapAxes: true},
		{InvertX: true},
		{InvertY: true},
		{SwapAxes: true, InvertX: true},
		{SwapAxes: true, InvertY: true},
		{InvertX: true, InvertY: true},
		{SwapAxes: true, InvertX: true, InvertY: true},
		{Rotate180: true},
		{SwapAxes: true, Rotate180: true},
	}

	for _, f := range flags {
		tr := baseTransform()
		tr.SwapAxes, tr.InvertX, tr.InvertY, tr.Rotate180 = f.SwapAxes, f.InvertX, f.InvertY, f.Rotate180
		for rawX := 0; rawX <= 4095; rawX += 127 {
			for rawY := 0; rawY <= 4095; rawY += 127 {
				x, y := tr.Apply(rawX, rawY)
				if x < 0 || x >= tr.Width || y < 0 || y >= tr.Height {
					t.Fatalf("flags %+v: Apply(%d,%d) = (%d,%d) out of bounds", f, rawX, rawY, x, y)
				}
			}
		}
	}
}

func TestTransformClampsOutOfRangeRaw(t *testing.T) {
	tr := baseTransform()
	tests := []struct {
		rawX, rawY int
		wantX      int
		wantY      int
	}{
		{-500, -500, 0, 0},
		{99999, 99999, tr.Width - 1, tr.Height - 1},
		{-1, 99999, 0, tr.Height - 1},
	}
	for _, tt := range tests {
		x, y := tr.Apply(tt.rawX, tt.rawY)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("Apply(%d,%d) = (%d,%d); want (%d,%d)", tt.rawX, tt.rawY, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestTransformIdempotent(t *testing.T) {
	tr := baseTransform()
	tr.SwapAxes = true
	tr.InvertY = true
	x1, y1 := tr.Apply(1000, 3000)
	for i := 0; i < 10; i++ {
		x2, y2 := tr.Apply(1000, 3000)
		if x1 != x2 || y1 != y2 {
			t.Fatalf("repeated Apply diverged: (%d,%d) vs (%d,%d)", x1, y1, x2, y2)
		}
	}
}

func TestTransformSwapAxes(t *testing.T) {
	tr := baseTransform()
	tr.SwapAxes = true

	// raw X at max, raw Y at min: after the swap the large value lands
	// on the screen Y axis.
	x, y := tr.Apply(4095, 0)
	if x != 0 {
		t.Errorf("expected swapped x = 0, got %d", x)
	}
	if y != tr.Height-1 {
		t.Errorf("expected swapped y = %d, got %d", tr.Height-1, y)
	}
}

func TestTransformInversion(t *testing.T) {
	tr := baseTransform()
	tr.InvertX = true
	x, _ := tr.Apply(0, 0)
	if x != tr.Width-1 {
		t.Errorf("InvertX: Apply(0,0) x = %d; want %d", x, tr.Width-1)
	}

	tr = baseTransform()
	tr.InvertY = true
	_, y := tr.Apply(0, 0)
	if y != tr.Height-1 {
		t.Errorf("InvertY: Apply(0,0) y = %d; want %d", y, tr.Height-1)
	}
}
