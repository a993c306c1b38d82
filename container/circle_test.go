package container

import (
	"math"
	"testing"

	"github.com/ByLCY/rondo/layout"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestCorrectedRectChord(t *testing.T) {
	size := layout.Size{Width: 200, Height: 200}
	got := CorrectedRect(layout.Rect{X: 0, Y: 0, Width: 200, Height: 20}, size)

	wantWidth := 2 * math.Sqrt(100*100-90*90)
	if !almostEqual(got.Width, wantWidth) {
		t.Fatalf("chord width = %g, want %g", got.Width, wantWidth)
	}
	if !almostEqual(got.X, 100-wantWidth/2) {
		t.Fatalf("chord x = %g, want %g", got.X, 100-wantWidth/2)
	}
	if got.Y != 0 || got.Height != 20 {
		t.Fatalf("vertical extent must be kept, got %+v", got)
	}
}

func TestCorrectedRectThroughCenterUsesDiameter(t *testing.T) {
	size := layout.Size{Width: 100, Height: 100}
	got := CorrectedRect(layout.Rect{Y: 45, Width: 100, Height: 10}, size)
	if !almostEqual(got.Width, 100) || !almostEqual(got.X, 0) {
		t.Fatalf("line through the center should span the diameter, got %+v", got)
	}
}

func TestCorrectedRectOutsideCircleIsEmpty(t *testing.T) {
	size := layout.Size{Width: 100, Height: 100}
	for _, y := range []float64{95, 100, 120} {
		got := CorrectedRect(layout.Rect{Y: y, Width: 100, Height: 10}, size)
		if got.Width != 0 {
			t.Fatalf("y=%g: expected zero width, got %+v", y, got)
		}
	}
}

func TestCorrectedRectCentersWideContainer(t *testing.T) {
	size := layout.Size{Width: 300, Height: 100}
	got := CorrectedRect(layout.Rect{Y: 45, Width: 300, Height: 10}, size)
	if !almostEqual(got.Width, 100) {
		t.Fatalf("diameter should follow the shorter side, got %+v", got)
	}
	if !almostEqual(got.X, 100) {
		t.Fatalf("circle should be centered horizontally, got x=%g", got.X)
	}
}

func TestCorrectedRectIsPure(t *testing.T) {
	size := layout.Size{Width: 80, Height: 120}
	proposed := layout.Rect{Y: 13, Width: 80, Height: 7}
	first := CorrectedRect(proposed, size)
	for i := 0; i < 3; i++ {
		if got := CorrectedRect(proposed, size); got != first {
			t.Fatalf("call %d returned %+v, want %+v", i, got, first)
		}
	}
}

func TestCircleLineFragmentRect(t *testing.T) {
	c := NewCircle(layout.Size{Width: 60, Height: 60}, 2)
	if c.Diameter() != 60 {
		t.Fatalf("unexpected diameter %g", c.Diameter())
	}
	got := c.LineFragmentRect(layout.Rect{Y: 25, Width: 60, Height: 10}, 0, layout.DirectionNatural)
	if !almostEqual(got.Width, 60) {
		t.Fatalf("middle line should span the diameter, got %+v", got)
	}
	// 超出容器底部的行被矩形容器置空。
	got = c.LineFragmentRect(layout.Rect{Y: 55, Width: 60, Height: 10}, 0, layout.DirectionNatural)
	if !got.IsEmpty() || got.X != 0 {
		t.Fatalf("line below the container should stay empty and uncorrected, got %+v", got)
	}
}
