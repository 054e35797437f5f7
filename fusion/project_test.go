package fusion

import (
	"testing"

	"github.com/golang/geo/r3"

	"go.viam.com/rdk/rimage/transform"
)

func testIntrinsics() transform.PinholeCameraIntrinsics {
	return transform.PinholeCameraIntrinsics{
		Width:  640,
		Height: 480,
		Fx:     500,
		Fy:     500,
		Ppx:    320,
		Ppy:    240,
	}
}

func TestProjectToImagePlane_KnownPoint(t *testing.T) {
	pts := []lidarPoint{
		{pos: r3.Vector{X: 0.1, Y: 0.05, Z: 2.0}, index: 0},
	}

	projected := projectToImagePlane(pts, testIntrinsics())

	if len(projected) != 1 {
		t.Fatalf("expected 1 projected point, got %d", len(projected))
	}
	p := projected[0]
	if p.U != 345 || p.V != 252 {
		t.Errorf("expected pixel (345, 252), got (%d, %d)", p.U, p.V)
	}
	if p.Point != pts[0].pos {
		t.Errorf("expected camera-frame coordinates to be retained, got %v", p.Point)
	}
	if p.SourceIndex != 0 {
		t.Errorf("expected source index 0, got %d", p.SourceIndex)
	}
}

func TestProjectToImagePlane_TruncatesTowardZero(t *testing.T) {
	// (0.10396/2)*500 + 320 = 345.99; truncation must give 345, not 346.
	pts := []lidarPoint{
		{pos: r3.Vector{X: 0.10396, Y: 0.05, Z: 2.0}},
	}

	projected := projectToImagePlane(pts, testIntrinsics())

	if len(projected) != 1 {
		t.Fatalf("expected 1 projected point, got %d", len(projected))
	}
	if projected[0].U != 345 {
		t.Errorf("expected truncated u=345, got %d", projected[0].U)
	}
}

func TestProjectToImagePlane_BehindCamera(t *testing.T) {
	pts := []lidarPoint{
		{pos: r3.Vector{X: 0.1, Y: 0.05, Z: 0}},
		{pos: r3.Vector{X: 0.1, Y: 0.05, Z: -2.0}},
		{pos: r3.Vector{X: 1000, Y: -1000, Z: -0.001}},
	}

	projected := projectToImagePlane(pts, testIntrinsics())

	if len(projected) != 0 {
		t.Errorf("expected no projected points for z <= 0, got %d", len(projected))
	}
}

func TestProjectToImagePlane_OutOfBounds(t *testing.T) {
	pts := []lidarPoint{
		{pos: r3.Vector{X: 10, Y: 0, Z: 1}},  // u far beyond width
		{pos: r3.Vector{X: -10, Y: 0, Z: 1}}, // u negative
		{pos: r3.Vector{X: 0, Y: 10, Z: 1}},  // v far beyond height
		{pos: r3.Vector{X: 0, Y: 0, Z: 1}},   // principal point, in bounds
	}

	projected := projectToImagePlane(pts, testIntrinsics())

	if len(projected) != 1 {
		t.Fatalf("expected 1 in-bounds point, got %d", len(projected))
	}
	if projected[0].U != 320 || projected[0].V != 240 {
		t.Errorf("expected (320, 240), got (%d, %d)", projected[0].U, projected[0].V)
	}
}

func TestProjectToImagePlane_PreservesOrder(t *testing.T) {
	pts := []lidarPoint{
		{pos: r3.Vector{X: -0.1, Y: 0, Z: 1.0}, index: 0},
		{pos: r3.Vector{X: 0, Y: 0, Z: -1.0}, index: 1},
		{pos: r3.Vector{X: 0.1, Y: 0, Z: 1.0}, index: 2},
		{pos: r3.Vector{X: 0.2, Y: 0.1, Z: 2.0}, index: 3},
	}

	projected := projectToImagePlane(pts, testIntrinsics())

	if len(projected) != 3 {
		t.Fatalf("expected 3 projected points, got %d", len(projected))
	}
	wantIdx := []int{0, 2, 3}
	for i, p := range projected {
		if p.SourceIndex != wantIdx[i] {
			t.Errorf("position %d: expected source index %d, got %d", i, wantIdx[i], p.SourceIndex)
		}
	}
}
