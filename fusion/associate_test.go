package fusion

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func TestAssociatePoints_BoundaryInclusive(t *testing.T) {
	box := Detection{ID: 1, XMin: 100, YMin: 100, XMax: 200, YMax: 200}

	cases := []struct {
		name string
		u, v int
		want bool
	}{
		{"on left edge", 100, 150, true},
		{"on right edge", 200, 150, true},
		{"on top edge", 150, 100, true},
		{"on bottom edge", 150, 200, true},
		{"corner", 100, 100, true},
		{"one left of box", 99, 150, false},
		{"one below box", 150, 201, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pts := []ProjectedPoint{{U: tc.u, V: tc.v, Point: r3.Vector{Z: 1}}}
			accs, matched := associatePoints(pts, []Detection{box})
			got := accs[0].count == 1
			if got != tc.want {
				t.Errorf("point (%d, %d): expected contained=%v, got %v", tc.u, tc.v, tc.want, got)
			}
			if tc.want && len(matched) != 1 {
				t.Errorf("expected 1 matched point, got %d", len(matched))
			}
		})
	}
}

func TestAssociatePoints_OverlapDoubleCounts(t *testing.T) {
	boxA := Detection{ID: 1, XMin: 0, YMin: 0, XMax: 100, YMax: 100}
	boxB := Detection{ID: 2, XMin: 50, YMin: 50, XMax: 150, YMax: 150}

	pt := ProjectedPoint{U: 75, V: 75, Point: r3.Vector{X: 1, Y: 2, Z: 3}}
	accs, matched := associatePoints([]ProjectedPoint{pt}, []Detection{boxA, boxB})

	for i, acc := range accs {
		if acc.count != 1 {
			t.Errorf("box %d: expected count 1, got %d", i, acc.count)
		}
		if acc.sumX != 1 || acc.sumY != 2 || acc.sumZ != 3 {
			t.Errorf("box %d: expected sums (1, 2, 3), got (%v, %v, %v)", i, acc.sumX, acc.sumY, acc.sumZ)
		}
		if len(acc.points) != 1 {
			t.Errorf("box %d: expected 1 point in subset, got %d", i, len(acc.points))
		}
	}

	// One entry per (point, box) match: the same pixel appears twice.
	if len(matched) != 2 {
		t.Errorf("expected 2 matched entries for a point in 2 boxes, got %d", len(matched))
	}
}

func TestAssociatePoints_Accumulates(t *testing.T) {
	box := Detection{ID: 3, XMin: 0, YMin: 0, XMax: 640, YMax: 480}
	pts := []ProjectedPoint{
		{U: 10, V: 10, Point: r3.Vector{X: 1, Y: 0, Z: 2}},
		{U: 20, V: 20, Point: r3.Vector{X: 3, Y: 1, Z: 4}},
		{U: 700, V: 30, Point: r3.Vector{X: 100, Y: 100, Z: 100}}, // outside
	}

	accs, _ := associatePoints(pts, []Detection{box})

	acc := accs[0]
	if acc.count != 2 {
		t.Fatalf("expected count 2, got %d", acc.count)
	}
	if math.Abs(acc.sumX-4) > 1e-12 || math.Abs(acc.sumY-1) > 1e-12 || math.Abs(acc.sumZ-6) > 1e-12 {
		t.Errorf("expected sums (4, 1, 6), got (%v, %v, %v)", acc.sumX, acc.sumY, acc.sumZ)
	}
}

func TestAssociatePoints_NoDetections(t *testing.T) {
	pts := []ProjectedPoint{{U: 10, V: 10}}
	accs, matched := associatePoints(pts, nil)

	if len(accs) != 0 {
		t.Errorf("expected no accumulators, got %d", len(accs))
	}
	if len(matched) != 0 {
		t.Errorf("expected no matched points, got %d", len(matched))
	}
}
