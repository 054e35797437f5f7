package fusion

import (
	"github.com/golang/geo/r3"

	"go.viam.com/rdk/pointcloud"
)

// cropToROI returns the cloud points inside the configured region of
// interest. The crop is three sequential independent pass-through filters,
// one per axis, mirroring a chain of single-field range filters. Each kept
// point carries its index within the cropped set so downstream stages can
// trace projected pixels back to cloud points.
func cropToROI(cloud pointcloud.PointCloud, roi ROIConfig) []lidarPoint {
	raw := make([]lidarPoint, 0, cloud.Size())
	cloud.Iterate(0, 0, func(p r3.Vector, d pointcloud.Data) bool {
		raw = append(raw, lidarPoint{pos: p, data: d})
		return true
	})

	// Axis passes run one at a time; no cross-axis predicate.
	pts := filterAxis(raw, func(v r3.Vector) float64 { return v.X }, roi.MinX, roi.MaxX)
	pts = filterAxis(pts, func(v r3.Vector) float64 { return v.Y }, roi.MinY, roi.MaxY)
	pts = filterAxis(pts, func(v r3.Vector) float64 { return v.Z }, roi.MinZ, roi.MaxZ)

	for i := range pts {
		pts[i].index = i
	}
	return pts
}

// filterAxis keeps the points whose coordinate along one axis lies in
// [min, max], preserving order.
func filterAxis(pts []lidarPoint, axis func(r3.Vector) float64, min, max float64) []lidarPoint {
	out := make([]lidarPoint, 0, len(pts))
	for _, p := range pts {
		c := axis(p.pos)
		if c >= min && c <= max {
			out = append(out, p)
		}
	}
	return out
}
