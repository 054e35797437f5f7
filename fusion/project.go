package fusion

import "go.viam.com/rdk/rimage/transform"

// projectToImagePlane maps camera-frame points to integer pixel coordinates
// via the pinhole model. Points behind the camera (z <= 0) are discarded, as
// are projections landing outside [0, width) x [0, height). The conversion
// to pixels truncates toward zero rather than rounding. Output order matches
// input order.
func projectToImagePlane(points []lidarPoint, intr transform.PinholeCameraIntrinsics) []ProjectedPoint {
	out := make([]ProjectedPoint, 0, len(points))
	for _, p := range points {
		if p.pos.Z <= 0 {
			continue
		}
		u := int((p.pos.X/p.pos.Z)*intr.Fx + intr.Ppx)
		v := int((p.pos.Y/p.pos.Z)*intr.Fy + intr.Ppy)
		if u < 0 || u >= intr.Width || v < 0 || v >= intr.Height {
			continue
		}
		out = append(out, ProjectedPoint{
			U:           u,
			V:           v,
			Point:       p.pos,
			SourceIndex: p.index,
			data:        p.data,
		})
	}
	return out
}
