package fusion

import (
	"time"

	"github.com/golang/geo/r3"

	"go.viam.com/rdk/pointcloud"
	"go.viam.com/rdk/spatialmath"
)

// centroidPoses reduces accumulators into one centroid pose per detection
// that gathered at least one point. Orientation is identity. Boxes with
// zero points are omitted, so each pose carries its detection id rather
// than relying on positional alignment with the detection list.
func centroidPoses(accs []boxAccumulator) []ObjectPose {
	poses := make([]ObjectPose, 0, len(accs))
	for _, acc := range accs {
		if acc.count == 0 {
			continue
		}
		n := float64(acc.count)
		centroid := r3.Vector{X: acc.sumX / n, Y: acc.sumY / n, Z: acc.sumZ / n}
		poses = append(poses, ObjectPose{
			ID:   acc.box.ID,
			Pose: spatialmath.NewPose(centroid, spatialmath.NewZeroOrientation()),
		})
	}
	return poses
}

// fragmentClouds builds one camera-frame point cloud per detection with a
// non-empty point subset, stamped with the source cloud's own timestamp.
func fragmentClouds(accs []boxAccumulator, frameID string, stamp time.Time) ([]CloudFragment, error) {
	frags := make([]CloudFragment, 0, len(accs))
	for _, acc := range accs {
		if len(acc.points) == 0 {
			continue
		}
		cloud := pointcloud.NewBasicPointCloud(len(acc.points))
		for _, pt := range acc.points {
			if err := cloud.Set(pt.Point, pt.data); err != nil {
				return nil, err
			}
		}
		frags = append(frags, CloudFragment{
			ID:      acc.box.ID,
			FrameID: frameID,
			Stamp:   stamp,
			Cloud:   cloud,
		})
	}
	return frags, nil
}
