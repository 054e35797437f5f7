package fusion

import (
	"image"
	"time"

	"github.com/golang/geo/r3"

	"go.viam.com/rdk/pointcloud"
	"go.viam.com/rdk/spatialmath"
)

// RawDetection is a 2D detection as delivered by the detector stream:
// a string id plus a center+size pixel rectangle.
type RawDetection struct {
	ID      string  `json:"id"`
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	SizeX   float64 `json:"size_x"`
	SizeY   float64 `json:"size_y"`
}

// Detection is a parsed detection with corner-form pixel bounds.
type Detection struct {
	ID   int
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// Contains reports whether pixel (u, v) falls inside the box. All four
// edges are inclusive.
func (d Detection) Contains(u, v int) bool {
	fu, fv := float64(u), float64(v)
	return fu >= d.XMin && fu <= d.XMax && fv >= d.YMin && fv <= d.YMax
}

// Frame is one synchronized triple handed to the pipeline.
type Frame struct {
	Detections []RawDetection

	Image image.Image

	// Cloud is the raw lidar point cloud. CloudFrame is the reference frame
	// it is expressed in; when empty the configured lidar frame is assumed.
	Cloud      pointcloud.PointCloud
	CloudFrame string
	CloudStamp time.Time
}

// lidarPoint is one cloud point flowing through the crop and transform
// stages. index is the point's position in the ROI-cropped set, kept for
// traceability into the projected set.
type lidarPoint struct {
	pos   r3.Vector
	data  pointcloud.Data
	index int
}

// ProjectedPoint is a 3D point that survived projection onto the image
// plane. Point holds the camera-frame coordinates backing pixel (U, V).
type ProjectedPoint struct {
	U           int
	V           int
	Point       r3.Vector
	SourceIndex int

	data pointcloud.Data
}

// boxAccumulator gathers per-detection sums over one frame. Accumulators
// never outlive the invocation that created them.
type boxAccumulator struct {
	box              Detection
	sumX, sumY, sumZ float64
	count            int
	points           []ProjectedPoint
}

// ObjectPose is the centroid position estimate for one detection.
type ObjectPose struct {
	ID   int
	Pose spatialmath.Pose
}

// CloudFragment is the camera-frame point subset associated with one
// detection.
type CloudFragment struct {
	ID      int
	FrameID string
	Stamp   time.Time
	Cloud   pointcloud.PointCloud
}

// Result is everything one successfully processed frame produces.
type Result struct {
	Poses     []ObjectPose
	PoseFrame string
	PoseStamp time.Time

	// Annotated is nil when image annotation failed; the rest of the result
	// is still valid and publishable.
	Annotated image.Image

	Fragments []CloudFragment
}
