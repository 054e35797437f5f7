package fusion

import "errors"

var (
	// ErrNotReady is returned when a frame arrives before camera intrinsics.
	ErrNotReady = errors.New("camera intrinsics not yet received")

	// ErrTransformUnavailable is returned when the frame transform cannot be
	// resolved within the bounded wait.
	ErrTransformUnavailable = errors.New("frame transform unavailable")

	// ErrNilPointCloud is returned when a frame carries no point cloud.
	ErrNilPointCloud = errors.New("point cloud is nil")

	// ErrImageUndrawable is returned when the frame image cannot be annotated.
	ErrImageUndrawable = errors.New("image cannot be annotated")

	// ErrInvalidROI is returned when region-of-interest bounds are inverted.
	ErrInvalidROI = errors.New("invalid region of interest bounds")

	// ErrMissingFrame is returned when a reference frame name is empty.
	ErrMissingFrame = errors.New("reference frame name is empty")

	// ErrNoTransformProvider is returned when a pipeline is built without a
	// transform provider.
	ErrNoTransformProvider = errors.New("transform provider is nil")
)
