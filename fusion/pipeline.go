package fusion

import (
	"context"
	"time"

	"go.viam.com/rdk/logging"
)

// Pipeline fuses one synchronized triple at a time: detections, an image,
// and a lidar point cloud in, per-object 3D centroids, an annotated image,
// and per-object cloud fragments out. Every invocation owns its own
// intermediate state, so concurrent invocations are safe as long as the
// shared CameraModel is the only thing they touch in common.
type Pipeline struct {
	cfg      Config
	camera   *CameraModel
	provider TransformProvider
	logger   logging.Logger

	// now stamps the outgoing pose list; replaceable in tests.
	now func() time.Time
}

// NewPipeline validates the config and assembles a pipeline.
func NewPipeline(cfg Config, camera *CameraModel, provider TransformProvider, logger logging.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, ErrNoTransformProvider
	}
	if camera == nil {
		camera = NewCameraModel()
	}
	return &Pipeline{
		cfg:      cfg,
		camera:   camera,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Camera returns the camera model gating this pipeline. Intrinsics updates
// go through it and may run concurrently with Process.
func (p *Pipeline) Camera() *CameraModel {
	return p.camera
}

// Process runs one synchronized triple through the full pipeline. A stage
// failure abandons the frame and leaves no state behind for the next one.
// If only the image annotation fails, the returned Result still carries the
// poses and fragments (Annotated is nil) alongside the error, matching the
// publish-order semantics of the upstream node: clouds and poses go out
// before the overlay is attempted.
func (p *Pipeline) Process(ctx context.Context, frame Frame) (*Result, error) {
	intr, ok := p.camera.Intrinsics()
	if !ok {
		return nil, ErrNotReady
	}
	if frame.Cloud == nil {
		return nil, ErrNilPointCloud
	}

	// Step 1: parse detections; an unparseable id drops that one detection.
	boxes, skipped := convertDetections(frame.Detections)
	for _, id := range skipped {
		p.logger.Errorf("Failed to convert detection ID %q to integer; skipping detection", id)
	}

	// Step 2: ROI crop in the lidar frame.
	cropped := cropToROI(frame.Cloud, p.cfg.ROI)

	// Step 3: lidar frame -> camera frame.
	sourceFrame := frame.CloudFrame
	if sourceFrame == "" {
		sourceFrame = p.cfg.Frames.LidarFrame
	}
	camPoints, err := transformToCameraFrame(
		ctx, p.provider, cropped,
		sourceFrame, p.cfg.Frames.CameraFrame,
		frame.CloudStamp, p.cfg.TransformTimeout,
	)
	if err != nil {
		return nil, err
	}

	// Step 4: pinhole projection onto the image plane.
	projected := projectToImagePlane(camPoints, intr)

	// Step 5: associate projected points with detection boxes.
	accs, matched := associatePoints(projected, boxes)

	// Step 6: reduce to centroid poses and per-object cloud fragments.
	frags, err := fragmentClouds(accs, p.cfg.Frames.CameraFrame, frame.CloudStamp)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Poses:     centroidPoses(accs),
		PoseFrame: p.cfg.Frames.CameraFrame,
		PoseStamp: p.now(),
		Fragments: frags,
	}

	// Step 7: overlay matched points on the image.
	annotated, err := drawMatchedPoints(frame.Image, matched)
	if err != nil {
		return res, err
	}
	res.Annotated = annotated
	return res, nil
}
