package fusion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.viam.com/rdk/spatialmath"
)

// TransformProvider resolves the rigid transform that maps points expressed
// in sourceFrame into targetFrame at the given time. Implementations must
// honor context cancellation, since the pipeline bounds every lookup with a
// deadline.
type TransformProvider interface {
	LookupTransform(ctx context.Context, sourceFrame, targetFrame string, stamp time.Time) (spatialmath.Pose, error)
}

// transformToCameraFrame resolves the source-to-target transform within the
// bounded wait and applies it (rotation then translation) to every point.
// Any lookup failure aborts the whole set; no points are transformed.
func transformToCameraFrame(
	ctx context.Context,
	provider TransformProvider,
	points []lidarPoint,
	sourceFrame, targetFrame string,
	stamp time.Time,
	timeout time.Duration,
) ([]lidarPoint, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pose, err := provider.LookupTransform(lookupCtx, sourceFrame, targetFrame, stamp)
	if err != nil {
		return nil, fmt.Errorf("%w: %s to %s: %v", ErrTransformUnavailable, sourceFrame, targetFrame, err)
	}

	out := make([]lidarPoint, len(points))
	for i, p := range points {
		moved := spatialmath.Compose(pose, spatialmath.NewPoseFromPoint(p.pos))
		out[i] = lidarPoint{pos: moved.Point(), data: p.data, index: p.index}
	}
	return out, nil
}

// frameKey identifies one directed frame pair.
type frameKey struct {
	source, target string
}

// StaticTransformProvider serves fixed extrinsics from an in-memory table.
// It backs offline processing and tests, where the camera-to-lidar mounting
// is known ahead of time.
type StaticTransformProvider struct {
	mu         sync.RWMutex
	transforms map[frameKey]spatialmath.Pose
}

// NewStaticTransformProvider returns an empty provider.
func NewStaticTransformProvider() *StaticTransformProvider {
	return &StaticTransformProvider{transforms: make(map[frameKey]spatialmath.Pose)}
}

// SetTransform registers the pose mapping sourceFrame points into
// targetFrame, replacing any previous registration for the pair.
func (s *StaticTransformProvider) SetTransform(sourceFrame, targetFrame string, pose spatialmath.Pose) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transforms[frameKey{sourceFrame, targetFrame}] = pose
}

// LookupTransform implements TransformProvider. The stamp is ignored; a
// static mounting is valid at every time.
func (s *StaticTransformProvider) LookupTransform(ctx context.Context, sourceFrame, targetFrame string, _ time.Time) (spatialmath.Pose, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	pose, ok := s.transforms[frameKey{sourceFrame, targetFrame}]
	if !ok {
		return nil, fmt.Errorf("no transform registered from %q to %q", sourceFrame, targetFrame)
	}
	return pose, nil
}
