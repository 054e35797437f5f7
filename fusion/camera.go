package fusion

import (
	"sync"

	"go.viam.com/rdk/rimage/transform"
)

// CameraModel holds the pinhole intrinsics for the fused camera. It starts
// unpopulated; the pipeline drops every frame until the first intrinsics
// update arrives. Updates may race with in-flight frames, so all access
// goes through the lock.
type CameraModel struct {
	mu         sync.RWMutex
	intrinsics transform.PinholeCameraIntrinsics
	ready      bool
}

// NewCameraModel returns an unpopulated camera model.
func NewCameraModel() *CameraModel {
	return &CameraModel{}
}

// SetFromMatrix populates the model from a row-major 3x3 intrinsic matrix:
// fx at k[0], fy at k[4], cx at k[2], cy at k[5].
func (c *CameraModel) SetFromMatrix(width, height int, k [9]float64) {
	c.SetIntrinsics(transform.PinholeCameraIntrinsics{
		Width:  width,
		Height: height,
		Fx:     k[0],
		Fy:     k[4],
		Ppx:    k[2],
		Ppy:    k[5],
	})
}

// SetIntrinsics replaces the intrinsics and marks the model ready. The
// transition to ready is one-way; later updates take effect for subsequent
// frames only.
func (c *CameraModel) SetIntrinsics(intr transform.PinholeCameraIntrinsics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.intrinsics = intr
	c.ready = true
}

// Ready reports whether intrinsics have been received.
func (c *CameraModel) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Intrinsics returns a copy of the current intrinsics. The second return
// is false until the first update.
func (c *CameraModel) Intrinsics() (transform.PinholeCameraIntrinsics, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.intrinsics, c.ready
}
