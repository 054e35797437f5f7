package lidarfusion

import (
	"context"
	"fmt"
	"image"
	"time"

	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/pointcloud"
	"go.viam.com/rdk/robot"
	"go.viam.com/rdk/services/vision"
	"go.viam.com/rdk/vision/objectdetection"

	"github.com/khaledgabr77/lidar-camera-fusion/approxsync"
	"github.com/khaledgabr77/lidar-camera-fusion/fusion"
)

// NodeConfig wires a Node to the resources of a Viam machine.
type NodeConfig struct {
	// Camera is the name of the camera component supplying images, point
	// clouds, and intrinsics.
	Camera string

	// Detector is the name of the vision service supplying 2D detections.
	Detector string

	// Fusion configures the pipeline itself.
	Fusion fusion.Config

	// PollInterval is how often the node pulls a fresh triple from the
	// machine. Defaults to 100ms.
	PollInterval time.Duration

	// SyncSlop is the maximum stamp spread for a synchronized triple.
	// Defaults to PollInterval.
	SyncSlop time.Duration
}

// cloudMsg is a stamped point cloud plus the frame it is expressed in.
type cloudMsg struct {
	cloud pointcloud.PointCloud
	frame string
}

// Node drives the fusion pipeline against a live Viam machine: it polls the
// camera and detector, feeds the approximate-time synchronizer, and
// publishes each fused frame through the configured sinks.
type Node struct {
	logger   logging.Logger
	machine  robot.Robot
	cam      camera.Camera
	detector vision.Service

	cfg      NodeConfig
	pipeline *fusion.Pipeline
	sync     *approxsync.Synchronizer[[]fusion.RawDetection, image.Image, cloudMsg]
	sinks    fusion.Sinks
}

// NewNode resolves the named resources on the machine and assembles the
// node. The machine's frame system serves as the transform provider.
func NewNode(ctx context.Context, machine robot.Robot, cfg NodeConfig, sinks fusion.Sinks, logger logging.Logger) (*Node, error) {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}
	if cfg.SyncSlop <= 0 {
		cfg.SyncSlop = cfg.PollInterval
	}

	cam, err := camera.FromRobot(machine, cfg.Camera)
	if err != nil {
		return nil, fmt.Errorf("camera %q: %w", cfg.Camera, err)
	}
	detector, err := vision.FromRobot(machine, cfg.Detector)
	if err != nil {
		return nil, fmt.Errorf("vision service %q: %w", cfg.Detector, err)
	}

	pipeline, err := fusion.NewPipeline(cfg.Fusion, fusion.NewCameraModel(), &machineTransformProvider{machine: machine}, logger)
	if err != nil {
		return nil, err
	}

	n := &Node{
		logger:   logger,
		machine:  machine,
		cam:      cam,
		detector: detector,
		cfg:      cfg,
		pipeline: pipeline,
		sinks:    sinks,
	}
	n.sync = approxsync.New(cfg.SyncSlop, approxsync.DefaultQueueDepth, n.handleTriple)
	return n, nil
}

// Pipeline exposes the underlying pipeline, mainly so hosts can reach the
// camera model for out-of-band intrinsics updates.
func (n *Node) Pipeline() *fusion.Pipeline {
	return n.pipeline
}

// Run polls the machine until the context is cancelled. Acquisition errors
// are logged and skipped; the loop never gives up on a transient failure.
func (n *Node) Run(ctx context.Context) error {
	n.logger.Infof("Starting fusion node: camera=%q detector=%q", n.cfg.Camera, n.cfg.Detector)

	ticker := time.NewTicker(n.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			n.logger.Info("Shutting down fusion node")
			return nil
		case <-ticker.C:
		}

		if !n.pipeline.Camera().Ready() {
			if err := n.pollIntrinsics(ctx); err != nil {
				n.logger.Warnf("Camera intrinsics not yet available: %v", err)
				continue
			}
		}

		n.pollOnce(ctx)
	}
}

// pollIntrinsics asks the camera for its pinhole parameters and readies the
// pipeline once they arrive.
func (n *Node) pollIntrinsics(ctx context.Context) error {
	props, err := n.cam.Properties(ctx)
	if err != nil {
		return err
	}
	if props.IntrinsicParams == nil {
		return fmt.Errorf("camera %q reports no intrinsic parameters", n.cfg.Camera)
	}
	n.pipeline.Camera().SetIntrinsics(*props.IntrinsicParams)
	n.logger.Infof("Camera intrinsics received: %dx%d fx=%.1f fy=%.1f",
		props.IntrinsicParams.Width, props.IntrinsicParams.Height,
		props.IntrinsicParams.Fx, props.IntrinsicParams.Fy)
	return nil
}

// pollOnce pulls one image, one point cloud, and one detection list, each
// stamped at acquisition, and pushes them into the synchronizer.
func (n *Node) pollOnce(ctx context.Context) {
	img, err := camera.DecodeImageFromCamera(ctx, "", nil, n.cam)
	if err != nil {
		n.logger.Warnf("Image acquisition failed: %v", err)
		return
	}
	n.sync.PushB(approxsync.Stamped[image.Image]{Stamp: time.Now(), Value: img})

	cloud, err := n.cam.NextPointCloud(ctx, nil)
	if err != nil {
		n.logger.Warnf("Point cloud acquisition failed: %v", err)
		return
	}
	n.sync.PushC(approxsync.Stamped[cloudMsg]{
		Stamp: time.Now(),
		Value: cloudMsg{cloud: cloud, frame: n.cfg.Fusion.Frames.LidarFrame},
	})

	dets, err := n.detector.Detections(ctx, img, nil)
	if err != nil {
		n.logger.Warnf("Detection failed: %v", err)
		return
	}
	n.sync.PushA(approxsync.Stamped[[]fusion.RawDetection]{Stamp: time.Now(), Value: rawDetections(dets)})
}

// handleTriple runs one synchronized triple through the pipeline and
// publishes the result. Any failure abandons just this frame.
func (n *Node) handleTriple(
	dets approxsync.Stamped[[]fusion.RawDetection],
	img approxsync.Stamped[image.Image],
	cloud approxsync.Stamped[cloudMsg],
) {
	ctx := context.Background()

	frame := fusion.Frame{
		Detections: dets.Value,
		Image:      img.Value,
		Cloud:      cloud.Value.cloud,
		CloudFrame: cloud.Value.frame,
		CloudStamp: cloud.Stamp,
	}

	res, err := n.pipeline.Process(ctx, frame)
	if err != nil {
		n.logger.Warnf("Frame dropped: %v", err)
	}
	if res == nil {
		return
	}
	if err := n.pipeline.Publish(ctx, res, n.sinks); err != nil {
		n.logger.Errorf("Publish failed: %v", err)
	}
}

// rawDetections converts Viam detections into the pipeline's raw form. The
// detection label doubles as the id string, matching detectors that label
// by numeric class or track id.
func rawDetections(dets []objectdetection.Detection) []fusion.RawDetection {
	out := make([]fusion.RawDetection, 0, len(dets))
	for _, d := range dets {
		box := d.BoundingBox()
		if box == nil {
			continue
		}
		out = append(out, rawFromBox(d.Label(), *box))
	}
	return out
}

// rawFromBox re-expresses a corner-form pixel rectangle as center+size.
func rawFromBox(label string, box image.Rectangle) fusion.RawDetection {
	return fusion.RawDetection{
		ID:      label,
		CenterX: float64(box.Min.X+box.Max.X) / 2.0,
		CenterY: float64(box.Min.Y+box.Max.Y) / 2.0,
		SizeX:   float64(box.Dx()),
		SizeY:   float64(box.Dy()),
	}
}
