package lidarfusion

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/pointcloud"

	"github.com/khaledgabr77/lidar-camera-fusion/fusion"
)

// LogSinks publishes every output through the logger only. Useful as a
// default while wiring up real consumers.
func LogSinks(logger logging.Logger) fusion.Sinks {
	return fusion.Sinks{
		Poses:  &logPoseSink{logger: logger},
		Image:  &logImageSink{logger: logger},
		Clouds: &logCloudSink{logger: logger},
	}
}

type logPoseSink struct {
	logger logging.Logger
}

func (s *logPoseSink) PublishPoses(_ context.Context, frameID string, stamp time.Time, poses []fusion.ObjectPose) error {
	s.logger.Infof("[%s @ %s] %d object pose(s)", frameID, stamp.Format(time.RFC3339Nano), len(poses))
	for _, p := range poses {
		pt := p.Pose.Point()
		s.logger.Infof("  object %d: (%.3f, %.3f, %.3f)", p.ID, pt.X, pt.Y, pt.Z)
	}
	return nil
}

type logImageSink struct {
	logger logging.Logger
}

func (s *logImageSink) PublishImage(_ context.Context, img image.Image) error {
	b := img.Bounds()
	s.logger.Infof("Annotated image: %dx%d", b.Dx(), b.Dy())
	return nil
}

type logCloudSink struct {
	logger logging.Logger
}

func (s *logCloudSink) PublishCloud(_ context.Context, frag fusion.CloudFragment) error {
	s.logger.Infof("Object %d cloud: %d point(s) in %s", frag.ID, frag.Cloud.Size(), frag.FrameID)
	return nil
}

// FileSinks writes outputs under dir: poses.json, annotated.png, and one
// object_<id>.pcd per fragment. Intended for the offline cli.
func FileSinks(dir string) fusion.Sinks {
	return fusion.Sinks{
		Poses:  &jsonPoseSink{path: filepath.Join(dir, "poses.json")},
		Image:  &pngImageSink{path: filepath.Join(dir, "annotated.png")},
		Clouds: &pcdCloudSink{dir: dir},
	}
}

type jsonPoseSink struct {
	path string
}

func (s *jsonPoseSink) PublishPoses(_ context.Context, frameID string, stamp time.Time, poses []fusion.ObjectPose) error {
	type poseEntry struct {
		ID int     `json:"id"`
		X  float64 `json:"x"`
		Y  float64 `json:"y"`
		Z  float64 `json:"z"`
	}
	out := struct {
		Frame string      `json:"frame"`
		Stamp time.Time   `json:"stamp"`
		Poses []poseEntry `json:"poses"`
	}{Frame: frameID, Stamp: stamp, Poses: make([]poseEntry, 0, len(poses))}

	for _, p := range poses {
		pt := p.Pose.Point()
		out.Poses = append(out.Poses, poseEntry{ID: p.ID, X: pt.X, Y: pt.Y, Z: pt.Z})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal poses: %w", err)
	}
	return os.WriteFile(s.path, data, 0o644)
}

type pngImageSink struct {
	path string
}

func (s *pngImageSink) PublishImage(_ context.Context, img image.Image) error {
	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()
	return png.Encode(file, img)
}

type pcdCloudSink struct {
	dir string
}

// PublishCloud writes one fragment as a binary PCD file.
func (s *pcdCloudSink) PublishCloud(_ context.Context, frag fusion.CloudFragment) error {
	path := filepath.Join(s.dir, fmt.Sprintf("object_%d.pcd", frag.ID))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if err := pointcloud.ToPCD(frag.Cloud, file, pointcloud.PCDBinary); err != nil {
		return fmt.Errorf("write PCD: %w", err)
	}
	return nil
}
