// Command cli runs the fusion pipeline once, offline, from files: a PCD
// point cloud, an image, a detections JSON list, and camera intrinsics.
// Outputs land in -out as poses.json, annotated.png, and object_<id>.pcd.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/golang/geo/r3"

	lidarfusion "github.com/khaledgabr77/lidar-camera-fusion"
	"github.com/khaledgabr77/lidar-camera-fusion/fusion"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/pointcloud"
	"go.viam.com/rdk/rimage/transform"
	"go.viam.com/rdk/spatialmath"
)

// intrinsicsFile mirrors the camera_info fields the pipeline needs.
type intrinsicsFile struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Fx     float64 `json:"fx"`
	Fy     float64 `json:"fy"`
	Cx     float64 `json:"cx"`
	Cy     float64 `json:"cy"`
}

// extrinsicsFile is the lidar-to-camera mounting: a translation plus an
// orientation vector in degrees.
type extrinsicsFile struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	OX    float64 `json:"ox"`
	OY    float64 `json:"oy"`
	OZ    float64 `json:"oz"`
	Theta float64 `json:"theta"`
}

func main() {
	pcdPath := flag.String("pcd", "", "path to input PCD point cloud")
	imagePath := flag.String("image", "", "path to input image (png or jpeg)")
	detectionsPath := flag.String("detections", "", "path to detections JSON list")
	intrinsicsPath := flag.String("intrinsics", "", "path to camera intrinsics JSON")
	extrinsicsPath := flag.String("extrinsics", "", "optional lidar-to-camera extrinsics JSON (identity if omitted)")
	configPath := flag.String("config", "", "optional fusion config JSON file")
	outDir := flag.String("out", "out", "output directory")
	flag.Parse()

	logger := logging.NewLogger("lidar-camera-fusion-cli")

	for name, v := range map[string]*string{
		"-pcd": pcdPath, "-image": imagePath, "-detections": detectionsPath, "-intrinsics": intrinsicsPath,
	} {
		if *v == "" {
			logger.Fatalf("%s flag is required", name)
		}
	}

	cfg := fusion.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = fusion.ConfigFromFile(*configPath)
		if err != nil {
			logger.Fatal(err)
		}
	}

	cloud, err := pointcloud.NewFromFile(*pcdPath, "")
	if err != nil {
		logger.Fatalf("failed to load PCD: %v", err)
	}
	img, err := loadImage(*imagePath)
	if err != nil {
		logger.Fatal(err)
	}
	dets, err := loadDetections(*detectionsPath)
	if err != nil {
		logger.Fatal(err)
	}
	intr, err := loadIntrinsics(*intrinsicsPath)
	if err != nil {
		logger.Fatal(err)
	}

	extrinsics := spatialmath.NewZeroPose()
	if *extrinsicsPath != "" {
		extrinsics, err = loadExtrinsics(*extrinsicsPath)
		if err != nil {
			logger.Fatal(err)
		}
	}

	provider := fusion.NewStaticTransformProvider()
	provider.SetTransform(cfg.Frames.LidarFrame, cfg.Frames.CameraFrame, extrinsics)

	camModel := fusion.NewCameraModel()
	camModel.SetIntrinsics(intr)

	pipeline, err := fusion.NewPipeline(cfg, camModel, provider, logger)
	if err != nil {
		logger.Fatal(err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Fatal(err)
	}

	ctx := context.Background()
	res, err := pipeline.Process(ctx, fusion.Frame{
		Detections: dets,
		Image:      img,
		Cloud:      cloud,
		CloudStamp: time.Now(),
	})
	if err != nil {
		logger.Fatalf("fusion failed: %v", err)
	}

	if err := pipeline.Publish(ctx, res, lidarfusion.FileSinks(*outDir)); err != nil {
		logger.Fatal(err)
	}

	logger.Infof("Fused %d detection(s): %d pose(s), %d cloud fragment(s); outputs in %s",
		len(dets), len(res.Poses), len(res.Fragments), *outDir)
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func loadDetections(path string) ([]fusion.RawDetection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read detections: %w", err)
	}
	var dets []fusion.RawDetection
	if err := json.Unmarshal(data, &dets); err != nil {
		return nil, fmt.Errorf("parse detections: %w", err)
	}
	return dets, nil
}

func loadIntrinsics(path string) (transform.PinholeCameraIntrinsics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return transform.PinholeCameraIntrinsics{}, fmt.Errorf("read intrinsics: %w", err)
	}
	var f intrinsicsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return transform.PinholeCameraIntrinsics{}, fmt.Errorf("parse intrinsics: %w", err)
	}
	return transform.PinholeCameraIntrinsics{
		Width:  f.Width,
		Height: f.Height,
		Fx:     f.Fx,
		Fy:     f.Fy,
		Ppx:    f.Cx,
		Ppy:    f.Cy,
	}, nil
}

func loadExtrinsics(path string) (spatialmath.Pose, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read extrinsics: %w", err)
	}
	var f extrinsicsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse extrinsics: %w", err)
	}
	if f.OX == 0 && f.OY == 0 && f.OZ == 0 {
		return spatialmath.NewPoseFromPoint(r3.Vector{X: f.X, Y: f.Y, Z: f.Z}), nil
	}
	return spatialmath.NewPose(
		r3.Vector{X: f.X, Y: f.Y, Z: f.Z},
		&spatialmath.OrientationVectorDegrees{OX: f.OX, OY: f.OY, OZ: f.OZ, Theta: f.Theta},
	), nil
}
