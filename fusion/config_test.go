package fusion

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.ROI.MinX != -10 || cfg.ROI.MaxX != 10 || cfg.ROI.MinZ != -2 || cfg.ROI.MaxZ != 2 {
		t.Errorf("unexpected default ROI: %+v", cfg.ROI)
	}
	if cfg.Frames.LidarFrame != "lidar_frame" || cfg.Frames.CameraFrame != "camera_frame" {
		t.Errorf("unexpected default frames: %+v", cfg.Frames)
	}
	if cfg.TransformTimeout != time.Second {
		t.Errorf("expected 1s transform timeout, got %v", cfg.TransformTimeout)
	}
}

func TestConfigFromMap_OverridesDefaults(t *testing.T) {
	cfg, err := ConfigFromMap(map[string]interface{}{
		"roi": map[string]interface{}{
			"min_z": -1.5,
			"max_z": 0.5,
		},
		"frames": map[string]interface{}{
			"lidar_frame":  "velodyne",
			"camera_frame": "cam_link",
		},
		"transform_timeout": "500ms",
	})
	if err != nil {
		t.Fatalf("ConfigFromMap failed: %v", err)
	}

	if cfg.ROI.MinZ != -1.5 || cfg.ROI.MaxZ != 0.5 {
		t.Errorf("expected overridden z bounds, got %+v", cfg.ROI)
	}
	if cfg.ROI.MinX != -10 {
		t.Errorf("expected untouched x bound to keep its default, got %v", cfg.ROI.MinX)
	}
	if cfg.Frames.LidarFrame != "velodyne" || cfg.Frames.CameraFrame != "cam_link" {
		t.Errorf("expected overridden frames, got %+v", cfg.Frames)
	}
	if cfg.TransformTimeout != 500*time.Millisecond {
		t.Errorf("expected 500ms timeout, got %v", cfg.TransformTimeout)
	}
}

func TestConfigFromMap_DecodesEverySnakeCaseKey(t *testing.T) {
	// Every key of the configuration surface must decode from its
	// snake_case form; none may silently fall back to a default.
	cfg, err := ConfigFromMap(map[string]interface{}{
		"roi": map[string]interface{}{
			"min_x": -3.0, "max_x": 3.0,
			"min_y": -4.0, "max_y": 4.0,
			"min_z": -0.5, "max_z": 0.5,
		},
		"frames": map[string]interface{}{
			"lidar_frame":  "os1",
			"camera_frame": "left_cam",
		},
		"transform_timeout": "2s",
	})
	if err != nil {
		t.Fatalf("ConfigFromMap failed: %v", err)
	}

	want := Config{
		ROI:              ROIConfig{MinX: -3, MaxX: 3, MinY: -4, MaxY: 4, MinZ: -0.5, MaxZ: 0.5},
		Frames:           FrameConfig{LidarFrame: "os1", CameraFrame: "left_cam"},
		TransformTimeout: 2 * time.Second,
	}
	if cfg != want {
		t.Errorf("override lost:\n got %+v\nwant %+v", cfg, want)
	}
}

func TestConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fusion.json")
	content := `{
		"roi": {"min_z": -1.0, "max_z": 1.0},
		"frames": {"lidar_frame": "velodyne"},
		"transform_timeout": "250ms"
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := ConfigFromFile(path)
	if err != nil {
		t.Fatalf("ConfigFromFile failed: %v", err)
	}
	if cfg.ROI.MinZ != -1 || cfg.ROI.MaxZ != 1 {
		t.Errorf("expected z bounds from file, got %+v", cfg.ROI)
	}
	if cfg.Frames.LidarFrame != "velodyne" {
		t.Errorf("expected lidar frame from file, got %q", cfg.Frames.LidarFrame)
	}
	if cfg.Frames.CameraFrame != "camera_frame" {
		t.Errorf("expected default camera frame kept, got %q", cfg.Frames.CameraFrame)
	}
	if cfg.TransformTimeout != 250*time.Millisecond {
		t.Errorf("expected 250ms timeout, got %v", cfg.TransformTimeout)
	}
}

func TestConfigFromFile_Missing(t *testing.T) {
	if _, err := ConfigFromFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestConfigValidate_InvertedBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ROI.MinY = 5
	cfg.ROI.MaxY = -5

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidROI) {
		t.Errorf("expected ErrInvalidROI, got %v", err)
	}
}

func TestConfigValidate_EmptyFrame(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Frames.CameraFrame = ""

	if err := cfg.Validate(); !errors.Is(err, ErrMissingFrame) {
		t.Errorf("expected ErrMissingFrame, got %v", err)
	}
}
