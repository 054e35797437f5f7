package fusion

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Config holds all configuration for the fusion pipeline.
type Config struct {
	ROI              ROIConfig     `json:"roi"`
	Frames           FrameConfig   `json:"frames"`
	TransformTimeout time.Duration `json:"transform_timeout"`
}

// ROIConfig bounds the region of interest applied to the raw point cloud,
// in the lidar frame. Units are meters.
type ROIConfig struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
	MinZ float64 `json:"min_z"`
	MaxZ float64 `json:"max_z"`
}

// FrameConfig names the two reference frames the pipeline converts between.
type FrameConfig struct {
	LidarFrame  string `json:"lidar_frame"`
	CameraFrame string `json:"camera_frame"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ROI: ROIConfig{
			MinX: -10.0,
			MaxX: 10.0,
			MinY: -10.0,
			MaxY: 10.0,
			MinZ: -2.0,
			MaxZ: 2.0,
		},
		Frames: FrameConfig{
			LidarFrame:  "lidar_frame",
			CameraFrame: "camera_frame",
		},
		TransformTimeout: time.Second,
	}
}

// ConfigFromMap decodes a generic attribute map over the defaults, so hosts
// can pass configuration through DoCommand-style map payloads. Durations may
// be given as strings ("500ms").
func ConfigFromMap(attrs map[string]interface{}) (Config, error) {
	cfg := DefaultConfig()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		// The structs are tagged for JSON; decode the same snake_case keys.
		TagName: "json",
		Result:  &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(attrs); err != nil {
		return Config{}, fmt.Errorf("decode fusion config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConfigFromFile reads a JSON attribute file and decodes it over the
// defaults.
func ConfigFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var attrs map[string]interface{}
	if err := json.Unmarshal(data, &attrs); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return ConfigFromMap(attrs)
}

// Validate checks bounds ordering and frame names.
func (c Config) Validate() error {
	if c.ROI.MinX > c.ROI.MaxX || c.ROI.MinY > c.ROI.MaxY || c.ROI.MinZ > c.ROI.MaxZ {
		return fmt.Errorf("%w: min exceeds max", ErrInvalidROI)
	}
	if c.Frames.LidarFrame == "" || c.Frames.CameraFrame == "" {
		return ErrMissingFrame
	}
	if c.TransformTimeout <= 0 {
		return fmt.Errorf("transform timeout must be positive, got %v", c.TransformTimeout)
	}
	return nil
}
