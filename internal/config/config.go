// Package config handles renderer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// NumLights is the size of the spotlight rig the shader is built for.
const NumLights = 3

// Config holds all renderer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Scene   SceneConfig   `yaml:"scene"`
	Assets  AssetsConfig  `yaml:"assets"`
	Capture CaptureConfig `yaml:"capture"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
}

// CameraConfig describes the fixed session camera.
type CameraConfig struct {
	Eye     [3]float32 `yaml:"eye"`
	Target  [3]float32 `yaml:"target"`
	Up      [3]float32 `yaml:"up"`
	FovYDeg float32    `yaml:"fov_y_deg"`
	Aspect  float32    `yaml:"aspect"` // Fixed; window resizes do not change it
	Near    float32    `yaml:"near"`
	Far     float32    `yaml:"far"`
}

// LightConfig describes one spotlight of the rig.
type LightConfig struct {
	Name      string     `yaml:"name"`
	Position  [3]float32 `yaml:"position"`
	Direction [3]float32 `yaml:"direction"`
	Diffuse   [3]float32 `yaml:"diffuse"`
	Ambient   [3]float32 `yaml:"ambient"`
}

// SceneConfig holds camera, lighting and animation settings.
type SceneConfig struct {
	Camera     CameraConfig  `yaml:"camera"`
	ThetaStep  float32       `yaml:"theta_step"` // Radians added to the spotlight angle per frame
	CutoffDeg  float32       `yaml:"cutoff_deg"` // Spotlight cone half-angle
	BaseColor  [3]float32    `yaml:"base_color"`
	ClearColor [4]float32    `yaml:"clear_color"`
	Lights     []LightConfig `yaml:"lights"`
}

// ObjectConfig names a mesh and the texture drawn on it.
type ObjectConfig struct {
	Name    string `yaml:"name"`
	Mesh    string `yaml:"mesh"`
	Texture string `yaml:"texture"`
}

// AssetsConfig holds asset file locations.
type AssetsConfig struct {
	Root    string         `yaml:"root"`    // Directory the object paths are relative to
	Objects []ObjectConfig `yaml:"objects"` // Drawn in this order every frame
}

// CaptureConfig holds screenshot settings.
type CaptureConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config matching the stock three-object, three-spotlight scene.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Amy",
			Width:  1024,
			Height: 512,
			VSync:  true,
		},
		Scene: SceneConfig{
			Camera: CameraConfig{
				Eye:     [3]float32{0, 100, 180},
				Target:  [3]float32{0, 80, 0},
				Up:      [3]float32{0, 1, 0},
				FovYDeg: 60,
				Aspect:  16.0 / 9.0,
				Near:    0.1,
				Far:     1000,
			},
			ThetaStep:  0.025,
			CutoffDeg:  30,
			BaseColor:  [3]float32{1, 1, 1},
			ClearColor: [4]float32{0.3, 0.4, 0.5, 1},
			Lights: []LightConfig{
				{
					Name:      "red",
					Position:  [3]float32{0, 200, 0},
					Direction: [3]float32{50, -200, -50},
					Diffuse:   [3]float32{1, 0, 0},
					Ambient:   [3]float32{0.2, 0, 0},
				},
				{
					Name:      "green",
					Position:  [3]float32{0, 200, 0},
					Direction: [3]float32{-50, -200, -50},
					Diffuse:   [3]float32{0, 1, 0},
					Ambient:   [3]float32{0, 0.2, 0},
				},
				{
					Name:      "blue",
					Position:  [3]float32{0, 200, 0},
					Direction: [3]float32{0, -200, 50},
					Diffuse:   [3]float32{0, 0, 1},
					Ambient:   [3]float32{0, 0, 0.2},
				},
			},
		},
		Assets: AssetsConfig{
			Root: ".",
			Objects: []ObjectConfig{
				{Name: "amy", Mesh: "asset/Amy.obj", Texture: "asset/Amy.png"},
				{Name: "floor", Mesh: "asset/floor.obj", Texture: "asset/floor.jpg"},
				{Name: "bucket", Mesh: "asset/bucket.obj", Texture: "asset/bucket.jpg"},
			},
		},
		Capture: CaptureConfig{
			Dir:    ".",
			Prefix: "screenshot-ss",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the renderer cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if len(c.Scene.Lights) != NumLights {
		errs = append(errs, fmt.Errorf("scene needs exactly %d lights, got %d", NumLights, len(c.Scene.Lights)))
	}
	if c.Scene.CutoffDeg <= 0 || c.Scene.CutoffDeg >= 90 {
		errs = append(errs, fmt.Errorf("cutoff_deg must be in (0, 90), got %v", c.Scene.CutoffDeg))
	}
	cam := c.Scene.Camera
	if cam.Near <= 0 || cam.Far <= cam.Near {
		errs = append(errs, fmt.Errorf("camera clip planes invalid: near=%v far=%v", cam.Near, cam.Far))
	}
	if cam.Aspect <= 0 {
		errs = append(errs, fmt.Errorf("camera aspect must be positive, got %v", cam.Aspect))
	}
	if len(c.Assets.Objects) == 0 {
		errs = append(errs, errors.New("no objects configured"))
	}
	for i, obj := range c.Assets.Objects {
		if obj.Mesh == "" || obj.Texture == "" {
			errs = append(errs, fmt.Errorf("object %d (%q) needs both mesh and texture paths", i, obj.Name))
		}
	}
	if c.Capture.Prefix == "" {
		errs = append(errs, errors.New("capture prefix must not be empty"))
	}

	return errors.Join(errs...)
}
