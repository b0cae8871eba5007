// Package main renders a still of the spotlight stage without a GPU.
//
// The scene driver runs for the requested number of frames against the
// software rasterizer, and the last frame is written to disk.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/spotlight-stage/internal/assets"
	"github.com/Faultbox/spotlight-stage/internal/config"
	"github.com/Faultbox/spotlight-stage/internal/engine/capture"
	"github.com/Faultbox/spotlight-stage/internal/engine/lighting"
	"github.com/Faultbox/spotlight-stage/internal/logger"
	"github.com/Faultbox/spotlight-stage/internal/raster"
	"github.com/Faultbox/spotlight-stage/internal/scene"
)

var (
	flagFrames      = flag.Int("frames", 1, "Frames to run before writing the still (at least 1)")
	flagOut         = flag.String("o", "stillshot.png", "Output file (.ppm, .png or .webp)")
	flagSupersample = flag.Int("supersample", 2, "Render at this multiple of the output size")
	flagCapture     = flag.Bool("capture", false, "Also write a numbered PPM screenshot to the capture dir")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("stillshot failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if *flagFrames < 1 {
		return fmt.Errorf("-frames must be at least 1, got %d", *flagFrames)
	}
	if _, err := capture.FormatFromPath(*flagOut); err != nil {
		return err
	}

	manager := assets.NewManager(cfg.Assets.Root)
	stage, err := scene.LoadAssets(manager, cfg.Assets.Objects)
	if err != nil {
		return fmt.Errorf("failed to load assets: %w", err)
	}
	manager.Release()

	rig, err := scene.NewRig(cfg.Scene.Lights)
	if err != nil {
		return err
	}

	width, height := cfg.Window.Width, cfg.Window.Height
	backend, err := raster.NewBackend(rig, raster.Options{
		Width:        width,
		Height:       height,
		Supersample:  *flagSupersample,
		ClearColor:   cfg.Scene.ClearColor,
		BaseColor:    mgl32.Vec3(cfg.Scene.BaseColor),
		CutoffCosine: lighting.CutoffFromDegrees(cfg.Scene.CutoffDeg),
	})
	if err != nil {
		return err
	}

	objects := make([]scene.Object, 0, len(stage))
	for _, a := range stage {
		objects = append(objects, scene.Object{
			Name:    a.Name,
			Model:   mgl32.Ident4(),
			Mesh:    raster.NewMesh(a.Mesh),
			Texture: raster.NewTexture(a.Image),
		})
	}

	driver, err := scene.NewDriver(scene.Options{
		Camera:    scene.NewCamera(cfg.Scene.Camera),
		Rig:       rig,
		ThetaStep: cfg.Scene.ThetaStep,
		Objects:   objects,
		Backend:   backend,
	})
	if err != nil {
		return err
	}

	for i := 0; i < *flagFrames; i++ {
		driver.Frame(scene.Input{FramebufferWidth: width, FramebufferHeight: height})
	}

	logger.Info("rendering still",
		zap.Int("frames", *flagFrames),
		zap.Float32("theta", driver.Theta()),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("supersample", *flagSupersample),
	)

	if err := capture.WriteFile(*flagOut, backend.Render()); err != nil {
		return err
	}
	logger.Info("still written", zap.String("file", *flagOut))

	if *flagCapture {
		session := capture.NewSession(cfg.Capture.Dir, cfg.Capture.Prefix, backend)
		if _, err := session.Capture(width, height); err != nil {
			return err
		}
	}
	return nil
}
