// Package app wires the window, renderer and scene driver into the
// interactive spotlight viewer.
package app

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/spotlight-stage/internal/assets"
	"github.com/Faultbox/spotlight-stage/internal/config"
	"github.com/Faultbox/spotlight-stage/internal/engine/capture"
	"github.com/Faultbox/spotlight-stage/internal/engine/input"
	"github.com/Faultbox/spotlight-stage/internal/engine/lighting"
	"github.com/Faultbox/spotlight-stage/internal/engine/renderer"
	"github.com/Faultbox/spotlight-stage/internal/engine/window"
	"github.com/Faultbox/spotlight-stage/internal/logger"
	"github.com/Faultbox/spotlight-stage/internal/scene"
)

// App is the interactive viewer.
type App struct {
	config   *config.Config
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	driver   *scene.Driver

	meshes   []*renderer.Mesh
	textures []*renderer.Texture
}

// New creates the window and GL context, loads every object and prepares
// the driver. Any failure releases what was created so far.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	a := &App{config: cfg}
	if err := a.init(); err != nil {
		a.Close()
		return nil, err
	}

	logger.Info("viewer initialized successfully")
	return a, nil
}

func (a *App) init() error {
	cfg := a.config

	// Create window (this also creates OpenGL context)
	var err error
	a.window, err = window.New(window.Config{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	fbWidth, fbHeight := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      fbWidth,
		Height:     fbHeight,
		ClearColor: cfg.Scene.ClearColor,
	})
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	manager := assets.NewManager(cfg.Assets.Root)
	defer manager.Release()

	stage, err := scene.LoadAssets(manager, cfg.Assets.Objects)
	if err != nil {
		return fmt.Errorf("failed to load assets: %w", err)
	}

	objects := make([]scene.Object, 0, len(stage))
	for _, asset := range stage {
		mesh, err := renderer.UploadMesh(asset.Mesh)
		if err != nil {
			return fmt.Errorf("object %q: %w", asset.Name, err)
		}
		a.meshes = append(a.meshes, mesh)

		tex, err := renderer.UploadTexture(asset.Image)
		if err != nil {
			return fmt.Errorf("object %q: %w", asset.Name, err)
		}
		a.textures = append(a.textures, tex)

		objects = append(objects, scene.Object{
			Name:    asset.Name,
			Model:   mgl32.Ident4(),
			Mesh:    mesh,
			Texture: tex,
		})
	}

	rig, err := scene.NewRig(cfg.Scene.Lights)
	if err != nil {
		return err
	}
	a.renderer.ConfigureLights(rig, mgl32.Vec3(cfg.Scene.BaseColor), lighting.CutoffFromDegrees(cfg.Scene.CutoffDeg))

	a.driver, err = scene.NewDriver(scene.Options{
		Camera:    scene.NewCamera(cfg.Scene.Camera),
		Rig:       rig,
		ThetaStep: cfg.Scene.ThetaStep,
		Objects:   objects,
		Backend:   a.renderer,
		Capturer:  capture.NewSession(cfg.Capture.Dir, cfg.Capture.Prefix, a.renderer),
	})
	if err != nil {
		return err
	}

	a.input = input.New()
	return nil
}

// Run runs the frame loop until the driver reaches the closing state.
func (a *App) Run() error {
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting frame loop")

	for {
		quit := a.input.Update()

		if _, _, ok := a.input.Resized(); ok {
			a.renderer.Resize(a.window.DrawableSize())
		}

		fbWidth, fbHeight := a.window.DrawableSize()
		state := a.driver.Frame(a.input.Frame(quit, fbWidth, fbHeight))

		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float32("theta", a.driver.Theta()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if state == scene.StateClosing {
			break
		}
	}

	logger.Info("frame loop finished", zap.Uint64("frames", a.driver.Frames()))
	return nil
}

// Close releases GPU resources, then the renderer and window.
func (a *App) Close() {
	logger.Info("closing viewer")

	for _, m := range a.meshes {
		m.Delete()
	}
	for _, t := range a.textures {
		t.Delete()
	}
	a.meshes, a.textures = nil, nil

	if a.renderer != nil {
		a.renderer.Close()
		a.renderer = nil
	}
	if a.window != nil {
		a.window.Close()
		a.window = nil
	}
}
