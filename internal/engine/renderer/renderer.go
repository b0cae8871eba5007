// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/spotlight-stage/internal/engine/gfx"
	"github.com/Faultbox/spotlight-stage/internal/engine/lighting"
	"github.com/Faultbox/spotlight-stage/internal/engine/shader"
	"github.com/Faultbox/spotlight-stage/internal/engine/shader/shaders"
	"github.com/Faultbox/spotlight-stage/internal/logger"
	"github.com/Faultbox/spotlight-stage/internal/scene"
)

// textureUnit is the sampler unit every object texture is bound to.
const textureUnit = 0

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [4]float32
}

// Renderer draws the stage with the spotlight program.
type Renderer struct {
	config  Config
	program *shader.Program
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, gfx.InitError("loading OpenGL functions", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	glsl := gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
		zap.String("glsl", glsl),
	)

	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	program, err := shader.NewProgram(shaders.SpotlightVertexShader, shaders.SpotlightFragmentShader, shader.SpotlightInterface)
	if err != nil {
		return nil, fmt.Errorf("spotlight program: %w", err)
	}

	return &Renderer{config: cfg, program: program}, nil
}

// ConfigureLights uploads the uniforms that stay fixed for the session.
// Spot directions start at the rig's original directions.
func (r *Renderer) ConfigureLights(rig *lighting.Rig, baseColor mgl32.Vec3, cutoffCosine float32) {
	pos := rig.Positions()
	diffuse := rig.DiffuseColors()
	ambient := rig.AmbientColors()
	dirs := rig.DirectionsAt(0)

	r.program.Use()
	r.program.SetInt(shader.UniformTexture, textureUnit)
	r.program.SetVec3(shader.UniformObjColor, baseColor)
	r.program.SetFloat(shader.UniformCutoffCosine, cutoffCosine)
	r.program.SetVec3Array(shader.UniformLightPos, pos[:])
	r.program.SetVec3Array(shader.UniformDiffuseColor, diffuse[:])
	r.program.SetVec3Array(shader.UniformAmbientColor, ambient[:])
	r.program.SetVec3Array(shader.UniformSpotDir, dirs[:])

	logger.Debug("light uniforms uploaded",
		zap.Strings("lights", rig.Names[:]),
		zap.Float32("cutoffCosine", cutoffCosine),
	)
}

// Clear starts a new frame.
func (r *Renderer) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.program.Use()
}

// Draw draws one object with the given MVP matrix.
func (r *Renderer) Draw(obj scene.Object, mvp mgl32.Mat4) {
	r.program.SetMat4(shader.UniformMVP, mvp)
	r.program.SetMat4(shader.UniformModel, obj.Model)
	obj.Texture.Bind(textureUnit)
	obj.Mesh.Bind()
	gl.DrawArrays(gl.TRIANGLES, 0, obj.Mesh.VertexCount())
}

// SetSpotDirections uploads the current spotlight directions.
func (r *Renderer) SetSpotDirections(dirs [lighting.NumLights]mgl32.Vec3) {
	r.program.SetVec3Array(shader.UniformSpotDir, dirs[:])
}

// Resize handles window resize. Only the viewport follows the window; the
// projection keeps its fixed aspect ratio.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// ReadPixels reads the last presented frame as bottom-up, tightly packed
// RGB. Captures run before the next frame is drawn, so the front buffer
// holds what is on screen.
func (r *Renderer) ReadPixels(width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid framebuffer size %dx%d", width, height)
	}
	pixels := make([]byte, width*height*3)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadBuffer(gl.FRONT)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))
	gl.ReadBuffer(gl.BACK)
	if code := gl.GetError(); code != gl.NO_ERROR {
		return nil, fmt.Errorf("glReadPixels: error 0x%x", code)
	}
	return pixels, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.program != nil {
		r.program.Delete()
	}
}
