// Package scene drives the per-frame update of the spotlight stage:
// input handling, draw submission and light rotation.
package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/spotlight-stage/internal/engine/camera"
	"github.com/Faultbox/spotlight-stage/internal/engine/lighting"
	"github.com/Faultbox/spotlight-stage/internal/logger"
)

// State is the lifecycle state of a Driver.
type State int

// Driver states. Closing is terminal.
const (
	StateRunning State = iota
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateClosing:
		return "closing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Input is the per-frame input snapshot.
type Input struct {
	CloseRequested    bool
	CaptureRequested  bool
	FramebufferWidth  int
	FramebufferHeight int
}

// MeshHandle is a mesh resident on the GPU.
type MeshHandle interface {
	Bind()
	VertexCount() int32
}

// TextureHandle is a texture resident on the GPU.
type TextureHandle interface {
	Bind(unit uint32)
}

// Object is one entry of the fixed draw list.
type Object struct {
	Name    string
	Model   mgl32.Mat4
	Mesh    MeshHandle
	Texture TextureHandle
}

// Backend receives the draw calls of a frame.
type Backend interface {
	Clear()
	Draw(obj Object, mvp mgl32.Mat4)
	SetSpotDirections(dirs [lighting.NumLights]mgl32.Vec3)
}

// Capturer saves the current framebuffer and returns the written path.
type Capturer interface {
	Capture(width, height int) (string, error)
}

// Options configures a Driver.
type Options struct {
	Camera    *camera.Camera
	Rig       *lighting.Rig
	ThetaStep float32
	Objects   []Object
	Backend   Backend
	Capturer  Capturer // Optional
}

// Driver owns the frame state of a session.
type Driver struct {
	camera   *camera.Camera
	rig      *lighting.Rig
	step     float32
	objects  []Object
	backend  Backend
	capturer Capturer
	log      *zap.Logger

	state  State
	theta  float32
	frames uint64
}

// NewDriver creates a running driver with theta at zero.
func NewDriver(opts Options) (*Driver, error) {
	if opts.Backend == nil {
		return nil, errors.New("scene: backend is required")
	}
	if opts.Camera == nil {
		opts.Camera = camera.Default()
	}
	if opts.Rig == nil {
		opts.Rig = lighting.DefaultRig()
	}

	objects := make([]Object, len(opts.Objects))
	copy(objects, opts.Objects)

	return &Driver{
		camera:   opts.Camera,
		rig:      opts.Rig,
		step:     opts.ThetaStep,
		objects:  objects,
		backend:  opts.Backend,
		capturer: opts.Capturer,
		log:      logger.Named("scene"),
		state:    StateRunning,
	}, nil
}

// Frame runs one frame and returns the resulting state. A close request
// takes effect after the frame completes. Frames after closing are no-ops.
func (d *Driver) Frame(in Input) State {
	if d.state == StateClosing {
		return d.state
	}

	if in.CloseRequested {
		d.state = StateClosing
		d.log.Info("close requested", zap.Uint64("frames", d.frames))
	}
	if in.CaptureRequested {
		d.capture(in.FramebufferWidth, in.FramebufferHeight)
	}

	d.backend.Clear()
	vp := d.camera.ViewProjection()
	for _, obj := range d.objects {
		d.backend.Draw(obj, vp.Mul4(obj.Model))
	}

	d.backend.SetSpotDirections(d.rig.DirectionsAt(d.theta))
	d.theta += d.step
	d.frames++

	return d.state
}

// capture never changes driver state; failures are only logged.
func (d *Driver) capture(width, height int) {
	if d.capturer == nil {
		d.log.Warn("capture requested but no capturer configured")
		return
	}
	name, err := d.capturer.Capture(width, height)
	if err != nil {
		d.log.Error("capture failed", zap.Error(err))
		return
	}
	d.log.Info("captured window", zap.String("file", name))
}

// State returns the current state.
func (d *Driver) State() State {
	return d.state
}

// Theta returns the rotation angle the next frame will upload.
func (d *Driver) Theta() float32 {
	return d.theta
}

// Frames returns the number of completed frames.
func (d *Driver) Frames() uint64 {
	return d.frames
}

// Objects returns a copy of the draw list.
func (d *Driver) Objects() []Object {
	out := make([]Object, len(d.objects))
	copy(out, d.objects)
	return out
}
