package raster

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/Faultbox/spotlight-stage/internal/engine/lighting"
	"github.com/Faultbox/spotlight-stage/internal/engine/texture"
	"github.com/Faultbox/spotlight-stage/internal/logger"
	"github.com/Faultbox/spotlight-stage/internal/scene"
	"github.com/Faultbox/spotlight-stage/pkg/formats"
)

// Mesh is a CPU-resident mesh usable as a scene.MeshHandle.
type Mesh struct {
	data *formats.Mesh
}

// NewMesh wraps mesh data for drawing.
func NewMesh(m *formats.Mesh) *Mesh {
	return &Mesh{data: m}
}

// Bind is a no-op; it exists to satisfy scene.MeshHandle.
func (m *Mesh) Bind() {}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int32 {
	return int32(m.data.VertexCount())
}

// Texture is a CPU-resident texture usable as a scene.TextureHandle.
type Texture struct {
	img *texture.Image
}

// NewTexture wraps an image for sampling.
func NewTexture(img *texture.Image) *Texture {
	return &Texture{img: img}
}

// Bind is a no-op; it exists to satisfy scene.TextureHandle.
func (t *Texture) Bind(unit uint32) {}

// Options configures a Backend.
type Options struct {
	Width        int
	Height       int
	Supersample  int // Render at this multiple of the output size, then reduce
	ClearColor   [4]float32
	BaseColor    mgl32.Vec3
	CutoffCosine float32
}

type drawCmd struct {
	obj    scene.Object
	mvp    mgl32.Mat4
	lights [lighting.NumLights]lighting.Spotlight
}

// Backend implements scene.Backend on the CPU. Draw calls are recorded and
// rasterized on demand by Render, so a driver can run many frames cheaply.
// Each draw uses the spot directions in effect when it was issued, as GL
// uniforms would.
type Backend struct {
	opts   Options
	lights [lighting.NumLights]lighting.Spotlight
	frame  []drawCmd
	log    *zap.Logger
}

// NewBackend creates a backend lit by rig, starting from its original
// directions.
func NewBackend(rig *lighting.Rig, opts Options) (*Backend, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("raster: invalid size %dx%d", opts.Width, opts.Height)
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	return &Backend{
		opts:   opts,
		lights: rig.Lights,
		log:    logger.Named("raster"),
	}, nil
}

// Clear starts a new frame, dropping the previous draw list.
func (b *Backend) Clear() {
	b.frame = b.frame[:0]
}

// Draw records an object. Objects not created by NewMesh and NewTexture
// are skipped.
func (b *Backend) Draw(obj scene.Object, mvp mgl32.Mat4) {
	if _, ok := obj.Mesh.(*Mesh); !ok {
		b.log.Warn("skipping object without a CPU mesh", zap.String("name", obj.Name))
		return
	}
	if _, ok := obj.Texture.(*Texture); !ok {
		b.log.Warn("skipping object without a CPU texture", zap.String("name", obj.Name))
		return
	}
	b.frame = append(b.frame, drawCmd{obj: obj, mvp: mvp, lights: b.lights})
}

// SetSpotDirections updates the directions used by subsequent draws.
func (b *Backend) SetSpotDirections(dirs [lighting.NumLights]mgl32.Vec3) {
	for i := range b.lights {
		b.lights[i].Direction = dirs[i]
	}
}

// Render rasterizes the most recent frame at the output size.
func (b *Backend) Render() *image.NRGBA {
	ss := b.opts.Supersample
	fb := NewFrameBuffer(b.opts.Width*ss, b.opts.Height*ss)
	fb.Clear(b.opts.ClearColor)

	var scratch []vertex
	for _, cmd := range b.frame {
		scratch = fb.drawMesh(cmd, b.opts, scratch)
	}

	img := fb.Image()
	if ss == 1 {
		return img
	}

	out := image.NewNRGBA(image.Rect(0, 0, b.opts.Width, b.opts.Height))
	draw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), draw.Src, nil)
	return out
}

// ReadPixels renders the most recent frame and returns it bottom-up as
// tightly packed RGB, like glReadPixels. The size must match the output.
func (b *Backend) ReadPixels(width, height int) ([]byte, error) {
	if width != b.opts.Width || height != b.opts.Height {
		return nil, fmt.Errorf("raster: read %dx%d from a %dx%d target", width, height, b.opts.Width, b.opts.Height)
	}
	img := b.Render()
	out := make([]byte, width*height*3)
	for y := 0; y < height; y++ {
		src := img.Pix[y*img.Stride:]
		dst := out[(height-1-y)*width*3:]
		for x := 0; x < width; x++ {
			copy(dst[x*3:x*3+3], src[x*4:x*4+3])
		}
	}
	return out, nil
}

func (fb *FrameBuffer) drawMesh(cmd drawCmd, opts Options, scratch []vertex) []vertex {
	m := cmd.obj.Mesh.(*Mesh).data
	sh := &shading{
		tex:          cmd.obj.Texture.(*Texture).img,
		base:         opts.BaseColor,
		lights:       cmd.lights[:],
		cutoffCosine: opts.CutoffCosine,
	}
	model := cmd.obj.Model
	normalMat := model.Mat3()

	n := m.VertexCount()
	for i := 0; i+2 < n; i += 3 {
		var tri [3]vertex
		for k := 0; k < 3; k++ {
			j := i + k
			pos := mgl32.Vec3{m.Positions[j*3], m.Positions[j*3+1], m.Positions[j*3+2]}
			tri[k] = vertex{
				clip:   cmd.mvp.Mul4x1(pos.Vec4(1)),
				world:  model.Mul4x1(pos.Vec4(1)).Vec3(),
				normal: normalMat.Mul3x1(mgl32.Vec3{m.Normals[j*3], m.Normals[j*3+1], m.Normals[j*3+2]}),
				uv:     mgl32.Vec2{m.TexCoords[j*2], m.TexCoords[j*2+1]},
			}
		}
		scratch = fb.drawTriangle(tri, sh, scratch)
	}
	return scratch
}
