// Package camera provides the fixed perspective camera for 3D rendering.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera looks from Eye at Target. Its matrices are computed once at
// construction and never change for the session.
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3

	FovY   float32 // Vertical field of view, radians
	Aspect float32 // Width / height; fixed regardless of the window size
	Near   float32
	Far    float32

	view       mgl32.Mat4
	projection mgl32.Mat4
	viewProj   mgl32.Mat4
}

// New creates a camera and caches its view and projection matrices.
func New(eye, target, up mgl32.Vec3, fovYDeg, aspect, near, far float32) *Camera {
	c := &Camera{
		Eye:    eye,
		Target: target,
		Up:     up,
		FovY:   mgl32.DegToRad(fovYDeg),
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
	c.view = mgl32.LookAtV(c.Eye, c.Target, c.Up)
	c.projection = mgl32.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
	c.viewProj = c.projection.Mul4(c.view)
	return c
}

// Default returns the stage camera: raised above and in front of the
// objects, looking slightly down at chest height.
func Default() *Camera {
	return New(
		mgl32.Vec3{0, 100, 180},
		mgl32.Vec3{0, 80, 0},
		mgl32.Vec3{0, 1, 0},
		60, 16.0/9.0, 0.1, 1000,
	)
}

// View returns the view matrix.
func (c *Camera) View() mgl32.Mat4 {
	return c.view
}

// Projection returns the projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return c.projection
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.viewProj
}

// MVP returns projection * view * model.
func (c *Camera) MVP(model mgl32.Mat4) mgl32.Mat4 {
	return c.viewProj.Mul4(model)
}
