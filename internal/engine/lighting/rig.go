package lighting

import "github.com/go-gl/mathgl/mgl32"

// Rig is the fixed set of spotlights for a session. Light directions are
// stored as originally configured and never modified; the animated
// directions are derived from them on demand.
type Rig struct {
	Names  [NumLights]string
	Lights [NumLights]Spotlight
}

// DefaultRig returns the red, green and blue spotlights hanging 200 units
// above the origin, each tilted away from the vertical.
func DefaultRig() *Rig {
	return &Rig{
		Names: [NumLights]string{"red", "green", "blue"},
		Lights: [NumLights]Spotlight{
			{
				Position:  mgl32.Vec3{0, 200, 0},
				Direction: mgl32.Vec3{50, -200, -50},
				Diffuse:   mgl32.Vec3{1, 0, 0},
				Ambient:   mgl32.Vec3{0.2, 0, 0},
			},
			{
				Position:  mgl32.Vec3{0, 200, 0},
				Direction: mgl32.Vec3{-50, -200, -50},
				Diffuse:   mgl32.Vec3{0, 1, 0},
				Ambient:   mgl32.Vec3{0, 0.2, 0},
			},
			{
				Position:  mgl32.Vec3{0, 200, 0},
				Direction: mgl32.Vec3{0, -200, 50},
				Diffuse:   mgl32.Vec3{0, 0, 1},
				Ambient:   mgl32.Vec3{0, 0, 0.2},
			},
		},
	}
}

// RotationY returns the rotation by theta radians about the vertical axis.
func RotationY(theta float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(theta)
}

// DirectionsAt returns every light's direction rotated by the absolute angle
// theta. Rotation always starts from the original direction, so calling this
// with the same theta yields the same result no matter how many frames ran.
func (r *Rig) DirectionsAt(theta float32) [NumLights]mgl32.Vec3 {
	rot := RotationY(theta)
	var dirs [NumLights]mgl32.Vec3
	for i, l := range r.Lights {
		dirs[i] = rot.Mul4x1(l.Direction.Vec4(1)).Vec3()
	}
	return dirs
}

// At returns a copy of the lights with directions rotated by theta.
func (r *Rig) At(theta float32) []Spotlight {
	dirs := r.DirectionsAt(theta)
	lights := make([]Spotlight, NumLights)
	for i, l := range r.Lights {
		l.Direction = dirs[i]
		lights[i] = l
	}
	return lights
}

// Positions returns the light positions in rig order.
func (r *Rig) Positions() [NumLights]mgl32.Vec3 {
	var out [NumLights]mgl32.Vec3
	for i, l := range r.Lights {
		out[i] = l.Position
	}
	return out
}

// DiffuseColors returns the diffuse colors in rig order.
func (r *Rig) DiffuseColors() [NumLights]mgl32.Vec3 {
	var out [NumLights]mgl32.Vec3
	for i, l := range r.Lights {
		out[i] = l.Diffuse
	}
	return out
}

// AmbientColors returns the ambient colors in rig order.
func (r *Rig) AmbientColors() [NumLights]mgl32.Vec3 {
	var out [NumLights]mgl32.Vec3
	for i, l := range r.Lights {
		out[i] = l.Ambient
	}
	return out
}
