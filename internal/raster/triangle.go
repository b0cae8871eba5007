package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/spotlight-stage/internal/engine/lighting"
	"github.com/Faultbox/spotlight-stage/internal/engine/texture"
)

// vertex is a clip-space position with the varyings of spotlight.vert.
type vertex struct {
	clip   mgl32.Vec4
	world  mgl32.Vec3
	normal mgl32.Vec3
	uv     mgl32.Vec2
}

func lerpVertex(a, b vertex, t float32) vertex {
	return vertex{
		clip:   a.clip.Add(b.clip.Sub(a.clip).Mul(t)),
		world:  a.world.Add(b.world.Sub(a.world).Mul(t)),
		normal: a.normal.Add(b.normal.Sub(a.normal).Mul(t)),
		uv:     a.uv.Add(b.uv.Sub(a.uv).Mul(t)),
	}
}

// clipNear clips a triangle against the near plane (z >= -w) and returns
// the resulting convex polygon, which has 0, 3 or 4 vertices.
func clipNear(tri [3]vertex, out []vertex) []vertex {
	out = out[:0]
	dist := func(v vertex) float32 { return v.clip.Z() + v.clip.W() }

	for i := 0; i < 3; i++ {
		a, b := tri[i], tri[(i+1)%3]
		da, db := dist(a), dist(b)
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			out = append(out, lerpVertex(a, b, da/(da-db)))
		}
	}
	return out
}

// screenVertex is a vertex after perspective divide and viewport mapping.
// Varyings are pre-divided by w for perspective-correct interpolation.
type screenVertex struct {
	x, y, z float32
	invW    float32
	world   mgl32.Vec3
	normal  mgl32.Vec3
	uv      mgl32.Vec2
}

// shading is everything a fragment needs besides its varyings.
type shading struct {
	tex          *texture.Image
	base         mgl32.Vec3
	lights       []lighting.Spotlight
	cutoffCosine float32
}

func (fb *FrameBuffer) toScreen(v vertex) screenVertex {
	invW := 1 / v.clip.W()
	ndc := v.clip.Vec3().Mul(invW)
	return screenVertex{
		x:      (ndc.X() + 1) * 0.5 * float32(fb.Width),
		y:      (1 - ndc.Y()) * 0.5 * float32(fb.Height),
		z:      ndc.Z(),
		invW:   invW,
		world:  v.world.Mul(invW),
		normal: v.normal.Mul(invW),
		uv:     v.uv.Mul(invW),
	}
}

// drawTriangle clips, culls and rasterizes one triangle.
func (fb *FrameBuffer) drawTriangle(tri [3]vertex, sh *shading, scratch []vertex) []vertex {
	poly := clipNear(tri, scratch)
	if len(poly) < 3 {
		return poly
	}

	var sv [4]screenVertex
	for i, v := range poly {
		sv[i] = fb.toScreen(v)
	}
	for i := 1; i+1 < len(poly); i++ {
		fb.fill(sv[0], sv[i], sv[i+1], sh)
	}
	return poly
}

// fill rasterizes a screen-space triangle with depth test, back-face
// culling and per-pixel spotlight shading. Pixels are sampled at their
// centers.
func (fb *FrameBuffer) fill(a, b, c screenVertex, sh *shading) {
	// Screen y points down, so counter-clockwise front faces have
	// negative area here.
	area := (b.x-a.x)*(c.y-a.y) - (c.x-a.x)*(b.y-a.y)
	if area >= 0 {
		return
	}
	invArea := 1 / area

	minX := clampInt(int(math.Floor(float64(min(a.x, b.x, c.x)))), 0, fb.Width-1)
	maxX := clampInt(int(math.Ceil(float64(max(a.x, b.x, c.x)))), 0, fb.Width-1)
	minY := clampInt(int(math.Floor(float64(min(a.y, b.y, c.y)))), 0, fb.Height-1)
	maxY := clampInt(int(math.Ceil(float64(max(a.y, b.y, c.y)))), 0, fb.Height-1)

	for py := minY; py <= maxY; py++ {
		y := float32(py) + 0.5
		row := py * fb.Width
		for px := minX; px <= maxX; px++ {
			x := float32(px) + 0.5

			w0 := ((b.x-x)*(c.y-y) - (c.x-x)*(b.y-y)) * invArea
			w1 := ((c.x-x)*(a.y-y) - (a.x-x)*(c.y-y)) * invArea
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*a.z + w1*b.z + w2*c.z
			idx := row + px
			if z > 1 || z >= fb.Depth[idx] {
				continue
			}

			invW := w0*a.invW + w1*b.invW + w2*c.invW
			persp := 1 / invW
			world := a.world.Mul(w0).Add(b.world.Mul(w1)).Add(c.world.Mul(w2)).Mul(persp)
			normal := a.normal.Mul(w0).Add(b.normal.Mul(w1)).Add(c.normal.Mul(w2)).Mul(persp)
			uv := a.uv.Mul(w0).Add(b.uv.Mul(w1)).Add(c.uv.Mul(w2)).Mul(persp)

			texel := sh.tex.At(uv.X(), uv.Y())
			color := lighting.Shade(world, normal, sh.base, texel, sh.lights, sh.cutoffCosine)

			fb.Depth[idx] = z
			o := idx * 4
			fb.Color[o] = toByte(color.X())
			fb.Color[o+1] = toByte(color.Y())
			fb.Color[o+2] = toByte(color.Z())
			fb.Color[o+3] = toByte(color.W())
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
