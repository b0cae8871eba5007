// Package lighting evaluates the spotlight model used by the fragment shader.
//
// The functions here mirror shaders/spotlight.frag term for term so the
// lighting can be tested and rendered without a GL context.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// NumLights is the number of spotlights in the rig and in the shader arrays.
const NumLights = 3

// Attenuation coefficients: 1 / (1 + linear*d + quadratic*d^2).
const (
	AttenuationLinear    = 0.000035
	AttenuationQuadratic = 0.000044
)

// DefaultCutoffDeg is the spotlight cone half-angle.
const DefaultCutoffDeg = 30

// CutoffCosine is cos(DefaultCutoffDeg), compared against the fragment's
// angle to the spotlight axis.
var CutoffCosine = CutoffFromDegrees(DefaultCutoffDeg)

// Spotlight is a positional light with a hard-edged cone.
type Spotlight struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Diffuse   mgl32.Vec3
	Ambient   mgl32.Vec3
}

// CutoffFromDegrees converts a cone half-angle to the cosine the shader compares against.
func CutoffFromDegrees(deg float32) float32 {
	return float32(math.Cos(float64(mgl32.DegToRad(deg))))
}

// Attenuation returns the distance falloff factor. It is 1 at distance 0
// and decreases monotonically for positive distances.
func Attenuation(distance float32) float32 {
	return 1 / (1 + AttenuationLinear*distance + AttenuationQuadratic*distance*distance)
}

// SpotlightContribution returns the attenuated diffuse light a fragment
// receives from one spotlight, or the zero vector when the fragment lies on
// or outside the cone.
func SpotlightContribution(fragPos, fragNormal, baseColor mgl32.Vec3, light Spotlight, cutoffCosine float32) mgl32.Vec3 {
	toLight := light.Position.Sub(fragPos)
	lightDir := normalize(toLight)
	theta := lightDir.Dot(normalize(light.Direction.Mul(-1)))

	if theta <= cutoffCosine {
		return mgl32.Vec3{}
	}

	attenuation := Attenuation(toLight.Len())
	diff := max(normalize(fragNormal).Dot(lightDir), 0)

	return mulElem(light.Diffuse, baseColor).Mul(diff * attenuation)
}

// Shade computes the final fragment color: the texel modulated by the sum of
// every light's cone contribution and ambient term. Alpha is always 1.
func Shade(fragPos, fragNormal, baseColor, texel mgl32.Vec3, lights []Spotlight, cutoffCosine float32) mgl32.Vec4 {
	var sum mgl32.Vec3
	for _, l := range lights {
		sum = sum.Add(SpotlightContribution(fragPos, fragNormal, baseColor, l, cutoffCosine))
		sum = sum.Add(mulElem(l.Ambient, baseColor))
	}
	return mulElem(texel, sum).Vec4(1)
}

// normalize returns a unit vector, or the zero vector for zero length, so a
// fragment sitting on the light or a degenerate normal never yields NaN.
func normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// mulElem is the GLSL vec3 * vec3 component-wise product.
func mulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
