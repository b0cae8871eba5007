// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// SpotlightVertexShader transforms mesh vertices and forwards world-space
// position, normal and texture coordinate.
//
//go:embed spotlight.vert
var SpotlightVertexShader string

// SpotlightFragmentShader lights fragments with three spotlights.
//
//go:embed spotlight.frag
var SpotlightFragmentShader string
