package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/spotlight-stage/internal/logger"
)

// Uniform identifies a uniform of the spotlight program. Locations are
// resolved once at link time and indexed by this enum afterwards.
type Uniform int

// Spotlight program uniforms.
const (
	UniformMVP Uniform = iota
	UniformModel
	UniformTexture
	UniformObjColor
	UniformCutoffCosine
	UniformLightPos
	UniformSpotDir
	UniformDiffuseColor
	UniformAmbientColor

	numUniforms
)

// UniformDecl is the expected declaration of one uniform.
type UniformDecl struct {
	Uniform Uniform
	Name    string
	Type    uint32 // GL type enum, e.g. gl.FLOAT_VEC3
	Size    int32  // Array length, 1 for scalars
}

// UniformSet lists every uniform the host code will set.
type UniformSet []UniformDecl

// SpotlightInterface is the uniform interface of the embedded spotlight shaders.
var SpotlightInterface = UniformSet{
	{UniformMVP, "uMVP", gl.FLOAT_MAT4, 1},
	{UniformModel, "uModel", gl.FLOAT_MAT4, 1},
	{UniformTexture, "uTexture", gl.SAMPLER_2D, 1},
	{UniformObjColor, "uObjColor", gl.FLOAT_VEC3, 1},
	{UniformCutoffCosine, "uCutoffCosine", gl.FLOAT, 1},
	{UniformLightPos, "uLightPos", gl.FLOAT_VEC3, 3},
	{UniformSpotDir, "uSpotDir", gl.FLOAT_VEC3, 3},
	{UniformDiffuseColor, "uDiffuseColor", gl.FLOAT_VEC3, 3},
	{UniformAmbientColor, "uAmbientColor", gl.FLOAT_VEC3, 3},
}

// ActiveUniform is a uniform as reported by the driver after linking.
type ActiveUniform struct {
	Name string
	Type uint32
	Size int32
}

// Program is a linked shader program with a typed uniform location cache.
type Program struct {
	ID        uint32
	locations [numUniforms]int32
}

// NewProgram compiles and links a program, checks its active uniforms
// against decls and resolves every uniform location.
func NewProgram(vertexSrc, fragmentSrc string, decls UniformSet) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}

	if err := ValidateInterface(activeUniforms(id), decls); err != nil {
		gl.DeleteProgram(id)
		return nil, err
	}

	p := &Program{ID: id}
	for i := range p.locations {
		p.locations[i] = -1
	}
	for _, d := range decls {
		p.locations[d.Uniform] = gl.GetUniformLocation(id, gl.Str(d.Name+"\x00"))
	}

	logger.Debug("shader program linked",
		zap.Uint32("program", id),
		zap.Int("uniforms", len(decls)),
	)
	return p, nil
}

// activeUniforms enumerates the program's active uniforms.
func activeUniforms(program uint32) []ActiveUniform {
	var count, maxLen int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)
	if maxLen <= 0 {
		maxLen = 256
	}

	out := make([]ActiveUniform, 0, count)
	buf := make([]byte, maxLen)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(program, uint32(i), maxLen, &length, &size, &xtype, &buf[0])
		out = append(out, ActiveUniform{
			Name: string(buf[:length]),
			Type: xtype,
			Size: size,
		})
	}
	return out
}

// ValidateInterface reports the first declared uniform that is missing
// from active or has a different type or array size. Array uniforms are
// reported by drivers as "name[0]".
func ValidateInterface(active []ActiveUniform, decls UniformSet) error {
	byName := make(map[string]ActiveUniform, len(active))
	for _, a := range active {
		byName[strings.TrimSuffix(a.Name, "[0]")] = a
	}

	for _, d := range decls {
		a, ok := byName[d.Name]
		if !ok {
			return &CompileError{Stage: StageInterface, Log: fmt.Sprintf("uniform %q is not active", d.Name)}
		}
		if a.Type != d.Type {
			return &CompileError{Stage: StageInterface, Log: fmt.Sprintf("uniform %q has type 0x%x, want 0x%x", d.Name, a.Type, d.Type)}
		}
		if a.Size != d.Size {
			return &CompileError{Stage: StageInterface, Log: fmt.Sprintf("uniform %q has size %d, want %d", d.Name, a.Size, d.Size)}
		}
	}
	return nil
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// SetMat4 sets a mat4 uniform.
func (p *Program) SetMat4(u Uniform, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.locations[u], 1, false, &m[0])
}

// SetVec3 sets a vec3 uniform.
func (p *Program) SetVec3(u Uniform, v mgl32.Vec3) {
	gl.Uniform3fv(p.locations[u], 1, &v[0])
}

// SetVec3Array sets a vec3 array uniform.
func (p *Program) SetVec3Array(u Uniform, v []mgl32.Vec3) {
	if len(v) == 0 {
		return
	}
	gl.Uniform3fv(p.locations[u], int32(len(v)), &v[0][0])
}

// SetFloat sets a float uniform.
func (p *Program) SetFloat(u Uniform, f float32) {
	gl.Uniform1f(p.locations[u], f)
}

// SetInt sets an int or sampler uniform.
func (p *Program) SetInt(u Uniform, i int32) {
	gl.Uniform1i(p.locations[u], i)
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}
