package renderer

import (
	"errors"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/spotlight-stage/internal/engine/texture"
	"github.com/Faultbox/spotlight-stage/internal/logger"
	"github.com/Faultbox/spotlight-stage/pkg/formats"
)

// Vertex attribute locations shared with spotlight.vert.
const (
	attribPosition = 0
	attribNormal   = 1
	attribTexCoord = 2
)

// Mesh is a non-indexed triangle list on the GPU, one VBO per attribute.
type Mesh struct {
	vao   uint32
	vbos  [3]uint32
	count int32
}

// UploadMesh copies the attribute streams of m into GPU buffers.
func UploadMesh(m *formats.Mesh) (*Mesh, error) {
	if m.VertexCount() == 0 {
		return nil, errors.New("mesh has no vertices")
	}

	gm := &Mesh{count: int32(m.VertexCount())}
	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)
	gl.GenBuffers(int32(len(gm.vbos)), &gm.vbos[0])

	streams := []struct {
		loc  uint32
		size int32
		data []float32
	}{
		{attribPosition, 3, m.Positions},
		{attribNormal, 3, m.Normals},
		{attribTexCoord, 2, m.TexCoords},
	}
	for i, s := range streams {
		gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbos[i])
		gl.BufferData(gl.ARRAY_BUFFER, len(s.data)*4, gl.Ptr(s.data), gl.STATIC_DRAW)
		gl.VertexAttribPointerWithOffset(s.loc, s.size, gl.FLOAT, false, s.size*4, 0)
		gl.EnableVertexAttribArray(s.loc)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	logger.Debug("mesh uploaded",
		zap.String("name", m.Name),
		zap.Int32("vertices", gm.count),
		zap.Uint32("vao", gm.vao),
	)
	return gm, nil
}

// Bind binds the mesh's vertex array.
func (m *Mesh) Bind() {
	gl.BindVertexArray(m.vao)
}

// VertexCount returns the number of vertices to draw.
func (m *Mesh) VertexCount() int32 {
	return m.count
}

// Delete releases the GPU buffers.
func (m *Mesh) Delete() {
	if m.vao != 0 {
		gl.DeleteBuffers(int32(len(m.vbos)), &m.vbos[0])
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
}

// Texture is a 2D RGB texture on the GPU.
type Texture struct {
	id uint32
}

// UploadTexture creates a repeating, linearly filtered, mipmapped texture.
func UploadTexture(img *texture.Image) (*Texture, error) {
	if img.Width <= 0 || img.Height <= 0 || len(img.Pix) != img.Width*img.Height*3 {
		return nil, errors.New("texture image is empty or inconsistent")
	}

	t := &Texture{}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// Rows are tightly packed; widths need not be a multiple of 4.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB, int32(img.Width), int32(img.Height), 0, gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	logger.Debug("texture uploaded",
		zap.Uint32("id", t.id),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
	)
	return t, nil
}

// Bind binds the texture to a texture unit.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

// Delete releases the texture.
func (t *Texture) Delete() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}
