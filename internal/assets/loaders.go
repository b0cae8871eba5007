package assets

import (
	"fmt"

	"github.com/Faultbox/spotlight-stage/internal/engine/texture"
	"github.com/Faultbox/spotlight-stage/pkg/formats"
)

// LoadMesh reads an OBJ file and expands its first object.
func (m *Manager) LoadMesh(name string) (*formats.Mesh, error) {
	data, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	mesh, err := formats.DecodeMesh(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if mesh.Name == "" {
		mesh.Name = name
	}
	return mesh, nil
}

// LoadImage reads and decodes a texture image.
func (m *Manager) LoadImage(name string) (*texture.Image, error) {
	data, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	img, err := texture.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return img, nil
}
