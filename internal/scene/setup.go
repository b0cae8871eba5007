package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/spotlight-stage/internal/assets"
	"github.com/Faultbox/spotlight-stage/internal/config"
	"github.com/Faultbox/spotlight-stage/internal/engine/camera"
	"github.com/Faultbox/spotlight-stage/internal/engine/lighting"
	"github.com/Faultbox/spotlight-stage/internal/engine/texture"
	"github.com/Faultbox/spotlight-stage/internal/logger"
	"github.com/Faultbox/spotlight-stage/pkg/formats"
)

// NewCamera builds the session camera from configuration.
func NewCamera(cfg config.CameraConfig) *camera.Camera {
	return camera.New(
		mgl32.Vec3(cfg.Eye),
		mgl32.Vec3(cfg.Target),
		mgl32.Vec3(cfg.Up),
		cfg.FovYDeg, cfg.Aspect, cfg.Near, cfg.Far,
	)
}

// NewRig builds the light rig from configuration.
func NewRig(lights []config.LightConfig) (*lighting.Rig, error) {
	if len(lights) != lighting.NumLights {
		return nil, fmt.Errorf("need %d lights, got %d", lighting.NumLights, len(lights))
	}
	rig := &lighting.Rig{}
	for i, l := range lights {
		rig.Names[i] = l.Name
		rig.Lights[i] = lighting.Spotlight{
			Position:  mgl32.Vec3(l.Position),
			Direction: mgl32.Vec3(l.Direction),
			Diffuse:   mgl32.Vec3(l.Diffuse),
			Ambient:   mgl32.Vec3(l.Ambient),
		}
	}
	return rig, nil
}

// Asset is the CPU-side data of one configured object.
type Asset struct {
	Name  string
	Mesh  *formats.Mesh
	Image *texture.Image
}

// LoadAssets loads every object's mesh and texture in draw order. The
// first failure aborts loading.
func LoadAssets(m *assets.Manager, objects []config.ObjectConfig) ([]Asset, error) {
	out := make([]Asset, 0, len(objects))
	for _, obj := range objects {
		mesh, err := m.LoadMesh(obj.Mesh)
		if err != nil {
			return nil, fmt.Errorf("object %q mesh: %w", obj.Name, err)
		}
		img, err := m.LoadImage(obj.Texture)
		if err != nil {
			return nil, fmt.Errorf("object %q texture: %w", obj.Name, err)
		}
		logger.Info("object loaded",
			zap.String("name", obj.Name),
			zap.Int("vertices", mesh.VertexCount()),
			zap.Int("textureWidth", img.Width),
			zap.Int("textureHeight", img.Height),
		)
		out = append(out, Asset{Name: obj.Name, Mesh: mesh, Image: img})
	}
	return out, nil
}
