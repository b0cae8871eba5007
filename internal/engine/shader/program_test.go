package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// driverUniforms reports decls the way a driver does after linking:
// arrays carry a "[0]" suffix.
func driverUniforms(decls UniformSet) []ActiveUniform {
	out := make([]ActiveUniform, 0, len(decls))
	for _, d := range decls {
		name := d.Name
		if d.Size > 1 {
			name += "[0]"
		}
		out = append(out, ActiveUniform{Name: name, Type: d.Type, Size: d.Size})
	}
	return out
}

func TestValidateInterface(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]ActiveUniform) []ActiveUniform
		wantErr string
	}{
		{
			name:   "matching",
			mutate: func(a []ActiveUniform) []ActiveUniform { return a },
		},
		{
			name: "extra active uniform",
			mutate: func(a []ActiveUniform) []ActiveUniform {
				return append(a, ActiveUniform{Name: "uUnused", Type: gl.FLOAT, Size: 1})
			},
		},
		{
			name: "array without suffix",
			mutate: func(a []ActiveUniform) []ActiveUniform {
				for i := range a {
					a[i].Name = strings.TrimSuffix(a[i].Name, "[0]")
				}
				return a
			},
		},
		{
			name: "missing uniform",
			mutate: func(a []ActiveUniform) []ActiveUniform {
				out := a[:0]
				for _, u := range a {
					if u.Name != "uCutoffCosine" {
						out = append(out, u)
					}
				}
				return out
			},
			wantErr: `"uCutoffCosine" is not active`,
		},
		{
			name: "type mismatch",
			mutate: func(a []ActiveUniform) []ActiveUniform {
				for i := range a {
					if a[i].Name == "uObjColor" {
						a[i].Type = gl.FLOAT_VEC4
					}
				}
				return a
			},
			wantErr: `"uObjColor" has type`,
		},
		{
			name: "array size mismatch",
			mutate: func(a []ActiveUniform) []ActiveUniform {
				for i := range a {
					if a[i].Name == "uSpotDir[0]" {
						a[i].Size = 2
					}
				}
				return a
			},
			wantErr: `"uSpotDir" has size 2, want 3`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInterface(tt.mutate(driverUniforms(SpotlightInterface)), SpotlightInterface)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, ErrShaderCompile) {
				t.Fatalf("expected ErrShaderCompile, got %v", err)
			}
			var ce *CompileError
			if !errors.As(err, &ce) || ce.Stage != StageInterface {
				t.Fatalf("expected interface-stage CompileError, got %#v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSpotlightInterfaceCoversEveryUniform(t *testing.T) {
	seen := make(map[Uniform]bool)
	for _, d := range SpotlightInterface {
		if seen[d.Uniform] {
			t.Errorf("uniform %s declared twice", d.Name)
		}
		seen[d.Uniform] = true
	}
	for u := Uniform(0); u < numUniforms; u++ {
		if !seen[u] {
			t.Errorf("uniform %d has no declaration", u)
		}
	}
}
