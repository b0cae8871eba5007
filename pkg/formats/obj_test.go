package formats

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// cubeOBJ is a unit cube's attribute pools followed by the given face lines.
func cubeOBJ(faces ...string) []byte {
	var b strings.Builder
	b.WriteString("# unit cube\nmtllib cube.mtl\no Cube\n")
	for _, v := range [][3]float32{
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	} {
		fmt.Fprintf(&b, "v %g %g %g\n", v[0], v[1], v[2])
	}
	for _, vt := range [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
		fmt.Fprintf(&b, "vt %g %g\n", vt[0], vt[1])
	}
	for _, vn := range [][3]float32{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}, {0, 0, -1}} {
		fmt.Fprintf(&b, "vn %g %g %g\n", vn[0], vn[1], vn[2])
	}
	b.WriteString("usemtl Default\ns off\n")
	for _, f := range faces {
		b.WriteString(f + "\n")
	}
	return []byte(b.String())
}

func TestDecodeMesh_IndexOrder(t *testing.T) {
	mesh, err := DecodeMesh(cubeOBJ("f 1/1/1 2/2/2 3/3/3"))
	if err != nil {
		t.Fatalf("DecodeMesh failed: %v", err)
	}

	if mesh.VertexCount() != 3 {
		t.Fatalf("expected 3 vertices, got %d", mesh.VertexCount())
	}

	wantPos := []float32{-1, -1, 1, 1, -1, 1, 1, 1, 1}
	wantNorm := []float32{0, 0, 1, 1, 0, 0, 0, 1, 0}
	wantUV := []float32{0, 0, 1, 0, 1, 1}
	assertFloats(t, "positions", mesh.Positions, wantPos)
	assertFloats(t, "normals", mesh.Normals, wantNorm)
	assertFloats(t, "texcoords", mesh.TexCoords, wantUV)

	if mesh.Name != "Cube" {
		t.Errorf("expected mesh name Cube, got %q", mesh.Name)
	}
}

func TestDecodeMesh_StreamLengths(t *testing.T) {
	tests := []struct {
		name      string
		faces     []string
		wantVerts int
	}{
		{"single triangle", []string{"f 1/1/1 2/2/1 3/3/1"}, 3},
		{"two triangles", []string{"f 1/1/1 2/2/1 3/3/1", "f 1/1/1 3/3/1 4/4/1"}, 6},
		{"quad is fanned", []string{"f 1/1/1 2/2/1 3/3/1 4/4/1"}, 6},
		{"pentagon is fanned", []string{"f 1/1/1 2/2/1 3/3/1 4/4/1 5/1/2"}, 9},
		{"shared vertices are not deduplicated", []string{"f 1/1/1 1/1/1 1/1/1", "f 1/1/1 1/1/1 1/1/1"}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := DecodeMesh(cubeOBJ(tt.faces...))
			if err != nil {
				t.Fatalf("DecodeMesh failed: %v", err)
			}
			n := tt.wantVerts
			if len(mesh.Positions) != 3*n || len(mesh.Normals) != 3*n || len(mesh.TexCoords) != 2*n {
				t.Errorf("expected lengths %d/%d/%d, got %d/%d/%d",
					3*n, 3*n, 2*n, len(mesh.Positions), len(mesh.Normals), len(mesh.TexCoords))
			}
			if len(mesh.Positions) != 3*len(mesh.TexCoords)/2 {
				t.Errorf("positions (%d) != 3*texcoords/2 (%d)", len(mesh.Positions), 3*len(mesh.TexCoords)/2)
			}
		})
	}
}

func TestDecodeMesh_NegativeIndices(t *testing.T) {
	mesh, err := DecodeMesh(cubeOBJ("f -8/-4/-4 -7/-3/-3 -6/-2/-2"))
	if err != nil {
		t.Fatalf("DecodeMesh failed: %v", err)
	}
	assertFloats(t, "positions", mesh.Positions, []float32{-1, -1, 1, 1, -1, 1, 1, 1, 1})
	assertFloats(t, "texcoords", mesh.TexCoords, []float32{0, 0, 1, 0, 1, 1})
}

func TestDecodeMesh_FirstObjectOnly(t *testing.T) {
	data := cubeOBJ(
		"f 1/1/1 2/2/1 3/3/1",
		"o Lid",
		"f 5/1/4 6/2/4 7/3/4",
		"f 5/1/4 7/3/4 8/4/4",
	)

	obj, err := ParseOBJ(data)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(obj.Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(obj.Objects))
	}
	if obj.Objects[1].Name != "Lid" || len(obj.Objects[1].Faces) != 2 {
		t.Errorf("unexpected second object: %+v", obj.Objects[1])
	}

	mesh, err := obj.Expand()
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if mesh.VertexCount() != 3 {
		t.Errorf("expected only the first object's 3 vertices, got %d", mesh.VertexCount())
	}
}

func TestParseOBJ_GroupBeforeFacesRenames(t *testing.T) {
	data := []byte("g default\nv 0 0 0\nvt 0 0\nvn 0 1 0\ng body\nf 1/1/1 1/1/1 1/1/1\n")

	obj, err := ParseOBJ(data)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(obj.Objects) != 1 || obj.Objects[0].Name != "body" {
		t.Errorf("expected single object named body, got %+v", obj.Objects)
	}
}

func TestDecodeMesh_MalformedIndices(t *testing.T) {
	tests := []struct {
		name     string
		face     string
		wantAttr Attribute
		wantIdx  int
	}{
		{"position out of range", "f 1/1/1 2/2/1 9/3/1", AttrPosition, 8},
		{"normal out of range", "f 1/1/1 2/2/5 3/3/1", AttrNormal, 4},
		{"texcoord out of range", "f 1/1/1 2/7/1 3/3/1", AttrTexCoord, 6},
		{"missing texcoord", "f 1//1 2//1 3//1", AttrTexCoord, NoIndex},
		{"missing normal", "f 1/1 2/2 3/3", AttrNormal, NoIndex},
		{"zero index", "f 0/1/1 2/2/1 3/3/1", AttrPosition, -1},
		{"relative before start", "f -9/1/1 2/2/1 3/3/1", AttrPosition, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeMesh(cubeOBJ(tt.face))
			if !errors.Is(err, ErrMalformedAsset) {
				t.Fatalf("expected ErrMalformedAsset, got %v", err)
			}
			var idxErr *IndexError
			if !errors.As(err, &idxErr) {
				t.Fatalf("expected *IndexError, got %T", err)
			}
			if idxErr.Attribute != tt.wantAttr {
				t.Errorf("expected attribute %s, got %s", tt.wantAttr, idxErr.Attribute)
			}
			if idxErr.Index != tt.wantIdx {
				t.Errorf("expected index %d, got %d", tt.wantIdx, idxErr.Index)
			}
			if idxErr.Object != "Cube" {
				t.Errorf("expected object Cube, got %q", idxErr.Object)
			}
		})
	}
}

func TestParseOBJ_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantLine int
	}{
		{"short vertex", "v 1 2\n", 1},
		{"bad number", "v 0 0 0\nvn 0 x 1\n", 2},
		{"face with two corners", "v 0 0 0\n\nf 1 1\n", 3},
		{"bad face token", "v 0 0 0\nf 1/a/1 1 1\n", 2},
		{"too many slashes", "v 0 0 0\nf 1/1/1/1 1 1\n", 2},
		{"missing position", "v 0 0 0\nf /1/1 1 1\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ([]byte(tt.data))
			if !errors.Is(err, ErrMalformedAsset) {
				t.Fatalf("expected ErrMalformedAsset, got %v", err)
			}
			var synErr *SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("expected *SyntaxError, got %T", err)
			}
			if synErr.Line != tt.wantLine {
				t.Errorf("expected line %d, got %d", tt.wantLine, synErr.Line)
			}
		})
	}
}

func TestDecodeMesh_NoFaces(t *testing.T) {
	_, err := DecodeMesh([]byte("v 0 0 0\nvn 0 1 0\n"))
	if !errors.Is(err, ErrMalformedAsset) {
		t.Errorf("expected ErrMalformedAsset for file without faces, got %v", err)
	}
}

func TestParseOBJ_IgnoresExtras(t *testing.T) {
	data := []byte("v 1 2 3 1.0 # weighted\nvt 0.5\nvt 0.25 0.75 0\nvn 0 1 0\nl 1 1\nf 1/1/1 1/2/1 1/1/1\n")

	obj, err := ParseOBJ(data)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if obj.Positions[0] != [3]float32{1, 2, 3} {
		t.Errorf("unexpected position %v", obj.Positions[0])
	}
	if obj.TexCoords[0] != [2]float32{0.5, 0} {
		t.Errorf("single-component vt should pad v with 0, got %v", obj.TexCoords[0])
	}
	if obj.TexCoords[1] != [2]float32{0.25, 0.75} {
		t.Errorf("three-component vt should drop w, got %v", obj.TexCoords[1])
	}
}

func assertFloats(t *testing.T, name string, got, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: expected %d values, got %d", name, len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d]: expected %v, got %v", name, i, want[i], got[i])
		}
	}
}
