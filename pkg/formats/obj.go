// Package formats provides parsers for the mesh file formats the renderer loads.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedAsset is wrapped by every OBJ parse and expansion failure.
var ErrMalformedAsset = errors.New("malformed asset")

// NoIndex marks a face corner attribute that was not given in the file.
const NoIndex = math.MinInt32

// Attribute identifies one of the three per-vertex pools of an OBJ file.
type Attribute int

// Attribute pools.
const (
	AttrPosition Attribute = iota
	AttrTexCoord
	AttrNormal
)

// String returns the OBJ directive of the attribute pool.
func (a Attribute) String() string {
	switch a {
	case AttrPosition:
		return "v"
	case AttrTexCoord:
		return "vt"
	case AttrNormal:
		return "vn"
	default:
		return fmt.Sprintf("Attribute(%d)", int(a))
	}
}

// OBJCorner is one face-vertex. Indices are zero-based into the OBJ pools,
// or NoIndex when the file omitted the attribute.
type OBJCorner struct {
	Position int
	TexCoord int
	Normal   int
}

// OBJFace is a triangle. Polygons are fan-triangulated while parsing.
type OBJFace [3]OBJCorner

// OBJObject is a named group of faces (an "o" or "g" block).
type OBJObject struct {
	Name  string
	Faces []OBJFace
}

// OBJ holds the attribute pools and objects of a Wavefront OBJ file.
type OBJ struct {
	Positions [][3]float32
	TexCoords [][2]float32
	Normals   [][3]float32
	Objects   []OBJObject
}

// SyntaxError reports an unparsable line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("obj line %d: %s", e.Line, e.Msg)
}

// Unwrap lets errors.Is match ErrMalformedAsset.
func (e *SyntaxError) Unwrap() error {
	return ErrMalformedAsset
}

// IndexError reports a face-vertex that references a missing or out-of-range
// attribute.
type IndexError struct {
	Object    string
	Face      int
	Corner    int
	Attribute Attribute
	Index     int // Zero-based, or NoIndex when absent
	PoolSize  int
}

func (e *IndexError) Error() string {
	if e.Index == NoIndex {
		return fmt.Sprintf("object %q face %d corner %d: missing %s index",
			e.Object, e.Face, e.Corner, e.Attribute)
	}
	return fmt.Sprintf("object %q face %d corner %d: %s index %d out of range (pool has %d)",
		e.Object, e.Face, e.Corner, e.Attribute, e.Index+1, e.PoolSize)
}

// Unwrap lets errors.Is match ErrMalformedAsset.
func (e *IndexError) Unwrap() error {
	return ErrMalformedAsset
}

// ParseOBJ parses Wavefront OBJ text. Material, smoothing and unknown
// directives are ignored.
func ParseOBJ(data []byte) (*OBJ, error) {
	obj := &OBJ{}
	current := OBJObject{}

	startObject := func(name string) {
		if len(current.Faces) > 0 {
			obj.Objects = append(obj.Objects, current)
			current = OBJObject{}
		}
		current.Name = name
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3, 3)
			if err != nil {
				return nil, &SyntaxError{Line: lineNo, Msg: "v: " + err.Error()}
			}
			obj.Positions = append(obj.Positions, [3]float32{v[0], v[1], v[2]})

		case "vn":
			v, err := parseFloats(fields[1:], 3, 3)
			if err != nil {
				return nil, &SyntaxError{Line: lineNo, Msg: "vn: " + err.Error()}
			}
			obj.Normals = append(obj.Normals, [3]float32{v[0], v[1], v[2]})

		case "vt":
			v, err := parseFloats(fields[1:], 1, 2)
			if err != nil {
				return nil, &SyntaxError{Line: lineNo, Msg: "vt: " + err.Error()}
			}
			obj.TexCoords = append(obj.TexCoords, [2]float32{v[0], v[1]})

		case "f":
			if len(fields) < 4 {
				return nil, &SyntaxError{Line: lineNo, Msg: fmt.Sprintf("face needs at least 3 vertices, got %d", len(fields)-1)}
			}
			corners := make([]OBJCorner, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				c, err := obj.parseCorner(tok)
				if err != nil {
					return nil, &SyntaxError{Line: lineNo, Msg: err.Error()}
				}
				corners = append(corners, c)
			}
			for i := 1; i+1 < len(corners); i++ {
				current.Faces = append(current.Faces, OBJFace{corners[0], corners[i], corners[i+1]})
			}

		case "o", "g":
			startObject(strings.Join(fields[1:], " "))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &SyntaxError{Line: lineNo + 1, Msg: err.Error()}
	}

	if len(current.Faces) > 0 {
		obj.Objects = append(obj.Objects, current)
	}

	return obj, nil
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn".
// Negative indices count back from the end of the pool parsed so far.
func (o *OBJ) parseCorner(tok string) (OBJCorner, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return OBJCorner{}, fmt.Errorf("bad face vertex %q", tok)
	}

	c := OBJCorner{Position: NoIndex, TexCoord: NoIndex, Normal: NoIndex}
	pools := [3]int{len(o.Positions), len(o.TexCoords), len(o.Normals)}
	dst := [3]*int{&c.Position, &c.TexCoord, &c.Normal}

	for i, p := range parts {
		if p == "" {
			if i == 0 {
				return OBJCorner{}, fmt.Errorf("bad face vertex %q: missing position index", tok)
			}
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return OBJCorner{}, fmt.Errorf("bad face vertex %q: %v", tok, err)
		}
		if n < 0 {
			*dst[i] = pools[i] + n
		} else {
			*dst[i] = n - 1
		}
	}

	return c, nil
}

// parseFloats parses between min and max float32 values, padding with zeros.
// Extra trailing values (e.g. a vertex weight) are ignored.
func parseFloats(fields []string, min, max int) ([]float32, error) {
	if len(fields) < min {
		return nil, fmt.Errorf("expected %d values, got %d", min, len(fields))
	}
	out := make([]float32, max)
	for i := 0; i < max && i < len(fields); i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

// Mesh is a non-indexed triangle list with one entry per face-vertex in
// each attribute stream.
type Mesh struct {
	Name      string
	Positions []float32 // 3 per vertex
	Normals   []float32 // 3 per vertex
	TexCoords []float32 // 2 per vertex
}

// VertexCount returns the number of face-vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// Expand flattens the first object of the file into a Mesh. Any further
// objects are ignored. Every face-vertex must reference a position, a
// texture coordinate and a normal.
func (o *OBJ) Expand() (*Mesh, error) {
	if len(o.Objects) == 0 {
		return nil, fmt.Errorf("%w: no faces", ErrMalformedAsset)
	}
	first := o.Objects[0]

	n := len(first.Faces) * 3
	mesh := &Mesh{
		Name:      first.Name,
		Positions: make([]float32, 0, n*3),
		Normals:   make([]float32, 0, n*3),
		TexCoords: make([]float32, 0, n*2),
	}

	for fi, face := range first.Faces {
		for ci, c := range face {
			if !inRange(c.Position, len(o.Positions)) {
				return nil, &IndexError{first.Name, fi, ci, AttrPosition, c.Position, len(o.Positions)}
			}
			if !inRange(c.Normal, len(o.Normals)) {
				return nil, &IndexError{first.Name, fi, ci, AttrNormal, c.Normal, len(o.Normals)}
			}
			if !inRange(c.TexCoord, len(o.TexCoords)) {
				return nil, &IndexError{first.Name, fi, ci, AttrTexCoord, c.TexCoord, len(o.TexCoords)}
			}

			p := o.Positions[c.Position]
			nm := o.Normals[c.Normal]
			uv := o.TexCoords[c.TexCoord]
			mesh.Positions = append(mesh.Positions, p[0], p[1], p[2])
			mesh.Normals = append(mesh.Normals, nm[0], nm[1], nm[2])
			mesh.TexCoords = append(mesh.TexCoords, uv[0], uv[1])
		}
	}

	return mesh, nil
}

func inRange(idx, size int) bool {
	return idx >= 0 && idx < size
}

// DecodeMesh parses OBJ data and expands its first object.
func DecodeMesh(data []byte) (*Mesh, error) {
	obj, err := ParseOBJ(data)
	if err != nil {
		return nil, err
	}
	return obj.Expand()
}
