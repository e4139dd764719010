// Package remap converts multi-index OBJ faces into single-index vertex
// buffers suitable for GPU upload.
//
// OBJ faces index positions and texture coordinates independently, so one
// position may be paired with several texture coordinates. Each distinct
// (position, texcoord) pair becomes one output vertex; positions used with
// k texture coordinates are emitted k times.
package remap

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"

	"github.com/Faultbox/objremap/pkg/formats"
	"github.com/Faultbox/objremap/pkg/normals"
)

// ErrRemapInconsistency reports face corners that could not be mapped to
// an output vertex.
var ErrRemapInconsistency = errors.New("remap inconsistency")

// Vertex is an output vertex.
type Vertex struct {
	Position formats.Position
	TexCoord formats.TexCoord
}

// Origin records which input pair an output vertex was built from.
type Origin struct {
	Position int
	TexCoord formats.Index
}

// Result is a remapped sub-mesh.
type Result struct {
	Name     string
	Material *formats.Material
	Vertices []Vertex
	Normals  []formats.Normal // Aligned 1:1 with Vertices
	Faces    [][3]uint32      // Indices into Vertices
	Origins  []Origin         // Aligned 1:1 with Vertices
}

// CornerError locates a face corner that has no output vertex.
type CornerError struct {
	SubMesh  string
	Face     int
	Corner   int
	Position int
	TexCoord formats.Index
}

// Error implements the error interface.
func (e CornerError) Error() string {
	tex := "none"
	if e.TexCoord.Valid {
		tex = fmt.Sprint(e.TexCoord.Value)
	}
	return fmt.Sprintf("sub-mesh %q face %d corner %d: no vertex for position %d texcoord %s",
		e.SubMesh, e.Face, e.Corner, e.Position, tex)
}

// InconsistencyError collects every corner that failed to map.
type InconsistencyError struct {
	Corners []CornerError
}

// Error implements the error interface.
func (e *InconsistencyError) Error() string {
	msgs := make([]string, len(e.Corners))
	for i, c := range e.Corners {
		msgs[i] = c.Error()
	}
	return fmt.Sprintf("%v: %s", ErrRemapInconsistency, strings.Join(msgs, "; "))
}

// Is reports whether target is ErrRemapInconsistency.
func (e *InconsistencyError) Is(target error) bool {
	return target == ErrRemapInconsistency
}

// Faces returns the indices of faces with at least one failed corner.
func (e *InconsistencyError) Faces() []int {
	var faces []int
	seen := make(map[int]bool)
	for _, c := range e.Corners {
		if !seen[c.Face] {
			seen[c.Face] = true
			faces = append(faces, c.Face)
		}
	}
	return faces
}

// SubMesh remaps one sub-mesh against the global position and texture
// coordinate buffers it indexes.
//
// Output vertices are grouped by ascending position index; within a group
// texture coordinates keep the order they were first seen in. Normals are
// recomputed with nf on the output topology. If nf is nil, area weighted
// normals are used.
//
// Corners whose indices fall outside the buffers are returned in an
// *InconsistencyError together with the partial Result; faces with such
// corners are left out of Result.Faces.
func SubMesh(name string, faces []formats.Face, positions []formats.Position, texcoords []formats.TexCoord, nf normals.Func) (*Result, error) {
	if nf == nil {
		nf = normals.PerVertex(normals.Area)
	}

	valid := func(c formats.Corner) bool {
		if c.Position < 0 || c.Position >= len(positions) {
			return false
		}
		if c.TexCoord.Valid && (c.TexCoord.Value < 0 || c.TexCoord.Value >= len(texcoords)) {
			return false
		}
		return true
	}

	// Texcoords paired with each position, in first-seen order
	pairs := make(map[int][]formats.Index)
	for _, face := range faces {
		for _, c := range face {
			if !valid(c) {
				continue
			}
			if !containsIndex(pairs[c.Position], c.TexCoord) {
				pairs[c.Position] = append(pairs[c.Position], c.TexCoord)
			}
		}
	}

	order := make([]int, 0, len(pairs))
	for pos := range pairs {
		order = append(order, pos)
	}
	sort.Ints(order)

	res := &Result{Name: name}
	lookup := make(map[Origin]uint32)
	for _, pos := range order {
		for _, tc := range pairs[pos] {
			origin := Origin{Position: pos, TexCoord: tc}
			lookup[origin] = uint32(len(res.Vertices))

			v := Vertex{Position: positions[pos]}
			if tc.Valid {
				v.TexCoord = texcoords[tc.Value]
			}
			res.Vertices = append(res.Vertices, v)
			res.Origins = append(res.Origins, origin)
		}
	}

	var bad []CornerError
	res.Faces = make([][3]uint32, 0, len(faces))
	for i, face := range faces {
		var out [3]uint32
		ok := true
		for j, c := range face {
			idx, found := lookup[Origin{Position: c.Position, TexCoord: c.TexCoord}]
			if !found {
				bad = append(bad, CornerError{
					SubMesh:  name,
					Face:     i,
					Corner:   j,
					Position: c.Position,
					TexCoord: c.TexCoord,
				})
				ok = false
				continue
			}
			out[j] = idx
		}
		if ok {
			res.Faces = append(res.Faces, out)
		}
	}

	pos := make([]mgl64.Vec3, len(res.Vertices))
	for i, v := range res.Vertices {
		pos[i] = v.Position
	}
	res.Normals = nf(pos, res.Faces)

	if len(bad) > 0 {
		return res, &InconsistencyError{Corners: bad}
	}
	return res, nil
}

// IndexedMesh returns the result as a single-index mesh for writing.
func (r *Result) IndexedMesh() *formats.IndexedMesh {
	m := &formats.IndexedMesh{
		Name:      r.Name,
		Positions: make([]formats.Position, len(r.Vertices)),
		TexCoords: make([]formats.TexCoord, len(r.Vertices)),
		Normals:   r.Normals,
		Faces:     r.Faces,
	}
	if r.Material != nil {
		m.Material = r.Material.Name
	}
	for i, v := range r.Vertices {
		m.Positions[i] = v.Position
		m.TexCoords[i] = v.TexCoord
	}
	return m
}

// VertexMatrix returns the output positions as an n×3 matrix.
func (r *Result) VertexMatrix() *mat.Dense {
	if len(r.Vertices) == 0 {
		return nil
	}
	data := make([]float64, 0, len(r.Vertices)*3)
	for _, v := range r.Vertices {
		data = append(data, v.Position[0], v.Position[1], v.Position[2])
	}
	return mat.NewDense(len(r.Vertices), 3, data)
}

// IndexMatrix returns the output faces as an m×3 matrix.
func (r *Result) IndexMatrix() *mat.Dense {
	if len(r.Faces) == 0 {
		return nil
	}
	data := make([]float64, 0, len(r.Faces)*3)
	for _, f := range r.Faces {
		data = append(data, float64(f[0]), float64(f[1]), float64(f[2]))
	}
	return mat.NewDense(len(r.Faces), 3, data)
}

func containsIndex(list []formats.Index, idx formats.Index) bool {
	for _, v := range list {
		if v == idx {
			return true
		}
	}
	return false
}
