package formats

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Position is a vertex position (v).
type Position = mgl64.Vec3

// TexCoord is a texture coordinate (vt).
type TexCoord = mgl64.Vec2

// Normal is a vertex normal (vn).
type Normal = mgl64.Vec3

// Index is an optional 0-based buffer index. The zero value is absent.
type Index struct {
	Value int
	Valid bool
}

// Some returns a present index.
func Some(i int) Index {
	return Index{Value: i, Valid: true}
}

// CornerForm is the vertex-record form of a face corner.
type CornerForm int

// Corner forms as written in the source file.
const (
	FormP   CornerForm = iota + 1 // p
	FormPT                        // p/t
	FormPN                        // p//n
	FormPTN                       // p/t/n
)

// String returns the record form as it is written in OBJ files.
func (f CornerForm) String() string {
	switch f {
	case FormP:
		return "P"
	case FormPT:
		return "P/T"
	case FormPN:
		return "P//N"
	case FormPTN:
		return "P/T/N"
	default:
		return "Unknown"
	}
}

// Corner references the attributes of one triangle corner.
type Corner struct {
	Position int   // Index into OBJ.Positions
	TexCoord Index // Index into OBJ.TexCoords
	Normal   Index // Index into OBJ.Normals
}

// Form reports which attributes the corner carries.
func (c Corner) Form() CornerForm {
	switch {
	case c.TexCoord.Valid && c.Normal.Valid:
		return FormPTN
	case c.TexCoord.Valid:
		return FormPT
	case c.Normal.Valid:
		return FormPN
	default:
		return FormP
	}
}

// Face is a triangle.
type Face [3]Corner

// Material is a material definition from an MTL library.
type Material struct {
	Name string

	Ambient  mgl64.Vec3 // Ka
	Diffuse  mgl64.Vec3 // Kd
	Specular mgl64.Vec3 // Ks

	SpecularExponent float64 // Ns
	OpticalDensity   float64 // Ni
	Dissolve         float64 // d
	Illumination     int     // illum

	AmbientMap           string // map_Ka
	DiffuseMap           string // map_Kd
	SpecularMap          string // map_Ks
	SpecularHighlightMap string // map_Ns
	AlphaMap             string // map_d
	BumpMap              string // map_Bump, map_bump, bump
}

// SubMesh is a named run of faces sharing one material.
type SubMesh struct {
	Name         string
	Faces        []Face
	MaterialName string    // Name given by usemtl, empty if none
	Material     *Material // Resolved against OBJ.Materials, nil if unresolved
}

// TriangleIndices is a per-face view of a sub-mesh as three parallel index
// buffers, one row per face.
type TriangleIndices struct {
	Positions [][3]int
	TexCoords [][3]Index
	Normals   [][3]Index
}

// TriangleIndices returns the sub-mesh faces as parallel index buffers.
func (s *SubMesh) TriangleIndices() TriangleIndices {
	ti := TriangleIndices{
		Positions: make([][3]int, len(s.Faces)),
		TexCoords: make([][3]Index, len(s.Faces)),
		Normals:   make([][3]Index, len(s.Faces)),
	}
	for i, face := range s.Faces {
		for j, c := range face {
			ti.Positions[i][j] = c.Position
			ti.TexCoords[i][j] = c.TexCoord
			ti.Normals[i][j] = c.Normal
		}
	}
	return ti
}

// OBJ represents a parsed Wavefront OBJ file.
type OBJ struct {
	Path        string
	Positions   []Position
	TexCoords   []TexCoord
	Normals     []Normal
	SubMeshes   []SubMesh
	Materials   []Material // Every material loaded through mtllib, in load order
	Diagnostics []Diagnostic
}

// FaceCount returns the number of faces across all sub-meshes.
func (o *OBJ) FaceCount() int {
	n := 0
	for i := range o.SubMeshes {
		n += len(o.SubMeshes[i].Faces)
	}
	return n
}

// FindMaterial returns the first material with the given name.
func (o *OBJ) FindMaterial(name string) *Material {
	for i := range o.Materials {
		if o.Materials[i].Name == name {
			return &o.Materials[i]
		}
	}
	return nil
}
