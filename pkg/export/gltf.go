// Package export writes remapped sub-meshes to interchange formats.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/objremap/pkg/formats"
	"github.com/Faultbox/objremap/pkg/remap"
)

var (
	ErrNothingToExport   = errors.New("nothing to export")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// GLTF builds a glTF document with one mesh and one node per result.
// Results without faces are skipped. Materials are shared between meshes
// that reference the same material.
func GLTF(results []*remap.Result) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	materials := make(map[*formats.Material]uint32)

	for _, res := range results {
		if res == nil || len(res.Faces) == 0 {
			continue
		}

		positions := make([][3]float32, len(res.Vertices))
		uvs := make([][2]float32, len(res.Vertices))
		for i, v := range res.Vertices {
			positions[i] = [3]float32{float32(v.Position[0]), float32(v.Position[1]), float32(v.Position[2])}
			// glTF puts the UV origin at the top left
			uvs[i] = [2]float32{float32(v.TexCoord[0]), float32(1 - v.TexCoord[1])}
		}
		normals := make([][3]float32, len(res.Normals))
		for i, n := range res.Normals {
			normals[i] = [3]float32{float32(n[0]), float32(n[1]), float32(n[2])}
		}
		indices := make([]uint32, 0, len(res.Faces)*3)
		for _, f := range res.Faces {
			indices = append(indices, f[0], f[1], f[2])
		}

		attributes := map[string]uint32{
			"POSITION":   modeler.WritePosition(doc, positions),
			"TEXCOORD_0": modeler.WriteTextureCoord(doc, uvs),
		}
		if len(normals) == len(positions) {
			attributes["NORMAL"] = modeler.WriteNormal(doc, normals)
		}
		indicesAccessor := modeler.WriteIndices(doc, indices)

		primitive := &gltf.Primitive{
			Indices:    &indicesAccessor,
			Attributes: attributes,
		}
		if res.Material != nil {
			idx, ok := materials[res.Material]
			if !ok {
				idx = writeMaterial(doc, res.Material)
				materials[res.Material] = idx
			}
			primitive.Material = gltf.Index(idx)
		}

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name:       res.Name,
			Primitives: []*gltf.Primitive{primitive},
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: res.Name,
			Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
		})
	}

	if len(doc.Meshes) == 0 {
		return nil, ErrNothingToExport
	}
	return doc, nil
}

func writeMaterial(doc *gltf.Document, m *formats.Material) uint32 {
	color := [4]float32{float32(m.Diffuse[0]), float32(m.Diffuse[1]), float32(m.Diffuse[2]), 1}
	mat := &gltf.Material{
		Name:        m.Name,
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &color,
		},
	}
	// An unset d leaves the material opaque
	if m.Dissolve > 0 && m.Dissolve < 1 {
		color[3] = float32(m.Dissolve)
		mat.AlphaMode = gltf.AlphaBlend
	}

	if m.DiffuseMap != "" {
		doc.Images = append(doc.Images, &gltf.Image{
			Name: m.Name + "_image",
			URI:  filepath.ToSlash(m.DiffuseMap),
		})
		doc.Textures = append(doc.Textures, &gltf.Texture{
			Name:   m.Name,
			Source: gltf.Index(uint32(len(doc.Images) - 1)),
		})
		mat.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{
			Index: uint32(len(doc.Textures) - 1),
		}
	}

	doc.Materials = append(doc.Materials, mat)
	return uint32(len(doc.Materials) - 1)
}

// Save writes doc as JSON glTF or binary glb, chosen by the extension of
// path.
func Save(doc *gltf.Document, path string) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".gltf":
		err = gltf.Save(doc, path)
	case ".glb":
		err = gltf.SaveBinary(doc, path)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "extension %q", ext)
	}
	return errors.Wrapf(err, "failed to save %s", path)
}

// OBJFiles writes every result with faces to its own OBJ file in dir and
// returns the written paths.
func OBJFiles(results []*remap.Result, dir string) ([]string, error) {
	var paths []string
	for i, res := range results {
		if res == nil || len(res.Faces) == 0 {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%03d_%s.obj", i, fileName(res.Name)))
		if err := formats.WriteOBJFile(path, res.IndexedMesh()); err != nil {
			return paths, errors.Wrapf(err, "failed to write sub-mesh %q", res.Name)
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return nil, ErrNothingToExport
	}
	return paths, nil
}

// fileName replaces characters that are unsafe in file names.
func fileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}
