package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// IndexedMesh is a single-index triangle mesh: every face corner indexes
// the same slot of Positions, TexCoords and Normals.
type IndexedMesh struct {
	Name      string
	Material  string
	Positions []Position
	TexCoords []TexCoord // Optional, aligned with Positions when present
	Normals   []Normal   // Optional, aligned with Positions when present
	Faces     [][3]uint32
}

// WriteOBJ writes a single-index mesh as OBJ text. Faces use the p/t/n,
// p/t, p//n or p form depending on which attribute buffers are present.
func WriteOBJ(w io.Writer, m *IndexedMesh) error {
	bw := bufio.NewWriter(w)

	if m.Name != "" {
		fmt.Fprintf(bw, "o %s\n", m.Name)
	}
	for _, p := range m.Positions {
		fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(p[0]), formatFloat(p[1]), formatFloat(p[2]))
	}
	for _, t := range m.TexCoords {
		fmt.Fprintf(bw, "vt %s %s\n", formatFloat(t[0]), formatFloat(t[1]))
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %s %s %s\n", formatFloat(n[0]), formatFloat(n[1]), formatFloat(n[2]))
	}
	if m.Material != "" {
		fmt.Fprintf(bw, "usemtl %s\n", m.Material)
	}

	hasTex := len(m.TexCoords) > 0
	hasNormal := len(m.Normals) > 0
	for _, f := range m.Faces {
		bw.WriteString("f")
		for _, idx := range f {
			// OBJ indices are 1-based
			i := idx + 1
			switch {
			case hasTex && hasNormal:
				fmt.Fprintf(bw, " %d/%d/%d", i, i, i)
			case hasTex:
				fmt.Fprintf(bw, " %d/%d", i, i)
			case hasNormal:
				fmt.Fprintf(bw, " %d//%d", i, i)
			default:
				fmt.Fprintf(bw, " %d", i)
			}
		}
		bw.WriteString("\n")
	}

	return bw.Flush()
}

// WriteOBJFile writes a single-index mesh to path, creating parent
// directories as needed.
func WriteOBJFile(path string, m *IndexedMesh) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOBJ(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
