// Package normals computes per-vertex normals for indexed triangle meshes.
package normals

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Func computes one normal per vertex from vertex positions and triangle
// indices into them. The result has len(positions) entries.
type Func func(positions []mgl64.Vec3, faces [][3]uint32) []mgl64.Vec3

// Weighting selects how face normals contribute to the vertices they touch.
type Weighting int

const (
	// Area weights each face normal by the face area.
	Area Weighting = iota
	// Angle weights each face normal by the interior angle at the vertex.
	Angle
	// Uniform gives every incident face the same weight.
	Uniform
)

// String returns the configuration name of the weighting.
func (w Weighting) String() string {
	switch w {
	case Area:
		return "area"
	case Angle:
		return "angle"
	case Uniform:
		return "uniform"
	default:
		return fmt.Sprintf("Unknown(%d)", int(w))
	}
}

// ParseWeighting parses a weighting name as used in configuration files.
func ParseWeighting(s string) (Weighting, error) {
	switch strings.ToLower(s) {
	case "", "area":
		return Area, nil
	case "angle":
		return Angle, nil
	case "uniform":
		return Uniform, nil
	default:
		return Area, fmt.Errorf("unknown normal weighting %q", s)
	}
}

// PerVertex returns a Func that averages face normals with weighting w.
//
// Degenerate faces contribute nothing. Vertices not referenced by any
// non-degenerate face get a zero normal. Faces with out-of-range indices
// are ignored.
func PerVertex(w Weighting) Func {
	return func(positions []mgl64.Vec3, faces [][3]uint32) []mgl64.Vec3 {
		sums := make([]mgl64.Vec3, len(positions))

		for _, f := range faces {
			if int(f[0]) >= len(positions) || int(f[1]) >= len(positions) || int(f[2]) >= len(positions) {
				continue
			}
			p := [3]mgl64.Vec3{positions[f[0]], positions[f[1]], positions[f[2]]}

			// Cross product length is twice the face area
			cross := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
			length := cross.Len()
			if length == 0 {
				continue
			}
			unit := cross.Mul(1 / length)

			for k := 0; k < 3; k++ {
				var weight float64
				switch w {
				case Angle:
					weight = cornerAngle(p[k], p[(k+1)%3], p[(k+2)%3])
				case Uniform:
					weight = 1
				default:
					weight = length / 2
				}
				sums[f[k]] = sums[f[k]].Add(unit.Mul(weight))
			}
		}

		for i, n := range sums {
			sums[i] = normalize(n)
		}
		return sums
	}
}

// Face returns the unit normal of a counter-clockwise triangle, or zero for
// a degenerate one.
func Face(a, b, c mgl64.Vec3) mgl64.Vec3 {
	return normalize(b.Sub(a).Cross(c.Sub(a)))
}

// cornerAngle returns the interior angle at vertex a of triangle (a, b, c).
func cornerAngle(a, b, c mgl64.Vec3) float64 {
	u := b.Sub(a)
	v := c.Sub(a)
	lu, lv := u.Len(), v.Len()
	if lu == 0 || lv == 0 {
		return 0
	}
	cos := u.Dot(v) / (lu * lv)
	return math.Acos(mgl64.Clamp(cos, -1, 1))
}

func normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}
