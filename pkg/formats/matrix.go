package formats

import (
	"gonum.org/v1/gonum/mat"
)

// PositionMatrix returns the position buffer as an n×3 matrix.
// Returns nil if there are no positions.
func (o *OBJ) PositionMatrix() *mat.Dense {
	return vec3Matrix(o.Positions)
}

// NormalMatrix returns the normal buffer as an n×3 matrix.
// Returns nil if there are no normals.
func (o *OBJ) NormalMatrix() *mat.Dense {
	return vec3Matrix(o.Normals)
}

// TexCoordMatrix returns the texture coordinate buffer as an n×2 matrix.
// Returns nil if there are no texture coordinates.
func (o *OBJ) TexCoordMatrix() *mat.Dense {
	if len(o.TexCoords) == 0 {
		return nil
	}
	data := make([]float64, 0, len(o.TexCoords)*2)
	for _, t := range o.TexCoords {
		data = append(data, t[0], t[1])
	}
	return mat.NewDense(len(o.TexCoords), 2, data)
}

func vec3Matrix[V ~[3]float64](vs []V) *mat.Dense {
	if len(vs) == 0 {
		return nil
	}
	data := make([]float64, 0, len(vs)*3)
	for _, v := range vs {
		data = append(data, v[0], v[1], v[2])
	}
	return mat.NewDense(len(vs), 3, data)
}
