package normals

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func approxVec(a, b mgl64.Vec3) bool {
	const eps = 1e-9
	return math.Abs(a[0]-b[0]) < eps && math.Abs(a[1]-b[1]) < eps && math.Abs(a[2]-b[2]) < eps
}

func TestPerVertex_FlatQuad(t *testing.T) {
	positions := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	faces := [][3]uint32{{0, 1, 2}, {0, 2, 3}}

	for _, w := range []Weighting{Area, Angle, Uniform} {
		got := PerVertex(w)(positions, faces)
		if len(got) != 4 {
			t.Fatalf("%s: expected 4 normals, got %d", w, len(got))
		}
		for i, n := range got {
			if !approxVec(n, mgl64.Vec3{0, 0, 1}) {
				t.Errorf("%s: normal %d = %v, want +Z", w, i, n)
			}
		}
	}
}

func TestPerVertex_WeightingDiffers(t *testing.T) {
	// Vertex 0 is shared by a large face in the XY plane and a small face
	// in the XZ plane.
	positions := []mgl64.Vec3{
		{0, 0, 0}, {4, 0, 0}, {0, 4, 0}, // large, normal +Z
		{0, 0, 1}, {1, 0, 0}, // small, normal +Y
	}
	faces := [][3]uint32{{0, 1, 2}, {0, 3, 4}}

	uniform := PerVertex(Uniform)(positions, faces)[0]
	area := PerVertex(Area)(positions, faces)[0]

	want := mgl64.Vec3{0, 1, 1}.Normalize()
	if !approxVec(uniform, want) {
		t.Errorf("uniform normal = %v, want %v", uniform, want)
	}
	if area[2] <= area[1] {
		t.Errorf("area weighting should favor the larger face, got %v", area)
	}
	if !approxVec(PerVertex(Angle)(positions, faces)[0], want) {
		t.Errorf("both faces have a right angle at vertex 0, angle weighting should match uniform")
	}
}

func TestPerVertex_DegenerateAndIsolated(t *testing.T) {
	positions := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {5, 5, 5}}
	faces := [][3]uint32{{0, 1, 2}, {0, 1, 9}}

	got := PerVertex(Area)(positions, faces)
	for i, n := range got {
		if n != (mgl64.Vec3{}) {
			t.Errorf("normal %d = %v, want zero", i, n)
		}
	}
}

func TestFace(t *testing.T) {
	n := Face(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0})
	if !approxVec(n, mgl64.Vec3{0, 0, -1}) {
		t.Errorf("Face() = %v, want -Z for clockwise winding", n)
	}
}

func TestParseWeighting(t *testing.T) {
	tests := []struct {
		in      string
		want    Weighting
		wantErr bool
	}{
		{"", Area, false},
		{"area", Area, false},
		{"Angle", Angle, false},
		{"uniform", Uniform, false},
		{"cotangent", Area, true},
	}
	for _, tc := range tests {
		got, err := ParseWeighting(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseWeighting(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseWeighting(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if Angle.String() != "angle" {
		t.Errorf("Angle.String() = %q", Angle.String())
	}
}
