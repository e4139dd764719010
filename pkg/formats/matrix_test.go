package formats

import "testing"

func TestOBJMatrices(t *testing.T) {
	obj := &OBJ{
		Positions: []Position{{1, 2, 3}, {4, 5, 6}},
		TexCoords: []TexCoord{{0.25, 0.75}},
	}

	v := obj.PositionMatrix()
	if r, c := v.Dims(); r != 2 || c != 3 {
		t.Fatalf("position matrix dims = %dx%d, want 2x3", r, c)
	}
	if v.At(1, 2) != 6 {
		t.Errorf("V(1,2) = %v, want 6", v.At(1, 2))
	}

	tc := obj.TexCoordMatrix()
	if r, c := tc.Dims(); r != 1 || c != 2 {
		t.Fatalf("texcoord matrix dims = %dx%d, want 1x2", r, c)
	}
	if tc.At(0, 1) != 0.75 {
		t.Errorf("TC(0,1) = %v, want 0.75", tc.At(0, 1))
	}

	if obj.NormalMatrix() != nil {
		t.Error("expected nil normal matrix for an empty buffer")
	}
}
