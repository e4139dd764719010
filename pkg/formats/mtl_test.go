package formats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const testMTL = `# two materials
newmtl red
Ka 0.1 0.0 0.0
Kd 0.8 0.1 0.1
Ks 0.5 0.5 0.5
Ns 96.0
Ni 1.45
d 0.75
illum 2
map_Ka textures/red_ambient.png
map_Kd textures/red diffuse.png
map_Ks red_spec.png
map_Ns red_ns.png
map_d red_alpha.png
map_Bump red_bump.png

newmtl blue
Kd 0.1 0.1 0.9
bump -bm 0.5 blue_bump.png
`

func TestParseMTL_Fields(t *testing.T) {
	lib, err := ParseMTL([]byte(testMTL))
	if err != nil {
		t.Fatalf("ParseMTL failed: %v", err)
	}

	if len(lib.Materials) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(lib.Materials))
	}

	red := lib.Materials[0]
	if red.Name != "red" {
		t.Errorf("expected name 'red', got %q", red.Name)
	}
	if red.Ambient != (mgl64.Vec3{0.1, 0, 0}) {
		t.Errorf("unexpected Ka %v", red.Ambient)
	}
	if red.Diffuse != (mgl64.Vec3{0.8, 0.1, 0.1}) {
		t.Errorf("unexpected Kd %v", red.Diffuse)
	}
	if red.Specular != (mgl64.Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("unexpected Ks %v", red.Specular)
	}
	if red.SpecularExponent != 96 {
		t.Errorf("expected Ns 96, got %v", red.SpecularExponent)
	}
	if red.OpticalDensity != 1.45 {
		t.Errorf("expected Ni 1.45, got %v", red.OpticalDensity)
	}
	if red.Dissolve != 0.75 {
		t.Errorf("expected d 0.75, got %v", red.Dissolve)
	}
	if red.Illumination != 2 {
		t.Errorf("expected illum 2, got %d", red.Illumination)
	}
	if red.AmbientMap != "textures/red_ambient.png" {
		t.Errorf("unexpected map_Ka %q", red.AmbientMap)
	}
	if red.DiffuseMap != "textures/red diffuse.png" {
		t.Errorf("map_Kd should keep the full tail, got %q", red.DiffuseMap)
	}
	if red.SpecularMap != "red_spec.png" || red.SpecularHighlightMap != "red_ns.png" {
		t.Errorf("unexpected specular maps %q %q", red.SpecularMap, red.SpecularHighlightMap)
	}
	if red.AlphaMap != "red_alpha.png" || red.BumpMap != "red_bump.png" {
		t.Errorf("unexpected alpha/bump maps %q %q", red.AlphaMap, red.BumpMap)
	}

	blue := lib.Materials[1]
	if blue.Name != "blue" {
		t.Errorf("expected name 'blue', got %q", blue.Name)
	}
	if blue.BumpMap != "-bm 0.5 blue_bump.png" {
		t.Errorf("unexpected bump %q", blue.BumpMap)
	}
	if blue.Ambient != (mgl64.Vec3{}) || blue.Illumination != 0 || blue.Dissolve != 0 {
		t.Errorf("unset fields should keep zero defaults: %+v", blue)
	}
}

func TestParseMTL_BumpAliases(t *testing.T) {
	for _, kw := range []string{"map_Bump", "map_bump", "bump"} {
		lib, err := ParseMTL([]byte("newmtl m\n" + kw + " b.png\n"))
		if err != nil {
			t.Fatalf("%s: ParseMTL failed: %v", kw, err)
		}
		if lib.Materials[0].BumpMap != "b.png" {
			t.Errorf("%s: expected bump map b.png, got %q", kw, lib.Materials[0].BumpMap)
		}
	}
}

func TestParseMTL_ColorArity(t *testing.T) {
	data := "newmtl m\nKd 0.5 0.5 0.5\nKd 1 1\nKa 1 1 1 1\nKs 0.2 x 0.2\n"

	lib, err := ParseMTL([]byte(data))
	if err != nil {
		t.Fatalf("ParseMTL failed: %v", err)
	}

	m := lib.Materials[0]
	if m.Diffuse != (mgl64.Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("two-value Kd must be ignored, got %v", m.Diffuse)
	}
	if m.Ambient != (mgl64.Vec3{}) {
		t.Errorf("four-value Ka must be ignored, got %v", m.Ambient)
	}
	if m.Specular != (mgl64.Vec3{}) {
		t.Errorf("non-numeric Ks must be ignored, got %v", m.Specular)
	}
	if len(lib.Diagnostics) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d: %v", len(lib.Diagnostics), lib.Diagnostics)
	}
	for _, d := range lib.Diagnostics {
		if !errors.Is(d, ErrMalformedNumericField) {
			t.Errorf("expected ErrMalformedNumericField, got %v", d)
		}
	}
	if lib.Diagnostics[0].Line != 3 {
		t.Errorf("expected first diagnostic on line 3, got %d", lib.Diagnostics[0].Line)
	}
}

func TestParseMTL_MalformedScalar(t *testing.T) {
	lib, err := ParseMTL([]byte("newmtl m\nNs 10\nNs high\nillum two\n"))
	if err != nil {
		t.Fatalf("ParseMTL failed: %v", err)
	}
	if lib.Materials[0].SpecularExponent != 10 {
		t.Errorf("malformed Ns must not overwrite, got %v", lib.Materials[0].SpecularExponent)
	}
	if len(lib.Diagnostics) != 2 {
		t.Errorf("expected 2 diagnostics, got %d", len(lib.Diagnostics))
	}
}

func TestParseMTL_NoMaterials(t *testing.T) {
	_, err := ParseMTL([]byte("# nothing here\nKd 1 1 1\n"))
	if !errors.Is(err, ErrNoMaterialsParsed) {
		t.Errorf("expected ErrNoMaterialsParsed, got %v", err)
	}
}

func TestParseMTLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.mtl")
	if err := os.WriteFile(path, []byte(testMTL), 0644); err != nil {
		t.Fatalf("failed to write test MTL: %v", err)
	}

	lib, err := ParseMTLFile(path)
	if err != nil {
		t.Fatalf("ParseMTLFile failed: %v", err)
	}
	if lib.Path != path {
		t.Errorf("expected path %s, got %s", path, lib.Path)
	}
	if len(lib.Materials) != 2 {
		t.Errorf("expected 2 materials, got %d", len(lib.Materials))
	}
}

func TestParseMTLFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ParseMTLFile(filepath.Join(dir, "scene.txt"))
	if !errors.Is(err, ErrNotMTLFile) {
		t.Errorf("expected ErrNotMTLFile, got %v", err)
	}

	_, err = ParseMTLFile(filepath.Join(dir, "missing.mtl"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}

	empty := filepath.Join(dir, "empty.mtl")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatalf("failed to write empty MTL: %v", err)
	}
	_, err = ParseMTLFile(empty)
	if !errors.Is(err, ErrNoMaterialsParsed) {
		t.Errorf("expected ErrNoMaterialsParsed, got %v", err)
	}
}
