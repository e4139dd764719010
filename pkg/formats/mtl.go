package formats

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/objremap/pkg/encoding"
)

// MaterialLibrary represents a parsed MTL file.
type MaterialLibrary struct {
	Path        string
	Materials   []Material
	Diagnostics []Diagnostic
}

// MTLOption configures MTL parsing.
type MTLOption func(*mtlConfig)

type mtlConfig struct {
	log     *zap.Logger
	decoder encoding.Decoder
}

// WithMTLLogger sets the logger used for diagnostics.
func WithMTLLogger(log *zap.Logger) MTLOption {
	return func(c *mtlConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMTLDecoder decodes the input from a legacy charset.
func WithMTLDecoder(dec encoding.Decoder) MTLOption {
	return func(c *mtlConfig) {
		c.decoder = dec
	}
}

// ParseMTL parses an MTL material library from raw bytes.
func ParseMTL(data []byte, opts ...MTLOption) (*MaterialLibrary, error) {
	cfg := mtlConfig{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	data = encoding.TrimBOM(encoding.Decode(data, cfg.decoder))

	lib := &MaterialLibrary{}
	var cur *Material
	lineNum := 0

	warn := func(directive string, err error) {
		d := Diagnostic{Line: lineNum, Directive: directive, Err: err}
		lib.Diagnostics = append(lib.Diagnostics, d)
		cfg.log.Warn("skipping material directive", zap.Int("line", lineNum),
			zap.String("directive", directive), zap.Error(err))
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		keyword := FirstToken(line)
		if keyword == "" || strings.HasPrefix(keyword, "#") {
			continue
		}

		if keyword == "newmtl" {
			if cur != nil {
				lib.Materials = append(lib.Materials, *cur)
			}
			cur = &Material{Name: Tail(line)}
			continue
		}

		// Field directives before the first newmtl have nothing to apply to
		if cur == nil {
			continue
		}

		tail := Tail(line)
		switch keyword {
		case "Ka", "Kd", "Ks":
			color, err := parseColor(tail)
			if err != nil {
				warn(keyword, err)
				continue
			}
			switch keyword {
			case "Ka":
				cur.Ambient = color
			case "Kd":
				cur.Diffuse = color
			case "Ks":
				cur.Specular = color
			}
		case "Ns", "Ni", "d":
			v, err := strconv.ParseFloat(tail, 64)
			if err != nil {
				warn(keyword, fmt.Errorf("%w: %q", ErrMalformedNumericField, tail))
				continue
			}
			switch keyword {
			case "Ns":
				cur.SpecularExponent = v
			case "Ni":
				cur.OpticalDensity = v
			case "d":
				cur.Dissolve = v
			}
		case "illum":
			v, err := strconv.Atoi(tail)
			if err != nil {
				warn(keyword, fmt.Errorf("%w: %q", ErrMalformedNumericField, tail))
				continue
			}
			cur.Illumination = v
		case "map_Ka":
			cur.AmbientMap = tail
		case "map_Kd":
			cur.DiffuseMap = tail
		case "map_Ks":
			cur.SpecularMap = tail
		case "map_Ns":
			cur.SpecularHighlightMap = tail
		case "map_d":
			cur.AlphaMap = tail
		case "map_Bump", "map_bump", "bump":
			cur.BumpMap = tail
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading MTL data: %w", err)
	}

	if cur != nil {
		lib.Materials = append(lib.Materials, *cur)
	}
	if len(lib.Materials) == 0 {
		return nil, ErrNoMaterialsParsed
	}

	return lib, nil
}

// ParseMTLFile parses an MTL file from disk.
func ParseMTLFile(path string, opts ...MTLOption) (*MaterialLibrary, error) {
	if !strings.EqualFold(filepath.Ext(path), ".mtl") {
		return nil, fmt.Errorf("%w: %s", ErrNotMTLFile, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, err)
	}

	lib, err := ParseMTL(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	lib.Path = path
	return lib, nil
}

// parseColor parses an RGB triple. Anything other than exactly three
// numbers is rejected.
func parseColor(text string) (mgl64.Vec3, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("%w: expected 3 color values, got %d", ErrMalformedNumericField, len(fields))
	}
	values, err := parseFloats(text, 3)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return mgl64.Vec3{values[0], values[1], values[2]}, nil
}
