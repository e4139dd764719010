package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/objremap/pkg/encoding"
)

// UnnamedSubMesh is the name given to faces outside any named o/g group.
const UnnamedSubMesh = "unnamed"

// MaterialLoader loads the material library named by an mtllib directive.
type MaterialLoader func(name string) (*MaterialLibrary, error)

// OBJOption configures OBJ parsing.
type OBJOption func(*objConfig)

type objConfig struct {
	log           *zap.Logger
	decoder       encoding.Decoder
	loadMaterials MaterialLoader
	progressEvery int
}

// WithLogger sets the logger used for diagnostics and progress.
func WithLogger(log *zap.Logger) OBJOption {
	return func(c *objConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithDecoder decodes the input from a legacy charset.
func WithDecoder(dec encoding.Decoder) OBJOption {
	return func(c *objConfig) {
		c.decoder = dec
	}
}

// WithMaterialLoader sets how mtllib directives are resolved. Without a
// loader, ParseOBJ ignores mtllib; ParseOBJFile loads sibling files.
func WithMaterialLoader(load MaterialLoader) OBJOption {
	return func(c *objConfig) {
		c.loadMaterials = load
	}
}

// WithProgress logs a progress line at debug level every n input lines.
// Zero disables progress logging.
func WithProgress(every int) OBJOption {
	return func(c *objConfig) {
		c.progressEvery = every
	}
}

// objParser holds the accumulation state of one parse pass.
type objParser struct {
	cfg     objConfig
	obj     *OBJ
	lineNum int

	listening bool
	name      string          // Name of the sub-mesh being accumulated
	baseName  string          // Group name material fragments derive from
	material  string          // Active usemtl name
	faces     []Face          // Faces accumulated for the current sub-mesh
	used      map[string]bool // Names of closed sub-meshes
}

// ParseOBJ parses OBJ data from a byte slice.
func ParseOBJ(data []byte, opts ...OBJOption) (*OBJ, error) {
	cfg := objConfig{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &objParser{
		cfg:  cfg,
		obj:  &OBJ{},
		used: make(map[string]bool),
	}
	return p.parse(encoding.TrimBOM(encoding.Decode(data, cfg.decoder)))
}

// ParseOBJFile parses an OBJ file from disk. Material libraries referenced
// by mtllib are loaded from the mesh file's directory unless a loader is
// supplied with WithMaterialLoader.
func ParseOBJFile(path string, opts ...OBJOption) (*OBJ, error) {
	if !strings.EqualFold(filepath.Ext(path), ".obj") {
		return nil, fmt.Errorf("%w: %s", ErrNotAnObjFile, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, err)
	}

	var cfg objConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	siblings := func(name string) (*MaterialLibrary, error) {
		return ParseMTLFile(ResolveSiblingPath(path, name),
			WithMTLLogger(cfg.log), WithMTLDecoder(cfg.decoder))
	}

	obj, err := ParseOBJ(data, append([]OBJOption{WithMaterialLoader(siblings)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	obj.Path = path
	return obj, nil
}

// ResolveSiblingPath returns the path of a file named relative to the
// directory containing meshPath.
func ResolveSiblingPath(meshPath, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(filepath.Dir(meshPath), name)
}

func (p *objParser) parse(data []byte) (*OBJ, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		p.lineNum++
		if err := p.parseLine(strings.TrimRight(scanner.Text(), "\r")); err != nil {
			return nil, fmt.Errorf("line %d: %w", p.lineNum, err)
		}
		if p.cfg.progressEvery > 0 && p.lineNum%p.cfg.progressEvery == 0 {
			p.logProgress()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ data: %w", err)
	}

	if len(p.faces) > 0 {
		p.closeSubMesh()
	}

	obj := p.obj
	if len(obj.Positions) == 0 && len(obj.SubMeshes) == 0 {
		return nil, ErrEmptyModel
	}
	if err := obj.checkIndices(); err != nil {
		return nil, err
	}

	for i := range obj.SubMeshes {
		sm := &obj.SubMeshes[i]
		if sm.MaterialName == "" {
			continue
		}
		if sm.Material = obj.FindMaterial(sm.MaterialName); sm.Material == nil {
			p.cfg.log.Warn("material not found",
				zap.String("submesh", sm.Name), zap.String("material", sm.MaterialName))
		}
	}

	p.cfg.log.Debug("parsed OBJ",
		zap.Int("positions", len(obj.Positions)),
		zap.Int("texcoords", len(obj.TexCoords)),
		zap.Int("normals", len(obj.Normals)),
		zap.Int("submeshes", len(obj.SubMeshes)),
		zap.Int("materials", len(obj.Materials)),
		zap.Int("diagnostics", len(obj.Diagnostics)))

	return obj, nil
}

// parseLine applies one input line. A returned error aborts the parse;
// recoverable problems are recorded as diagnostics instead.
func (p *objParser) parseLine(line string) error {
	keyword := FirstToken(line)
	tail := Tail(line)

	switch keyword {
	case "v":
		values, err := parseFloats(tail, 3)
		if err != nil {
			p.diagnose(keyword, err)
			return nil
		}
		p.obj.Positions = append(p.obj.Positions, Position{values[0], values[1], values[2]})

	case "vt":
		values, err := parseFloats(tail, 2)
		if err != nil {
			p.diagnose(keyword, err)
			return nil
		}
		p.obj.TexCoords = append(p.obj.TexCoords, TexCoord{values[0], values[1]})

	case "vn":
		values, err := parseFloats(tail, 3)
		if err != nil {
			p.diagnose(keyword, err)
			return nil
		}
		p.obj.Normals = append(p.obj.Normals, Normal{values[0], values[1], values[2]})

	case "f":
		face, err := p.parseFace(tail)
		if errors.Is(err, ErrIndexOutOfRange) {
			return err
		}
		if err != nil {
			p.diagnose(keyword, err)
			return nil
		}
		p.faces = append(p.faces, face)

	case "o", "g":
		name := tail
		if name == "" {
			name = UnnamedSubMesh
		}
		if p.listening && len(p.faces) > 0 {
			p.closeSubMesh()
		}
		p.listening = true
		p.name = name
		p.baseName = name

	case "usemtl":
		if len(p.faces) > 0 && len(p.obj.Positions) > 0 {
			p.closeSubMesh()
			p.name = p.fragmentName()
		}
		p.material = tail

	case "mtllib":
		p.loadMaterials(tail)
	}

	return nil
}

// parseFace parses the three vertex records of an f directive.
func (p *objParser) parseFace(tail string) (Face, error) {
	var face Face

	records := strings.Fields(tail)
	if len(records) != 3 {
		return face, fmt.Errorf("%w: expected 3 vertices, got %d", ErrMalformedFace, len(records))
	}

	for i, record := range records {
		corner, err := p.parseCorner(record)
		if err != nil {
			if errors.Is(err, ErrIndexOutOfRange) {
				return face, fmt.Errorf("vertex %d %q: %w", i, record, err)
			}
			return face, fmt.Errorf("%w: vertex %d %q: %w", ErrMalformedFace, i, record, err)
		}
		face[i] = corner
	}

	return face, nil
}

// parseCorner parses one p, p/t, p//n or p/t/n vertex record.
func (p *objParser) parseCorner(record string) (Corner, error) {
	var c Corner

	fields := Split(record, "/")
	if len(fields) == 0 || len(fields) > 3 || fields[0] == "" {
		return c, errors.New("unrecognized vertex record")
	}

	pos, err := p.resolve(fields[0], len(p.obj.Positions))
	if err != nil {
		return c, err
	}
	c.Position = pos

	if len(fields) >= 2 && fields[1] != "" {
		tc, err := p.resolve(fields[1], len(p.obj.TexCoords))
		if err != nil {
			return c, err
		}
		c.TexCoord = Some(tc)
	}

	if len(fields) == 3 {
		if fields[2] == "" {
			return c, errors.New("empty normal index")
		}
		n, err := p.resolve(fields[2], len(p.obj.Normals))
		if err != nil {
			return c, err
		}
		c.Normal = Some(n)
	}

	return c, nil
}

// resolve converts an index token against a buffer of the given size.
// Negative indices are relative to the buffer as it is now, so a result
// below zero can never become valid later.
func (p *objParser) resolve(token string, size int) (int, error) {
	idx, err := ResolveIndex(token, size)
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		return 0, fmt.Errorf("%w: relative index %s with %d elements", ErrIndexOutOfRange, token, size)
	}
	return idx, nil
}

// closeSubMesh snapshots the accumulated faces into a SubMesh.
func (p *objParser) closeSubMesh() {
	if len(p.faces) > 0 && len(p.obj.Positions) > 0 {
		name := p.name
		if name == "" {
			name = UnnamedSubMesh
		}
		p.obj.SubMeshes = append(p.obj.SubMeshes, SubMesh{
			Name:         name,
			Faces:        p.faces,
			MaterialName: p.material,
		})
		p.used[name] = true
	}
	p.faces = nil
}

// fragmentName returns base_K for the smallest K >= 2 not yet used by any
// sub-mesh.
func (p *objParser) fragmentName() string {
	base := p.baseName
	if base == "" {
		base = UnnamedSubMesh
	}
	for k := 2; ; k++ {
		name := fmt.Sprintf("%s_%d", base, k)
		if !p.used[name] {
			return name
		}
	}
}

func (p *objParser) loadMaterials(name string) {
	if p.cfg.loadMaterials == nil {
		p.cfg.log.Debug("no material loader, ignoring mtllib", zap.String("library", name))
		return
	}

	lib, err := p.cfg.loadMaterials(name)
	if err != nil {
		p.diagnose("mtllib", err)
		return
	}
	p.obj.Materials = append(p.obj.Materials, lib.Materials...)
	p.cfg.log.Debug("loaded material library",
		zap.String("library", name), zap.Int("materials", len(lib.Materials)))
}

func (p *objParser) diagnose(directive string, err error) {
	d := Diagnostic{Line: p.lineNum, Directive: directive, Err: err}
	p.obj.Diagnostics = append(p.obj.Diagnostics, d)
	p.cfg.log.Warn("skipping line", zap.Int("line", p.lineNum),
		zap.String("directive", directive), zap.Error(err))
}

func (p *objParser) logProgress() {
	p.cfg.log.Debug("parsing",
		zap.String("submesh", p.name),
		zap.Int("line", p.lineNum),
		zap.Int("positions", len(p.obj.Positions)),
		zap.Int("texcoords", len(p.obj.TexCoords)),
		zap.Int("normals", len(p.obj.Normals)),
		zap.Int("triangles", len(p.faces)),
		zap.String("material", p.material))
}

// checkIndices verifies every face corner references existing elements.
func (o *OBJ) checkIndices() error {
	for i := range o.SubMeshes {
		sm := &o.SubMeshes[i]
		for f, face := range sm.Faces {
			for c, corner := range face {
				if corner.Position >= len(o.Positions) {
					return fmt.Errorf("%w: sub-mesh %q face %d corner %d: position %d, have %d",
						ErrIndexOutOfRange, sm.Name, f, c, corner.Position+1, len(o.Positions))
				}
				if corner.TexCoord.Valid && corner.TexCoord.Value >= len(o.TexCoords) {
					return fmt.Errorf("%w: sub-mesh %q face %d corner %d: texcoord %d, have %d",
						ErrIndexOutOfRange, sm.Name, f, c, corner.TexCoord.Value+1, len(o.TexCoords))
				}
				if corner.Normal.Valid && corner.Normal.Value >= len(o.Normals) {
					return fmt.Errorf("%w: sub-mesh %q face %d corner %d: normal %d, have %d",
						ErrIndexOutOfRange, sm.Name, f, c, corner.Normal.Value+1, len(o.Normals))
				}
			}
		}
	}
	return nil
}
