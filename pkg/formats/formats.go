// Package formats provides parsers for the Wavefront OBJ mesh format and
// its MTL material library companion.
//
// OBJ parsing is a single sequential pass. Structural problems (wrong file
// extension, unreadable file, empty model, indices pointing outside the
// vertex buffers) abort the parse. Problems confined to one line, such as a
// face with the wrong number of corners or an unparsable number, are
// recorded as Diagnostics and the offending line is skipped.
package formats

import (
	"errors"
	"fmt"
)

// Parse errors.
var (
	ErrNotAnObjFile          = errors.New("not an OBJ file")
	ErrNotMTLFile            = errors.New("not an MTL file")
	ErrFileNotFound          = errors.New("file not found")
	ErrMalformedFace         = errors.New("malformed face")
	ErrMalformedNumericField = errors.New("malformed numeric field")
	ErrNoMaterialsParsed     = errors.New("no materials parsed")
	ErrEmptyModel            = errors.New("empty model")
	ErrIndexOutOfRange       = errors.New("index out of range")
)

// Diagnostic is a recoverable problem found on a single input line.
type Diagnostic struct {
	Line      int    // 1-based line number
	Directive string // Leading keyword of the line
	Err       error
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("line %d (%s): %v", d.Line, d.Directive, d.Err)
}

// Unwrap returns the underlying error.
func (d Diagnostic) Unwrap() error {
	return d.Err
}
