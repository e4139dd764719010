// Package encoding provides text encoding utilities for OBJ and MTL input.
//
// Wavefront files exported by older tools frequently carry object, group
// and material names in a legacy 8-bit charset. The parsers decode the raw
// bytes to UTF-8 before tokenizing so names compare correctly.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned by Lookup for unsupported charset names.
var ErrUnknownEncoding = errors.New("unknown text encoding")

// Decoder converts raw input bytes to UTF-8. A nil Decoder means the
// input is already UTF-8.
type Decoder = *encoding.Decoder

// Lookup returns the decoder for a charset name. Names are
// case-insensitive; "" and "utf-8" return a nil decoder.
func Lookup(name string) (Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	case "euc-kr", "euckr":
		return korean.EUCKR.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
}

// Decode converts data to UTF-8 using dec. Returns data unchanged when dec
// is nil or the conversion fails.
func Decode(data []byte, dec Decoder) []byte {
	if dec == nil {
		return data
	}
	result, _, err := transform.Bytes(dec, data)
	if err != nil {
		return data
	}
	return result
}

// TrimBOM strips a leading UTF-8 byte order mark.
func TrimBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}
