package formats

import (
	"fmt"
	"strconv"
	"strings"
)

const whitespace = " \t"

// FirstToken returns the leading run of non-whitespace characters of line,
// or "" for a blank line.
func FirstToken(line string) string {
	start := strings.IndexFunc(line, notSpace)
	if start < 0 {
		return ""
	}
	rest := line[start:]
	if end := strings.IndexAny(rest, whitespace); end >= 0 {
		return rest[:end]
	}
	return rest
}

// Tail returns everything after the first token and the whitespace that
// follows it, trimmed on both ends.
func Tail(line string) string {
	start := strings.IndexFunc(line, notSpace)
	if start < 0 {
		return ""
	}
	rest := line[start:]
	end := strings.IndexAny(rest, whitespace)
	if end < 0 {
		return ""
	}
	return strings.Trim(rest[end:], whitespace)
}

// Split splits text on every occurrence of the literal delimiter.
//
// Consecutive delimiters produce empty fields, so positional access stays
// stable ("1//3" yields "1", "", "3"). A trailing delimiter does not add a
// trailing empty field and empty input yields no fields.
func Split(text, delim string) []string {
	if text == "" {
		return nil
	}
	if delim == "" {
		return []string{text}
	}
	fields := strings.Split(text, delim)
	if fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}

// ResolveIndex converts a 1-based OBJ index token into a 0-based index.
//
// Negative indices count back from the end of a buffer that currently
// holds size elements, so -1 is the most recently added element. The
// result is not range checked.
func ResolveIndex(token string, size int) (int, error) {
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", ErrMalformedNumericField, token)
	}
	switch {
	case n > 0:
		return n - 1, nil
	case n < 0:
		return size + n, nil
	default:
		return 0, fmt.Errorf("%w: index 0 is not valid", ErrMalformedNumericField)
	}
}

// parseFloats parses exactly n whitespace-separated numbers from the front
// of text. Extra trailing fields are ignored.
func parseFloats(text string, n int) ([]float64, error) {
	fields := strings.Fields(text)
	if len(fields) < n {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrMalformedNumericField, n, len(fields))
	}
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedNumericField, fields[i])
		}
		values[i] = v
	}
	return values, nil
}

func notSpace(r rune) bool {
	return r != ' ' && r != '\t'
}
