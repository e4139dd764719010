package formats

import (
	"errors"
	"reflect"
	"testing"
)

func TestFirstToken(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"v 1 2 3", "v"},
		{"  \tvt 0.5 0.5", "vt"},
		{"usemtl", "usemtl"},
		{"", ""},
		{" \t ", ""},
		{"# comment", "#"},
	}

	for _, tc := range tests {
		if got := FirstToken(tc.line); got != tc.want {
			t.Errorf("FirstToken(%q) = %q, want %q", tc.line, got, tc.want)
		}
	}
}

func TestTail(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"v 1 2 3", "1 2 3"},
		{"usemtl   red metal  \t", "red metal"},
		{"  g\tcube", "cube"},
		{"g", ""},
		{"g   ", ""},
		{"", ""},
	}

	for _, tc := range tests {
		if got := Tail(tc.line); got != tc.want {
			t.Errorf("Tail(%q) = %q, want %q", tc.line, got, tc.want)
		}
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		text  string
		delim string
		want  []string
	}{
		{"1/2/3", "/", []string{"1", "2", "3"}},
		{"1//3", "/", []string{"1", "", "3"}},
		{"1/2", "/", []string{"1", "2"}},
		{"1", "/", []string{"1"}},
		{"/1", "/", []string{"", "1"}},
		{"1/", "/", []string{"1"}},
		{"1//", "/", []string{"1", ""}},
		{"a::b", "::", []string{"a", "b"}},
		{"", "/", nil},
	}

	for _, tc := range tests {
		got := Split(tc.text, tc.delim)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Split(%q, %q) = %q, want %q", tc.text, tc.delim, got, tc.want)
		}
	}
}

func TestResolveIndex(t *testing.T) {
	tests := []struct {
		token   string
		size    int
		want    int
		wantErr bool
	}{
		{"1", 4, 0, false},
		{"4", 4, 3, false},
		{"7", 4, 6, false}, // not range checked
		{"-1", 4, 3, false},
		{"-4", 4, 0, false},
		{"-1", 1, 0, false},
		{"0", 4, 0, true},
		{"x", 4, 0, true},
		{"1.5", 4, 0, true},
	}

	for _, tc := range tests {
		got, err := ResolveIndex(tc.token, tc.size)
		if (err != nil) != tc.wantErr {
			t.Errorf("ResolveIndex(%q, %d) error = %v, wantErr %v", tc.token, tc.size, err, tc.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, ErrMalformedNumericField) {
				t.Errorf("ResolveIndex(%q) error = %v, want ErrMalformedNumericField", tc.token, err)
			}
			continue
		}
		if got != tc.want {
			t.Errorf("ResolveIndex(%q, %d) = %d, want %d", tc.token, tc.size, got, tc.want)
		}
	}
}

func TestParseFloats(t *testing.T) {
	got, err := parseFloats("1.5  -2 3e2 1.0", 3)
	if err != nil {
		t.Fatalf("parseFloats failed: %v", err)
	}
	want := []float64{1.5, -2, 300}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseFloats() = %v, want %v", got, want)
	}

	if _, err := parseFloats("1 2", 3); !errors.Is(err, ErrMalformedNumericField) {
		t.Errorf("expected ErrMalformedNumericField for short input, got %v", err)
	}
	if _, err := parseFloats("1 two 3", 3); !errors.Is(err, ErrMalformedNumericField) {
		t.Errorf("expected ErrMalformedNumericField for bad number, got %v", err)
	}
}
