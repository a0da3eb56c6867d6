package formats

import (
	"errors"
	"testing"
)

func TestParseYAMLDefaults(t *testing.T) {
	lvl, err := ParseYAML([]byte(`
id: plain
size: {w: 100, h: 80}
spawn: {x: 0, y: 0, w: 10, h: 10}
`))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if lvl.Name != "plain" {
		t.Errorf("name should default to id, got %q", lvl.Name)
	}
	if lvl.FallLimit != 80 {
		t.Errorf("fall limit should default to height, got %v", lvl.FallLimit)
	}
	if lvl.Oracle != nil {
		t.Error("oracle should be nil when absent")
	}
}

func TestParseYAMLInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing id", "size: {w: 10, h: 10}\nspawn: {w: 1, h: 1}"},
		{"zero size", "id: a\nsize: {w: 0, h: 10}\nspawn: {w: 1, h: 1}"},
		{"zero spawn", "id: a\nsize: {w: 10, h: 10}\nspawn: {w: 0, h: 1}"},
		{"wide spawn", "id: a\nsize: {w: 10, h: 10}\nspawn: {w: 11, h: 1}"},
		{"zero oracle", "id: a\nsize: {w: 10, h: 10}\nspawn: {w: 1, h: 1}\noracle: {w: 0, h: 1}"},
		{"zero platform", "id: a\nsize: {w: 10, h: 10}\nspawn: {w: 1, h: 1}\nplatforms:\n  - {w: 0, h: 1}"},
		{"unknown type", "id: a\nsize: {w: 10, h: 10}\nspawn: {w: 1, h: 1}\nplatforms:\n  - {w: 5, h: 1, type: lava}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.data))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestParseYAMLSyntaxError(t *testing.T) {
	_, err := ParseYAML([]byte("id: [unclosed"))
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	if errors.Is(err, ErrInvalid) {
		t.Error("syntax errors should not be reported as ErrInvalid")
	}
}
