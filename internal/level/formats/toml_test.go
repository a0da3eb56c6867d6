package formats

import (
	"errors"
	"testing"
)

const caveTOML = `
id = "cave"
name = "Cave"
size = { w = 600, h = 400 }
fall_limit = 450
spawn = { x = 10, y = 300, w = 30, h = 50 }
oracle = { x = 550, y = 100, w = 40, h = 40 }

[metadata]
hint = "Look up."

[[platforms]]
x = 0
y = 380
w = 600
h = 20

[[platforms]]
x = 200
y = 250
w = 80
h = 15
hidden = true
type = "ice"
`

func TestParseTOML(t *testing.T) {
	lvl, err := ParseTOML([]byte(caveTOML))
	if err != nil {
		t.Fatalf("ParseTOML failed: %v", err)
	}

	if lvl.ID != "cave" || lvl.Name != "Cave" || lvl.Width != 600 || lvl.Height != 400 {
		t.Errorf("unexpected header %+v", lvl)
	}
	if lvl.FallLimit != 450 {
		t.Errorf("expected fall limit 450, got %v", lvl.FallLimit)
	}
	if lvl.Spawn != (Box{X: 10, Y: 300, W: 30, H: 50}) {
		t.Errorf("unexpected spawn %+v", lvl.Spawn)
	}
	if lvl.Oracle == nil || *lvl.Oracle != (Box{X: 550, Y: 100, W: 40, H: 40}) {
		t.Errorf("unexpected oracle %+v", lvl.Oracle)
	}
	if len(lvl.Platforms) != 2 {
		t.Fatalf("expected 2 platforms, got %d", len(lvl.Platforms))
	}
	p := lvl.Platforms[1]
	if !p.Hidden || p.Type != "ice" || p.Box != (Box{X: 200, Y: 250, W: 80, H: 15}) {
		t.Errorf("unexpected platform %+v", p)
	}
	if lvl.Metadata["hint"] != "Look up." {
		t.Errorf("unexpected metadata %v", lvl.Metadata)
	}
}

func TestParseTOMLMatchesYAMLRules(t *testing.T) {
	lvl, err := ParseTOML([]byte(`
id = "plain"
size = { w = 100, h = 80 }
spawn = { w = 10, h = 10 }
`))
	if err != nil {
		t.Fatalf("ParseTOML failed: %v", err)
	}
	if lvl.Name != "plain" || lvl.FallLimit != 80 {
		t.Errorf("defaults not applied: %+v", lvl)
	}

	_, err = ParseTOML([]byte(`
id = "bad"
size = { w = 100, h = 80 }
spawn = { w = 10, h = 10 }

[[platforms]]
w = 5
h = 1
type = "lava"
`))
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}

	_, err = ParseTOML([]byte(`id = `))
	if err == nil || errors.Is(err, ErrInvalid) {
		t.Errorf("expected a syntax error, got %v", err)
	}
}
