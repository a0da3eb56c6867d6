package core

import "testing"

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	if f.Has(ActionJump) {
		t.Error("new frame should be empty")
	}

	f.Set(ActionJump)
	f.Set(ActionLeft)
	clone := f.Clone()
	f.Clear()

	if f.Has(ActionJump) || f.Has(ActionLeft) {
		t.Error("Clear should drop all actions")
	}
	if !clone.Has(ActionJump) || !clone.Has(ActionLeft) {
		t.Error("Clone should be independent from the original")
	}

	var zero InputFrame
	if zero.Has(ActionRight) {
		t.Error("zero frame should report nothing")
	}
	zero.Set(ActionRight)
	if !zero.Has(ActionRight) {
		t.Error("Set on zero frame should allocate")
	}
}

func TestHeldKeysWindow(t *testing.T) {
	h := NewHeldKeys(3)
	h.Press(ActionLeft)

	for tick := 0; tick < 3; tick++ {
		f := NewInputFrame()
		h.Fill(&f)
		if !f.Has(ActionLeft) {
			t.Fatalf("tick %d: Left should still be held", tick)
		}
		h.Advance()
	}

	f := NewInputFrame()
	h.Fill(&f)
	if f.Has(ActionLeft) {
		t.Error("Left should expire after the hold window")
	}
}

func TestHeldKeysRepeatExtends(t *testing.T) {
	h := NewHeldKeys(2)
	h.Press(ActionRight)
	h.Advance()
	h.Press(ActionRight) // auto-repeat
	h.Advance()

	f := NewInputFrame()
	h.Fill(&f)
	if !f.Has(ActionRight) {
		t.Error("repeat press should extend the hold window")
	}

	h.Release(ActionRight)
	f.Clear()
	h.Fill(&f)
	if f.Has(ActionRight) {
		t.Error("Release should drop the action immediately")
	}
}

func TestActionString(t *testing.T) {
	if ActionVision.String() != "Vision" {
		t.Errorf("ActionVision.String() = %q", ActionVision.String())
	}
	if Action(99).String() != "Unknown" {
		t.Errorf("unknown action should stringify as Unknown")
	}
}
