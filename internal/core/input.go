package core

// Action is a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // Left arrow, A - move left (held)
	ActionRight          // Right arrow, D - move right (held)
	ActionJump           // Space, W, Up - jump (held)
	ActionVision         // V - toggle vision
	ActionUp             // Up, K - menu navigation
	ActionDown           // Down, J - menu navigation
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R - restart after game over
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionJump:
		return "Jump"
	case ActionVision:
		return "Vision"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame is the input snapshot for one simulation tick.
// Held actions (Left, Right, Jump) stay set for every tick they are held;
// toggles (Vision, Pause) are set only on the tick they were pressed.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}

// HeldKeys emulates key-held state on terminals that only report presses.
// A press keeps its action held for a number of ticks; repeated presses
// from keyboard auto-repeat extend the window.
type HeldKeys struct {
	holdTicks int
	until     map[Action]int
	tick      int
}

// NewHeldKeys creates a held-key tracker with the given hold window.
func NewHeldKeys(holdTicks int) *HeldKeys {
	if holdTicks < 1 {
		holdTicks = 1
	}
	return &HeldKeys{
		holdTicks: holdTicks,
		until:     make(map[Action]int),
	}
}

// Press marks the action as held for the hold window starting now.
func (h *HeldKeys) Press(a Action) {
	h.until[a] = h.tick + h.holdTicks
}

// Release drops the action immediately.
func (h *HeldKeys) Release(a Action) {
	delete(h.until, a)
}

// Fill sets every currently held action on the frame.
func (h *HeldKeys) Fill(f *InputFrame) {
	for a, until := range h.until {
		if h.tick < until {
			f.Set(a)
		}
	}
}

// Advance moves to the next tick and forgets expired actions.
func (h *HeldKeys) Advance() {
	h.tick++
	for a, until := range h.until {
		if h.tick >= until {
			delete(h.until, a)
		}
	}
}

// Reset forgets every held action.
func (h *HeldKeys) Reset() {
	for a := range h.until {
		delete(h.until, a)
	}
}
