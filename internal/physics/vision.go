package physics

// Vision reveals hidden platforms while active.
//
// With zero limits Toggle simply flips the flag. With MaxDuration set an
// activation expires on its own, and with Cooldown set a new activation is
// refused until the cooldown has run out.
type Vision struct {
	MaxDuration int // frames an activation lasts, 0 = unlimited
	Cooldown    int // frames before it can be reactivated, 0 = none

	active    bool
	remaining int
	cooldown  int
}

// NewVision creates an inactive vision with the given limits.
func NewVision(maxDuration, cooldown int) Vision {
	return Vision{MaxDuration: maxDuration, Cooldown: cooldown}
}

// Toggle flips vision on or off. It reports whether the state changed.
func (v *Vision) Toggle() bool {
	if v.active {
		v.active = false
		v.remaining = 0
		v.cooldown = v.Cooldown
		return true
	}
	if v.cooldown > 0 {
		return false
	}
	v.active = true
	v.remaining = v.MaxDuration
	return true
}

// Tick advances vision by one frame.
func (v *Vision) Tick() {
	if v.active {
		if v.MaxDuration <= 0 {
			return
		}
		v.remaining--
		if v.remaining <= 0 {
			v.active = false
			v.remaining = 0
			v.cooldown = v.Cooldown
		}
		return
	}
	if v.cooldown > 0 {
		v.cooldown--
	}
}

// Active reports whether hidden platforms are revealed.
func (v Vision) Active() bool { return v.active }

// Remaining returns the frames left in a limited activation.
func (v Vision) Remaining() int { return v.remaining }

// CooldownLeft returns the frames until vision can be activated again.
func (v Vision) CooldownLeft() int { return v.cooldown }

// Reset turns vision off and clears the cooldown.
func (v *Vision) Reset() {
	v.active = false
	v.remaining = 0
	v.cooldown = 0
}
