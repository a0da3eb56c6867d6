// Package physics implements the per-frame player simulation: horizontal
// movement, gravity, AABB collision against platforms, and the win and lose
// triggers. Step is a pure function over an explicit State so the same frame
// can be replayed, tested and rendered without shared mutable state.
package physics

import "fmt"

// Rect is an axis-aligned box in pixels. Y grows downward.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Intersects reports strict overlap. Touching edges do not overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && r.Right() > o.X &&
		r.Y < o.Bottom() && r.Bottom() > o.Y
}

// Player is the controlled sprite. W and H never change.
type Player struct {
	Rect
	VX, VY float64
}

// PlatformType changes what happens after landing.
type PlatformType int

const (
	Normal PlatformType = iota
	Ice
	Magic
	Bouncy
)

// String returns the lowercase name used in level files.
func (t PlatformType) String() string {
	switch t {
	case Normal:
		return "normal"
	case Ice:
		return "ice"
	case Magic:
		return "magic"
	case Bouncy:
		return "bouncy"
	default:
		return "unknown"
	}
}

// ParsePlatformType converts a level-file name into a PlatformType.
// An empty name means Normal.
func ParsePlatformType(s string) (PlatformType, error) {
	switch s {
	case "", "normal":
		return Normal, nil
	case "ice":
		return Ice, nil
	case "magic":
		return Magic, nil
	case "bouncy":
		return Bouncy, nil
	default:
		return Normal, fmt.Errorf("physics: unknown platform type %q", s)
	}
}

// Platform is a static box the player can stand on.
// Invisible platforms only collide while vision is active.
type Platform struct {
	Rect
	Visible bool
	Type    PlatformType
}

// Solid reports whether the platform takes part in collision this frame.
func (p Platform) Solid(vision bool) bool {
	return p.Visible || vision
}

// Status is the game outcome. Win and Lose are terminal.
type Status int

const (
	Playing Status = iota
	Win
	Lose
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Win:
		return "win"
	case Lose:
		return "lose"
	default:
		return "unknown"
	}
}

// State is everything a frame changes.
type State struct {
	Player   Player
	OnGround bool
	Status   Status
}

// NewState places a player at rest at the given spawn box.
func NewState(spawn Rect) State {
	return State{
		Player: Player{Rect: spawn},
		Status: Playing,
	}
}

// World is what a frame reads but never changes.
type World struct {
	Width     float64 // Player X is clamped to [0, Width-W]
	FallLimit float64 // Player Y beyond this loses
	Platforms []Platform
	Oracle    Rect
	HasOracle bool
}

// Input is the snapshot of held keys for one frame.
type Input struct {
	Left   bool
	Right  bool
	Jump   bool
	Vision bool // vision active this frame
}

// Params holds the per-frame constants.
type Params struct {
	Gravity   float64 // added to VY every frame
	JumpPower float64 // VY on jump, negative is up
	MoveSpeed float64 // |VX| while a direction is held

	// Friction scales VX on frames with no direction held.
	// Zero stops the player immediately.
	Friction float64

	// LandingDepth bounds how far below a platform top the player's bottom
	// may be and still land. Zero only requires the player's top to be
	// above the platform top.
	LandingDepth float64

	// SideCollisions reverts horizontal moves into a platform's side.
	SideCollisions bool

	// OneWay platforms only catch a falling player. Head and side bumps
	// are skipped so the player can jump up through them.
	OneWay bool

	IceFactor      float64 // VX multiplier after landing on ice
	BounceVelocity float64 // VY after landing on a bouncy platform
}

// DefaultParams returns the constants of the fixed-level game.
func DefaultParams() Params {
	return Params{
		Gravity:        0.8,
		JumpPower:      -15,
		MoveSpeed:      5,
		Friction:       0,
		LandingDepth:   0,
		SideCollisions: false,
		OneWay:         false,
		IceFactor:      1.2,
		BounceVelocity: -22,
	}
}
