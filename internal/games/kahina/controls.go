package kahina

import (
	"github.com/vovakirdan/kahina/internal/config"
	"github.com/vovakirdan/kahina/internal/core"
	"github.com/vovakirdan/kahina/internal/physics"
)

// controls holds the toggles both modes share.
type controls struct {
	vision physics.Vision
	paused bool
}

// apply handles the pause and vision toggles of a frame and reports whether
// the simulation advances. Vision still toggles after the run has ended so
// the hidden platforms can be inspected on the end screen.
func (c *controls) apply(in core.InputFrame, over bool) bool {
	if in.Has(core.ActionPause) && !over {
		c.paused = !c.paused
	}
	if c.paused {
		return false
	}
	if in.Has(core.ActionVision) {
		c.vision.Toggle()
	}
	return !over
}

// input converts held actions into a physics input.
func (c *controls) input(in core.InputFrame) physics.Input {
	return physics.Input{
		Left:   in.Has(core.ActionLeft),
		Right:  in.Has(core.ActionRight),
		Jump:   in.Has(core.ActionJump),
		Vision: c.vision.Active(),
	}
}

func (c *controls) reset(v config.VisionConfig) {
	c.paused = false
	c.vision = physics.NewVision(v.MaxDuration, v.Cooldown)
}
