package physics

import "math"

// Step advances the simulation by one frame and returns the new state.
// Outside of Playing it is a no-op: only a reset leaves Win or Lose.
//
// Platforms are resolved one by one in slice order against the already
// corrected player box, so a later platform can override what an earlier
// one decided. Level data relies on this ordering.
func Step(s State, w World, in Input, p Params) Result {
	if s.Status != Playing {
		return Result{State: s}
	}

	var events []Event
	pl := sanitize(s.Player)
	maxX := math.Max(0, w.Width-pl.W)

	// Horizontal movement. Right is read last and wins when both are held.
	moving := false
	if in.Left {
		pl.VX = -p.MoveSpeed
		moving = true
	}
	if in.Right {
		pl.VX = p.MoveSpeed
		moving = true
	}
	if !moving {
		pl.VX *= p.Friction
	}
	pl.X = clamp(pl.X+pl.VX, 0, maxX)

	// Gravity
	pl.VY += p.Gravity
	pl.Y += pl.VY

	onGround := false
	for i, plat := range w.Platforms {
		if !plat.Solid(in.Vision) || !pl.Intersects(plat.Rect) {
			continue
		}

		switch {
		case lands(pl, plat, p):
			pl.Y = plat.Y - pl.H
			pl.VY = 0
			onGround = true
			events = append(events, Event{Kind: EventLanded, Platform: i})

			switch plat.Type {
			case Ice:
				pl.VX *= p.IceFactor
				events = append(events, Event{Kind: EventSlid, Platform: i})
			case Bouncy:
				pl.VY = p.BounceVelocity
				onGround = false
				events = append(events, Event{Kind: EventBounced, Platform: i})
			case Magic:
				events = append(events, Event{Kind: EventMagicTouched, Platform: i})
			}

		case !p.OneWay && pl.VY < 0 && pl.Y < plat.Bottom():
			pl.Y = plat.Bottom()
			pl.VY = 0
			events = append(events, Event{Kind: EventHeadBump, Platform: i})

		case !p.OneWay && p.SideCollisions && pl.VX != 0 && lateral(pl.Rect, plat.Rect):
			pl.X = clamp(pl.X-pl.VX, 0, maxX)
			events = append(events, Event{Kind: EventSideBump, Platform: i})
		}
	}

	if in.Jump && onGround {
		pl.VY = p.JumpPower
		onGround = false
		events = append(events, Event{Kind: EventJumped, Platform: -1})
	}

	next := State{Player: pl, OnGround: onGround, Status: Playing}

	switch {
	case w.HasOracle && pl.Intersects(w.Oracle):
		next.Status = Win
		events = append(events, Event{Kind: EventWon, Platform: -1})
	case pl.Y > w.FallLimit || math.IsNaN(pl.Y):
		next.Status = Lose
		events = append(events, Event{Kind: EventLost, Platform: -1})
	}

	return Result{State: next, Events: events}
}

// lands reports whether an overlapping platform catches a falling player.
func lands(pl Player, plat Platform, p Params) bool {
	if pl.VY <= 0 {
		return false
	}
	top := plat.Y
	if pl.Bottom() <= top || pl.Y >= top {
		return false
	}
	if p.LandingDepth > 0 && pl.Bottom() >= top+p.LandingDepth {
		return false
	}
	return true
}

// lateral reports whether two overlapping boxes meet more from the side
// than from above or below.
func lateral(a, b Rect) bool {
	ox := math.Min(a.Right(), b.Right()) - math.Max(a.X, b.X)
	oy := math.Min(a.Bottom(), b.Bottom()) - math.Max(a.Y, b.Y)
	return ox < oy
}

// sanitize zeroes non-finite velocities and a non-finite X.
// A non-finite Y is left for the fall check.
func sanitize(pl Player) Player {
	if !finite(pl.VX) {
		pl.VX = 0
	}
	if !finite(pl.VY) {
		pl.VY = 0
	}
	if !finite(pl.X) {
		pl.X = 0
	}
	return pl
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
