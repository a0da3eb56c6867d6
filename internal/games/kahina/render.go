package kahina

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/kahina/internal/core"
	"github.com/vovakirdan/kahina/internal/physics"
)

// Visual characters for rendering
const (
	PlayerChar   = '█'
	PlatformChar = '▀'
	HiddenChar   = '░'
	OracleChar   = '◆'
)

// hudRows is the number of screen rows above the world.
const hudRows = 1

// viewport maps a world onto the screen below the HUD.
func viewport(dst *core.Screen, worldW, worldH float64) core.Viewport {
	return core.NewViewport(worldW, worldH, dst.Width(), dst.Height()-hudRows, hudRows)
}

// platformColor returns the display color of a platform type.
func platformColor(t physics.PlatformType) core.Color {
	switch t {
	case physics.Ice:
		return core.ColorBrightCyan
	case physics.Magic:
		return core.ColorBrightMagenta
	case physics.Bouncy:
		return core.ColorYellow
	default:
		return core.ColorGreen
	}
}

// drawPlatforms draws visible platforms, and hidden ones while vision is on.
func drawPlatforms(dst *core.Screen, vp core.Viewport, platforms []physics.Platform, vision bool) {
	for _, p := range platforms {
		r := vp.Project(p.X, p.Y, p.W, p.H)
		switch {
		case p.Visible:
			dst.DrawRect(r, PlatformChar, platformColor(p.Type))
		case vision:
			dst.DrawRect(r, HiddenChar, core.ColorMagenta)
		}
	}
}

func drawPlayer(dst *core.Screen, vp core.Viewport, pl physics.Player, vision bool) {
	c := core.ColorCyan
	if vision {
		c = core.ColorBrightMagenta
	}
	dst.DrawRect(vp.Project(pl.X, pl.Y, pl.W, pl.H), PlayerChar, c)
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string, c core.Color) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(utf8.RuneCountInString(title), utf8.RuneCountInString(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, c)

	dst.DrawTextColor(boxX+(boxW-utf8.RuneCountInString(title))/2, boxY+1, title, c)
	dst.DrawText(boxX+(boxW-utf8.RuneCountInString(subtitle))/2, boxY+3, subtitle)
}

// drawRight writes text ending two columns before the right edge.
func drawRight(dst *core.Screen, y int, text string, c core.Color) {
	dst.DrawTextColor(dst.Width()-utf8.RuneCountInString(text)-2, y, text, c)
}

// visionLabel describes the vision state for the HUD.
func visionLabel(v physics.Vision) (string, core.Color) {
	switch {
	case v.Active() && v.MaxDuration > 0:
		return fmt.Sprintf(" Vision: %d ", v.Remaining()), core.ColorBrightMagenta
	case v.Active():
		return " Vision: ON ", core.ColorBrightMagenta
	case v.CooldownLeft() > 0:
		return fmt.Sprintf(" Vision: wait %d ", v.CooldownLeft()), core.ColorGray
	default:
		return " Vision: off ", core.ColorGray
	}
}
