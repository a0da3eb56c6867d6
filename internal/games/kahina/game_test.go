package kahina

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/vovakirdan/kahina/internal/core"
	"github.com/vovakirdan/kahina/internal/level"
	"github.com/vovakirdan/kahina/internal/physics"
	"github.com/vovakirdan/kahina/internal/registry"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g := New()
	g.Reset(core.DefaultConfig())
	if err := g.LoadError(); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	return g
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func TestGameRegistered(t *testing.T) {
	for _, id := range []string{GameID, EndlessGameID} {
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID() = %q, expected %q", g.ID(), id)
		}
	}
}

func TestGameResetRestoresSpawn(t *testing.T) {
	g := newTestGame(t)

	for i := 0; i < 20; i++ {
		g.Step(frame(core.ActionRight, core.ActionJump))
	}
	g.Step(frame(core.ActionVision))
	g.Reset(core.DefaultConfig())

	s := g.Physics()
	if s.Player.X != 50 || s.Player.Y != 400 || s.Player.VY != 0 {
		t.Errorf("player after reset = %+v", s.Player)
	}
	if s.OnGround || s.Status != physics.Playing {
		t.Errorf("state after reset: onGround=%v status=%v", s.OnGround, s.Status)
	}
	if g.ctl.vision.Active() {
		t.Error("vision should be off after reset")
	}
	if st := g.State(); st.Frames != 0 || st.Score != 0 || st.GameOver {
		t.Errorf("GameState after reset = %+v", st)
	}
	if g.LevelID() != level.DefaultID {
		t.Errorf("LevelID() = %q", g.LevelID())
	}
}

func TestGameSpawnSettles(t *testing.T) {
	g := newTestGame(t)

	for i := 0; i < 30; i++ {
		g.Step(core.NewInputFrame())
	}

	s := g.Physics()
	if s.Player.Bottom() != 500 || !s.OnGround || s.Player.VY != 0 {
		t.Errorf("player should rest on the first platform, got %+v onGround=%v", s.Player, s.OnGround)
	}
	if g.State().Frames != 30 {
		t.Errorf("Frames = %d, expected 30", g.State().Frames)
	}
}

func TestGameWinScoresParLeft(t *testing.T) {
	g := newTestGame(t)
	g.state.Player.Rect = physics.Rect{X: 690, Y: 240, W: 30, H: 50}

	res := g.Step(core.NewInputFrame())
	if !res.State.GameOver || !res.State.Won {
		t.Fatalf("touching the oracle should win, got %+v", res.State)
	}
	if res.State.Score != g.cfg.ParFrames-1 {
		t.Errorf("Score = %d, expected %d", res.State.Score, g.cfg.ParFrames-1)
	}

	before := g.Physics()
	g.Step(frame(core.ActionLeft, core.ActionJump))
	if g.Physics() != before || g.State().Frames != 1 {
		t.Error("a won game must not advance")
	}
}

func TestGameLoseOnFall(t *testing.T) {
	g := newTestGame(t)
	g.state.Player.Y = 560
	g.state.Player.VY = 50

	st := g.Step(core.NewInputFrame()).State
	if !st.GameOver || st.Won || st.Score != 0 {
		t.Errorf("falling past the limit should lose with no score, got %+v", st)
	}
	if g.Physics().Status != physics.Lose {
		t.Errorf("status = %v", g.Physics().Status)
	}

	// Pause is ignored once the run is over
	g.Step(frame(core.ActionPause))
	if g.State().Paused {
		t.Error("game over should not pause")
	}
}

func TestGamePause(t *testing.T) {
	g := newTestGame(t)

	g.Step(frame(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("expected paused")
	}

	x := g.Physics().Player.X
	g.Step(frame(core.ActionRight))
	if g.Physics().Player.X != x || g.State().Frames != 0 {
		t.Error("paused game should not advance")
	}

	g.Step(frame(core.ActionPause, core.ActionRight))
	if g.State().Paused {
		t.Fatal("expected unpaused")
	}
	if g.Physics().Player.X != x+5 {
		t.Errorf("X = %v, expected %v", g.Physics().Player.X, x+5)
	}
}

func TestGameVisionRevealsHiddenPlatform(t *testing.T) {
	place := func(g *Game) {
		g.state.Player.Rect = physics.Rect{X: 310, Y: 150, W: 30, H: 50}
		g.state.Player.VY = 5
	}

	blind := newTestGame(t)
	place(blind)
	blind.Step(core.NewInputFrame())
	if blind.Physics().OnGround {
		t.Error("hidden platform should not catch the player without vision")
	}

	seer := newTestGame(t)
	place(seer)
	seer.Step(frame(core.ActionVision))
	s := seer.Physics()
	if !s.OnGround || s.Player.Bottom() != 200 {
		t.Errorf("vision should land the player on the hidden platform, got %+v", s.Player)
	}

	seer.Step(frame(core.ActionVision))
	if seer.ctl.vision.Active() {
		t.Error("second vision press should turn vision off")
	}
}

func TestGameRender(t *testing.T) {
	g := newTestGame(t)
	dst := core.NewScreen(80, 24)

	g.Render(dst)
	out := dst.String()
	for _, r := range []rune{PlayerChar, PlatformChar, OracleChar} {
		if !strings.ContainsRune(out, r) {
			t.Errorf("render missing %q", r)
		}
	}
	if strings.ContainsRune(out, HiddenChar) {
		t.Error("hidden platforms drawn without vision")
	}
	if !strings.Contains(dst.Row(0), "Vision: off") {
		t.Errorf("HUD = %q", dst.Row(0))
	}

	g.Step(frame(core.ActionVision))
	g.Render(dst)
	if !strings.ContainsRune(dst.String(), HiddenChar) {
		t.Error("vision should draw hidden platforms")
	}

	g.state.Player.Y = 700
	g.Step(core.NewInputFrame())
	g.Render(dst)
	if !strings.Contains(dst.String(), "KAHINA EST TOMBÉE") {
		t.Error("lose screen not drawn")
	}
}

func TestGameSelectLevel(t *testing.T) {
	g := New()
	g.SelectLevel("sanctuary")
	g.Reset(core.DefaultConfig())
	if g.LevelID() != "sanctuary" || g.Physics().Player.X != 100 {
		t.Errorf("expected sanctuary spawn, got level %q player %+v", g.LevelID(), g.Physics().Player)
	}

	g.SelectLevel("")
	g.Reset(core.DefaultConfig())
	if g.LevelID() != level.DefaultID {
		t.Errorf("empty selection should play %q, got %q", level.DefaultID, g.LevelID())
	}

	g.SelectLevel("missing")
	g.Reset(core.DefaultConfig())
	if !errors.Is(g.LoadError(), level.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", g.LoadError())
	}
	if g.LevelID() != level.DefaultID {
		t.Errorf("unknown level should fall back to %q, got %q", level.DefaultID, g.LevelID())
	}
}

func TestGameHardPresetLimitsVision(t *testing.T) {
	g := New()
	cfg := core.DefaultConfig()
	cfg.Difficulty = "hard"
	g.Reset(cfg)
	g.Step(frame(core.ActionVision))
	for i := 0; i < 120; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.ctl.vision.Active() {
		t.Error("vision should expire after 120 frames on hard")
	}
	g.Step(frame(core.ActionVision))
	if g.ctl.vision.Active() {
		t.Error("vision should be cooling down")
	}
}

func TestEndlessReset(t *testing.T) {
	g := NewEndless()
	g.Reset(core.RuntimeConfig{Seed: 3})

	s := g.Physics()
	start := g.gen.Start()
	if s.Player.Bottom() != start.Y || s.Player.W != 50 || s.Player.H != 70 {
		t.Errorf("player should stand on the start platform, got %+v", s.Player)
	}

	for i := 0; i < 10; i++ {
		g.Step(core.NewInputFrame())
	}
	s = g.Physics()
	if !s.OnGround || s.Player.Bottom() != start.Y {
		t.Errorf("player should settle on the start platform, got %+v", s.Player)
	}
	if g.State().Score != 0 || g.Level() != 1 || g.LevelID() != "endless" {
		t.Errorf("unexpected state %+v level %d", g.State(), g.Level())
	}
}

func TestEndlessScrollScores(t *testing.T) {
	g := NewEndless()
	g.Reset(core.RuntimeConfig{Seed: 3})
	startY := g.gen.Start().Y

	g.state.Player.Y = 100
	g.state.Player.VY = -10
	g.Step(core.NewInputFrame())

	line := g.cfg.World.Height * g.cfg.ScrollLine
	if math.Abs(g.Physics().Player.Y-line) > 1e-9 {
		t.Errorf("player Y = %v, expected the scroll line %v", g.Physics().Player.Y, line)
	}
	if dy := g.gen.Start().Y - startY; math.Abs(dy-89.2) > 1e-9 {
		t.Errorf("platforms scrolled by %v, expected 89.2", dy)
	}
	if g.State().Score != 33 {
		t.Errorf("Score = %d, expected 33", g.State().Score)
	}
}

func TestEndlessLose(t *testing.T) {
	g := NewEndless()
	g.Reset(core.RuntimeConfig{Seed: 3})

	g.state.Player.Y = 690
	g.state.Player.VY = 20
	st := g.Step(core.NewInputFrame()).State
	if !st.GameOver || st.Won {
		t.Errorf("falling below the world should end the run, got %+v", st)
	}

	dst := core.NewScreen(80, 24)
	g.Render(dst)
	if !strings.Contains(dst.String(), "GAME OVER") {
		t.Error("game over screen not drawn")
	}
}

func TestEndlessDeterministic(t *testing.T) {
	script := func(i int) core.InputFrame {
		switch {
		case i%40 < 20:
			return frame(core.ActionRight, core.ActionJump)
		default:
			return frame(core.ActionLeft)
		}
	}

	a, b := NewEndless(), NewEndless()
	a.Reset(core.RuntimeConfig{Seed: 11})
	b.Reset(core.RuntimeConfig{Seed: 11})
	for i := 0; i < 600; i++ {
		a.Step(script(i))
		b.Step(script(i))
	}

	if a.Physics() != b.Physics() || a.State() != b.State() {
		t.Errorf("same seed and inputs diverged: %+v vs %+v", a.State(), b.State())
	}
}
