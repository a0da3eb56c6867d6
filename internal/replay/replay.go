// Package replay records the per-frame input of a run, stores it as a
// compact run-length encoded string and re-simulates it headlessly.
package replay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/kahina/internal/core"
	"github.com/vovakirdan/kahina/internal/registry"
)

// ErrMalformed is returned when an encoded replay cannot be decoded.
var ErrMalformed = errors.New("malformed replay")

// Input bits of a recorded frame.
const (
	BitLeft uint8 = 1 << iota
	BitRight
	BitJump
	BitVision
	BitPause

	allBits = BitLeft | BitRight | BitJump | BitVision | BitPause
)

// MaxFrames bounds a decoded replay, about four hours at 60 fps.
const MaxFrames = 1 << 20

var bitActions = []struct {
	bit    uint8
	action core.Action
}{
	{BitLeft, core.ActionLeft},
	{BitRight, core.ActionRight},
	{BitJump, core.ActionJump},
	{BitVision, core.ActionVision},
	{BitPause, core.ActionPause},
}

// Mask packs the recorded actions of a frame.
func Mask(f core.InputFrame) uint8 {
	var m uint8
	for _, ba := range bitActions {
		if f.Has(ba.action) {
			m |= ba.bit
		}
	}
	return m
}

// Frame unpacks a mask into an input frame.
func Frame(mask uint8) core.InputFrame {
	f := core.NewInputFrame()
	for _, ba := range bitActions {
		if mask&ba.bit != 0 {
			f.Set(ba.action)
		}
	}
	return f
}

// Recorder collects the input of every simulated frame.
type Recorder struct {
	frames []uint8
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one frame.
func (r *Recorder) Record(f core.InputFrame) {
	r.frames = append(r.frames, Mask(f))
}

// Len returns the number of recorded frames.
func (r *Recorder) Len() int {
	return len(r.frames)
}

// Frames returns a copy of the recorded masks.
func (r *Recorder) Frames() []uint8 {
	out := make([]uint8, len(r.frames))
	copy(out, r.frames)
	return out
}

// Reset discards the recording.
func (r *Recorder) Reset() {
	r.frames = r.frames[:0]
}

// Encode run-length encodes frames as comma-separated count*mask tokens.
func Encode(frames []uint8) string {
	var b strings.Builder
	for i := 0; i < len(frames); {
		j := i + 1
		for j < len(frames) && frames[j] == frames[i] {
			j++
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(j - i))
		b.WriteByte('*')
		b.WriteString(strconv.Itoa(int(frames[i])))
		i = j
	}
	return b.String()
}

// Decode reverses Encode. An empty string is an empty replay.
func Decode(s string) ([]uint8, error) {
	if s == "" {
		return nil, nil
	}

	var frames []uint8
	for i, tok := range strings.Split(s, ",") {
		countStr, maskStr, ok := strings.Cut(tok, "*")
		if !ok {
			return nil, fmt.Errorf("replay: %w: token %d %q has no '*'", ErrMalformed, i, tok)
		}
		count, err := strconv.Atoi(countStr)
		if err != nil || count < 1 {
			return nil, fmt.Errorf("replay: %w: token %d has bad count %q", ErrMalformed, i, countStr)
		}
		mask, err := strconv.ParseUint(maskStr, 10, 8)
		if err != nil || uint8(mask)&^allBits != 0 {
			return nil, fmt.Errorf("replay: %w: token %d has bad mask %q", ErrMalformed, i, maskStr)
		}
		if len(frames)+count > MaxFrames {
			return nil, fmt.Errorf("replay: %w: more than %d frames", ErrMalformed, MaxFrames)
		}
		for k := 0; k < count; k++ {
			frames = append(frames, uint8(mask))
		}
	}
	return frames, nil
}

// Outcome is the result of re-simulating a replay.
type Outcome struct {
	State   core.GameState
	Level   string
	EndedAt int // Index of the frame that ended the run, -1 if it never ended
}

// EndedOnLast reports whether a replay of n frames ended on its last frame.
// A recorded run stops taking input once the game is over, so trailing
// frames mean the inputs were altered.
func (o Outcome) EndedOnLast(n int) bool {
	return n > 0 && o.EndedAt == n-1
}

// Verify resets g with cfg and steps it through every frame.
func Verify(g registry.Game, cfg core.RuntimeConfig, frames []uint8) (Outcome, error) {
	if g == nil {
		return Outcome{}, errors.New("replay: nil game")
	}

	g.Reset(cfg)
	if err := registry.LoadErrorOf(g); err != nil {
		return Outcome{}, fmt.Errorf("replay: resetting %s: %w", g.ID(), err)
	}

	out := Outcome{Level: registry.LevelOf(g), EndedAt: -1}
	for i, m := range frames {
		res := g.Step(Frame(m))
		if res.State.GameOver && out.EndedAt < 0 {
			out.EndedAt = i
		}
	}
	out.State = g.State()
	return out, nil
}
