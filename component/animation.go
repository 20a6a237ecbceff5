package component

import (
	"fmt"
	"time"

	"github.com/milk9111/doodlai/assets"
	"github.com/milk9111/doodlai/common"
	"gopkg.in/yaml.v3"
)

// Frame is one texture shown for Duration.
type Frame struct {
	Texture  assets.TextureID
	Duration time.Duration
}

// Animation cycles through a fixed list of frames, advanced by elapsed wall
// clock time. Each entity owns its own Animation; use Clone to share a
// template.
type Animation struct {
	frames  []Frame
	current int
	total   time.Duration
	delay   common.Delay
}

// NewAnimation creates an Animation playing frames in order, starting on the
// first. It panics when frames is empty.
func NewAnimation(frames ...Frame) *Animation {
	if len(frames) == 0 {
		panic("component: can't initialize an Animation with empty frames")
	}
	var total time.Duration
	for _, f := range frames {
		total += f.Duration
	}
	return &Animation{
		frames: append([]Frame(nil), frames...),
		total:  total,
		delay:  common.NewDelay(frames[0].Duration),
	}
}

// Update advances the animation by dt.
//
// The countdown for the current frame usually ends a little before Update
// notices. That overtime is carried into the next frames instead of being
// dropped: whole cycles are removed first, so a huge dt (the window was
// dragged, the process was paused) costs at most one pass over the frames,
// then every frame the overtime fully covers is skipped. The frame the
// countdown was waiting for starts already credited with what is left.
func (a *Animation) Update(dt time.Duration) {
	a.delay.Update(dt)
	if !a.delay.Ended() {
		return
	}

	overtime := a.delay.SinceEnded()
	if a.total > 0 {
		overtime %= a.total
	} else {
		overtime = 0
	}

	for overtime > a.frames[a.current].Duration {
		overtime -= a.frames[a.current].Duration
		a.current = (a.current + 1) % len(a.frames)
	}

	a.current = (a.current + 1) % len(a.frames)
	a.delay = common.NewDelay(a.frames[a.current].Duration)
	a.delay.Update(overtime)
}

// Texture returns the texture of the current frame.
func (a *Animation) Texture() assets.TextureID {
	return a.frames[a.current].Texture
}

// Frame returns the index of the current frame.
func (a *Animation) Frame() int { return a.current }

func (a *Animation) Len() int { return len(a.frames) }

// Total is the duration of one full cycle.
func (a *Animation) Total() time.Duration { return a.total }

// Remaining is the time left on the current frame; negative when the frame
// already expired and the next Update will move on.
func (a *Animation) Remaining() time.Duration { return a.delay.Remaining() }

func (a *Animation) Frames() []Frame {
	return append([]Frame(nil), a.frames...)
}

// Clone returns a copy restarted on its first frame.
func (a *Animation) Clone() *Animation {
	return NewAnimation(a.frames...)
}

type frameSpec struct {
	Texture assets.TextureID `yaml:"texture"`
	MS      float64          `yaml:"ms"`
}

func (a *Animation) MarshalYAML() (any, error) {
	specs := make([]frameSpec, len(a.frames))
	for i, f := range a.frames {
		specs[i] = frameSpec{Texture: f.Texture, MS: float64(f.Duration) / float64(time.Millisecond)}
	}
	return specs, nil
}

func (a *Animation) UnmarshalYAML(value *yaml.Node) error {
	var specs []frameSpec
	if err := value.Decode(&specs); err != nil {
		return err
	}
	if len(specs) == 0 {
		return fmt.Errorf("component: line %d: animation has no frames", value.Line)
	}
	frames := make([]Frame, len(specs))
	for i, s := range specs {
		if s.MS < 0 {
			return fmt.Errorf("component: line %d: frame %d has negative duration", value.Line, i)
		}
		frames[i] = Frame{Texture: s.Texture, Duration: time.Duration(s.MS * float64(time.Millisecond))}
	}
	*a = *NewAnimation(frames...)
	return nil
}
