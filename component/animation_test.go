package component

import (
	"math"
	"testing"
	"time"

	"github.com/milk9111/doodlai/assets"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var (
	texA = assets.Texture(assets.TextureBluePlatform)
	texB = assets.Texture(assets.TextureGreenPlatform)
	texC = assets.Texture(assets.TextureRedPlatform)
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// abc is A for 100ms, B for 50ms, C for 50ms: a 200ms cycle.
func abc() *Animation {
	return NewAnimation(
		Frame{Texture: texA, Duration: ms(100)},
		Frame{Texture: texB, Duration: ms(50)},
		Frame{Texture: texC, Duration: ms(50)},
	)
}

func TestNewAnimation(t *testing.T) {
	a := abc()
	require.Equal(t, 3, a.Len())
	require.Equal(t, ms(200), a.Total())
	require.Equal(t, 0, a.Frame())
	require.Equal(t, texA, a.Texture())
	require.Equal(t, ms(100), a.Remaining())

	require.Panics(t, func() { NewAnimation() })
}

func TestAnimationUpdate(t *testing.T) {
	type step struct {
		dt        time.Duration
		frame     int
		remaining time.Duration
	}

	cases := []struct {
		name  string
		steps []step
	}{
		{
			name:  "within_frame",
			steps: []step{{ms(40), 0, ms(60)}, {ms(59), 0, ms(1)}},
		},
		{
			name:  "exact_boundary",
			steps: []step{{ms(100), 1, ms(50)}, {ms(50), 2, ms(50)}, {ms(50), 0, ms(100)}},
		},
		{
			// 60ms over on A does not cover A, so only the pending transition
			// happens; B starts 10ms overdue and moves on at the next update.
			name:  "overdue_next_frame",
			steps: []step{{ms(160), 1, ms(-10)}, {0, 2, ms(40)}},
		},
		{
			// 160ms over: skip B and C, land back on A with 10ms credited.
			name:  "fast_forward",
			steps: []step{{ms(260), 0, ms(90)}},
		},
		{
			// 1h + 30ms: 3599930ms over, 130ms after removing whole cycles.
			name:  "freeze_prevention",
			steps: []step{{time.Hour + ms(30), 2, ms(20)}},
		},
		{
			name:  "whole_cycles_removed",
			steps: []step{{ms(100) + 10*ms(200), 1, ms(50)}},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := abc()
			for i, s := range c.steps {
				a.Update(s.dt)
				require.Equal(t, s.frame, a.Frame(), "step %d frame", i)
				require.Equal(t, s.remaining, a.Remaining(), "step %d remaining", i)
				require.Equal(t, a.Frames()[s.frame].Texture, a.Texture())
			}
		})
	}
}

func TestAnimationBounds(t *testing.T) {
	frames := []Frame{
		{Texture: texA, Duration: ms(16)},
		{Texture: texB, Duration: ms(33)},
		{Texture: texC, Duration: ms(7)},
		{Texture: texA, Duration: ms(120)},
		{Texture: texB, Duration: ms(1)},
	}
	a := NewAnimation(frames...)

	dts := []time.Duration{0, ms(1), ms(16), ms(17), ms(500), time.Second, ms(177), 24 * time.Hour, ms(3), ms(9999)}
	for round := 0; round < 20; round++ {
		for _, dt := range dts {
			a.Update(dt)
			require.GreaterOrEqual(t, a.Frame(), 0)
			require.Less(t, a.Frame(), len(frames))
			require.Greater(t, a.Remaining(), -a.Total(), "leftover overtime is always less than a cycle")
		}
	}
}

func TestAnimationCatchUpIsBounded(t *testing.T) {
	tick := Frame{Texture: texA, Duration: time.Nanosecond}
	a := NewAnimation(tick, tick, tick)

	// Without dropping whole cycles this is about 3e18 frame skips.
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.Update(time.Duration(math.MaxInt64))
	}()
	require.Eventually(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, 2*time.Second, time.Millisecond)

	// (MaxInt64-1) overtime is a whole number of 3ns cycles.
	require.Equal(t, 1, a.Frame())
	require.Equal(t, time.Nanosecond, a.Remaining())
}

func TestAnimationZeroDurations(t *testing.T) {
	a := NewAnimation(Frame{Texture: texA}, Frame{Texture: texB})
	a.Update(time.Second)
	require.Equal(t, 1, a.Frame())
	a.Update(0)
	require.Equal(t, 0, a.Frame())
}

func TestAnimationClone(t *testing.T) {
	a := abc()
	a.Update(ms(120))
	b := a.Clone()
	require.Equal(t, 1, a.Frame())
	require.Equal(t, 0, b.Frame())
	require.Equal(t, a.Frames(), b.Frames())

	b.Update(ms(100))
	require.Equal(t, 1, a.Frame())
}

func TestAnimationYAML(t *testing.T) {
	var a Animation
	err := yaml.Unmarshal([]byte(`
- { texture: Mob0, ms: 250 }
- { texture: "Dynamic(2,#ff0000ff)", ms: 12.5 }
`), &a)
	require.NoError(t, err)
	require.Equal(t, 2, a.Len())
	require.Equal(t, assets.Texture(assets.TextureMob0), a.Texture())
	require.Equal(t, ms(250)+ms(12)+500*time.Microsecond, a.Total())
	require.True(t, a.Frames()[1].Texture.IsDynamic())

	out, err := yaml.Marshal(&a)
	require.NoError(t, err)
	var back Animation
	require.NoError(t, yaml.Unmarshal(out, &back))
	require.Equal(t, a.Frames(), back.Frames())

	for _, bad := range []string{"[]", "- { texture: Nope, ms: 1 }", "- { texture: Mob0, ms: -5 }", "texture: Mob0"} {
		var b Animation
		require.Error(t, yaml.Unmarshal([]byte(bad), &b), bad)
	}
}
