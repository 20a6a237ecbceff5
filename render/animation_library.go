package render

import (
	"sort"

	"github.com/milk9111/doodlai/component"
)

// AnimationLibrary stores animation templates by name.
type AnimationLibrary struct {
	clips map[string]*component.Animation
}

// NewAnimationLibrary creates an empty library.
func NewAnimationLibrary() *AnimationLibrary {
	return &AnimationLibrary{clips: make(map[string]*component.Animation)}
}

// Register adds an animation template to the library, replacing any template
// with the same name.
func (l *AnimationLibrary) Register(key string, anim *component.Animation) {
	if l == nil || key == "" || anim == nil {
		return
	}
	l.clips[key] = anim.Clone()
}

// Get returns a fresh copy of the named animation, so every caller owns its
// playback state.
func (l *AnimationLibrary) Get(key string) (*component.Animation, bool) {
	if l == nil || key == "" {
		return nil, false
	}
	clip, ok := l.clips[key]
	if !ok {
		return nil, false
	}
	return clip.Clone(), true
}

// Names returns the registered names in sorted order.
func (l *AnimationLibrary) Names() []string {
	if l == nil {
		return nil
	}
	names := make([]string, 0, len(l.clips))
	for name := range l.clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
