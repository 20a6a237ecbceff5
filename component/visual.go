package component

import (
	"fmt"
	"time"

	"github.com/milk9111/doodlai/assets"
	"gopkg.in/yaml.v3"
)

// Visual is what an entity displays: either one static texture or an
// animation. The zero value shows the missing texture.
type Visual struct {
	static assets.TextureID
	anim   *Animation
}

func StaticVisual(id assets.TextureID) Visual {
	return Visual{static: id}
}

// AnimatedVisual panics when anim is nil.
func AnimatedVisual(anim *Animation) Visual {
	if anim == nil {
		panic("component: nil animation")
	}
	return Visual{anim: anim}
}

func (v Visual) IsAnimated() bool { return v.anim != nil }

// Animation returns the animation of an animated visual, or nil.
func (v Visual) Animation() *Animation { return v.anim }

// Update advances an animated visual; static visuals ignore it.
func (v Visual) Update(dt time.Duration) {
	if v.anim != nil {
		v.anim.Update(dt)
	}
}

func (v Visual) Texture() assets.TextureID {
	if v.anim != nil {
		return v.anim.Texture()
	}
	return v.static
}

// UpdateTexture is Update followed by Texture.
func (v Visual) UpdateTexture(dt time.Duration) assets.TextureID {
	v.Update(dt)
	return v.Texture()
}

func (v Visual) MarshalYAML() (any, error) {
	if v.anim != nil {
		return v.anim, nil
	}
	return v.static, nil
}

// UnmarshalYAML reads a scalar as a static texture and a sequence as an
// animation.
func (v *Visual) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var id assets.TextureID
		if err := value.Decode(&id); err != nil {
			return err
		}
		*v = StaticVisual(id)
	case yaml.SequenceNode:
		anim := &Animation{}
		if err := value.Decode(anim); err != nil {
			return err
		}
		*v = AnimatedVisual(anim)
	default:
		return fmt.Errorf("component: line %d: visual must be a texture or a list of frames", value.Line)
	}
	return nil
}
