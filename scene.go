package main

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/doodlai/assets/texture"
	"github.com/milk9111/doodlai/component"
	"github.com/milk9111/doodlai/prefabs"
	"github.com/milk9111/doodlai/render"
	"github.com/rs/zerolog/log"
)

type entity struct {
	name   string
	layer  render.Layer
	param  render.DrawParam
	visual component.Visual
}

type scene struct {
	name       string
	background color.Color
	entities   []entity
}

func loadAnimationLibrary() (*render.AnimationLibrary, error) {
	spec, err := prefabs.LoadAnimationsSpec()
	if err != nil {
		return nil, err
	}
	lib := render.NewAnimationLibrary()
	for name, anim := range spec.Animations {
		if anim == nil {
			return nil, fmt.Errorf("animation %q has no frames", name)
		}
		lib.Register(name, anim)
	}
	return lib, nil
}

func buildScene(spec *prefabs.SceneSpec, lib *render.AnimationLibrary, textures *texture.Storage[*ebiten.Image]) (*scene, error) {
	for _, d := range spec.Dynamic {
		id, err := textures.CreateDynamic(d.Params())
		if errors.Is(err, texture.ErrDynamicExists) {
			continue
		}
		if err != nil {
			return nil, err
		}
		log.Debug().Stringer("id", id).Msg("created dynamic texture")
	}

	s := &scene{name: spec.Name, background: spec.Background.ToRGBA()}
	for _, e := range spec.Entities {
		layer, err := render.ParseLayer(e.Layer)
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", e.Name, err)
		}

		var visual component.Visual
		if e.Visual != nil {
			visual = *e.Visual
		} else {
			anim, ok := lib.Get(e.Animation)
			if !ok {
				return nil, fmt.Errorf("entity %s: unknown animation %q", e.Name, e.Animation)
			}
			visual = component.AnimatedVisual(anim)
		}

		param := render.DrawParam{
			X:        e.Transform.X,
			Y:        e.Transform.Y,
			Width:    e.Transform.Width,
			Height:   e.Transform.Height,
			Rotation: e.Transform.Rotation,
		}
		if e.Tint != nil {
			param.Tint = e.Tint.ToRGBA()
		}
		s.entities = append(s.entities, entity{name: e.Name, layer: layer, param: param, visual: visual})
	}
	return s, nil
}
