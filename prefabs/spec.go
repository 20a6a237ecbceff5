package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/doodlai/assets"
	"github.com/milk9111/doodlai/component"
	"gopkg.in/yaml.v3"
)

const (
	AnimationsFile = "animations.yaml"
	SceneFile      = "scene.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// AnimationsSpec declares named animation templates.
type AnimationsSpec struct {
	Animations map[string]*component.Animation `yaml:"animations"`
}

func LoadAnimationsSpec() (*AnimationsSpec, error) {
	spec, err := LoadSpec[AnimationsSpec](AnimationsFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type SceneSpec struct {
	Name       string        `yaml:"name"`
	Background YAMLColor     `yaml:"background"`
	Dynamic    []DynamicSpec `yaml:"dynamic"`
	Entities   []EntitySpec  `yaml:"entities"`
}

// DynamicSpec declares a generated texture created when the scene loads.
type DynamicSpec struct {
	Size  uint16    `yaml:"size"`
	Color YAMLColor `yaml:"color"`
}

func (d DynamicSpec) Params() assets.DynamicParams {
	return assets.DynamicParams{Size: d.Size, Color: d.Color.ToRGBA()}
}

// EntitySpec places one drawable. Exactly one of Visual (a texture or inline
// frames) and Animation (a name from animations.yaml) is expected.
type EntitySpec struct {
	Name      string            `yaml:"name"`
	Layer     string            `yaml:"layer"`
	Transform TransformSpec     `yaml:"transform"`
	Visual    *component.Visual `yaml:"visual"`
	Animation string            `yaml:"animation"`
	Tint      *YAMLColor        `yaml:"tint"`
}

type TransformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Rotation float64 `yaml:"rotation"`
}

func LoadSceneSpec() (*SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](SceneFile)
	if err != nil {
		return nil, err
	}
	for i, e := range spec.Entities {
		if (e.Visual == nil) == (e.Animation == "") {
			return nil, fmt.Errorf("prefabs: %s: entity %d (%s) needs exactly one of visual or animation", SceneFile, i, e.Name)
		}
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

// ToRGBA returns the colour premultiplied, opaque black when unset.
func (c YAMLColor) ToRGBA() color.RGBA {
	if c.Color == nil {
		return color.RGBA{A: 255}
	}
	return color.RGBAModel.Convert(c.Color).(color.RGBA)
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
