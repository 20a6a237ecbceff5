package assets

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is the closed set of asset categories an ID can belong to.
type Category uint8

const (
	CategoryTexture Category = iota
	categoryLast
)

func (c Category) String() string {
	switch c {
	case CategoryTexture:
		return "texture"
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// ParseID parses a variant name of this category into an ID.
func (c Category) ParseID(name string) (ID, error) {
	switch c {
	case CategoryTexture:
		t, err := ParseTextureID(name)
		if err != nil {
			return ID{}, err
		}
		return TextureAsset(t), nil
	}
	return ID{}, fmt.Errorf("assets: unknown category %s", c)
}

// ID identifies any loadable or generatable asset. It is comparable and is
// used as a map key everywhere. The zero value is the missing texture.
type ID struct {
	Category Category
	Texture  TextureID
}

// TextureAsset wraps a texture identifier into an ID.
func TextureAsset(t TextureID) ID {
	return ID{Category: CategoryTexture, Texture: t}
}

func (id ID) String() string {
	switch id.Category {
	case CategoryTexture:
		return id.Texture.String()
	}
	return id.Category.String()
}

// TextureKind names one static texture, or one of the two special variants.
type TextureKind uint8

const (
	TextureMissing TextureKind = iota
	TextureDynamic
	TextureDoodleLeft
	TextureDoodleRight
	TextureBluePlatform
	TextureGreenPlatform
	TextureRedPlatform
	TextureWhitePlatform
	TextureCrackedPlatform0
	TextureCrackedPlatform1
	TextureCrackedPlatform2
	TextureCrackedPlatform3
	TextureMob0
	TextureMob1
	TextureMob2Left
	TextureMob2Right
	textureKindLast
)

var textureKindNames = [...]string{
	TextureMissing:          "Missing",
	TextureDynamic:          "Dynamic",
	TextureDoodleLeft:       "DoodleLeft",
	TextureDoodleRight:      "DoodleRight",
	TextureBluePlatform:     "BluePlatform",
	TextureGreenPlatform:    "GreenPlatform",
	TextureRedPlatform:      "RedPlatform",
	TextureWhitePlatform:    "WhitePlatform",
	TextureCrackedPlatform0: "CrackedPlatform0",
	TextureCrackedPlatform1: "CrackedPlatform1",
	TextureCrackedPlatform2: "CrackedPlatform2",
	TextureCrackedPlatform3: "CrackedPlatform3",
	TextureMob0:             "Mob0",
	TextureMob1:             "Mob1",
	TextureMob2Left:         "Mob2Left",
	TextureMob2Right:        "Mob2Right",
}

func (k TextureKind) String() string {
	if k < textureKindLast {
		return textureKindNames[k]
	}
	return fmt.Sprintf("TextureKind(%d)", uint8(k))
}

// DynamicParams describes a procedurally generated square texture.
type DynamicParams struct {
	Size  uint16
	Color color.RGBA
}

// DefaultDynamicParams is the 1x1 opaque white swatch used as the last
// fallback. It can always be synthesized without any I/O.
func DefaultDynamicParams() DynamicParams {
	return DynamicParams{Size: 1, Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}}
}

// TextureID identifies a texture. Dynamic is only meaningful when Kind is
// TextureDynamic; use the constructors so that other kinds keep it zeroed and
// equality stays value-based.
type TextureID struct {
	Kind    TextureKind
	Dynamic DynamicParams
}

// Texture returns the identifier of a static texture kind.
func Texture(kind TextureKind) TextureID {
	if kind == TextureDynamic {
		return DynamicTexture(DefaultDynamicParams())
	}
	return TextureID{Kind: kind}
}

// DynamicTexture returns the identifier of a procedurally generated texture.
func DynamicTexture(p DynamicParams) TextureID {
	return TextureID{Kind: TextureDynamic, Dynamic: p}
}

// MissingTexture is the default texture identifier.
func MissingTexture() TextureID {
	return TextureID{}
}

// IsDynamic reports whether the texture is generated rather than loaded.
func (t TextureID) IsDynamic() bool {
	return t.Kind == TextureDynamic
}

// StaticTextures lists every texture that must be declared in the resolver
// table, the missing placeholder included.
func StaticTextures() []TextureID {
	out := make([]TextureID, 0, textureKindLast)
	for k := TextureMissing; k < textureKindLast; k++ {
		if k == TextureDynamic {
			continue
		}
		out = append(out, Texture(k))
	}
	return out
}

func (t TextureID) String() string {
	if t.Kind != TextureDynamic {
		return t.Kind.String()
	}
	c := t.Dynamic.Color
	return fmt.Sprintf("Dynamic(%d,#%02x%02x%02x%02x)", t.Dynamic.Size, c.R, c.G, c.B, c.A)
}

// ParseTextureID parses the text form produced by String.
func ParseTextureID(s string) (TextureID, error) {
	s = strings.TrimSpace(s)
	if inner, ok := strings.CutPrefix(s, "Dynamic("); ok {
		return parseDynamic(s, inner)
	}
	for k := TextureMissing; k < textureKindLast; k++ {
		if k != TextureDynamic && textureKindNames[k] == s {
			return Texture(k), nil
		}
	}
	return TextureID{}, fmt.Errorf("assets: unknown texture %q", s)
}

func parseDynamic(s, inner string) (TextureID, error) {
	inner, ok := strings.CutSuffix(inner, ")")
	if !ok {
		return TextureID{}, fmt.Errorf("assets: malformed dynamic texture %q", s)
	}
	sizeStr, colorStr, ok := strings.Cut(inner, ",")
	if !ok {
		return TextureID{}, fmt.Errorf("assets: malformed dynamic texture %q", s)
	}
	size, err := strconv.ParseUint(strings.TrimSpace(sizeStr), 10, 16)
	if err != nil {
		return TextureID{}, fmt.Errorf("assets: dynamic texture size %q: %w", s, err)
	}
	colorStr = strings.TrimPrefix(strings.TrimSpace(colorStr), "#")
	if len(colorStr) != 8 {
		return TextureID{}, fmt.Errorf("assets: dynamic texture color %q: want #rrggbbaa", s)
	}
	rgba, err := strconv.ParseUint(colorStr, 16, 32)
	if err != nil {
		return TextureID{}, fmt.Errorf("assets: dynamic texture color %q: %w", s, err)
	}
	return DynamicTexture(DynamicParams{
		Size: uint16(size),
		Color: color.RGBA{
			R: uint8(rgba >> 24),
			G: uint8(rgba >> 16),
			B: uint8(rgba >> 8),
			A: uint8(rgba),
		},
	}), nil
}

func (t TextureID) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TextureID) UnmarshalText(b []byte) error {
	parsed, err := ParseTextureID(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TextureID) MarshalYAML() (any, error) {
	return t.String(), nil
}

func (t *TextureID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("assets: line %d: texture id must be a scalar", value.Line)
	}
	return t.UnmarshalText([]byte(value.Value))
}
