package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/doodlai/assets"
	"github.com/milk9111/doodlai/assets/texture"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageCodec decodes texture bytes into ebiten images and synthesizes solid
// colour squares for dynamic textures.
type ImageCodec struct{}

func (ImageCodec) Decode(id assets.TextureID, data []byte) (*ebiten.Image, error) {
	im, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("render: decode %s: %w", id, err)
	}
	if b := im.Bounds(); b.Empty() {
		return nil, fmt.Errorf("render: decode %s: empty %s image", id, format)
	}
	return ebiten.NewImageFromImage(im), nil
}

func (ImageCodec) Synthesize(p assets.DynamicParams) (*ebiten.Image, error) {
	if p.Size == 0 {
		return nil, fmt.Errorf("render: synthesize %s: zero size", assets.DynamicTexture(p))
	}
	img := ebiten.NewImage(int(p.Size), int(p.Size))
	img.Fill(p.Color)
	return img, nil
}

var _ texture.Codec[*ebiten.Image] = ImageCodec{}
