package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/doodlai/assets"
)

// TextureSource serves textures for drawing. The boolean is false when a
// substitute was returned.
type TextureSource interface {
	Get(id assets.TextureID) (*ebiten.Image, bool)
}

// Renderer owns the frame's draw request and flushes it layer by layer.
type Renderer struct {
	request *Request
}

func NewRenderer() *Renderer {
	return &Renderer{request: NewRequest()}
}

// Request returns the request to queue this frame's draws on.
func (r *Renderer) Request() *Request {
	return r.request
}

// Run draws every queued bit onto screen in layer order, then clears the
// request.
func (r *Renderer) Run(screen *ebiten.Image, src TextureSource) Log {
	return r.flush(src, func(img *ebiten.Image, p DrawParam) {
		screen.DrawImage(img, drawOptions(img, p))
	})
}

func (r *Renderer) flush(src TextureSource, draw func(*ebiten.Image, DrawParam)) Log {
	var global Log
	for _, layer := range Layers() {
		bits := r.request.Bits(layer)
		if len(bits) == 0 {
			continue
		}
		global.Merge(drawLayer(bits, src, draw))
	}
	r.request.Clear()
	return global
}

func drawLayer(bits []Bit, src TextureSource, draw func(*ebiten.Image, DrawParam)) Log {
	log := Log{Layers: 1}
	used := make(map[assets.TextureID]struct{})
	for _, bit := range bits {
		img, exact := src.Get(bit.Texture)
		if !exact {
			log.TexturesNotFound++
		}
		log.Textures++
		used[bit.Texture] = struct{}{}

		draw(img, bit.Param)
	}
	log.UniqueTextures = len(used)
	return log
}

func drawOptions(img *ebiten.Image, p DrawParam) *ebiten.DrawImageOptions {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterNearest
	op.GeoM.Translate(-w/2, -h/2)
	if w > 0 && h > 0 && p.Width > 0 && p.Height > 0 {
		op.GeoM.Scale(p.Width/w, p.Height/h)
	}
	if p.Rotation != 0 {
		op.GeoM.Rotate(p.Rotation)
	}
	op.GeoM.Translate(p.X, p.Y)
	if p.Tint != nil {
		op.ColorScale.ScaleWithColor(p.Tint)
	}
	return op
}
