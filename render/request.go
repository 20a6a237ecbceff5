package render

import (
	"image/color"

	"github.com/milk9111/doodlai/assets"
)

// DrawParam places a texture on screen. Pos is the centre of the drawn
// rectangle and Size its extent in screen pixels.
type DrawParam struct {
	X, Y          float64
	Width, Height float64
	Rotation      float64
	Tint          color.Color
}

// Bit is one queued texture draw.
type Bit struct {
	Texture assets.TextureID
	Param   DrawParam
}

// Request collects the draws of one frame, grouped by layer.
type Request struct {
	layers map[Layer][]Bit
}

func NewRequest() *Request {
	return &Request{layers: make(map[Layer][]Bit)}
}

// Add queues a texture draw on layer.
func (r *Request) Add(id assets.TextureID, p DrawParam, layer Layer) {
	r.layers[layer] = append(r.layers[layer], Bit{Texture: id, Param: p})
}

// Bits returns the draws queued on layer, in insertion order.
func (r *Request) Bits(layer Layer) []Bit {
	return r.layers[layer]
}

// Len is the number of queued draws over all layers.
func (r *Request) Len() int {
	n := 0
	for _, bits := range r.layers {
		n += len(bits)
	}
	return n
}

// Clear drops every queued draw but keeps the allocated slices.
func (r *Request) Clear() {
	for l, bits := range r.layers {
		r.layers[l] = bits[:0]
	}
}
