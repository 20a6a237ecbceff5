package render

import "fmt"

// Layer orders draw calls; lower layers are drawn first.
type Layer uint8

const (
	LayerBackground Layer = iota
	LayerGame
	LayerUI
	layerLast
)

// Layers returns every layer in draw order.
func Layers() []Layer {
	out := make([]Layer, 0, layerLast)
	for l := LayerBackground; l < layerLast; l++ {
		out = append(out, l)
	}
	return out
}

func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerGame:
		return "game"
	case LayerUI:
		return "ui"
	}
	return fmt.Sprintf("layer(%d)", uint8(l))
}

// ParseLayer is the inverse of String.
func ParseLayer(s string) (Layer, error) {
	for _, l := range Layers() {
		if l.String() == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("render: unknown layer %q", s)
}
