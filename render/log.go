package render

import "fmt"

// Log counts what a render pass drew. TexturesNotFound counts draws that got
// a substitute instead of the requested texture.
type Log struct {
	Layers           int
	Textures         int
	TexturesNotFound int
	UniqueTextures   int
}

func (l *Log) Merge(other Log) {
	l.Layers += other.Layers
	l.Textures += other.Textures
	l.TexturesNotFound += other.TexturesNotFound
	l.UniqueTextures += other.UniqueTextures
}

func (l Log) String() string {
	return fmt.Sprintf("layers: %d textures: %d (%d unique, %d not found)",
		l.Layers, l.Textures, l.UniqueTextures, l.TexturesNotFound)
}
