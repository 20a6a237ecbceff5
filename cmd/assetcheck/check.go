package main

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"io"
	"time"

	"github.com/milk9111/doodlai/assets"
	"github.com/milk9111/doodlai/assets/texture"
	"github.com/milk9111/doodlai/taskpool"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// imageCodec decodes to plain images, so checks need no graphics context.
type imageCodec struct{}

func (imageCodec) Decode(id assets.TextureID, data []byte) (image.Image, error) {
	im, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", id, err)
	}
	return im, nil
}

func (imageCodec) Synthesize(p assets.DynamicParams) (image.Image, error) {
	size := int(p.Size)
	im := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(im, im.Bounds(), image.NewUniform(p.Color), image.Point{}, draw.Src)
	return im, nil
}

type report struct {
	undeclared []assets.ID
	decoded    []assets.TextureID
	missing    []assets.TextureID
	broken     []assets.TextureID
	decode     bool
}

func (r report) ok() bool {
	return len(r.undeclared) == 0 && len(r.missing) == 0 && len(r.broken) == 0
}

func (r report) print(w io.Writer) {
	for _, id := range r.undeclared {
		fmt.Fprintf(w, "undeclared %s\n", id)
	}
	for _, id := range r.missing {
		fmt.Fprintf(w, "missing    %s\n", id)
	}
	for _, id := range r.broken {
		fmt.Fprintf(w, "broken     %s\n", id)
	}
	if r.decode {
		fmt.Fprintf(w, "%d textures decoded\n", len(r.decoded))
	}
	if r.ok() {
		fmt.Fprintln(w, "ok")
	}
}

func check(resolver *assets.Resolver, store assets.Store, decode bool, workers int, timeout time.Duration) report {
	var ids []assets.ID
	for _, t := range assets.StaticTextures() {
		ids = append(ids, assets.TextureAsset(t))
	}
	r := report{undeclared: resolver.Missing(ids), decode: decode}
	if !decode || len(r.undeclared) > 0 {
		return r
	}

	pool := taskpool.New(workers)
	defer pool.Close()
	storage := texture.New[image.Image](resolver, store, pool, imageCodec{})

	pending := make(map[assets.TextureID]struct{})
	for _, t := range assets.StaticTextures() {
		storage.Get(t)
		pending[t] = struct{}{}
	}

	deadline := time.Now().Add(timeout)
	for len(pending) > 0 && time.Now().Before(deadline) {
		storage.Poll()
		for t := range pending {
			switch {
			case storage.IsReady(t):
				r.decoded = append(r.decoded, t)
			case storage.IsMissing(t):
				r.missing = append(r.missing, t)
			case storage.Stats().Outstanding == 0:
				// loaded but not decodable: neither ready nor missing
				r.broken = append(r.broken, t)
			default:
				continue
			}
			delete(pending, t)
		}
		time.Sleep(5 * time.Millisecond)
	}
	for t := range pending {
		r.broken = append(r.broken, t)
	}
	return r
}
