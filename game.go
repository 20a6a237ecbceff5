package main

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/doodlai/assets"
	"github.com/milk9111/doodlai/assets/texture"
	"github.com/milk9111/doodlai/config"
	"github.com/milk9111/doodlai/prefabs"
	"github.com/milk9111/doodlai/render"
	"github.com/milk9111/doodlai/taskpool"
	"github.com/rs/zerolog/log"
)

const textureBase = "textures"

type Game struct {
	cfg    config.Config
	frames int
	last   time.Time

	pool     *taskpool.Pool
	resolver *assets.Resolver
	textures *texture.Storage[*ebiten.Image]
	renderer *render.Renderer
	scene    *scene
	watcher  *assets.Watcher

	renderLog render.Log
	notFound  int
}

func NewGame(cfg config.Config) (*Game, error) {
	root := cfg.Assets.Root
	if root == "" {
		r, err := assets.Root()
		if err != nil {
			return nil, err
		}
		root = r
	}
	store := assets.DefaultStore(root)

	pool := taskpool.New(cfg.Assets.Workers)
	resolver := assets.NewResolver(store, assets.CategoryTexture, textureBase)
	textures := texture.New[*ebiten.Image](resolver, store, pool, render.ImageCodec{})

	lib, err := loadAnimationLibrary()
	if err != nil {
		_ = pool.Close()
		return nil, err
	}
	spec, err := prefabs.LoadSceneSpec()
	if err != nil {
		_ = pool.Close()
		return nil, err
	}
	sc, err := buildScene(spec, lib, textures)
	if err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("scene %s: %w", spec.Name, err)
	}

	g := &Game{
		cfg:      cfg,
		pool:     pool,
		resolver: resolver,
		textures: textures,
		renderer: render.NewRenderer(),
		scene:    sc,
	}

	if cfg.Watch {
		w, err := assets.NewWatcher(root, textureBase)
		if err != nil {
			log.Warn().Err(err).Str("root", root).Msg("asset watcher disabled")
		} else {
			g.watcher = w
		}
	}

	log.Info().Str("root", root).Int("textures", resolver.Len()).Str("scene", sc.name).Msg("game ready")
	return g, nil
}

func (g *Game) Update() error {
	now := time.Now()
	var dt time.Duration
	if !g.last.IsZero() {
		dt = now.Sub(g.last)
	}
	g.last = now
	g.frames++

	// completed loads must land before this frame's Draw asks for them
	g.textures.Poll()
	g.drainWatcher()

	for _, e := range g.scene.entities {
		e.visual.Update(dt)
	}
	return nil
}

// drainWatcher gives textures whose file just appeared one more load attempt.
func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case p, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			for _, id := range g.resolver.Lookup(p) {
				if g.textures.ForgetMissing(id.Texture) {
					log.Info().Stringer("id", id).Str("path", p).Msg("asset changed, retrying")
				}
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Warn().Err(err).Msg("asset watcher")
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.scene.background)

	req := g.renderer.Request()
	for _, e := range g.scene.entities {
		req.Add(e.visual.Texture(), e.param, e.layer)
	}
	g.renderLog = g.renderer.Run(screen, g.textures)
	g.notFound += g.renderLog.TexturesNotFound

	if g.cfg.Debug {
		st := g.textures.Stats()
		ps := g.pool.Stats()
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"Frames: %d    FPS: %.2f\n%s\ntextures ready: %d loading: %d missing: %d    not found total: %d\npool queued: %d done: %d/%d",
			g.frames, ebiten.ActualFPS(), g.renderLog,
			st.Ready, st.Outstanding, st.Missing, g.notFound,
			ps.Queued, ps.Completed, ps.Submitted,
		))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

// Close stops the watcher and waits for outstanding loads.
func (g *Game) Close() error {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	return g.pool.Close()
}
