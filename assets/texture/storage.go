// Package texture streams textures into a ready cache. Loads run on a task
// pool; the owner sweeps completed loads once per frame with Poll and reads
// with Get, which never blocks and falls back to a placeholder until the real
// texture is decoded.
//
// A Storage is not safe for concurrent use. It must be driven from a single
// goroutine, normally the game's update loop; worker goroutines only read
// bytes and hand them back through task handles.
package texture

import (
	"errors"
	"fmt"
	"time"

	"github.com/milk9111/doodlai/assets"
	"github.com/milk9111/doodlai/taskpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ErrDynamicExists is returned when a dynamic texture is created twice with
// the same parameters.
var ErrDynamicExists = errors.New("texture: dynamic texture already exists")

// Codec turns raw bytes into a drawable resource and generates dynamic ones.
type Codec[R any] interface {
	Decode(id assets.TextureID, data []byte) (R, error)
	Synthesize(p assets.DynamicParams) (R, error)
}

// Stats counts the entries of each Storage set.
type Stats struct {
	Ready       int
	Outstanding int
	Missing     int
}

// Option configures a Storage.
type Option func(*config)

type config struct {
	logger       zerolog.Logger
	decodeLogGap time.Duration
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithDecodeLogInterval bounds how often decode failures are logged. Decode
// failures are retried on every request, so unthrottled they would log every
// frame.
func WithDecodeLogInterval(d time.Duration) Option {
	return func(c *config) { c.decodeLogGap = d }
}

// Storage is the texture cache.
type Storage[R any] struct {
	resolver *assets.Resolver
	store    assets.Store
	pool     *taskpool.Pool
	codec    Codec[R]
	logger   zerolog.Logger
	decodeLg *rate.Limiter

	outstanding map[assets.TextureID]*taskpool.Handle[[]byte]
	ready       map[assets.TextureID]R
	missing     map[assets.TextureID]struct{}
}

// New builds a Storage and immediately starts loading the missing-texture
// placeholder so a fallback is available as early as possible.
func New[R any](resolver *assets.Resolver, store assets.Store, pool *taskpool.Pool, codec Codec[R], opts ...Option) *Storage[R] {
	c := config{
		logger:       log.Logger.With().Str("component", "texture").Logger(),
		decodeLogGap: time.Second,
	}
	for _, opt := range opts {
		opt(&c)
	}

	s := &Storage[R]{
		resolver:    resolver,
		store:       store,
		pool:        pool,
		codec:       codec,
		logger:      c.logger,
		decodeLg:    rate.NewLimiter(rate.Every(c.decodeLogGap), 1),
		outstanding: make(map[assets.TextureID]*taskpool.Handle[[]byte]),
		ready:       make(map[assets.TextureID]R),
		missing:     make(map[assets.TextureID]struct{}),
	}
	s.request(assets.MissingTexture())
	return s
}

// request starts loading id unless a load is already in flight, in which case
// the existing handle is returned. It returns nil only when the missing
// placeholder itself is not declared.
func (s *Storage[R]) request(id assets.TextureID) *taskpool.Handle[[]byte] {
	if h, ok := s.outstanding[id]; ok {
		return h
	}

	p, ok := s.resolver.ResolveTexture(id)
	if !ok {
		if id == assets.MissingTexture() {
			s.logger.Warn().Msg("missing texture placeholder is not declared in the resolver table, falling back to dynamic textures")
			s.missing[id] = struct{}{}
			return nil
		}
		s.logger.Error().Stringer("id", id).Str("base", s.resolver.Base()).
			Msg("texture is not declared in the resolver table")
		panic(fmt.Sprintf("texture: %s is not declared in %s/%s", id, s.resolver.Base(), assets.ResolverTableName))
	}

	store := s.store
	h := taskpool.Submit(s.pool, func() ([]byte, error) {
		return store.ReadBytes(p)
	})
	s.outstanding[id] = h
	return h
}

// Poll moves every completed load out of the outstanding set. It does no I/O
// and never waits; pending loads are looked at again on the next call.
func (s *Storage[R]) Poll() {
	for id, h := range s.outstanding {
		if !h.IsComplete() {
			continue
		}
		delete(s.outstanding, id)

		switch h.State() {
		case taskpool.Failed:
			s.logger.Error().Err(h.Err()).Stringer("id", id).Msg("texture load failed")
			if _, ok := s.missing[id]; ok {
				s.logger.Warn().Stringer("id", id).Msg("texture was already marked missing")
			}
			s.missing[id] = struct{}{}
		case taskpool.Succeeded:
			data, _ := h.Result()
			res, err := s.codec.Decode(id, data)
			if err != nil {
				if s.decodeLg.Allow() {
					s.logger.Error().Err(err).Stringer("id", id).Msg("texture decode failed")
				}
				continue
			}
			if _, ok := s.ready[id]; ok {
				s.logger.Warn().Stringer("id", id).Msg("texture storage replaced a ready texture")
			}
			s.ready[id] = res
		}
	}
}

// Get returns the texture for id. The boolean is true when the exact texture
// was served and false when a substitute was: the decoded missing
// placeholder if available, otherwise the default dynamic swatch. Requesting
// a texture that is not ready starts its load in the background.
func (s *Storage[R]) Get(id assets.TextureID) (R, bool) {
	if res, ok := s.ready[id]; ok {
		return res, true
	}

	if id.IsDynamic() {
		return s.mustSynthesize(id.Dynamic), true
	}

	if _, dead := s.missing[id]; !dead {
		s.request(id)
	}

	missingID := assets.MissingTexture()
	if res, ok := s.ready[missingID]; ok {
		return res, false
	}
	if _, dead := s.missing[missingID]; !dead {
		s.request(missingID)
	}

	fallback := assets.DynamicTexture(assets.DefaultDynamicParams())
	if res, ok := s.ready[fallback]; ok {
		return res, false
	}
	return s.mustSynthesize(fallback.Dynamic), false
}

// mustSynthesize generates and caches a dynamic texture. Synthesis has no
// legitimate failure mode, so a failure panics.
func (s *Storage[R]) mustSynthesize(p assets.DynamicParams) R {
	id := assets.DynamicTexture(p)
	res, err := s.codec.Synthesize(p)
	if err != nil {
		s.logger.Error().Err(err).Stringer("id", id).Msg("dynamic texture synthesis failed")
		panic(fmt.Sprintf("texture: synthesize %s: %v", id, err))
	}
	s.ready[id] = res
	return res
}

// CreateDynamic generates the texture described by p and returns its id.
// Dynamic ids are keyed by value, so creating the same parameters twice is a
// caller bug and returns ErrDynamicExists.
func (s *Storage[R]) CreateDynamic(p assets.DynamicParams) (assets.TextureID, error) {
	id := assets.DynamicTexture(p)
	if _, ok := s.ready[id]; ok {
		s.logger.Error().Stringer("id", id).Msg("dynamic texture created twice")
		return id, fmt.Errorf("texture: create %s: %w", id, ErrDynamicExists)
	}
	res, err := s.codec.Synthesize(p)
	if err != nil {
		return id, fmt.Errorf("texture: create %s: %w", id, err)
	}
	s.ready[id] = res
	return id, nil
}

// ForgetMissing clears the failed-load mark on id so the next Get retries it
// once. It reports whether id was marked.
func (s *Storage[R]) ForgetMissing(id assets.TextureID) bool {
	if _, ok := s.missing[id]; !ok {
		return false
	}
	delete(s.missing, id)
	return true
}

// IsMissing reports whether the last load of id failed.
func (s *Storage[R]) IsMissing(id assets.TextureID) bool {
	_, ok := s.missing[id]
	return ok
}

// IsReady reports whether id is decoded and cached.
func (s *Storage[R]) IsReady(id assets.TextureID) bool {
	_, ok := s.ready[id]
	return ok
}

func (s *Storage[R]) Stats() Stats {
	return Stats{
		Ready:       len(s.ready),
		Outstanding: len(s.outstanding),
		Missing:     len(s.missing),
	}
}
