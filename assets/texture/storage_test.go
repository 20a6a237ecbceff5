package texture

import (
	"errors"
	"fmt"
	"image/color"
	"path"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/milk9111/doodlai/assets"
	"github.com/milk9111/doodlai/taskpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// stringCodec "decodes" bytes to their string form; "bad" fails to decode.
type stringCodec struct{}

func (stringCodec) Decode(id assets.TextureID, data []byte) (string, error) {
	if string(data) == "bad" {
		return "", fmt.Errorf("decode %s: malformed", id)
	}
	return string(data), nil
}

func (stringCodec) Synthesize(p assets.DynamicParams) (string, error) {
	return assets.DynamicTexture(p).String(), nil
}

type brokenSynth struct{ stringCodec }

func (brokenSynth) Synthesize(assets.DynamicParams) (string, error) {
	return "", errors.New("no colours left")
}

// recordingStore counts reads per path and can hold texture reads until the
// gate is closed. The resolver table is never held: NewResolver reads it on
// the calling goroutine.
type recordingStore struct {
	inner assets.Store
	gate  chan struct{}

	mu    sync.Mutex
	reads map[string]int
	// overrides, consumed in order, replace the inner store's bytes
	overrides map[string][]string
}

func newRecordingStore(files fstest.MapFS) *recordingStore {
	return &recordingStore{
		inner:     assets.FSStore{FS: files},
		reads:     map[string]int{},
		overrides: map[string][]string{},
	}
}

func (r *recordingStore) ReadBytes(p string) ([]byte, error) {
	if r.gate != nil && path.Base(p) != assets.ResolverTableName {
		<-r.gate
	}
	r.mu.Lock()
	r.reads[p]++
	var override *string
	if queue := r.overrides[p]; len(queue) > 0 {
		override = &queue[0]
		r.overrides[p] = queue[1:]
	}
	r.mu.Unlock()
	if override != nil {
		return []byte(*override), nil
	}
	return r.inner.ReadBytes(p)
}

func (r *recordingStore) count(p string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads[p]
}

func testFiles(table string) fstest.MapFS {
	return fstest.MapFS{
		"textures/resolver-table.yaml": {Data: []byte(table)},
		"textures/missing.png":         {Data: []byte("missing")},
		"textures/blue.png":            {Data: []byte("blue")},
		"textures/green.png":           {Data: []byte("green")},
	}
}

const fullTable = `
Missing: missing.png
BluePlatform: blue.png
GreenPlatform: green.png
RedPlatform: red.png
`

func newTestStorage(t *testing.T, store assets.Store, codec Codec[string]) (*Storage[string], *taskpool.Pool) {
	t.Helper()
	pool := taskpool.New(2, taskpool.WithLogger(zerolog.Nop()))
	t.Cleanup(func() { _ = pool.Close() })
	resolver := assets.NewResolver(store, assets.CategoryTexture, "textures", assets.WithLogger(zerolog.Nop()))
	return New[string](resolver, store, pool, codec, WithLogger(zerolog.Nop())), pool
}

func pollUntil(t *testing.T, s *Storage[string], cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		s.Poll()
		return cond()
	}, 2*time.Second, time.Millisecond)
}

var (
	blue    = assets.Texture(assets.TextureBluePlatform)
	green   = assets.Texture(assets.TextureGreenPlatform)
	red     = assets.Texture(assets.TextureRedPlatform)
	missing = assets.MissingTexture()
)

func defaultDynamicName() string {
	return assets.DynamicTexture(assets.DefaultDynamicParams()).String()
}

func TestStorageServesFallbackUntilLoaded(t *testing.T) {
	store := newRecordingStore(testFiles(fullTable))
	store.gate = make(chan struct{})
	s, _ := newTestStorage(t, store, stringCodec{})

	res, exact := s.Get(blue)
	require.False(t, exact)
	require.Equal(t, defaultDynamicName(), res)
	require.Equal(t, 2, s.Stats().Outstanding, "placeholder and blue should both be loading")

	s.Poll()
	_, exact = s.Get(blue)
	require.False(t, exact, "nothing completes while reads are held")

	close(store.gate)
	pollUntil(t, s, func() bool { return s.IsReady(blue) && s.IsReady(missing) })

	res, exact = s.Get(blue)
	require.True(t, exact)
	require.Equal(t, "blue", res)

	res, exact = s.Get(green)
	require.False(t, exact)
	require.Equal(t, "missing", res, "decoded placeholder wins over the dynamic swatch")
}

func TestStorageSingleFlight(t *testing.T) {
	store := newRecordingStore(testFiles(fullTable))
	store.gate = make(chan struct{})
	s, pool := newTestStorage(t, store, stringCodec{})

	for i := 0; i < 25; i++ {
		_, exact := s.Get(blue)
		require.False(t, exact)
	}
	require.Equal(t, 2, s.Stats().Outstanding)

	close(store.gate)
	require.NoError(t, pool.Close())
	require.Equal(t, 1, store.count("textures/blue.png"))
	require.Equal(t, 1, store.count("textures/missing.png"))
	require.EqualValues(t, 2, pool.Stats().Submitted)
}

func TestStorageStaysReady(t *testing.T) {
	s, _ := newTestStorage(t, newRecordingStore(testFiles(fullTable)), stringCodec{})

	s.Get(green)
	pollUntil(t, s, func() bool { return s.IsReady(green) })

	for i := 0; i < 100; i++ {
		s.Poll()
		res, exact := s.Get(green)
		require.True(t, exact)
		require.Equal(t, "green", res)
	}
}

func TestStorageLoadFailureIsNotRetried(t *testing.T) {
	store := newRecordingStore(testFiles(fullTable))
	s, _ := newTestStorage(t, store, stringCodec{})

	// red is declared but its file does not exist
	s.Get(red)
	pollUntil(t, s, func() bool { return s.IsMissing(red) })
	require.False(t, s.IsReady(red))

	for i := 0; i < 10; i++ {
		_, exact := s.Get(red)
		require.False(t, exact)
		s.Poll()
	}
	pollUntil(t, s, func() bool { return s.Stats().Outstanding == 0 })
	require.Equal(t, 1, store.count("textures/red.png"))

	require.True(t, s.ForgetMissing(red))
	require.False(t, s.ForgetMissing(red))
	s.Get(red)
	pollUntil(t, s, func() bool { return s.IsMissing(red) })
	require.Equal(t, 2, store.count("textures/red.png"))
}

func TestStorageDecodeFailureIsRetried(t *testing.T) {
	store := newRecordingStore(testFiles(fullTable))
	store.overrides["textures/blue.png"] = []string{"bad"}
	s, _ := newTestStorage(t, store, stringCodec{})

	s.Get(blue)
	pollUntil(t, s, func() bool { return s.Stats().Outstanding == 0 })
	require.False(t, s.IsReady(blue))
	require.False(t, s.IsMissing(blue))

	// the next request loads again and this time the bytes decode
	s.Get(blue)
	pollUntil(t, s, func() bool { return s.IsReady(blue) })
	res, exact := s.Get(blue)
	require.True(t, exact)
	require.Equal(t, "blue", res)
	require.Equal(t, 2, store.count("textures/blue.png"))
}

func TestStorageUndeclaredTexturePanics(t *testing.T) {
	s, _ := newTestStorage(t, newRecordingStore(testFiles("Missing: missing.png\n")), stringCodec{})

	require.Panics(t, func() { s.Get(blue) })
}

func TestStorageWithoutResolverTable(t *testing.T) {
	s, _ := newTestStorage(t, newRecordingStore(fstest.MapFS{}), stringCodec{})

	require.True(t, s.IsMissing(missing))
	require.Zero(t, s.Stats().Outstanding)

	res, exact := s.Get(missing)
	require.False(t, exact)
	require.Equal(t, defaultDynamicName(), res)

	p := assets.DynamicParams{Size: 3, Color: color.RGBA{G: 255, A: 255}}
	res, exact = s.Get(assets.DynamicTexture(p))
	require.True(t, exact)
	require.Equal(t, "Dynamic(3,#00ff00ff)", res)
}

func TestStorageDynamicTextures(t *testing.T) {
	s, _ := newTestStorage(t, newRecordingStore(testFiles(fullTable)), stringCodec{})
	p := assets.DynamicParams{Size: 4, Color: color.RGBA{R: 255, A: 255}}

	id, err := s.CreateDynamic(p)
	require.NoError(t, err)
	require.Equal(t, assets.DynamicTexture(p), id)
	require.True(t, s.IsReady(id))

	_, err = s.CreateDynamic(p)
	require.ErrorIs(t, err, ErrDynamicExists)

	res, exact := s.Get(id)
	require.True(t, exact)
	require.Equal(t, "Dynamic(4,#ff0000ff)", res)
}

func TestStorageSynthesisFailurePanics(t *testing.T) {
	s, _ := newTestStorage(t, newRecordingStore(fstest.MapFS{}), brokenSynth{})

	require.Panics(t, func() { s.Get(missing) })

	_, err := s.CreateDynamic(assets.DefaultDynamicParams())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDynamicExists)
}
