package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrMissing is returned by a Store when no asset exists at a path.
var ErrMissing = errors.New("asset missing")

// RootEnv names the environment variable overriding the asset root.
const RootEnv = "DOODLAI_ASSETS_ROOT"

// BuildRoot is set at build time with
// -ldflags "-X github.com/milk9111/doodlai/assets.BuildRoot=/path".
var BuildRoot string

// Store reads raw asset bytes by slash-separated path, relative to an asset
// root the store was built with.
type Store interface {
	ReadBytes(path string) ([]byte, error)
}

// Root returns the asset root: BuildRoot if set, then $DOODLAI_ASSETS_ROOT,
// then resources/external next to the running executable.
func Root() (string, error) {
	if BuildRoot != "" {
		return BuildRoot, nil
	}
	if env := os.Getenv(RootEnv); env != "" {
		return env, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("assets: locate executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), "resources", "external"), nil
}

// DirStore reads assets from a directory on disk.
type DirStore string

func (d DirStore) ReadBytes(p string) ([]byte, error) {
	clean, err := cleanStorePath(p)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	data, err := os.ReadFile(filepath.Join(string(d), filepath.FromSlash(clean)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("assets: read %s: %w", clean, ErrMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", clean, err)
	}
	log.Trace().Str("path", clean).Dur("took", time.Since(start)).Msg("loaded asset")
	return data, nil
}

// FSStore reads assets from any fs.FS, typically the embedded pack.
type FSStore struct {
	FS fs.FS
}

func (s FSStore) ReadBytes(p string) ([]byte, error) {
	clean, err := cleanStorePath(p)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.FS, clean)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("assets: read %s: %w", clean, ErrMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", clean, err)
	}
	return data, nil
}

// Layered tries each store in order and returns the first hit. Only
// ErrMissing falls through to the next store.
type Layered []Store

func (l Layered) ReadBytes(p string) ([]byte, error) {
	for _, s := range l {
		data, err := s.ReadBytes(p)
		if errors.Is(err, ErrMissing) {
			continue
		}
		return data, err
	}
	return nil, fmt.Errorf("assets: read %s: %w", p, ErrMissing)
}

func cleanStorePath(p string) (string, error) {
	s := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	s = strings.TrimPrefix(s, "/")
	if !fs.ValidPath(s) || s == "." {
		return "", fmt.Errorf("assets: invalid path %q", p)
	}
	return s, nil
}

var (
	_ Store = DirStore("")
	_ Store = FSStore{}
	_ Store = Layered(nil)
)
