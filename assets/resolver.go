package assets

import (
	"fmt"
	"path"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// ResolverTableName is the file, inside a category's base directory, mapping
// variant names to paths relative to that directory.
const ResolverTableName = "resolver-table.yaml"

// Option configures types in this package.
type Option func(*options)

type options struct {
	logger zerolog.Logger
}

// WithLogger sets the logger used for warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(component string, opts []Option) options {
	o := options{logger: log.Logger.With().Str("component", component).Logger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Resolver maps asset IDs of one category to ready-to-read store paths. The
// table is loaded once and never changes afterwards.
type Resolver struct {
	category Category
	base     string
	table    map[ID]string
}

// NewResolver loads <base>/resolver-table.yaml from store. A missing or
// malformed table is not an error: the resolver is built empty and a warning
// is logged, so callers fall back to dynamic textures.
func NewResolver(store Store, category Category, base string, opts ...Option) *Resolver {
	o := buildOptions("resolver", opts)
	r := &Resolver{
		category: category,
		base:     base,
		table:    map[ID]string{},
	}

	table, err := fetchTable(store, category, base)
	if err != nil {
		o.logger.Warn().Err(err).Str("base", base).Stringer("category", category).
			Msg("could not load resolver table, no asset of this category will resolve")
		return r
	}
	r.table = table
	o.logger.Debug().Str("base", base).Int("entries", len(table)).Msg("loaded resolver table")
	return r
}

func fetchTable(store Store, category Category, base string) (map[ID]string, error) {
	tablePath := path.Join(base, ResolverTableName)
	data, err := store.ReadBytes(tablePath)
	if err != nil {
		return nil, err
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("assets: unmarshal %s: %w", tablePath, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("assets: %s declares no assets", tablePath)
	}

	table := make(map[ID]string, len(raw))
	for name, rel := range raw {
		id, err := category.ParseID(name)
		if err != nil {
			return nil, fmt.Errorf("assets: %s: %w", tablePath, err)
		}
		table[id] = path.Join(base, rel)
	}
	return table, nil
}

// Resolve returns the store path for id. The second result is false when the
// table has no entry; callers treat that as a load failure.
func (r *Resolver) Resolve(id ID) (string, bool) {
	p, ok := r.table[id]
	return p, ok
}

// ResolveTexture is Resolve for a texture identifier.
func (r *Resolver) ResolveTexture(t TextureID) (string, bool) {
	return r.Resolve(TextureAsset(t))
}

// Lookup returns every ID resolving to p, sorted by name.
func (r *Resolver) Lookup(p string) []ID {
	p = path.Clean(p)
	var ids []ID
	for id, candidate := range r.table {
		if candidate == p {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Missing returns the IDs of ids that have no entry in the table.
func (r *Resolver) Missing(ids []ID) []ID {
	var out []ID
	for _, id := range ids {
		if _, ok := r.table[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func (r *Resolver) Len() int           { return len(r.table) }
func (r *Resolver) Base() string       { return r.base }
func (r *Resolver) Category() Category { return r.category }
