// Package catalog holds the authoritative in-memory catalog of known
// distributions and binds freshly resolved links into it.
package catalog

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"

	"isodepot/internal/entity"
)

//go:embed distributions.yml
var defaultSkeleton []byte

type skeleton struct {
	Distributions []*entity.Distribution `yaml:"distributions"`
}

type indexEntry struct {
	distribution string
	release      *entity.Release
}

// Catalog is the static distribution skeleton plus the URLs merged in as
// resolution succeeds. The catalog is the only mutable shared view; readers
// get deep copies.
type Catalog struct {
	mu      sync.RWMutex
	distros []*entity.Distribution
	index   map[string]indexEntry
	log     *slog.Logger
}

// Load builds the catalog from a YAML skeleton file, or from the embedded
// default when fileName is empty.
func Load(fs afero.Fs, fileName string, log *slog.Logger) (*Catalog, error) {
	data := defaultSkeleton
	if fileName != "" {
		var err error
		data, err = afero.ReadFile(fs, fileName)
		if err != nil {
			return nil, fmt.Errorf("cannot read catalog file: %w", err)
		}
	}

	var sk skeleton
	if err := yaml.Unmarshal(data, &sk); err != nil {
		return nil, fmt.Errorf("cannot parse catalog skeleton: %w", err)
	}

	if len(sk.Distributions) < 1 {
		return nil, fmt.Errorf("catalog skeleton has no distributions")
	}

	c := &Catalog{
		distros: sk.Distributions,
		index:   make(map[string]indexEntry),
		log:     log.With(slog.String("item", "Catalog")),
	}

	for _, distro := range c.distros {
		for _, release := range distro.Releases {
			if release.Key == "" {
				continue
			}
			c.index[release.Key] = indexEntry{distribution: distro.Name, release: release}
		}
	}

	return c, nil
}

// Merge overwrites the URL of every release whose resolution key is present
// in links. Entries without a resolved key keep their previous URL. Merging
// the same map twice yields the same catalog.
func (c *Catalog) Merge(links map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, url := range links {
		entry, exists := c.index[key]
		if !exists {
			c.log.Warn("Resolved key is not in the catalog", slog.String("key", key))

			continue
		}

		entry.release.URL = url
	}
}

// Snapshot returns a deep copy of the catalog for readers.
func (c *Catalog) Snapshot() []entity.Distribution {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entity.Distribution, 0, len(c.distros))
	for _, distro := range c.distros {
		d := *distro
		d.Releases = make([]*entity.Release, 0, len(distro.Releases))
		for _, release := range distro.Releases {
			r := *release
			d.Releases = append(d.Releases, &r)
		}
		out = append(out, d)
	}

	return out
}

// Lookup returns the owning distribution name and a copy of the release for
// a resolution key.
func (c *Catalog) Lookup(key string) (string, entity.Release, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.index[key]
	if !exists {
		return "", entity.Release{}, false
	}

	return entry.distribution, *entry.release, true
}
