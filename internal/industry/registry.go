package industry

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed industries.yaml
var embeddedConfig []byte

// Registry maps industry keys to their configuration. It is read-only once
// built and safe for concurrent use.
type Registry struct {
	defaultKey string
	configs    map[string]Config
}

type registryFile struct {
	Default    string            `yaml:"default"`
	Industries map[string]Config `yaml:"industries"`
}

// Parse builds a Registry from a YAML document. Every entry is validated and
// the default key must name one of them.
func Parse(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("industry: parse: %w", err)
	}
	if len(f.Industries) == 0 {
		return nil, fmt.Errorf("%w: no industries defined", errInvalidConfig)
	}

	defaultKey := f.Default
	if defaultKey == "" {
		defaultKey = DefaultKey
	}

	configs := make(map[string]Config, len(f.Industries))
	for key, cfg := range f.Industries {
		cfg.Key = key
		if cfg.Label == "" {
			cfg.Label = key
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		configs[key] = cfg
	}
	if _, ok := configs[defaultKey]; !ok {
		return nil, fmt.Errorf("%w: default industry %q is not defined", errInvalidConfig, defaultKey)
	}

	return &Registry{defaultKey: defaultKey, configs: configs}, nil
}

// LoadFile reads and parses a registry from path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("industry: read %s: %w", path, err)
	}
	return Parse(data)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the embedded industries.yaml.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Parse(embeddedConfig)
		if err != nil {
			panic(fmt.Sprintf("industry: embedded config: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Lookup returns the configuration for key, or the default industry's
// configuration when key is unknown.
func (r *Registry) Lookup(key string) Config {
	if cfg, ok := r.configs[key]; ok {
		return cfg
	}
	return r.configs[r.defaultKey]
}

// Get returns the configuration for key and whether it exists.
func (r *Registry) Get(key string) (Config, bool) {
	cfg, ok := r.configs[key]
	return cfg, ok
}

// DefaultKey returns the key Lookup falls back to.
func (r *Registry) DefaultKey() string {
	return r.defaultKey
}

// Keys returns all industry keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.configs))
	for k := range r.configs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns every configuration ordered by key.
func (r *Registry) All() []Config {
	keys := r.Keys()
	out := make([]Config, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.configs[k])
	}
	return out
}
