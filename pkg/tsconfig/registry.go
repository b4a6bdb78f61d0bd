// CLAUDE:SUMMARY Registry of text-search configurations loaded from a manifest directory, with a builtin default and atomic hot reload.
package tsconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hazyhaar/tagsearch/pkg/tagdict"
)

// DefaultID names the built-in configuration, registered unless a manifest
// in the directory claims the same ID.
const DefaultID = "default"

// ErrUnknownConfig is returned by Get for an ID that is not loaded.
var ErrUnknownConfig = errors.New("unknown configuration")

// Registry holds all loaded configurations.
type Registry struct {
	mu         sync.RWMutex
	configs    map[string]*Configuration
	configsDir string
	logger     *slog.Logger
}

// NewRegistry creates a registry that loads manifests from configsDir.
func NewRegistry(configsDir string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		configs:    make(map[string]*Configuration),
		configsDir: configsDir,
		logger:     logger,
	}
}

// Load reads every *.yaml / *.yml manifest in the configs directory.
// A missing directory leaves only the built-in configuration. Any invalid
// manifest fails the whole load and keeps the previous set in place.
func (r *Registry) Load() error {
	newConfigs := make(map[string]*Configuration)

	entries, err := os.ReadDir(r.configsDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read configs dir %s: %w", r.configsDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !isManifest(entry.Name()) {
			continue
		}
		m, err := LoadManifest(filepath.Join(r.configsDir, entry.Name()))
		if err != nil {
			return err
		}
		if _, dup := newConfigs[m.ID]; dup {
			return fmt.Errorf("config %s: defined twice in %s", m.ID, r.configsDir)
		}
		c, err := NewConfiguration(m)
		if err != nil {
			return err
		}
		newConfigs[m.ID] = c
	}

	if _, ok := newConfigs[DefaultID]; !ok {
		c, err := NewConfiguration(defaultManifest())
		if err != nil {
			return err
		}
		newConfigs[DefaultID] = c
	}

	r.mu.Lock()
	r.configs = newConfigs
	r.mu.Unlock()
	r.logger.Debug("configurations loaded", "dir", r.configsDir, "count", len(newConfigs))
	return nil
}

// Reload reloads all configurations from disk (hot reload).
func (r *Registry) Reload() error {
	return r.Load()
}

// Get returns the configuration with the given ID. An empty ID selects the
// default configuration.
func (r *Registry) Get(id string) (*Configuration, error) {
	if id == "" {
		id = DefaultID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.configs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownConfig, id)
	}
	return c, nil
}

// ConfigInfo is the public metadata for a loaded configuration.
type ConfigInfo struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	Encoding    string `json:"encoding"`
	Locale      string `json:"locale,omitempty"`
	SplitTags   bool   `json:"split_tags"`
}

// List returns metadata for all loaded configurations, sorted by ID.
func (r *Registry) List() []ConfigInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]ConfigInfo, 0, len(r.configs))
	for _, c := range r.configs {
		infos = append(infos, ConfigInfo{
			ID:          c.Manifest.ID,
			Description: c.Manifest.Description,
			Encoding:    c.Encoding(),
			Locale:      c.Manifest.Locale,
			SplitTags:   c.SplitTags(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Count returns the number of loaded configurations.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.configs)
}

func defaultManifest() *Manifest {
	return &Manifest{
		ID:          DefaultID,
		Description: "Tags with category splitting",
		Encoding:    "utf-8",
		Dictionary:  ParamList{{Name: tagdict.ParamSplitTags, Value: "1"}},
	}
}

func isManifest(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
