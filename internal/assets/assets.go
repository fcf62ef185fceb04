// Package assets resolves resource paths against data directories and
// archives.
package assets

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/tilekit/internal/logger"
)

// source is one mounted resource tree.
type source struct {
	name   string
	fsys   fs.FS
	closer io.Closer
}

// Manager loads resource files from mounted sources.
// Sources are searched in reverse order (last added = highest priority).
type Manager struct {
	sources []source
	cache   *Cache
	mu      sync.RWMutex
}

// NewManager creates a new asset manager with no sources.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// Mount creates a manager over the data directory root, with the given zip
// archives mounted on top. Relative archive paths are resolved against root.
func Mount(root string, archives []string) (*Manager, error) {
	m := NewManager()
	if err := m.AddDir(root); err != nil {
		return nil, err
	}

	for _, archive := range archives {
		if !filepath.IsAbs(archive) {
			archive = filepath.Join(root, archive)
		}
		if err := m.AddArchive(archive); err != nil {
			m.Close()
			return nil, err
		}
	}
	return m, nil
}

// AddDir mounts a data directory.
func (m *Manager) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("opening data directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("opening data directory %s: not a directory", dir)
	}
	m.AddFS(dir, os.DirFS(dir))
	return nil
}

// AddArchive mounts a zip archive.
func (m *Manager) AddArchive(archivePath string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", archivePath, err)
	}

	m.mu.Lock()
	m.sources = append(m.sources, source{name: archivePath, fsys: zr, closer: zr})
	m.mu.Unlock()
	m.cache.Clear()

	logger.Debug("archive mounted", zap.String("path", archivePath), zap.Int("files", len(zr.File)))
	return nil
}

// AddFS mounts an arbitrary file system under a display name. Mounting a
// source drops cached files since it may shadow them.
func (m *Manager) AddFS(name string, fsys fs.FS) {
	m.mu.Lock()
	m.sources = append(m.sources, source{name: name, fsys: fsys})
	m.mu.Unlock()
	m.cache.Clear()

	logger.Debug("data source mounted", zap.String("name", name))
}

// Load reads a file by its slash-separated resource path. A file missing
// from every source yields an error matching fs.ErrNotExist.
func (m *Manager) Load(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "load", Path: name, Err: fs.ErrInvalid}
	}

	if data, ok := m.cache.Get(name); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.sources) - 1; i >= 0; i-- {
		data, err := fs.ReadFile(m.sources[i].fsys, name)
		if err == nil {
			m.cache.Set(name, data)
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s from %s: %w", name, m.sources[i].name, err)
		}
	}

	return nil, &fs.PathError{Op: "load", Path: name, Err: fs.ErrNotExist}
}

// Forget drops the cached content of a file. The next Load reads it from
// the sources again.
func (m *Manager) Forget(name string) {
	m.cache.Delete(name)
}

// Exists reports whether a file exists in any source.
func (m *Manager) Exists(name string) bool {
	if !fs.ValidPath(name) {
		return false
	}
	if _, ok := m.cache.Get(name); ok {
		return true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.sources) - 1; i >= 0; i-- {
		if _, err := fs.Stat(m.sources[i].fsys, name); err == nil {
			return true
		}
	}
	return false
}

// Glob returns the resource paths matching pattern across all sources,
// without duplicates, sorted by path.
func (m *Manager) Glob(pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, src := range m.sources {
		matches, err := fs.Glob(src.fsys, pattern)
		if err != nil {
			return nil, err
		}
		for _, name := range matches {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// Sources returns the display names of mounted sources, lowest priority first.
func (m *Manager) Sources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.sources))
	for i, src := range m.sources {
		names[i] = src.name
	}
	return names
}

// CachedFiles returns the number of files whose content is cached.
func (m *Manager) CachedFiles() int {
	return m.cache.Len()
}

// CacheStats returns cache statistics.
func (m *Manager) CacheStats() (hits, misses int) {
	return m.cache.Stats()
}

// Close closes all archives and forgets every source.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, src := range m.sources {
		if src.closer != nil {
			if err := src.closer.Close(); err != nil {
				logger.Warn("closing data source", zap.String("name", src.name), zap.Error(err))
			}
		}
	}
	m.sources = nil
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded files.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Delete removes an item from cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
