// Package assets handles asset loading and caching.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/spotlight-stage/internal/logger"
)

// ErrNotFound is returned when an asset path does not resolve to a file.
var ErrNotFound = errors.New("asset not found")

// ErrUnreadable is returned when an asset path exists but cannot be read,
// such as a directory or a file without read permission. The underlying
// error is wrapped as well.
var ErrUnreadable = errors.New("asset unreadable")

// Manager loads read-only assets from a directory tree.
// Each path is read from disk at most once.
type Manager struct {
	fsys  fs.FS
	root  string
	cache *Cache
}

// NewManager creates a manager rooted at a directory on disk.
func NewManager(root string) *Manager {
	return NewManagerFS(os.DirFS(root), root)
}

// NewManagerFS creates a manager over an arbitrary filesystem.
// root is only used in log and error messages.
func NewManagerFS(fsys fs.FS, root string) *Manager {
	return &Manager{
		fsys:  fsys,
		root:  root,
		cache: NewCache(),
	}
}

// Load returns the contents of an asset.
func (m *Manager) Load(name string) ([]byte, error) {
	key := cleanPath(name)

	if data, ok := m.cache.Get(key); ok {
		return data, nil
	}

	data, err := fs.ReadFile(m.fsys, key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filepath.Join(m.root, name))
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, filepath.Join(m.root, name), err)
	}

	m.cache.Set(key, data)
	logger.Debug("asset loaded",
		zap.String("path", key),
		zap.Int("bytes", len(data)),
	)
	return data, nil
}

// Release drops cached file contents once everything has been uploaded.
func (m *Manager) Release() {
	hits, misses := m.cache.Stats()
	logger.Debug("asset cache released", zap.Int("hits", hits), zap.Int("misses", misses))
	m.cache.Clear()
}

// cleanPath turns a config path like "./asset/Amy.obj" into an fs.FS name.
func cleanPath(name string) string {
	p := path.Clean(filepath.ToSlash(name))
	for len(p) > 2 && p[:2] == "./" {
		p = p[2:]
	}
	return p
}

// Cache is a simple in-memory cache for loaded assets.
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
