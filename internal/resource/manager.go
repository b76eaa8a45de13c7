package resource

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/lampy-engine/lampy/internal/asset"
)

// Manager resolves AssetIDs to constructed, cached payloads. It is safe
// for concurrent use: duplicate concurrent loads of the same id collapse
// onto a single construction via singleflight, while loads of different
// ids proceed independently.
type Manager struct {
	logger  *log.Logger
	db      *asset.Database
	pak     *asset.PakReader
	tempDir string

	group  singleflight.Group
	caches sync.Map // reflect.Type -> *cache[T], type-erased
}

// NewManager wires a Manager against db. pak may be nil (no archive
// mounted, everything loads from loose importedPath files). tempDir
// receives the transient files written out of a mounted PAK before
// construction; os.TempDir() is used if empty.
func NewManager(logger *log.Logger, db *asset.Database, pak *asset.PakReader, tempDir string) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Manager{logger: logger, db: db, pak: pak, tempDir: tempDir}
}

// MountPak swaps in (or clears, if r is nil) the archive consulted before
// falling back to loose importedPath files.
func (m *Manager) MountPak(r *asset.PakReader) { m.pak = r }

func cacheFor[T any](m *Manager) *cache[T] {
	key := reflect.TypeOf((*T)(nil))
	if v, ok := m.caches.Load(key); ok {
		return v.(*cache[T])
	}
	actual, _ := m.caches.LoadOrStore(key, newCache[T]())
	return actual.(*cache[T])
}

// Load resolves id to a live *T, constructing it via construct if it is
// not already cached. construct receives the resolved source path: either
// info.ImportedPath, or a process-temp file holding the PAK-extracted
// bytes when a mounted archive contains id. The temp file, if any, is
// removed once construct returns, success or failure.
func Load[T any](m *Manager, id asset.ID, construct func(sourcePath string) (*T, error)) (*T, error) {
	c := cacheFor[T](m)
	if v, ok := c.get(id); ok {
		return v, nil
	}

	result, err, _ := m.group.Do(id.String(), func() (any, error) {
		if v, ok := c.get(id); ok {
			return v, nil
		}

		info := m.db.Get(id)
		if info == nil {
			return nil, fmt.Errorf("resource: unknown asset %s", id)
		}

		sourcePath := info.ImportedPath
		var tempPath string
		if m.pak != nil && m.pak.Contains(id) {
			data, err := m.pak.ReadAsset(id)
			if err != nil {
				return nil, fmt.Errorf("resource: read %s from pak: %w", id, err)
			}
			tmp, err := writeTempFile(m.tempDir, id, data)
			if err != nil {
				return nil, err
			}
			tempPath = tmp
			sourcePath = tmp
		}

		value, constructErr := construct(sourcePath)
		if tempPath != "" {
			if rmErr := os.Remove(tempPath); rmErr != nil {
				logWarn(m.logger, "resource: removing temp file %q: %v", tempPath, rmErr)
			}
		}
		if constructErr != nil {
			return nil, fmt.Errorf("resource: construct %s: %w", id, constructErr)
		}

		c.insert(id, value, true)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*T), nil
}

// Unpin drops id from T's strong registry, letting the GC reclaim the
// payload once nothing else holds a strong reference to it.
func Unpin[T any](m *Manager, id asset.ID) {
	cacheFor[T](m).unpin(id)
}

// CacheSize reports how many entries T's cache currently holds, including
// entries whose payload the GC has already collected.
func CacheSize[T any](m *Manager) int {
	return cacheFor[T](m).len()
}

func writeTempFile(dir string, id asset.ID, data []byte) (string, error) {
	path := filepath.Join(dir, "lampy-resource-"+id.String())
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("resource: write temp file: %w", err)
	}
	return path, nil
}

func logWarn(l *log.Logger, format string, args ...any) {
	if l == nil {
		return
	}
	l.Printf("WARN "+format, args...)
}
