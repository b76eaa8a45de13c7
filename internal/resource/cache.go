// Package resource implements the runtime resource manager: a per-type
// weak-reference cache over loaded asset payloads, backed by a strong
// registry for the pinned subset, and a singleflight-collapsed loader
// that resolves through the asset database and an optional mounted PAK.
package resource

import (
	"sync"
	"weak"

	"github.com/lampy-engine/lampy/internal/asset"
)

// cache is the per-type weak-pointer table the spec describes as
// `AssetID -> weak<T>`. A lookup that finds a dead weak pointer behaves
// exactly like a miss.
type cache[T any] struct {
	mu      sync.RWMutex
	weak    map[asset.ID]weak.Pointer[T]
	pinned  map[asset.ID]*T
}

func newCache[T any]() *cache[T] {
	return &cache[T]{
		weak:   make(map[asset.ID]weak.Pointer[T]),
		pinned: make(map[asset.ID]*T),
	}
}

// get returns the cached value for id if it is still alive, either
// because something else is holding a strong reference or because the
// garbage collector has not reclaimed it yet.
func (c *cache[T]) get(id asset.ID) (*T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.weak[id]; ok {
		if p := v.Value(); p != nil {
			return p, true
		}
	}
	return nil, false
}

// insert records v under id. Duplicate concurrent inserts are fine — the
// spec's stated contract is "last insert wins but both observe the same
// bytes" — so insert unconditionally overwrites.
func (c *cache[T]) insert(id asset.ID, v *T, pin bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.weak[id] = weak.Make(v)
	if pin {
		c.pinned[id] = v
	}
}

// unpin drops id from the strong registry, letting the GC reclaim it once
// no other strong reference exists.
func (c *cache[T]) unpin(id asset.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pinned, id)
}

// len reports the number of weak entries recorded. Entries whose target
// has been collected are never removed, so they keep counting.
func (c *cache[T]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.weak)
}
