package main

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Hero snapshots are deterministic for a slot, size and frame count, so each
// combination is rendered once and served from memory afterwards.
type heroPNG struct {
	data  []byte
	count int
}

type snapshotCache struct {
	mu      sync.Mutex
	group   singleflight.Group
	entries map[string]heroPNG
	limit   int
}

func newSnapshotCache(limit int) *snapshotCache {
	return &snapshotCache{entries: make(map[string]heroPNG), limit: limit}
}

func snapshotKey(slot string, w, h, frames int) string {
	return fmt.Sprintf("%s/%dx%d/%d", slot, w, h, frames)
}

// get returns the cached PNG for key, rendering it at most once even under
// concurrent requests.
func (c *snapshotCache) get(key string, render func() (heroPNG, error)) (heroPNG, error) {
	c.mu.Lock()
	png, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		return png, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		png, err := render()
		if err != nil {
			return heroPNG{}, err
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if len(c.entries) >= c.limit {
			// Evict one arbitrary entry.
			for k := range c.entries {
				delete(c.entries, k)
				break
			}
		}
		c.entries[key] = png
		return png, nil
	})
	if err != nil {
		return heroPNG{}, err
	}
	return v.(heroPNG), nil
}

func (c *snapshotCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
