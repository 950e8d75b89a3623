package cog

import "sync"

// rawTileKey identifies a decompressed tile within one reader's IFD
// levels. Unlike the original image-tile cache this keys raw,
// native-typed bytes (post-decompression, post-predictor), since
// ReadRawRegion never materializes an image.Image at all.
type rawTileKey struct {
	level, col, row int
}

// rawTileCache memoizes decompressed tile bytes so a region read that
// spans many output rows doesn't re-inflate the same source tile once
// per row. Bounded by maxEntries with simple FIFO eviction — region
// reads touch a small, locally-clustered set of tiles, so LRU precision
// buys little here.
type rawTileCache struct {
	mu      sync.Mutex
	entries map[rawTileKey][]byte
	order   []rawTileKey
	maxSize int
}

func newRawTileCache(maxEntries int) *rawTileCache {
	if maxEntries <= 0 {
		maxEntries = 64
	}
	return &rawTileCache{
		entries: make(map[rawTileKey][]byte, maxEntries),
		order:   make([]rawTileKey, 0, maxEntries),
		maxSize: maxEntries,
	}
}

func (c *rawTileCache) get(level, col, row int) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[rawTileKey{level, col, row}]
	return b, ok
}

func (c *rawTileCache) put(level, col, row int, data []byte) {
	key := rawTileKey{level, col, row}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return
	}
	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = data
	c.order = append(c.order, key)
}
