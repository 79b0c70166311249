package web

import "encoding/binary"

type cacheEntry struct {
	hash uint64
	data []byte
}

// cache is a ring of the most recently sent messages, so that a
// repeated frame can be sent as an index into the cache.
type cache struct {
	cache   []*cacheEntry
	idx     int
	enabled bool
	size    int
}

func newCache(size int) *cache {
	c := &cache{
		cache:   make([]*cacheEntry, size),
		size:    size,
		enabled: true,
	}
	for i := 0; i < size; i++ {
		c.cache[i] = &cacheEntry{
			hash: 0,
			data: []byte{},
		}
	}

	return c
}

// add stores output, overwriting the oldest entry, and returns its
// index.
func (c *cache) add(hash uint64, output []byte) int {
	idx := c.idx
	c.cache[idx].data = output
	c.cache[idx].hash = hash

	c.idx = (c.idx + 1) % c.size
	return idx
}

// index returns the index of hash, or -1 if the cache does not
// hold it or is disabled.
func (c *cache) index(hash uint64) int {
	if !c.enabled {
		return -1
	}
	for i, e := range c.cache {
		if len(e.data) > 0 && e.hash == hash {
			return i
		}
	}

	return -1
}

// sync encodes every entry as [length u32, index u16, data...],
// letting a new client build the same cache.
func (c *cache) sync() []byte {
	var data []byte
	for i, e := range c.cache {
		if len(e.data) == 0 {
			continue
		}
		data = binary.LittleEndian.AppendUint32(data, uint32(len(e.data)))
		data = binary.LittleEndian.AppendUint16(data, uint16(i))
		data = append(data, e.data...)
	}
	return data
}
