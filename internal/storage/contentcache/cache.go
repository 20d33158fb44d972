package contentcache

import "github.com/yndnr/capsule/pkg/cmap"

// Cache memoizes served content by resolved file path.
type Cache struct {
	text   *cmap.Map[string]
	binary *cmap.Map[[]byte]
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		text:   cmap.New[string](),
		binary: cmap.New[[]byte](),
	}
}

// GetText returns the converted page cached under key.
func (c *Cache) GetText(key string) (string, bool) {
	return c.text.Get(key)
}

// PutText caches a converted page under key, replacing any earlier value.
func (c *Cache) PutText(key, value string) {
	c.text.Set(key, value)
}

// GetBinary returns the asset bytes cached under key. The returned slice
// is shared with other readers and must not be modified.
func (c *Cache) GetBinary(key string) ([]byte, bool) {
	return c.binary.Get(key)
}

// PutBinary caches asset bytes under key, replacing any earlier value.
// The cache takes ownership of value.
func (c *Cache) PutBinary(key string, value []byte) {
	c.binary.Set(key, value)
}

// TextLen returns the number of cached pages.
func (c *Cache) TextLen() int {
	return c.text.Count()
}

// BinaryLen returns the number of cached assets.
func (c *Cache) BinaryLen() int {
	return c.binary.Count()
}
