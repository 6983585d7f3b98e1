// Package imgio handles image file input and output for the measurement
// tools: decoding, encoding, and a small thread-safe cache that avoids
// redundant disk reads when the same frame is processed repeatedly.
//
// The core pipeline itself works purely on in-memory image.Image values;
// this package is the only place file formats are touched.
package imgio

import (
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
)

// Cache provides thread-safe caching of decoded images keyed by path.
// Once loaded, subsequent Load calls for the same path return the cached
// image without disk I/O.
type Cache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewCache creates an empty image cache.
func NewCache() *Cache {
	return &Cache{images: make(map[string]image.Image)}
}

// Load returns the image at path, reading and decoding it on first use.
func (c *Cache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()
	return img, nil
}

// Evict removes one cached image; a miss is a no-op.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Clear drops every cached image.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Load reads and decodes a single image file.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	return img, nil
}

// Save encodes an image to path; the format is chosen by the file
// extension (png, jpg, gif, tif, bmp).
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return nil
}
