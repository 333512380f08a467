package server

import (
	"fmt"
	"sort"
	"sync"

	"github.com/stuartaccent/images/internal/rendition"
)

// imageCatalog holds the images imported during a session, keyed by ID.
//
// Safe for concurrent use. Images are returned by pointer; callers must not
// modify them concurrently.
type imageCatalog struct {
	mu     sync.RWMutex
	images map[int64]*rendition.Image
	nextID int64
}

func newImageCatalog() *imageCatalog {
	return &imageCatalog{
		images: make(map[int64]*rendition.Image),
	}
}

// nextImageID reserves an ID for a new image.
func (c *imageCatalog) nextImageID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	return c.nextID
}

func (c *imageCatalog) add(img *rendition.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images[img.ID] = img
}

func (c *imageCatalog) get(id int64) (*rendition.Image, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[id]
	if !ok {
		return nil, fmt.Errorf("image %d not found", id)
	}
	return img, nil
}

func (c *imageCatalog) remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.images, id)
}

// list returns the images ordered by ID.
func (c *imageCatalog) list() []*rendition.Image {
	c.mu.RLock()
	defer c.mu.RUnlock()

	images := make([]*rendition.Image, 0, len(c.images))
	for _, img := range c.images {
		images = append(images, img)
	}
	sort.Slice(images, func(i, j int) bool { return images[i].ID < images[j].ID })
	return images
}
