package imaging

import (
	"image"
	"sync"
)

// rgbaPool reuses *image.RGBA buffers on the decode fallback path to keep
// batch runs over large WebP sets off the GC.
type rgbaPool struct {
	pools map[string]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = &rgbaPool{
	pools: make(map[string]*sync.Pool),
}

// GetRGBA returns a pooled buffer for the rectangle, allocating when the
// pool has none of that size.
func GetRGBA(rect image.Rectangle) *image.RGBA {
	return globalPool.get(rect)
}

// PutRGBA returns a buffer for reuse.
func PutRGBA(img *image.RGBA) {
	globalPool.put(img)
}

func (p *rgbaPool) get(rect image.Rectangle) *image.RGBA {
	key := rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewRGBA(rect)
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

func (p *rgbaPool) put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := img.Rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
