package system

import (
	"image"
	"sync"
)

// SizedPool переиспользует буферы одного размера, чтобы снизить нагрузку
// на GC при рендеринге тысяч кадров одинакового разрешения.
type SizedPool[T any] struct {
	newFn func(size image.Point) T
	pools map[image.Point]*sync.Pool
	mu    sync.RWMutex
}

func NewSizedPool[T any](newFn func(size image.Point) T) *SizedPool[T] {
	return &SizedPool[T]{
		newFn: newFn,
		pools: make(map[image.Point]*sync.Pool),
	}
}

// Get возвращает буфер из пула или создает новый нужного размера.
// Содержимое переиспользованного буфера не очищается.
func (p *SizedPool[T]) Get(size image.Point) T {
	return p.pool(size).Get().(T)
}

// Put возвращает буфер в пул. Буферы неизвестного размера отбрасываются.
func (p *SizedPool[T]) Put(size image.Point, v T) {
	p.mu.RLock()
	pool, exists := p.pools[size]
	p.mu.RUnlock()

	if exists {
		pool.Put(v)
	}
}

func (p *SizedPool[T]) pool(size image.Point) *sync.Pool {
	p.mu.RLock()
	pool, exists := p.pools[size]
	p.mu.RUnlock()
	if exists {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Double check
	if pool, exists = p.pools[size]; !exists {
		pool = &sync.Pool{
			New: func() any {
				return p.newFn(size)
			},
		}
		p.pools[size] = pool
	}
	return pool
}

var imagePool = NewSizedPool(func(size image.Point) *image.RGBA {
	return image.NewRGBA(image.Rectangle{Max: size})
})

// GetImage возвращает *image.RGBA с началом координат в (0, 0).
func GetImage(size image.Point) *image.RGBA {
	return imagePool.Get(size)
}

// PutImage возвращает изображение в общий пул.
func PutImage(img *image.RGBA) {
	if img == nil {
		return
	}
	imagePool.Put(img.Rect.Size(), img)
}
