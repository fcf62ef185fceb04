// Package surface loads decoded atlas images and shares them between holders.
package surface

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png" // Tileset atlases
	"sync"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/tilekit/internal/logger"
)

// Surface is a decoded atlas image. It is never modified after decoding.
type Surface struct {
	path string
	img  *image.RGBA
}

// New wraps an already decoded image. Used for generated surfaces that do
// not come from a Loader.
func New(path string, img image.Image) *Surface {
	return &Surface{path: path, img: toRGBA(img)}
}

// Path returns the resource path the surface was decoded from.
func (s *Surface) Path() string {
	return s.path
}

// Image returns the pixels.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Bounds returns the image bounds, always anchored at (0, 0).
func (s *Surface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

// Size returns the image size in pixels.
func (s *Surface) Size() image.Point {
	return s.img.Bounds().Size()
}

// FileSource provides raw file content by resource path.
type FileSource interface {
	Load(path string) ([]byte, error)
}

// Forgetter is implemented by sources that cache file content. Loader asks
// them to drop a file once it has been decoded.
type Forgetter interface {
	Forget(path string)
}

// forget drops path from files if it caches content.
func forget(files FileSource, path string) {
	if f, ok := files.(Forgetter); ok {
		f.Forget(path)
	}
}

// Loader decodes surfaces and shares them by path. A surface stays cached
// as long as at least one holder has not released it.
type Loader struct {
	files FileSource
	mu    sync.Mutex
	cache map[string]*entry

	// Stats
	hits   int
	misses int
}

type entry struct {
	surface *Surface
	refs    int
}

// NewLoader creates a loader reading files from the given source.
func NewLoader(files FileSource) *Loader {
	return &Loader{
		files: files,
		cache: make(map[string]*entry),
	}
}

// Acquire returns the surface for path, decoding it on first use. Every
// successful Acquire must be balanced by a Release. Missing files produce
// an error matching fs.ErrNotExist.
func (l *Loader) Acquire(path string) (*Surface, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.cache[path]; ok {
		e.refs++
		l.hits++
		return e.surface, nil
	}
	l.misses++

	data, err := l.files.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading image %s: %w", path, err)
	}
	forget(l.files, path)

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", path, err)
	}

	s := &Surface{path: path, img: toRGBA(img)}
	l.cache[path] = &entry{surface: s, refs: 1}

	logger.Debug("surface decoded",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("width", s.img.Rect.Dx()),
		zap.Int("height", s.img.Rect.Dy()))

	return s, nil
}

// Release drops one holder of s. The surface leaves the cache when its last
// holder releases it. Releasing nil or a surface not owned by this loader is
// a no-op.
func (l *Loader) Release(s *Surface) {
	if s == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.cache[s.path]
	if !ok || e.surface != s {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(l.cache, s.path)
		logger.Debug("surface evicted", zap.String("path", s.path))
	}
}

// Refs returns the number of holders of the surface cached for path.
func (l *Loader) Refs(path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.cache[path]; ok {
		return e.refs
	}
	return 0
}

// Stats returns cache statistics.
func (l *Loader) Stats() (hits, misses, live int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hits, l.misses, len(l.cache)
}

// toRGBA converts any image to an RGBA image anchored at (0, 0).
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
