// Package scene lays the patterns of a tileset out on a grid and draws them,
// for previews and contact sheets.
package scene

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"

	"github.com/Faultbox/tilekit/internal/engine/debug"
	"github.com/Faultbox/tilekit/internal/engine/tilepattern"
	"github.com/Faultbox/tilekit/internal/engine/tileset"
	"github.com/Faultbox/tilekit/pkg/formats"
)

// DefaultPadding separates patterns on the grid.
const DefaultPadding = 4

// Overlay selects debug layers drawn over the patterns.
type Overlay uint8

const (
	OverlayGrounds Overlay = 1 << iota
	OverlayOutlines
	OverlayGrid
)

var (
	outlineColor = colornames.Yellow
	gridColor    = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0x40}
)

// Config contains layout options.
type Config struct {
	Columns int // 0 lays patterns out on a square grid
	Padding int
}

// Placement is where a pattern sits in scene coordinates.
type Placement struct {
	ID   string
	Rect image.Rectangle
}

// Scene is a grid of the patterns of a loaded tileset.
type Scene struct {
	ts     *tileset.Tileset
	items  []Placement
	bounds image.Rectangle
}

// New lays out every pattern of ts in id order. The tileset must be loaded.
func New(ts *tileset.Tileset, cfg Config) *Scene {
	ids := ts.PatternIDs()
	padding := max(cfg.Padding, 0)

	var cell image.Point
	for _, id := range ids {
		size := ts.TilePattern(id).Size()
		cell.X = max(cell.X, size.X)
		cell.Y = max(cell.Y, size.Y)
	}
	cell = cell.Add(image.Pt(padding, padding))

	cols := cfg.Columns
	if cols <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(len(ids)))))
	}
	cols = max(cols, 1)
	rows := max((len(ids)+cols-1)/cols, 1)

	s := &Scene{
		ts:     ts,
		items:  make([]Placement, len(ids)),
		bounds: image.Rect(0, 0, cols*cell.X+padding, rows*cell.Y+padding),
	}
	for i, id := range ids {
		at := image.Pt((i%cols)*cell.X+padding, (i/cols)*cell.Y+padding)
		s.items[i] = Placement{ID: id, Rect: image.Rectangle{Min: at, Max: at.Add(ts.TilePattern(id).Size())}}
	}
	return s
}

// Bounds returns the area covered by the grid.
func (s *Scene) Bounds() image.Rectangle {
	return s.bounds
}

// Placements returns the pattern placements in id order.
func (s *Scene) Placements() []Placement {
	return s.items
}

// At returns the placement containing the scene point p.
func (s *Scene) At(p image.Point) (Placement, bool) {
	for _, it := range s.items {
		if p.In(it.Rect) {
			return it, true
		}
	}
	return Placement{}, false
}

// Render draws the scene as seen from v.Camera into dst.
func (s *Scene) Render(dst *image.RGBA, v tilepattern.View, overlays Overlay) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(s.ts.BackgroundColor()), image.Point{}, draw.Src)

	if overlays&OverlayGrid != 0 {
		debug.DrawGrid(dst, dst.Bounds(), v.Camera.Mul(-1), formats.PatternGranularity, gridColor)
	}

	for _, it := range s.items {
		p := s.ts.TilePattern(it.ID)
		screen := it.Rect.Sub(v.Camera)

		// Parallax patterns are displaced, so they are never culled
		if p.IsDrawnAtItsPosition() && !screen.Overlaps(dst.Bounds()) {
			continue
		}

		s.ts.DrawTilePattern(dst, it.ID, screen.Min, v)

		if overlays&OverlayGrounds != 0 {
			debug.DrawGroundOverlay(dst, screen, p.Ground())
		}
		if overlays&OverlayOutlines != 0 {
			debug.DrawOutline(dst, screen.Inset(-1), outlineColor)
		}
	}
}

// Image renders the whole scene at time v.Time.
func (s *Scene) Image(v tilepattern.View, overlays Overlay) *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Max: s.bounds.Size()})
	v.Camera = image.Point{}
	s.Render(img, v, overlays)
	return img
}
