// Package camera provides the scrolling 2D camera of the tileset viewer.
package camera

import (
	"image"
	"math"
	"time"
)

// Camera tracks the top-left corner of the visible area in map pixels.
type Camera struct {
	// Position, kept fractional so slow pans still advance
	X, Y float64

	// Speed in map pixels per second
	Speed float64

	// Inclusive limits of the position, used once SetBounds is called
	bounds  image.Rectangle
	bounded bool
}

// New creates a camera at the origin.
func New(speed float64) *Camera {
	return &Camera{Speed: speed}
}

// Move pans by dx, dy (each -1, 0 or 1) for dt.
func (c *Camera) Move(dx, dy int, dt time.Duration) {
	if dt <= 0 || (dx == 0 && dy == 0) {
		return
	}

	step := c.Speed * dt.Seconds()
	if dx != 0 && dy != 0 {
		step /= math.Sqrt2
	}
	c.X += float64(dx) * step
	c.Y += float64(dy) * step
	c.clamp()
}

// SetPosition moves the camera to p.
func (c *Camera) SetPosition(p image.Point) {
	c.X = float64(p.X)
	c.Y = float64(p.Y)
	c.clamp()
}

// SetBounds constrains the position to r, edges included.
func (c *Camera) SetBounds(r image.Rectangle) {
	c.bounds = r.Canon()
	c.bounded = true
	c.clamp()
}

// ClearBounds removes the position constraint.
func (c *Camera) ClearBounds() {
	c.bounded = false
}

// Position returns the position in whole pixels.
func (c *Camera) Position() image.Point {
	return image.Pt(int(math.Floor(c.X)), int(math.Floor(c.Y)))
}

func (c *Camera) clamp() {
	if !c.bounded {
		return
	}
	c.X = math.Max(float64(c.bounds.Min.X), math.Min(c.X, float64(c.bounds.Max.X)))
	c.Y = math.Max(float64(c.bounds.Min.Y), math.Min(c.Y, float64(c.bounds.Max.Y)))
}
