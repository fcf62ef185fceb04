// Package tilepattern implements the drawable tile patterns of a tileset.
//
// A pattern samples one or more rectangles of a tileset atlas. Patterns hold
// no mutable state: the animation frame and scrolling offset are functions
// of the animation clock carried by View, so a pattern can be shared by any
// number of readers.
package tilepattern

import (
	"errors"
	"fmt"
	"image"
	"time"

	"golang.org/x/image/draw"

	"github.com/Faultbox/tilekit/pkg/formats"
)

// Pattern errors.
var (
	ErrNoFrames              = errors.New("tile pattern has no frames")
	ErrMultiFrameSelfScroll  = errors.New("self-scrolling tile pattern cannot be multi-frame")
	ErrInconsistentFrameSize = errors.New("tile pattern frames differ in size")
	ErrEmptyFrame            = errors.New("tile pattern frame is empty")
)

// View is what a pattern needs to know about the current frame.
type View struct {
	Camera image.Point   // Top-left corner of the visible area in map coordinates
	Time   time.Duration // Animation clock
}

// Pattern is a read-only, drawable tile pattern.
type Pattern interface {
	// Size returns the size of the pattern in pixels.
	Size() image.Point
	Ground() formats.Ground
	DefaultLayer() int
	RepeatMode() formats.RepeatMode
	Scrolling() formats.Scrolling

	// IsAnimated returns true if the drawn pixels change over time.
	IsAnimated() bool

	// IsDrawnAtItsPosition returns false when the pattern is displaced
	// relative to the camera (parallax).
	IsDrawnAtItsPosition() bool

	// FrameAt returns the index of the frame displayed at time t.
	FrameAt(t time.Duration) int

	// SourceRect returns the atlas rectangle sampled at time t.
	SourceRect(t time.Duration) image.Rectangle

	// Draw draws the pattern with its top-left corner at pos.
	Draw(dst draw.Image, pos image.Point, atlas image.Image, v View)
}

// Timing holds the animation constants shared by all patterns.
type Timing struct {
	FrameDelay    time.Duration // Delay between two frames of animated patterns
	ScrollDelay   time.Duration // Delay between two one-pixel steps of self-scrolling patterns
	ParallaxRatio int           // Parallax patterns move 1/ParallaxRatio as fast as the camera
}

// DefaultTiming returns the engine's default animation constants.
func DefaultTiming() Timing {
	return Timing{
		FrameDelay:    250 * time.Millisecond,
		ScrollDelay:   50 * time.Millisecond,
		ParallaxRatio: 2,
	}
}

func (t Timing) normalized() Timing {
	d := DefaultTiming()
	if t.FrameDelay <= 0 {
		t.FrameDelay = d.FrameDelay
	}
	if t.ScrollDelay <= 0 {
		t.ScrollDelay = d.ScrollDelay
	}
	if t.ParallaxRatio <= 0 {
		t.ParallaxRatio = d.ParallaxRatio
	}
	return t
}

// base holds the attributes common to every variant.
type base struct {
	ground     formats.Ground
	layer      int
	repeatMode formats.RepeatMode
	scrolling  formats.Scrolling
	size       image.Point
}

func newBase(data formats.TilePatternData) base {
	return base{
		ground:     data.Ground,
		layer:      data.DefaultLayer,
		repeatMode: data.RepeatMode,
		scrolling:  data.Scrolling,
		size:       data.Size(),
	}
}

func (b *base) Size() image.Point {
	return b.size
}

func (b *base) Ground() formats.Ground {
	return b.ground
}

func (b *base) DefaultLayer() int {
	return b.layer
}

func (b *base) RepeatMode() formats.RepeatMode {
	return b.repeatMode
}

func (b *base) Scrolling() formats.Scrolling {
	return b.scrolling
}

func (b *base) IsDrawnAtItsPosition() bool {
	return b.scrolling != formats.ScrollingParallax
}

func (b *base) String() string {
	return fmt.Sprintf("%v %dx%d", b.ground, b.size.X, b.size.Y)
}

func (b *base) dstRect(pos image.Point) image.Rectangle {
	return image.Rectangle{Min: pos, Max: pos.Add(b.size)}
}

// Factory returns a constructor building the variant matching the data.
func Factory(timing Timing) func(formats.TilePatternData) (Pattern, error) {
	timing = timing.normalized()
	return func(data formats.TilePatternData) (Pattern, error) {
		return New(data, timing)
	}
}

// New creates the pattern variant matching the data.
func New(data formats.TilePatternData, timing Timing) (Pattern, error) {
	timing = timing.normalized()

	if len(data.Frames) == 0 {
		return nil, ErrNoFrames
	}
	size := data.Frames[0].Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w: size %v", ErrEmptyFrame, size)
	}
	for i, f := range data.Frames[1:] {
		if f.Size() != size {
			return nil, fmt.Errorf("%w: frame %d is %v, frame 0 is %v", ErrInconsistentFrameSize, i+1, f.Size(), size)
		}
	}

	if data.IsMultiFrame() {
		if data.Scrolling == formats.ScrollingSelf {
			return nil, ErrMultiFrameSelfScroll
		}
		return newAnimated(data, timing), nil
	}

	switch data.Scrolling {
	case formats.ScrollingParallax:
		return newParallax(data, timing), nil
	case formats.ScrollingSelf:
		return newSelfScrolling(data, timing), nil
	default:
		return newSimple(data), nil
	}
}
