package tilepattern

import (
	"image"
	"time"

	"golang.org/x/image/draw"

	"github.com/Faultbox/tilekit/pkg/formats"
)

// Simple is a static single-frame pattern.
type Simple struct {
	base
	src image.Rectangle
}

func newSimple(data formats.TilePatternData) *Simple {
	return &Simple{base: newBase(data), src: data.Frames[0]}
}

func (p *Simple) IsAnimated() bool {
	return false
}

func (p *Simple) FrameAt(time.Duration) int {
	return 0
}

func (p *Simple) SourceRect(time.Duration) image.Rectangle {
	return p.src
}

func (p *Simple) Draw(dst draw.Image, pos image.Point, atlas image.Image, _ View) {
	draw.Draw(dst, p.dstRect(pos), atlas, p.src.Min, draw.Over)
}

// Animated cycles through its frames, optionally with parallax scrolling.
type Animated struct {
	base
	frames []image.Rectangle
	delay  time.Duration
	ratio  int
}

func newAnimated(data formats.TilePatternData, timing Timing) *Animated {
	frames := make([]image.Rectangle, len(data.Frames))
	copy(frames, data.Frames)
	return &Animated{
		base:   newBase(data),
		frames: frames,
		delay:  timing.FrameDelay,
		ratio:  timing.ParallaxRatio,
	}
}

func (p *Animated) IsAnimated() bool {
	return true
}

// NumFrames returns the length of the animation cycle.
func (p *Animated) NumFrames() int {
	return len(p.frames)
}

func (p *Animated) FrameAt(t time.Duration) int {
	if t < 0 {
		return 0
	}
	return int((t / p.delay) % time.Duration(len(p.frames)))
}

func (p *Animated) SourceRect(t time.Duration) image.Rectangle {
	return p.frames[p.FrameAt(t)]
}

func (p *Animated) Draw(dst draw.Image, pos image.Point, atlas image.Image, v View) {
	if !p.IsDrawnAtItsPosition() {
		pos = pos.Add(v.Camera.Div(p.ratio))
	}
	draw.Draw(dst, p.dstRect(pos), atlas, p.SourceRect(v.Time).Min, draw.Over)
}

// Parallax is a single-frame pattern that moves slower than the camera.
type Parallax struct {
	base
	src   image.Rectangle
	ratio int
}

func newParallax(data formats.TilePatternData, timing Timing) *Parallax {
	return &Parallax{base: newBase(data), src: data.Frames[0], ratio: timing.ParallaxRatio}
}

func (p *Parallax) IsAnimated() bool {
	return false
}

func (p *Parallax) FrameAt(time.Duration) int {
	return 0
}

func (p *Parallax) SourceRect(time.Duration) image.Rectangle {
	return p.src
}

func (p *Parallax) Draw(dst draw.Image, pos image.Point, atlas image.Image, v View) {
	pos = pos.Add(v.Camera.Div(p.ratio))
	draw.Draw(dst, p.dstRect(pos), atlas, p.src.Min, draw.Over)
}

// SelfScrolling is a single-frame pattern whose content slides diagonally
// inside its own rectangle, wrapping around at the edges.
type SelfScrolling struct {
	base
	src   image.Rectangle
	delay time.Duration
}

func newSelfScrolling(data formats.TilePatternData, timing Timing) *SelfScrolling {
	return &SelfScrolling{base: newBase(data), src: data.Frames[0], delay: timing.ScrollDelay}
}

func (p *SelfScrolling) IsAnimated() bool {
	return true
}

func (p *SelfScrolling) FrameAt(time.Duration) int {
	return 0
}

func (p *SelfScrolling) SourceRect(time.Duration) image.Rectangle {
	return p.src
}

// Offset returns how far the content has moved at time t.
func (p *SelfScrolling) Offset(t time.Duration) image.Point {
	if t < 0 {
		return image.Point{}
	}
	step := int(t / p.delay)
	return image.Pt(step%p.size.X, step%p.size.Y)
}

func (p *SelfScrolling) Draw(dst draw.Image, pos image.Point, atlas image.Image, v View) {
	off := p.Offset(v.Time)
	w, h := p.size.X, p.size.Y

	// Each axis splits into the part pushed right/down by the offset and
	// the part that wrapped around to the start.
	type span struct{ src, dst, n int }
	xs := [2]span{{p.src.Min.X, off.X, w - off.X}, {p.src.Max.X - off.X, 0, off.X}}
	ys := [2]span{{p.src.Min.Y, off.Y, h - off.Y}, {p.src.Max.Y - off.Y, 0, off.Y}}

	for _, sy := range ys {
		if sy.n == 0 {
			continue
		}
		for _, sx := range xs {
			if sx.n == 0 {
				continue
			}
			r := image.Rect(pos.X+sx.dst, pos.Y+sy.dst, pos.X+sx.dst+sx.n, pos.Y+sy.dst+sy.n)
			draw.Draw(dst, r, atlas, image.Pt(sx.src, sy.src), draw.Over)
		}
	}
}
