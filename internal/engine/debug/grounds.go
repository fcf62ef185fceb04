// Package debug provides debug visualization utilities.
package debug

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/Faultbox/tilekit/pkg/formats"
)

// overlayAlpha is the opacity of ground overlays.
const overlayAlpha = 0x60

// GroundColor returns a translucent colour for a ground class. Traversable
// and empty grounds are transparent.
func GroundColor(g formats.Ground) color.RGBA {
	var c color.RGBA
	switch {
	case g == formats.GroundEmpty, g == formats.GroundTraversable, g == formats.GroundGrass:
		return color.RGBA{}
	case g == formats.GroundLowWall:
		c = color.RGBA{R: 0xff, G: 0x80}
	case g.IsWall():
		c = color.RGBA{R: 0xff}
	case g == formats.GroundDeepWater:
		c = color.RGBA{B: 0xff}
	case g.IsWater():
		c = color.RGBA{G: 0x80, B: 0xff}
	case g == formats.GroundHole:
		c = color.RGBA{}
	case g == formats.GroundLava:
		c = color.RGBA{R: 0xff, G: 0x40}
	case g == formats.GroundPrickles:
		c = color.RGBA{R: 0xff, B: 0xff}
	case g == formats.GroundIce:
		c = color.RGBA{G: 0xff, B: 0xff}
	case g == formats.GroundLadder:
		c = color.RGBA{R: 0xff, G: 0xff}
	default:
		c = color.RGBA{R: 0x80, G: 0x80, B: 0x80}
	}

	// Premultiplied, as color.RGBA requires
	c.R = uint8(uint16(c.R) * overlayAlpha / 0xff)
	c.G = uint8(uint16(c.G) * overlayAlpha / 0xff)
	c.B = uint8(uint16(c.B) * overlayAlpha / 0xff)
	c.A = overlayAlpha
	return c
}

// DrawGroundOverlay tints r with the colour of ground g.
func DrawGroundOverlay(dst draw.Image, r image.Rectangle, g formats.Ground) {
	c := GroundColor(g)
	if c.A == 0 {
		return
	}
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// DrawGrid draws grid lines every cell pixels inside r, aligned on origin.
func DrawGrid(dst draw.Image, r image.Rectangle, origin image.Point, cell int, c color.Color) {
	if cell <= 0 {
		return
	}
	src := image.NewUniform(c)

	// Vertical lines
	for x := r.Min.X + mod(origin.X-r.Min.X, cell); x < r.Max.X; x += cell {
		draw.Draw(dst, image.Rect(x, r.Min.Y, x+1, r.Max.Y), src, image.Point{}, draw.Over)
	}

	// Horizontal lines
	for y := r.Min.Y + mod(origin.Y-r.Min.Y, cell); y < r.Max.Y; y += cell {
		draw.Draw(dst, image.Rect(r.Min.X, y, r.Max.X, y+1), src, image.Point{}, draw.Over)
	}
}

// DrawOutline draws a one-pixel border along the inside of r.
func DrawOutline(dst draw.Image, r image.Rectangle, c color.Color) {
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		{Min: r.Min, Max: image.Pt(r.Max.X, r.Min.Y+1)},
		{Min: image.Pt(r.Min.X, r.Max.Y-1), Max: r.Max},
		{Min: image.Pt(r.Min.X, r.Min.Y+1), Max: image.Pt(r.Min.X+1, r.Max.Y-1)},
		{Min: image.Pt(r.Max.X-1, r.Min.Y+1), Max: image.Pt(r.Max.X, r.Max.Y-1)},
	}
	for _, e := range edges {
		draw.Draw(dst, e, src, image.Point{}, draw.Src)
	}
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
