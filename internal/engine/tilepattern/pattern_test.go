package tilepattern

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	"github.com/Faultbox/tilekit/pkg/formats"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// createTestAtlas returns a 48x16 atlas made of three solid 16x16 squares.
func createTestAtlas() *image.RGBA {
	atlas := image.NewRGBA(image.Rect(0, 0, 48, 16))
	for i, c := range []color.RGBA{red, green, blue} {
		r := image.Rect(i*16, 0, (i+1)*16, 16)
		draw.Draw(atlas, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
	}
	return atlas
}

func singleFrame(x, y int) formats.TilePatternData {
	return formats.TilePatternData{
		Ground: formats.GroundTraversable,
		Frames: []image.Rectangle{image.Rect(x, y, x+16, y+16)},
	}
}

func TestNew_Variants(t *testing.T) {
	multi := singleFrame(0, 0)
	multi.Frames = append(multi.Frames, image.Rect(16, 0, 32, 16), image.Rect(32, 0, 48, 16))

	parallax := singleFrame(0, 0)
	parallax.Scrolling = formats.ScrollingParallax

	self := singleFrame(0, 0)
	self.Scrolling = formats.ScrollingSelf

	tests := []struct {
		name     string
		data     formats.TilePatternData
		check    func(Pattern) bool
		animated bool
		atPos    bool
	}{
		{"simple", singleFrame(0, 0), func(p Pattern) bool { _, ok := p.(*Simple); return ok }, false, true},
		{"animated", multi, func(p Pattern) bool { _, ok := p.(*Animated); return ok }, true, true},
		{"parallax", parallax, func(p Pattern) bool { _, ok := p.(*Parallax); return ok }, false, false},
		{"self scrolling", self, func(p Pattern) bool { _, ok := p.(*SelfScrolling); return ok }, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.data, DefaultTiming())
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if !tt.check(p) {
				t.Errorf("unexpected variant %T", p)
			}
			if p.IsAnimated() != tt.animated {
				t.Errorf("IsAnimated() = %v, expected %v", p.IsAnimated(), tt.animated)
			}
			if p.IsDrawnAtItsPosition() != tt.atPos {
				t.Errorf("IsDrawnAtItsPosition() = %v, expected %v", p.IsDrawnAtItsPosition(), tt.atPos)
			}
			if p.Size() != image.Pt(16, 16) {
				t.Errorf("expected size 16x16, got %v", p.Size())
			}
		})
	}
}

func TestNew_Errors(t *testing.T) {
	multiSelf := singleFrame(0, 0)
	multiSelf.Scrolling = formats.ScrollingSelf
	multiSelf.Frames = append(multiSelf.Frames, image.Rect(16, 0, 32, 16))

	mixed := singleFrame(0, 0)
	mixed.Frames = append(mixed.Frames, image.Rect(16, 0, 48, 16))

	emptySelf := formats.TilePatternData{
		Scrolling: formats.ScrollingSelf,
		Frames:    []image.Rectangle{image.Rect(0, 0, 0, 0)},
	}

	flat := singleFrame(0, 0)
	flat.Frames = []image.Rectangle{image.Rect(0, 0, 16, 0), image.Rect(16, 0, 32, 0)}

	tests := []struct {
		name string
		data formats.TilePatternData
		want error
	}{
		{"no frames", formats.TilePatternData{}, ErrNoFrames},
		{"multi-frame self scrolling", multiSelf, ErrMultiFrameSelfScroll},
		{"mixed frame sizes", mixed, ErrInconsistentFrameSize},
		{"empty self scrolling frame", emptySelf, ErrEmptyFrame},
		{"zero height animation", flat, ErrEmptyFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.data, DefaultTiming())
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if p != nil {
				t.Errorf("expected no pattern, got %T", p)
			}
		})
	}
}

func TestFactory_DefaultsZeroTiming(t *testing.T) {
	multi := singleFrame(0, 0)
	multi.Frames = append(multi.Frames, image.Rect(16, 0, 32, 16))

	p, err := Factory(Timing{})(multi)
	if err != nil {
		t.Fatalf("factory failed: %v", err)
	}
	if got := p.FrameAt(250 * time.Millisecond); got != 1 {
		t.Errorf("expected default 250ms frame delay, frame at 250ms = %d", got)
	}
}

func TestAnimated_FrameAt(t *testing.T) {
	data := singleFrame(0, 0)
	data.Frames = append(data.Frames, image.Rect(16, 0, 32, 16), image.Rect(32, 0, 48, 16))
	timing := Timing{FrameDelay: 100 * time.Millisecond}

	p, err := New(data, timing)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		t    time.Duration
		want int
	}{
		{-time.Second, 0},
		{0, 0},
		{99 * time.Millisecond, 0},
		{100 * time.Millisecond, 1},
		{250 * time.Millisecond, 2},
		{300 * time.Millisecond, 0},
		{1050 * time.Millisecond, 1},
	}
	for _, tc := range tests {
		if got := p.FrameAt(tc.t); got != tc.want {
			t.Errorf("FrameAt(%v) = %d, expected %d", tc.t, got, tc.want)
		}
	}

	if r := p.SourceRect(200 * time.Millisecond); r != image.Rect(32, 0, 48, 16) {
		t.Errorf("unexpected source rect %v", r)
	}
}

func TestSimple_Draw(t *testing.T) {
	atlas := createTestAtlas()
	p, _ := New(singleFrame(16, 0), DefaultTiming())

	dst := image.NewRGBA(image.Rect(0, 0, 32, 32))
	p.Draw(dst, image.Pt(8, 8), atlas, View{Camera: image.Pt(100, 100)})

	if got := dst.RGBAAt(8, 8); got != green {
		t.Errorf("expected green at (8,8), got %v", got)
	}
	if got := dst.RGBAAt(23, 23); got != green {
		t.Errorf("expected green at (23,23), got %v", got)
	}
	if got := dst.RGBAAt(24, 24); got != (color.RGBA{}) {
		t.Errorf("expected untouched pixel at (24,24), got %v", got)
	}
}

func TestAnimated_Draw(t *testing.T) {
	atlas := createTestAtlas()
	data := singleFrame(0, 0)
	data.Frames = append(data.Frames, image.Rect(16, 0, 32, 16), image.Rect(32, 0, 48, 16))
	p, _ := New(data, Timing{FrameDelay: time.Second})

	for i, want := range []color.RGBA{red, green, blue} {
		dst := image.NewRGBA(image.Rect(0, 0, 16, 16))
		p.Draw(dst, image.Point{}, atlas, View{Time: time.Duration(i) * time.Second})
		if got := dst.RGBAAt(5, 5); got != want {
			t.Errorf("frame %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestParallax_Draw(t *testing.T) {
	atlas := createTestAtlas()
	data := singleFrame(32, 0)
	data.Scrolling = formats.ScrollingParallax
	p, _ := New(data, DefaultTiming())

	dst := image.NewRGBA(image.Rect(0, 0, 64, 64))
	p.Draw(dst, image.Pt(0, 0), atlas, View{Camera: image.Pt(20, 40)})

	// Camera (20,40) with ratio 2 shifts the pattern by (10,20).
	if got := dst.RGBAAt(10, 20); got != blue {
		t.Errorf("expected blue at (10,20), got %v", got)
	}
	if got := dst.RGBAAt(9, 20); got != (color.RGBA{}) {
		t.Errorf("expected nothing at (9,20), got %v", got)
	}
}

func TestSelfScrolling_Draw(t *testing.T) {
	// 16x16 white pattern with a single red pixel at its top-left corner.
	atlas := image.NewRGBA(image.Rect(0, 0, 16, 16))
	draw.Draw(atlas, atlas.Bounds(), &image.Uniform{C: white}, image.Point{}, draw.Src)
	atlas.SetRGBA(0, 0, red)

	data := singleFrame(0, 0)
	data.Scrolling = formats.ScrollingSelf
	p, _ := New(data, Timing{ScrollDelay: 10 * time.Millisecond})
	ss := p.(*SelfScrolling)

	tests := []struct {
		t   time.Duration
		off image.Point
	}{
		{0, image.Pt(0, 0)},
		{30 * time.Millisecond, image.Pt(3, 3)},
		{170 * time.Millisecond, image.Pt(1, 1)},
	}
	for _, tc := range tests {
		if got := ss.Offset(tc.t); got != tc.off {
			t.Errorf("Offset(%v) = %v, expected %v", tc.t, got, tc.off)
		}

		dst := image.NewRGBA(image.Rect(0, 0, 16, 16))
		p.Draw(dst, image.Point{}, atlas, View{Time: tc.t})
		if got := dst.RGBAAt(tc.off.X, tc.off.Y); got != red {
			t.Errorf("t=%v: expected red at %v, got %v", tc.t, tc.off, got)
		}
		// Every other pixel is still covered by the wrapped content.
		if got := dst.RGBAAt((tc.off.X+8)%16, (tc.off.Y+8)%16); got != white {
			t.Errorf("t=%v: expected white away from the marker, got %v", tc.t, got)
		}
	}
}
