package debug

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/tilekit/pkg/formats"
)

func TestGroundColor(t *testing.T) {
	tests := []struct {
		ground      formats.Ground
		transparent bool
	}{
		{formats.GroundTraversable, true},
		{formats.GroundEmpty, true},
		{formats.GroundGrass, true},
		{formats.GroundWall, false},
		{formats.GroundWallTopRight, false},
		{formats.GroundDeepWater, false},
		{formats.GroundShallowWater, false},
		{formats.GroundHole, false},
		{formats.GroundLava, false},
	}

	for _, tt := range tests {
		c := GroundColor(tt.ground)
		if (c.A == 0) != tt.transparent {
			t.Errorf("%v: unexpected alpha %d", tt.ground, c.A)
		}
		if c.R > c.A || c.G > c.A || c.B > c.A {
			t.Errorf("%v: colour %v is not premultiplied", tt.ground, c)
		}
	}

	if GroundColor(formats.GroundWall) == GroundColor(formats.GroundDeepWater) {
		t.Error("walls and water should not share a colour")
	}
}

func TestDrawGroundOverlay(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 16, 16))

	DrawGroundOverlay(dst, image.Rect(0, 0, 8, 8), formats.GroundWall)
	DrawGroundOverlay(dst, image.Rect(8, 8, 16, 16), formats.GroundTraversable)

	if dst.RGBAAt(4, 4).A == 0 {
		t.Error("expected wall overlay to be drawn")
	}
	if dst.RGBAAt(12, 12).A != 0 {
		t.Error("traversable ground should not be tinted")
	}
}

func TestDrawGrid(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	DrawGrid(dst, dst.Bounds(), image.Pt(2, 2), 8, white)

	for _, p := range []image.Point{{2, 5}, {10, 5}, {18, 5}, {5, 2}, {5, 10}} {
		if dst.RGBAAt(p.X, p.Y) != white {
			t.Errorf("expected grid line at %v", p)
		}
	}
	if dst.RGBAAt(5, 5) == white {
		t.Error("did not expect a line inside a cell")
	}
}

func TestDrawOutline(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
	red := color.RGBA{R: 255, A: 255}

	DrawOutline(dst, image.Rect(1, 1, 7, 7), red)

	for _, p := range []image.Point{{1, 1}, {6, 1}, {1, 6}, {6, 6}, {3, 1}, {1, 3}} {
		if dst.RGBAAt(p.X, p.Y) != red {
			t.Errorf("expected outline at %v", p)
		}
	}
	if dst.RGBAAt(3, 3) == red || dst.RGBAAt(0, 0) == red {
		t.Error("outline leaked outside its border")
	}
}

func TestScreenshotCapture(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "village")
	sc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{G: 255, A: 255})

	path, err := sc.CaptureFromImage(img)
	if err != nil {
		t.Fatalf("CaptureFromImage failed: %v", err)
	}
	if filepath.Dir(path) != dir || !strings.HasPrefix(filepath.Base(path), "village_2024-05-01_12-30-00") {
		t.Errorf("unexpected screenshot path %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open screenshot: %v", err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode screenshot: %v", err)
	}
	if decoded.Bounds().Size() != image.Pt(4, 3) {
		t.Errorf("unexpected size %v", decoded.Bounds().Size())
	}
	if r, g, _, _ := decoded.At(1, 1).RGBA(); r != 0 || g != 0xffff {
		t.Errorf("unexpected pixel at 1,1")
	}
}
