package formats

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const villageData = `
background_color: [72, 128, 192]
tile_patterns:
  - id: ground_grass
    ground: traversable
    x: 0
    y: 0
    width: 16
    height: 16
  - id: wall_stone
    ground: wall
    default_layer: 1
    x: 16
    y: 0
    width: 16
    height: 32
    repeat_mode: vertical
  - id: water_edge_nw
    ground: deep_water
    x: [0, 16, 32]
    y: [32, 32, 32]
    width: 16
    height: 16
    scrolling: parallax
`

func TestParseTileset_Valid(t *testing.T) {
	ts, err := ParseTileset([]byte(villageData))
	if err != nil {
		t.Fatalf("ParseTileset failed: %v", err)
	}

	want := color.RGBA{R: 72, G: 128, B: 192, A: 255}
	if ts.BackgroundColor != want {
		t.Errorf("expected background %v, got %v", want, ts.BackgroundColor)
	}

	if len(ts.Patterns) != 3 {
		t.Fatalf("expected 3 patterns, got %d", len(ts.Patterns))
	}

	ids := []string{"ground_grass", "wall_stone", "water_edge_nw"}
	for i, id := range ids {
		if ts.Patterns[i].ID != id {
			t.Errorf("pattern %d: expected id %s, got %s", i, id, ts.Patterns[i].ID)
		}
	}

	grass := ts.Patterns[0]
	if grass.Line != 4 {
		t.Errorf("expected ground_grass on line 4, got %d", grass.Line)
	}
	if grass.Data.Ground != GroundTraversable {
		t.Errorf("expected traversable, got %v", grass.Data.Ground)
	}
	if grass.Data.IsMultiFrame() {
		t.Error("ground_grass should be single-frame")
	}
	if grass.Data.Frames[0] != image.Rect(0, 0, 16, 16) {
		t.Errorf("unexpected frame %v", grass.Data.Frames[0])
	}

	wall := ts.Patterns[1].Data
	if wall.DefaultLayer != 1 {
		t.Errorf("expected layer 1, got %d", wall.DefaultLayer)
	}
	if wall.RepeatMode != RepeatVertical {
		t.Errorf("expected vertical repeat, got %v", wall.RepeatMode)
	}
	if wall.Size() != image.Pt(16, 32) {
		t.Errorf("expected size 16x32, got %v", wall.Size())
	}

	water := ts.Patterns[2].Data
	if len(water.Frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(water.Frames))
	}
	if water.Frames[2] != image.Rect(32, 32, 48, 48) {
		t.Errorf("unexpected third frame %v", water.Frames[2])
	}
	if water.Scrolling != ScrollingParallax {
		t.Errorf("expected parallax, got %v", water.Scrolling)
	}
	if water.Bounds() != image.Rect(0, 32, 48, 48) {
		t.Errorf("unexpected bounds %v", water.Bounds())
	}
}

func TestParseTileset_KeepsDuplicateIDs(t *testing.T) {
	data := `
tile_patterns:
  - {id: ground_grass, x: 0, y: 0, width: 8, height: 8}
  - {id: ground_grass, x: 8, y: 0, width: 8, height: 8}
`
	ts, err := ParseTileset([]byte(data))
	if err != nil {
		t.Fatalf("ParseTileset failed: %v", err)
	}
	if len(ts.Patterns) != 2 {
		t.Errorf("expected both declarations to be kept, got %d", len(ts.Patterns))
	}
}

func TestParseTileset_Empty(t *testing.T) {
	for _, data := range []string{"", "\n", "# nothing\n", "tile_patterns:\n"} {
		ts, err := ParseTileset([]byte(data))
		if err != nil {
			t.Errorf("ParseTileset(%q) failed: %v", data, err)
			continue
		}
		if ts.BackgroundColor != (color.RGBA{A: 255}) {
			t.Errorf("expected opaque black default, got %v", ts.BackgroundColor)
		}
		if len(ts.Patterns) != 0 {
			t.Errorf("expected no patterns, got %d", len(ts.Patterns))
		}
	}
}

func TestParseTileset_NamedBackground(t *testing.T) {
	ts, err := ParseTileset([]byte("background_color: SteelBlue\n"))
	if err != nil {
		t.Fatalf("ParseTileset failed: %v", err)
	}
	want := color.RGBA{R: 70, G: 130, B: 180, A: 255}
	if ts.BackgroundColor != want {
		t.Errorf("expected %v, got %v", want, ts.BackgroundColor)
	}
}

func TestParseTileset_Errors(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		line  int
		entry int
		field string
	}{
		{
			name:  "syntax",
			data:  "background_color: [1, 2\ntile_patterns: x\n",
			entry: -1,
		},
		{
			name:  "unknown item",
			data:  "background_color: [0, 0, 0]\nmusic: village\n",
			line:  2,
			entry: -1,
			field: "music",
		},
		{
			name:  "colour out of range",
			data:  "background_color: [0, 300, 0]\n",
			line:  1,
			entry: -1,
			field: "background_color",
		},
		{
			name:  "colour component count",
			data:  "background_color: [0, 0]\n",
			line:  1,
			entry: -1,
			field: "background_color",
		},
		{
			name:  "missing id",
			data:  "tile_patterns:\n  - x: 0\n    y: 0\n    width: 8\n    height: 8\n",
			line:  2,
			entry: 0,
			field: "id",
		},
		{
			name:  "width not multiple of 8",
			data:  "tile_patterns:\n  - {id: a, x: 0, y: 0, width: 8, height: 8}\n  - {id: b, x: 0, y: 0, width: 12, height: 8}\n",
			line:  3,
			entry: 1,
			field: "width",
		},
		{
			name:  "unknown ground",
			data:  "tile_patterns:\n  - {id: a, ground: quicksand, x: 0, y: 0, width: 8, height: 8}\n",
			line:  2,
			entry: 0,
			field: "ground",
		},
		{
			name:  "frame count mismatch",
			data:  "tile_patterns:\n  - {id: a, x: [0, 8], y: [0], width: 8, height: 8}\n",
			line:  2,
			entry: 0,
			field: "y",
		},
		{
			name:  "multi-frame self scrolling",
			data:  "tile_patterns:\n  - {id: a, x: [0, 8, 16], y: [0, 0, 0], width: 8, height: 8, scrolling: self}\n",
			line:  2,
			entry: 0,
			field: "scrolling",
		},
		{
			name:  "negative coordinate",
			data:  "tile_patterns:\n  - {id: a, x: -8, y: 0, width: 8, height: 8}\n",
			line:  2,
			entry: 0,
			field: "x",
		},
		{
			name:  "string coordinate",
			data:  "tile_patterns:\n  - {id: a, x: \"8\", y: 0, width: 8, height: 8}\n",
			line:  2,
			entry: 0,
			field: "x",
		},
		{
			name:  "unknown field",
			data:  "tile_patterns:\n  - {id: a, x: 0, y: 0, width: 8, height: 8, layer: 2}\n",
			line:  2,
			entry: 0,
			field: "layer",
		},
		{
			name:  "patterns not a list",
			data:  "tile_patterns: {id: a}\n",
			line:  1,
			entry: -1,
			field: "tile_patterns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTileset([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrMalformedTileset) {
				t.Errorf("expected ErrMalformedTileset, got %v", err)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if tt.line != 0 && pe.Line != tt.line {
				t.Errorf("expected line %d, got %d (%v)", tt.line, pe.Line, err)
			}
			if pe.Entry != tt.entry {
				t.Errorf("expected entry %d, got %d (%v)", tt.entry, pe.Entry, err)
			}
			if pe.Field != tt.field {
				t.Errorf("expected field %q, got %q (%v)", tt.field, pe.Field, err)
			}
		})
	}
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Line: 7, Entry: 2, Field: "width", Msg: "must be positive"}
	want := "tileset data line 7: tile_patterns[2].width: must be positive"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	err = &ParseError{Entry: -1, Field: "music", Msg: "unknown item"}
	if !strings.Contains(err.Error(), ": music: unknown item") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestParseTilesetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "village.dat")
	if err := os.WriteFile(path, []byte(villageData), 0644); err != nil {
		t.Fatalf("failed to write test data: %v", err)
	}

	ts, err := ParseTilesetFile(path)
	if err != nil {
		t.Fatalf("ParseTilesetFile failed: %v", err)
	}
	if len(ts.Patterns) != 3 {
		t.Errorf("expected 3 patterns, got %d", len(ts.Patterns))
	}

	if _, err := ParseTilesetFile(filepath.Join(t.TempDir(), "missing.dat")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGround_Names(t *testing.T) {
	for _, g := range Grounds() {
		parsed, ok := ParseGround(g.String())
		if !ok || parsed != g {
			t.Errorf("ground %v does not round-trip through its name", g)
		}
	}

	if _, ok := ParseGround("quicksand"); ok {
		t.Error("expected unknown ground to be rejected")
	}
}

func TestGround_Classes(t *testing.T) {
	tests := []struct {
		ground      Ground
		wall        bool
		water       bool
		traversable bool
	}{
		{GroundTraversable, false, false, true},
		{GroundWall, true, false, false},
		{GroundLowWall, true, false, false},
		{GroundWallTopLeft, true, false, false},
		{GroundWallBottomRightWater, true, true, false},
		{GroundDeepWater, false, true, false},
		{GroundShallowWater, false, true, true},
		{GroundHole, false, false, false},
		{GroundLadder, false, false, true},
		{GroundLava, false, false, false},
	}

	for _, tc := range tests {
		if tc.ground.IsWall() != tc.wall {
			t.Errorf("%v.IsWall() = %v, expected %v", tc.ground, tc.ground.IsWall(), tc.wall)
		}
		if tc.ground.IsWater() != tc.water {
			t.Errorf("%v.IsWater() = %v, expected %v", tc.ground, tc.ground.IsWater(), tc.water)
		}
		if tc.ground.IsTraversable() != tc.traversable {
			t.Errorf("%v.IsTraversable() = %v, expected %v", tc.ground, tc.ground.IsTraversable(), tc.traversable)
		}
	}
}

func TestParseTileset_ByteOrderMark(t *testing.T) {
	ts, err := ParseTileset(append([]byte("\xef\xbb\xbf"), villageData...))
	if err != nil {
		t.Fatalf("ParseTileset failed: %v", err)
	}
	if len(ts.Patterns) != 3 || ts.Patterns[0].ID != "ground_grass" {
		t.Errorf("unexpected patterns %+v", ts.Patterns)
	}
}

func TestParseTileset_NormalizesIDs(t *testing.T) {
	data := "tile_patterns:\n  - id: \"cafe\\u0301\"\n    x: 0\n    y: 0\n    width: 8\n    height: 8\n"

	ts, err := ParseTileset([]byte(data))
	if err != nil {
		t.Fatalf("ParseTileset failed: %v", err)
	}
	if ts.Patterns[0].ID != "café" {
		t.Errorf("expected composed id, got %q", ts.Patterns[0].ID)
	}
}
