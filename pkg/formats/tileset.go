// Package formats provides parsers for tileset data files.
package formats

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/tilekit/pkg/encoding"
)

// ErrMalformedTileset is wrapped by every ParseError.
var ErrMalformedTileset = errors.New("malformed tileset data")

// PatternGranularity is the size unit of tile patterns in pixels.
const PatternGranularity = 8

// ParseError locates a problem in a tileset data file.
type ParseError struct {
	Line  int    // 1-based line, 0 if unknown
	Entry int    // index in tile_patterns, -1 for top-level items
	Field string // offending key, empty if the whole item is wrong
	Msg   string
	Err   error // underlying cause, if any
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("tileset data")
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	if e.Entry >= 0 {
		fmt.Fprintf(&b, ": tile_patterns[%d]", e.Entry)
	}
	if e.Field != "" {
		if e.Entry >= 0 {
			b.WriteByte('.')
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	return b.String()
}

// Unwrap returns ErrMalformedTileset and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedTileset}
	}
	return []error{ErrMalformedTileset, e.Err}
}

// TilePatternData describes one tile pattern as declared in a data file.
type TilePatternData struct {
	Ground       Ground
	DefaultLayer int
	Scrolling    Scrolling
	RepeatMode   RepeatMode
	Frames       []image.Rectangle // Atlas rectangles, all of the same size
}

// Size returns the size of one frame.
func (d TilePatternData) Size() image.Point {
	if len(d.Frames) == 0 {
		return image.Point{}
	}
	return d.Frames[0].Size()
}

// IsMultiFrame returns true if the pattern is animated.
func (d TilePatternData) IsMultiFrame() bool {
	return len(d.Frames) > 1
}

// Bounds returns the union of all frame rectangles.
func (d TilePatternData) Bounds() image.Rectangle {
	var r image.Rectangle
	for _, f := range d.Frames {
		r = r.Union(f)
	}
	return r
}

// TilePatternEntry is a declared pattern with its id and source line.
type TilePatternEntry struct {
	ID   string
	Line int
	Data TilePatternData
}

// TilesetData is the parsed content of a tileset data file.
type TilesetData struct {
	BackgroundColor color.RGBA
	Patterns        []TilePatternEntry // File order, ids not deduplicated
}

// ParseTileset parses a tileset data file from raw bytes.
func ParseTileset(data []byte) (*TilesetData, error) {
	ts := &TilesetData{BackgroundColor: color.RGBA{A: 0xff}}

	data, err := encoding.DecodeText(data)
	if err != nil {
		return nil, &ParseError{Entry: -1, Msg: err.Error()}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, syntaxError(err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		// Empty file: no background, no patterns
		return ts, nil
	}

	root := resolve(doc.Content[0])
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return ts, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{Line: root.Line, Entry: -1, Msg: "expected a mapping of items"}
	}

	seen := make(map[string]bool)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], resolve(root.Content[i+1])
		if seen[key.Value] {
			return nil, &ParseError{Line: key.Line, Entry: -1, Field: key.Value, Msg: "item defined twice"}
		}
		seen[key.Value] = true

		switch key.Value {
		case "background_color":
			c, err := parseColor(val)
			if err != nil {
				return nil, &ParseError{Line: val.Line, Entry: -1, Field: key.Value, Msg: err.Error()}
			}
			ts.BackgroundColor = c

		case "tile_patterns":
			if val.Kind == yaml.ScalarNode && val.ShortTag() == "!!null" {
				continue
			}
			if val.Kind != yaml.SequenceNode {
				return nil, &ParseError{Line: val.Line, Entry: -1, Field: key.Value, Msg: "expected a list of tile patterns"}
			}
			ts.Patterns = make([]TilePatternEntry, 0, len(val.Content))
			for idx, n := range val.Content {
				entry, err := parseTilePattern(resolve(n), idx)
				if err != nil {
					return nil, err
				}
				ts.Patterns = append(ts.Patterns, entry)
			}

		default:
			return nil, &ParseError{Line: key.Line, Entry: -1, Field: key.Value, Msg: "unknown item"}
		}
	}

	return ts, nil
}

// ParseTilesetFile parses a tileset data file from disk.
func ParseTilesetFile(path string) (*TilesetData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tileset data: %w", err)
	}
	return ParseTileset(data)
}

// parseTilePattern parses one entry of the tile_patterns list.
func parseTilePattern(n *yaml.Node, index int) (TilePatternEntry, error) {
	entry := TilePatternEntry{
		Line: n.Line,
		Data: TilePatternData{Ground: GroundTraversable},
	}
	fail := func(line int, field, format string, args ...any) (TilePatternEntry, error) {
		return TilePatternEntry{}, &ParseError{Line: line, Entry: index, Field: field, Msg: fmt.Sprintf(format, args...)}
	}

	if n.Kind != yaml.MappingNode {
		return fail(n.Line, "", "expected a mapping")
	}

	var (
		xs, ys        []int
		width, height int
		seen          = make(map[string]bool)
	)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], resolve(n.Content[i+1])
		field := key.Value
		if seen[field] {
			return fail(key.Line, field, "defined twice")
		}
		seen[field] = true

		switch field {
		case "id":
			if val.Kind != yaml.ScalarNode || val.Value == "" {
				return fail(val.Line, field, "expected a non-empty string")
			}
			entry.ID = encoding.NormalizeID(val.Value)

		case "ground":
			g, ok := ParseGround(val.Value)
			if val.Kind != yaml.ScalarNode || !ok {
				return fail(val.Line, field, "unknown ground %q", val.Value)
			}
			entry.Data.Ground = g

		case "default_layer":
			v, err := scalarInt(val)
			if err != nil {
				return fail(val.Line, field, "%v", err)
			}
			entry.Data.DefaultLayer = v

		case "x", "y":
			v, err := intList(val)
			if err != nil {
				return fail(val.Line, field, "%v", err)
			}
			for _, c := range v {
				if c < 0 {
					return fail(val.Line, field, "negative coordinate %d", c)
				}
			}
			if field == "x" {
				xs = v
			} else {
				ys = v
			}

		case "width", "height":
			v, err := scalarInt(val)
			if err != nil {
				return fail(val.Line, field, "%v", err)
			}
			if v <= 0 || v%PatternGranularity != 0 {
				return fail(val.Line, field, "must be a positive multiple of %d, got %d", PatternGranularity, v)
			}
			if field == "width" {
				width = v
			} else {
				height = v
			}

		case "scrolling":
			s, ok := ParseScrolling(val.Value)
			if val.Kind != yaml.ScalarNode || !ok {
				return fail(val.Line, field, "unknown scrolling mode %q", val.Value)
			}
			entry.Data.Scrolling = s

		case "repeat_mode":
			m, ok := ParseRepeatMode(val.Value)
			if val.Kind != yaml.ScalarNode || !ok {
				return fail(val.Line, field, "unknown repeat mode %q", val.Value)
			}
			entry.Data.RepeatMode = m

		default:
			return fail(key.Line, field, "unknown field")
		}
	}

	for _, required := range []string{"id", "x", "y", "width", "height"} {
		if !seen[required] {
			return fail(n.Line, required, "missing")
		}
	}
	if len(xs) != len(ys) {
		return fail(n.Line, "y", "x has %d frames but y has %d", len(xs), len(ys))
	}
	if len(xs) > 1 && entry.Data.Scrolling == ScrollingSelf {
		return fail(n.Line, "scrolling", "self-scrolling patterns cannot be multi-frame")
	}

	entry.Data.Frames = make([]image.Rectangle, len(xs))
	for i := range xs {
		entry.Data.Frames[i] = image.Rect(xs[i], ys[i], xs[i]+width, ys[i]+height)
	}

	return entry, nil
}

// parseColor accepts [r, g, b] or a CSS colour name.
func parseColor(n *yaml.Node) (color.RGBA, error) {
	if n.Kind == yaml.ScalarNode {
		c, ok := colornames.Map[strings.ToLower(n.Value)]
		if !ok {
			return color.RGBA{}, fmt.Errorf("unknown colour name %q", n.Value)
		}
		return c, nil
	}

	v, err := intList(n)
	if err != nil {
		return color.RGBA{}, err
	}
	if len(v) != 3 {
		return color.RGBA{}, fmt.Errorf("expected 3 components, got %d", len(v))
	}
	for _, c := range v {
		if c < 0 || c > 255 {
			return color.RGBA{}, fmt.Errorf("component %d out of range 0-255", c)
		}
	}
	return color.RGBA{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2]), A: 0xff}, nil
}

// intList accepts a single integer or a non-empty sequence of integers.
func intList(n *yaml.Node) ([]int, error) {
	if n.Kind == yaml.ScalarNode {
		v, err := scalarInt(n)
		if err != nil {
			return nil, err
		}
		return []int{v}, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("expected an integer or a list of integers")
	}
	if len(n.Content) == 0 {
		return nil, fmt.Errorf("empty list")
	}

	out := make([]int, len(n.Content))
	for i, c := range n.Content {
		v, err := scalarInt(resolve(c))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func scalarInt(n *yaml.Node) (int, error) {
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!int" {
		return 0, fmt.Errorf("expected an integer, got %q", n.Value)
	}
	var v int
	if err := n.Decode(&v); err != nil {
		return 0, err
	}
	return v, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// syntaxError converts a yaml error, keeping its line when it reports one.
func syntaxError(err error) *ParseError {
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	pe := &ParseError{Entry: -1, Msg: msg}
	var line int
	if _, scanErr := fmt.Sscanf(msg, "line %d:", &line); scanErr == nil {
		pe.Line = line
		if i := strings.Index(msg, ": "); i >= 0 {
			pe.Msg = msg[i+2:]
		}
	}
	return pe
}
