// Package tileset implements tilesets: the tile patterns and atlas images
// that make up the visual skin of a map.
//
// A Tileset is created unloaded with New, filled by Load and emptied by
// Unload. While loaded it answers pattern lookups and can swap its atlases
// for those of another tileset with SetImages, which keeps pattern geometry
// and only changes pixels.
//
// A Tileset is meant to be used by a single owner. Concurrent reads are
// safe while no Load, Unload or SetImages call is running.
package tileset

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/Faultbox/tilekit/internal/engine/surface"
	"github.com/Faultbox/tilekit/internal/engine/tilepattern"
	"github.com/Faultbox/tilekit/internal/logger"
	"github.com/Faultbox/tilekit/pkg/encoding"
	"github.com/Faultbox/tilekit/pkg/formats"
)

// DefaultBackgroundColor is the background of a tileset before Load.
var DefaultBackgroundColor = color.RGBA{A: 0xff}

// Options holds the collaborators of a Tileset.
type Options struct {
	Data     DataLoader
	Images   ImageLoader
	Patterns PatternFactory // Defaults to tilepattern.Factory with default timing
}

// Tileset is a set of tile patterns and the atlases they are drawn from.
type Tileset struct {
	id   string
	opts Options

	background    color.RGBA
	patterns      map[string]tilepattern.Pattern
	extent        image.Rectangle // Union of every pattern frame
	tilesImage    *surface.Surface
	entitiesImage *surface.Surface
	imagesID      string
}

// New creates an unloaded tileset. It panics if id is not a valid tileset
// id or if a required collaborator is missing.
func New(id string, opts Options) *Tileset {
	if !ValidID(id) {
		panic(fmt.Sprintf("tileset: invalid id %q", id))
	}
	if opts.Data == nil || opts.Images == nil {
		panic("tileset: data and image loaders are required")
	}
	if opts.Patterns == nil {
		opts.Patterns = tilepattern.Factory(tilepattern.DefaultTiming())
	}

	return &Tileset{
		id:         id,
		opts:       opts,
		background: DefaultBackgroundColor,
	}
}

// ID returns the id of the tileset.
func (t *Tileset) ID() string {
	return t.id
}

// IsLoaded returns true between a successful Load and the next Unload.
func (t *Tileset) IsLoaded() bool {
	return t.tilesImage != nil
}

// BackgroundColor returns the ambient colour of maps using the tileset.
func (t *Tileset) BackgroundColor() color.RGBA {
	return t.background
}

// Load reads the tileset data, builds every pattern and acquires the
// atlases. On error the tileset stays unloaded. Loading a loaded tileset
// is a programming error.
func (t *Tileset) Load() error {
	if t.IsLoaded() {
		fatalf(t.id, "Load called on a loaded tileset")
	}

	data, err := t.opts.Data.LoadTilesetData(t.id)
	if err != nil {
		return classifyDataError(t.id, err)
	}

	patterns := make(map[string]tilepattern.Pattern, len(data.Patterns))
	var extent image.Rectangle
	for i, decl := range data.Patterns {
		if err := t.addTilePattern(patterns, i, decl); err != nil {
			return err
		}
		extent = extent.Union(decl.Data.Bounds())
	}

	tiles, entities, err := t.acquireImages(t.id, extent)
	if err != nil {
		return err
	}

	t.background = data.BackgroundColor
	t.patterns = patterns
	t.extent = extent
	t.tilesImage = tiles
	t.entitiesImage = entities
	t.imagesID = t.id

	logger.Debug("tileset loaded",
		zap.String("tileset", t.id),
		zap.Int("patterns", len(patterns)),
		zap.Bool("entities_image", entities != nil))

	return nil
}

// addTilePattern builds one declared pattern and inserts it in catalog.
func (t *Tileset) addTilePattern(catalog map[string]tilepattern.Pattern, index int, decl formats.TilePatternEntry) error {
	decl.ID = encoding.NormalizeID(decl.ID)
	if _, exists := catalog[decl.ID]; exists {
		return &DuplicateIDError{Tileset: t.id, ID: decl.ID, Line: decl.Line}
	}

	p, err := t.opts.Patterns(decl.Data)
	if err != nil {
		perr := &formats.ParseError{Line: decl.Line, Entry: index, Msg: fmt.Sprintf("tile pattern %q: %v", decl.ID, err), Err: err}
		return fmt.Errorf("%w: %s: %w", ErrParse, DataPath(t.id), perr)
	}

	catalog[decl.ID] = p
	return nil
}

// acquireImages acquires the atlases of tileset id and checks that extent
// fits in the tile atlas. The entity atlas is optional.
func (t *Tileset) acquireImages(id string, extent image.Rectangle) (tiles, entities *surface.Surface, err error) {
	tilesPath := TilesImagePath(id)
	tiles, err = t.opts.Images.Acquire(tilesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrMissingResource, tilesPath, err)
	}

	if !extent.In(tiles.Bounds()) {
		t.opts.Images.Release(tiles)
		return nil, nil, fmt.Errorf("%w: patterns cover %v but %s is %v",
			ErrGeometry, extent, tilesPath, tiles.Bounds().Size())
	}

	entitiesPath := EntitiesImagePath(id)
	entities, err = t.opts.Images.Acquire(entitiesPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			t.opts.Images.Release(tiles)
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrMissingResource, entitiesPath, err)
		}
		entities = nil
	}

	return tiles, entities, nil
}

// Unload drops every pattern and both atlases. Unloading an unloaded
// tileset does nothing.
func (t *Tileset) Unload() {
	if !t.IsLoaded() {
		return
	}

	t.opts.Images.Release(t.tilesImage)
	t.opts.Images.Release(t.entitiesImage)

	t.tilesImage = nil
	t.entitiesImage = nil
	t.patterns = nil
	t.extent = image.Rectangle{}
	t.background = DefaultBackgroundColor
	t.imagesID = ""

	logger.Debug("tileset unloaded", zap.String("tileset", t.id))
}

// SetImages replaces the atlases with those of tileset otherID, keeping
// every pattern and the background colour. Pattern geometry is frozen: the
// new tile atlas must cover every pattern rectangle. On error the current
// atlases are kept.
func (t *Tileset) SetImages(otherID string) error {
	t.mustBeLoaded("SetImages")

	if !ValidID(otherID) {
		return fmt.Errorf("%w: invalid tileset id %q", ErrMissingResource, otherID)
	}

	tiles, entities, err := t.acquireImages(otherID, t.extent)
	if err != nil {
		return err
	}

	t.opts.Images.Release(t.tilesImage)
	t.opts.Images.Release(t.entitiesImage)
	t.tilesImage = tiles
	t.entitiesImage = entities
	t.imagesID = otherID

	logger.Debug("tileset images replaced",
		zap.String("tileset", t.id),
		zap.String("images", otherID),
		zap.Bool("entities_image", entities != nil))

	return nil
}

// ImagesID returns the id of the tileset whose atlases are in use, or ""
// when unloaded.
func (t *Tileset) ImagesID() string {
	return t.imagesID
}

// TilesImage returns the tile atlas. The tileset must be loaded.
func (t *Tileset) TilesImage() *surface.Surface {
	t.mustBeLoaded("TilesImage")
	return t.tilesImage
}

// EntitiesImage returns the entity atlas, or nil if the tileset has none.
// The tileset must be loaded.
func (t *Tileset) EntitiesImage() *surface.Surface {
	t.mustBeLoaded("EntitiesImage")
	return t.entitiesImage
}

// TilePattern returns the pattern with the given id. The tileset must be
// loaded and declare the pattern; map data referencing patterns is
// validated before drawing, so an unknown id is a programming error.
// Ids are compared in NFC form, as stored by Load.
func (t *Tileset) TilePattern(id string) tilepattern.Pattern {
	t.mustBeLoaded("TilePattern")

	p, ok := t.patterns[encoding.NormalizeID(id)]
	if !ok {
		fatalf(t.id, "no such tile pattern %q", id)
	}
	return p
}

// HasTilePattern reports whether a loaded tileset declares the pattern.
func (t *Tileset) HasTilePattern(id string) bool {
	_, ok := t.patterns[encoding.NormalizeID(id)]
	return ok
}

// NumPatterns returns the number of patterns, 0 when unloaded.
func (t *Tileset) NumPatterns() int {
	return len(t.patterns)
}

// PatternIDs returns the sorted ids of all patterns.
func (t *Tileset) PatternIDs() []string {
	ids := make([]string, 0, len(t.patterns))
	for id := range t.patterns {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DrawTilePattern draws pattern id from the current tile atlas.
func (t *Tileset) DrawTilePattern(dst draw.Image, id string, pos image.Point, v tilepattern.View) {
	t.TilePattern(id).Draw(dst, pos, t.tilesImage.Image(), v)
}

func (t *Tileset) mustBeLoaded(op string) {
	if !t.IsLoaded() {
		fatalf(t.id, "%s called on an unloaded tileset", op)
	}
}
