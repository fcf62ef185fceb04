package tileset

import (
	"errors"
	"fmt"

	"github.com/Faultbox/tilekit/internal/engine/surface"
	"github.com/Faultbox/tilekit/internal/engine/tilepattern"
	"github.com/Faultbox/tilekit/pkg/formats"
)

// DataLoader reads the declarative data of a tileset.
type DataLoader interface {
	LoadTilesetData(id string) (*formats.TilesetData, error)
}

// ImageLoader acquires shared atlas surfaces. Missing files must be
// reported with an error matching fs.ErrNotExist.
type ImageLoader interface {
	Acquire(path string) (*surface.Surface, error)
	Release(s *surface.Surface)
}

// PatternFactory builds a pattern from its declaration.
type PatternFactory func(formats.TilePatternData) (tilepattern.Pattern, error)

// FileDataLoader reads tileset data files from a resource source.
type FileDataLoader struct {
	files surface.FileSource
}

// NewDataLoader creates a DataLoader reading DataPath(id) from files.
func NewDataLoader(files surface.FileSource) *FileDataLoader {
	return &FileDataLoader{files: files}
}

// LoadTilesetData reads and parses the data file of tileset id.
// Errors wrap ErrMissingResource or ErrParse.
func (l *FileDataLoader) LoadTilesetData(id string) (*formats.TilesetData, error) {
	path := DataPath(id)
	raw, err := l.files.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMissingResource, path, err)
	}
	if f, ok := l.files.(surface.Forgetter); ok {
		f.Forget(path)
	}

	data, err := formats.ParseTileset(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	return data, nil
}

// classifyDataError makes sure errors from third-party DataLoaders fall in
// the Load error taxonomy.
func classifyDataError(id string, err error) error {
	switch {
	case errors.Is(err, ErrMissingResource), errors.Is(err, ErrParse):
		return err
	case errors.Is(err, formats.ErrMalformedTileset):
		return fmt.Errorf("%w: %s: %w", ErrParse, DataPath(id), err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrMissingResource, DataPath(id), err)
	}
}
