package tileset

import (
	"fmt"

	"github.com/Faultbox/tilekit/internal/engine/surface"
	"github.com/Faultbox/tilekit/internal/engine/tilepattern"
)

// Files is a resource source that can also enumerate its content.
type Files interface {
	surface.FileSource
	Glob(pattern string) ([]string, error)
}

// Library creates tilesets over one resource source. Tilesets from the same
// library share decoded atlases.
type Library struct {
	files    Files
	data     *FileDataLoader
	images   *surface.Loader
	patterns PatternFactory
}

// NewLibrary creates a library whose patterns animate with timing.
func NewLibrary(files Files, timing tilepattern.Timing) *Library {
	return &Library{
		files:    files,
		data:     NewDataLoader(files),
		images:   surface.NewLoader(files),
		patterns: tilepattern.Factory(timing),
	}
}

// New creates an unloaded tileset.
func (l *Library) New(id string) *Tileset {
	return New(id, Options{
		Data:     l.data,
		Images:   l.images,
		Patterns: l.patterns,
	})
}

// Load creates and loads a tileset.
func (l *Library) Load(id string) (*Tileset, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("%w: invalid tileset id %q", ErrMissingResource, id)
	}

	ts := l.New(id)
	if err := ts.Load(); err != nil {
		return nil, err
	}
	return ts, nil
}

// IDs returns the ids of every tileset with a data file directly under Dir.
func (l *Library) IDs() ([]string, error) {
	paths, err := l.files.Glob(DataPath("*"))
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, p := range paths {
		if id, ok := IDFromDataPath(p); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Images returns the atlas cache shared by the library's tilesets.
func (l *Library) Images() *surface.Loader {
	return l.images
}
