package tileset

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Resource layout, relative to the data root.
const (
	Dir              = "tilesets"
	DataExt          = ".dat"
	TilesImageExt    = ".tiles.png"
	EntitiesImageExt = ".entities.png"
)

// DataPath returns the path of the data file of tileset id.
func DataPath(id string) string {
	return Dir + "/" + id + DataExt
}

// TilesImagePath returns the path of the tile atlas of tileset id.
func TilesImagePath(id string) string {
	return Dir + "/" + id + TilesImageExt
}

// EntitiesImagePath returns the path of the optional entity atlas of
// tileset id.
func EntitiesImagePath(id string) string {
	return Dir + "/" + id + EntitiesImageExt
}

// ValidID reports whether id can name a tileset: non-empty, slash-separated,
// without "." or ".." elements.
func ValidID(id string) bool {
	return id != "" && fs.ValidPath(id) && id != "."
}

// IDFromDataPath extracts the tileset id from a data file path, as returned
// by a glob over DataPath("*").
func IDFromDataPath(path string) (string, bool) {
	if !strings.HasPrefix(path, Dir+"/") || !strings.HasSuffix(path, DataExt) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(path, Dir+"/"), DataExt)
	return id, ValidID(id)
}

// SplitDataFile splits the OS path of a data file, such as
// /games/zelda/data/tilesets/forest/day.dat, into the data root
// (/games/zelda/data) and the tileset id (forest/day). The last tilesets
// directory in the path is taken as the resource directory.
func SplitDataFile(path string) (root, id string, ok bool) {
	slashed := filepath.ToSlash(path)
	i := strings.LastIndex("/"+slashed, "/"+Dir+"/")
	if i < 0 {
		return "", "", false
	}

	id, ok = IDFromDataPath(slashed[i:])
	if !ok {
		return "", "", false
	}
	root = filepath.FromSlash(strings.TrimSuffix(slashed[:i], "/"))
	if root == "" {
		root = "."
	}
	return root, id, true
}
