package tileset

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/tilekit/internal/logger"
)

// Load and SetImages errors.
var (
	ErrParse           = errors.New("invalid tileset data")
	ErrDuplicateID     = errors.New("duplicate tile pattern id")
	ErrMissingResource = errors.New("missing tileset resource")
	ErrGeometry        = errors.New("tile pattern outside of tileset image")
)

// DuplicateIDError names the pattern declared twice.
type DuplicateIDError struct {
	Tileset string
	ID      string
	Line    int // Line of the second declaration, 0 if unknown
}

func (e *DuplicateIDError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("tileset %s line %d: %v %q", e.Tileset, e.Line, ErrDuplicateID, e.ID)
	}
	return fmt.Sprintf("tileset %s: %v %q", e.Tileset, ErrDuplicateID, e.ID)
}

// Unwrap returns ErrDuplicateID.
func (e *DuplicateIDError) Unwrap() error {
	return ErrDuplicateID
}

// fatalf reports a programming error: the caller broke a precondition that
// the engine is supposed to have validated earlier.
func fatalf(tilesetID, format string, args ...any) {
	msg := fmt.Sprintf("tileset %s: ", tilesetID) + fmt.Sprintf(format, args...)
	logger.Error("tileset precondition violated", zap.String("tileset", tilesetID), zap.String("reason", msg))
	panic(msg)
}
