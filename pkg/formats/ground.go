package formats

import "fmt"

// Ground is the terrain hint attached to a tile pattern.
type Ground uint8

// Ground kinds. The zero value is GroundEmpty.
const (
	GroundEmpty                Ground = iota // Nothing, let the lower layer decide
	GroundTraversable                        // Normal walkable ground
	GroundWall                               // Obstacle
	GroundLowWall                            // Obstacle that projectiles fly over
	GroundWallTopRight                       // Diagonal wall, obstacle in the upper right half
	GroundWallTopLeft                        // Diagonal wall, obstacle in the upper left half
	GroundWallBottomLeft                     // Diagonal wall, obstacle in the lower left half
	GroundWallBottomRight                    // Diagonal wall, obstacle in the lower right half
	GroundWallTopRightWater                  // Diagonal wall with deep water in the other half
	GroundWallTopLeftWater                   // Diagonal wall with deep water in the other half
	GroundWallBottomLeftWater                // Diagonal wall with deep water in the other half
	GroundWallBottomRightWater               // Diagonal wall with deep water in the other half
	GroundDeepWater                          // Swimmable water
	GroundShallowWater                       // Walkable water
	GroundGrass                              // Tall grass
	GroundHole                               // Fall
	GroundIce                                // Slippery
	GroundLadder                             // Slow climbing
	GroundPrickles                           // Hurts
	GroundLava                               // Hurts and drowns
)

var groundNames = [...]string{
	GroundEmpty:                "empty",
	GroundTraversable:          "traversable",
	GroundWall:                 "wall",
	GroundLowWall:              "low_wall",
	GroundWallTopRight:         "wall_top_right",
	GroundWallTopLeft:          "wall_top_left",
	GroundWallBottomLeft:       "wall_bottom_left",
	GroundWallBottomRight:      "wall_bottom_right",
	GroundWallTopRightWater:    "wall_top_right_water",
	GroundWallTopLeftWater:     "wall_top_left_water",
	GroundWallBottomLeftWater:  "wall_bottom_left_water",
	GroundWallBottomRightWater: "wall_bottom_right_water",
	GroundDeepWater:            "deep_water",
	GroundShallowWater:         "shallow_water",
	GroundGrass:                "grass",
	GroundHole:                 "hole",
	GroundIce:                  "ice",
	GroundLadder:               "ladder",
	GroundPrickles:             "prickles",
	GroundLava:                 "lava",
}

// String returns the name used in tileset data files.
func (g Ground) String() string {
	if int(g) < len(groundNames) {
		return groundNames[g]
	}
	return fmt.Sprintf("Ground(%d)", uint8(g))
}

// ParseGround converts a data file name to a Ground.
func ParseGround(name string) (Ground, bool) {
	for i, n := range groundNames {
		if n == name {
			return Ground(i), true
		}
	}
	return GroundEmpty, false
}

// Grounds returns every known ground kind in declaration order.
func Grounds() []Ground {
	all := make([]Ground, len(groundNames))
	for i := range all {
		all[i] = Ground(i)
	}
	return all
}

// IsWall returns true for full and diagonal walls.
func (g Ground) IsWall() bool {
	return g == GroundWall || g == GroundLowWall || g.IsDiagonal()
}

// IsDiagonal returns true if the ground is a diagonal wall.
func (g Ground) IsDiagonal() bool {
	return g >= GroundWallTopRight && g <= GroundWallBottomRightWater
}

// IsWater returns true if the ground contains water.
func (g Ground) IsWater() bool {
	switch g {
	case GroundDeepWater, GroundShallowWater,
		GroundWallTopRightWater, GroundWallTopLeftWater,
		GroundWallBottomLeftWater, GroundWallBottomRightWater:
		return true
	}
	return false
}

// IsTraversable returns true if a walking entity can step on the whole cell.
func (g Ground) IsTraversable() bool {
	switch g {
	case GroundEmpty, GroundTraversable, GroundShallowWater, GroundGrass,
		GroundIce, GroundLadder:
		return true
	}
	return false
}

// Scrolling is the scrolling mode of a tile pattern.
type Scrolling uint8

// Scrolling modes.
const (
	ScrollingNone     Scrolling = iota
	ScrollingParallax           // Moves slower than the camera
	ScrollingSelf               // Content scrolls inside the pattern
)

// String returns the name used in tileset data files.
func (s Scrolling) String() string {
	switch s {
	case ScrollingNone:
		return ""
	case ScrollingParallax:
		return "parallax"
	case ScrollingSelf:
		return "self"
	default:
		return fmt.Sprintf("Scrolling(%d)", uint8(s))
	}
}

// ParseScrolling converts a data file name to a Scrolling mode.
func ParseScrolling(name string) (Scrolling, bool) {
	switch name {
	case "", "none":
		return ScrollingNone, true
	case "parallax":
		return ScrollingParallax, true
	case "self":
		return ScrollingSelf, true
	}
	return ScrollingNone, false
}

// RepeatMode tells how a pattern may be repeated when a tile is resized.
type RepeatMode uint8

// Repeat modes.
const (
	RepeatAll RepeatMode = iota
	RepeatHorizontal
	RepeatVertical
	RepeatNone
)

// String returns the name used in tileset data files.
func (m RepeatMode) String() string {
	switch m {
	case RepeatAll:
		return "all"
	case RepeatHorizontal:
		return "horizontal"
	case RepeatVertical:
		return "vertical"
	case RepeatNone:
		return "none"
	default:
		return fmt.Sprintf("RepeatMode(%d)", uint8(m))
	}
}

// ParseRepeatMode converts a data file name to a RepeatMode.
func ParseRepeatMode(name string) (RepeatMode, bool) {
	switch name {
	case "", "all":
		return RepeatAll, true
	case "horizontal":
		return RepeatHorizontal, true
	case "vertical":
		return RepeatVertical, true
	case "none":
		return RepeatNone, true
	}
	return RepeatAll, false
}
