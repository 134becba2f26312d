package face

import "fmt"

// Direction is one of the eight horizontal compass directions a chunk can be
// crossed in. North is +z (the Back face), East is +x (the Right face).
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
	NorthEast
	NorthWest
	SouthEast
	SouthWest
)

// DirectionCount is the number of compass directions.
const DirectionCount = 8

var directionNames = [DirectionCount]string{
	"North", "South", "East", "West", "NorthEast", "NorthWest", "SouthEast", "SouthWest",
}

// deltas holds the (x, z) unit step of each direction.
var deltas = [DirectionCount][2]int{
	North:     {0, 1},
	South:     {0, -1},
	East:      {1, 0},
	West:      {-1, 0},
	NorthEast: {1, 1},
	NorthWest: {-1, 1},
	SouthEast: {1, -1},
	SouthWest: {-1, -1},
}

func (d Direction) String() string {
	if int(d) < DirectionCount {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Index returns the direction as an integer in 0..7.
func (d Direction) Index() int { return int(d) }

// DirectionFromIndex converts 0..7 back into a Direction.
func DirectionFromIndex(i int) Direction {
	if i < 0 || i >= DirectionCount {
		panic(fmt.Sprintf("face: direction index %d out of range 0..7", i))
	}
	return Direction(i)
}

// Opposite returns the direction rotated by 180 degrees.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case NorthEast:
		return SouthWest
	case SouthWest:
		return NorthEast
	case NorthWest:
		return SouthEast
	case SouthEast:
		return NorthWest
	}
	panic(fmt.Sprintf("face: invalid direction %d", uint8(d)))
}

// Delta returns the (x, z) unit step of the direction.
func (d Direction) Delta() [2]int {
	return deltas[d]
}

// Decompose splits the direction into its axis-aligned components: one for
// cardinal directions, two (north/south first, then east/west) for diagonals.
func (d Direction) Decompose() []Direction {
	switch d {
	case NorthEast:
		return []Direction{North, East}
	case NorthWest:
		return []Direction{North, West}
	case SouthEast:
		return []Direction{South, East}
	case SouthWest:
		return []Direction{South, West}
	}
	return []Direction{d}
}

// DirectionFromDelta maps the signs of an (x, z) change to a direction.
// A zero change has no direction.
func DirectionFromDelta(dx, dz int) (Direction, bool) {
	sx, sz := sign(dx), sign(dz)
	for d, delta := range deltas {
		if delta[0] == sx && delta[1] == sz {
			return Direction(d), true
		}
	}
	return 0, false
}

// Compose adds two crossings, e.g. North then East is NorthEast.
// Composing directions whose components cancel out entirely (North and South,
// NorthEast and SouthWest) is not defined and panics.
func Compose(a, b Direction) Direction {
	da, db := a.Delta(), b.Delta()
	d, ok := DirectionFromDelta(da[0]+db[0], da[1]+db[1])
	if !ok {
		panic(fmt.Sprintf("face: composing opposite directions %v and %v is undefined", a, b))
	}
	return d
}

// ComposeOptional is Compose for crossings that may be absent.
func ComposeOptional(a Direction, okA bool, b Direction, okB bool) (Direction, bool) {
	switch {
	case !okA:
		return b, okB
	case !okB:
		return a, true
	}
	return Compose(a, b), true
}

// FromFace converts a horizontal face to its compass direction.
// Top and Bottom have no compass equivalent.
func FromFace(f Face) Direction {
	switch f {
	case Back:
		return North
	case Forward:
		return South
	case Right:
		return East
	case Left:
		return West
	}
	panic(fmt.Sprintf("face: %v cannot be converted to a direction", f))
}

// Face converts a direction to a horizontal face. Diagonals map to their
// north/south component.
func (d Direction) Face() Face {
	switch d {
	case North, NorthEast, NorthWest:
		return Back
	case South, SouthEast, SouthWest:
		return Forward
	case East:
		return Right
	case West:
		return Left
	}
	panic(fmt.Sprintf("face: invalid direction %d", uint8(d)))
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
