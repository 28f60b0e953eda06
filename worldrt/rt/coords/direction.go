package coords

type Direction uint8

const (
	Down Direction = iota
	Up
	North
	South
	West
	East
)

var Directions = [6]Direction{Down, Up, North, South, West, East}

var directionNames = [6]string{"down", "up", "north", "south", "west", "east"}

var directionVectors = [6]Vec3i{
	{0, -1, 0},
	{0, 1, 0},
	{0, 0, -1},
	{0, 0, 1},
	{-1, 0, 0},
	{1, 0, 0},
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "invalid"
}

func (d Direction) Inverted() Direction {
	return d ^ 1
}

func (d Direction) Vector() Vec3i {
	return directionVectors[d]
}

// Horizontal reports whether d lies on the horizontal plane.
func (d Direction) Horizontal() bool {
	return d >= North
}
