package game

// Directions a room exit can face.
const (
	North = "north"
	South = "south"
	East  = "east"
	West  = "west"
)

// Directions lists the four exit directions in a stable order.
var Directions = []string{North, South, East, West}

// Opposite returns the reverse of a direction, or "" for an unknown one.
func Opposite(dir string) string {
	switch dir {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return ""
}

// Room is a single cell of the dungeon grid. Layout is immutable once
// generated; only the entities inside a room change during play.
type Room struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	X           int               `json:"x"`
	Y           int               `json:"y"`
	IsEntrance  bool              `json:"is_entrance"`
	IsExit      bool              `json:"is_exit"`
	Exits       map[string]string `json:"exits"` // direction -> room ID
}

// ExitDirections returns the room's exit directions in north/south/east/west order.
func (r *Room) ExitDirections() []string {
	dirs := make([]string, 0, len(r.Exits))
	for _, d := range Directions {
		if _, ok := r.Exits[d]; ok {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Distance returns the Manhattan distance from the entrance at (0,0).
func (r *Room) Distance() int {
	return r.X + r.Y
}
