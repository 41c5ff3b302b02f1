package dungeon

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dungeonforge/crawl-engine/pkg/game"
)

// GridSize is the dungeon edge length: entrance at (0,0), exit at the
// opposite corner, eight steps away by Manhattan distance.
const GridSize = 5

var titleCaser = cases.Title(language.English)

// Generator builds dungeons from a content pack. All randomness comes from
// the seeded rng, so a seed fully determines the layout and population.
type Generator struct {
	seed    int64
	rng     *rand.Rand
	content *Content
}

// New creates a generator for one dungeon.
func New(seed int64, content *Content) *Generator {
	if content == nil {
		content = DefaultContent()
	}
	return &Generator{
		seed:    seed,
		rng:     rand.New(rand.NewSource(seed)),
		content: content,
	}
}

// Layout is a freshly generated dungeon before a character enters it.
type Layout struct {
	Rooms      map[string]*game.Room
	Monsters   map[string]*game.Monster
	Items      map[string]*game.Item
	EntranceID string
	GridSize   int
	Seed       int64
}

// Generate builds the full grid: rooms with mutually consistent exits,
// entrance and exit markers, and the initial monster/item population.
func (g *Generator) Generate() *Layout {
	layout := &Layout{
		Rooms:    make(map[string]*game.Room),
		Monsters: make(map[string]*game.Monster),
		Items:    make(map[string]*game.Item),
		GridSize: GridSize,
		Seed:     g.seed,
	}

	grid := make([][]*game.Room, GridSize)
	for y := 0; y < GridSize; y++ {
		grid[y] = make([]*game.Room, GridSize)
		for x := 0; x < GridSize; x++ {
			room := &game.Room{
				ID:    uuid.NewString(),
				Name:  g.roomName(),
				X:     x,
				Y:     y,
				Exits: make(map[string]string),
			}
			room.Description = g.roomDescription(room)
			grid[y][x] = room
			layout.Rooms[room.ID] = room
		}
	}

	entrance := grid[0][0]
	entrance.IsEntrance = true
	entrance.Name = "Dungeon Entrance"
	entrance.Description = "Torchlight flickers over worn stone steps. The way out is behind you; the dungeon lies ahead."
	exit := grid[GridSize-1][GridSize-1]
	exit.IsExit = true
	exit.Name = "Shattered Gate"
	exit.Description = "Daylight spills through a broken gate. Step through and the dungeon is behind you."
	layout.EntranceID = entrance.ID

	g.carve(grid)

	for _, room := range layout.Rooms {
		g.populate(layout, room)
	}

	return layout
}

// carve connects the grid with a randomized depth-first spanning tree and
// then opens a few extra walls so the maze has loops. Connections are
// always written to both rooms, keeping exits mutually consistent.
func (g *Generator) carve(grid [][]*game.Room) {
	visited := make(map[*game.Room]bool)

	var walk func(room *game.Room)
	walk = func(room *game.Room) {
		visited[room] = true
		for _, dir := range g.shuffledDirections() {
			next := neighbor(grid, room, dir)
			if next == nil || visited[next] {
				continue
			}
			connect(room, next, dir)
			walk(next)
		}
	}
	walk(grid[0][0])

	// Extra connections: roughly one per row keeps corridors from being
	// the only path without turning the maze into an open field.
	for i := 0; i < GridSize; i++ {
		room := grid[g.rng.Intn(GridSize)][g.rng.Intn(GridSize)]
		dir := game.Directions[g.rng.Intn(len(game.Directions))]
		if next := neighbor(grid, room, dir); next != nil {
			connect(room, next, dir)
		}
	}
}

func (g *Generator) shuffledDirections() []string {
	dirs := make([]string, len(game.Directions))
	copy(dirs, game.Directions)
	g.rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
	return dirs
}

// neighbor returns the room one step in dir from room, or nil at the edge.
// North increases y, east increases x.
func neighbor(grid [][]*game.Room, room *game.Room, dir string) *game.Room {
	x, y := room.X, room.Y
	switch dir {
	case game.North:
		y++
	case game.South:
		y--
	case game.East:
		x++
	case game.West:
		x--
	}
	if x < 0 || y < 0 || x >= GridSize || y >= GridSize {
		return nil
	}
	return grid[y][x]
}

func connect(a, b *game.Room, dir string) {
	a.Exits[dir] = b.ID
	b.Exits[game.Opposite(dir)] = a.ID
}

// populate seeds a room with monsters and items scaled by its distance
// from the entrance. The entrance is safe and holds a starting potion; the
// exit room stays empty so reaching it is the victory condition.
func (g *Generator) populate(layout *Layout, room *game.Room) {
	if room.IsExit {
		return
	}
	if room.IsEntrance {
		g.spawnItem(layout, room, g.content.StartingItem())
		return
	}

	distance := room.Distance()

	eligible := make([]MonsterTemplate, 0, len(g.content.Monsters))
	for _, mt := range g.content.Monsters {
		if mt.MinDistance <= distance {
			eligible = append(eligible, mt)
		}
	}
	if len(eligible) > 0 {
		count := 1
		if distance >= 3 && g.rng.Float64() < 0.3 {
			count = 2
		}
		for i := 0; i < count; i++ {
			mt := eligible[g.rng.Intn(len(eligible))]
			scale := 1.0 + float64(distance)*0.1
			m := &game.Monster{
				ID:          uuid.NewString(),
				Name:        mt.Name,
				Description: mt.Description,
				HP:          int(float64(mt.HP) * scale),
				MaxHP:       int(float64(mt.HP) * scale),
				Damage:      int(float64(mt.Damage) * scale),
				RoomID:      room.ID,
				IsAlive:     true,
			}
			layout.Monsters[m.ID] = m
		}
	}

	chance := 0.3 + float64(distance)*0.05
	if chance > 0.7 {
		chance = 0.7
	}
	if g.rng.Float64() < chance {
		eligibleItems := make([]ItemTemplate, 0, len(g.content.Items))
		for _, it := range g.content.Items {
			if it.MinDistance <= distance {
				eligibleItems = append(eligibleItems, it)
			}
		}
		if len(eligibleItems) > 0 {
			g.spawnItem(layout, room, eligibleItems[g.rng.Intn(len(eligibleItems))])
		}
	}
}

func (g *Generator) spawnItem(layout *Layout, room *game.Room, tpl ItemTemplate) {
	item := &game.Item{
		ID:          uuid.NewString(),
		Name:        tpl.Name,
		Description: tpl.Description,
		Type:        tpl.Type,
		Damage:      tpl.Damage,
		Armor:       tpl.Armor,
		Healing:     tpl.Healing,
		Rarity:      tpl.Rarity,
		RoomID:      room.ID,
	}
	layout.Items[item.ID] = item
}

func (g *Generator) roomName() string {
	adj := g.content.RoomNames.Adjectives[g.rng.Intn(len(g.content.RoomNames.Adjectives))]
	noun := g.content.RoomNames.Nouns[g.rng.Intn(len(g.content.RoomNames.Nouns))]
	return titleCaser.String(adj + " " + noun)
}

func (g *Generator) roomDescription(room *game.Room) string {
	return fmt.Sprintf("You stand in a %s. The air is stale and the walls drip with age.",
		room.Name)
}
