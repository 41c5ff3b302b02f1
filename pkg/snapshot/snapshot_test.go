package snapshot

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/dungeonforge/crawl-engine/pkg/game"
)

// gridSession builds a 3x3 session with the character in the center room.
// All rooms are fully connected to their neighbors; (2,2) is the exit.
func gridSession() *game.Session {
	s := game.NewSession(uuid.New())
	s.GridSize = 3

	ids := make(map[[2]int]string)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			id := uuid.NewString()
			ids[[2]int{x, y}] = id
			s.Rooms[id] = &game.Room{
				ID:    id,
				Name:  "Room",
				X:     x,
				Y:     y,
				Exits: make(map[string]string),
			}
		}
	}
	connect := func(ax, ay, bx, by int, dir string) {
		a, b := s.Rooms[ids[[2]int{ax, ay}]], s.Rooms[ids[[2]int{bx, by}]]
		a.Exits[dir] = b.ID
		b.Exits[game.Opposite(dir)] = a.ID
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if x < 2 {
				connect(x, y, x+1, y, game.East)
			}
			if y < 2 {
				connect(x, y, x, y+1, game.North)
			}
		}
	}
	s.Rooms[ids[[2]int{0, 0}]].IsEntrance = true
	s.Rooms[ids[[2]int{2, 2}]].IsExit = true

	s.Character = game.NewCharacter("Tester")
	s.Character.RoomID = ids[[2]int{1, 1}]
	s.Visited[ids[[2]int{0, 0}]] = true
	s.Visited[ids[[2]int{1, 0}]] = true
	s.Visited[ids[[2]int{1, 1}]] = true
	return s
}

func cellAt(grid [][]MapCell, x, y int) MapCell {
	return grid[y][x]
}

func TestGrid(t *testing.T) {
	s := gridSession()
	grid := Grid(s)

	t.Run("dimensions", func(t *testing.T) {
		if len(grid) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(grid))
		}
		for y, row := range grid {
			if len(row) != 3 {
				t.Fatalf("row %d has %d cells", y, len(row))
			}
		}
	})

	t.Run("statuses", func(t *testing.T) {
		if c := cellAt(grid, 1, 1); c.Status != CellCurrent || !c.HasPlayer {
			t.Errorf("player room: %+v", c)
		}
		if c := cellAt(grid, 0, 0); c.Status != CellVisited {
			t.Errorf("entrance should be visited, got %q", c.Status)
		}
		// (0,1) and (2,1) and (1,2) neighbor visited rooms but were never
		// entered themselves.
		for _, pos := range [][2]int{{0, 1}, {2, 1}, {1, 2}} {
			if c := cellAt(grid, pos[0], pos[1]); c.Status != CellAdjacent {
				t.Errorf("(%d,%d) should be adjacent, got %q", pos[0], pos[1], c.Status)
			}
		}
		if c := cellAt(grid, 2, 0); c.Status != CellAdjacent {
			t.Errorf("(2,0) neighbors visited (1,0), got %q", c.Status)
		}
		if c := cellAt(grid, 2, 2); c.Status != CellUnknown {
			t.Errorf("unseen exit must stay unknown, got %q", c.Status)
		}
	})

	t.Run("unknown cells carry no room data", func(t *testing.T) {
		c := cellAt(grid, 2, 2)
		if c.RoomID != "" || len(c.Exits) != 0 {
			t.Errorf("unknown cell leaks room data: %+v", c)
		}
	})

	t.Run("exit overrides adjacent once seen", func(t *testing.T) {
		s := gridSession()
		// Visit (2,1) so the exit at (2,2) becomes adjacent.
		s.Visited[s.RoomAt(2, 1).ID] = true
		grid := Grid(s)
		if c := cellAt(grid, 2, 2); c.Status != CellExit {
			t.Errorf("adjacent exit should show as exit, got %q", c.Status)
		}
	})

	t.Run("current overrides exit", func(t *testing.T) {
		s := gridSession()
		exit := s.RoomAt(2, 2)
		s.Character.RoomID = exit.ID
		s.Visited[exit.ID] = true
		grid := Grid(s)
		if c := cellAt(grid, 2, 2); c.Status != CellCurrent {
			t.Errorf("player standing on the exit: %q", c.Status)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		if !reflect.DeepEqual(Grid(s), Grid(s)) {
			t.Error("repeated derivation from the same session differs")
		}
	})
}

func TestThreat(t *testing.T) {
	c := game.NewCharacter("Tester") // 30 HP, str 10

	cases := []struct {
		name    string
		monster *game.Monster
		want    string
	}{
		{"rat is trivial", &game.Monster{HP: 5, Damage: 2}, ThreatTrivial},
		{"goblin is normal", &game.Monster{HP: 10, Damage: 4}, ThreatNormal},
		{"heavy hitter is dangerous", &game.Monster{HP: 10, Damage: 10}, ThreatDangerous},
		{"boss is deadly", &game.Monster{HP: 20, Damage: 15}, ThreatDeadly},
		{"huge hp pool is deadly", &game.Monster{HP: 80, Damage: 2}, ThreatDeadly},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Threat(tc.monster, c); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}

	t.Run("wounded character raises threat", func(t *testing.T) {
		wounded := game.NewCharacter("Tester")
		wounded.HP = 8
		m := &game.Monster{HP: 10, Damage: 4}
		if got := Threat(m, wounded); got != ThreatDeadly {
			t.Errorf("4 damage against 8 HP should be deadly, got %q", got)
		}
	})
}

func TestAtmosphere(t *testing.T) {
	c := game.NewCharacter("Tester")
	roomAt := func(x, y int) *game.Room { return &game.Room{X: x, Y: y} }

	cases := []struct {
		name     string
		room     *game.Room
		monsters []*game.Monster
		want     string
	}{
		{"empty entrance", roomAt(0, 0), nil, AtmosphereSafe},
		{"empty mid room", roomAt(2, 1), nil, AtmosphereTense},
		{"empty deep room", roomAt(3, 3), nil, AtmosphereMysterious},
		{"trivial monster", roomAt(1, 1), []*game.Monster{{HP: 5, Damage: 2}}, AtmosphereTense},
		{"dangerous monster", roomAt(2, 1), []*game.Monster{{HP: 10, Damage: 10}}, AtmosphereDangerous},
		{"dangerous monster deep in", roomAt(3, 3), []*game.Monster{{HP: 20, Damage: 15}}, AtmosphereOminous},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Atmosphere(tc.room, tc.monsters, c); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPhase(t *testing.T) {
	cases := []struct {
		name string
		room *game.Room
		want string
	}{
		{"entrance", &game.Room{X: 0, Y: 0}, PhaseEarly},
		{"distance two", &game.Room{X: 1, Y: 1}, PhaseEarly},
		{"distance three", &game.Room{X: 2, Y: 1}, PhaseMid},
		{"distance five", &game.Room{X: 4, Y: 1}, PhaseMid},
		{"distance six", &game.Room{X: 3, Y: 3}, PhaseLate},
		{"exit room", &game.Room{X: 4, Y: 4, IsExit: true}, PhaseExit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Phase(tc.room); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	t.Run("no game yields nil", func(t *testing.T) {
		if snap := Build(game.NewSession(uuid.New())); snap != nil {
			t.Errorf("expected nil snapshot, got %+v", snap)
		}
	})

	t.Run("core fields", func(t *testing.T) {
		s := gridSession()
		s.TurnNumber = 4
		snap := Build(s)

		if snap.Character == nil || snap.Character.Name != "Tester" {
			t.Fatalf("bad character view: %+v", snap.Character)
		}
		if snap.Character.Status != "Healthy" {
			t.Errorf("full HP should be Healthy, got %q", snap.Character.Status)
		}
		if snap.CurrentRoom == nil || snap.CurrentRoom.X != 1 || snap.CurrentRoom.Y != 1 {
			t.Fatalf("bad room view: %+v", snap.CurrentRoom)
		}
		if snap.TurnNumber != 4 {
			t.Errorf("turn number not carried: %d", snap.TurnNumber)
		}
		if snap.Context == nil || snap.Context.Phase != PhaseEarly {
			t.Errorf("bad context: %+v", snap.Context)
		}
	})

	t.Run("transient fields omitted without a turn context", func(t *testing.T) {
		s := gridSession()
		data, err := json.Marshal(Build(s))
		if err != nil {
			t.Fatal(err)
		}
		for _, field := range []string{"combatResult", "event", "inventoryDelta"} {
			if strings.Contains(string(data), field) {
				t.Errorf("field %q serialized without a value", field)
			}
		}
	})

	t.Run("turn context flows through", func(t *testing.T) {
		s := gridSession()
		item := &game.Item{ID: "loot", Name: "Rusty Sword", Type: game.ItemWeapon, Rarity: game.RarityCommon, Carried: true}
		s.Items[item.ID] = item
		s.Turn = &game.TurnContext{
			Event:          &game.EventInfo{Type: game.EventInteraction, Subtype: "item_taken"},
			InventoryDelta: &game.InventoryDelta{Added: []string{"Rusty Sword"}},
			NewItems:       []string{"loot"},
		}
		snap := Build(s)

		if snap.Event == nil || snap.Event.Type != game.EventInteraction {
			t.Errorf("event not carried: %+v", snap.Event)
		}
		if snap.InventoryDelta == nil || len(snap.InventoryDelta.Added) != 1 {
			t.Errorf("delta not carried: %+v", snap.InventoryDelta)
		}
		var found bool
		for _, it := range snap.Inventory {
			if it.ID == "loot" {
				found = true
				if !it.IsNew {
					t.Error("freshly taken item not flagged new")
				}
			}
		}
		if !found {
			t.Error("carried item missing from inventory view")
		}
	})

	t.Run("equipment slots", func(t *testing.T) {
		s := gridSession()
		sword := &game.Item{ID: "sword", Name: "Short Sword", Type: game.ItemWeapon, Damage: 5, Rarity: game.RarityUncommon, Carried: true, IsEquipped: true}
		s.Items[sword.ID] = sword
		s.Character.WeaponID = sword.ID
		snap := Build(s)

		if snap.Equipment == nil || snap.Equipment.Weapon == nil {
			t.Fatal("equipped weapon missing")
		}
		if snap.Equipment.Weapon.Damage != 5 || !snap.Equipment.Weapon.IsEquipped {
			t.Errorf("bad weapon view: %+v", snap.Equipment.Weapon)
		}
		if snap.Equipment.Armor != nil {
			t.Errorf("empty armor slot serialized: %+v", snap.Equipment.Armor)
		}
	})

	t.Run("json field names", func(t *testing.T) {
		s := gridSession()
		data, err := json.Marshal(Build(s))
		if err != nil {
			t.Fatal(err)
		}
		for _, field := range []string{`"character"`, `"currentRoom"`, `"mapGrid"`, `"turnNumber"`, `"gameOver"`, `"victory"`, `"maxHp"`, `"isAlive"`} {
			if !strings.Contains(string(data), field) {
				t.Errorf("expected field %s in payload", field)
			}
		}
	})
}
