// Package snapshot projects internal session state into the response shape
// the frontend consumes. Everything here is a pure function of the session:
// derived labels (threat, atmosphere, phase) are computed at serialization
// time and never stored, and the map grid is rebuilt from scratch on every
// call so it cannot drift from the visited set.
package snapshot

import "github.com/dungeonforge/crawl-engine/pkg/game"

// Threat levels of a monster relative to the character.
const (
	ThreatTrivial   = "trivial"
	ThreatNormal    = "normal"
	ThreatDangerous = "dangerous"
	ThreatDeadly    = "deadly"
)

// Room atmospheres.
const (
	AtmosphereSafe       = "safe"
	AtmosphereTense      = "tense"
	AtmosphereDangerous  = "dangerous"
	AtmosphereMysterious = "mysterious"
	AtmosphereOminous    = "ominous"
)

// Game phases by Manhattan distance from the entrance.
const (
	PhaseEarly = "early_game"
	PhaseMid   = "mid_game"
	PhaseLate  = "late_game"
	PhaseExit  = "exit"
)

// Map cell statuses.
const (
	CellUnknown  = "unknown"
	CellVisited  = "visited"
	CellCurrent  = "current"
	CellAdjacent = "adjacent"
	CellExit     = "exit"
)

// CharacterView is the frontend-facing character state.
type CharacterView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	HP        int    `json:"hp"`
	MaxHP     int    `json:"maxHp"`
	Strength  int    `json:"strength"`
	Dexterity int    `json:"dexterity"`
	IsAlive   bool   `json:"isAlive"`
	Status    string `json:"status"`
}

// RoomView is the frontend-facing view of a room.
type RoomView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	IsEntrance   bool     `json:"isEntrance"`
	IsExit       bool     `json:"isExit"`
	X            int      `json:"x"`
	Y            int      `json:"y"`
	Exits        []string `json:"exits"`
	Atmosphere   string   `json:"atmosphere"`
	IsFirstVisit bool     `json:"isFirstVisit"`
}

// MonsterView is the frontend-facing view of a monster.
type MonsterView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	HP          int    `json:"hp"`
	MaxHP       int    `json:"maxHp"`
	Damage      int    `json:"damage"`
	Threat      string `json:"threat"`
	IsDefeated  bool   `json:"isDefeated"`
}

// ItemView is the frontend-facing view of an item.
type ItemView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Damage      int    `json:"damage,omitempty"`
	Armor       int    `json:"armor,omitempty"`
	Healing     int    `json:"healing,omitempty"`
	Rarity      string `json:"rarity"`
	IsEquipped  bool   `json:"isEquipped"`
	IsNew       bool   `json:"isNew,omitempty"`
}

// EquipmentView shows the occupied equipment slots.
type EquipmentView struct {
	Weapon *ItemView `json:"weapon,omitempty"`
	Armor  *ItemView `json:"armor,omitempty"`
}

// MapCell is one cell of the discovery grid.
type MapCell struct {
	X         int      `json:"x"`
	Y         int      `json:"y"`
	RoomID    string   `json:"roomId,omitempty"`
	Status    string   `json:"status"`
	HasPlayer bool     `json:"hasPlayer"`
	Exits     []string `json:"exits,omitempty"`
}

// Context describes game progression for presentation hints.
type Context struct {
	Phase             string  `json:"phase"`
	TurnsInRoom       int     `json:"turnsInRoom"`
	ConsecutiveCombat int     `json:"consecutiveCombat"`
	ExplorationPct    float64 `json:"explorationPct"`
}

// Snapshot is the complete externally visible game state. Fields beyond
// the core block are omitted, not null-filled, when the action that
// produced this snapshot did not touch them.
type Snapshot struct {
	Character      *CharacterView       `json:"character,omitempty"`
	CurrentRoom    *RoomView            `json:"currentRoom,omitempty"`
	Monsters       []*MonsterView       `json:"monsters,omitempty"`
	RoomItems      []*ItemView          `json:"roomItems,omitempty"`
	Inventory      []*ItemView          `json:"inventory,omitempty"`
	Equipment      *EquipmentView       `json:"equipment,omitempty"`
	MapGrid        [][]MapCell          `json:"mapGrid,omitempty"`
	GameOver       bool                 `json:"gameOver"`
	Victory        bool                 `json:"victory"`
	TurnNumber     int                  `json:"turnNumber"`
	Message        string               `json:"message,omitempty"`
	Event          *game.EventInfo      `json:"event,omitempty"`
	CombatResult   *game.CombatResult   `json:"combatResult,omitempty"`
	InventoryDelta *game.InventoryDelta `json:"inventoryDelta,omitempty"`
	Context        *Context             `json:"context,omitempty"`
}

// Threat classifies a monster against the character by how hard it hits
// relative to the character's HP and how many turns it takes to kill.
func Threat(m *game.Monster, c *game.Character) string {
	if m == nil || c == nil || c.HP == 0 {
		return ThreatNormal
	}
	hitRatio := float64(m.Damage) / float64(c.HP)
	perTurn := float64(c.Strength)/2 + 3.5 // average d6
	turnsToKill := float64(m.HP) / perTurn

	switch {
	case hitRatio >= 0.5 || turnsToKill >= 8:
		return ThreatDeadly
	case hitRatio >= 0.3 || turnsToKill >= 5:
		return ThreatDangerous
	case hitRatio < 0.1 && turnsToKill < 2:
		return ThreatTrivial
	default:
		return ThreatNormal
	}
}

// Atmosphere derives a room's mood from its monsters and its distance
// from the entrance.
func Atmosphere(room *game.Room, monsters []*game.Monster, c *game.Character) string {
	distance := room.Distance()

	if len(monsters) == 0 {
		switch {
		case distance <= 1:
			return AtmosphereSafe
		case distance >= 6:
			return AtmosphereMysterious
		default:
			return AtmosphereTense
		}
	}

	for _, m := range monsters {
		if t := Threat(m, c); t == ThreatDangerous || t == ThreatDeadly {
			if distance >= 6 {
				return AtmosphereOminous
			}
			return AtmosphereDangerous
		}
	}
	return AtmosphereTense
}

// Phase maps the current room to a game phase: distance 0-2 early, 3-5
// mid, 6-7 late, and the exit room itself is the exit phase.
func Phase(room *game.Room) string {
	if room == nil {
		return PhaseEarly
	}
	if room.IsExit {
		return PhaseExit
	}
	switch d := room.Distance(); {
	case d <= 2:
		return PhaseEarly
	case d <= 5:
		return PhaseMid
	default:
		return PhaseLate
	}
}

// Grid rebuilds the discovery grid from the visited set, the room graph
// and the player position. Cell status precedence: the player's room is
// current; the exit shows as exit once visited or adjacent; then visited,
// adjacent, unknown.
func Grid(s *game.Session) [][]MapCell {
	size := s.GridSize
	if size == 0 {
		return nil
	}

	adjacent := make(map[string]bool)
	for id, visited := range s.Visited {
		if !visited {
			continue
		}
		for _, next := range s.Rooms[id].Exits {
			if !s.Visited[next] {
				adjacent[next] = true
			}
		}
	}

	current := ""
	if s.Character != nil {
		current = s.Character.RoomID
	}

	grid := make([][]MapCell, size)
	for y := 0; y < size; y++ {
		grid[y] = make([]MapCell, size)
		for x := 0; x < size; x++ {
			cell := MapCell{X: x, Y: y, Status: CellUnknown}
			room := s.RoomAt(x, y)
			if room != nil {
				switch {
				case room.ID == current:
					cell.Status = CellCurrent
					cell.HasPlayer = true
				case room.IsExit && (s.Visited[room.ID] || adjacent[room.ID]):
					cell.Status = CellExit
				case s.Visited[room.ID]:
					cell.Status = CellVisited
				case adjacent[room.ID]:
					cell.Status = CellAdjacent
				}
				if cell.Status != CellUnknown {
					cell.RoomID = room.ID
					cell.Exits = room.ExitDirections()
				}
			}
			grid[y][x] = cell
		}
	}
	return grid
}

func itemView(it *game.Item, isNew bool) *ItemView {
	return &ItemView{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Type:        it.Type,
		Damage:      it.Damage,
		Armor:       it.Armor,
		Healing:     it.Healing,
		Rarity:      it.Rarity,
		IsEquipped:  it.IsEquipped,
		IsNew:       isNew,
	}
}

// Build projects a session into the full snapshot. The message is set by
// the caller, which owns the human-readable narration.
func Build(s *game.Session) *Snapshot {
	if !s.HasGame() {
		return nil
	}

	snap := &Snapshot{
		GameOver:   s.GameOver,
		Victory:    s.Victory,
		TurnNumber: s.TurnNumber,
	}

	c := s.Character
	snap.Character = &CharacterView{
		ID:        c.ID,
		Name:      c.Name,
		HP:        c.HP,
		MaxHP:     c.MaxHP,
		Strength:  c.Strength,
		Dexterity: c.Dexterity,
		IsAlive:   c.IsAlive,
		Status:    c.Status(),
	}

	room := s.CurrentRoom()
	if room != nil {
		monsters := s.AliveMonsters(room.ID)

		firstVisit := false
		if s.Turn != nil {
			firstVisit = s.Turn.FirstVisit
		}
		snap.CurrentRoom = &RoomView{
			ID:           room.ID,
			Name:         room.Name,
			Description:  room.Description,
			IsEntrance:   room.IsEntrance,
			IsExit:       room.IsExit,
			X:            room.X,
			Y:            room.Y,
			Exits:        room.ExitDirections(),
			Atmosphere:   Atmosphere(room, monsters, c),
			IsFirstVisit: firstVisit,
		}

		snap.Monsters = make([]*MonsterView, 0, len(monsters))
		for _, m := range monsters {
			snap.Monsters = append(snap.Monsters, &MonsterView{
				ID:          m.ID,
				Name:        m.Name,
				Description: m.Description,
				HP:          m.HP,
				MaxHP:       m.MaxHP,
				Damage:      m.Damage,
				Threat:      Threat(m, c),
				IsDefeated:  m.IsDefeated(),
			})
		}

		roomItems := s.RoomItems(room.ID)
		snap.RoomItems = make([]*ItemView, 0, len(roomItems))
		for _, it := range roomItems {
			snap.RoomItems = append(snap.RoomItems, itemView(it, s.Turn.IsNewItem(it.ID)))
		}
	}

	inventory := s.Inventory()
	snap.Inventory = make([]*ItemView, 0, len(inventory))
	for _, it := range inventory {
		snap.Inventory = append(snap.Inventory, itemView(it, s.Turn.IsNewItem(it.ID)))
	}

	snap.Equipment = &EquipmentView{}
	if w := s.EquippedWeapon(); w != nil {
		snap.Equipment.Weapon = itemView(w, false)
	}
	if a := s.EquippedArmor(); a != nil {
		snap.Equipment.Armor = itemView(a, false)
	}

	snap.MapGrid = Grid(s)

	snap.Context = &Context{
		Phase:             Phase(room),
		TurnsInRoom:       s.TurnsInRoom,
		ConsecutiveCombat: s.ConsecutiveCombat,
		ExplorationPct:    s.ExplorationPct(),
	}

	if s.Turn != nil {
		snap.Event = s.Turn.Event
		snap.CombatResult = s.Turn.CombatResult
		snap.InventoryDelta = s.Turn.InventoryDelta
	}

	return snap
}
