package game

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Session is one player's in-progress game: character, dungeon contents,
// discovery state and turn bookkeeping. All mutation goes through the
// action methods below, which validate fully before touching any state, so
// a rejected action leaves the session untouched.
type Session struct {
	ID        uuid.UUID          `json:"id"`
	Character *Character         `json:"character,omitempty"`
	Rooms     map[string]*Room   `json:"rooms,omitempty"`
	Monsters  map[string]*Monster `json:"monsters,omitempty"`
	Items     map[string]*Item   `json:"items,omitempty"`
	Visited   map[string]bool    `json:"visited,omitempty"`
	GridSize  int                `json:"grid_size,omitempty"`
	Seed      int64              `json:"seed,omitempty"`

	TurnNumber        int  `json:"turn_number"`
	TurnsInRoom       int  `json:"turns_in_room"`
	ConsecutiveCombat int  `json:"consecutive_combat"`
	GameOver          bool `json:"game_over"`
	Victory           bool `json:"victory"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Turn is the transient result of the action being processed. It feeds
	// the snapshot for one response only and is never persisted.
	Turn *TurnContext `json:"-"`
}

// NewSession creates an empty session with the given ID.
func NewSession(id uuid.UUID) *Session {
	return &Session{
		ID:        id,
		Rooms:     make(map[string]*Room),
		Monsters:  make(map[string]*Monster),
		Items:     make(map[string]*Item),
		Visited:   make(map[string]bool),
		CreatedAt: time.Now(),
	}
}

// HasGame reports whether a game has been started in this session.
func (s *Session) HasGame() bool {
	return s.Character != nil && len(s.Rooms) > 0
}

// Active reports whether the session accepts actions other than new_game.
func (s *Session) Active() bool {
	return s.HasGame() && !s.GameOver && !s.Victory
}

// CurrentRoom returns the room the character occupies, or nil.
func (s *Session) CurrentRoom() *Room {
	if s.Character == nil {
		return nil
	}
	return s.Rooms[s.Character.RoomID]
}

// RoomAt returns the room at grid position (x,y), or nil.
func (s *Session) RoomAt(x, y int) *Room {
	for _, r := range s.Rooms {
		if r.X == x && r.Y == y {
			return r
		}
	}
	return nil
}

// AliveMonsters returns the living monsters in a room, ordered by ID.
func (s *Session) AliveMonsters(roomID string) []*Monster {
	monsters := make([]*Monster, 0)
	for _, m := range s.Monsters {
		if m.RoomID == roomID && m.IsAlive {
			monsters = append(monsters, m)
		}
	}
	sort.Slice(monsters, func(i, j int) bool { return monsters[i].ID < monsters[j].ID })
	return monsters
}

// RoomItems returns the items on a room's floor, ordered by ID.
func (s *Session) RoomItems(roomID string) []*Item {
	items := make([]*Item, 0)
	for _, it := range s.Items {
		if !it.Carried && it.RoomID == roomID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// Inventory returns all carried items, equipped ones included, ordered by ID.
func (s *Session) Inventory() []*Item {
	items := make([]*Item, 0)
	for _, it := range s.Items {
		if it.Carried {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// EquippedWeapon returns the equipped weapon, or nil.
func (s *Session) EquippedWeapon() *Item {
	if s.Character == nil || s.Character.WeaponID == "" {
		return nil
	}
	return s.Items[s.Character.WeaponID]
}

// EquippedArmor returns the equipped armor, or nil.
func (s *Session) EquippedArmor() *Item {
	if s.Character == nil || s.Character.ArmorID == "" {
		return nil
	}
	return s.Items[s.Character.ArmorID]
}

// WeaponBonus returns the damage bonus from the equipped weapon.
func (s *Session) WeaponBonus() int {
	if w := s.EquippedWeapon(); w != nil {
		return w.Damage
	}
	return 0
}

// ArmorBonus returns the defense bonus from the equipped armor.
func (s *Session) ArmorBonus() int {
	if a := s.EquippedArmor(); a != nil {
		return a.Armor
	}
	return 0
}

// ExplorationPct returns the percentage of rooms visited so far.
func (s *Session) ExplorationPct() float64 {
	if len(s.Rooms) == 0 {
		return 0
	}
	visited := 0
	for id := range s.Rooms {
		if s.Visited[id] {
			visited++
		}
	}
	return float64(visited) / float64(len(s.Rooms)) * 100
}

// Move walks the character through an exit. The current room must be clear
// of living monsters. Returns the room entered and whether this is its
// first visit. Entering the exit room sets Victory.
func (s *Session) Move(direction string) (*Room, bool, error) {
	if !s.Active() {
		return nil, false, ErrNoActiveGame
	}
	room := s.CurrentRoom()
	nextID, ok := room.Exits[direction]
	if !ok {
		return nil, false, ErrInvalidDirection
	}
	if len(s.AliveMonsters(room.ID)) > 0 {
		return nil, false, ErrBlocked
	}

	next := s.Rooms[nextID]
	first := !s.Visited[nextID]
	s.Character.RoomID = nextID
	s.Visited[nextID] = true
	s.TurnNumber++
	s.TurnsInRoom = 0
	s.ConsecutiveCombat = 0
	if next.IsExit {
		s.Victory = true
	}
	return next, first, nil
}

// MonsterTarget resolves an attack target: the monster must exist, be in
// the current room, and still be alive. Defeated monsters leave the valid
// target set immediately.
func (s *Session) MonsterTarget(targetID string) (*Monster, error) {
	if !s.Active() {
		return nil, ErrNoActiveGame
	}
	m, ok := s.Monsters[targetID]
	if !ok || m.RoomID != s.Character.RoomID || !m.IsAlive {
		return nil, ErrUnknownTarget
	}
	return m, nil
}

// Take moves an item from the current room's floor into the inventory.
func (s *Session) Take(itemID string) (*Item, error) {
	if !s.Active() {
		return nil, ErrNoActiveGame
	}
	it, ok := s.Items[itemID]
	if !ok || it.Carried || it.RoomID != s.Character.RoomID {
		return nil, ErrUnknownItem
	}
	it.RoomID = ""
	it.Carried = true
	s.TurnNumber++
	s.TurnsInRoom++
	s.ConsecutiveCombat = 0
	return it, nil
}

// Use consumes a carried consumable and applies its healing. Returns the
// item and the HP actually restored. The item is destroyed on use.
func (s *Session) Use(itemID string) (*Item, int, error) {
	if !s.Active() {
		return nil, 0, ErrNoActiveGame
	}
	it, ok := s.Items[itemID]
	if !ok || !it.Carried {
		return nil, 0, ErrUnknownItem
	}
	if it.Type != ItemConsumable {
		return nil, 0, ErrWrongItemType
	}
	healed := s.Character.Heal(it.Healing)
	delete(s.Items, itemID)
	s.TurnNumber++
	s.TurnsInRoom++
	s.ConsecutiveCombat = 0
	return it, healed, nil
}

// Equip places a carried weapon or armor into its slot. Any previously
// equipped item of the same slot returns to the inventory unequipped.
// Returns the newly equipped item and the one it replaced (may be nil).
func (s *Session) Equip(itemID string) (*Item, *Item, error) {
	if !s.Active() {
		return nil, nil, ErrNoActiveGame
	}
	it, ok := s.Items[itemID]
	if !ok || !it.Carried {
		return nil, nil, ErrUnknownItem
	}
	if !it.Equippable() {
		return nil, nil, ErrWrongItemType
	}

	var previous *Item
	switch it.Type {
	case ItemWeapon:
		if s.Character.WeaponID != "" {
			previous = s.Items[s.Character.WeaponID]
		}
		s.Character.WeaponID = it.ID
	case ItemArmor:
		if s.Character.ArmorID != "" {
			previous = s.Items[s.Character.ArmorID]
		}
		s.Character.ArmorID = it.ID
	}
	if previous != nil {
		previous.IsEquipped = false
	}
	it.IsEquipped = true
	s.TurnNumber++
	s.TurnsInRoom++
	s.ConsecutiveCombat = 0
	return it, previous, nil
}

// BeginCombatTurn advances turn bookkeeping for an attack. Target
// validation must happen first so a rejected attack costs no turn.
func (s *Session) BeginCombatTurn() {
	s.TurnNumber++
	s.TurnsInRoom++
	s.ConsecutiveCombat++
}

// EndGame marks the session lost. GameOver and Victory are mutually
// exclusive terminal flags.
func (s *Session) EndGame() {
	s.GameOver = true
	s.Victory = false
}
