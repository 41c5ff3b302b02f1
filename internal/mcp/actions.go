package mcp

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dungeonforge/crawl-engine/pkg/dungeon"
	"github.com/dungeonforge/crawl-engine/pkg/game"
	"github.com/dungeonforge/crawl-engine/pkg/snapshot"
)

const defaultPlayerName = "Hero"

var nameCaser = cases.Title(language.English)

// newGame discards whatever the session held and starts a fresh dungeon.
// This is the only tool that works on ended or empty sessions.
func (s *Server) newGame(sessionID uuid.UUID, args map[string]any) (*game.Session, string) {
	name := argString(args, "character_name")
	if name == "" {
		name = defaultPlayerName
	} else {
		name = nameCaser.String(name)
	}

	seed, ok := argInt64(args, "seed")
	if !ok {
		seed = time.Now().UnixNano()
	}

	layout := dungeon.New(seed, s.content).Generate()

	sess := game.NewSession(sessionID)
	sess.Rooms = layout.Rooms
	sess.Monsters = layout.Monsters
	sess.Items = layout.Items
	sess.GridSize = layout.GridSize
	sess.Seed = layout.Seed
	sess.Character = game.NewCharacter(name)
	sess.Character.RoomID = layout.EntranceID
	sess.Visited[layout.EntranceID] = true
	sess.Turn = &game.TurnContext{
		Event:      &game.EventInfo{Type: game.EventDiscovery, Subtype: "game_started"},
		FirstVisit: true,
	}

	entrance := sess.Rooms[layout.EntranceID]
	msg := fmt.Sprintf("Welcome, %s. %s\n\n%s", name, entrance.Description, roomReport(sess, entrance))
	return sess, msg
}

func (s *Server) look(sess *game.Session) (string, error) {
	if !sess.Active() {
		return "", game.ErrNoActiveGame
	}
	room := sess.CurrentRoom()
	return fmt.Sprintf("%s\n%s\n\n%s", room.Name, room.Description, roomReport(sess, room)), nil
}

func (s *Server) move(sess *game.Session, args map[string]any) (string, error) {
	direction := strings.ToLower(argString(args, "direction"))
	room, first, err := sess.Move(direction)
	if err != nil {
		return "", err
	}

	sess.Turn.FirstVisit = first

	if room.IsExit {
		sess.Turn.Event = &game.EventInfo{Type: game.EventVictory, Subtype: "dungeon_escaped"}
		return fmt.Sprintf("You move %s into the %s.\n\n%s\n\nYou escaped the dungeon! Victory!",
			direction, room.Name, room.Description), nil
	}

	subtype := "room_entered"
	if first {
		subtype = "new_room"
		sess.Turn.Event = &game.EventInfo{Type: game.EventDiscovery, Subtype: subtype, Entities: []string{room.Name}}
	} else {
		sess.Turn.Event = &game.EventInfo{Type: game.EventMovement, Subtype: subtype, Entities: []string{room.Name}}
	}

	return fmt.Sprintf("You move %s into the %s.\n%s\n\n%s",
		direction, room.Name, room.Description, roomReport(sess, room)), nil
}

func (s *Server) attack(sess *game.Session, args map[string]any) (string, error) {
	m, err := s.resolveMonster(sess, argString(args, "target_id"))
	if err != nil {
		return "", err
	}

	sess.BeginCombatTurn()
	resolver := game.NewResolver(sess.Seed + int64(sess.TurnNumber))
	result := resolver.Resolve(sess.Character, m, sess.WeaponBonus(), sess.ArmorBonus())
	sess.Turn.CombatResult = result
	sess.Turn.Event = &game.EventInfo{Type: game.EventCombat, Subtype: "attack", Entities: []string{m.Name}}

	var b strings.Builder
	pa := result.PlayerAttack
	switch {
	case pa.WasCritical:
		fmt.Fprintf(&b, "Critical hit! You strike the %s for %d damage!", m.Name, pa.Damage)
	case pa.WasHit:
		fmt.Fprintf(&b, "You hit the %s for %d damage.", m.Name, pa.Damage)
	default:
		fmt.Fprintf(&b, "You swing at the %s and miss.", m.Name)
	}

	if result.EnemyDefeated {
		sess.Turn.Event.Subtype = "monster_defeated"
		fmt.Fprintf(&b, "\nThe %s is defeated!", m.Name)
		if remaining := len(sess.AliveMonsters(sess.Character.RoomID)); remaining == 0 {
			b.WriteString(" The room falls silent.")
		}
		return b.String(), nil
	}

	ea := result.EnemyAttack
	if ea.WasHit {
		fmt.Fprintf(&b, "\nThe %s strikes back for %d damage.", m.Name, ea.Damage)
	} else {
		fmt.Fprintf(&b, "\nThe %s lashes out but misses.", m.Name)
	}

	if result.PlayerDied {
		sess.EndGame()
		sess.Turn.Event = &game.EventInfo{Type: game.EventDeath, Subtype: "player_died", Entities: []string{m.Name}}
		fmt.Fprintf(&b, "\n\nThe %s strikes you down. Your adventure ends here.", m.Name)
	}
	return b.String(), nil
}

func (s *Server) take(sess *game.Session, args map[string]any) (string, error) {
	it, err := s.resolveItem(sess, argString(args, "item_id"), sess.RoomItems(currentRoomID(sess)))
	if err != nil {
		return "", err
	}
	if _, err := sess.Take(it.ID); err != nil {
		return "", err
	}
	sess.Turn.Event = &game.EventInfo{Type: game.EventInteraction, Subtype: "item_taken", Entities: []string{it.Name}}
	sess.Turn.InventoryDelta = &game.InventoryDelta{Added: []string{it.Name}}
	sess.Turn.NewItems = []string{it.ID}
	return fmt.Sprintf("You pick up the %s.", it.Name), nil
}

func (s *Server) use(sess *game.Session, args map[string]any) (string, error) {
	it, err := s.resolveItem(sess, argString(args, "item_id"), sess.Inventory())
	if err != nil {
		return "", err
	}
	used, healed, err := sess.Use(it.ID)
	if err != nil {
		return "", err
	}
	sess.Turn.Event = &game.EventInfo{Type: game.EventInteraction, Subtype: "item_used", Entities: []string{used.Name}}
	sess.Turn.InventoryDelta = &game.InventoryDelta{Used: []string{used.Name}}

	if healed == 0 {
		return fmt.Sprintf("You use the %s, but you are already at full health.", used.Name), nil
	}
	return fmt.Sprintf("You use the %s and recover %d HP. You are at %d/%d.",
		used.Name, healed, sess.Character.HP, sess.Character.MaxHP), nil
}

func (s *Server) equip(sess *game.Session, args map[string]any) (string, error) {
	it, err := s.resolveItem(sess, argString(args, "item_id"), sess.Inventory())
	if err != nil {
		return "", err
	}
	equipped, previous, err := sess.Equip(it.ID)
	if err != nil {
		return "", err
	}
	sess.Turn.Event = &game.EventInfo{Type: game.EventInteraction, Subtype: "item_equipped", Entities: []string{equipped.Name}}

	if previous != nil {
		return fmt.Sprintf("You equip the %s and stow the %s.", equipped.Name, previous.Name), nil
	}
	return fmt.Sprintf("You equip the %s.", equipped.Name), nil
}

func (s *Server) inventory(sess *game.Session) (string, error) {
	if !sess.Active() {
		return "", game.ErrNoActiveGame
	}
	items := sess.Inventory()
	if len(items) == 0 {
		return "Your pack is empty.", nil
	}

	var b strings.Builder
	b.WriteString("You are carrying:")
	for _, it := range items {
		fmt.Fprintf(&b, "\n- %s", itemLine(it))
	}
	return b.String(), nil
}

func (s *Server) stats(sess *game.Session) (string, error) {
	if !sess.Active() {
		return "", game.ErrNoActiveGame
	}
	c := sess.Character
	var b strings.Builder
	fmt.Fprintf(&b, "%s the adventurer\n", c.Name)
	fmt.Fprintf(&b, "HP: %d/%d (%s)\n", c.HP, c.MaxHP, c.Status())
	fmt.Fprintf(&b, "Strength: %d  Dexterity: %d\n", c.Strength, c.Dexterity)
	if w := sess.EquippedWeapon(); w != nil {
		fmt.Fprintf(&b, "Weapon: %s (+%d damage)\n", w.Name, w.Damage)
	} else {
		b.WriteString("Weapon: bare hands\n")
	}
	if a := sess.EquippedArmor(); a != nil {
		fmt.Fprintf(&b, "Armor: %s (+%d defense)\n", a.Name, a.Armor)
	} else {
		b.WriteString("Armor: none\n")
	}
	fmt.Fprintf(&b, "Turn %d, %.0f%% of the dungeon explored.", sess.TurnNumber, sess.ExplorationPct())
	return b.String(), nil
}

// dungeonMap renders the discovery grid as text, one row per line with the
// top of the map (highest y) first.
func (s *Server) dungeonMap(sess *game.Session) (string, error) {
	if !sess.Active() {
		return "", game.ErrNoActiveGame
	}
	grid := snapshot.Grid(sess)

	var b strings.Builder
	b.WriteString("Dungeon map:\n")
	for y := len(grid) - 1; y >= 0; y-- {
		for x := range grid[y] {
			switch grid[y][x].Status {
			case snapshot.CellCurrent:
				b.WriteString("[@]")
			case snapshot.CellExit:
				b.WriteString("[E]")
			case snapshot.CellVisited:
				b.WriteString("[#]")
			case snapshot.CellAdjacent:
				b.WriteString("[?]")
			default:
				b.WriteString(" . ")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("@ you, # explored, ? unexplored exit, E dungeon exit")
	return b.String(), nil
}

func currentRoomID(sess *game.Session) string {
	if sess.Character == nil {
		return ""
	}
	return sess.Character.RoomID
}

// resolveMonster accepts a monster id or a case-insensitive name and
// returns a living monster in the current room.
func (s *Server) resolveMonster(sess *game.Session, ref string) (*game.Monster, error) {
	if !sess.Active() {
		return nil, game.ErrNoActiveGame
	}
	if m, err := sess.MonsterTarget(ref); err == nil {
		return m, nil
	}
	for _, m := range sess.AliveMonsters(sess.Character.RoomID) {
		if strings.EqualFold(m.Name, ref) {
			return m, nil
		}
	}
	return nil, game.ErrUnknownTarget
}

// resolveItem accepts an item id or a case-insensitive name, looked up in
// the given pool (room floor or inventory).
func (s *Server) resolveItem(sess *game.Session, ref string, pool []*game.Item) (*game.Item, error) {
	if !sess.Active() {
		return nil, game.ErrNoActiveGame
	}
	for _, it := range pool {
		if it.ID == ref {
			return it, nil
		}
	}
	for _, it := range pool {
		if strings.EqualFold(it.Name, ref) {
			return it, nil
		}
	}
	return nil, game.ErrUnknownItem
}

// roomReport lists a room's monsters, floor items and exits.
func roomReport(sess *game.Session, room *game.Room) string {
	var b strings.Builder

	monsters := sess.AliveMonsters(room.ID)
	if len(monsters) > 0 {
		b.WriteString("Enemies here:")
		for _, m := range monsters {
			fmt.Fprintf(&b, "\n- %s (%d/%d HP): %s", m.Name, m.HP, m.MaxHP, m.Description)
		}
		b.WriteString("\n")
	}

	items := sess.RoomItems(room.ID)
	if len(items) > 0 {
		b.WriteString("On the floor:")
		for _, it := range items {
			fmt.Fprintf(&b, "\n- %s", itemLine(it))
		}
		b.WriteString("\n")
	}

	dirs := room.ExitDirections()
	sort.Strings(dirs)
	fmt.Fprintf(&b, "Exits lead %s.", strings.Join(dirs, ", "))
	return b.String()
}

func itemLine(it *game.Item) string {
	var traits []string
	switch {
	case it.Damage > 0:
		traits = append(traits, fmt.Sprintf("+%d damage", it.Damage))
	case it.Armor > 0:
		traits = append(traits, fmt.Sprintf("+%d defense", it.Armor))
	case it.Healing > 0:
		traits = append(traits, fmt.Sprintf("heals %d", it.Healing))
	}
	if it.IsEquipped {
		traits = append(traits, "equipped")
	}
	if len(traits) == 0 {
		return fmt.Sprintf("%s (%s)", it.Name, it.Rarity)
	}
	return fmt.Sprintf("%s (%s, %s)", it.Name, it.Rarity, strings.Join(traits, ", "))
}
