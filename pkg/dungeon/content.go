// Package dungeon generates the room grid and its initial population of
// monsters and items for a new game.
package dungeon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dungeonforge/crawl-engine/pkg/game"
)

// MonsterTemplate is a spawnable monster type. MinDistance gates how close
// to the entrance it may appear.
type MonsterTemplate struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	HP          int    `yaml:"hp"`
	Damage      int    `yaml:"damage"`
	MinDistance int    `yaml:"min_distance"`
}

// ItemTemplate is a spawnable item type.
type ItemTemplate struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	Damage      int    `yaml:"damage,omitempty"`
	Armor       int    `yaml:"armor,omitempty"`
	Healing     int    `yaml:"healing,omitempty"`
	Rarity      string `yaml:"rarity"`
	MinDistance int    `yaml:"min_distance"`
}

// RoomNames holds the word lists room names are drawn from.
type RoomNames struct {
	Adjectives []string `yaml:"adjectives"`
	Nouns      []string `yaml:"nouns"`
}

// Content is the full content pack for dungeon generation.
type Content struct {
	RoomNames RoomNames         `yaml:"room_names"`
	Monsters  []MonsterTemplate `yaml:"monsters"`
	Items     []ItemTemplate    `yaml:"items"`
}

// DefaultContent returns the compiled-in content pack, used when no
// content file is configured.
func DefaultContent() *Content {
	return &Content{
		RoomNames: RoomNames{
			Adjectives: []string{"dark", "dusty", "ancient", "forgotten", "cursed", "silent", "echoing", "flooded"},
			Nouns:      []string{"chamber", "hall", "corridor", "vault", "crypt", "passage", "alcove", "cellar"},
		},
		Monsters: []MonsterTemplate{
			{Name: "Rat", Description: "A large, mangy rat with beady red eyes.", HP: 5, Damage: 2, MinDistance: 0},
			{Name: "Goblin", Description: "A small, green-skinned creature with a wicked grin.", HP: 10, Damage: 4, MinDistance: 1},
			{Name: "Skeleton", Description: "The animated bones of a long-dead warrior.", HP: 15, Damage: 5, MinDistance: 3},
			{Name: "Orc", Description: "A hulking brute with tusks and a massive club.", HP: 25, Damage: 8, MinDistance: 5},
		},
		Items: []ItemTemplate{
			{Name: "Health Potion", Description: "A red vial that restores health.", Type: game.ItemConsumable, Healing: 10, Rarity: game.RarityCommon, MinDistance: 0},
			{Name: "Greater Health Potion", Description: "A large red vial that restores significant health.", Type: game.ItemConsumable, Healing: 20, Rarity: game.RarityUncommon, MinDistance: 3},
			{Name: "Rusty Sword", Description: "An old sword, still sharp enough to cut.", Type: game.ItemWeapon, Damage: 3, Rarity: game.RarityCommon, MinDistance: 1},
			{Name: "Short Sword", Description: "A well-balanced blade.", Type: game.ItemWeapon, Damage: 5, Rarity: game.RarityUncommon, MinDistance: 3},
			{Name: "Leather Armor", Description: "Supple leather that turns a glancing blow.", Type: game.ItemArmor, Armor: 2, Rarity: game.RarityCommon, MinDistance: 1},
			{Name: "Chain Mail", Description: "Interlocked rings, heavy but reassuring.", Type: game.ItemArmor, Armor: 4, Rarity: game.RarityRare, MinDistance: 4},
			{Name: "Golden Idol", Description: "A small idol that gleams even in the dark.", Type: game.ItemTreasure, Rarity: game.RarityLegendary, MinDistance: 5},
		},
	}
}

// StartingItem picks the template for the entrance room's free item: the
// first consumable in the pack, or the first item when the pack has none.
func (c *Content) StartingItem() ItemTemplate {
	for _, it := range c.Items {
		if it.Type == game.ItemConsumable {
			return it
		}
	}
	return c.Items[0]
}

// LoadContent reads a content pack from a YAML file.
func LoadContent(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content pack: %w", err)
	}
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse content pack: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the pack for structural problems that would break
// generation: empty word lists, statless monsters, unknown item types.
func (c *Content) Validate() error {
	if len(c.RoomNames.Adjectives) == 0 || len(c.RoomNames.Nouns) == 0 {
		return fmt.Errorf("room_names: adjectives and nouns must not be empty")
	}
	if len(c.Monsters) == 0 {
		return fmt.Errorf("monsters: at least one template required")
	}
	for i, m := range c.Monsters {
		if m.Name == "" {
			return fmt.Errorf("monsters[%d]: name is required", i)
		}
		if m.HP <= 0 || m.Damage <= 0 {
			return fmt.Errorf("monsters[%d] %q: hp and damage must be positive", i, m.Name)
		}
	}
	if len(c.Items) == 0 {
		return fmt.Errorf("items: at least one template required")
	}
	for i, it := range c.Items {
		if it.Name == "" {
			return fmt.Errorf("items[%d]: name is required", i)
		}
		switch it.Type {
		case game.ItemWeapon, game.ItemArmor, game.ItemConsumable, game.ItemKey, game.ItemTreasure:
		default:
			return fmt.Errorf("items[%d] %q: unknown type %q", i, it.Name, it.Type)
		}
		switch it.Rarity {
		case game.RarityCommon, game.RarityUncommon, game.RarityRare, game.RarityLegendary:
		default:
			return fmt.Errorf("items[%d] %q: unknown rarity %q", i, it.Name, it.Rarity)
		}
	}
	return nil
}
