// Command validate checks a dungeon content pack before it ships.
// Structural problems (LoadContent already rejects those) are fatal;
// balance problems are reported as warnings.
package main

import (
	"fmt"
	"os"

	"github.com/dungeonforge/crawl-engine/pkg/dungeon"
	"github.com/dungeonforge/crawl-engine/pkg/game"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <content.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	fmt.Printf("Validating %s...\n", filename)

	content, err := dungeon.LoadContent(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	for _, warning := range lintContent(content) {
		fmt.Printf("  warning: %s\n", warning)
	}

	fmt.Printf("Content pack is valid: %d monsters, %d items, %d room names.\n",
		len(content.Monsters), len(content.Items),
		len(content.RoomNames.Adjectives)*len(content.RoomNames.Nouns))
}

// lintContent flags balance issues a pack author probably wants to know
// about but that the engine tolerates.
func lintContent(c *dungeon.Content) []string {
	var warnings []string

	hasStarter := false
	for _, m := range c.Monsters {
		if m.MinDistance == 0 {
			hasStarter = true
		}
		if m.MinDistance > 2*(dungeon.GridSize-1) {
			warnings = append(warnings,
				fmt.Sprintf("monster %q can never spawn: min_distance %d exceeds the deepest room", m.Name, m.MinDistance))
		}
		if m.Damage >= 15 {
			warnings = append(warnings,
				fmt.Sprintf("monster %q hits for %d, which can kill a fresh character in two blows", m.Name, m.Damage))
		}
	}
	if !hasStarter {
		warnings = append(warnings, "no monster with min_distance 0; rooms near the entrance will be empty")
	}

	hasPotion := false
	for _, it := range c.Items {
		if it.Type == game.ItemConsumable && it.MinDistance == 0 {
			hasPotion = true
		}
		if it.MinDistance > 2*(dungeon.GridSize-1) {
			warnings = append(warnings,
				fmt.Sprintf("item %q can never spawn: min_distance %d exceeds the deepest room", it.Name, it.MinDistance))
		}
		switch it.Type {
		case game.ItemWeapon:
			if it.Damage == 0 {
				warnings = append(warnings, fmt.Sprintf("weapon %q has no damage bonus", it.Name))
			}
		case game.ItemArmor:
			if it.Armor == 0 {
				warnings = append(warnings, fmt.Sprintf("armor %q has no defense bonus", it.Name))
			}
		case game.ItemConsumable:
			if it.Healing == 0 {
				warnings = append(warnings, fmt.Sprintf("consumable %q heals nothing", it.Name))
			}
		}
	}
	if !hasPotion {
		warnings = append(warnings, "no consumable with min_distance 0; the starting potion falls back to the first item")
	}

	return warnings
}
