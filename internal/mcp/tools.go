package mcp

// Tool describes one callable tool for GET /mcp/tools. InputSchema is a
// JSON Schema fragment describing the arguments object.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// ListTools returns the full tool catalog. The order is stable so clients
// can render it directly.
func ListTools() []Tool {
	return []Tool{
		{
			Name:        "new_game",
			Description: "Start a new game with a fresh dungeon. Replaces any game in progress.",
			InputSchema: objectSchema(map[string]any{
				"character_name": map[string]any{
					"type":        "string",
					"description": "Name for the player character. Defaults to Hero.",
				},
				"seed": map[string]any{
					"type":        "integer",
					"description": "Dungeon generation seed. Random when omitted.",
				},
			}),
		},
		{
			Name:        "look",
			Description: "Describe the current room: monsters, items and exits. Does not advance the turn.",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "move",
			Description: "Move through an exit. All monsters in the room must be defeated first.",
			InputSchema: objectSchema(map[string]any{
				"direction": map[string]any{
					"type": "string",
					"enum": []string{"north", "south", "east", "west"},
				},
			}, "direction"),
		},
		{
			Name:        "attack",
			Description: "Attack a monster in the current room. The monster strikes back if it survives.",
			InputSchema: objectSchema(map[string]any{
				"target_id": map[string]any{
					"type":        "string",
					"description": "Monster id or name.",
				},
			}, "target_id"),
		},
		{
			Name:        "take",
			Description: "Pick up an item from the floor of the current room.",
			InputSchema: objectSchema(map[string]any{
				"item_id": map[string]any{
					"type":        "string",
					"description": "Item id or name.",
				},
			}, "item_id"),
		},
		{
			Name:        "use",
			Description: "Use a consumable item from the inventory. The item is destroyed.",
			InputSchema: objectSchema(map[string]any{
				"item_id": map[string]any{
					"type":        "string",
					"description": "Item id or name.",
				},
			}, "item_id"),
		},
		{
			Name:        "equip",
			Description: "Equip a carried weapon or armor. Replaces whatever occupies the slot.",
			InputSchema: objectSchema(map[string]any{
				"item_id": map[string]any{
					"type":        "string",
					"description": "Item id or name.",
				},
			}, "item_id"),
		},
		{
			Name:        "inventory",
			Description: "List carried items and equipped gear. Does not advance the turn.",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "stats",
			Description: "Show character stats and condition. Does not advance the turn.",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "map",
			Description: "Show the dungeon map as discovered so far. Does not advance the turn.",
			InputSchema: objectSchema(map[string]any{}),
		},
	}
}
