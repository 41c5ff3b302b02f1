package game

// Event types and subtypes reported to the frontend after each action.
const (
	EventCombat      = "combat"
	EventDiscovery   = "discovery"
	EventMovement    = "movement"
	EventInteraction = "interaction"
	EventDeath       = "death"
	EventVictory     = "victory"
)

// EventInfo is structured metadata about the last game event.
type EventInfo struct {
	Type     string   `json:"type"`
	Subtype  string   `json:"subtype"`
	Entities []string `json:"entities,omitempty"`
}

// InventoryDelta records inventory changes produced by the current action.
type InventoryDelta struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	Used    []string `json:"used,omitempty"`
}

// TurnContext holds per-action results that feed the snapshot for exactly
// one response and are reset at the start of the next mutating action.
// It is deliberately not persisted.
type TurnContext struct {
	Event          *EventInfo
	CombatResult   *CombatResult
	InventoryDelta *InventoryDelta
	FirstVisit     bool
	NewItems       []string
}

// IsNewItem reports whether the item entered the inventory this turn.
func (tc *TurnContext) IsNewItem(itemID string) bool {
	if tc == nil {
		return false
	}
	for _, id := range tc.NewItems {
		if id == itemID {
			return true
		}
	}
	return false
}
