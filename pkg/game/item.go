package game

// Item types recognized by the engine.
const (
	ItemWeapon     = "weapon"
	ItemArmor      = "armor"
	ItemConsumable = "consumable"
	ItemKey        = "key"
	ItemTreasure   = "treasure"
)

// Item rarities, in ascending order.
const (
	RarityCommon    = "common"
	RarityUncommon  = "uncommon"
	RarityRare      = "rare"
	RarityLegendary = "legendary"
)

// Item is an object that lives in exactly one place at a time: a room's
// floor (RoomID set), the character's pack (Carried), or an equipment slot
// (Carried with IsEquipped).
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Damage      int    `json:"damage,omitempty"`
	Armor       int    `json:"armor,omitempty"`
	Healing     int    `json:"healing,omitempty"`
	Rarity      string `json:"rarity"`
	RoomID      string `json:"room_id,omitempty"`
	Carried     bool   `json:"carried,omitempty"`
	IsEquipped  bool   `json:"is_equipped,omitempty"`
}

// Equippable reports whether the item can occupy an equipment slot.
func (i *Item) Equippable() bool {
	return i.Type == ItemWeapon || i.Type == ItemArmor
}
