package game

import "github.com/google/uuid"

// Character status labels derived from the HP ratio.
const (
	StatusHealthy  = "Healthy"
	StatusWounded  = "Wounded"
	StatusCritical = "Critical"
	StatusDead     = "Dead"
)

// Starting stats for a freshly created character.
const (
	baseHP        = 30
	baseStrength  = 10
	baseDexterity = 10
)

// Character is the player character for one session.
type Character struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	HP        int    `json:"hp"`
	MaxHP     int    `json:"max_hp"`
	Strength  int    `json:"strength"`
	Dexterity int    `json:"dexterity"`
	IsAlive   bool   `json:"is_alive"`
	RoomID    string `json:"room_id"`

	// Equipment slots hold item IDs; empty means nothing equipped.
	WeaponID string `json:"weapon_id,omitempty"`
	ArmorID  string `json:"armor_id,omitempty"`
}

// NewCharacter creates a character with base stats.
func NewCharacter(name string) *Character {
	return &Character{
		ID:        uuid.New().String(),
		Name:      name,
		HP:        baseHP,
		MaxHP:     baseHP,
		Strength:  baseStrength,
		Dexterity: baseDexterity,
		IsAlive:   true,
	}
}

// TakeDamage reduces HP, clamped at 0. Reaching 0 kills the character.
func (c *Character) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	c.HP -= n
	if c.HP <= 0 {
		c.HP = 0
		c.IsAlive = false
	}
}

// Heal restores HP, clamped at MaxHP. Returns the amount actually restored.
func (c *Character) Heal(n int) int {
	if n <= 0 || !c.IsAlive {
		return 0
	}
	before := c.HP
	c.HP += n
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	return c.HP - before
}

// Status classifies the character by HP ratio: above two thirds Healthy,
// above one third Wounded, above zero Critical, at zero Dead.
func (c *Character) Status() string {
	switch {
	case c.HP <= 0:
		return StatusDead
	case c.HP*3 > c.MaxHP*2:
		return StatusHealthy
	case c.HP*3 > c.MaxHP:
		return StatusWounded
	default:
		return StatusCritical
	}
}
