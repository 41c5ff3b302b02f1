package game

// Monster is a hostile creature occupying a room.
type Monster struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	HP          int    `json:"hp"`
	MaxHP       int    `json:"max_hp"`
	Damage      int    `json:"damage"`
	RoomID      string `json:"room_id"`
	IsAlive     bool   `json:"is_alive"`
}

// TakeDamage reduces the monster's HP, clamped at 0.
// A monster at 0 HP is defeated and never attacks again.
func (m *Monster) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	m.HP -= n
	if m.HP <= 0 {
		m.HP = 0
		m.IsAlive = false
	}
}

// IsDefeated reports whether the monster has been reduced to 0 HP.
func (m *Monster) IsDefeated() bool {
	return m.HP <= 0
}
