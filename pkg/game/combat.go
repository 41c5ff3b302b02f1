package game

import "math/rand"

// Combat tuning constants.
const (
	d20Sides          = 20
	d6Sides           = 6
	baseDefense       = 10
	criticalThreshold = 5 // d6 roll of 5+ is a critical
	minDamage         = 1
)

// AttackResult is the outcome of a single attack within an exchange.
// RemainingHP is the target's HP immediately after this attack; the
// frontend uses it to animate health bars.
type AttackResult struct {
	AttackerName string `json:"attackerName"`
	TargetName   string `json:"targetName"`
	Damage       int    `json:"damage"`
	WasHit       bool   `json:"wasHit"`
	WasCritical  bool   `json:"wasCritical"`
	RemainingHP  int    `json:"remainingHp"`
}

// CombatResult is one full attack exchange. EnemyAttack is absent when the
// player's attack defeated the enemy.
type CombatResult struct {
	PlayerAttack  *AttackResult `json:"playerAttack,omitempty"`
	EnemyAttack   *AttackResult `json:"enemyAttack,omitempty"`
	EnemyDefeated bool          `json:"enemyDefeated"`
	PlayerDied    bool          `json:"playerDied"`
}

// Resolver rolls combat exchanges. All randomness flows through the single
// roll function, so a fixed seed makes every exchange reproducible.
type Resolver struct {
	roll func(sides int) int
}

// NewResolver creates a resolver seeded for reproducible rolls.
func NewResolver(seed int64) *Resolver {
	rng := rand.New(rand.NewSource(seed))
	return &Resolver{roll: func(sides int) int { return rng.Intn(sides) + 1 }}
}

// Resolve executes one attack exchange between the character and a living
// monster. Ordering is a rule, not an accident: the player strikes first,
// and a defeated enemy never retaliates, so the player cannot die in the
// same exchange that defeats the monster.
func (r *Resolver) Resolve(c *Character, m *Monster, weaponBonus, armorBonus int) *CombatResult {
	result := &CombatResult{}

	// Player attack: d20 + dex/2 against base defense. Damage is d6 +
	// str/2 + weapon bonus; a critical doubles the die contribution.
	attack := &AttackResult{AttackerName: c.Name, TargetName: m.Name}
	if r.roll(d20Sides)+c.Dexterity/2 >= baseDefense {
		die := r.roll(d6Sides)
		attack.WasHit = true
		attack.WasCritical = die >= criticalThreshold
		if attack.WasCritical {
			die *= 2
		}
		damage := die + c.Strength/2 + weaponBonus
		if damage < minDamage {
			damage = minDamage
		}
		attack.Damage = damage
		m.TakeDamage(damage)
	}
	attack.RemainingHP = m.HP
	result.PlayerAttack = attack

	if m.IsDefeated() {
		result.EnemyDefeated = true
		return result
	}

	// Enemy retaliation: d20 against 10 + dex/2 + armor bonus. Damage is
	// the monster's base damage with d6 variance (-2..+3), doubled die
	// contribution on a critical, minimum 1.
	retaliation := &AttackResult{AttackerName: m.Name, TargetName: c.Name}
	if r.roll(d20Sides) >= baseDefense+c.Dexterity/2+armorBonus {
		die := r.roll(d6Sides)
		retaliation.WasHit = true
		retaliation.WasCritical = die >= criticalThreshold
		if retaliation.WasCritical {
			die *= 2
		}
		damage := m.Damage + die - 3
		if damage < minDamage {
			damage = minDamage
		}
		retaliation.Damage = damage
		c.TakeDamage(damage)
	}
	retaliation.RemainingHP = c.HP
	result.EnemyAttack = retaliation
	result.PlayerDied = !c.IsAlive

	return result
}
