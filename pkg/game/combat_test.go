package game

import (
	"reflect"
	"testing"
)

// scriptedResolver returns a resolver that replays the given rolls in order
// and fails the test if the exchange asks for more.
func scriptedResolver(t *testing.T, rolls ...int) *Resolver {
	t.Helper()
	i := 0
	return &Resolver{roll: func(sides int) int {
		if i >= len(rolls) {
			t.Fatalf("combat asked for roll %d, only %d scripted", i+1, len(rolls))
		}
		r := rolls[i]
		i++
		if r > sides {
			t.Fatalf("scripted roll %d exceeds d%d", r, sides)
		}
		return r
	}}
}

func combatants() (*Character, *Monster) {
	c := NewCharacter("Hero") // 30 HP, str 10, dex 10
	m := &Monster{ID: "goblin", Name: "Goblin", HP: 20, MaxHP: 20, Damage: 4, IsAlive: true}
	return c, m
}

func TestResolve(t *testing.T) {
	t.Run("plain hit with retaliation", func(t *testing.T) {
		c, m := combatants()
		// Player: d20 15 (+5 dex) hits, d6 4 -> 4+5+3 = 12 damage.
		// Enemy: d20 20 hits vs 15, d6 2 -> 4+2-3 = 3 damage.
		r := scriptedResolver(t, 15, 4, 20, 2)

		res := r.Resolve(c, m, 3, 0)

		if res.PlayerAttack == nil || !res.PlayerAttack.WasHit {
			t.Fatal("expected player hit")
		}
		if res.PlayerAttack.Damage != 12 {
			t.Errorf("expected 12 damage, got %d", res.PlayerAttack.Damage)
		}
		if res.PlayerAttack.WasCritical {
			t.Error("d6 of 4 must not be critical")
		}
		if m.HP != 8 || res.PlayerAttack.RemainingHP != 8 {
			t.Errorf("expected goblin at 8 HP, got %d/%d", m.HP, res.PlayerAttack.RemainingHP)
		}
		if res.EnemyDefeated {
			t.Error("goblin survived, must not be marked defeated")
		}
		if res.EnemyAttack == nil || !res.EnemyAttack.WasHit {
			t.Fatal("expected enemy retaliation")
		}
		if res.EnemyAttack.Damage != 3 {
			t.Errorf("expected 3 retaliation damage, got %d", res.EnemyAttack.Damage)
		}
		if c.HP != 27 {
			t.Errorf("expected hero at 27 HP, got %d", c.HP)
		}
	})

	t.Run("defeated enemy never retaliates", func(t *testing.T) {
		c, m := combatants()
		m.HP = 5
		// Only two rolls scripted: the exchange must end with the kill.
		r := scriptedResolver(t, 15, 4)

		res := r.Resolve(c, m, 3, 0)

		if !res.EnemyDefeated {
			t.Fatal("expected enemy defeated")
		}
		if res.EnemyAttack != nil {
			t.Error("defeated enemy must not retaliate")
		}
		if res.PlayerDied {
			t.Error("player cannot die in the exchange that defeats the enemy")
		}
		if m.HP != 0 || m.IsAlive {
			t.Errorf("expected dead goblin, got HP %d alive=%v", m.HP, m.IsAlive)
		}
		if c.HP != c.MaxHP {
			t.Errorf("player took damage from a dead enemy: %d", c.HP)
		}
	})

	t.Run("player miss deals no damage", func(t *testing.T) {
		c, m := combatants()
		// d20 1 (+5) misses; enemy d20 3 misses vs 15.
		r := scriptedResolver(t, 1, 3)

		res := r.Resolve(c, m, 0, 0)

		if res.PlayerAttack.WasHit || res.PlayerAttack.Damage != 0 {
			t.Errorf("expected miss, got %+v", res.PlayerAttack)
		}
		if m.HP != m.MaxHP {
			t.Errorf("miss changed monster HP to %d", m.HP)
		}
		if res.EnemyAttack == nil || res.EnemyAttack.WasHit {
			t.Errorf("expected enemy miss, got %+v", res.EnemyAttack)
		}
	})

	t.Run("critical doubles the die", func(t *testing.T) {
		c, m := combatants()
		// d6 6 is critical: 6*2+5 = 17 damage, enough to drop the goblin
		// from 20 to 3. Enemy misses.
		r := scriptedResolver(t, 15, 6, 3)

		res := r.Resolve(c, m, 0, 0)

		if !res.PlayerAttack.WasCritical {
			t.Fatal("d6 of 6 must be critical")
		}
		if res.PlayerAttack.Damage != 17 {
			t.Errorf("expected 17 damage, got %d", res.PlayerAttack.Damage)
		}
		if m.HP != 3 {
			t.Errorf("expected goblin at 3 HP, got %d", m.HP)
		}
	})

	t.Run("retaliation can kill the player", func(t *testing.T) {
		c, m := combatants()
		c.HP = 2
		// Player misses, enemy hits for 4+2-3 = 3 >= 2 HP.
		r := scriptedResolver(t, 1, 20, 2)

		res := r.Resolve(c, m, 0, 0)

		if !res.PlayerDied {
			t.Fatal("expected player death")
		}
		if c.HP != 0 {
			t.Errorf("HP must clamp at 0, got %d", c.HP)
		}
		if c.IsAlive {
			t.Error("dead player flagged alive")
		}
		if res.EnemyAttack.RemainingHP != 0 {
			t.Errorf("expected remaining HP 0, got %d", res.EnemyAttack.RemainingHP)
		}
	})

	t.Run("damage never drops below one", func(t *testing.T) {
		c, m := combatants()
		m.Damage = 1
		// Enemy hits with d6 1: 1+1-3 = -1, clamped to 1.
		r := scriptedResolver(t, 1, 20, 1)

		res := r.Resolve(c, m, 0, 0)

		if res.EnemyAttack.Damage != 1 {
			t.Errorf("expected minimum damage 1, got %d", res.EnemyAttack.Damage)
		}
	})

	t.Run("armor raises the defense roll", func(t *testing.T) {
		c, m := combatants()
		// Enemy d20 16 would hit the bare defense of 15 but not 15+2.
		r := scriptedResolver(t, 1, 16)

		res := r.Resolve(c, m, 0, 2)

		if res.EnemyAttack.WasHit {
			t.Error("expected armor to turn the hit into a miss")
		}
	})

	t.Run("same seed gives identical exchanges", func(t *testing.T) {
		run := func() *CombatResult {
			c, m := combatants()
			return NewResolver(42).Resolve(c, m, 3, 1)
		}
		if a, b := run(), run(); !reflect.DeepEqual(a, b) {
			t.Errorf("seeded exchanges differ: %+v vs %+v", a, b)
		}
	})
}
