package model

import (
	"testing"

	"github.com/udisondev/skirmish/internal/data"
)

func TestAttackAttribute_Value(t *testing.T) {
	t.Parallel()

	src := func(u UnitID) ModifierSource { return ModifierSource{Unit: u, Action: data.ActionAttackAura} }

	tests := []struct {
		name string
		base int32
		mods []AttributeModifier
		want int32
	}{
		{"no modifiers", 100, nil, 100},
		{"percentage", 100, []AttributeModifier{{Source: src(1), Percentage: 20}}, 120},
		{"amount and percentage", 10, []AttributeModifier{{Source: src(1), Amount: 3, Percentage: 15}}, 14},
		{"two sources stack", 100, []AttributeModifier{
			{Source: src(1), Percentage: 20},
			{Source: src(2), Percentage: 20},
		}, 140},
		{"truncation", 7, []AttributeModifier{{Source: src(1), Percentage: 20}}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := AttackAttribute{Base: tt.base}
			for _, m := range tt.mods {
				a.Modifiers.Set(m)
			}
			if got := a.Value(); got != tt.want {
				t.Errorf("Value() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestModifiers_SetReplacesSameSource(t *testing.T) {
	t.Parallel()

	src := ModifierSource{Unit: 1, Action: data.ActionAttackAura}
	a := AttackAttribute{Base: 100}
	a.Modifiers.Set(AttributeModifier{Source: src, Percentage: 20})
	a.Modifiers.Set(AttributeModifier{Source: src, Percentage: 20})

	if got := a.Value(); got != 120 {
		t.Fatalf("Value() = %d, want 120", got)
	}
	if len(a.Modifiers) != 1 {
		t.Fatalf("len(Modifiers) = %d, want 1", len(a.Modifiers))
	}

	if !a.Modifiers.Remove(src) {
		t.Fatal("Remove() = false, want true")
	}
	if a.Modifiers.Remove(src) {
		t.Error("second Remove() = true, want false")
	}
	if got := a.Value(); got != 100 {
		t.Errorf("Value() after remove = %d, want 100", got)
	}
}

func TestSpeedAttribute_Value(t *testing.T) {
	t.Parallel()

	s := SpeedAttribute{Base: 100}
	s.Modifiers.Set(AttributeModifier{Source: ModifierSource{Unit: 2, Action: data.ActionSpeedAura}, Percentage: 20})
	if got := s.Value(); got != 120 {
		t.Errorf("Value() = %v, want 120", got)
	}
}

func TestTeam_Relations(t *testing.T) {
	t.Parallel()

	if TeamPlayer.EnemyTarget() != TeamEnemy || TeamEnemy.EnemyTarget() != TeamPlayer {
		t.Error("EnemyTarget must swap teams")
	}
	if !TeamPlayer.IsEnemy(TeamEnemy) || TeamPlayer.IsEnemy(TeamPlayer) {
		t.Error("IsEnemy mismatch")
	}
	if !TeamEnemy.IsAlly(TeamEnemy) || TeamEnemy.IsAlly(TeamPlayer) {
		t.Error("IsAlly mismatch")
	}

	var team Team
	if err := team.UnmarshalText([]byte("enemy")); err != nil || team != TeamEnemy {
		t.Errorf("UnmarshalText(enemy) = %v, %v", team, err)
	}
	if err := team.UnmarshalText([]byte("neutral")); err == nil {
		t.Error("UnmarshalText(neutral) must fail")
	}
}
