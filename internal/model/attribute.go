package model

import "github.com/udisondev/skirmish/internal/data"

// ModifierSource identifies who applied a modifier: the owner unit and the skill.
// Повторное применение из того же источника заменяет модификатор, а не суммирует.
type ModifierSource struct {
	Unit   UnitID        `json:"unit"`
	Action data.ActionID `json:"action"`
}

// AttributeModifier — плоская и процентная добавка к характеристике.
type AttributeModifier struct {
	Source     ModifierSource `json:"source"`
	Amount     int32          `json:"amount"`
	Percentage int32          `json:"percentage"`
}

// Modifiers is a list of modifiers keyed by source.
type Modifiers []AttributeModifier

// Set adds m, replacing an existing modifier with the same source.
func (ms *Modifiers) Set(m AttributeModifier) {
	for i := range *ms {
		if (*ms)[i].Source == m.Source {
			(*ms)[i] = m
			return
		}
	}
	*ms = append(*ms, m)
}

// Remove drops the modifier from src. Reports whether one was present.
func (ms *Modifiers) Remove(src ModifierSource) bool {
	for i := range *ms {
		if (*ms)[i].Source == src {
			*ms = append((*ms)[:i], (*ms)[i+1:]...)
			return true
		}
	}
	return false
}

// Sums returns Σamount and Σpercentage.
func (ms Modifiers) Sums() (amount, pct int32) {
	for _, m := range ms {
		amount += m.Amount
		pct += m.Percentage
	}
	return amount, pct
}

// AttackAttribute — базовая атака и модификаторы от аур.
type AttackAttribute struct {
	Base      int32     `json:"base"`
	Modifiers Modifiers `json:"modifiers,omitempty"`
}

// Value computes base + Σamount + base*Σpercentage/100 with integer truncation.
func (a AttackAttribute) Value() int32 {
	amount, pct := a.Modifiers.Sums()
	return a.Base + amount + a.Base*pct/100
}

// SpeedAttribute — базовая скорость передвижения и модификаторы.
type SpeedAttribute struct {
	Base      float64   `json:"base"`
	Modifiers Modifiers `json:"modifiers,omitempty"`
}

// Value computes base + Σamount + base*Σpercentage/100.
func (s SpeedAttribute) Value() float64 {
	amount, pct := s.Modifiers.Sums()
	return s.Base + float64(amount) + s.Base*float64(pct)/100
}
