package model

// UnitSnapshot — сохраняемое состояние юнита в виде простых данных.
// Восстановление — только присваивание полей, без игровой логики.
type UnitSnapshot struct {
	ID       UnitID          `json:"id"`
	Name     string          `json:"name"`
	Record   UnitRecord      `json:"record"`
	State    UnitState       `json:"state"`
	Command  Command         `json:"command"`
	Skills   []SkillRecord   `json:"skills"`
	Attack   AttackAttribute `json:"attack"`
	Speed    SpeedAttribute  `json:"speed"`
	Position Vec2            `json:"position"`
	Movement Movement        `json:"movement"`
}

// Snapshot copies the persistent state of u.
// Transient displacement (knockback pushes, hooks) is not saved.
func (u *Unit) Snapshot() UnitSnapshot {
	return UnitSnapshot{
		ID:       u.ID,
		Name:     u.Name,
		Record:   u.Record,
		State:    u.State,
		Command:  u.Command,
		Skills:   u.Skills.All(),
		Attack:   AttackAttribute{Base: u.Attack.Base, Modifiers: append(Modifiers(nil), u.Attack.Modifiers...)},
		Speed:    SpeedAttribute{Base: u.Speed.Base, Modifiers: append(Modifiers(nil), u.Speed.Modifiers...)},
		Position: u.Position,
		Movement: u.Movement,
	}
}

// RestoreUnit rebuilds a unit from a snapshot.
func RestoreUnit(s UnitSnapshot) *Unit {
	u := &Unit{
		ID:       s.ID,
		Name:     s.Name,
		Record:   s.Record,
		State:    s.State,
		Command:  s.Command,
		Attack:   s.Attack,
		Speed:    s.Speed,
		Position: s.Position,
		Movement: s.Movement,
	}
	u.Skills.Replace(s.Skills)
	return u
}
