package model

import (
	"time"

	"github.com/udisondev/skirmish/internal/data"
)

// SkillRecord — выученный скилл юнита (ActionID + уровень).
// Timer и Stage — счётчики обработчика эффекта (номер выстрела очереди,
// прогресс канала, перезарядка ауры).
type SkillRecord struct {
	Action data.ActionID `json:"action"`
	Level  int32         `json:"level"`

	Timer time.Duration `json:"timer"`
	Stage int           `json:"stage"`
}

// ResetCounters clears the handler counters.
func (s *SkillRecord) ResetCounters() {
	s.Timer = 0
	s.Stage = 0
}

// SkillSet — набор скиллов юнита. Один ActionID встречается не более одного раза.
// Записи никогда не удаляются, поэтому индекс стабилен всё время жизни юнита.
type SkillSet struct {
	skills []SkillRecord
}

// NewSkillSet creates a set from a starting kit; duplicate actions level up.
func NewSkillSet(actions ...data.ActionID) SkillSet {
	var s SkillSet
	for _, a := range actions {
		s.Grant(a)
	}
	return s
}

// Grant teaches an action. An already known action gains one level instead of
// being duplicated. Returns the record index and whether the skill is new.
func (s *SkillSet) Grant(action data.ActionID) (int, bool) {
	if i := s.Index(action); i != NoSkill {
		s.skills[i].Level++
		return i, false
	}
	s.skills = append(s.skills, SkillRecord{Action: action, Level: 1})
	return len(s.skills) - 1, true
}

// Index returns the record index of action, or NoSkill.
func (s *SkillSet) Index(action data.ActionID) int {
	for i := range s.skills {
		if s.skills[i].Action == action {
			return i
		}
	}
	return NoSkill
}

// At returns the record at index i, or nil when out of range.
func (s *SkillSet) At(i int) *SkillRecord {
	if i < 0 || i >= len(s.skills) {
		return nil
	}
	return &s.skills[i]
}

// Level returns the level of action, 0 when unknown.
func (s *SkillSet) Level(action data.ActionID) int32 {
	if i := s.Index(action); i != NoSkill {
		return s.skills[i].Level
	}
	return 0
}

// Len returns the number of learned skills.
func (s *SkillSet) Len() int { return len(s.skills) }

// All returns a copy of all records.
func (s *SkillSet) All() []SkillRecord {
	out := make([]SkillRecord, len(s.skills))
	copy(out, s.skills)
	return out
}

// Replace overwrites the set with records (used when restoring a save).
func (s *SkillSet) Replace(records []SkillRecord) {
	s.skills = append(s.skills[:0:0], records...)
}
