package ai

import "github.com/udisondev/skirmish/internal/model"

// aggroInfo tracks hate and damage from a single attacker.
type aggroInfo struct {
	hate   int64
	damage int64
}

// AggroList — список ненависти монстра к атакующим.
// Используется только из горутины симуляции, поэтому без синхронизации.
type AggroList struct {
	entries map[model.UnitID]*aggroInfo
}

// NewAggroList creates a new empty AggroList.
func NewAggroList() *AggroList {
	return &AggroList{entries: make(map[model.UnitID]*aggroInfo)}
}

// AddDamage records damage from an attacker; hate grows by the same amount,
// at least 1 so that a zero-damage hit still draws attention.
func (l *AggroList) AddDamage(attacker model.UnitID, damage int32) {
	info, ok := l.entries[attacker]
	if !ok {
		info = &aggroInfo{}
		l.entries[attacker] = info
	}
	info.damage += int64(damage)
	info.hate += max(int64(damage), 1)
}

// Hate returns the hate towards attacker.
func (l *AggroList) Hate(attacker model.UnitID) int64 {
	if info, ok := l.entries[attacker]; ok {
		return info.hate
	}
	return 0
}

// Damage returns the total damage dealt by attacker.
func (l *AggroList) Damage(attacker model.UnitID) int64 {
	if info, ok := l.entries[attacker]; ok {
		return info.damage
	}
	return 0
}

// MostHated returns the attacker with the highest hate accepted by keep,
// lowest id on ties; 0 if none.
func (l *AggroList) MostHated(keep func(model.UnitID) bool) model.UnitID {
	var (
		best     model.UnitID
		bestHate int64
	)
	for id, info := range l.entries {
		if keep != nil && !keep(id) {
			continue
		}
		if best == 0 || info.hate > bestHate || (info.hate == bestHate && id < best) {
			best, bestHate = id, info.hate
		}
	}
	return best
}

// Remove removes an attacker from the hate list.
func (l *AggroList) Remove(attacker model.UnitID) {
	delete(l.entries, attacker)
}

// Clear removes all entries.
func (l *AggroList) Clear() {
	clear(l.entries)
}

// Len returns the number of tracked attackers.
func (l *AggroList) Len() int { return len(l.entries) }
