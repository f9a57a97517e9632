// Package ai содержит контроллеры монстров: внешние источники команд,
// которые выбирают цель и пишут Command юнита.
package ai

import "github.com/udisondev/skirmish/internal/game/sim"

// Intention is what a controller is currently trying to do.
type Intention uint8

const (
	IntentionIdle Intention = iota
	IntentionActive
	IntentionAttack
)

func (i Intention) String() string {
	switch i {
	case IntentionIdle:
		return "IDLE"
	case IntentionActive:
		return "ACTIVE"
	case IntentionAttack:
		return "ATTACK"
	default:
		return "UNKNOWN"
	}
}

// Controller drives one unit.
type Controller interface {
	// Start starts AI controller
	Start()

	// Stop stops AI controller
	Stop()

	// CurrentIntention returns current AI intention
	CurrentIntention() Intention

	// Tick evaluates the unit; called on the simulation goroutine.
	Tick(s *sim.Simulation)
}
