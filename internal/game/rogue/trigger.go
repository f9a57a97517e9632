package rogue

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/game/sim"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/world"
)

// TriggerKind — что делает сработавший триггер.
type TriggerKind uint8

const (
	ShowBlocker TriggerKind = iota + 1
	HideBlocker
	DisableArea
)

var triggerNames = map[TriggerKind]string{
	ShowBlocker: "show_blocker",
	HideBlocker: "hide_blocker",
	DisableArea: "disable_area",
}

func (k TriggerKind) String() string {
	if n, ok := triggerNames[k]; ok {
		return n
	}
	return fmt.Sprintf("TriggerKind(%d)", uint8(k))
}

// ParseTriggerKind resolves a kind by its name.
func ParseTriggerKind(name string) (TriggerKind, error) {
	for k, n := range triggerNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown trigger kind %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k TriggerKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TriggerKind) UnmarshalText(text []byte) error {
	parsed, err := ParseTriggerKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// TriggerAction names a blocker or an area to act on.
type TriggerAction struct {
	Kind   TriggerKind `yaml:"kind"`
	Target string      `yaml:"target"`
}

// Area is a named trigger volume. Entering a Start area begins the next wave.
type Area struct {
	Name     string
	Center   model.Vec2
	Shape    data.Shape
	Start    bool
	Triggers []TriggerAction
}

// Blocker is a named obstacle that triggers switch on and off.
type Blocker struct {
	Name   string
	Center model.Vec2
	Shape  data.Shape
	Solid  bool
}

// DeathTrigger fires when the named unit dies.
type DeathTrigger struct {
	Unit     string
	Triggers []TriggerAction
}

type areaState struct {
	Area
	disabled bool
}

// triggers owns the spawned areas and blockers of a level.
type triggers struct {
	areas    map[world.VolumeID]*areaState
	byName   map[string]world.VolumeID
	blockers map[string]world.VolumeID
	onDeath  map[model.UnitID][]TriggerAction
}

func newTriggers() *triggers {
	return &triggers{
		areas:    make(map[world.VolumeID]*areaState),
		byName:   make(map[string]world.VolumeID),
		blockers: make(map[string]world.VolumeID),
		onDeath:  make(map[model.UnitID][]TriggerAction),
	}
}

func (t *triggers) spawn(s *sim.Simulation, cfg Config, names map[string]model.UnitID) error {
	for _, b := range cfg.Blockers {
		t.blockers[b.Name] = s.Physics().AddObstacle(world.Obstacle{Center: b.Center, Shape: b.Shape, Solid: b.Solid})
	}
	for _, a := range cfg.Areas {
		id := s.Physics().SpawnArea(world.Area{Center: a.Center, Shape: a.Shape})
		t.areas[id] = &areaState{Area: a}
		t.byName[a.Name] = id
	}
	for _, d := range cfg.DeathTriggers {
		id, ok := names[d.Unit]
		if !ok {
			return fmt.Errorf("death trigger: %w: %q", ErrUnknownUnit, d.Unit)
		}
		t.onDeath[id] = append(t.onDeath[id], d.Triggers...)
	}
	return nil
}

// area returns the enabled area behind a volume.
func (t *triggers) area(id world.VolumeID) (*areaState, bool) {
	a, ok := t.areas[id]
	if !ok || a.disabled {
		return nil, false
	}
	return a, true
}

func (t *triggers) fire(s *sim.Simulation, actions []TriggerAction) {
	for _, act := range actions {
		switch act.Kind {
		case ShowBlocker, HideBlocker:
			id, ok := t.blockers[act.Target]
			if !ok || !s.Physics().SetSolid(id, act.Kind == ShowBlocker) {
				slog.Warn("trigger target missing", "trigger", act.Kind, "target", act.Target)
			}
		case DisableArea:
			id, ok := t.byName[act.Target]
			if !ok {
				slog.Warn("trigger target missing", "trigger", act.Kind, "target", act.Target)
				continue
			}
			t.areas[id].disabled = true
		}
		slog.Debug("trigger fired", "trigger", act.Kind, "target", act.Target)
	}
}
