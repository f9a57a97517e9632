// Package scene loads the starting kit of a simulation from YAML: units,
// their skills, initial commands, monster controllers and the optional
// wave mode.
package scene

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/skirmish/internal/ai"
	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/game/sim"
	"github.com/udisondev/skirmish/internal/model"
)

// DefaultSpeed is the movement speed of units that do not set one (world units per second).
const DefaultSpeed = 2 * data.Scale

//go:embed default.yaml
var defaultScene []byte

// Scene is a YAML scene file.
type Scene struct {
	Name  string     `yaml:"name"`
	Units []UnitSpec `yaml:"units"`
	Rogue *RogueSpec `yaml:"rogue,omitempty"`
}

// UnitSpec describes one unit. Skills listed more than once are levelled up.
type UnitSpec struct {
	Name     string          `yaml:"name"`
	Team     model.Team      `yaml:"team"`
	HP       int32           `yaml:"hp"`
	Attack   int32           `yaml:"attack"`
	Speed    float64         `yaml:"speed"`
	Position model.Vec2      `yaml:"position"`
	Skills   []data.ActionID `yaml:"skills"`
	Command  *CommandSpec    `yaml:"command,omitempty"`
	AI       *AISpec         `yaml:"ai,omitempty"`
}

// CommandSpec is an initial command. Target names another unit of the scene.
type CommandSpec struct {
	Action   data.ActionID `yaml:"action"`
	Target   string        `yaml:"target,omitempty"`
	Position *model.Vec2   `yaml:"position,omitempty"`
}

// AISpec attaches a monster controller. Ranges are in metres.
type AISpec struct {
	AggroRange float64        `yaml:"aggro_range"`
	ChaseRange float64        `yaml:"chase_range"`
	Attack     *data.ActionID `yaml:"attack,omitempty"`
	Bands      []BandSpec     `yaml:"bands,omitempty"`
}

// Default returns the built-in scene.
func Default() (*Scene, error) {
	return Parse(defaultScene)
}

// Load reads a scene file. An empty path selects the built-in scene.
func Load(path string) (*Scene, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	sc, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scene.
func Parse(raw []byte) (*Scene, error) {
	var sc Scene
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks names, stats and command references.
func (sc *Scene) Validate() error {
	names := make(map[string]struct{}, len(sc.Units))
	var errs []error
	for i, u := range sc.Units {
		if u.Name == "" {
			errs = append(errs, fmt.Errorf("unit #%d: empty name", i))
			continue
		}
		if _, dup := names[u.Name]; dup {
			errs = append(errs, fmt.Errorf("unit %q: duplicate name", u.Name))
		}
		names[u.Name] = struct{}{}
		if u.HP <= 0 {
			errs = append(errs, fmt.Errorf("unit %q: hp must be positive", u.Name))
		}
		if u.Speed < 0 {
			errs = append(errs, fmt.Errorf("unit %q: negative speed", u.Name))
		}
		if u.AI != nil {
			for _, b := range u.AI.Bands {
				if b.Range <= 0 {
					errs = append(errs, fmt.Errorf("unit %q: band %s needs a positive range", u.Name, b.Action))
				}
			}
		}
	}
	for _, u := range sc.Units {
		if u.Command != nil && u.Command.Target != "" {
			if _, ok := names[u.Command.Target]; !ok {
				errs = append(errs, fmt.Errorf("unit %q: command target %q not in scene", u.Name, u.Command.Target))
			}
		}
	}
	if sc.Rogue != nil {
		errs = append(errs, sc.Rogue.validate(names))
	}
	return errors.Join(errs...)
}

// Spawned maps scene names to the units created for them.
type Spawned map[string]model.UnitID

// Apply spawns the scene into s, grants skills, sets initial commands and
// registers monster controllers with mgr (mgr may be nil). Must run on the
// simulation goroutine.
func (sc *Scene) Apply(s *sim.Simulation, mgr *ai.TickManager) (Spawned, error) {
	spawned := make(Spawned, len(sc.Units))
	for _, spec := range sc.Units {
		speed := spec.Speed
		if speed == 0 {
			speed = DefaultSpeed
		}
		u := s.Spawn(model.UnitParams{
			Name:     spec.Name,
			Team:     spec.Team,
			HP:       spec.HP,
			Attack:   spec.Attack,
			Speed:    speed,
			Position: spec.Position,
		})
		for _, act := range spec.Skills {
			if err := s.GrantSkill(u.ID, act); err != nil {
				return spawned, fmt.Errorf("unit %q: %w", spec.Name, err)
			}
		}
		spawned[spec.Name] = u.ID
	}

	for _, spec := range sc.Units {
		id := spawned[spec.Name]
		if spec.Command != nil {
			if err := s.SetCommand(id, spec.Command.command(spawned)); err != nil {
				return spawned, fmt.Errorf("unit %q: %w", spec.Name, err)
			}
		}
		if spec.AI != nil && mgr != nil {
			mgr.Register(id, ai.NewMonsterAI(id, spec.AI.config()))
		}
	}

	slog.Info("scene applied", "scene", sc.Name, "units", len(spawned))
	return spawned, nil
}

// RegisterControllers attaches the scene's monster controllers to units
// already in s, matched by name (used after restoring a save). Units the save
// no longer has are skipped. Returns the number of controllers registered.
func (sc *Scene) RegisterControllers(s *sim.Simulation, mgr *ai.TickManager) int {
	byName := make(map[string]model.UnitID)
	for _, u := range s.World().Units() {
		if _, seen := byName[u.Name]; !seen {
			byName[u.Name] = u.ID
		}
	}
	n := 0
	for _, spec := range sc.Units {
		id, ok := byName[spec.Name]
		if spec.AI == nil || !ok {
			continue
		}
		mgr.Register(id, ai.NewMonsterAI(id, spec.AI.config()))
		n++
	}
	return n
}

func (c *CommandSpec) command(spawned Spawned) model.Command {
	cmd := model.Command{Action: c.Action, Target: spawned[c.Target]}
	if c.Position != nil {
		cmd.Position = *c.Position
		cmd.HasPosition = true
	}
	return cmd
}

func (a *AISpec) config() ai.MonsterConfig {
	cfg := ai.DefaultMonsterConfig()
	if a.AggroRange > 0 {
		cfg.AggroRange = a.AggroRange * data.Scale
	}
	if a.ChaseRange > 0 {
		cfg.ChaseRange = a.ChaseRange * data.Scale
	}
	if a.Attack != nil {
		cfg.Attack = *a.Attack
	}
	for _, b := range a.Bands {
		cfg.Bands = append(cfg.Bands, ai.Band{MaxRange: b.Range * data.Scale, Action: b.Action})
	}
	return cfg
}
