package scene

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/skirmish/internal/ai"
	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/game/rogue"
	"github.com/udisondev/skirmish/internal/game/sim"
	"github.com/udisondev/skirmish/internal/model"
)

const duel = `
name: duel
units:
  - name: knight
    team: player
    hp: 100
    attack: 10
    position: {x: 0, y: 0}
    skills: [Slash, AttackAura, AttackAura]
    command: {action: Slash, target: orc}
  - name: orc
    team: enemy
    hp: 50
    attack: 4
    speed: 80
    position: {x: 50, y: 0}
    ai: {aggro_range: 4, attack: Attack}
  - name: scout
    team: player
    hp: 30
    attack: 1
    position: {x: -20, y: 0}
    command: {action: MoveTo, position: {x: -200, y: 0}}
`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(duel))
	require.NoError(t, err)

	assert.Equal(t, "duel", sc.Name)
	require.Len(t, sc.Units, 3)

	knight := sc.Units[0]
	assert.Equal(t, model.TeamPlayer, knight.Team)
	assert.Equal(t, []data.ActionID{data.ActionSlash, data.ActionAttackAura, data.ActionAttackAura}, knight.Skills)
	require.NotNil(t, knight.Command)
	assert.Equal(t, data.ActionSlash, knight.Command.Action)
	assert.Equal(t, "orc", knight.Command.Target)

	orc := sc.Units[1]
	assert.Equal(t, model.TeamEnemy, orc.Team)
	assert.Equal(t, model.V(50, 0), orc.Position)
	require.NotNil(t, orc.AI)
	assert.InDelta(t, 4.0, orc.AI.AggroRange, 1e-9)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown action", "units: [{name: a, hp: 1, skills: [Teleport]}]", "unknown action"},
		{"unknown team", "units: [{name: a, hp: 1, team: neutral}]", "unknown team"},
		{"empty name", "units: [{hp: 1}]", "empty name"},
		{"duplicate", "units: [{name: a, hp: 1}, {name: a, hp: 1}]", "duplicate name"},
		{"hp", "units: [{name: a, hp: 0}]", "hp must be positive"},
		{"target", "units: [{name: a, hp: 1, command: {action: Attack, target: ghost}}]", `target "ghost"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestApply(t *testing.T) {
	sc, err := Parse([]byte(duel))
	require.NoError(t, err)

	s := sim.New(sim.DefaultOptions())
	mgr := ai.NewTickManager(s, time.Second)
	spawned, err := sc.Apply(s, mgr)
	require.NoError(t, err)
	require.Len(t, spawned, 3)

	knight, ok := s.World().Unit(spawned["knight"])
	require.True(t, ok)
	assert.Equal(t, int32(1), knight.Skills.Level(data.ActionSlash))
	assert.Equal(t, int32(2), knight.Skills.Level(data.ActionAttackAura))
	assert.Equal(t, model.AttackCommand(data.ActionSlash, spawned["orc"]), knight.Command)
	assert.InDelta(t, DefaultSpeed, knight.Record.MovementSpeed, 1e-9)

	orc, _ := s.World().Unit(spawned["orc"])
	assert.InDelta(t, 80.0, orc.Record.MovementSpeed, 1e-9)

	scout, _ := s.World().Unit(spawned["scout"])
	assert.Equal(t, model.MoveToCommand(model.V(-200, 0)), scout.Command)

	assert.Equal(t, 1, mgr.Count())
	c, err := mgr.GetController(spawned["orc"])
	require.NoError(t, err)
	assert.Equal(t, ai.IntentionActive, c.CurrentIntention())

	s.Tick(50 * time.Millisecond)
	assert.Equal(t, int32(14), knight.Record.Attack, "level 2 aura: +40%")
	assert.Equal(t, data.ActionSlash, knight.State.Action)
}

func TestApply_RejectsBuiltinSkill(t *testing.T) {
	sc, err := Parse([]byte("units: [{name: a, hp: 1, skills: [MoveTo]}]"))
	require.NoError(t, err)

	_, err = sc.Apply(sim.New(sim.DefaultOptions()), nil)
	assert.ErrorIs(t, err, sim.ErrUnknownAction)
}

func TestApply_RejectsUnlearnedCommand(t *testing.T) {
	sc, err := Parse([]byte("units: [{name: a, hp: 1, command: {action: Fireball, position: {x: 1, y: 1}}}]"))
	require.NoError(t, err)

	_, err = sc.Apply(sim.New(sim.DefaultOptions()), nil)
	assert.ErrorIs(t, err, sim.ErrUnknownAction)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(duel), 0o600))

	sc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "duel", sc.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	sc, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, sc.Units)

	s := sim.New(sim.DefaultOptions())
	mgr := ai.NewTickManager(s, time.Second)
	spawned, err := sc.Apply(s, mgr)
	require.NoError(t, err)
	assert.Len(t, spawned, len(sc.Units))
	assert.Positive(t, mgr.Count())

	for range 100 {
		mgr.TickAll(s)
		s.Tick(50 * time.Millisecond)
	}
}

func TestRegisterControllers_AfterRestore(t *testing.T) {
	sc, err := Parse([]byte(duel))
	require.NoError(t, err)

	s := sim.New(sim.DefaultOptions())
	_, err = sc.Apply(s, nil)
	require.NoError(t, err)
	snaps := s.Snapshot()

	restored := sim.New(sim.DefaultOptions())
	require.NoError(t, restored.Restore(snaps[:2]))
	mgr := ai.NewTickManager(restored, time.Second)

	assert.Equal(t, 1, sc.RegisterControllers(restored, mgr))
	_, err = mgr.GetController(snaps[1].ID)
	assert.NoError(t, err, "orc is matched by name")
}

const waves = `
name: waves
units:
  - name: hero
    team: player
    hp: 100
    attack: 10
    skills: [Slash]
  - name: fox
    team: enemy
    hp: 40
    attack: 3
    position: {x: 900, y: 0}
    skills: [GhostLight, Burning]
    ai:
      aggro_range: 10
      bands:
        - {range: 6, action: GhostLight}
        - {range: 1, action: Burning}
rogue:
  hero: hero
  price: 100
  slots: 2
  spawn_interval: 500ms
  spawn_distance: 3
  start: {x: 2000, y: 0}
  back: {x: -200, y: 0}
  enemy:
    name: spider
    hp: 30
    skills: [SpiderAttack]
    ai: {bands: [{range: 10, action: SpiderAttack}]}
  areas:
    - name: portal
      position: {x: 300, y: 0}
      shape: {radius: 1}
      start: true
      triggers: [{kind: disable_area, target: portal}]
  blockers:
    - {name: door, position: {x: 1500, y: 0}, shape: {half_x: 0.5, half_y: 2}, solid: true}
  death_triggers:
    - unit: fox
      triggers: [{kind: hide_blocker, target: door}]
`

func TestParse_Rogue(t *testing.T) {
	sc, err := Parse([]byte(waves))
	require.NoError(t, err)
	require.NotNil(t, sc.Rogue)

	fox := sc.Units[1].AI.config()
	assert.Equal(t, []ai.Band{
		{MaxRange: 6 * data.Scale, Action: data.ActionGhostLight},
		{MaxRange: 1 * data.Scale, Action: data.ActionBurning},
	}, fox.Bands)
	assert.Equal(t, data.ActionBurning, ai.NewMonsterAI(1, fox).Config().Pick(0.5*data.Scale))

	cfg := sc.Rogue.Config()
	assert.Equal(t, "hero", cfg.Hero)
	assert.Equal(t, 500*time.Millisecond, cfg.SpawnInterval)
	assert.InDelta(t, 3*data.Scale, cfg.SpawnDistance, 1e-9)
	assert.InDelta(t, DefaultSpeed, cfg.Enemy.Params.Speed, 1e-9)
	assert.Equal(t, []data.ActionID{data.ActionSpiderAttack}, cfg.Enemy.Params.Skills)
	require.Len(t, cfg.Enemy.AI.Bands, 1)
	assert.InDelta(t, 10*data.Scale, cfg.Enemy.AI.Bands[0].MaxRange, 1e-9)

	require.Len(t, cfg.Areas, 1)
	assert.Equal(t, data.Ball(1), cfg.Areas[0].Shape)
	assert.Equal(t, []rogue.TriggerAction{{Kind: rogue.DisableArea, Target: "portal"}}, cfg.Areas[0].Triggers)
	require.Len(t, cfg.Blockers, 1)
	assert.Equal(t, data.Box(0.5, 2), cfg.Blockers[0].Shape)
	assert.True(t, cfg.Blockers[0].Solid)
	assert.Equal(t, "fox", cfg.DeathTriggers[0].Unit)
}

func TestParse_RogueErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"hero", "units: [{name: a, hp: 1}]\nrogue: {hero: b, enemy: {name: e, hp: 1}}", `hero "b" not in scene`},
		{"enemy", "units: [{name: a, hp: 1}]\nrogue: {hero: a}", "enemy needs a name"},
		{"trigger kind", "units: [{name: a, hp: 1}]\nrogue: {hero: a, enemy: {name: e, hp: 1}, areas: [{name: p, shape: {radius: 1}, triggers: [{kind: explode}]}]}", "unknown trigger kind"},
		{"trigger target", "units: [{name: a, hp: 1}]\nrogue: {hero: a, enemy: {name: e, hp: 1}, areas: [{name: p, shape: {radius: 1}, triggers: [{kind: show_blocker, target: wall}]}]}", `target "wall" not found`},
		{"shape", "units: [{name: a, hp: 1}]\nrogue: {hero: a, enemy: {name: e, hp: 1}, blockers: [{name: wall}]}", `blocker "wall" has no shape`},
		{"death unit", "units: [{name: a, hp: 1}]\nrogue: {hero: a, enemy: {name: e, hp: 1}, death_triggers: [{unit: boss}]}", `unit "boss" not in scene`},
		{"band range", "units: [{name: a, hp: 1, ai: {bands: [{action: Attack}]}}]", "positive range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRogue_HeroWalksIntoPortal(t *testing.T) {
	sc, err := Load(filepath.Join("..", "..", "scenes", "arena.yaml"))
	require.NoError(t, err)
	require.NotNil(t, sc.Rogue)

	s := sim.New(sim.DefaultOptions())
	_, err = sc.Apply(s, nil)
	require.NoError(t, err)
	g := rogue.New(sc.Rogue.Config(), nil)
	require.NoError(t, g.Attach(s))
	s.SetDieFunc(g.OnDie)

	gate, ok := g.Blocker(s, "arena_gate")
	require.True(t, ok)
	assert.True(t, gate.Solid)

	for i := 0; i < 200 && !g.Started(); i++ {
		s.Tick(50 * time.Millisecond)
	}
	require.True(t, g.Started())
	assert.Equal(t, 1, g.Level())
	hero, _ := s.World().Unit(g.Hero())
	assert.Equal(t, model.V(3000, 0), hero.Position)

	gate, _ = g.Blocker(s, "arena_gate")
	assert.False(t, gate.Solid)

	for range 30 {
		s.Tick(50 * time.Millisecond)
	}
	assert.Equal(t, 1, g.Enemies())
}
