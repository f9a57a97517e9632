package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/game/action"
	"github.com/udisondev/skirmish/internal/game/combat"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/testutil"
)

const dt = 50 * time.Millisecond

func newSim(t *testing.T) *Simulation {
	t.Helper()
	s := New(DefaultOptions())
	s.SetRoll(func(int) int { return 99 })
	return s
}

func spawn(s *Simulation, name string, team model.Team, hp, attack int32, pos model.Vec2, skills ...data.ActionID) *model.Unit {
	return s.Spawn(model.UnitParams{Name: name, Team: team, HP: hp, Attack: attack, Speed: 100, Position: pos, Skills: skills})
}

func ticks(s *Simulation, n int) {
	for range n {
		s.Tick(dt)
	}
}

func TestSimulation_AutoAttackUntilDeath(t *testing.T) {
	s := newSim(t)
	hero := spawn(s, "hero", model.TeamPlayer, 50, 4, model.V(0, 0))
	mob := spawn(s, "mob", model.TeamEnemy, 10, 1, model.V(50, 0))

	var deaths []combat.UnitDieEvent
	var damage int32
	s.SetDieFunc(func(ev combat.UnitDieEvent) { deaths = append(deaths, ev) })
	s.SetDamageFunc(func(ev combat.DamageEvent) { damage += ev.Damage })

	require.NoError(t, s.SetCommand(hero.ID, model.AttackCommand(data.ActionAttack, mob.ID)))

	ticks(s, 40)
	assert.False(t, mob.IsAlive())
	assert.Equal(t, int32(-2), mob.Record.HP, "three hits of 4")
	assert.Equal(t, int32(12), damage)
	require.Len(t, deaths, 1)
	assert.Equal(t, combat.UnitDieEvent{Unit: mob.ID, Killer: hero.ID}, deaths[0])
	assert.Equal(t, data.ActionDead, mob.State.Action)

	ticks(s, 20)
	assert.Equal(t, model.IdleCommand(), hero.Command, "dead target resets the command")
	assert.Equal(t, data.ActionIdle, hero.State.Action)
	assert.Len(t, deaths, 1)
}

func TestSimulation_ChasesTargetOutOfRange(t *testing.T) {
	s := newSim(t)
	hero := spawn(s, "hero", model.TeamPlayer, 50, 1, model.V(0, 0))
	mob := spawn(s, "mob", model.TeamEnemy, 100, 1, model.V(400, 0))

	require.NoError(t, s.SetCommand(hero.ID, model.AttackCommand(data.ActionAttack, mob.ID)))
	ticks(s, 2)
	assert.Equal(t, data.ActionMoveTo, hero.State.Action)
	assert.Equal(t, model.MoveToCommand(mob.Position), hero.State.Command)
	assert.Equal(t, data.ActionAttack, hero.Command.Action, "original command is kept")

	ticks(s, 80)
	assert.InDelta(t, 300, hero.Position.X, 10)
	assert.Less(t, mob.Record.HP, int32(100))
}

func TestSimulation_MoveToCompletesCommand(t *testing.T) {
	s := newSim(t)
	u := spawn(s, "u", model.TeamPlayer, 10, 1, model.V(0, 0))

	require.NoError(t, s.SetCommand(u.ID, model.MoveToCommand(model.V(100, 0))))
	ticks(s, 40)

	assert.InDelta(t, 90, u.Position.X, 6)
	assert.Equal(t, model.IdleCommand(), u.Command)
	assert.Equal(t, data.ActionIdle, u.State.Action)
	assert.Zero(t, u.Movement.Speed)
}

func TestSimulation_HitStunsThenReleases(t *testing.T) {
	s := newSim(t)
	hero := spawn(s, "hero", model.TeamPlayer, 100, 1, model.V(0, 0), data.ActionSlash)
	mob := spawn(s, "mob", model.TeamEnemy, 100, 1, model.V(50, 0))
	rec := &action.Recorder{}
	s.AddListener(rec)

	require.NoError(t, s.SetCommand(hero.ID, model.AttackCommand(data.ActionSlash, mob.ID)))
	ticks(s, 1)
	require.Equal(t, data.ActionSlash, hero.State.Action)
	require.NoError(t, s.SetCommand(hero.ID, model.IdleCommand()))

	ticks(s, 2)
	assert.Equal(t, int32(99), mob.Record.HP)

	rec.Events = nil
	ticks(s, 1)
	assert.Equal(t, data.ActionStun, mob.State.Action)
	assert.Equal(t, []action.EventKind{
		action.EventActiveUpdate, action.EventExitActive, action.EventExit, action.EventEnter, action.EventEnterActive,
	}, rec.Kinds(mob.ID))

	ticks(s, 8)
	assert.Equal(t, data.ActionIdle, mob.State.Action)
	assert.Zero(t, mob.Record.Stun)
}

func TestSimulation_KilledWhileStunnedStopsColliding(t *testing.T) {
	s := newSim(t)
	first := spawn(s, "first", model.TeamPlayer, 100, 1, model.V(0, 0), data.ActionSlash)
	second := spawn(s, "second", model.TeamPlayer, 100, 1, model.V(0, 5), data.ActionSlash)
	mob := spawn(s, "mob", model.TeamEnemy, 2, 1, model.V(50, 0))

	require.NoError(t, s.SetCommand(first.ID, model.AttackCommand(data.ActionSlash, mob.ID)))
	ticks(s, 1)
	require.NoError(t, s.SetCommand(second.ID, model.AttackCommand(data.ActionSlash, mob.ID)))

	for i := 0; i < 20 && mob.IsAlive(); i++ {
		ticks(s, 1)
	}
	require.False(t, mob.IsAlive())
	require.Equal(t, data.ActionStun, mob.State.Action, "second hit lands during the first stun")
	require.Positive(t, mob.Record.Stun)

	ticks(s, 1)
	assert.Equal(t, data.ActionDead, mob.State.Action)
	assert.Positive(t, mob.Record.Stun, "death does not wait for the stun to run out")
	assert.False(t, s.Physics().Enabled(mob.ID))
}

func TestSimulation_DeadIsTerminal(t *testing.T) {
	s := newSim(t)
	lich := spawn(s, "lich", model.TeamEnemy, 100, 1, model.V(0, 0), data.ActionDeadFinger)
	hero := spawn(s, "hero", model.TeamPlayer, 50, 1, model.V(300, 0))

	require.NoError(t, s.SetCommand(lich.ID, model.AttackCommand(data.ActionDeadFinger, hero.ID)))
	ticks(s, 6)
	require.Equal(t, data.ActionDead, hero.State.Action)
	assert.False(t, s.Physics().Enabled(hero.ID))

	require.NoError(t, s.SetCommand(hero.ID, model.AttackCommand(data.ActionAttack, lich.ID)))
	ticks(s, 20)
	assert.Equal(t, data.ActionDead, hero.State.Action)
}

func TestSimulation_AuraAppliesOnce(t *testing.T) {
	s := newSim(t)
	captain := spawn(s, "captain", model.TeamPlayer, 100, 100, model.V(0, 0), data.ActionAttackAura)
	ally := spawn(s, "ally", model.TeamPlayer, 100, 100, model.V(100, 0))
	enemy := spawn(s, "enemy", model.TeamEnemy, 100, 100, model.V(0, 100))

	ticks(s, 10)
	assert.Equal(t, int32(120), captain.Record.Attack)
	assert.Equal(t, int32(120), ally.Record.Attack, "never stacks to 144")
	assert.Equal(t, int32(100), enemy.Record.Attack)
}

func TestSimulation_DespawnDropsAuraModifiers(t *testing.T) {
	s := newSim(t)
	captain := spawn(s, "captain", model.TeamPlayer, 100, 100, model.V(0, 0), data.ActionAttackAura)
	ally := spawn(s, "ally", model.TeamPlayer, 100, 100, model.V(100, 0))

	ticks(s, 2)
	require.Equal(t, int32(120), ally.Record.Attack)

	require.NoError(t, s.Despawn(captain.ID))
	assert.Equal(t, int32(100), ally.Record.Attack)
	assert.Zero(t, s.Physics().Count())
	assert.ErrorIs(t, s.Despawn(captain.ID), ErrUnitNotFound)

	ticks(s, 2)
	assert.Equal(t, int32(100), ally.Record.Attack)
}

func TestSimulation_GrantSkill(t *testing.T) {
	s := newSim(t)
	u := spawn(s, "u", model.TeamPlayer, 100, 10, model.V(0, 0))

	assert.ErrorIs(t, s.GrantSkill(12345, data.ActionSlash), ErrUnitNotFound)
	assert.ErrorIs(t, s.GrantSkill(u.ID, data.ActionIdle), ErrUnknownAction)
	assert.ErrorIs(t, s.GrantSkill(u.ID, data.ActionID(250)), ErrUnknownAction)

	require.NoError(t, s.GrantSkill(u.ID, data.ActionSlash))
	assert.Equal(t, int32(1), u.Skills.Level(data.ActionSlash))
	require.NoError(t, s.GrantSkill(u.ID, data.ActionSlash))
	assert.Equal(t, int32(2), u.Skills.Level(data.ActionSlash))

	require.NoError(t, s.GrantSkill(u.ID, data.ActionSpeedAura))
	ticks(s, 1)
	assert.InDelta(t, 120.0, u.Record.MovementSpeed, 1e-9)
}

func TestSimulation_CommandValidation(t *testing.T) {
	s := newSim(t)
	u := spawn(s, "u", model.TeamPlayer, 100, 10, model.V(0, 0), data.ActionLifeSteal)

	assert.ErrorIs(t, s.SetCommand(999, model.IdleCommand()), ErrUnitNotFound)
	assert.ErrorIs(t, s.SetCommand(u.ID, model.Command{Action: data.ActionSlash}), ErrUnknownAction, "not learned")
	assert.ErrorIs(t, s.SetCommand(u.ID, model.Command{Action: data.ActionLifeSteal}), ErrUnknownAction, "passive")
	assert.ErrorIs(t, s.Submit(u.ID, model.Command{Action: data.ActionID(200)}), ErrUnknownAction)

	require.NoError(t, s.Submit(u.ID, model.MoveToCommand(model.V(500, 0))))
	assert.Equal(t, model.IdleCommand(), u.Command, "applied at the next tick")
	ticks(s, 1)
	assert.Equal(t, model.MoveToCommand(model.V(500, 0)), u.Command)
	assert.Equal(t, data.ActionMoveTo, u.State.Action)
}

func TestSimulation_PauseFreezesTimers(t *testing.T) {
	s := newSim(t)
	hero := spawn(s, "hero", model.TeamPlayer, 100, 1, model.V(0, 0))
	mob := spawn(s, "mob", model.TeamEnemy, 100, 1, model.V(50, 0))
	require.NoError(t, s.SetCommand(hero.ID, model.AttackCommand(data.ActionAttack, mob.ID)))

	ticks(s, 2)
	before := hero.State
	s.SetPaused(true)
	ticks(s, 20)
	assert.Equal(t, before, hero.State)
	assert.Equal(t, int32(100), mob.Record.HP)

	s.SetPaused(false)
	ticks(s, 4)
	assert.Equal(t, data.PhaseActive, hero.State.Phase)
	assert.Equal(t, int32(99), mob.Record.HP)
}

func TestSimulation_SnapshotRestoreContinuesIdentically(t *testing.T) {
	a := newSim(t)
	hero := spawn(a, "hero", model.TeamPlayer, 100, 3, model.V(0, 0), data.ActionAttackAura)
	mob := spawn(a, "mob", model.TeamEnemy, 100, 2, model.V(60, 0))
	require.NoError(t, a.SetCommand(hero.ID, model.AttackCommand(data.ActionAttack, mob.ID)))
	require.NoError(t, a.SetCommand(mob.ID, model.AttackCommand(data.ActionAttack, hero.ID)))
	ticks(a, 7)

	snaps := a.Snapshot()
	require.Len(t, snaps, 2)
	assert.Equal(t, data.ActionAttack, snaps[0].State.Action)

	b := newSim(t)
	require.NoError(t, b.Restore(snaps))
	assert.Equal(t, snaps, b.Snapshot(), "restore is field assignment only")

	ticks(a, 30)
	ticks(b, 30)
	assert.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestSimulation_RestoreRejectsDuplicates(t *testing.T) {
	s := newSim(t)
	u := spawn(s, "u", model.TeamPlayer, 10, 1, model.V(0, 0))
	snap := u.Snapshot()

	err := New(DefaultOptions()).Restore([]model.UnitSnapshot{snap, snap})
	require.Error(t, err)
}

func TestSimulation_RunAndQuery(t *testing.T) {
	s := newSim(t)
	u := spawn(s, "u", model.TeamPlayer, 10, 1, model.V(0, 0))

	ctx, cancel := testutil.ContextWithCancel(t, 5*time.Second)
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, 5*time.Millisecond) }()

	require.NoError(t, s.Submit(u.ID, model.MoveToCommand(model.V(1000, 0))))

	var snaps []model.UnitSnapshot
	require.Eventually(t, func() bool {
		if err := s.Query(ctx, func(s *Simulation) { snaps = s.Snapshot() }); err != nil {
			return false
		}
		return len(snaps) == 1 && snaps[0].State.Action == data.ActionMoveTo
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Positive(t, s.Ticks())
}
