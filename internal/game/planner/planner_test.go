package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/game/action"
	"github.com/udisondev/skirmish/internal/model"
)

type fakePositions map[model.UnitID]struct {
	pos   model.Vec2
	alive bool
}

func (f fakePositions) Lookup(id model.UnitID) (model.Vec2, bool, bool) {
	e, ok := f[id]
	return e.pos, e.alive, ok
}

func idleUnit() *model.Unit {
	u := model.NewUnit(1, model.UnitParams{Name: "hero", HP: 10, Attack: 1, Speed: 100})
	u.State.HasCommand = true // settled in Idle
	return u
}

func TestPlan_NotCancelable(t *testing.T) {
	u := idleUnit()
	u.State = model.UnitState{Action: data.ActionSlash, Phase: data.PhaseRecover, Remaining: 100 * time.Millisecond, Timed: true, HasCommand: true}
	u.Command = model.PositionCommand(data.ActionIceSpear, model.V(10, 0))

	_, ok := Plan(u, fakePositions{})
	assert.False(t, ok, "non-cancelable action must block the planner")
}

func TestPlan_RecoverBlocksUntilIdle(t *testing.T) {
	e := action.NewEngine()
	u := idleUnit()
	u.Skills.Grant(data.ActionSlash)
	u.Command = model.AttackCommand(data.ActionSlash, 2)
	others := fakePositions{2: {pos: model.V(30, 0), alive: true}}

	var log action.Log
	r, ok := Plan(u, others)
	require.True(t, ok)
	e.Step([]*model.Unit{u}, 50*time.Millisecond, false, action.Consolidate([]action.ChangeRequest{r}), &log)
	require.Equal(t, data.ActionSlash, u.State.Action)

	u.Command = model.MoveToCommand(model.V(500, 500))
	for u.State.Action == data.ActionSlash {
		_, ok := Plan(u, others)
		require.False(t, ok, "planner emitted while in %s", u.State.Phase)
		log.Reset()
		e.Step([]*model.Unit{u}, 50*time.Millisecond, false, nil, &log)
	}

	r, ok = Plan(u, others)
	require.True(t, ok)
	assert.Equal(t, data.ActionMoveTo, r.Action)
}

func TestPlan_Idempotent(t *testing.T) {
	u := idleUnit()
	u.Command = model.Command{Action: data.ActionStop}

	r, ok := Plan(u, fakePositions{})
	require.True(t, ok)
	assert.Equal(t, data.ActionStop, r.Action)
	assert.Equal(t, action.SourcePlanner, r.Source)

	u.State.Action = data.ActionStop
	u.State.Command = u.Command
	_, ok = Plan(u, fakePositions{})
	assert.False(t, ok, "same command must not be resubmitted")
}

func TestPlan_UnitTarget(t *testing.T) {
	tests := []struct {
		name       string
		others     fakePositions
		target     model.UnitID
		wantOK     bool
		wantAction data.ActionID
		wantCmd    data.ActionID
	}{
		{
			name:       "in range",
			others:     fakePositions{2: {pos: model.V(60, 80), alive: true}},
			target:     2,
			wantOK:     true,
			wantAction: data.ActionAttack,
			wantCmd:    data.ActionAttack,
		},
		{
			name:       "out of range moves",
			others:     fakePositions{2: {pos: model.V(300, 0), alive: true}},
			target:     2,
			wantOK:     true,
			wantAction: data.ActionMoveTo,
			wantCmd:    data.ActionAttack,
		},
		{
			name:    "dead target",
			others:  fakePositions{2: {pos: model.V(10, 0), alive: false}},
			target:  2,
			wantCmd: data.ActionIdle,
		},
		{
			name:    "missing target",
			others:  fakePositions{},
			target:  2,
			wantCmd: data.ActionIdle,
		},
		{
			name:    "no target",
			others:  fakePositions{},
			wantCmd: data.ActionIdle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := idleUnit()
			u.Command = model.AttackCommand(data.ActionAttack, tt.target)

			r, ok := Plan(u, tt.others)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantAction, r.Action)
				assert.Equal(t, u.ID, r.Unit)
			}
			assert.Equal(t, tt.wantCmd, u.Command.Action, "command after planning")
		})
	}
}

func TestPlan_MoveToCarriesTargetPosition(t *testing.T) {
	u := idleUnit()
	u.Command = model.AttackCommand(data.ActionAttack, 2)
	others := fakePositions{2: {pos: model.V(400, 0), alive: true}}

	r, ok := Plan(u, others)
	require.True(t, ok)
	assert.True(t, r.Command.HasPosition)
	assert.Equal(t, model.V(400, 0), r.Command.Position)

	// once the synthetic move is running it is not resubmitted for a still target
	u.State.Action = data.ActionMoveTo
	u.State.Phase = data.PhaseActive
	u.State.Command = r.Command
	_, ok = Plan(u, others)
	assert.False(t, ok)

	// the target moved: re-evaluate
	others[2] = struct {
		pos   model.Vec2
		alive bool
	}{model.V(400, 50), true}
	r, ok = Plan(u, others)
	require.True(t, ok)
	assert.Equal(t, model.V(400, 50), r.Command.Position)
}

func TestPlan_PositionTargetWithoutRange(t *testing.T) {
	u := idleUnit()
	u.Skills.Grant(data.ActionIceSpear)
	u.Command = model.PositionCommand(data.ActionIceSpear, model.V(5000, 0))

	r, ok := Plan(u, fakePositions{})
	require.True(t, ok)
	assert.Equal(t, data.ActionIceSpear, r.Action, "unlimited range never walks")
}

func TestPlanAll(t *testing.T) {
	a := idleUnit()
	a.Command = model.Command{Action: data.ActionStop}
	b := model.NewUnit(2, model.UnitParams{Name: "b", HP: 5})
	b.State.HasCommand = true

	reqs := PlanAll([]*model.Unit{a, b}, fakePositions{})
	require.Len(t, reqs, 1)
	assert.Equal(t, model.UnitID(1), reqs[0].Unit)
}
