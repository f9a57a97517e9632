package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_EveryActionHasDescriptor(t *testing.T) {
	t.Parallel()

	for _, id := range AllActions() {
		d := Describe(id)
		if d.ID != id {
			t.Errorf("Describe(%s).ID = %s", id, d.ID)
		}
		if d.Name == "" {
			t.Errorf("Describe(%d) has empty name", id)
		}
		if d.Behavior >= behaviorCount {
			t.Errorf("%s: behavior %d out of range", id, d.Behavior)
		}
	}
}

func TestDescribe_PhaseConsistency(t *testing.T) {
	t.Parallel()

	for _, id := range AllActions() {
		d := Describe(id)
		switch d.InitialPhase {
		case PhaseStartup:
			if !d.Startup.IsSet() {
				t.Errorf("%s starts in Startup without a startup timer", id)
			}
		case PhaseActive:
			if d.Startup.IsSet() {
				t.Errorf("%s starts Active but declares a startup timer", id)
			}
		case PhaseRecover:
			t.Errorf("%s: no action starts in Recover", id)
		}
		if d.Active.IsSet() && !d.Recover.IsSet() {
			t.Errorf("%s: timed active phase needs a recover timer", id)
		}
	}
}

func TestDescribe_Passives(t *testing.T) {
	t.Parallel()

	passives := []ActionID{
		ActionLifeSteal, ActionCriticalHit, ActionDiffusion, ActionFrostBall,
		ActionSmashWave, ActionHealAura, ActionAttackAura, ActionSpeedAura,
	}
	for _, id := range passives {
		d := Describe(id)
		assert.True(t, d.IsPassive(), "%s must be passive", id)
		assert.Equal(t, PhaseActive, d.InitialPhase, id.String())
		assert.False(t, d.Active.IsSet(), "%s must have untimed active phase", id)
		assert.False(t, d.Cancelable, id.String())
	}
}

func TestDescribe_Attack(t *testing.T) {
	t.Parallel()

	d := Describe(ActionAttack)
	startup, ok := d.Startup.Get()
	require.True(t, ok)
	assert.Equal(t, 200*time.Millisecond, startup)

	active, ok := d.Active.Get()
	require.True(t, ok)
	assert.Equal(t, 200*time.Millisecond, active)

	rec, ok := d.Recover.Get()
	require.True(t, ok)
	assert.Equal(t, 200*time.Millisecond, rec)

	assert.True(t, d.Cancelable)
	assert.Equal(t, TargetUnit, d.Target)
	assert.True(t, d.HasRange())
	assert.InDelta(t, 100.0, d.TargetRange, 1e-9)
}

func TestDescribe_TerminalActionsNotCancelable(t *testing.T) {
	t.Parallel()

	for _, id := range []ActionID{ActionDead, ActionStun} {
		d := Describe(id)
		if d.Cancelable {
			t.Errorf("%s must not be cancelable", id)
		}
		if d.InitialPhase != PhaseActive || d.Active.IsSet() {
			t.Errorf("%s must enter an untimed active phase", id)
		}
	}
}

func TestDescribe_HitVolumeActions(t *testing.T) {
	t.Parallel()

	for _, id := range AllActions() {
		d := Describe(id)
		switch d.Behavior {
		case BehaviorMelee, BehaviorDash, BehaviorProjectile, BehaviorNova,
			BehaviorBurstFire, BehaviorHook, BehaviorBlast, BehaviorSummon, BehaviorChannel:
			if d.Hit == nil {
				t.Errorf("%s (%s) requires a hit spec", id, d.Behavior)
				continue
			}
			if d.Hit.Lifespan <= 0 {
				t.Errorf("%s: hit-volume lifespan must be positive", id)
			}
		}
	}
}

func TestDescribe_UnknownPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { Describe(actionCount) })
	assert.Panics(t, func() { Describe(ActionID(255)) })
}

func TestActionID_Text(t *testing.T) {
	t.Parallel()

	seen := make(map[string]ActionID)
	for _, id := range AllActions() {
		text, err := id.MarshalText()
		require.NoError(t, err)
		if prev, dup := seen[string(text)]; dup {
			t.Fatalf("duplicate name %q for %d and %d", text, prev, id)
		}
		seen[string(text)] = id

		var parsed ActionID
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, id, parsed)
	}

	var bad ActionID
	assert.Error(t, bad.UnmarshalText([]byte("Teleport")))
	_, err := actionCount.MarshalText()
	assert.Error(t, err)
}

func TestValue_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value Value
		level int32
		want  int32
	}{
		{"fixed ignores level", Fixed(7), 3, 7},
		{"multiply level 1", Multiply(20), 1, 20},
		{"multiply level 3", Multiply(20), 3, 60},
		{"multiply clamps level 0", Multiply(5), 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Get(tt.level))
		})
	}
}
