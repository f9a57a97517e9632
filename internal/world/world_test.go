package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/skirmish/internal/model"
)

func TestWorld_SpawnDespawn(t *testing.T) {
	w := New()

	a := w.Spawn(model.UnitParams{Name: "a", HP: 10, Position: model.V(0, 0)})
	b := w.Spawn(model.UnitParams{Name: "b", HP: 10, Team: model.TeamEnemy, Position: model.V(50, 0)})
	require.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, w.Count())

	got, ok := w.Unit(b.ID)
	require.True(t, ok)
	assert.Same(t, b, got)

	units := w.Units()
	require.Len(t, units, 2)
	assert.Less(t, units[0].ID, units[1].ID, "units must be ordered by id")

	assert.True(t, w.Despawn(a.ID))
	assert.False(t, w.Despawn(a.ID))
	_, ok = w.Unit(a.ID)
	assert.False(t, ok)
}

func TestWorld_Lookup(t *testing.T) {
	w := New()
	u := w.Spawn(model.UnitParams{Name: "a", HP: 10, Position: model.V(3, 4)})

	pos, alive, ok := w.Lookup(u.ID)
	assert.True(t, ok)
	assert.True(t, alive)
	assert.Equal(t, model.V(3, 4), pos)

	u.Record.Alive = false
	_, alive, _ = w.Lookup(u.ID)
	assert.False(t, alive)

	_, _, ok = w.Lookup(12345)
	assert.False(t, ok)
}

func TestWorld_AddRestored(t *testing.T) {
	w := New()
	restored := model.NewUnit(0x10000010, model.UnitParams{Name: "saved", HP: 5})
	require.NoError(t, w.Add(restored))
	assert.Error(t, w.Add(restored), "duplicate id")
	assert.Error(t, w.Add(model.NewUnit(0, model.UnitParams{})), "zero id")

	next := w.Spawn(model.UnitParams{Name: "fresh", HP: 5})
	assert.Greater(t, next.ID, restored.ID, "generator must skip restored ids")
}

func TestWorld_InRadius(t *testing.T) {
	w := New()
	near := w.Spawn(model.UnitParams{Name: "near", HP: 1, Position: model.V(100, 100)})
	edge := w.Spawn(model.UnitParams{Name: "edge", HP: 1, Position: model.V(100, 200)})
	w.Spawn(model.UnitParams{Name: "far", HP: 1, Position: model.V(1000, 1000)})

	var found []model.UnitID
	w.InRadius(model.V(100, 100), 100, func(u *model.Unit) bool {
		found = append(found, u.ID)
		return true
	})
	assert.ElementsMatch(t, []model.UnitID{near.ID, edge.ID}, found)

	count := 0
	w.InRadius(model.V(100, 100), 500, func(*model.Unit) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count, "iteration must stop when fn returns false")
}

func TestCoordToCell(t *testing.T) {
	tests := []struct {
		name   string
		p      model.Vec2
		cx, cy int32
	}{
		{"origin", model.V(0, 0), 0, 0},
		{"inside first cell", model.V(CellSize-1, 5), 0, 0},
		{"next cell", model.V(CellSize, CellSize), 1, 1},
		{"negative", model.V(-1, -CellSize-1), -1, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cx, cy := CoordToCell(tt.p)
			if cx != tt.cx || cy != tt.cy {
				t.Errorf("CoordToCell(%v) = (%d, %d), want (%d, %d)", tt.p, cx, cy, tt.cx, tt.cy)
			}
		})
	}
}
