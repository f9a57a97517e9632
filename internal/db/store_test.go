package db_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/db"
	"github.com/udisondev/skirmish/internal/game/sim"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/testutil"
)

// battleSnapshot returns units mid-fight: timers running, modifiers applied.
func battleSnapshot(t *testing.T) []model.UnitSnapshot {
	t.Helper()
	s := sim.New(sim.DefaultOptions())
	s.SetRoll(func(int) int { return 99 })
	hero := s.Spawn(model.UnitParams{Name: "hero", Team: model.TeamPlayer, HP: 100, Attack: 10, Speed: 100,
		Position: model.V(0, 0), Skills: []data.ActionID{data.ActionAttackAura, data.ActionSlash}})
	mob := s.Spawn(model.UnitParams{Name: "mob", Team: model.TeamEnemy, HP: 100, Attack: 3, Speed: 100,
		Position: model.V(60, 0)})
	require.NoError(t, s.SetCommand(hero.ID, model.AttackCommand(data.ActionAttack, mob.ID)))
	require.NoError(t, s.SetCommand(mob.ID, model.AttackCommand(data.ActionAttack, hero.ID)))
	for range 7 {
		s.Tick(50 * time.Millisecond)
	}
	return s.Snapshot()
}

func runStoreSuite(t *testing.T, store db.SnapshotStore) {
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	t.Run("round trip", func(t *testing.T) {
		units := battleSnapshot(t)
		id, err := store.SaveSnapshot(ctx, "arena", 7, units)
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, id)

		save, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, save.ID)
		assert.Equal(t, "arena", save.Name)
		assert.Equal(t, uint64(7), save.Tick)
		assert.False(t, save.CreatedAt.IsZero())
		assert.Equal(t, units, save.Units)
	})

	t.Run("latest and list", func(t *testing.T) {
		units := battleSnapshot(t)
		first, err := store.SaveSnapshot(ctx, "campaign", 1, units)
		require.NoError(t, err)
		second, err := store.SaveSnapshot(ctx, "campaign", 2, units[:1])
		require.NoError(t, err)

		latest, err := store.LoadLatest(ctx, "campaign")
		require.NoError(t, err)
		assert.Equal(t, second, latest.ID)
		assert.Len(t, latest.Units, 1)

		list, err := store.List(ctx, "campaign")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second, list[0].ID)
		assert.Equal(t, first, list[1].ID)
	})

	t.Run("delete", func(t *testing.T) {
		id, err := store.SaveSnapshot(ctx, "scratch", 0, battleSnapshot(t))
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, id))
		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, db.ErrSaveNotFound)
		assert.ErrorIs(t, store.Delete(ctx, id), db.ErrSaveNotFound)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := store.LoadLatest(ctx, "never-saved")
		assert.ErrorIs(t, err, db.ErrSaveNotFound)
		_, err = store.Load(ctx, uuid.New())
		assert.ErrorIs(t, err, db.ErrSaveNotFound)

		list, err := store.List(ctx, "never-saved")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := store.SaveSnapshot(ctx, "", 0, nil)
		assert.Error(t, err)
	})

	t.Run("restores into simulation", func(t *testing.T) {
		units := battleSnapshot(t)
		id, err := store.SaveSnapshot(ctx, "resume", 7, units)
		require.NoError(t, err)
		save, err := store.Load(ctx, id)
		require.NoError(t, err)

		s := sim.New(sim.DefaultOptions())
		require.NoError(t, s.Restore(save.Units))
		assert.Equal(t, units, s.Snapshot())
	})
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	store, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "skirmish.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	runStoreSuite(t, store)
}

func TestSQLiteStore_ReopenKeepsSaves(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "skirmish.db")

	store, err := db.Open(ctx, "sqlite", path)
	require.NoError(t, err)
	id, err := store.SaveSnapshot(ctx, "arena", 3, battleSnapshot(t))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = db.Open(ctx, "sqlite", path)
	require.NoError(t, err)
	defer store.Close()
	save, err := store.LoadLatest(ctx, "arena")
	require.NoError(t, err)
	assert.Equal(t, id, save.ID)
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()
	_, err := db.Open(ctx, "mysql", "dsn")
	assert.Error(t, err)
	_, err = db.OpenSQLite(ctx, "  ")
	assert.Error(t, err)
}

func TestPostgresStore(t *testing.T) {
	dsn := testutil.PostgresDSN(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)

	store, err := db.Open(ctx, "postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	runStoreSuite(t, store)
}

func TestSnapshotRepository_SetupTestDB(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := db.NewSnapshotRepository(pool)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	id, err := repo.SaveSnapshot(ctx, "pool", 1, battleSnapshot(t))
	require.NoError(t, err)

	var units int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM save_units WHERE save_id = $1`, id).Scan(&units))
	assert.Equal(t, 2, units)
}
