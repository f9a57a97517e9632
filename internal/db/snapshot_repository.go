package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/skirmish/internal/model"
)

// SnapshotRepository хранит сейвы симуляции в PostgreSQL.
// Юниты лежат в save_units как JSONB, по строке на юнит.
type SnapshotRepository struct {
	db *pgxpool.Pool
}

// NewSnapshotRepository создаёт новый SnapshotRepository.
func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// SaveSnapshot writes the save header and every unit in one transaction.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, name string, tick uint64, units []model.UnitSnapshot) (uuid.UUID, error) {
	info, err := newSave(name, tick)
	if err != nil {
		return uuid.Nil, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "save", info.ID, "error", err)
		}
	}()

	if _, err := tx.Exec(ctx,
		`INSERT INTO saves (id, name, tick, created_at) VALUES ($1, $2, $3, $4)`,
		info.ID, info.Name, int64(info.Tick), info.CreatedAt,
	); err != nil {
		return uuid.Nil, fmt.Errorf("inserting save %q: %w", name, err)
	}

	batch := &pgx.Batch{}
	for _, u := range units {
		raw, err := encodeUnit(u)
		if err != nil {
			return uuid.Nil, err
		}
		batch.Queue(`INSERT INTO save_units (save_id, unit_id, name, state) VALUES ($1, $2, $3, $4)`,
			info.ID, int64(u.ID), u.Name, raw)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return uuid.Nil, fmt.Errorf("inserting units of save %q: %w", name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("committing save %q: %w", name, err)
	}

	slog.Debug("save stored", "save", info.ID, "name", name, "tick", tick, "units", len(units))
	return info.ID, nil
}

// Load returns a save by id.
func (r *SnapshotRepository) Load(ctx context.Context, id uuid.UUID) (*Save, error) {
	var (
		s    Save
		tick int64
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, name, tick, created_at FROM saves WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &tick, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("loading save %s: %w", id, ErrSaveNotFound)
		}
		return nil, fmt.Errorf("querying save %s: %w", id, err)
	}
	s.Tick = uint64(tick)
	s.CreatedAt = s.CreatedAt.UTC()

	if s.Units, err = r.loadUnits(ctx, id); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadLatest returns the newest save with name.
func (r *SnapshotRepository) LoadLatest(ctx context.Context, name string) (*Save, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`SELECT id FROM saves WHERE name = $1 ORDER BY created_at DESC, id DESC LIMIT 1`, name,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("loading latest save %q: %w", name, ErrSaveNotFound)
		}
		return nil, fmt.Errorf("querying latest save %q: %w", name, err)
	}
	return r.Load(ctx, id)
}

func (r *SnapshotRepository) loadUnits(ctx context.Context, id uuid.UUID) ([]model.UnitSnapshot, error) {
	rows, err := r.db.Query(ctx,
		`SELECT state FROM save_units WHERE save_id = $1 ORDER BY unit_id`, id)
	if err != nil {
		return nil, fmt.Errorf("querying units of save %s: %w", id, err)
	}
	defer rows.Close()

	units := make([]model.UnitSnapshot, 0, 16)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning unit row: %w", err)
		}
		u, err := decodeUnit(raw)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating unit rows: %w", err)
	}
	return units, nil
}

// List returns saves with name, newest first.
func (r *SnapshotRepository) List(ctx context.Context, name string) ([]SaveInfo, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, tick, created_at FROM saves WHERE name = $1 ORDER BY created_at DESC, id DESC`, name)
	if err != nil {
		return nil, fmt.Errorf("querying saves %q: %w", name, err)
	}
	defer rows.Close()

	var out []SaveInfo
	for rows.Next() {
		var (
			info SaveInfo
			tick int64
		)
		if err := rows.Scan(&info.ID, &info.Name, &tick, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning save row: %w", err)
		}
		info.Tick = uint64(tick)
		info.CreatedAt = info.CreatedAt.UTC()
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating save rows: %w", err)
	}
	return out, nil
}

// Delete removes a save; units go with it through ON DELETE CASCADE.
func (r *SnapshotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM saves WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting save %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting save %s: %w", id, ErrSaveNotFound)
	}
	return nil
}
