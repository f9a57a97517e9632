package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/udisondev/skirmish/internal/model"
)

// SQLiteStore persists saves in an embedded SQLite database.
type SQLiteStore struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenSQLite opens a SQLite store at path and applies embedded migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// pragmas are per connection
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	} {
		if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if err := MigrateSQL(ctx, sqlDB, "sqlite3"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveSnapshot writes the save header and every unit in one transaction.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, name string, tick uint64, units []model.UnitSnapshot) (uuid.UUID, error) {
	info, err := newSave(name, tick)
	if err != nil {
		return uuid.Nil, err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("rollback failed", "save", info.ID, "error", err)
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO saves (id, name, tick, created_at) VALUES (?, ?, ?, ?)`,
		info.ID.String(), info.Name, int64(info.Tick), toMillis(info.CreatedAt),
	); err != nil {
		return uuid.Nil, fmt.Errorf("inserting save %q: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO save_units (save_id, unit_id, name, state) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return uuid.Nil, fmt.Errorf("preparing unit insert: %w", err)
	}
	defer stmt.Close()
	for _, u := range units {
		raw, err := encodeUnit(u)
		if err != nil {
			return uuid.Nil, err
		}
		if _, err := stmt.ExecContext(ctx, info.ID.String(), int64(u.ID), u.Name, string(raw)); err != nil {
			return uuid.Nil, fmt.Errorf("inserting unit %d of save %q: %w", u.ID, name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("committing save %q: %w", name, err)
	}
	slog.Debug("save stored", "save", info.ID, "name", name, "tick", tick, "units", len(units))
	return info.ID, nil
}

// Load returns a save by id.
func (s *SQLiteStore) Load(ctx context.Context, id uuid.UUID) (*Save, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, tick, created_at FROM saves WHERE id = ?`, id.String())
	info, err := scanSaveInfo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("loading save %s: %w", id, ErrSaveNotFound)
		}
		return nil, fmt.Errorf("querying save %s: %w", id, err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT state FROM save_units WHERE save_id = ? ORDER BY unit_id`, id.String())
	if err != nil {
		return nil, fmt.Errorf("querying units of save %s: %w", id, err)
	}
	defer rows.Close()

	save := &Save{SaveInfo: info, Units: make([]model.UnitSnapshot, 0, 16)}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning unit row: %w", err)
		}
		u, err := decodeUnit([]byte(raw))
		if err != nil {
			return nil, err
		}
		save.Units = append(save.Units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating unit rows: %w", err)
	}
	return save, nil
}

// LoadLatest returns the newest save with name.
func (s *SQLiteStore) LoadLatest(ctx context.Context, name string) (*Save, error) {
	var raw string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id FROM saves WHERE name = ? ORDER BY created_at DESC, id DESC LIMIT 1`, name,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("loading latest save %q: %w", name, ErrSaveNotFound)
		}
		return nil, fmt.Errorf("querying latest save %q: %w", name, err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing save id %q: %w", raw, err)
	}
	return s.Load(ctx, id)
}

// List returns saves with name, newest first.
func (s *SQLiteStore) List(ctx context.Context, name string) ([]SaveInfo, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, tick, created_at FROM saves WHERE name = ? ORDER BY created_at DESC, id DESC`, name)
	if err != nil {
		return nil, fmt.Errorf("querying saves %q: %w", name, err)
	}
	defer rows.Close()

	var out []SaveInfo
	for rows.Next() {
		info, err := scanSaveInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning save row: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating save rows: %w", err)
	}
	return out, nil
}

// Delete removes a save and its units.
func (s *SQLiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM saves WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting save %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting save %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("deleting save %s: %w", id, ErrSaveNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSaveInfo(row rowScanner) (SaveInfo, error) {
	var (
		info      SaveInfo
		rawID     string
		tick      int64
		createdAt int64
	)
	if err := row.Scan(&rawID, &info.Name, &tick, &createdAt); err != nil {
		return info, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return info, fmt.Errorf("parsing save id %q: %w", rawID, err)
	}
	info.ID = id
	info.Tick = uint64(tick)
	info.CreatedAt = fromMillis(createdAt)
	return info, nil
}
