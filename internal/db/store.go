package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/skirmish/internal/model"
)

// ErrSaveNotFound is returned when no save matches the lookup.
var ErrSaveNotFound = errors.New("save not found")

// SaveInfo describes a stored save without its units.
type SaveInfo struct {
	ID        uuid.UUID
	Name      string
	Tick      uint64
	CreatedAt time.Time
}

// Save is a stored simulation snapshot.
type Save struct {
	SaveInfo
	Units []model.UnitSnapshot
}

// SnapshotStore persists simulation saves.
type SnapshotStore interface {
	// SaveSnapshot stores units under name and returns the new save id.
	SaveSnapshot(ctx context.Context, name string, tick uint64, units []model.UnitSnapshot) (uuid.UUID, error)
	// Load returns a save by id.
	Load(ctx context.Context, id uuid.UUID) (*Save, error)
	// LoadLatest returns the newest save with name.
	LoadLatest(ctx context.Context, name string) (*Save, error)
	// List returns saves with name, newest first.
	List(ctx context.Context, name string) ([]SaveInfo, error)
	// Delete removes a save and its units.
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}

// Open connects to the store for driver ("postgres" or "sqlite") and applies
// migrations.
func Open(ctx context.Context, driver, dsn string) (SnapshotStore, error) {
	switch driver {
	case "postgres":
		if err := RunMigrations(ctx, dsn); err != nil {
			return nil, err
		}
		d, err := New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return &PostgresStore{db: d, SnapshotRepository: NewSnapshotRepository(d.Pool())}, nil
	case "sqlite":
		return OpenSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}

// PostgresStore is a SnapshotRepository owning its pool.
type PostgresStore struct {
	*SnapshotRepository
	db *DB
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

// newSave validates input and allocates the save header.
func newSave(name string, tick uint64) (SaveInfo, error) {
	if name == "" {
		return SaveInfo{}, fmt.Errorf("save name is required")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return SaveInfo{}, fmt.Errorf("generating save id: %w", err)
	}
	return SaveInfo{
		ID:        id,
		Name:      name,
		Tick:      tick,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}, nil
}

func encodeUnit(u model.UnitSnapshot) ([]byte, error) {
	raw, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("encoding unit %d: %w", u.ID, err)
	}
	return raw, nil
}

func decodeUnit(raw []byte) (model.UnitSnapshot, error) {
	var u model.UnitSnapshot
	if err := json.Unmarshal(raw, &u); err != nil {
		return u, fmt.Errorf("decoding unit: %w", err)
	}
	return u, nil
}
