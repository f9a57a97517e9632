package world

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/udisondev/skirmish/internal/model"
)

// World — реестр юнитов симуляции.
// Не потокобезопасен: все изменения идут из одного тика.
type World struct {
	ids   *ObjectIDGenerator
	units map[model.UnitID]*model.Unit
	order []model.UnitID // ascending, deterministic iteration
	grid  *Grid
}

// New creates an empty world.
func New() *World {
	return &World{
		ids:   NewObjectIDGenerator(),
		units: make(map[model.UnitID]*model.Unit),
		grid:  NewGrid(),
	}
}

// IDs returns the world id generator.
func (w *World) IDs() *ObjectIDGenerator { return w.ids }

// Spawn creates a unit from params and registers it.
func (w *World) Spawn(p model.UnitParams) *model.Unit {
	u := model.NewUnit(w.ids.NextUnitID(), p)
	w.insert(u)
	slog.Debug("unit spawned", "unit", u.ID, "name", u.Name, "team", u.Team())
	return u
}

// Add registers an existing unit (restored from a save).
func (w *World) Add(u *model.Unit) error {
	if u.ID == 0 {
		return fmt.Errorf("adding unit %q: zero id", u.Name)
	}
	if _, exists := w.units[u.ID]; exists {
		return fmt.Errorf("adding unit %d: already registered", u.ID)
	}
	w.ids.ObserveUnitID(u.ID)
	w.insert(u)
	return nil
}

func (w *World) insert(u *model.Unit) {
	w.units[u.ID] = u
	i, _ := slices.BinarySearch(w.order, u.ID)
	w.order = slices.Insert(w.order, i, u.ID)
	w.grid.Rebuild(w.Units())
}

// Despawn removes a unit. Reports whether it existed.
func (w *World) Despawn(id model.UnitID) bool {
	if _, ok := w.units[id]; !ok {
		return false
	}
	delete(w.units, id)
	if i, found := slices.BinarySearch(w.order, id); found {
		w.order = slices.Delete(w.order, i, i+1)
	}
	w.grid.Rebuild(w.Units())
	slog.Debug("unit despawned", "unit", id)
	return true
}

// Unit returns the unit by id.
func (w *World) Unit(id model.UnitID) (*model.Unit, bool) {
	u, ok := w.units[id]
	return u, ok
}

// Units returns all units ordered by id.
func (w *World) Units() []*model.Unit {
	out := make([]*model.Unit, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.units[id])
	}
	return out
}

// Count returns the number of registered units.
func (w *World) Count() int { return len(w.units) }

// Lookup reports the position and alive flag of a unit; ok is false when it
// does not exist.
func (w *World) Lookup(id model.UnitID) (pos model.Vec2, alive bool, ok bool) {
	u, exists := w.units[id]
	if !exists {
		return model.Vec2{}, false, false
	}
	return u.Position, u.Record.Alive, true
}

// Reindex refreshes the spatial index after movement.
func (w *World) Reindex() { w.grid.Rebuild(w.Units()) }

// InRadius calls fn for every unit whose centre lies within radius of center,
// in ascending id order of the grid cells. Stops when fn returns false.
func (w *World) InRadius(center model.Vec2, radius float64, fn func(*model.Unit) bool) {
	r2 := radius * radius
	w.grid.Near(center, radius, func(u *model.Unit) bool {
		if _, live := w.units[u.ID]; !live {
			return true
		}
		if u.Position.DistSq(center) > r2 {
			return true
		}
		return fn(u)
	})
}
