package world

import (
	"math"

	"github.com/udisondev/skirmish/internal/model"
)

// ShiftBy - shift by N bits for 2^N world units per cell (2^7 = 128).
const ShiftBy = 7

// CellSize in world units.
const CellSize = 1 << ShiftBy

type cellKey struct{ x, y int32 }

// CoordToCell converts a world coordinate to cell indices.
func CoordToCell(p model.Vec2) (cx, cy int32) {
	return int32(math.Floor(p.X)) >> ShiftBy, int32(math.Floor(p.Y)) >> ShiftBy
}

// Grid — пространственный индекс юнитов по ячейкам.
// Перестраивается целиком раз в тик (Rebuild), запросы только читают.
type Grid struct {
	cells map[cellKey][]*model.Unit
}

// NewGrid creates an empty grid.
func NewGrid() *Grid {
	return &Grid{cells: make(map[cellKey][]*model.Unit)}
}

// Rebuild re-indexes all units.
func (g *Grid) Rebuild(units []*model.Unit) {
	for k, v := range g.cells {
		g.cells[k] = v[:0]
	}
	for _, u := range units {
		cx, cy := CoordToCell(u.Position)
		k := cellKey{cx, cy}
		g.cells[k] = append(g.cells[k], u)
	}
}

// Near calls fn for every indexed unit whose cell intersects the square
// bounding the circle (center, radius). Callers filter by exact distance.
// Iteration stops when fn returns false.
func (g *Grid) Near(center model.Vec2, radius float64, fn func(*model.Unit) bool) {
	minX, minY := CoordToCell(center.Sub(model.V(radius, radius)))
	maxX, maxY := CoordToCell(center.Add(model.V(radius, radius)))
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			for _, u := range g.cells[cellKey{cx, cy}] {
				if !fn(u) {
					return
				}
			}
		}
	}
}
