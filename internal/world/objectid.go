package world

import (
	"sync/atomic"

	"github.com/udisondev/skirmish/internal/model"
)

// VolumeID — идентификатор хит-объёма, снаряда, зоны или сенсора.
type VolumeID uint32

// ObjectIDGenerator generates unique ids for units and spawned volumes.
//
// ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: Reserved (0 = invalid)
//	0x10000000 - 0x2FFFFFFF: Units
//	0x30000000 - 0xFFFFFFFF: Volumes (hit-volumes, projectiles, zones, sensors)
type ObjectIDGenerator struct {
	nextUnitID   atomic.Uint32
	nextVolumeID atomic.Uint32
}

const (
	unitIDBase   = 0x10000000
	volumeIDBase = 0x30000000
)

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	gen := &ObjectIDGenerator{}
	gen.nextUnitID.Store(unitIDBase)
	gen.nextVolumeID.Store(volumeIDBase)
	return gen
}

// NextUnitID generates next unique unit ID.
func (g *ObjectIDGenerator) NextUnitID() model.UnitID {
	return model.UnitID(g.nextUnitID.Add(1))
}

// NextVolumeID generates next unique volume ID.
func (g *ObjectIDGenerator) NextVolumeID() VolumeID {
	return VolumeID(g.nextVolumeID.Add(1))
}

// ObserveUnitID advances the unit counter past id (used when restoring saved units).
func (g *ObjectIDGenerator) ObserveUnitID(id model.UnitID) {
	for {
		cur := g.nextUnitID.Load()
		if uint32(id) <= cur {
			return
		}
		if g.nextUnitID.CompareAndSwap(cur, uint32(id)) {
			return
		}
	}
}
