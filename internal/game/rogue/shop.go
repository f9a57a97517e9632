package rogue

import (
	"errors"
	"fmt"

	"github.com/udisondev/skirmish/internal/data"
)

var (
	ErrNoSlot        = errors.New("no such shop slot")
	ErrSlotEmpty     = errors.New("shop slot is empty")
	ErrNotEnoughGold = errors.New("not enough gold")
)

// Offers are the skills the shop draws from.
var Offers = []data.ActionID{
	data.ActionDeadFinger,
	data.ActionThunder,
	data.ActionLifeDrain,
	data.ActionDiffusion,
	data.ActionFrostBall,
	data.ActionSmashWave,
	data.ActionHealAura,
	data.ActionAttackAura,
	data.ActionSpeedAura,
}

// Shop holds a fixed number of slots restocked after every wave.
// A bought slot stays empty until the next Refresh.
type Shop struct {
	price int
	slots []data.ActionID // ActionIdle marks an empty slot
}

// NewShop creates an empty shop with n slots.
func NewShop(n, price int) *Shop {
	return &Shop{price: price, slots: make([]data.ActionID, n)}
}

// Refresh draws a random offer for every slot.
func (sh *Shop) Refresh(roll func(n int) int) {
	for i := range sh.slots {
		sh.slots[i] = Offers[roll(len(Offers))]
	}
}

// Slots returns a copy of the slots.
func (sh *Shop) Slots() []data.ActionID {
	out := make([]data.ActionID, len(sh.slots))
	copy(out, sh.slots)
	return out
}

// Price of any offer.
func (sh *Shop) Price() int { return sh.price }

// offer checks that slot can be bought with gold.
func (sh *Shop) offer(slot, gold int) (data.ActionID, error) {
	if slot < 0 || slot >= len(sh.slots) {
		return 0, fmt.Errorf("%w: %d", ErrNoSlot, slot)
	}
	act := sh.slots[slot]
	if act == data.ActionIdle {
		return 0, fmt.Errorf("%w: %d", ErrSlotEmpty, slot)
	}
	if gold < sh.price {
		return 0, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughGold, gold, sh.price)
	}
	return act, nil
}

func (sh *Shop) take(slot int) { sh.slots[slot] = data.ActionIdle }
