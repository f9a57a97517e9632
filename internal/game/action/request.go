package action

import (
	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/model"
)

// Source tells who raised a change-request.
type Source uint8

const (
	SourcePlanner Source = iota
	SourceHandler
	SourceCombat
)

func (s Source) String() string {
	switch s {
	case SourcePlanner:
		return "planner"
	case SourceHandler:
		return "handler"
	case SourceCombat:
		return "combat"
	default:
		return "unknown"
	}
}

// ChangeRequest asks the engine to start a new action on a unit.
type ChangeRequest struct {
	Unit    model.UnitID
	Action  data.ActionID
	Command model.Command
	Source  Source
}

// priority orders competing requests for one unit within a tick:
// death beats stun, stun beats everything else.
func (r ChangeRequest) priority() int {
	switch r.Action {
	case data.ActionDead:
		return 2
	case data.ActionStun:
		return 1
	default:
		return 0
	}
}

// Queue — отложенные запросы смены действия. Запросы, поднятые обработчиками
// и боевой системой во время тика, применяются в начале следующего.
type Queue struct {
	reqs []ChangeRequest
}

// Push appends a request.
func (q *Queue) Push(r ChangeRequest) { q.reqs = append(q.reqs, r) }

// Len returns the number of queued requests.
func (q *Queue) Len() int { return len(q.reqs) }

// Drain returns queued requests and empties the queue.
func (q *Queue) Drain() []ChangeRequest {
	out := q.reqs
	q.reqs = nil
	return out
}

// Consolidate reduces requests to at most one per unit. Higher priority wins;
// between equal priorities the later request wins.
func Consolidate(reqs ...[]ChangeRequest) map[model.UnitID]ChangeRequest {
	out := make(map[model.UnitID]ChangeRequest)
	for _, batch := range reqs {
		for _, r := range batch {
			if cur, ok := out[r.Unit]; ok && cur.priority() > r.priority() {
				continue
			}
			out[r.Unit] = r
		}
	}
	return out
}
