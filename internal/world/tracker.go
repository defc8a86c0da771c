package world

import (
	"go.uber.org/zap"
)

// Tracker is the single source of truth for which entities currently exist,
// what kind they are, and where they stand. Lookups are O(1) by id, and the
// per-kind views answer "all entities of kind K" without scanning the whole
// population.
//
// Dying is a two-step affair: MarkDead drops the entity from its kind view
// and the spatial index the instant it dies, but the record itself stays
// readable until Sweep runs at the end of the tick, so same-tick observers
// can still inspect the corpse (hp, death position). Accessed only from the
// tick goroutine, no locks.
type Tracker struct {
	entities map[ID]*Entity
	byKind   map[Kind]map[ID]struct{}
	grid     *grid
	dead     []ID // corpses awaiting Sweep
	nearBuf  []ID // reusable proximity query buffer
	log      *zap.Logger
}

func NewTracker(cellSize float64, log *zap.Logger) *Tracker {
	return &Tracker{
		entities: make(map[ID]*Entity, 1024),
		byKind:   make(map[Kind]map[ID]struct{}, 8),
		grid:     newGrid(cellSize),
		log:      log,
	}
}

// Register admits a new entity with full hp. Invalid spawns and duplicate
// ids are rejected as logged no-ops; neither can corrupt the views.
func (t *Tracker) Register(sp Spawn) bool {
	if err := sp.validate(); err != nil {
		t.log.Warn("spawn rejected",
			zap.String("id", string(sp.ID)),
			zap.Error(err))
		return false
	}
	if _, ok := t.entities[sp.ID]; ok {
		t.log.Debug("duplicate entity registration",
			zap.String("id", string(sp.ID)))
		return false
	}
	e := &Entity{
		ID:    sp.ID,
		Kind:  sp.Kind,
		Pos:   sp.Pos,
		HP:    sp.MaxHP,
		MaxHP: sp.MaxHP,
		Alive: true,
		Tier:  sp.Tier,
	}
	t.entities[sp.ID] = e
	t.kindSet(sp.Kind)[sp.ID] = struct{}{}
	t.grid.add(sp.ID, sp.Pos)
	return true
}

// Unregister fully removes an entity, corpse or live. Unknown ids are a
// tolerated no-op: two collaborators may race to remove the same dying
// entity.
func (t *Tracker) Unregister(id ID) {
	e, ok := t.entities[id]
	if !ok {
		t.log.Debug("unregister unknown entity", zap.String("id", string(id)))
		return
	}
	if e.Alive {
		delete(t.byKind[e.Kind], id)
		t.grid.remove(id, e.Pos)
	}
	delete(t.entities, id)
}

// MarkDead flips an entity to dead exactly once, dropping it from its kind
// view and the spatial index. The record stays until Sweep.
func (t *Tracker) MarkDead(id ID) {
	e, ok := t.entities[id]
	if !ok || !e.Alive {
		return
	}
	e.Alive = false
	delete(t.byKind[e.Kind], id)
	t.grid.remove(id, e.Pos)
	t.dead = append(t.dead, id)
}

// Sweep purges every record marked dead since the last sweep and reports how
// many went. Runs once per tick in the cleanup phase.
func (t *Tracker) Sweep() int {
	n := 0
	for i, id := range t.dead {
		if e, ok := t.entities[id]; ok && !e.Alive {
			delete(t.entities, id)
			n++
		}
		t.dead[i] = ""
	}
	t.dead = t.dead[:0]
	return n
}

// UpdatePosition moves a live entity and keeps the spatial index in step.
// Unknown or dead ids are ignored.
func (t *Tracker) UpdatePosition(id ID, pos Vec2) {
	e, ok := t.entities[id]
	if !ok || !e.Alive {
		return
	}
	old := e.Pos
	e.Pos = pos
	t.grid.move(id, old, pos)
}

// Get returns the record for id, or nil when unknown. Corpses remain
// readable until swept; callers check Alive.
func (t *Tracker) Get(id ID) *Entity {
	return t.entities[id]
}

// KindCount reports how many live entities of kind exist, O(1).
func (t *Tracker) KindCount(kind Kind) int {
	return len(t.byKind[kind])
}

// Count reports all records, corpses included.
func (t *Tracker) Count() int {
	return len(t.entities)
}

// EachOfKind visits every live entity of kind. Returning false from fn stops
// the walk. Obtaining the view is O(1); the walk is O(k). Iteration order is
// unspecified, so per-tick logic that needs a deterministic order iterates
// its own roster instead.
func (t *Tracker) EachOfKind(kind Kind, fn func(*Entity) bool) {
	for id := range t.byKind[kind] {
		if !fn(t.entities[id]) {
			return
		}
	}
}

// KindIDsInto fills buf (reset to length zero) with the ids of every live
// entity of kind and returns it. Callers reuse buf across ticks.
func (t *Tracker) KindIDsInto(kind Kind, buf []ID) []ID {
	buf = buf[:0]
	for id := range t.byKind[kind] {
		buf = append(buf, id)
	}
	return buf
}

// NearestOfKind returns the closest live entity of kind within radius of
// from, or nil when nothing qualifies. exclude skips one id (pass "" for
// none). Distance ties break toward the smaller id so target choice does not
// depend on map iteration order.
func (t *Tracker) NearestOfKind(kind Kind, from Vec2, radius float64, exclude ID) *Entity {
	t.nearBuf = t.grid.nearbyInto(from, radius, t.nearBuf)
	var best *Entity
	bestD := radius * radius
	for _, id := range t.nearBuf {
		if id == exclude {
			continue
		}
		e := t.entities[id]
		if e == nil || !e.Alive || e.Kind != kind {
			continue
		}
		d := e.Pos.DistSq(from)
		if d > bestD {
			continue
		}
		if d == bestD && best != nil && e.ID >= best.ID {
			continue
		}
		best = e
		bestD = d
	}
	return best
}

// ClearKind bulk-removes every entity of the given kind, corpses included.
// Scene-level teardown path; the full scan is fine off the hot path.
func (t *Tracker) ClearKind(kind Kind) int {
	n := 0
	for id, e := range t.entities {
		if e.Kind != kind {
			continue
		}
		if e.Alive {
			delete(t.byKind[kind], id)
			t.grid.remove(id, e.Pos)
		}
		delete(t.entities, id)
		n++
	}
	return n
}

// Reset drops every record and view, keeping allocated capacity where the
// runtime allows.
func (t *Tracker) Reset() {
	clear(t.entities)
	clear(t.byKind)
	t.grid.clear()
	t.dead = t.dead[:0]
}

func (t *Tracker) kindSet(kind Kind) map[ID]struct{} {
	set := t.byKind[kind]
	if set == nil {
		set = make(map[ID]struct{}, 64)
		t.byKind[kind] = set
	}
	return set
}
