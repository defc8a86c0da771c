package world

import "math"

// grid is a coarse cell occupancy index over arena space, used to answer
// proximity queries (fire control, steering) without scanning every entity.
// Accessed only from the tick goroutine, no locks.

type cellKey struct {
	cx int32
	cy int32
}

type grid struct {
	cellSize float64
	cells    map[cellKey]map[ID]struct{}
}

func newGrid(cellSize float64) *grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &grid{
		cellSize: cellSize,
		cells:    make(map[cellKey]map[ID]struct{}),
	}
}

func (g *grid) key(p Vec2) cellKey {
	return cellKey{
		cx: int32(math.Floor(p.X / g.cellSize)),
		cy: int32(math.Floor(p.Y / g.cellSize)),
	}
}

func (g *grid) add(id ID, p Vec2) {
	k := g.key(p)
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[ID]struct{}, 4)
		g.cells[k] = cell
	}
	cell[id] = struct{}{}
}

func (g *grid) remove(id ID, p Vec2) {
	k := g.key(p)
	cell := g.cells[k]
	if cell != nil {
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, k)
		}
	}
}

func (g *grid) move(id ID, oldP, newP Vec2) {
	oldK := g.key(oldP)
	newK := g.key(newP)
	if oldK == newK {
		return
	}
	g.remove(id, oldP)
	g.add(id, newP)
}

// nearbyInto fills buf with every id whose cell lies within radius of p and
// returns it. Callers reuse buf across ticks and do their own fine-grained
// distance filtering.
func (g *grid) nearbyInto(p Vec2, radius float64, buf []ID) []ID {
	buf = buf[:0]
	rings := int32(math.Ceil(radius / g.cellSize))
	if rings < 1 {
		rings = 1
	}
	k := g.key(p)
	for dx := -rings; dx <= rings; dx++ {
		for dy := -rings; dy <= rings; dy++ {
			for id := range g.cells[cellKey{cx: k.cx + dx, cy: k.cy + dy}] {
				buf = append(buf, id)
			}
		}
	}
	return buf
}

func (g *grid) clear() {
	clear(g.cells)
}
