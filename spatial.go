package main

// SpatialCellSize is about twice the largest entity (a mothership box)
const SpatialCellSize = 1000

// EntityRef identifies an entity in the grid
type EntityRef struct {
	Kind byte // 's'=ship, 'p'=planet
	Idx  int  // index into the corresponding roster
}

// SpatialGrid is a fixed-size grid over the level for broad-phase collision queries
type SpatialGrid struct {
	cols, rows int
	cells      [][]EntityRef
}

// NewSpatialGrid sizes a grid to cover a level of the given dimensions
func NewSpatialGrid(levelW, levelH int) *SpatialGrid {
	cols := levelW/SpatialCellSize + 1
	rows := levelH/SpatialCellSize + 1
	return &SpatialGrid{
		cols:  cols,
		rows:  rows,
		cells: make([][]EntityRef, cols*rows),
	}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *SpatialGrid) span(b Box) (minCX, minCY, maxCX, maxCY int) {
	minCX = Clamp(b.X/SpatialCellSize, 0, g.cols-1)
	maxCX = Clamp((b.X+b.W)/SpatialCellSize, 0, g.cols-1)
	minCY = Clamp(b.Y/SpatialCellSize, 0, g.rows-1)
	maxCY = Clamp((b.Y+b.H)/SpatialCellSize, 0, g.rows-1)
	return
}

// InsertBox adds an entity reference to all cells its box overlaps
func (g *SpatialGrid) InsertBox(b Box, ref EntityRef) {
	minCX, minCY, maxCX, maxCY := g.span(b)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			idx := cy*g.cols + cx
			g.cells[idx] = append(g.cells[idx], ref)
		}
	}
}

// QueryBuf appends the refs of every cell overlapping b to buf. An entity
// spanning several cells can appear more than once.
func (g *SpatialGrid) QueryBuf(b Box, buf []EntityRef) []EntityRef {
	minCX, minCY, maxCX, maxCY := g.span(b)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[cy*g.cols+cx]...)
		}
	}
	return buf
}

// Query returns the refs overlapping b with duplicates removed
func (g *SpatialGrid) Query(b Box) []EntityRef {
	raw := g.QueryBuf(b, nil)
	seen := make(map[EntityRef]struct{}, len(raw))
	out := raw[:0]
	for _, r := range raw {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
