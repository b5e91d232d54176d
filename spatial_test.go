package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpatialGridInsertAndQuery(t *testing.T) {
	grid := NewSpatialGrid(DefaultLevelWidth, DefaultLevelHeight)
	ref := EntityRef{Kind: 's', Idx: 3}
	grid.InsertBox(Box{X: 100, Y: 100, W: 110, H: 110}, ref)

	assert.Contains(t, grid.Query(Box{X: 150, Y: 150, W: 20, H: 20}), ref)
	assert.NotContains(t, grid.Query(Box{X: 5000, Y: 5000, W: 20, H: 20}), ref)
}

func TestSpatialGridClear(t *testing.T) {
	grid := NewSpatialGrid(DefaultLevelWidth, DefaultLevelHeight)
	grid.InsertBox(Box{X: 500, Y: 500, W: 10, H: 10}, EntityRef{Kind: 's'})
	grid.Clear()
	assert.Empty(t, grid.Query(Box{X: 500, Y: 500, W: 10, H: 10}))
}

func TestSpatialGridSpanningBox(t *testing.T) {
	grid := NewSpatialGrid(DefaultLevelWidth, DefaultLevelHeight)
	ref := EntityRef{Kind: 'p', Idx: 1}
	// straddles four cells
	grid.InsertBox(Box{X: 900, Y: 900, W: 200, H: 200}, ref)

	wide := Box{X: 0, Y: 0, W: 2500, H: 2500}
	raw := grid.QueryBuf(wide, nil)
	assert.Len(t, raw, 4)
	assert.Equal(t, []EntityRef{ref}, grid.Query(wide))

	assert.Contains(t, grid.Query(Box{X: 1050, Y: 1050, W: 5, H: 5}), ref)
}

func TestSpatialGridBoundaryClamp(t *testing.T) {
	grid := NewSpatialGrid(2000, 2000)
	ref := EntityRef{Kind: 's', Idx: 0}
	grid.InsertBox(Box{X: -50, Y: -50, W: 20, H: 20}, ref)
	grid.InsertBox(Box{X: 5000, Y: 5000, W: 20, H: 20}, EntityRef{Kind: 's', Idx: 1})

	assert.Contains(t, grid.Query(Box{X: 0, Y: 0, W: 10, H: 10}), ref)
	assert.Contains(t, grid.Query(Box{X: 1990, Y: 1990, W: 20, H: 20}), EntityRef{Kind: 's', Idx: 1})
}
