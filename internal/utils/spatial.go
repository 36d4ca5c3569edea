package utils

import (
	"math"
	"sort"

	"infra-object-service/internal/geometry"
)

// SearchWindow returns the axis-aligned window that contains every point
// within radius of center. It is used as a cheap pre-filter before the exact
// distance test.
func SearchWindow(center geometry.Point, radius float64) (minX, maxX, minY, maxY float64) {
	return center.X - radius, center.X + radius, center.Y - radius, center.Y + radius
}

type cellKey struct {
	x, y int64
}

// Grid buckets points into square cells so neighbourhood queries only look
// at nearby cells instead of every point.
type Grid struct {
	size  float64
	cells map[cellKey][]int
}

// NewGrid returns a grid with the given cell size. Non-positive sizes fall
// back to 1 plan unit.
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 || math.IsNaN(cellSize) || math.IsInf(cellSize, 0) {
		cellSize = 1
	}
	return &Grid{size: cellSize, cells: make(map[cellKey][]int)}
}

func (g *Grid) key(p geometry.Point) cellKey {
	return cellKey{
		x: int64(math.Floor(p.X / g.size)),
		y: int64(math.Floor(p.Y / g.size)),
	}
}

// Insert stores index idx at point p.
func (g *Grid) Insert(idx int, p geometry.Point) {
	k := g.key(p)
	g.cells[k] = append(g.cells[k], idx)
}

// Candidates returns, in ascending order, the indices of every point that
// may lie within radius of p. Callers still apply the exact distance test.
func (g *Grid) Candidates(p geometry.Point, radius float64) []int {
	span := int64(math.Ceil(radius / g.size))
	if span < 1 {
		span = 1
	}
	center := g.key(p)

	var out []int
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			out = append(out, g.cells[cellKey{center.x + dx, center.y + dy}]...)
		}
	}
	sort.Ints(out)
	return out
}
