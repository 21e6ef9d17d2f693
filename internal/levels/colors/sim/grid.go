package sim

import (
	"math"
	"sort"
)

// Pair is an unordered pair of dot ids with A < B.
type Pair struct {
	A, B int
}

type cellKey struct {
	X, Y int
}

// SpatialGrid buckets alive dots by cell for the broad phase.
// It is rebuilt every frame; bucket slices keep their capacity between frames.
type SpatialGrid struct {
	cellSize float64
	cells    map[cellKey][]int
	home     []cellKey // cell of each dot id at the last Rebuild
}

// NewSpatialGrid creates a grid with square cells of the given size.
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}
}

// CellSize returns the cell edge length.
func (g *SpatialGrid) CellSize() float64 {
	return g.cellSize
}

func (g *SpatialGrid) cellOf(x, y float64) cellKey {
	return cellKey{
		X: int(math.Floor(x / g.cellSize)),
		Y: int(math.Floor(y / g.cellSize)),
	}
}

// Rebuild empties every bucket and inserts each alive dot exactly once.
// Buckets end up sorted by id because dots are visited in id order.
func (g *SpatialGrid) Rebuild(store *DotStore) {
	for k, bucket := range g.cells {
		g.cells[k] = bucket[:0]
	}
	if len(g.home) != store.Cap() {
		g.home = make([]cellKey, store.Cap())
	}
	store.Each(func(d *Dot) {
		k := g.cellOf(d.Pos.X, d.Pos.Y)
		g.home[d.ID] = k
		g.cells[k] = append(g.cells[k], d.ID)
	})
}

// Bucket returns the ids stored in cell (cx, cy).
func (g *SpatialGrid) Bucket(cx, cy int) []int {
	return g.cells[cellKey{cx, cy}]
}

// Occupied returns the number of ids currently bucketed.
func (g *SpatialGrid) Occupied() int {
	n := 0
	for _, bucket := range g.cells {
		n += len(bucket)
	}
	return n
}

// ForEachCandidate calls fn once for every unordered pair of alive dots that
// share a cell or sit in adjacent cells. Dots are visited in id order and a
// pair is only reported from its lower id, so the sequence is deterministic.
// Cells are the ones recorded at the last Rebuild, so fn may move dots.
func (g *SpatialGrid) ForEachCandidate(store *DotStore, fn func(a, b *Dot)) {
	store.Each(func(a *Dot) {
		g.forNeighbours(a.ID, g.home[a.ID], func(id int) {
			b := store.Get(id)
			if b.Alive {
				fn(a, b)
			}
		})
	})
}

func (g *SpatialGrid) forNeighbours(id int, home cellKey, fn func(other int)) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			for _, other := range g.cells[cellKey{home.X + dx, home.Y + dy}] {
				if other > id {
					fn(other)
				}
			}
		}
	}
}

// OverlappingPairs returns every overlapping pair found through the grid,
// sorted by (A, B). It does not modify the dots.
func (g *SpatialGrid) OverlappingPairs(store *DotStore) []Pair {
	var pairs []Pair
	store.Each(func(a *Dot) {
		g.forNeighbours(a.ID, g.home[a.ID], func(id int) {
			b := store.Get(id)
			if b.Alive && overlapping(a, b) {
				pairs = append(pairs, Pair{A: a.ID, B: b.ID})
			}
		})
	})
	sortPairs(pairs)
	return pairs
}

// BruteForcePairs checks every pair of alive dots. Reference for the grid.
func BruteForcePairs(store *DotStore) []Pair {
	var pairs []Pair
	for i := 0; i < store.Cap(); i++ {
		a := store.Get(i)
		if !a.Alive {
			continue
		}
		for j := i + 1; j < store.Cap(); j++ {
			b := store.Get(j)
			if b.Alive && overlapping(a, b) {
				pairs = append(pairs, Pair{A: i, B: j})
			}
		}
	}
	return pairs
}

func overlapping(a, b *Dot) bool {
	r := a.Radius + b.Radius
	return a.Pos.Sub(b.Pos).LenSq() < r*r
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
}
