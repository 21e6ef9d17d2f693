package sim

import "github.com/vovakirdan/superstudent/internal/core"

// ColorID indexes Config.Palette.
type ColorID int

// Dot is one moving circle. ID is its slot in the DotStore and never changes.
type Dot struct {
	ID          int
	Pos         core.Vec2
	Vel         core.Vec2
	Radius      float64
	ClickRadius float64
	Color       ColorID
	Target      bool
	Alive       bool
}

// DotStore is a fixed-capacity arena of dots indexed by stable id.
// Dead dots stay in their slot until Spawn reuses it.
type DotStore struct {
	dots  []Dot
	alive int
}

// NewDotStore allocates capacity dead slots.
func NewDotStore(capacity int) *DotStore {
	s := &DotStore{dots: make([]Dot, capacity)}
	s.Clear()
	return s
}

// Cap returns the number of slots.
func (s *DotStore) Cap() int {
	return len(s.dots)
}

// Alive returns the number of alive dots.
func (s *DotStore) Alive() int {
	return s.alive
}

// Clear marks every slot dead.
func (s *DotStore) Clear() {
	for i := range s.dots {
		s.dots[i] = Dot{ID: i}
	}
	s.alive = 0
}

// Spawn copies d into the lowest free slot and marks it alive.
// Returns the slot id, or false when the store is full.
func (s *DotStore) Spawn(d Dot) (int, bool) {
	for i := range s.dots {
		if s.dots[i].Alive {
			continue
		}
		d.ID = i
		d.Alive = true
		s.dots[i] = d
		s.alive++
		return i, true
	}
	return -1, false
}

// Kill marks a dot dead. Returns false if it was already dead or out of range.
func (s *DotStore) Kill(id int) bool {
	d := s.Get(id)
	if d == nil || !d.Alive {
		return false
	}
	d.Alive = false
	d.Target = false
	s.alive--
	return true
}

// Get returns the dot in slot id, or nil when id is out of range.
func (s *DotStore) Get(id int) *Dot {
	if id < 0 || id >= len(s.dots) {
		return nil
	}
	return &s.dots[id]
}

// Each calls fn for every alive dot in id order.
func (s *DotStore) Each(fn func(d *Dot)) {
	for i := range s.dots {
		if s.dots[i].Alive {
			fn(&s.dots[i])
		}
	}
}

// Count returns how many alive dots satisfy pred.
func (s *DotStore) Count(pred func(d *Dot) bool) int {
	n := 0
	for i := range s.dots {
		if s.dots[i].Alive && pred(&s.dots[i]) {
			n++
		}
	}
	return n
}
