package placement

import "svw.info/salvo/internal/domain"

// Occupancy counts ship cells per coordinate for one candidate arrangement.
type Occupancy struct {
	size  int
	cells []uint8
}

func NewOccupancy(size int) *Occupancy {
	return &Occupancy{size: size, cells: make([]uint8, size*size)}
}

func (o *Occupancy) Size() int { return o.size }

func (o *Occupancy) At(c domain.Coord) uint8 {
	if c.Row < 0 || c.Row >= o.size || c.Col < 0 || c.Col >= o.size {
		return 0
	}
	return o.cells[c.Row*o.size+c.Col]
}

// Add marks every cell of p. The placement must be in bounds.
func (o *Occupancy) Add(p Placement) {
	for i := 0; i < p.Length; i++ {
		c := p.Anchor.Step(p.Dir, i)
		o.cells[c.Row*o.size+c.Col]++
	}
}

// Remove undoes Add.
func (o *Occupancy) Remove(p Placement) {
	for i := 0; i < p.Length; i++ {
		c := p.Anchor.Step(p.Dir, i)
		o.cells[c.Row*o.size+c.Col]--
	}
}

func (o *Occupancy) Clone() *Occupancy {
	out := &Occupancy{size: o.size, cells: make([]uint8, len(o.cells))}
	copy(out.cells, o.cells)
	return out
}

// AddTo adds the arrangement into b, one unit per occupied cell.
func (o *Occupancy) AddTo(b domain.Board) {
	for i, v := range o.cells {
		if v != 0 {
			b.Values[i/o.size][i%o.size] += float64(v)
		}
	}
}

// Max returns the highest count on any cell; 1 for a non-overlapping arrangement.
func (o *Occupancy) Max() uint8 {
	var m uint8
	for _, v := range o.cells {
		if v > m {
			m = v
		}
	}
	return m
}
