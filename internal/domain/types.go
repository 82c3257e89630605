package domain

import "math"

// Coord identifies a cell on the board.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Step returns the cell n steps from c along d.
func (c Coord) Step(d Direction, n int) Coord {
	dr, dc := d.Delta()
	return Coord{Row: c.Row + n*dr, Col: c.Col + n*dc}
}

// Ship is one entry of a fleet catalog. Ships carry no placement state.
type Ship struct {
	Name   string `json:"name" yaml:"name" validate:"required"`
	Length int    `json:"length" yaml:"length" validate:"min=1"`
}

// Catalog is the ordered fleet; order only affects search exploration order.
type Catalog []Ship

// Names returns ship names in catalog order.
func (c Catalog) Names() []string {
	out := make([]string, len(c))
	for i, s := range c {
		out[i] = s.Name
	}
	return out
}

func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	copy(out, c)
	return out
}

// Cells is the total number of cells the fleet occupies.
func (c Catalog) Cells() int {
	n := 0
	for _, s := range c {
		n += s.Length
	}
	return n
}

// Board is a grid-shaped array of scores, aggregate or per ship.
type Board struct {
	Size   int         `json:"size"`
	Values [][]float64 `json:"values"`
}

func NewBoard(size int) Board {
	vals := make([][]float64, size)
	for r := range vals {
		vals[r] = make([]float64, size)
	}
	return Board{Size: size, Values: vals}
}

func (b Board) At(c Coord) float64 { return b.Values[c.Row][c.Col] }

func (b Board) Set(c Coord, v float64) { b.Values[c.Row][c.Col] = v }

func (b Board) Add(c Coord, v float64) { b.Values[c.Row][c.Col] += v }

// AddBoard adds o cell by cell.
func (b Board) AddBoard(o Board) {
	for r := range b.Values {
		for c := range b.Values[r] {
			b.Values[r][c] += o.Values[r][c]
		}
	}
}

// Max returns the largest value, or 0 for an empty board.
func (b Board) Max() float64 {
	m := math.Inf(-1)
	for r := range b.Values {
		for _, v := range b.Values[r] {
			if v > m {
				m = v
			}
		}
	}
	if math.IsInf(m, -1) {
		return 0
	}
	return m
}

func (b Board) Sum() float64 {
	s := 0.0
	for r := range b.Values {
		for _, v := range b.Values[r] {
			s += v
		}
	}
	return s
}

func (b Board) Clone() Board {
	out := NewBoard(b.Size)
	for r := range b.Values {
		copy(out.Values[r], b.Values[r])
	}
	return out
}

// Scale divides every cell by d; undefined results become 0.
func (b Board) Scale(d float64) {
	for r := range b.Values {
		for c, v := range b.Values[r] {
			x := v / d
			if math.IsNaN(x) || math.IsInf(x, 0) {
				x = 0
			}
			b.Values[r][c] = x
		}
	}
}

// Position is a persisted observation state with its fleet.
type Position struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name,omitempty"`
	Grid      Grid    `json:"grid"`
	Ships     Catalog `json:"ships"`
	CreatedAt int64   `json:"createdAt,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}

// PositionMeta is a lightweight listing entry.
type PositionMeta struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Size      int    `json:"size"`
	CreatedAt int64  `json:"createdAt"`
}
