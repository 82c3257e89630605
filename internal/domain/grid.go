package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Grid is the square observation state of one board.
type Grid struct {
	size  int
	cells [][]CellState
}

// NewGrid returns a size×size grid with every cell unknown.
func NewGrid(size int) Grid {
	if size < 0 {
		size = 0
	}
	cells := make([][]CellState, size)
	for r := range cells {
		cells[r] = make([]CellState, size)
	}
	return Grid{size: size, cells: cells}
}

// ParseGrid reads one string per row using the '-', 'X', 'O' glyphs.
func ParseGrid(rows []string) (Grid, error) {
	if len(rows) == 0 {
		return Grid{}, fmt.Errorf("%w: grid has no rows", ErrDimensionMismatch)
	}
	g := NewGrid(len(rows))
	for r, line := range rows {
		runes := []rune(strings.TrimSpace(line))
		if len(runes) != g.size {
			return Grid{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrDimensionMismatch, r, len(runes), g.size)
		}
		for c, ch := range runes {
			st, err := ParseCellState(ch)
			if err != nil {
				return Grid{}, fmt.Errorf("row %d col %d: %w", r, c, err)
			}
			g.cells[r][c] = st
		}
	}
	return g, nil
}

// MustParseGrid is ParseGrid for fixtures.
func MustParseGrid(rows ...string) Grid {
	g, err := ParseGrid(rows)
	if err != nil {
		panic(err)
	}
	return g
}

func (g Grid) Size() int { return g.size }

// InBounds reports whether c lies on the grid.
func (g Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.size && c.Col >= 0 && c.Col < g.size
}

// At returns the state at c. Out-of-bounds cells read as Miss so they never host a ship.
func (g Grid) At(c Coord) CellState {
	if !g.InBounds(c) {
		return Miss
	}
	return g.cells[c.Row][c.Col]
}

// Set updates the state at c.
func (g Grid) Set(c Coord, s CellState) error {
	if !g.InBounds(c) {
		return fmt.Errorf("coordinate %v out of bounds", c)
	}
	g.cells[c.Row][c.Col] = s
	return nil
}

// Clone returns a deep copy so hypothetical variants never touch the original.
func (g Grid) Clone() Grid {
	out := NewGrid(g.size)
	for r := range g.cells {
		copy(out.cells[r], g.cells[r])
	}
	return out
}

// With returns a copy of g with c set to s.
func (g Grid) With(c Coord, s CellState) (Grid, error) {
	out := g.Clone()
	if err := out.Set(c, s); err != nil {
		return Grid{}, err
	}
	return out, nil
}

// Cells returns every coordinate holding state s, row-major.
func (g Grid) Cells(s CellState) []Coord {
	var out []Coord
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			if g.cells[r][c] == s {
				out = append(out, Coord{Row: r, Col: c})
			}
		}
	}
	return out
}

// Counts returns the number of unknown, hit and miss cells.
func (g Grid) Counts() (unknown, hits, misses int) {
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			switch g.cells[r][c] {
			case Hit:
				hits++
			case Miss:
				misses++
			default:
				unknown++
			}
		}
	}
	return
}

// Rows renders the grid in the ParseGrid format.
func (g Grid) Rows() []string {
	rows := make([]string, g.size)
	var sb strings.Builder
	for r := 0; r < g.size; r++ {
		sb.Reset()
		for c := 0; c < g.size; c++ {
			sb.WriteRune(g.cells[r][c].Rune())
		}
		rows[r] = sb.String()
	}
	return rows
}

func (g Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}

type gridJSON struct {
	Size int      `json:"size"`
	Rows []string `json:"rows"`
}

func (g Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(gridJSON{Size: g.size, Rows: g.Rows()})
}

func (g *Grid) UnmarshalJSON(b []byte) error {
	var in gridJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	parsed, err := ParseGrid(in.Rows)
	if err != nil {
		return err
	}
	if in.Size != 0 && in.Size != parsed.size {
		return fmt.Errorf("%w: size %d but %d rows", ErrDimensionMismatch, in.Size, parsed.size)
	}
	*g = parsed
	return nil
}
