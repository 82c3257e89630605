package domain

import "fmt"

// CellState is what the shooter knows about one cell.
type CellState uint8

const (
	Unknown CellState = iota
	Hit
	Miss
)

// Rune returns the board glyph for the state: '-' unknown, 'X' hit, 'O' miss.
func (s CellState) Rune() rune {
	switch s {
	case Hit:
		return 'X'
	case Miss:
		return 'O'
	default:
		return '-'
	}
}

func (s CellState) String() string {
	switch s {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	default:
		return "unknown"
	}
}

// ParseCellState maps a board glyph back to a state.
func ParseCellState(r rune) (CellState, error) {
	switch r {
	case '-', '.', '?':
		return Unknown, nil
	case 'X', 'x':
		return Hit, nil
	case 'O', 'o':
		return Miss, nil
	}
	return Unknown, fmt.Errorf("%w %q", ErrInvalidGlyph, r)
}

// Direction is a straight axis a ship extends along from its anchor.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// AllDirections is used by the per-ship placement counters.
var AllDirections = [...]Direction{Up, Down, Left, Right}

// Axes are the two directions that enumerate every straight placement exactly once.
var Axes = [...]Direction{Down, Right}

// Delta returns the row/col step of one cell along d.
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	default:
		return 0, 1
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "right"
	}
}
