package hint

import (
	"math"

	"svw.info/salvo/internal/domain"
	"svw.info/salvo/internal/validator"
)

// Selector implements a Selector that fires at the highest-scoring unknown cell.
type Selector struct{}

func NewSelector() *Selector { return &Selector{} }

// Select scans row-major and returns the unknown cell with the largest score; the first
// one wins ties. Scores may be any value, so a lone unknown cell is chosen even at 0.
func (h *Selector) Select(b domain.Board, g domain.Grid) (domain.Coord, error) {
	if err := validator.New().Boards(g, b); err != nil {
		return domain.Coord{}, err
	}
	best := math.Inf(-1)
	var target domain.Coord
	found := false
	for _, c := range g.Cells(domain.Unknown) {
		v := b.At(c)
		if math.IsNaN(v) {
			v = math.Inf(-1)
		}
		if !found || v > best {
			best, target, found = v, c, true
		}
	}
	if !found {
		return domain.Coord{}, domain.ErrNoTargetAvailable
	}
	return target, nil
}
