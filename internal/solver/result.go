package solver

import (
	"fmt"

	"svw.info/salvo/internal/domain"
	"svw.info/salvo/internal/ports"
)

// HitSentinel marks known hits in the aggregate board so selectors skip them.
const HitSentinel = -1.0

// Result is the outcome of one joint search.
type Result struct {
	// Board sums the occupancy of every accepted arrangement; hits hold HitSentinel.
	Board domain.Board `json:"board"`
	// Breakdown holds, per ship name, the cells of that ship in the arrangements it completed.
	Breakdown map[string]domain.Board `json:"breakdown"`
	Stats     ports.Stats             `json:"stats"`
}

func (r *Result) Aggregate() domain.Board { return r.Board }

func (r *Result) Statistics() ports.Stats { return r.Stats }

// ShipBoard returns the per-ship board for name.
func (r *Result) ShipBoard(name string) (domain.Board, error) {
	if r == nil || r.Breakdown == nil {
		return domain.Board{}, domain.ErrBreakdownUninitialized
	}
	b, ok := r.Breakdown[name]
	if !ok {
		return domain.Board{}, fmt.Errorf("%q: %w", name, domain.ErrUnknownShip)
	}
	return b, nil
}

// Probabilities divides the aggregate by the number of accepted arrangements.
// Hit cells keep HitSentinel; with nothing accepted every other cell is 0.
func (r *Result) Probabilities() domain.Board {
	out := r.Board.Clone()
	out.Scale(float64(r.Stats.Accepted))
	for i, row := range r.Board.Values {
		for j, v := range row {
			if v == HitSentinel {
				out.Values[i][j] = HitSentinel
			}
		}
	}
	return out
}
