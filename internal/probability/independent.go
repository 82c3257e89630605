// Package probability holds the cheap per-ship estimators: the independent
// placement heatmap and the information-gain ranking built on placement counts.
package probability

import (
	"svw.info/salvo/internal/domain"
	"svw.info/salvo/internal/placement"
	"svw.info/salvo/internal/validator"
)

// DefaultHitWeight boosts placements anchored on a confirmed hit.
const DefaultHitWeight = 3

// Independent scores every cell by how many single-ship placements could cover it,
// treating each ship as if the others did not exist.
type Independent struct {
	HitWeight float64
}

func NewIndependent() *Independent {
	return &Independent{HitWeight: DefaultHitWeight}
}

// Estimate returns the normalized heatmap in [0,1]. Hits take part like unknown cells;
// only misses and the board edge block a placement.
func (e *Independent) Estimate(g domain.Grid, ships domain.Catalog) (domain.Board, error) {
	if err := check(g, ships); err != nil {
		return domain.Board{}, err
	}
	weight := e.HitWeight
	if weight <= 0 {
		weight = DefaultHitWeight
	}

	total := domain.NewBoard(g.Size())
	perShip := domain.NewBoard(g.Size())
	for _, s := range ships {
		reset(perShip)
		each(g, s.Length, func(p placement.Placement) {
			w := 1.0
			if g.At(p.Anchor) == domain.Hit {
				w = weight
			}
			for _, c := range p.Cells() {
				perShip.Add(c, w)
			}
		})
		total.AddBoard(perShip)
	}
	total.Scale(total.Max())
	return total, nil
}

// Combinations counts legal single-ship placements over all four directions, counting
// hit-anchored placements twice. It is the ambiguity measure behind Gain.
func Combinations(g domain.Grid, ships domain.Catalog) int {
	n := 0
	for _, s := range ships {
		each(g, s.Length, func(p placement.Placement) {
			n++
			if g.At(p.Anchor) == domain.Hit {
				n++
			}
		})
	}
	return n
}

// each calls fn for every placement of length that fits g, anchors in row-major order.
func each(g domain.Grid, length int, fn func(placement.Placement)) {
	size := g.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			anchor := domain.Coord{Row: r, Col: c}
			for _, d := range domain.AllDirections {
				p := placement.Placement{Anchor: anchor, Dir: d, Length: length}
				if placement.Fits(g, p) {
					fn(p)
				}
			}
		}
	}
}

func check(g domain.Grid, ships domain.Catalog) error {
	return validator.New().Position(g, ships)
}

func reset(b domain.Board) {
	for r := range b.Values {
		for c := range b.Values[r] {
			b.Values[r][c] = 0
		}
	}
}
