package probability

import (
	"svw.info/salvo/internal/domain"
	"svw.info/salvo/internal/placement"
	"svw.info/salvo/internal/validator"
)

// Gain ranks unknown cells by the expected drop in placement count a probe would cause.
// It is a heuristic over Combinations, not entropy in bits.
type Gain struct{}

func NewGain() *Gain { return &Gain{} }

// Estimate returns a board of gains, 0 on every hit or miss. probs supplies the hit
// probability per cell; values outside [0,1] (the joint search's hit sentinel) are clamped.
// g is never modified.
func (e *Gain) Estimate(g domain.Grid, probs domain.Board, ships domain.Catalog) (domain.Board, error) {
	if err := check(g, ships); err != nil {
		return domain.Board{}, err
	}
	if err := validator.New().Boards(g, probs); err != nil {
		return domain.Board{}, err
	}

	out := domain.NewBoard(g.Size())
	for _, c := range g.Cells(domain.Unknown) {
		p := min(max(probs.At(c), 0), 1)
		onHit, onMiss := drop(g, ships, c)
		out.Set(c, p*onHit+(1-p)*onMiss)
	}
	return out, nil
}

// drop is how much Combinations falls when unknown c turns into a hit or a miss.
// Only placements through c change: a hit doubles those anchored on c, a miss
// removes every one covering it.
func drop(g domain.Grid, ships domain.Catalog, c domain.Coord) (onHit, onMiss float64) {
	for _, s := range ships {
		for _, d := range domain.AllDirections {
			for back := 0; back < s.Length; back++ {
				p := placement.Placement{Anchor: c.Step(d, -back), Dir: d, Length: s.Length}
				if !placement.Fits(g, p) {
					continue
				}
				w := 1.0
				if g.At(p.Anchor) == domain.Hit {
					w = 2
				}
				onMiss += w
				if back == 0 {
					onHit--
				}
			}
		}
	}
	return onHit, onMiss
}
