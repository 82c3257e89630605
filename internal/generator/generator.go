package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"svw.info/salvo/internal/domain"
	"svw.info/salvo/internal/placement"
	"svw.info/salvo/internal/ports"
	"svw.info/salvo/internal/validator"
)

var errNoLayout = errors.New("fleet does not fit the board")

// FleetGenerator places a hidden fleet at random and fires random shots at it.
type FleetGenerator struct{}

func NewFleetGenerator() *FleetGenerator { return &FleetGenerator{} }

// Layout is a hidden fleet with the observations made against it.
type Layout struct {
	Fleet    map[string]placement.Placement `json:"fleet"`
	Occupied *placement.Occupancy           `json:"-"`
	Observed domain.Grid                    `json:"observed"`
}

// Fire reveals c on the observed grid and returns what was there.
func (l *Layout) Fire(c domain.Coord) (domain.CellState, error) {
	if !l.Observed.InBounds(c) {
		return domain.Unknown, fmt.Errorf("shot %d,%d off the board: %w", c.Row, c.Col, domain.ErrDimensionMismatch)
	}
	s := domain.Miss
	if l.Occupied.At(c) != 0 {
		s = domain.Hit
	}
	return s, l.Observed.Set(c, s)
}

// Sunk lists, sorted, the ships whose every cell has been hit.
func (l *Layout) Sunk() []string {
	var out []string
	for name, p := range l.Fleet {
		if l.sunk(p) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Won reports whether the whole fleet is sunk.
func (l *Layout) Won() bool { return len(l.Sunk()) == len(l.Fleet) }

func (l *Layout) sunk(p placement.Placement) bool {
	for _, c := range p.Cells() {
		if l.Observed.At(c) != domain.Hit {
			return false
		}
	}
	return true
}

// Generate places ships with a seeded backtracking search, then fires shots distinct
// random cells. Stats.Tried counts placements attempted.
func (g *FleetGenerator) Generate(ctx context.Context, seed int64, size int, ships domain.Catalog, shots int) (*Layout, ports.Stats, error) {
	start := time.Now()
	if size < 1 || size > validator.MaxGridSize {
		return nil, ports.Stats{}, fmt.Errorf("board size %d not in 1..%d: %w", size, validator.MaxGridSize, domain.ErrDimensionMismatch)
	}
	if err := validator.Catalog(ships, size); err != nil {
		return nil, ports.Stats{}, err
	}
	if n := ships.Cells(); n > size*size {
		return nil, ports.Stats{}, fmt.Errorf("%d ship cells on %d squares: %w", n, size*size, errNoLayout)
	}
	if shots < 0 {
		shots = 0
	}
	if shots > size*size {
		shots = size * size
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
	empty := domain.NewGrid(size)
	occ := placement.NewOccupancy(size)
	fleet := make([]placement.Placement, len(ships))
	tried := 0

	var slots []placement.Placement
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			for _, d := range domain.Axes {
				slots = append(slots, placement.Placement{Anchor: domain.Coord{Row: r, Col: c}, Dir: d})
			}
		}
	}

	var dfs func(int) bool
	dfs = func(i int) bool {
		if ctx.Err() != nil {
			return false
		}
		if i == len(ships) {
			return true
		}
		order := rng.Perm(len(slots))
		for _, k := range order {
			p := slots[k]
			p.Length = ships[i].Length
			tried++
			if !placement.Legal(empty, p, occ) {
				continue
			}
			occ.Add(p)
			fleet[i] = p
			if dfs(i + 1) {
				return true
			}
			occ.Remove(p)
		}
		return false
	}
	if !dfs(0) {
		if err := ctx.Err(); err != nil {
			return nil, ports.Stats{Tried: tried, Duration: time.Since(start)}, err
		}
		return nil, ports.Stats{Tried: tried, Duration: time.Since(start)}, errNoLayout
	}

	l := &Layout{
		Fleet:    make(map[string]placement.Placement, len(ships)),
		Occupied: occ,
		Observed: domain.NewGrid(size),
	}
	for i, s := range ships {
		l.Fleet[s.Name] = fleet[i]
	}
	for _, k := range rng.Perm(size * size)[:shots] {
		if _, err := l.Fire(domain.Coord{Row: k / size, Col: k % size}); err != nil {
			return nil, ports.Stats{}, err
		}
	}
	return l, ports.Stats{Tried: tried, Duration: time.Since(start)}, nil
}
