// Package solver implements the budgeted joint search: it enumerates mutually
// non-overlapping placements of the whole fleet consistent with the observed hits
// and misses, and aggregates their occupancy.
package solver

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"svw.info/salvo/internal/domain"
	"svw.info/salvo/internal/placement"
	"svw.info/salvo/internal/ports"
	"svw.info/salvo/internal/validator"
)

// JointSolver is safe for concurrent use; every call derives its own generator
// from the seeded source, so a fixed seed and call order reproduce results.
type JointSolver struct {
	Budget Budget
	// OnAccept, when set, sees every accepted arrangement. The occupancy is reused
	// after the call returns.
	OnAccept func(occ *placement.Occupancy)

	mu  sync.Mutex
	rng *rand.Rand
}

// NewJointSolver wires a solver; a nil rng seeds from the runtime source.
func NewJointSolver(b Budget, rng *rand.Rand) *JointSolver {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &JointSolver{Budget: b, rng: rng}
}

// NewSeededJointSolver is NewJointSolver with a PCG source built from seed.
func NewSeededJointSolver(b Budget, seed uint64) *JointSolver {
	return NewJointSolver(b, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func (s *JointSolver) fork() *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rand.New(rand.NewPCG(s.rng.Uint64(), s.rng.Uint64()))
}

// Estimate satisfies ports.JointEstimator.
func (s *JointSolver) Estimate(ctx context.Context, g domain.Grid, ships domain.Catalog) (ports.JointResult, error) {
	res, err := s.Search(ctx, g, ships)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Search runs the joint search. Every ship takes one turn as the root, in random order;
// from each root every ordering of the remaining ships is explored until the budget
// cuts it off. Hitting the budget is not an error. Only a cancelled ctx or bad input is.
func (s *JointSolver) Search(ctx context.Context, g domain.Grid, ships domain.Catalog) (*Result, error) {
	start := time.Now()
	if err := validator.New().Position(g, ships); err != nil {
		return nil, err
	}

	size := g.Size()
	res := &Result{
		Board:     domain.NewBoard(size),
		Breakdown: make(map[string]domain.Board, len(ships)),
		Stats:     ports.Stats{PerShip: make(map[string]int, len(ships))},
	}
	for _, sh := range ships {
		res.Breakdown[sh.Name] = domain.NewBoard(size)
		res.Stats.PerShip[sh.Name] = 0
	}

	st := &search{
		ctx:    ctx,
		budget: s.Budget,
		grid:   g,
		ships:  ships,
		rng:    s.fork(),
		hits:   g.Cells(domain.Hit),
		occ:    placement.NewOccupancy(size),
		placed: make([]placement.Placement, len(ships)),
		res:    res,
		hook:   s.OnAccept,
	}

	for _, root := range st.rng.Perm(len(ships)) {
		st.root = counters{}
		st.fix(0, root)
		res.Stats.Roots = append(res.Stats.Roots, ports.RootStats{
			Ship:     ships[root].Name,
			Listed:   st.root.listed,
			Accepted: st.root.accepted,
		})
		if st.err != nil {
			return nil, st.err
		}
	}

	for _, h := range st.hits {
		res.Board.Set(h, HitSentinel)
	}
	res.Stats.Listed = st.global.listed
	res.Stats.Accepted = st.global.accepted
	res.Stats.Tried = st.tried
	res.Stats.Truncated = st.truncated
	res.Stats.Duration = time.Since(start)
	return res, nil
}

// search is the state of one Search call. Nothing in it outlives the call.
type search struct {
	ctx    context.Context
	budget Budget
	grid   domain.Grid
	ships  domain.Catalog
	rng    *rand.Rand
	hits   []domain.Coord
	occ    *placement.Occupancy
	placed []placement.Placement
	res    *Result
	hook   func(*placement.Occupancy)

	global    counters
	root      counters
	tried     int
	truncated bool
	err       error
}

// fix places ship idx in every candidate position and recurses into each ship not yet
// in fixed. fixed is passed by value so siblings see the same set.
func (s *search) fix(fixed uint64, idx int) {
	bit := uint64(1) << idx
	if fixed&bit != 0 {
		return
	}
	fixed |= bit
	length := s.ships[idx].Length

	cands := s.candidates(length)
	s.rng.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })
	s.global.listed += len(cands)
	s.root.listed += len(cands)

	tried := 0
	for _, p := range cands {
		if s.err != nil || s.truncated {
			return
		}
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return
		}
		tried++
		if s.budget.exhausted(s.global, s.root) || s.budget.cutoff(s.root, length, tried) {
			return
		}
		if s.budget.NodeCeiling > 0 && s.tried >= s.budget.NodeCeiling {
			s.truncated = true
			return
		}
		s.tried++
		if !placement.Legal(s.grid, p, s.occ) {
			continue
		}

		s.occ.Add(p)
		s.placed[idx] = p
		complete := true
		for j := range s.ships {
			if fixed&(uint64(1)<<j) == 0 {
				complete = false
				s.fix(fixed, j)
			}
		}
		if complete {
			s.accept(idx)
		}
		s.occ.Remove(p)
	}
}

// candidates lists placements for a ship of length: through every uncovered hit when
// one exists, otherwise one per uncovered unknown cell and axis.
func (s *search) candidates(length int) []placement.Placement {
	var uncovered []domain.Coord
	for _, h := range s.hits {
		if s.occ.At(h) == 0 {
			uncovered = append(uncovered, h)
		}
	}
	if len(uncovered) > 0 {
		seen := make(map[placement.Placement]struct{})
		var out []placement.Placement
		for _, h := range uncovered {
			for _, p := range placement.Through(s.grid, s.occ, length, h) {
				if _, dup := seen[p]; dup {
					continue
				}
				seen[p] = struct{}{}
				out = append(out, p)
			}
		}
		return out
	}

	var out []placement.Placement
	for _, c := range s.grid.Cells(domain.Unknown) {
		if s.occ.At(c) != 0 {
			continue
		}
		for _, d := range domain.Axes {
			out = append(out, placement.Placement{Anchor: c, Dir: d, Length: length})
		}
	}
	return out
}

// accept records the current full arrangement if it explains every hit. The ship that
// completed it is credited in the breakdown.
func (s *search) accept(last int) {
	for _, h := range s.hits {
		if s.occ.At(h) == 0 {
			return
		}
	}
	s.occ.AddTo(s.res.Board)
	name := s.ships[last].Name
	ship := s.res.Breakdown[name]
	for _, c := range s.placed[last].Cells() {
		ship.Add(c, 1)
	}
	s.res.Stats.PerShip[name]++
	s.global.accepted++
	s.root.accepted++
	if s.hook != nil {
		s.hook(s.occ)
	}
}
