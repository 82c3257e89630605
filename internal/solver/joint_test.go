package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/salvo/internal/domain"
	"svw.info/salvo/internal/placement"
)

func TestSearchHitRowPinsTheShip(t *testing.T) {
	g := domain.MustParseGrid(
		"---",
		"XXX",
		"---",
	)
	s := NewSeededJointSolver(DefaultBudget(), 1)
	res, err := s.Search(context.Background(), g, domain.Catalog{{Name: "cruiser", Length: 3}})
	require.NoError(t, err)
	require.Positive(t, res.Stats.Accepted)

	ship, err := res.ShipBoard("cruiser")
	require.NoError(t, err)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if r == 1 {
				assert.Positive(t, ship.Values[r][c])
				assert.Equal(t, HitSentinel, res.Board.Values[r][c])
				continue
			}
			assert.Zero(t, ship.Values[r][c], "cell %d,%d", r, c)
			assert.Zero(t, res.Board.Values[r][c], "cell %d,%d", r, c)
		}
	}
}

func TestSearchAcceptsOnlyConsistentArrangements(t *testing.T) {
	g := domain.MustParseGrid(
		"-----",
		"-X-O-",
		"-----",
		"O--X-",
		"-----",
	)
	ships := domain.Catalog{{Name: "patrol", Length: 2}, {Name: "sub", Length: 3}}
	hits := g.Cells(domain.Hit)
	misses := g.Cells(domain.Miss)

	s := NewSeededJointSolver(DefaultBudget(), 42)
	seen := 0
	s.OnAccept = func(occ *placement.Occupancy) {
		seen++
		assert.Equal(t, uint8(1), occ.Max(), "ships overlap")
		for _, h := range hits {
			assert.NotZero(t, occ.At(h), "hit %v uncovered", h)
		}
		for _, m := range misses {
			assert.Zero(t, occ.At(m), "miss %v covered", m)
		}
		total := 0
		for r := 0; r < 5; r++ {
			for c := 0; c < 5; c++ {
				total += int(occ.At(domain.Coord{Row: r, Col: c}))
			}
		}
		assert.Equal(t, ships.Cells(), total)
	}

	res, err := s.Search(context.Background(), g, ships)
	require.NoError(t, err)
	assert.Equal(t, seen, res.Stats.Accepted)
	assert.Positive(t, seen)
	assert.GreaterOrEqual(t, res.Stats.Listed, res.Stats.Accepted)
	assert.Len(t, res.Stats.Roots, 2)

	perShip := 0
	for _, n := range res.Stats.PerShip {
		perShip += n
	}
	assert.Equal(t, res.Stats.Accepted, perShip)

	probs := res.Probabilities()
	for _, h := range hits {
		assert.Equal(t, HitSentinel, probs.At(h))
	}
	for _, m := range misses {
		assert.Zero(t, probs.At(m))
	}
	for _, c := range g.Cells(domain.Unknown) {
		assert.GreaterOrEqual(t, probs.At(c), 0.0)
		assert.LessOrEqual(t, probs.At(c), 1.0)
	}
}

func TestSearchIsReproducibleForASeed(t *testing.T) {
	g := domain.MustParseGrid(
		"------",
		"--X---",
		"------",
		"---O--",
		"------",
		"------",
	)
	ships := domain.Catalog{{Name: "a", Length: 2}, {Name: "b", Length: 3}, {Name: "c", Length: 3}}

	a, err := NewSeededJointSolver(DefaultBudget(), 9).Search(context.Background(), g, ships)
	require.NoError(t, err)
	b, err := NewSeededJointSolver(DefaultBudget(), 9).Search(context.Background(), g, ships)
	require.NoError(t, err)

	assert.Equal(t, a.Board, b.Board)
	assert.Equal(t, a.Breakdown, b.Breakdown)
	assert.Equal(t, a.Stats.Listed, b.Stats.Listed)
	assert.Equal(t, a.Stats.Roots, b.Stats.Roots)
}

func TestSearchBudgetTruncatesWithoutError(t *testing.T) {
	game, ok := domain.Preset("regular")
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	res, err := NewSeededJointSolver(DefaultBudget(), 3).Search(ctx, domain.NewGrid(game.Size), game.Ships)
	require.NoError(t, err)
	assert.Positive(t, res.Stats.Accepted)
	t.Logf("accepted=%d listed=%d tried=%d dur=%v", res.Stats.Accepted, res.Stats.Listed, res.Stats.Tried, res.Stats.Duration)
}

func TestSearchBudgetBoundsEachRoot(t *testing.T) {
	g := domain.NewGrid(6)
	ships := domain.Catalog{{Name: "patrol", Length: 2}, {Name: "sub", Length: 3}}
	const unbounded = 1 << 30

	cases := []struct {
		name   string
		budget Budget
		lo, hi int
	}{
		{"zero ceilings stop at the first arrangement",
			Budget{GlobalCeiling: 0, RootCeiling: 0, LengthBase: unbounded, TriesAfterCutoff: 2}, 1, 1},
		{"root ceiling applies once the global one is passed",
			Budget{GlobalCeiling: 0, RootCeiling: 5, LengthBase: unbounded, TriesAfterCutoff: 2}, 6, 6},
		{"length cutoff",
			Budget{GlobalCeiling: unbounded, RootCeiling: unbounded, LengthBase: 50, LengthStep: 10, TriesAfterCutoff: 2}, 21, 40},
		{"defaults",
			DefaultBudget(), 100, unbounded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := NewSeededJointSolver(tc.budget, 11).Search(context.Background(), g, ships)
			require.NoError(t, err)
			require.Len(t, res.Stats.Roots, len(ships))

			total := 0
			for _, root := range res.Stats.Roots {
				assert.GreaterOrEqual(t, root.Accepted, tc.lo, "root %s", root.Ship)
				assert.LessOrEqual(t, root.Accepted, tc.hi, "root %s", root.Ship)
				total += root.Accepted
			}
			assert.Equal(t, total, res.Stats.Accepted)
			assert.False(t, res.Stats.Truncated)
		})
	}
}

func TestSearchNodeCeiling(t *testing.T) {
	// Two length-2 ships cannot explain three hits spread over separate rows and columns.
	g := domain.MustParseGrid(
		"X----",
		"-----",
		"--X--",
		"-----",
		"----X",
	)
	b := DefaultBudget()
	b.NodeCeiling = 50
	res, err := NewSeededJointSolver(b, 5).Search(context.Background(), g, domain.Catalog{{Name: "a", Length: 2}, {Name: "b", Length: 2}})
	require.NoError(t, err)
	assert.Zero(t, res.Stats.Accepted)
	assert.LessOrEqual(t, res.Stats.Tried, 50)
}

func TestSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSeededJointSolver(DefaultBudget(), 1).Search(ctx, domain.NewGrid(4), domain.Catalog{{Name: "a", Length: 2}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchRejectsBadInput(t *testing.T) {
	s := NewSeededJointSolver(DefaultBudget(), 1)
	_, err := s.Search(context.Background(), domain.NewGrid(3), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)

	_, err = s.Estimate(context.Background(), domain.NewGrid(3), domain.Catalog{{Name: "a", Length: 4}})
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
}

func TestShipBoardErrors(t *testing.T) {
	var empty Result
	_, err := empty.ShipBoard("a")
	assert.ErrorIs(t, err, domain.ErrBreakdownUninitialized)

	res, err := NewSeededJointSolver(DefaultBudget(), 1).Search(context.Background(), domain.NewGrid(2), domain.Catalog{{Name: "a", Length: 2}})
	require.NoError(t, err)
	_, err = res.ShipBoard("b")
	assert.ErrorIs(t, err, domain.ErrUnknownShip)

	// Four placements of a 2-cell ship on a 2x2 board, each accepted once.
	assert.Equal(t, 4, res.Stats.Accepted)
	probs := res.Probabilities()
	for _, row := range probs.Values {
		for _, v := range row {
			assert.InDelta(t, 0.5, v, 1e-12)
		}
	}
}
