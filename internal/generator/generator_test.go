package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"svw.info/salvo/internal/domain"
	"svw.info/salvo/internal/solver"
)

func TestGenerateAllPresetsUnder1s(t *testing.T) {
	g := NewFleetGenerator()

	for _, game := range domain.Presets() {
		t.Run(game.Name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			l, st, err := g.Generate(ctx, 12345, game.Size, game.Ships, game.Size)
			if err != nil {
				t.Fatalf("Generate(%s) failed: %v", game.Name, err)
			}
			if st.Duration > time.Second {
				t.Fatalf("generation too slow for %s: %v (>1s)", game.Name, st.Duration)
			}
			if m := l.Occupied.Max(); m != 1 {
				t.Fatalf("ships overlap in %s: max occupancy %d", game.Name, m)
			}
			if len(l.Fleet) != len(game.Ships) {
				t.Fatalf("fleet has %d ships, want %d", len(l.Fleet), len(game.Ships))
			}
			unknown, hits, misses := l.Observed.Counts()
			if hits+misses != game.Size || unknown != game.Size*game.Size-game.Size {
				t.Fatalf("unexpected observation counts u=%d h=%d m=%d", unknown, hits, misses)
			}
			for _, c := range l.Observed.Cells(domain.Hit) {
				if l.Occupied.At(c) == 0 {
					t.Fatalf("hit at %v has no ship", c)
				}
			}
		})
	}
}

func TestGenerateIsSeeded(t *testing.T) {
	game, _ := domain.Preset("mini2")
	a, _, err := NewFleetGenerator().Generate(context.Background(), 7, game.Size, game.Ships, 10)
	if err != nil {
		t.Fatal(err)
	}
	b, _, _ := NewFleetGenerator().Generate(context.Background(), 7, game.Size, game.Ships, 10)
	for name, p := range a.Fleet {
		if b.Fleet[name] != p {
			t.Fatalf("ship %s placed at %+v then %+v", name, p, b.Fleet[name])
		}
	}
	if a.Observed.String() != b.Observed.String() {
		t.Fatalf("observations differ:\n%s\n%s", a.Observed, b.Observed)
	}
}

func TestGenerateRejectsOversizedFleet(t *testing.T) {
	_, _, err := NewFleetGenerator().Generate(context.Background(), 1, 2, domain.Catalog{{Name: "a", Length: 2}, {Name: "b", Length: 2}, {Name: "c", Length: 2}}, 0)
	if err == nil {
		t.Fatal("expected an error for a fleet larger than the board")
	}
}

func TestGenerateFailsFastWhenFleetOutgrowsBoard(t *testing.T) {
	ships := make(domain.Catalog, 10)
	for i := range ships {
		ships[i] = domain.Ship{Name: string(rune('a' + i)), Length: 3}
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, st, err := NewFleetGenerator().Generate(ctx, 1, 5, ships, 0)
	if !errors.Is(err, errNoLayout) {
		t.Fatalf("Generate returned %v, want errNoLayout", err)
	}
	if st.Tried != 0 {
		t.Fatalf("searched %d placements before rejecting", st.Tried)
	}
}

func TestLayoutSunkPerShip(t *testing.T) {
	game, _ := domain.Preset("mini")
	l, _, err := NewFleetGenerator().Generate(context.Background(), 9, game.Size, game.Ships, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := l.Sunk(); len(got) != 0 {
		t.Fatalf("nothing fired yet, Sunk() = %v", got)
	}
	for _, c := range l.Fleet["patrol_boat"].Cells() {
		if s, err := l.Fire(c); err != nil || s != domain.Hit {
			t.Fatalf("Fire(%v) = %v, %v; want hit", c, s, err)
		}
	}
	if got := l.Sunk(); len(got) != 1 || got[0] != "patrol_boat" {
		t.Fatalf("Sunk() = %v, want [patrol_boat]", got)
	}
	if l.Won() {
		t.Fatal("submarine still afloat")
	}
	for _, c := range l.Fleet["submarine"].Cells() {
		if _, err := l.Fire(c); err != nil {
			t.Fatal(err)
		}
	}
	if !l.Won() {
		t.Fatalf("whole fleet hit, Sunk() = %v", l.Sunk())
	}
}

// Observations drawn from a real fleet are always explainable, so the joint search
// must accept something and never contradict them.
func TestJointSearchOnGeneratedPositions(t *testing.T) {
	game, _ := domain.Preset("mini")
	for seed := int64(1); seed <= 10; seed++ {
		l, _, err := NewFleetGenerator().Generate(context.Background(), seed, game.Size, game.Ships, 8)
		if err != nil {
			t.Fatal(err)
		}
		res, err := solver.NewSeededJointSolver(solver.DefaultBudget(), uint64(seed)).Search(context.Background(), l.Observed, game.Ships)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if res.Stats.Accepted == 0 {
			t.Fatalf("seed %d: no arrangement accepted for\n%s", seed, l.Observed)
		}
		for _, c := range l.Observed.Cells(domain.Miss) {
			if res.Board.At(c) != 0 {
				t.Fatalf("seed %d: miss %v carries mass %v", seed, c, res.Board.At(c))
			}
		}
	}
}
