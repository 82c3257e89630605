package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"svw.info/salvo/internal/domain"
	"svw.info/salvo/internal/generator"
	"svw.info/salvo/internal/observability"
	"svw.info/salvo/internal/render"
	"svw.info/salvo/internal/usecase"
)

type analyzeOptions struct {
	preset   string
	rows     []string
	random   bool
	seed     int64
	shots    int
	strategy string
	trace    bool
	json     bool
	load     string
	save     string
}

func newAnalyzeCmd(a *app) *cobra.Command {
	o := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score one position and print the recommended target",
		Long: `analyze reads a position from --rows (one string per row using - X O),
a stored position (--load), or a random fleet with --shots probes (--random),
and prints the board the chosen strategy ranked together with its pick.`,
		Example: `  salvo analyze --preset mini --rows -----,-X---,-----,---O-,-----
  salvo analyze --preset regular --random --seed 7 --shots 20 --strategy gain`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.analyze(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.preset, "preset", "regular", "fleet preset: regular, mini, mini2, tiny")
	f.StringSliceVar(&o.rows, "rows", nil, "observed rows, comma separated")
	f.BoolVar(&o.random, "random", false, "generate a hidden fleet and fire --shots random probes")
	f.Int64Var(&o.seed, "seed", 0, "seed for --random (0 uses the clock)")
	f.IntVar(&o.shots, "shots", 10, "random probes fired with --random")
	f.StringVar(&o.strategy, "strategy", "improved", "basic, improved or gain")
	f.BoolVar(&o.trace, "trace", false, "write spans to stderr")
	f.BoolVar(&o.json, "json", false, "print the recommendation as JSON")
	f.StringVar(&o.load, "load", "", "analyze a stored position by id")
	f.StringVar(&o.save, "save", "", "store the analyzed position under this name")
	cmd.MarkFlagsMutuallyExclusive("rows", "random", "load")
	return cmd
}

func (a *app) analyze(cmd *cobra.Command, o *analyzeOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if o.trace {
		shutdown, err := observability.NewTracerProvider(cmd.ErrOrStderr(), version)
		if err != nil {
			return err
		}
		defer func() { _ = shutdown(ctx) }()
	}

	strategy, err := usecase.ParseStrategy(o.strategy)
	if err != nil {
		return err
	}
	st, closeStore, err := openStorage(a.cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()
	uc := buildService(a.cfg, st)

	game, ok := domain.Preset(o.preset)
	if !ok {
		return fmt.Errorf("preset %q: %w", o.preset, domain.ErrInvalidCatalog)
	}
	var grid domain.Grid
	switch {
	case o.load != "":
		p, err := uc.Load(ctx, o.load)
		if err != nil {
			return err
		}
		grid, game.Ships = p.Grid, p.Ships
	case o.random:
		seed := o.seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		l, _, err := generator.NewFleetGenerator().Generate(ctx, seed, game.Size, game.Ships, o.shots)
		if err != nil {
			return err
		}
		grid = l.Observed
		fmt.Fprintf(cmd.ErrOrStderr(), "seed %d, %d shots\n", seed, o.shots)
	case len(o.rows) > 0:
		if grid, err = domain.ParseGrid(o.rows); err != nil {
			return err
		}
	default:
		grid = domain.NewGrid(game.Size)
	}

	rec, err := uc.Recommend(ctx, grid, game.Ships, strategy)
	if err != nil {
		return err
	}
	if o.save != "" {
		p := &domain.Position{Name: o.save, Grid: grid, Ships: game.Ships}
		if err := uc.Save(ctx, p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", p.ID)
	}
	if o.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}
	return printRecommendation(out, grid, rec)
}

func printRecommendation(w io.Writer, g domain.Grid, rec usecase.Recommendation) error {
	color := false
	if f, ok := w.(*os.File); ok {
		color = render.IsTerminal(f)
	}
	if err := render.Heatmap(w, g, rec.Board, render.Options{Color: color, Target: &rec.Target}); err != nil {
		return err
	}
	var notes []string
	if rec.FellBack {
		notes = append(notes, "joint search accepted nothing, fell back to basic")
	}
	if rec.Stats.Truncated {
		notes = append(notes, "search truncated")
	}
	fmt.Fprintf(w, "target row %d col %d (%s, %d accepted / %d listed)\n",
		rec.Target.Row, rec.Target.Col, rec.Strategy, rec.Stats.Accepted, rec.Stats.Listed)
	if len(notes) > 0 {
		fmt.Fprintln(w, strings.Join(notes, "; "))
	}
	return nil
}
