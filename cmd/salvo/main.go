package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"svw.info/salvo/internal/config"
	"svw.info/salvo/internal/hint"
	"svw.info/salvo/internal/infrastructure/storage"
	"svw.info/salvo/internal/ports"
	"svw.info/salvo/internal/probability"
	"svw.info/salvo/internal/render"
	"svw.info/salvo/internal/solver"
	"svw.info/salvo/internal/usecase"
)

var version = "dev"

// app holds what every subcommand shares once the root has loaded config.
type app struct {
	configPath string
	logLevel   string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "salvo",
		Short:         "Battleship occupancy-probability engine",
		Long:          "salvo estimates where unseen ships are likely to be and which cell to fire at next.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a.cfg, err = config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				a.cfg.Log.Level = a.logLevel
			}
			slog.SetDefault(newLogger(os.Stderr, a.cfg.Log))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML or JSON config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug|info|warn|error (overrides config)")
	root.AddCommand(newServeCmd(a), newAnalyzeCmd(a))
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// newLogger writes text to terminals and JSON elsewhere unless the format is pinned.
func newLogger(w *os.File, lc config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(lc.Level)}
	switch {
	case lc.Format == "json":
		return slog.New(slog.NewJSONHandler(w, opts))
	case lc.Format == "text", render.IsTerminal(w):
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// openStorage returns the configured backend and a closer for it.
func openStorage(sc config.StorageConfig) (ports.Storage, func() error, error) {
	switch sc.Driver {
	case "badger":
		db, err := storage.OpenBadger(storage.BadgerConfig{
			Path:       sc.Path,
			SyncWrites: true,
			Logger:     slog.Default().With(slog.String("component", "badger")),
		})
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		if err := os.MkdirAll(sc.Path, 0o755); err != nil {
			return nil, nil, err
		}
		return storage.NewFS(sc.Path), func() error { return nil }, nil
	}
}

// buildService wires providers → use cases.
func buildService(c config.Config, st ports.Storage) *usecase.Service {
	var rng *rand.Rand
	if c.Search.Seed != 0 {
		rng = rand.New(rand.NewPCG(c.Search.Seed, c.Search.Seed^0x9e3779b97f4a7c15))
	}
	ind := probability.NewIndependent()
	ind.HitWeight = c.Search.HitWeight
	return usecase.NewService(
		ind,
		solver.NewJointSolver(c.Search.Budget, rng),
		probability.NewGain(),
		hint.NewSelector(),
		st,
	)
}
