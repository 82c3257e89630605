package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	httpadapter "svw.info/salvo/internal/adapters/http"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the estimation API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func (a *app) serve(parent context.Context) error {
	cfg := a.cfg
	logger := slog.Default()

	st, closeStore, err := openStorage(cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("close storage", "err", err)
		}
	}()

	var limiter *rate.Limiter
	if cfg.Server.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Server.RatePerSecond), cfg.Server.Burst)
	}
	if parseLevel(cfg.Log.Level) > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	h := httpadapter.New(buildService(cfg, st))

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpadapter.NewRouter(h, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(parent)
	g.Go(func() error {
		logger.Info("listening", "addr", cfg.Server.Addr, "storage", cfg.Storage.Driver, "path", cfg.Storage.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
