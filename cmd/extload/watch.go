package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/snowmerak/extload/lib/config"
	"github.com/snowmerak/extload/lib/lifecycle"
	"github.com/snowmerak/extload/lib/native"
	"github.com/snowmerak/extload/lib/plugin"
	"github.com/snowmerak/extload/lib/watch"
)

// `watch` subcommand: loads the search path, then keeps loading modules that
// appear in it until interrupted.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Load the search path and watch it for new modules",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		l := newLoader(reg)
		lc := lifecycle.New()
		plugin.Bootstrap(lc, l, cfg.SearchPath())

		w, err := watch.New(l, logger.WithName("watch"), native.Ext)
		if err != nil {
			return err
		}
		lc.RegisterCleanup("watch", func() { _ = w.Close() })

		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		lc.RegisterCleanup("metrics", func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		})

		if err := lc.Start(); err != nil {
			lc.Stop()
			return err
		}
		defer lc.Stop()

		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(err, "metrics server stopped")
			}
		}()

		if w.AddSearchPath(cfg.SearchPath(), cfg.Target) == 0 {
			logger.Info("no module directories to watch", "path", cfg.SearchPath())
		}
		logger.Info("watching for new modules", "metrics", cfg.MetricsAddr)

		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().String("metrics-addr", ":9464", "Address of the /metrics endpoint")
	_ = v.BindPFlag(config.KeyMetricsAddr, watchCmd.Flags().Lookup("metrics-addr"))
}
