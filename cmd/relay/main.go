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
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"adaremote/internal/config"
	"adaremote/internal/logging"
	"adaremote/internal/metrics"
	"adaremote/internal/relay/server"
)

const shutdownTimeout = 5 * time.Second

var (
	bind    string
	verbose bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "adaremote-relay",
		Short:        "Signaling relay for adaremote sessions",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.InitLog(logging.Level(verbose), logging.Console); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, bind)
		},
	}
	cmd.Flags().StringVarP(&bind, "bind", "b", config.DefaultBind, "address to listen on")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func run(ctx context.Context, addr string) error {
	cfg := config.DefaultRelay()
	cfg.Bind = addr

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	srv := server.New(cfg, metrics.NewPrometheusCollector(reg))

	hs := &http.Server{
		Addr:              cfg.Bind,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("relay listening on %s", cfg.Bind)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down relay")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
