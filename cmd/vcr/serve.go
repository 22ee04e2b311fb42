package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hsmkit/hsm"
	httpAdapter "github.com/hsmkit/hsm/internal/adapters/http"
	"github.com/hsmkit/hsm/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recorder over HTTP",
	Long:  `Starts the recorder and exposes it over a JSON API: state-tree inspection, event dispatch by name, and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		m, err := machineFromFlags(cmd)
		if err != nil {
			return err
		}

		promReg := prometheus.NewRegistry()
		metrics := observability.NewMetrics(promReg)
		metrics.EventName = m.eventName

		eng := hsm.New(m.bindings,
			hsm.WithLogger(logger),
			hsm.WithLifecycleHooks(metrics.Hooks()),
		)
		if err := eng.Start(cmd.Context(), m.root); err != nil {
			return err
		}

		r := chi.NewRouter()
		r.Mount("/", httpAdapter.NewHandler(eng, m.events))
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: r,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("server listening", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown failed", "error", err)
				if err := srv.Close(); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
