package main

import (
	"github.com/aretw0/turing/internal/service"
	httpAdapter "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stateless HTTP server",
	Long: `Serves POST /v1/simulate and POST /v1/validate as a JSON API, with prometheus
metrics on /metrics and a liveness probe on /healthz.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}

		svc := service.New(logger, metrics.Hooks())
		if cfg.MaxSteps > 0 {
			svc.MaxSteps = cfg.MaxSteps
		}

		handler := httpAdapter.NewHandler(svc,
			httpAdapter.WithGatherer(reg),
			httpAdapter.WithLogger(logger),
		)

		signals := runner.NewSignalManager(cmd.Context())
		defer signals.Stop()
		return httpAdapter.ListenAndServe(signals.Context(), cfg.HTTP.Addr, handler, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
}
