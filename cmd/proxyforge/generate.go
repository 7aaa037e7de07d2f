package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"proxyforge-hq/proxyforge/pkg/cli"
	"proxyforge-hq/proxyforge/pkg/generator"
	"proxyforge-hq/proxyforge/pkg/network"
	"proxyforge-hq/proxyforge/pkg/telemetry/metrics"
	"proxyforge-hq/proxyforge/pkg/telemetry/tracing"
)

var generateFlags struct {
	output        string
	skipNetwork   bool
	metricsFile   string
	traceEndpoint string
	traceInsecure bool
	traceSampler  string
	traceRatio    float64
}

// prober is replaced in tests.
var prober network.Prober

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the proxy configuration and compose stack",
	Long: `Generate validates the configuration, renders every document and writes
them to the output directory, which is removed and recreated on each run.
It then makes sure the shared docker network exists.

Examples:
  # Generate ./generated from .env and the environment
  proxyforge generate

  # Use another env file and output directory
  proxyforge generate --env-file prod.env -o /srv/proxy

  # CI: no docker daemon, metrics for node_exporter
  proxyforge generate --skip-network --metrics-file /var/lib/node_exporter/proxyforge.prom

  # Machine-readable summary
  proxyforge generate --format json

  # Trace one run in ten
  proxyforge generate --trace-endpoint otel:4317 --trace-insecure \
    --trace-sampler ratio --trace-sample-ratio 0.1`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addGenerateFlags(generateCmd)
}

// addGenerateFlags registers the generate flags on cmd. The root command
// carries them too because generation is its default action.
func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&generateFlags.output, "output", "o", generator.DefaultOutputDir, "output directory (wiped on every run)")
	cmd.Flags().BoolVar(&generateFlags.skipNetwork, "skip-network", false, "do not check or create the docker network")
	cmd.Flags().StringVar(&generateFlags.metricsFile, "metrics-file", "", "write run metrics to this file in Prometheus textfile format")
	cmd.Flags().StringVar(&generateFlags.traceEndpoint, "trace-endpoint", "", "OTLP gRPC endpoint for run traces")
	cmd.Flags().BoolVar(&generateFlags.traceInsecure, "trace-insecure", false, "disable TLS towards the trace endpoint")
	cmd.Flags().StringVar(&generateFlags.traceSampler, "trace-sampler", tracing.SamplerAlways, "trace sampler: always, never, ratio")
	cmd.Flags().Float64Var(&generateFlags.traceRatio, "trace-sample-ratio", 1, "fraction of runs traced with --trace-sampler ratio")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	tracer, err := tracing.New(ctx, tracing.Config{
		Endpoint:       generateFlags.traceEndpoint,
		Insecure:       generateFlags.traceInsecure,
		Sampler:        generateFlags.traceSampler,
		SampleRatio:    generateFlags.traceRatio,
		Timeout:        5 * time.Second,
		ServiceVersion: Version,
	})
	if errors.Is(err, tracing.ErrInvalidSampler) {
		return cli.NewConfigError("trace-sampler", err.Error())
	}
	if err != nil {
		return cli.NewCommandError("generate", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("trace export failed", "error", err)
		}
	}()

	summary, err := generator.Run(ctx, generator.Options{
		EnvFile:     envFile,
		OutputDir:   generateFlags.output,
		SkipNetwork: generateFlags.skipNetwork,
		Prober:      prober,
		MetricsFile: generateFlags.metricsFile,
		Logger:      logger,
		Tracer:      tracer,
		Metrics:     metrics.NewCollector(metrics.Config{}, nil),
	})
	if err != nil {
		return err
	}

	return cli.NewFormatter(outputFormat()).FormatTo(cmd.OutOrStdout(), summary)
}
