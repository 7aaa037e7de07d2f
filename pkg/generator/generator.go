package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"proxyforge-hq/proxyforge/pkg/cli"
	"proxyforge-hq/proxyforge/pkg/config"
	"proxyforge-hq/proxyforge/pkg/network"
	"proxyforge-hq/proxyforge/pkg/output"
	"proxyforge-hq/proxyforge/pkg/policy"
	"proxyforge-hq/proxyforge/pkg/render"
	"proxyforge-hq/proxyforge/pkg/routing"
	"proxyforge-hq/proxyforge/pkg/telemetry/logging"
	"proxyforge-hq/proxyforge/pkg/telemetry/metrics"
	"proxyforge-hq/proxyforge/pkg/telemetry/tracing"
)

// DefaultOutputDir is the bundle root used when Options.OutputDir is empty.
const DefaultOutputDir = "./generated"

// Options configures one generation run.
type Options struct {
	// Source supplies configuration keys. When nil, the process environment
	// layered over EnvFile is loaded.
	Source config.Source

	// EnvFile is an optional dotenv file read when Source is nil.
	EnvFile string

	// OutputDir is the bundle root. It is wiped on every run.
	OutputDir string

	// SkipNetwork disables the container network check.
	SkipNetwork bool

	// Prober checks and creates the container network. Defaults to the
	// docker CLI.
	Prober network.Prober

	// MetricsFile, when set, receives the run metrics in textfile format,
	// also after a failed run.
	MetricsFile string

	Logger  *slog.Logger
	Tracer  *tracing.Tracer
	Metrics *metrics.Collector
}

// Result is the in-memory outcome of Synthesize.
type Result struct {
	Config       *config.Config
	Table        *routing.RouteTable
	Policies     []policy.ServicePolicy
	Certificates policy.CertificatePlan
	Bundle       *render.Bundle
}

// Synthesize validates src and renders the bundle. It performs no I/O.
func Synthesize(src config.Source) (*Result, error) {
	return synthesize(context.Background(), src, newRun(Options{}))
}

// Run executes the full pipeline and summarises the written bundle.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	r := newRun(opts)

	ctx, span := r.tracer.Start(ctx, "proxyforge.generate")
	traceID := tracing.TraceID(ctx)
	if r.tracer.Enabled() {
		r.logger.Debug("run traced", "trace_id", traceID)
	}
	summary, err := r.execute(ctx)
	if summary != nil {
		summary.TraceID = traceID
	}
	tracing.End(span, err, cli.ErrorLabel(err))

	if err != nil {
		r.metrics.RecordResult(cli.ErrorLabel(err))
	} else {
		r.metrics.RecordResult(metrics.ResultSuccess)
	}
	if r.opts.MetricsFile != "" {
		if werr := r.metrics.WriteTextfile(r.opts.MetricsFile); werr != nil {
			r.logger.Warn("metrics not written", "path", r.opts.MetricsFile, "error", werr)
		}
	}

	return summary, err
}

type run struct {
	opts    Options
	logger  *slog.Logger
	tracer  *tracing.Tracer
	metrics *metrics.Collector
}

func newRun(opts Options) *run {
	r := &run{opts: opts, logger: opts.Logger, tracer: opts.Tracer, metrics: opts.Metrics}
	if r.logger == nil {
		r.logger = logging.Discard()
	}
	if r.tracer == nil {
		r.tracer = tracing.Noop()
	}
	if r.metrics == nil {
		r.metrics = metrics.NewCollector(metrics.Config{}, nil)
	}
	if r.opts.OutputDir == "" {
		r.opts.OutputDir = DefaultOutputDir
	}
	return r
}

// stage runs fn inside a span and records its duration.
func (r *run) stage(ctx context.Context, name, span string, fn func(ctx context.Context) error) error {
	ctx, s := r.tracer.Start(ctx, span)
	start := time.Now()
	err := fn(ctx)
	r.metrics.RecordStage(name, time.Since(start))
	tracing.End(s, err, cli.ErrorLabel(err))
	return err
}

func (r *run) execute(ctx context.Context) (*Summary, error) {
	src := r.opts.Source
	if src == nil {
		err := r.stage(ctx, metrics.StageLoad, "proxyforge.config.load", func(context.Context) error {
			env, err := config.LoadEnvironment(r.opts.EnvFile)
			src = env
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	result, err := synthesize(ctx, src, r)
	if err != nil {
		return nil, err
	}
	r.logResult(result)

	// Materialise the bundle
	writer := output.NewWriter(r.opts.OutputDir, r.logger)
	err = r.stage(ctx, metrics.StageWrite, "proxyforge.output.write", func(ctx context.Context) error {
		return writer.Write(ctx, result.Bundle)
	})
	if err != nil {
		return nil, err
	}

	summary := newSummary(r.opts.OutputDir, result)

	// Shared network
	if r.opts.SkipNetwork {
		r.logger.Info("network check skipped", "network", result.Config.Network.Name)
	} else {
		prober := r.opts.Prober
		if prober == nil {
			prober = network.NewDockerProber("", nil)
		}
		err = r.stage(ctx, metrics.StageNetwork, "proxyforge.network.ensure", func(ctx context.Context) error {
			created, err := network.Ensure(ctx, prober, result.Config.Network.Name)
			summary.NetworkCreated = created
			return err
		})
		if err != nil {
			return nil, err
		}
		summary.NetworkChecked = true
		r.logger.Info("network ready", "network", result.Config.Network.Name, "created", summary.NetworkCreated)
	}

	r.metrics.SetInventory(summary.inventory(result))
	return summary, nil
}

func synthesize(ctx context.Context, src config.Source, r *run) (*Result, error) {
	res := &Result{}

	err := r.stage(ctx, metrics.StageBuild, "proxyforge.config.build", func(ctx context.Context) error {
		cfg, err := config.Build(src)
		res.Config = cfg
		return err
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, metrics.StagePlan, "proxyforge.routing.plan", func(ctx context.Context) error {
		res.Table = routing.Plan(res.Config)
		spanAttrs(ctx,
			attribute.Int("routes.paths", len(res.Table.Paths)),
			attribute.Int("routes.domains", len(res.Table.Domains)),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, metrics.StageResolve, "proxyforge.policy.resolve", func(ctx context.Context) error {
		res.Policies = policy.Resolve(res.Config)
		certs, err := policy.Certificates(res.Config)
		res.Certificates = certs
		spanAttrs(ctx,
			attribute.Int("certificates.issuance", len(certs.Issuance)),
			attribute.Int("certificates.renewal", len(certs.Renewal)),
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, metrics.StageRender, "proxyforge.render", func(ctx context.Context) error {
		renderer, err := render.New()
		if err != nil {
			return err
		}
		bundle, err := renderer.Render(res.Config, res.Table, res.Policies, res.Certificates)
		if err != nil {
			return err
		}
		res.Bundle = bundle
		spanAttrs(ctx, attribute.Int("documents", len(bundle.Documents)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	return res, nil
}

func (r *run) logResult(res *Result) {
	for _, n := range res.Config.Skipped {
		r.logger.Warn("service skipped: no path or domain",
			"key", config.ServiceKey(n, config.FieldName))
	}
	for _, svc := range res.Config.Services {
		r.logger.Debug("service planned", "service", svc.String())
	}
	if !res.Table.Root().Proxies() {
		r.logger.Info("no root service, serving fallback responder")
	}
	if res.Certificates.EmitIssuance() {
		r.logger.Info("certificates planned",
			"email", res.Certificates.Email,
			"issuance", res.Certificates.Issuance,
			"renewal", res.Certificates.Renewal,
		)
	}
}
