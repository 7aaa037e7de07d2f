// Package tracing records OpenTelemetry spans for proxyforge generation runs.
//
// # Overview
//
// Each run is one trace. The generator opens a root span and a child span per
// pipeline stage:
//
//	proxyforge.generate
//	├── proxyforge.config.build
//	├── proxyforge.routing.plan
//	├── proxyforge.policy.resolve
//	├── proxyforge.render
//	├── proxyforge.output.write
//	└── proxyforge.network.ensure
//
// Spans carry counts (services, routes, documents, domains) and the error
// class of a failed stage. They never carry configuration values.
//
// # Export
//
// Tracing is disabled unless an OTLP gRPC endpoint is configured. A disabled
// tracer hands out noop spans:
//
//	tracer, err := tracing.New(ctx, tracing.Config{
//	    Endpoint: "localhost:4317",
//	    Insecure: true,
//	    Sampler:  tracing.SamplerAlways,
//	})
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
// Shutdown flushes batched spans, so a short-lived CLI run must call it
// before exiting.
//
// # Sampling Strategies
//
// Three sampling strategies are supported:
//   - always: Sample every run
//   - never: Sample no runs
//   - ratio: Sample a fraction of runs
package tracing
