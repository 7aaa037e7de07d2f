package tracing

import (
	"errors"
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Sampling strategies accepted by Config.Sampler and --trace-sampler.
const (
	SamplerAlways = "always"
	SamplerNever  = "never"
	SamplerRatio  = "ratio"
)

// ErrInvalidSampler is matched by every sampler configuration error.
var ErrInvalidSampler = errors.New("invalid trace sampler")

// newSampler returns the root sampler for strategy. An empty strategy is
// SamplerAlways. The result defers to a sampled parent, so a run started
// inside a CI pipeline trace follows the pipeline's decision.
func newSampler(strategy string, ratio float64) (sdktrace.Sampler, error) {
	var root sdktrace.Sampler
	switch strategy {
	case "", SamplerAlways:
		root = sdktrace.AlwaysSample()
	case SamplerNever:
		root = sdktrace.NeverSample()
	case SamplerRatio:
		if ratio < 0 || ratio > 1 {
			return nil, fmt.Errorf("%w: ratio %g is outside [0, 1]", ErrInvalidSampler, ratio)
		}
		root = sdktrace.TraceIDRatioBased(ratio)
	default:
		return nil, fmt.Errorf("%w: %q (want %s, %s or %s)",
			ErrInvalidSampler, strategy, SamplerAlways, SamplerNever, SamplerRatio)
	}
	return sdktrace.ParentBased(root), nil
}
