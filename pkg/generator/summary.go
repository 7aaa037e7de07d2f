package generator

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"proxyforge-hq/proxyforge/pkg/telemetry/metrics"
)

// Summary describes a completed run.
type Summary struct {
	OutputDir      string           `json:"output_dir"`
	Documents      []string         `json:"documents"`
	Services       []ServiceSummary `json:"services"`
	Skipped        []int            `json:"skipped,omitempty"`
	PathRules      int              `json:"path_rules"`
	Fallback       bool             `json:"fallback"`
	Issuance       []string         `json:"issuance,omitempty"`
	Renewal        []string         `json:"renewal,omitempty"`
	LogDirectories []string         `json:"log_directories,omitempty"`
	Network        string           `json:"network"`
	NetworkChecked bool             `json:"network_checked"`
	NetworkCreated bool             `json:"network_created"`
	TraceID        string           `json:"trace_id,omitempty"`

	bytes int
}

// ServiceSummary describes one routed service.
type ServiceSummary struct {
	Name     string `json:"name"`
	Path     string `json:"path,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Upstream string `json:"upstream"`
	TLS      bool   `json:"tls"`
}

func newSummary(outputDir string, res *Result) *Summary {
	s := &Summary{
		OutputDir:      outputDir,
		Documents:      res.Bundle.Paths(),
		Skipped:        res.Config.Skipped,
		PathRules:      len(res.Table.Paths),
		Fallback:       res.Table.HasFallback(),
		LogDirectories: res.Bundle.LogDirectories,
		Network:        res.Config.Network.Name,
	}
	if res.Certificates.EmitIssuance() {
		s.Issuance = res.Certificates.Issuance
	}
	if res.Certificates.EmitRenewal() {
		s.Renewal = res.Certificates.Renewal
	}
	for _, p := range res.Policies {
		s.Services = append(s.Services, ServiceSummary{
			Name:     p.Service.Name,
			Path:     p.Service.Path,
			Domain:   p.Service.Domain,
			Upstream: p.Service.Upstream(),
			TLS:      p.TLS.Enabled,
		})
	}
	for _, d := range res.Bundle.Documents {
		s.bytes += len(d.Content)
	}
	return s
}

func (s *Summary) inventory(res *Result) metrics.Inventory {
	routes := make(map[string]int)
	for _, rule := range res.Table.Paths {
		routes[rule.Kind.String()]++
	}
	routes["domain"] = len(res.Table.Domains)

	return metrics.Inventory{
		Services:        len(s.Services),
		SkippedServices: len(s.Skipped),
		Routes:          routes,
		Issuance:        len(s.Issuance),
		Renewal:         len(s.Renewal),
		Documents:       len(s.Documents),
		Bytes:           s.bytes,
	}
}

// String renders the summary for terminal output.
func (s *Summary) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generated %d documents in %s\n", len(s.Documents), s.OutputDir)
	for _, d := range s.Documents {
		fmt.Fprintf(&b, "  %s\n", d)
	}

	fmt.Fprintf(&b, "Services: %d", len(s.Services))
	if len(s.Skipped) > 0 {
		fmt.Fprintf(&b, " (%d skipped)", len(s.Skipped))
	}
	b.WriteString("\n")
	for _, svc := range s.Services {
		var routes []string
		if svc.Path != "" {
			routes = append(routes, svc.Path)
		}
		if svc.Domain != "" {
			scheme := "http"
			if svc.TLS {
				scheme = "https"
			}
			routes = append(routes, scheme+"://"+svc.Domain)
		}
		fmt.Fprintf(&b, "  %s -> %s [%s]\n", svc.Name, svc.Upstream, strings.Join(routes, ", "))
	}
	if s.Fallback {
		b.WriteString("Root path: fallback responder\n")
	}

	if len(s.Issuance) > 0 {
		fmt.Fprintf(&b, "Certificates: %s\n", strings.Join(s.Issuance, ", "))
	}
	if len(s.Renewal) > 0 {
		fmt.Fprintf(&b, "Auto-renewal: %s\n", strings.Join(s.Renewal, ", "))
	}

	switch {
	case !s.NetworkChecked:
		fmt.Fprintf(&b, "Network: %s (not checked)", s.Network)
	case s.NetworkCreated:
		fmt.Fprintf(&b, "Network: %s (created)", s.Network)
	default:
		fmt.Fprintf(&b, "Network: %s (exists)", s.Network)
	}
	if s.TraceID != "" {
		fmt.Fprintf(&b, "\nTrace: %s", s.TraceID)
	}
	return b.String()
}

func spanAttrs(ctx context.Context, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}
