package policy

import "proxyforge-hq/proxyforge/pkg/config"

// ServicePolicy bundles every resolved concern of one service.
type ServicePolicy struct {
	Service   config.Service
	Logging   LoggingPolicy
	RateLimit *RateLimitDirective
	TLS       TLSPolicy
}

// Resolve resolves every service in declared order.
func Resolve(cfg *config.Config) []ServicePolicy {
	out := make([]ServicePolicy, 0, len(cfg.Services))
	for _, svc := range cfg.Services {
		out = append(out, ServicePolicy{
			Service:   svc,
			Logging:   ResolveLogging(svc, cfg),
			RateLimit: ResolveRateLimit(svc, cfg),
			TLS:       ResolveTLS(svc),
		})
	}
	return out
}

// LogDirectories returns every directory a file log target of cfg lives in:
// the global targets first, then services in declared order, without
// duplicates. It is empty in stdout mode.
func LogDirectories(cfg *config.Config, policies []ServicePolicy) []string {
	var dirs []string
	seen := make(map[string]bool)
	add := func(ds []string) {
		for _, d := range ds {
			if !seen[d] {
				seen[d] = true
				dirs = append(dirs, d)
			}
		}
	}

	add(GlobalLogging(cfg).Directories())
	for _, p := range policies {
		add(p.Logging.Directories())
	}
	return dirs
}
