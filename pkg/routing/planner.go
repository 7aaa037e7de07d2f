package routing

import (
	"proxyforge-hq/proxyforge/pkg/config"
	"proxyforge-hq/proxyforge/pkg/policy"
)

// Standard listener ports.
const (
	HTTPPort  = 80
	HTTPSPort = 443
)

// Plan derives the route table from the validated configuration.
//
// Path routing walks services in declared order. The root service yields one
// catch-all rule; every other path P yields an exact rule for P and a prefix
// rule for P/ that strips P before forwarding. When no service binds the
// root path a fallback rule answering FallbackBody is synthesised.
//
// Domain routing emits one unit per service with a domain, regardless of
// whether the service is also path-routed.
func Plan(cfg *config.Config) *RouteTable {
	table := &RouteTable{
		Paths: []PathRule{{
			Kind: RuleChallenge,
			Path: policy.ChallengePath,
		}},
	}

	var root *PathRule
	for i := range cfg.Services {
		svc := &cfg.Services[i]
		if !svc.HasPath() {
			continue
		}
		limit := policy.ResolveRateLimit(*svc, cfg)
		logging := policy.ResolveLogging(*svc, cfg)

		if svc.IsRoot() {
			// Build rejects a second root service.
			root = &PathRule{
				Kind:      RuleRoot,
				Path:      config.RootPath,
				Service:   svc,
				Upstream:  svc.Upstream(),
				RateLimit: limit,
				Logging:   logging,
			}
			continue
		}

		table.Paths = append(table.Paths,
			PathRule{
				Kind:      RuleExact,
				Path:      svc.Path,
				Service:   svc,
				Upstream:  svc.Upstream(),
				RateLimit: limit,
				Logging:   logging,
			},
			PathRule{
				Kind:      RulePrefix,
				Path:      svc.Path,
				Service:   svc,
				Upstream:  svc.Upstream() + "/",
				RateLimit: limit,
				Logging:   logging,
			},
		)
	}

	if root == nil {
		root = &PathRule{Kind: RuleFallback, Path: config.RootPath}
	}
	table.Paths = append(table.Paths, *root)

	for _, svc := range cfg.Services {
		if !svc.HasDomain() {
			continue
		}
		table.Domains = append(table.Domains, planDomain(svc, cfg))
	}

	return table
}

func planDomain(svc config.Service, cfg *config.Config) DomainUnit {
	unit := DomainUnit{
		Domain:    svc.Domain,
		Service:   svc,
		Upstream:  svc.Upstream(),
		RateLimit: policy.ResolveRateLimit(svc, cfg),
		Logging:   policy.ResolveLogging(svc, cfg),
		TLS:       policy.ResolveTLS(svc),
	}

	if unit.TLS.Enabled {
		unit.Listeners = []Listener{
			{Port: HTTPPort, Action: ActionRedirect},
			{Port: HTTPSPort, TLS: true, Action: ActionProxy},
		}
	} else {
		unit.Listeners = []Listener{
			{Port: HTTPPort, Action: ActionProxy},
		}
	}

	return unit
}
