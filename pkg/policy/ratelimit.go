package policy

import (
	"strconv"

	"proxyforge-hq/proxyforge/pkg/config"
)

// ZoneSize is the shared memory size of the limit_req zone.
const ZoneSize = "10m"

// RateLimitZone is the limit_req_zone declaration in nginx.conf.
type RateLimitZone struct {
	Name string
	Size string
	Rate string
}

// Directive renders the declaration without indentation.
func (z RateLimitZone) Directive() string {
	return "limit_req_zone $binary_remote_addr zone=" + z.Name + ":" + z.Size + " rate=" + z.Rate + ";"
}

// RateLimitDirective is a limit_req directive inside a location.
type RateLimitDirective struct {
	Zone  string
	Burst int
}

// Directive renders the directive without indentation.
func (d RateLimitDirective) Directive() string {
	return "limit_req zone=" + d.Zone + " burst=" + strconv.Itoa(d.Burst) + " nodelay;"
}

// Zone returns the zone declaration, or nil when rate limiting is globally
// disabled.
func Zone(cfg *config.Config) *RateLimitZone {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return &RateLimitZone{
		Name: cfg.RateLimit.Zone,
		Size: ZoneSize,
		Rate: cfg.RateLimit.Rate,
	}
}

// ResolveRateLimit returns the directive for svc. It is non-nil only when
// both the global toggle and the service toggle are enabled.
func ResolveRateLimit(svc config.Service, cfg *config.Config) *RateLimitDirective {
	if !cfg.RateLimit.Enabled || !svc.RateLimit {
		return nil
	}
	return &RateLimitDirective{
		Zone:  cfg.RateLimit.Zone,
		Burst: cfg.RateLimit.Burst,
	}
}
