package routing

import (
	"proxyforge-hq/proxyforge/pkg/config"
	"proxyforge-hq/proxyforge/pkg/policy"
)

// FallbackBody is the plaintext acknowledgment served at the root path when
// no service binds it.
const FallbackBody = "OK"

// RuleKind classifies a path rule.
type RuleKind int

const (
	// RuleChallenge serves ACME HTTP-01 challenges from the certbot webroot.
	RuleChallenge RuleKind = iota
	// RuleExact matches the literal service path and forwards it unmodified.
	RuleExact
	// RulePrefix matches sub-paths of the service path and strips the prefix.
	RulePrefix
	// RuleRoot is the catch-all rule of the root service.
	RuleRoot
	// RuleFallback answers the root path with FallbackBody.
	RuleFallback
)

// String returns the rule kind name.
func (k RuleKind) String() string {
	switch k {
	case RuleChallenge:
		return "challenge"
	case RuleExact:
		return "exact"
	case RulePrefix:
		return "prefix"
	case RuleRoot:
		return "root"
	case RuleFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// PathRule is one location of the path-routing document.
type PathRule struct {
	// Kind classifies the rule.
	Kind RuleKind

	// Path is the route the rule was derived from: the service path for
	// exact, prefix and root rules, policy.ChallengePath or "/" otherwise.
	Path string

	// Service is the target service. Nil for challenge and fallback rules.
	Service *config.Service

	// Upstream is the proxy_pass target. Prefix rules carry a trailing slash
	// so nginx replaces the matched prefix with "/".
	Upstream string

	// RateLimit is the resolved limit_req directive, nil when not limited.
	RateLimit *policy.RateLimitDirective

	// Logging is the service-level logging of the location. Disabled
	// targets are nil and inherit the http-level logs.
	Logging policy.LoggingPolicy
}

// Location returns the nginx location argument of the rule.
func (r PathRule) Location() string {
	switch r.Kind {
	case RuleExact:
		return "= " + r.Path
	case RulePrefix:
		return r.Path + "/"
	case RuleChallenge:
		return policy.ChallengePath
	default:
		return config.RootPath
	}
}

// Proxies reports whether the rule forwards to a service.
func (r PathRule) Proxies() bool {
	return r.Service != nil
}

// ListenerAction is what a domain listener does with a request.
type ListenerAction int

const (
	// ActionProxy forwards the request to the service.
	ActionProxy ListenerAction = iota
	// ActionRedirect answers with a permanent redirect to https.
	ActionRedirect
)

// String returns the action name.
func (a ListenerAction) String() string {
	if a == ActionRedirect {
		return "redirect"
	}
	return "proxy"
}

// Listener is one server block of a domain document.
type Listener struct {
	Port   int
	TLS    bool
	Action ListenerAction
}

// Redirect reports whether the listener redirects instead of proxying.
func (l Listener) Redirect() bool {
	return l.Action == ActionRedirect
}

// DomainUnit is the routing unit of one domain.
type DomainUnit struct {
	// Domain is the server_name.
	Domain string

	// Service is the target service.
	Service config.Service

	// Upstream is the proxy_pass target.
	Upstream string

	// RateLimit is the resolved limit_req directive, nil when not limited.
	RateLimit *policy.RateLimitDirective

	// Logging is the service-level logging of the encrypted (or only)
	// proxying listener.
	Logging policy.LoggingPolicy

	// TLS is the resolved TLS decision.
	TLS policy.TLSPolicy

	// Listeners are the server blocks: a single plaintext proxying
	// listener, or a plaintext redirect listener followed by an encrypted
	// proxying listener.
	Listeners []Listener
}

// RouteTable is the derived routing of one generation run. Path rules and
// domain units are independent of each other.
type RouteTable struct {
	// Paths are the locations of the path-routing document in render order:
	// the challenge rule, exact and prefix rules in declared service order,
	// then exactly one root or fallback rule.
	Paths []PathRule

	// Domains are the domain units in declared service order.
	Domains []DomainUnit
}

// Match is the result of resolving a request path against the table.
type Match struct {
	// Rule is the matched rule.
	Rule PathRule

	// Forward is the path the upstream receives. Empty for the fallback
	// rule, which answers directly.
	Forward string
}
