package routing

import "strings"

// Root returns the rule answering the root path: the root service rule or
// the synthesised fallback.
func (t *RouteTable) Root() PathRule {
	return t.Paths[len(t.Paths)-1]
}

// HasFallback reports whether no service binds the root path.
func (t *RouteTable) HasFallback() bool {
	return t.Root().Kind == RuleFallback
}

// Lookup resolves a request path the way nginx selects a location: an exact
// match wins, otherwise the longest matching prefix. The root rule matches
// every path, so Lookup only fails for paths not starting with "/".
func (t *RouteTable) Lookup(path string) (Match, bool) {
	if !strings.HasPrefix(path, "/") {
		return Match{}, false
	}

	for _, r := range t.Paths {
		if r.Kind == RuleExact && r.Path == path {
			return Match{Rule: r, Forward: path}, true
		}
	}

	best := -1
	bestLen := -1
	for i, r := range t.Paths {
		if r.Kind == RuleExact {
			continue
		}
		loc := r.Location()
		if strings.HasPrefix(path, loc) && len(loc) > bestLen {
			best, bestLen = i, len(loc)
		}
	}
	if best < 0 {
		return Match{}, false
	}

	r := t.Paths[best]
	switch r.Kind {
	case RulePrefix:
		return Match{Rule: r, Forward: "/" + strings.TrimPrefix(path, r.Location())}, true
	case RuleFallback:
		return Match{Rule: r}, true
	default:
		return Match{Rule: r, Forward: path}, true
	}
}

// DomainFor returns the unit serving domain.
func (t *RouteTable) DomainFor(domain string) (DomainUnit, bool) {
	for _, u := range t.Domains {
		if u.Domain == domain {
			return u, true
		}
	}
	return DomainUnit{}, false
}
