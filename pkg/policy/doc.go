// Package policy resolves the per-service logging, rate-limit and TLS
// decisions of a validated configuration.
//
// Every resolver is a pure function of a service descriptor and the global
// configuration. Optional directives are returned as nil pointers when they
// must not be rendered, never as empty strings.
//
//	cfg, _ := config.Build(src)
//	for _, p := range policy.Resolve(cfg) {
//	    if p.RateLimit != nil {
//	        fmt.Println(p.Service.Name, p.RateLimit.Directive())
//	    }
//	}
//
// Certificates derives the issuance and renewal domain lists; the renewal
// list is always a subset of the issuance list.
package policy
