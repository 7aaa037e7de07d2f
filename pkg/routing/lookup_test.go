package routing

import (
	"testing"

	"proxyforge-hq/proxyforge/pkg/config/configtest"
)

func TestLookup(t *testing.T) {
	withRoot := Plan(configtest.NewEnv().
		AddService(configtest.ServiceSpec{Name: "api", Path: "/api", Port: 8080}).
		AddService(configtest.ServiceSpec{Name: "apiv2", Path: "/api/v2", Port: 8082}).
		AddService(configtest.ServiceSpec{Name: "web", Path: "/", Port: 3000}).
		Build(t))

	withoutRoot := Plan(configtest.NewEnv().
		AddService(configtest.ServiceSpec{Name: "api", Path: "/api", Port: 8080}).
		Build(t))

	tests := []struct {
		name        string
		table       *RouteTable
		path        string
		wantKind    RuleKind
		wantService string
		wantForward string
	}{
		{"exact path unmodified", withRoot, "/api", RuleExact, "api", "/api"},
		{"prefix stripped", withRoot, "/api/x", RulePrefix, "api", "/x"},
		{"prefix with trailing slash", withRoot, "/api/", RulePrefix, "api", "/"},
		{"longest prefix wins", withRoot, "/api/v2/users", RulePrefix, "apiv2", "/users"},
		{"exact beats prefix", withRoot, "/api/v2", RuleExact, "apiv2", "/api/v2"},
		{"similar name is not a sub-path", withRoot, "/apix", RuleRoot, "web", "/apix"},
		{"root catch-all", withRoot, "/about", RuleRoot, "web", "/about"},
		{"challenge", withRoot, "/.well-known/acme-challenge/token", RuleChallenge, "", "/.well-known/acme-challenge/token"},
		{"fallback answers directly", withoutRoot, "/", RuleFallback, "", ""},
		{"fallback for unrouted path", withoutRoot, "/missing", RuleFallback, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := tt.table.Lookup(tt.path)
			if !ok {
				t.Fatalf("Lookup(%q) found nothing", tt.path)
			}
			if m.Rule.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", m.Rule.Kind, tt.wantKind)
			}
			service := ""
			if m.Rule.Service != nil {
				service = m.Rule.Service.Name
			}
			if service != tt.wantService {
				t.Errorf("service = %q, want %q", service, tt.wantService)
			}
			if m.Forward != tt.wantForward {
				t.Errorf("forward = %q, want %q", m.Forward, tt.wantForward)
			}
		})
	}
}

func TestLookup_RelativePath(t *testing.T) {
	table := Plan(configtest.NewEnv().Build(t))
	if _, ok := table.Lookup("api"); ok {
		t.Error("Lookup() should reject paths without a leading slash")
	}
}
