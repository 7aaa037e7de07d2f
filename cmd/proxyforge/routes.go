package main

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"proxyforge-hq/proxyforge/pkg/cli"
	"proxyforge-hq/proxyforge/pkg/config"
	"proxyforge-hq/proxyforge/pkg/generator"
	"proxyforge-hq/proxyforge/pkg/routing"
)

var routesFlags struct {
	resolve string
	host    string
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the route table",
	Long: `Routes prints the path rules of default.conf in nginx evaluation order and
the domain virtual hosts with their listeners.

With --resolve, it shows which rule answers a request path and the path
forwarded upstream. With --host, it shows the virtual host serving a
domain; request paths on a host without its own virtual host fall through
to the path rules.

Examples:
  proxyforge routes
  proxyforge routes --resolve /api/users/42
  proxyforge routes --host shop.example.com --resolve /cart
  proxyforge routes --format json`,
	RunE: runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)
	routesCmd.Flags().StringVar(&routesFlags.resolve, "resolve", "", "resolve a request path against the path rules")
	routesCmd.Flags().StringVar(&routesFlags.host, "host", "", "resolve against the virtual host of this domain")
}

type pathRoute struct {
	Kind      string `json:"kind"`
	Location  string `json:"location"`
	Service   string `json:"service,omitempty"`
	Upstream  string `json:"upstream,omitempty"`
	RateLimit bool   `json:"rate_limited"`
}

type domainRoute struct {
	Domain    string   `json:"domain"`
	Service   string   `json:"service"`
	Upstream  string   `json:"upstream"`
	TLS       bool     `json:"tls"`
	Listeners []string `json:"listeners"`
}

type resolvedRoute struct {
	Host     string `json:"host,omitempty"`
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	Service  string `json:"service,omitempty"`
	Forward  string `json:"forward,omitempty"`
	Upstream string `json:"upstream,omitempty"`
}

type routesView struct {
	Paths    []pathRoute    `json:"paths"`
	Domains  []domainRoute  `json:"domains"`
	Resolved *resolvedRoute `json:"resolved,omitempty"`
}

func newRoutesView(table *routing.RouteTable) *routesView {
	v := &routesView{Paths: []pathRoute{}, Domains: []domainRoute{}}
	for _, r := range table.Paths {
		p := pathRoute{
			Kind:      r.Kind.String(),
			Location:  r.Location(),
			Upstream:  r.Upstream,
			RateLimit: r.RateLimit != nil,
		}
		if r.Service != nil {
			p.Service = r.Service.Name
		}
		v.Paths = append(v.Paths, p)
	}
	for _, u := range table.Domains {
		d := domainRoute{
			Domain:   u.Domain,
			Service:  u.Service.Name,
			Upstream: u.Upstream,
			TLS:      u.TLS.Enabled,
		}
		for _, l := range u.Listeners {
			d.Listeners = append(d.Listeners, fmt.Sprintf("%d/%s", l.Port, l.Action))
		}
		v.Domains = append(v.Domains, d)
	}
	return v
}

func (v *routesView) String() string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "KIND\tLOCATION\tSERVICE\tUPSTREAM\tLIMIT")
	for _, p := range v.Paths {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Kind, p.Location, dash(p.Service), dash(p.Upstream), yesNo(p.RateLimit))
	}

	if len(v.Domains) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "DOMAIN\tSERVICE\tUPSTREAM\tLISTENERS")
		for _, d := range v.Domains {
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", d.Domain, d.Service, d.Upstream, d.Listeners)
		}
	}
	w.Flush()

	if r := v.Resolved; r != nil {
		fmt.Fprintf(&buf, "\n%s%s -> %s", r.Host, r.Path, r.Kind)
		if r.Service != "" {
			fmt.Fprintf(&buf, " %s (%s, forwards %s)", r.Service, r.Upstream, r.Forward)
		}
		buf.WriteString("\n")
	}

	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

func runRoutes(cmd *cobra.Command, args []string) error {
	src, err := config.LoadEnvironment(envFile)
	if err != nil {
		return cli.NewCommandError("routes", err)
	}

	res, err := generator.Synthesize(src)
	if err != nil {
		return err
	}

	view := newRoutesView(res.Table)

	reqPath := routesFlags.resolve
	if routesFlags.host != "" && reqPath == "" {
		reqPath = config.RootPath
	}
	if reqPath != "" {
		resolved, err := resolveRoute(res.Table, strings.ToLower(routesFlags.host), reqPath)
		if err != nil {
			return err
		}
		view.Resolved = resolved
	}

	return cli.NewFormatter(outputFormat()).FormatTo(cmd.OutOrStdout(), view)
}

// resolveRoute answers reqPath on host the way nginx would: a domain with its
// own virtual host forwards the path unchanged, anything else falls through
// to the path rules of default.conf.
func resolveRoute(table *routing.RouteTable, host, reqPath string) (*resolvedRoute, error) {
	if unit, ok := table.DomainFor(host); ok {
		return &resolvedRoute{
			Host:     unit.Domain,
			Path:     reqPath,
			Kind:     "domain",
			Service:  unit.Service.Name,
			Forward:  reqPath,
			Upstream: unit.Upstream,
		}, nil
	}

	m, ok := table.Lookup(reqPath)
	if !ok {
		return nil, cli.NewConfigError("resolve", fmt.Sprintf("%q is not an absolute request path", reqPath))
	}
	r := &resolvedRoute{
		Path:    reqPath,
		Kind:    m.Rule.Kind.String(),
		Forward: m.Forward,
	}
	if m.Rule.Service != nil {
		r.Service = m.Rule.Service.Name
		r.Upstream = m.Rule.Upstream
	}
	return r, nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
