package render

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"proxyforge-hq/proxyforge/pkg/config"
	"proxyforge-hq/proxyforge/pkg/policy"
	"proxyforge-hq/proxyforge/pkg/routing"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template names.
const (
	nginxTemplate   = "nginx.conf.tmpl"
	defaultTemplate = "default.conf.tmpl"
	domainTemplate  = "domain.conf.tmpl"
)

// Renderer turns a route table and resolved policies into a Bundle.
// It performs no I/O and is safe to reuse across runs.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	root := template.New("proxyforge").Option("missingkey=error")

	funcs := FuncMap()
	funcs["include"] = func(name string, data any) (string, error) {
		var buf bytes.Buffer
		if err := root.ExecuteTemplate(&buf, name, data); err != nil {
			return "", err
		}
		return buf.String(), nil
	}

	if _, err := root.Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{tmpl: root}, nil
}

// nginxData is the input of nginx.conf.tmpl.
type nginxData struct {
	Nginx      config.NginxConfig
	Logging    policy.LoggingPolicy
	Zone       *policy.RateLimitZone
	IncludeDir string
}

// Render produces the bundle. Identical input always yields byte-identical
// documents: iteration follows declared service order and the manifest is
// built from ordered structs.
func (r *Renderer) Render(cfg *config.Config, table *routing.RouteTable, policies []policy.ServicePolicy, certs policy.CertificatePlan) (*Bundle, error) {
	bundle := &Bundle{
		Directories:    []string{ConfDir, WebrootHostDir, CertsHostDir},
		LogDirectories: policy.LogDirectories(cfg, policies),
	}

	// Global proxy configuration
	content, err := r.execute(nginxTemplate, nginxData{
		Nginx:      cfg.Nginx,
		Logging:    policy.GlobalLogging(cfg),
		Zone:       policy.Zone(cfg),
		IncludeDir: IncludeDir,
	})
	if err != nil {
		return nil, err
	}
	bundle.Documents = append(bundle.Documents, Document{Path: NginxConfPath, Content: content})

	// Path routing
	content, err = r.execute(defaultTemplate, table)
	if err != nil {
		return nil, err
	}
	bundle.Documents = append(bundle.Documents, Document{Path: DefaultConfPath, Content: content})

	// Domain routing
	for _, unit := range table.Domains {
		content, err := r.execute(domainTemplate, unit)
		if err != nil {
			return nil, fmt.Errorf("domain %s: %w", unit.Domain, err)
		}
		bundle.Documents = append(bundle.Documents, Document{Path: DomainConfPath(unit.Domain), Content: content})
	}

	// Orchestration manifest
	content, err = RenderManifest(BuildManifest(cfg, bundle.LogDirectories, certs))
	if err != nil {
		return nil, err
	}
	bundle.Documents = append(bundle.Documents, Document{Path: ManifestPath, Content: content})

	return bundle, nil
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
