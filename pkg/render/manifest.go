package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"proxyforge-hq/proxyforge/pkg/config"
	"proxyforge-hq/proxyforge/pkg/policy"
)

// Container mount points and names used by the manifest.
const (
	nginxConfMount = "/etc/nginx/nginx.conf"

	ProxyServiceName   = "nginx"
	IssueServiceName   = "certbot"
	RenewalServiceName = "certbot-renew"
)

// Manifest is a docker compose document. Field order is emission order.
type Manifest struct {
	Services ManifestServices       `yaml:"services"`
	Networks map[string]NetworkSpec `yaml:"networks"`
}

// ManifestServices holds the proxy and the optional certbot processes.
type ManifestServices struct {
	Proxy   *ComposeService `yaml:"nginx"`
	Issue   *ComposeService `yaml:"certbot,omitempty"`
	Renewal *ComposeService `yaml:"certbot-renew,omitempty"`
}

// ComposeService is one compose service entry.
type ComposeService struct {
	Image         string   `yaml:"image"`
	ContainerName string   `yaml:"container_name"`
	Entrypoint    []string `yaml:"entrypoint,omitempty"`
	Ports         []string `yaml:"ports,omitempty"`
	Volumes       []string `yaml:"volumes,omitempty"`
	Networks      []string `yaml:"networks,omitempty"`
	DependsOn     []string `yaml:"depends_on,omitempty"`
	Restart       string   `yaml:"restart"`
}

// NetworkSpec declares a compose network.
type NetworkSpec struct {
	External bool `yaml:"external"`
}

// BuildManifest assembles the manifest for cfg. logDirs are the absolute
// host log directories, bind-mounted at the same path inside the proxy.
func BuildManifest(cfg *config.Config, logDirs []string, certs policy.CertificatePlan) *Manifest {
	network := cfg.Network.Name

	proxy := &ComposeService{
		Image:         cfg.Nginx.Image,
		ContainerName: ProxyServiceName,
		Ports:         []string{"80:80", "443:443"},
		Volumes: []string{
			bind("./"+NginxConfPath, nginxConfMount, true),
			bind("./"+ConfDir, IncludeDir, true),
			bind("./"+WebrootHostDir, policy.WebrootDir, true),
			bind("./"+CertsHostDir, policy.LetsEncryptDir, true),
		},
		Networks: []string{network},
		Restart:  "unless-stopped",
	}
	for _, dir := range logDirs {
		proxy.Volumes = append(proxy.Volumes, bind(dir, dir, false))
	}

	m := &Manifest{
		Services: ManifestServices{Proxy: proxy},
		Networks: map[string]NetworkSpec{network: {External: true}},
	}

	if certs.EmitIssuance() {
		m.Services.Issue = certbotService(cfg, IssueServiceName, issueScript(certs), "no")
	}
	if certs.EmitRenewal() {
		m.Services.Renewal = certbotService(cfg, RenewalServiceName, renewalScript(certs), "unless-stopped")
	}

	return m
}

// RenderManifest encodes m as YAML with two-space indentation.
func RenderManifest(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

func certbotService(cfg *config.Config, name, script, restart string) *ComposeService {
	return &ComposeService{
		Image:         cfg.Certbot.Image,
		ContainerName: name,
		Entrypoint:    []string{"/bin/sh", "-c", script},
		Volumes: []string{
			bind("./"+WebrootHostDir, policy.WebrootDir, false),
			bind("./"+CertsHostDir, policy.LetsEncryptDir, false),
		},
		Networks:  []string{cfg.Network.Name},
		DependsOn: []string{ProxyServiceName},
		Restart:   restart,
	}
}

// issueScript requests every certificate once, stopping at the first failure.
func issueScript(certs policy.CertificatePlan) string {
	cmds := make([]string, 0, len(certs.Issuance))
	for _, domain := range certs.Issuance {
		cmds = append(cmds, certonly(domain, certs.Email))
	}
	return strings.Join(cmds, " && ")
}

// renewalScript loops forever, renewing due certificates then sleeping.
// The sleep runs in the background so TERM stops the loop promptly.
func renewalScript(certs policy.CertificatePlan) string {
	cmds := make([]string, 0, len(certs.Renewal))
	for _, domain := range certs.Renewal {
		cmds = append(cmds, certonly(domain, certs.Email)+" --keep-until-expiring")
	}
	seconds := int64(certs.RenewInterval.Seconds())
	return fmt.Sprintf("trap exit TERM; while :; do %s; sleep %d & wait $${!}; done",
		strings.Join(cmds, "; "), seconds)
}

func certonly(domain, email string) string {
	return fmt.Sprintf(
		"certbot certonly --webroot -w %s --email %s --agree-tos --no-eff-email --non-interactive --cert-name %s -d %s",
		policy.WebrootDir, shellArg(email), domain, domain)
}

// plainArg matches words the shell never reinterprets.
var plainArg = regexp.MustCompile(`^[A-Za-z0-9@%+=:,./_-]+$`)

// shellArg quotes s as one /bin/sh word. Single quotes stop every shell
// expansion; "$" is doubled because compose interpolates entrypoints.
func shellArg(s string) string {
	if !plainArg.MatchString(s) {
		s = "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return strings.ReplaceAll(s, "$", "$$")
}

func bind(host, container string, readOnly bool) string {
	if readOnly {
		return host + ":" + container + ":ro"
	}
	return host + ":" + container
}
