package render

import "path"

// Document paths relative to the output root.
const (
	NginxConfPath   = "nginx/nginx.conf"
	ConfDir         = "nginx/conf.d"
	DefaultConfPath = "nginx/conf.d/default.conf"
	ManifestPath    = "docker-compose.yml"
	WebrootHostDir  = "certbot/www"
	CertsHostDir    = "certbot/conf"

	// IncludeDir is where the proxy container sees ConfDir.
	IncludeDir = "/etc/nginx/conf.d"
)

// DomainConfPath returns the document path of a domain unit.
func DomainConfPath(domain string) string {
	return path.Join(ConfDir, domain+".conf")
}

// Document is one named text document of the bundle.
type Document struct {
	// Path is relative to the output root, slash separated.
	Path string

	// Content is the full document text.
	Content []byte
}

// Bundle is the complete, ordered output of one generation run.
type Bundle struct {
	// Documents in emission order: nginx.conf, default.conf, one document
	// per domain in declared order, then the compose manifest.
	Documents []Document

	// Directories are created below the output root before writing, in order.
	Directories []string

	// LogDirectories are absolute host directories that must exist for file
	// log targets. Empty in stdout mode.
	LogDirectories []string
}

// Document returns the document at path.
func (b *Bundle) Document(path string) (Document, bool) {
	for _, d := range b.Documents {
		if d.Path == path {
			return d, true
		}
	}
	return Document{}, false
}

// Paths returns the document paths in emission order.
func (b *Bundle) Paths() []string {
	out := make([]string, 0, len(b.Documents))
	for _, d := range b.Documents {
		out = append(out, d.Path)
	}
	return out
}
