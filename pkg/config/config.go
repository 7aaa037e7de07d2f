package config

import (
	"fmt"
	"strings"
)

// LogMode selects where nginx writes its access and error logs.
type LogMode string

const (
	// LogModeFile writes logs to files below the configured log paths.
	LogModeFile LogMode = "file"
	// LogModeStdout writes every enabled log to the container's standard streams.
	LogModeStdout LogMode = "stdout"
)

// RootPath is the path route that catches every request no other rule matches.
const RootPath = "/"

// ChallengeRoute is the ACME HTTP-01 path served from the certbot webroot on
// every plaintext listener. No service may route it or anything below it.
const ChallengeRoute = "/.well-known/acme-challenge"

// Config is the validated configuration snapshot for one generation run.
// It is built once by Build and never mutated afterwards.
type Config struct {
	// Nginx contains worker, connection and proxy tuning for nginx.conf.
	Nginx NginxConfig

	// Logging contains the global logging topology.
	Logging LoggingConfig

	// RateLimit contains the global request rate-limit zone.
	RateLimit RateLimitConfig

	// Certbot contains certificate issuance and renewal settings.
	Certbot CertbotConfig

	// Network is the shared docker network every generated container joins.
	Network NetworkConfig

	// Services are the active service descriptors in declared order.
	Services []Service

	// Skipped lists the 1-based indices of descriptors that declared neither
	// a path nor a domain and were therefore ignored.
	Skipped []int
}

// NginxConfig contains nginx process and proxy tuning.
// Time and size values are kept in nginx notation (e.g. "65s", "10m").
type NginxConfig struct {
	// WorkerProcesses is "auto" or a positive integer.
	WorkerProcesses string

	// WorkerConnections is the per-worker connection limit.
	WorkerConnections int

	// KeepaliveTimeout is the client keepalive timeout.
	KeepaliveTimeout string

	// ClientMaxBodySize is the maximum accepted request body size.
	ClientMaxBodySize string

	// ProxyConnectTimeout, ProxyReadTimeout and ProxySendTimeout tune upstream I/O.
	ProxyConnectTimeout string
	ProxyReadTimeout    string
	ProxySendTimeout    string

	// Image is the container image for the proxy process.
	// Default: "nginx:alpine"
	Image string
}

// LoggingConfig contains the global logging settings.
type LoggingConfig struct {
	// Mode is either LogModeFile or LogModeStdout.
	Mode LogMode

	// Level is the nginx error_log verbosity (debug, info, notice, warn,
	// error, crit, alert, emerg).
	Level string

	// AccessLog toggles the http-level access log.
	// Default: true
	AccessLog bool

	// ErrorLog toggles the main error log.
	// Default: true
	ErrorLog bool

	// Path is the absolute log base directory. Required in file mode,
	// ignored in stdout mode.
	Path string
}

// RateLimitConfig contains the global limit_req zone settings.
type RateLimitConfig struct {
	// Enabled gates every per-service rate-limit directive.
	// Default: false
	Enabled bool

	// Zone is the limit_req_zone name.
	Zone string

	// Rate is the nginx rate expression (e.g. "10r/s").
	Rate string

	// Burst is the burst size applied by each limit_req directive.
	Burst int
}

// CertbotConfig contains certificate issuance and renewal settings.
type CertbotConfig struct {
	// Enabled emits the one-shot issuance process when at least one
	// service requests TLS.
	// Default: false
	Enabled bool

	// Email is the ACME account contact address.
	Email string

	// AutoRenew emits the long-running renewal loop when at least one
	// TLS service opts into renewal.
	// Default: false
	AutoRenew bool

	// RenewSchedule is a standard cron expression controlling how often
	// the renewal loop runs.
	// Default: "0 */12 * * *"
	RenewSchedule string

	// Image is the container image for both certbot processes.
	// Default: "certbot/certbot"
	Image string
}

// NetworkConfig identifies the shared container network.
type NetworkConfig struct {
	// Name is the external docker network name.
	// Default: "proxy-network"
	Name string
}

// Service is one backend the proxy routes to.
type Service struct {
	// Index is the 1-based ordinal from SERVICE_<n>_*; it fixes processing order.
	Index int

	// Name is the addressable hostname of the service inside the proxy network.
	Name string

	// Path is the normalised path route ("/" or "/segment" without a
	// trailing slash). Empty when the service is not path-routed.
	Path string

	// Port is the upstream port.
	Port int

	// Domain is the lower-cased virtual host name. Empty when the service
	// is not domain-routed.
	Domain string

	// SSL requests an encrypted listener for Domain.
	SSL bool

	// RateLimit opts the service into the global rate-limit zone.
	RateLimit bool

	// AccessLog and ErrorLog enable service-specific log directives.
	AccessLog bool
	ErrorLog  bool

	// LogPath overrides the global log base directory for this service.
	LogPath string

	// AutoRenew opts the service's certificate into the renewal loop.
	AutoRenew bool
}

// Upstream returns the proxy_pass base address of the service.
func (s Service) Upstream() string {
	return fmt.Sprintf("http://%s:%d", s.Name, s.Port)
}

// IsRoot reports whether the service binds the root path.
func (s Service) IsRoot() bool {
	return s.Path == RootPath
}

// HasPath reports whether the service contributes to path routing.
func (s Service) HasPath() bool {
	return s.Path != ""
}

// HasDomain reports whether the service contributes to domain routing.
func (s Service) HasDomain() bool {
	return s.Domain != ""
}

// String returns a short human-readable description of the service.
func (s Service) String() string {
	var parts []string
	if s.HasPath() {
		parts = append(parts, "path="+s.Path)
	}
	if s.HasDomain() {
		parts = append(parts, "domain="+s.Domain)
	}
	return fmt.Sprintf("#%d %s:%d (%s)", s.Index, s.Name, s.Port, strings.Join(parts, " "))
}

// FileLogging reports whether logs are written to files.
func (c *Config) FileLogging() bool {
	return c.Logging.Mode == LogModeFile
}
