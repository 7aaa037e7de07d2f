// Package configtest builds configuration environments for tests.
package configtest

import (
	"strconv"
	"testing"

	"proxyforge-hq/proxyforge/pkg/config"
)

// ServiceSpec describes one SERVICE_<n>_* block. Zero values are not written,
// so an empty Path or Domain leaves the key absent.
type ServiceSpec struct {
	Name      string
	Path      string
	Port      int
	Domain    string
	SSL       bool
	RateLimit bool
	AccessLog bool
	ErrorLog  bool
	LogPath   string
	AutoRenew bool
}

// Env provides a fluent API for building a config.MapSource. It starts from
// a valid environment with file logging under /var/log/nginx and no services.
type Env struct {
	src      config.MapSource
	services int
}

// NewEnv creates an Env holding every required global key.
func NewEnv() *Env {
	return &Env{
		src: config.MapSource{
			config.KeyServiceCount:        "0",
			config.KeyWorkerProcesses:     "auto",
			config.KeyWorkerConnections:   "1024",
			config.KeyKeepaliveTimeout:    "65",
			config.KeyClientMaxBodySize:   "10m",
			config.KeyProxyConnectTimeout: "60s",
			config.KeyProxyReadTimeout:    "60s",
			config.KeyProxySendTimeout:    "60s",
			config.KeyLogMode:             "file",
			config.KeyLogLevel:            "warn",
			config.KeyLogPath:             "/var/log/nginx",
		},
	}
}

// Set sets key to value.
func (e *Env) Set(key, value string) *Env {
	e.src[key] = value
	return e
}

// Unset removes key.
func (e *Env) Unset(key string) *Env {
	delete(e.src, key)
	return e
}

// WithStdoutLogging switches to stdout log mode and drops LOG_PATH.
func (e *Env) WithStdoutLogging() *Env {
	e.src[config.KeyLogMode] = string(config.LogModeStdout)
	delete(e.src, config.KeyLogPath)
	return e
}

// WithRateLimit enables the global rate-limit zone.
func (e *Env) WithRateLimit(zone, rate string, burst int) *Env {
	e.src[config.KeyRateLimitEnabled] = "true"
	e.src[config.KeyRateLimitZone] = zone
	e.src[config.KeyRateLimitRate] = rate
	e.src[config.KeyRateLimitBurst] = strconv.Itoa(burst)
	return e
}

// WithCertbot enables issuance and, when renew is true, the renewal loop.
func (e *Env) WithCertbot(email string, renew bool) *Env {
	e.src[config.KeyCertbotEnabled] = "true"
	e.src[config.KeyCertbotEmail] = email
	e.src[config.KeyCertbotAutoRenew] = strconv.FormatBool(renew)
	return e
}

// AddService appends a service block and bumps SERVICE_COUNT.
func (e *Env) AddService(s ServiceSpec) *Env {
	e.services++
	n := e.services
	e.src[config.KeyServiceCount] = strconv.Itoa(n)

	put := func(field config.ServiceField, v string) {
		if v != "" {
			e.src[config.ServiceKey(n, field)] = v
		}
	}
	putBool := func(field config.ServiceField, v bool) {
		if v {
			e.src[config.ServiceKey(n, field)] = "true"
		}
	}

	put(config.FieldName, s.Name)
	put(config.FieldPath, s.Path)
	if s.Port != 0 {
		put(config.FieldPort, strconv.Itoa(s.Port))
	}
	put(config.FieldDomain, s.Domain)
	put(config.FieldLogPath, s.LogPath)
	putBool(config.FieldSSL, s.SSL)
	putBool(config.FieldRateLimit, s.RateLimit)
	putBool(config.FieldAccessLog, s.AccessLog)
	putBool(config.FieldErrorLog, s.ErrorLog)
	putBool(config.FieldAutoRenew, s.AutoRenew)
	return e
}

// Source returns a copy of the environment.
func (e *Env) Source() config.MapSource {
	out := make(config.MapSource, len(e.src))
	for k, v := range e.src {
		out[k] = v
	}
	return out
}

// Build validates the environment and fails the test on error.
func (e *Env) Build(t testing.TB) *config.Config {
	t.Helper()
	cfg, err := config.Build(e.Source())
	if err != nil {
		t.Fatalf("config.Build() error = %v", err)
	}
	return cfg
}
